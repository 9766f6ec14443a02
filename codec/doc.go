// SPDX-License-Identifier: EPL-2.0

// Package codec composes several codec backends into the single Prober and
// Transcoder a convert.Planner works with.
//
// Chain asks each prober in turn and moves on when one reports ErrSkip.
// Router hands every transcode to the first Backend that supports the
// strategy and the source/destination kinds.
package codec
