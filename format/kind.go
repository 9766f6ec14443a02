// SPDX-License-Identifier: EPL-2.0

package format

import (
	"path/filepath"
	"strings"
)

// Kind is a container/codec tag. The value is the lowercase file extension
// without the leading dot.
type Kind string

// Recognized kinds.
const (
	WAV  Kind = "wav"
	AIF  Kind = "aif"
	AIFF Kind = "aiff"
	AIFC Kind = "aifc"
	CAF  Kind = "caf"

	M4A Kind = "m4a"
	M4V Kind = "m4v"
	MP3 Kind = "mp3"
	MP4 Kind = "mp4"
	AAC Kind = "aac"
	MOV Kind = "mov"
	TS  Kind = "ts"
	SD2 Kind = "sd2"
	AU  Kind = "au"
	SND Kind = "snd"
	OGG Kind = "ogg"

	// Unknown is accepted as an input only; the decoder may still be able
	// to introspect the file contents.
	Unknown Kind = "unknown"
)

type category uint8

const (
	categoryNone category = iota
	categoryPCM
	categoryCompressed
)

// kinds lists every tag in a stable order together with its category.
var kinds = []struct {
	kind Kind
	cat  category
}{
	{WAV, categoryPCM},
	{AIF, categoryPCM},
	{AIFF, categoryPCM},
	{AIFC, categoryPCM},
	{CAF, categoryPCM},
	{M4A, categoryCompressed},
	{M4V, categoryCompressed},
	{MP3, categoryCompressed},
	{MP4, categoryCompressed},
	{AAC, categoryCompressed},
	{MOV, categoryCompressed},
	{TS, categoryCompressed},
	{SD2, categoryCompressed},
	{AU, categoryCompressed},
	{SND, categoryCompressed},
	{OGG, categoryCompressed},
	{Unknown, categoryNone},
}

var byTag = func() map[Kind]category {
	m := make(map[Kind]category, len(kinds))
	for _, k := range kinds {
		m[k.kind] = k.cat
	}
	return m
}()

// FromExtension maps an extension (with or without the leading dot, any
// case) to its Kind. Anything unrecognized yields Unknown.
func FromExtension(ext string) Kind {
	ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	if _, ok := byTag[Kind(ext)]; ok {
		return Kind(ext)
	}
	return Unknown
}

// FromPath returns the Kind of path's extension.
func FromPath(path string) Kind {
	return FromExtension(filepath.Ext(path))
}

// Valid reports whether k is one of the recognized tags, Unknown included.
func (k Kind) Valid() bool {
	_, ok := byTag[k]
	return ok
}

// IsPCM reports whether k is a container that can hold linear PCM.
func (k Kind) IsPCM() bool { return byTag[k] == categoryPCM }

// IsCompressed reports whether k is a compressed container.
func (k Kind) IsCompressed() bool { return byTag[k] == categoryCompressed }

// BigEndian reports whether PCM data in a container of kind k is stored
// big-endian.
func (k Kind) BigEndian() bool {
	switch k {
	case AIF, AIFF, AIFC, CAF, AU, SND:
		return true
	}
	return false
}

func (k Kind) String() string { return string(k) }

// InputKinds returns every kind accepted as a conversion source.
func InputKinds() []Kind {
	out := make([]Kind, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, k.kind)
	}
	return out
}

// OutputKinds returns every kind a conversion can produce.
func OutputKinds() []Kind {
	out := make([]Kind, 0, len(kinds))
	for _, k := range kinds {
		if k.cat != categoryNone {
			out = append(out, k.kind)
		}
	}
	return out
}

// IsInput reports whether k may be used as a source kind.
func IsInput(k Kind) bool { return k.Valid() }

// IsOutput reports whether k may be used as a destination kind.
func IsOutput(k Kind) bool { return k.IsPCM() || k.IsCompressed() }
