// SPDX-License-Identifier: EPL-2.0

package caf

import (
	"encoding/binary"
	"io"
)

type FourByteString [4]byte

func NewFourByteStr(str string) FourByteString {
	if len(str) != 4 {
		panic("FourByteString must be 4 bytes")
	}
	res := FourByteString{}
	copy(res[:], str)
	return res
}

var (
	fileType  = NewFourByteStr("caff")
	chunkDesc = NewFourByteStr("desc")
	chunkData = NewFourByteStr("data")
	formatPCM = NewFourByteStr("lpcm")
)

// Linear PCM format flags of the desc chunk.
const (
	FlagIsFloat        uint32 = 1 << 0
	FlagIsLittleEndian uint32 = 1 << 1
)

type FileHeader struct {
	FileType    FourByteString
	FileVersion int16
	FileFlags   int16
}

type ChunkHeader struct {
	ChunkType FourByteString
	// ChunkSize is -1 for a data chunk whose length was never patched.
	ChunkSize int64
}

// AudioFormat is the body of the desc chunk.
type AudioFormat struct {
	SampleRate        float64
	FormatID          FourByteString
	FormatFlags       uint32
	BytesPerPacket    uint32
	FramesPerPacket   uint32
	ChannelsPerPacket uint32
	BitsPerChannel    uint32
}

const (
	fileHeaderSize  = 8
	chunkHeaderSize = 12
	descSize        = 32
	editCountSize   = 4
)

func (c *AudioFormat) decode(r io.Reader) error {
	return binary.Read(r, binary.BigEndian, c)
}

func (c *AudioFormat) encode(w io.Writer) error {
	return binary.Write(w, binary.BigEndian, c)
}

// IsPCM reports whether the desc chunk describes linear PCM.
func (c *AudioFormat) IsPCM() bool { return c.FormatID == formatPCM }

func (c *AudioFormat) littleEndian() bool { return c.FormatFlags&FlagIsLittleEndian != 0 }
func (c *AudioFormat) float() bool        { return c.FormatFlags&FlagIsFloat != 0 }
