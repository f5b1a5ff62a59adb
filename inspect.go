package bincfg

import "github.com/scigolib/bincfg/internal/format"

// Info describes the section layout of a validated blob.
type Info struct {
	BlobSize            uint32
	RootLen             uint32
	KeyTableOffset      uint32
	KeyTableLen         uint32
	StringSectionOffset uint32
	StringSectionSize   uint32
}

// Inspect returns the section layout of the config's blob.
func Inspect(c *Config) Info {
	h := format.DecodeHeader(c.data)
	stringStart := h.KeyTableOffset + h.KeyTableLen*format.KeyEntrySize

	return Info{
		BlobSize:            uint32(len(c.data)),
		RootLen:             h.RootLen,
		KeyTableOffset:      h.KeyTableOffset,
		KeyTableLen:         h.KeyTableLen,
		StringSectionOffset: stringStart,
		StringSectionSize:   uint32(len(c.data)) - stringStart,
	}
}
