// Package bincfg implements a compact binary configuration format: a
// little-endian data blob with interned strings holding a hierarchical
// value model (booleans, signed 64-bit integers, 64-bit floats, UTF-8
// strings, ordered arrays, string-keyed tables).
//
// A Writer records a config depth-first and emits the blob; Validate
// decides whether an arbitrary byte buffer is a well-formed blob; Config,
// Table, Array and Value navigate a validated blob without copying.
// A mutable Tree representation converts to and from the blob form, and
// configs render to a Lua-style textual form.
package bincfg

import "github.com/scigolib/bincfg/internal/format"

// Config is an immutable binary config backed by a validated data blob.
//
// The blob must not be mutated or reallocated while the Config or any
// handle or string obtained from it is alive: readers keep direct views
// into it.
type Config struct {
	data []byte
}

// New validates data and wraps it in a Config. It returns an error
// wrapping ErrInvalidBinaryConfigData if data is not a well-formed blob,
// e.g. one produced by a Writer.
//
// The Config takes ownership of data; the caller must not modify it.
func New(data []byte) (*Config, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}
	return &Config{data: data}, nil
}

// NewUnchecked wraps data without validating it. The caller guarantees
// data is a well-formed blob; navigating an invalid blob through an
// unchecked Config may read out of bounds.
func NewUnchecked(data []byte) *Config {
	return &Config{data: data}
}

// Bytes returns the underlying blob.
func (c *Config) Bytes() []byte {
	return c.data
}

// Root returns the root table of the config.
func (c *Config) Root() Table {
	h := format.DecodeHeader(c.data)
	return Table{at: arrayOrTable{
		data:        c.data,
		keyTableOff: h.KeyTableOffset,
		keyTableLen: h.KeyTableLen,
		off:         format.HeaderSize,
		count:       h.RootLen,
	}}
}

// String renders the config as a Lua-style table, with keys sorted
// alphabetically.
func (c *Config) String() string {
	return c.LuaString()
}
