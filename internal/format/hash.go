package format

// FNV-1a parameters, 32-bit variant.
const (
	fnv1aSeed  uint32 = 0x811C9DC5
	fnv1aPrime uint32 = 0x01000193
)

// StringHash returns the 32-bit FNV-1a hash of the string's UTF-8 bytes.
// Table element slots persist this hash so readers can filter key lookups
// without re-hashing stored keys.
func StringHash(s string) uint32 {
	h := fnv1aSeed
	for i := 0; i < len(s); i++ {
		h = (h ^ uint32(s[i])) * fnv1aPrime
	}
	return h
}

// HashBytes is StringHash over a byte slice, for callers holding raw blob
// bytes.
func HashBytes(b []byte) uint32 {
	h := fnv1aSeed
	for _, c := range b {
		h = (h ^ uint32(c)) * fnv1aPrime
	}
	return h
}
