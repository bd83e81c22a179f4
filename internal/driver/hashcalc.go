package driver

import (
	"crypto/sha256"

	"pyrefs/internal/source"
)

// CacheKey identifies one extraction: content, resolver data and mode.
type CacheKey [32]byte

// cacheKey: H(content hash || fingerprint || quick). The entry schema is
// part of the cache path instead.
func cacheKey(f *source.File, fingerprint string, quick bool) CacheKey {
	h := sha256.New()
	_, _ = h.Write(f.Hash[:])
	_, _ = h.Write([]byte(fingerprint))
	if quick {
		_, _ = h.Write([]byte{1})
	} else {
		_, _ = h.Write([]byte{0})
	}
	var out CacheKey
	copy(out[:], h.Sum(nil))
	return out
}
