package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// SummaryKey derives a stable cache key for one summarization request.
// The key covers everything that changes the output: the text itself,
// the language, the format, the length target and the generator. The
// generator tag distinguishes provider/model combinations, so a result
// produced without a provider is never served once one is configured.
func SummaryKey(text, lang, format string, targetChars int, generator string) string {
	h := sha256.New()
	h.Write([]byte(text))
	fmt.Fprintf(h, "|%s|%s|%d|%s", lang, format, targetChars, generator)
	return "konspekt:v2:" + hex.EncodeToString(h.Sum(nil))
}

// PageKey generates a cache key for a fetched page
func PageKey(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "konspekt:page:v1:" + hex.EncodeToString(hash[:])
}

// NewDefault creates the standard layered (memory + disk) result cache.
// An empty dir falls back to ~/.konspekt/cache.
func NewDefault(dir string, ttl time.Duration) Cache {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		dir = filepath.Join(home, ".konspekt", "cache")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return NewLayeredCache(ttl, dir, ttl)
}
