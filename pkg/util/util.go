// Package util holds small shared helpers: identifiers, hashing, filename
// sanitization and retry with backoff.
package util

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"os"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
)

// GenerateID returns a URL-safe random identifier of the given length, with
// an optional prefix. Length defaults to 8 when non-positive.
func GenerateID(prefix string, length int) string {
	if length <= 0 {
		length = 8
	}
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the platform entropy source is broken.
		panic(err)
	}
	id := base64.RawURLEncoding.EncodeToString(buf)[:length]
	return prefix + id
}

// HashString returns the hex-encoded SHA-256 digest of value.
func HashString(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

// UTCNow returns the current time in UTC.
func UTCNow() time.Time {
	return time.Now().UTC()
}

// SafeFilename reduces a string to characters safe in filenames. Spaces and
// tabs become underscores, anything else non-alphanumeric (besides ._-) is
// dropped, and a leading dot is replaced so the result is never hidden.
func SafeFilename(filename string) string {
	var b strings.Builder
	for _, r := range filename {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			b.WriteRune(r)
		case r == ' ', r == '\t':
			b.WriteByte('_')
		}
	}
	result := b.String()
	if strings.HasPrefix(result, ".") {
		result = "_" + result[1:]
	}
	if result == "" {
		return "unnamed"
	}
	return result
}

// EnsureDirectory creates the directory (and parents) if missing.
func EnsureDirectory(path string) error {
	return os.MkdirAll(path, 0o755)
}

// Retry runs fn up to attempts times with exponential backoff starting at
// delay, stopping early when the context is cancelled.
func Retry(ctx context.Context, attempts uint, delay time.Duration, fn func() error) error {
	return retry.Do(
		fn,
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
}
