// Package record models a wheel's RECORD manifest: hashing installed files,
// reading and atomically rewriting the manifest, and enumerating the paths an
// uninstall has to remove.
package record

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
)

const (
	// Algorithm is the digest algorithm written into RECORD rows.
	Algorithm = "sha256"

	// BlockSize is the read size used while hashing.
	BlockSize = 1 << 20
)

// HashFile streams the file at path through sha256 and returns the RECORD
// digest ("sha256=<urlsafe base64, unpadded>") together with the number of
// bytes read.
func HashFile(path string) (string, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("opening %s for hashing: %w", path, err)
	}
	defer file.Close()

	h := sha256.New()
	buf := make([]byte, BlockSize)
	var length int64
	for {
		n, err := file.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
			length += int64(n)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", 0, fmt.Errorf("hashing %s: %w", path, err)
		}
	}

	return FormatDigest(h.Sum(nil)), length, nil
}

// FormatDigest encodes a raw sha256 sum in RECORD form.
func FormatDigest(sum []byte) string {
	return Algorithm + "=" + base64.RawURLEncoding.EncodeToString(sum)
}
