package audio

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"lukechampine.com/blake3"
)

// HashFile returns the hex-encoded BLAKE3-256 digest of the file at path.
// Used as a stable content identifier for recordings in report metadata and
// as a dedup key in the report archive.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("audio: hash %q: %w", path, err)
	}
	defer f.Close()

	h := blake3.New(32, nil)
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("audio: hash %q: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
