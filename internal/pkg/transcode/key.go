package transcode

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

const keyLength = 16 // AES-128

// EncryptionKey is a per-video HLS content key
type EncryptionKey struct {
	Raw      []byte
	Hex      string
	FilePath string
}

// newEncryptionKey generates a random AES-128 key and writes it where ffmpeg
// can read it during segmentation.
func newEncryptionKey(outputDir, identifier string) (*EncryptionKey, error) {
	raw := make([]byte, keyLength)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("failed to generate encryption key: %w", err)
	}

	filePath := filepath.Join(outputDir, "key-"+identifier+".bin")
	if err := os.WriteFile(filePath, raw, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write encryption key: %w", err)
	}

	return &EncryptionKey{
		Raw:      raw,
		Hex:      hex.EncodeToString(raw),
		FilePath: filePath,
	}, nil
}
