package storage

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

// NewObjectKey builds a collision-safe object key: a millisecond timestamp
// keeps listings roughly chronological, the random component separates
// simultaneous uploads, and the content hash ties the key to the bytes so
// re-uploads of the same file are recognizable.
func NewObjectKey(data []byte, ext string) string {
	sum := blake2b.Sum256(data)
	return fmt.Sprintf("photos/%d-%s-%s%s",
		time.Now().UnixMilli(),
		uuid.New().String()[:8],
		hex.EncodeToString(sum[:4]),
		ext,
	)
}
