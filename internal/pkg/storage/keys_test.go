package storage

import (
	"strings"
	"testing"
)

func TestNewObjectKey(t *testing.T) {
	data := []byte("photo bytes")

	key := NewObjectKey(data, ".jpg")
	if !strings.HasPrefix(key, "photos/") {
		t.Fatalf("key = %q, want photos/ prefix", key)
	}
	if !strings.HasSuffix(key, ".jpg") {
		t.Fatalf("key = %q, want .jpg suffix", key)
	}

	base := strings.TrimSuffix(strings.TrimPrefix(key, "photos/"), ".jpg")
	parts := strings.Split(base, "-")
	if len(parts) != 3 {
		t.Fatalf("key %q has %d segments, want timestamp-random-hash", key, len(parts))
	}
	if len(parts[2]) != 8 {
		t.Fatalf("hash segment %q, want 8 hex chars", parts[2])
	}

	t.Run("same bytes share the hash segment", func(t *testing.T) {
		other := NewObjectKey(data, ".jpg")
		if other == key {
			t.Fatal("two keys for the same data are identical")
		}
		otherHash := strings.Split(strings.TrimSuffix(strings.TrimPrefix(other, "photos/"), ".jpg"), "-")[2]
		if otherHash != parts[2] {
			t.Fatalf("hash segments differ for identical data: %q vs %q", otherHash, parts[2])
		}
	})

	t.Run("different bytes change the hash segment", func(t *testing.T) {
		other := NewObjectKey([]byte("different bytes"), ".jpg")
		otherHash := strings.Split(strings.TrimSuffix(strings.TrimPrefix(other, "photos/"), ".jpg"), "-")[2]
		if otherHash == parts[2] {
			t.Fatal("hash segment identical for different data")
		}
	})
}
