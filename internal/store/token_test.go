package store

import (
	"encoding/hex"
	"testing"
)

func TestNewToken(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 100; i++ {
		token, err := newToken()
		if err != nil {
			t.Fatalf("newToken: %v", err)
		}

		if len(token) != 64 {
			t.Fatalf("token length = %d, want 64 hex chars", len(token))
		}
		if _, err := hex.DecodeString(token); err != nil {
			t.Fatalf("token %q is not hex: %v", token, err)
		}
		if seen[token] {
			t.Fatalf("token %q repeated", token)
		}
		seen[token] = true
	}
}
