package utils

import (
	"strings"
	"testing"
)

func TestGenerateApiKey(t *testing.T) {
	key, err := GenerateApiKey(32)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if !strings.HasPrefix(key, "cc_") {
		t.Errorf("key %q missing prefix", key)
	}
	if len(key) != len("cc_")+32 {
		t.Errorf("key length %d", len(key))
	}

	other, err := GenerateApiKey(32)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if key == other {
		t.Error("two generated keys collided")
	}
}
