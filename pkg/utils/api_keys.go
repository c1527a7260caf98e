package utils

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const apiKeyAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateApiKey returns a url-safe random key for dashboard API access.
func GenerateApiKey(length int) (string, error) {
	key, err := gonanoid.Generate(apiKeyAlphabet, length)
	if err != nil {
		return "", err
	}
	return "cc_" + key, nil
}
