package common

import "crypto/rand"

// GenerateRandByteArray returns size bytes read from crypto/rand.
func GenerateRandByteArray(size int) []byte {
	b := make([]byte, size)
	// crypto/rand.Read never returns an error since Go 1.24.
	_, _ = rand.Read(b)
	return b
}

// WipeByteArray overwrites the contents of b with zeros. Used to drop key
// material from memory once it has been handed to the cipher.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
