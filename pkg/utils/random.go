package utils

import (
	"crypto/rand"
	"math/big"
)

const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateRandomID generates a random string of length n
func GenerateRandomID(n int) string {
	b := make([]byte, n)
	for i := range b {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return ""
		}
		b[i] = charset[num.Int64()]
	}
	return string(b)
}

// PrefixedID returns "<prefix>_<n random chars>", the shape of page and
// group public IDs.
func PrefixedID(prefix string, n int) string {
	return prefix + "_" + GenerateRandomID(n)
}
