package security

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math/big"
)

var accessCodeCharset = []rune("ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")

// GenerateAccessCode returns a random uppercase alphanumeric code of the
// given length, suitable for sharing a private group.
func GenerateAccessCode(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("length must be positive")
	}

	result := make([]rune, length)
	for i := 0; i < length; i++ {
		idx, err := randInt(len(accessCodeCharset))
		if err != nil {
			return "", err
		}
		result[i] = accessCodeCharset[idx]
	}
	return string(result), nil
}

// GenerateInviteToken returns an opaque URL-safe token for invite links.
func GenerateInviteToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate invite token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func randInt(max int) (int, error) {
	if max <= 0 {
		return 0, fmt.Errorf("invalid max %d", max)
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()), nil
}
