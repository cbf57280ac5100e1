package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
)

// GenerateOTP returns a uniformly random 6-digit code (100000-999999).
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// otpHasher derives the stored form of a reset code: HMAC-SHA256(key, username|otp).
type otpHasher struct {
	key []byte
}

func (h otpHasher) hash(username, otp string) string {
	mac := hmac.New(sha256.New, h.key)
	mac.Write([]byte(username))
	mac.Write([]byte{0})
	mac.Write([]byte(otp))
	return hex.EncodeToString(mac.Sum(nil))
}
