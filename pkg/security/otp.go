package security

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	otpLow  = 100000
	otpSpan = 900000
)

// GenerateOTP returns a uniformly random six digit code in [100000, 999999].
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpSpan))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+otpLow), nil
}
