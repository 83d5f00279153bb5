package otpcode

import (
	"crypto/rand"
	"math/big"
	"strconv"
)

const (
	min = 100000
	max = 999999
)

// Generator produces one-time numeric codes.
type Generator interface {
	Generate() (string, error)
}

// Random samples codes uniformly from 100000..999999, so every code is six
// digits with no leading zero.
type Random struct{}

// NewRandom returns a crypto/rand backed generator.
func NewRandom() *Random {
	return &Random{}
}

// Generate returns a new six-digit code.
func (*Random) Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(max-min+1))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+min, 10), nil
}
