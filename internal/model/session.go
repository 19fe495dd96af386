package model

import (
	"fmt"
	"math/rand/v2"
	"time"
)

const sessionSuffixAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewSessionID returns a storage partition key of the form user_<millis>_<9 base36 chars>.
func NewSessionID(now time.Time) string {
	suffix := make([]byte, 9)
	for i := range suffix {
		suffix[i] = sessionSuffixAlphabet[rand.IntN(len(sessionSuffixAlphabet))]
	}
	return fmt.Sprintf("user_%d_%s", now.UnixMilli(), suffix)
}
