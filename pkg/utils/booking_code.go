package utils

import (
	"fmt"
	"math/rand"
	"time"
)

const (
	bookingCodeAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	bookingTokenLength  = 9
)

// NewBookingCode generates the user-visible code issued at reservation
// creation: LOC-<unix-ms>-<9-char base36 token>. Uniqueness is probabilistic;
// the booking_code column carries a unique index as a backstop.
func NewBookingCode() string {
	token := make([]byte, bookingTokenLength)
	for i := range token {
		token[i] = bookingCodeAlphabet[rand.Intn(len(bookingCodeAlphabet))]
	}
	return fmt.Sprintf("LOC-%d-%s", time.Now().UnixMilli(), token)
}
