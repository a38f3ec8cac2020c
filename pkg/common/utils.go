package common

import (
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
)

const referenceChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateTrxNo returns a short human-readable reference for ledger entries.
func GenerateTrxNo() string {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	result := make([]byte, 10)
	for i := range result {
		result[i] = referenceChars[r.Intn(len(referenceChars))]
	}
	return string(result)
}

// GenerateReferralCode returns an 8-char shareable code issued at signup.
func GenerateReferralCode() string {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	result := make([]byte, 8)
	for i := range result {
		result[i] = referenceChars[r.Intn(len(referenceChars))]
	}
	return string(result)
}

// NewOrderNo returns a globally unique order number.
func NewOrderNo() string {
	return "ORD-" + strings.ToUpper(uuid.New().String()[:13])
}

// NewPayoutReference returns a unique reference attached to an approved
// withdrawal so the disbursement job and the request row can be correlated.
func NewPayoutReference() string {
	return "PAY-" + strings.ToUpper(uuid.New().String()[:13])
}
