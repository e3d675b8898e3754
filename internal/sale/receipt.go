package sale

import (
	"time"

	"github.com/google/uuid"
)

const (
	receiptAlphabet  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	receiptSuffixLen = 8

	// Largest multiple of len(receiptAlphabet) that fits in a byte. Bytes at
	// or above it are discarded so every symbol is equally likely.
	receiptByteLimit = 256 - 256%len(receiptAlphabet)
)

// NewReceiptNumber returns RCP-<UTC YYYYMMDD>-<8 uppercase alphanumerics>.
// Uniqueness is enforced by the database; callers do not retry.
func NewReceiptNumber(now time.Time) string {
	suffix := make([]byte, 0, receiptSuffixLen)
	for len(suffix) < receiptSuffixLen {
		id := uuid.New()
		// Bytes 6 and 8 carry the UUID version and variant bits.
		suffix = appendReceiptSymbols(suffix, append(id[0:6:6], id[9:16]...))
	}
	return "RCP-" + now.UTC().Format("20060102") + "-" + string(suffix)
}

// appendReceiptSymbols maps random bytes onto the receipt alphabet until dst
// is full, skipping bytes that would bias the result.
func appendReceiptSymbols(dst, random []byte) []byte {
	for _, b := range random {
		if len(dst) == receiptSuffixLen {
			break
		}
		if int(b) >= receiptByteLimit {
			continue
		}
		dst = append(dst, receiptAlphabet[int(b)%len(receiptAlphabet)])
	}
	return dst
}
