package sale

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var receiptPattern = regexp.MustCompile(`^RCP-\d{8}-[A-Z0-9]{8}$`)

func TestNewReceiptNumber_Format(t *testing.T) {
	// 07:30 in Manila is still the previous day in UTC.
	manila := time.FixedZone("PHT", 8*60*60)
	at := time.Date(2026, 3, 2, 7, 30, 0, 0, manila)

	got := NewReceiptNumber(at)
	require.Regexp(t, receiptPattern, got)
	assert.Equal(t, "RCP-20260301-", got[:13])
}

func TestNewReceiptNumber_Unique(t *testing.T) {
	now := time.Now()
	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		r := NewReceiptNumber(now)
		_, dup := seen[r]
		require.False(t, dup, "duplicate receipt %s", r)
		seen[r] = struct{}{}
	}
}

func TestAppendReceiptSymbols_SkipsBiasedBytes(t *testing.T) {
	got := appendReceiptSymbols(nil, []byte{252, 255, 0, 35, 36, 251, 253, 1, 2, 3, 4, 5})
	assert.Equal(t, "A9A9BCDE", string(got))

	partial := appendReceiptSymbols(nil, []byte{254, 26})
	assert.Equal(t, "0", string(partial))
	assert.Equal(t, "0ABCDEFG", string(appendReceiptSymbols(partial, []byte{0, 1, 2, 3, 4, 5, 6, 7, 8})))
}
