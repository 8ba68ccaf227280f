package hourkey

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromTime(t *testing.T) {
	ts := time.Date(2025, 6, 1, 12, 34, 56, 0, time.UTC)
	assert.Equal(t, "2025060112", FromTime(ts))
}

func TestFromTime_ZeroPadding(t *testing.T) {
	ts := time.Date(2025, 1, 2, 3, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025010203", FromTime(ts))
}

func TestPrevious(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{"same day", "2025060112", "2025060111"},
		{"midnight to previous day", "2025060100", "2025053123"},
		{"month rollover", "2025070100", "2025063023"},
		{"year rollover", "2025010100", "2024123123"},
		{"leap february", "2024030100", "2024022923"},
		{"non-leap february", "2025030100", "2025022823"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Previous(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrevious_Invalid(t *testing.T) {
	for _, key := range []string{"", "2025", "20250601123", "20250601xx"} {
		_, err := Previous(key)
		assert.Error(t, err, "key %q", key)
	}
}

func TestPrevious_MatchesTimeArithmetic(t *testing.T) {
	ts := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 72; i++ {
		key := FromTime(ts)
		prev, err := Previous(key)
		require.NoError(t, err)
		assert.Equal(t, FromTime(ts.Add(-time.Hour)), prev, "key %s", key)
		ts = ts.Add(time.Hour)
	}
}

func TestDateHour(t *testing.T) {
	assert.Equal(t, "20250601", Date("2025060112"))
	assert.Equal(t, "12", Hour("2025060112"))
}
