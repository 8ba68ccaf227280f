// Package hourkey derives the fixed-width hour bucket keys used to name
// per-hour ledger and audit files. A key is the string YYYYMMDDHH; because
// every field is zero-padded, lexicographic order on keys equals
// chronological order.
package hourkey

import (
	"fmt"
	"time"
)

// Layout is the time.Format layout producing a bucket key.
const Layout = "2006010215"

// KeyLen is the fixed key width.
const KeyLen = 10

// FromTime returns the bucket key for the calendar hour containing t.
func FromTime(t time.Time) string {
	return t.Format(Layout)
}

// Parse converts a bucket key back to the start of its hour.
func Parse(key string) (time.Time, error) {
	if len(key) != KeyLen {
		return time.Time{}, fmt.Errorf("hour key %q: want %d digits", key, KeyLen)
	}
	t, err := time.Parse(Layout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("hour key %q: %w", key, err)
	}
	return t, nil
}

// Previous returns the key exactly one hour before key, rolling over day,
// month and year boundaries as needed.
func Previous(key string) (string, error) {
	t, err := Parse(key)
	if err != nil {
		return "", err
	}
	return FromTime(t.Add(-time.Hour)), nil
}

// Date returns the YYYYMMDD portion of a key.
func Date(key string) string {
	if len(key) < 8 {
		return key
	}
	return key[:8]
}

// Hour returns the HH portion of a key.
func Hour(key string) string {
	if len(key) != KeyLen {
		return ""
	}
	return key[8:]
}
