package entity

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Timestamp is a point in time stored as epoch milliseconds.
// Decoding also accepts RFC 3339 strings written by older exports.
type Timestamp struct {
	time.Time
}

// NewTimestamp truncates t to millisecond precision.
func NewTimestamp(t time.Time) Timestamp {
	if t.IsZero() {
		return Timestamp{}
	}
	return Timestamp{Time: time.UnixMilli(t.UnixMilli())}
}

// Now returns the current time as a Timestamp.
func Now() Timestamp {
	return NewTimestamp(time.Now())
}

// Millis returns the epoch milliseconds, or 0 for the zero value.
func (t Timestamp) Millis() int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(t.Millis(), 10)), nil
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = Timestamp{}
		return nil
	}
	var ms float64
	if err := json.Unmarshal(data, &ms); err == nil {
		if ms <= 0 {
			*t = Timestamp{}
			return nil
		}
		*t = Timestamp{Time: time.UnixMilli(int64(ms))}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: timestamp %s", ErrInvalidFormat, string(data))
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("%w: timestamp %q", ErrInvalidFormat, s)
	}
	*t = NewTimestamp(parsed)
	return nil
}

// MarshalYAML keeps YAML exports in the same millisecond form as JSON.
func (t Timestamp) MarshalYAML() (any, error) {
	return t.Millis(), nil
}
