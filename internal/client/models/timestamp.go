package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// ServerTimeLayout is the layout the bank API uses for timestamps.
const ServerTimeLayout = "2006-01-02 15:04:05"

var timestampLayouts = []string{
	ServerTimeLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	time.DateOnly,
}

// Timestamp is a time that accepts the server layout, RFC 3339 and bare dates.
// Values without a zone are interpreted in local time.
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

func ParseTimestamp(s string) (Timestamp, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return Timestamp{Time: t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("unsupported timestamp %q", s)
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*t = Timestamp{}
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	if s == "" {
		*t = Timestamp{}
		return nil
	}

	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(ServerTimeLayout))
}

func (t Timestamp) String() string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(ServerTimeLayout)
}

// Equal reports whether both timestamps are the same instant.
func (t Timestamp) Equal(u Timestamp) bool {
	return t.Time.Equal(u.Time)
}
