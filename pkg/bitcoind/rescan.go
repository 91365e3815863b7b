package bitcoind

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidRescanSince ...
var ErrInvalidRescanSince = errors.New("rescan start point must be \"now\" or a unix timestamp")

// RescanSince is the rescan start point accepted by import calls: either the
// literal "now" (skip the history scan) or a UNIX timestamp to scan from.
type RescanSince struct {
	Now       bool
	Timestamp int64
}

// RescanNow skips rescanning history for imported entries.
var RescanNow = RescanSince{Now: true}

// RescanSinceTime rescans history starting at the given UNIX timestamp.
func RescanSinceTime(timestamp int64) RescanSince {
	return RescanSince{Timestamp: timestamp}
}

// ParseRescanSince parses the textual form used on the command line and in
// the environment: the literal "now" or a non-negative decimal timestamp.
func ParseRescanSince(s string) (RescanSince, error) {
	if s == "now" {
		return RescanNow, nil
	}
	timestamp, err := strconv.ParseInt(s, 10, 64)
	if err != nil || timestamp < 0 {
		return RescanSince{}, fmt.Errorf("%w, got %q", ErrInvalidRescanSince, s)
	}
	return RescanSinceTime(timestamp), nil
}

func (r RescanSince) String() string {
	if r.Now {
		return "now"
	}
	return fmt.Sprintf("%d", r.Timestamp)
}

// MarshalJSON implements json.Marshaler.
func (r RescanSince) MarshalJSON() ([]byte, error) {
	if r.Now {
		return json.Marshal("now")
	}
	return json.Marshal(r.Timestamp)
}

// UnmarshalJSON implements json.Unmarshaler, accepting either the "now"
// literal or a non-negative integer timestamp and rejecting anything else.
func (r *RescanSince) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		if str == "now" {
			*r = RescanSince{Now: true}
			return nil
		}
		return fmt.Errorf("%w, got %q", ErrInvalidRescanSince, str)
	}

	var timestamp int64
	if err := json.Unmarshal(data, &timestamp); err != nil {
		return fmt.Errorf("%w, got %s", ErrInvalidRescanSince, data)
	}
	if timestamp < 0 {
		return fmt.Errorf("%w, got %d", ErrInvalidRescanSince, timestamp)
	}
	*r = RescanSince{Timestamp: timestamp}
	return nil
}
