package dto

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// layouts accepted for client-supplied timestamps, tried in order.
var flexTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FlexTime is a timestamp that unmarshals from any reasonable date-like JSON
// input: RFC3339 strings, date-only strings, and epoch seconds/milliseconds.
// Values normalise to UTC.
type FlexTime struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *FlexTime) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}

	if !strings.HasPrefix(raw, `"`) {
		epoch, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("unrecognized timestamp %s", raw)
		}
		// Heuristic: values past the year 33658 in seconds are milliseconds.
		if epoch > 1e12 {
			t.Time = time.UnixMilli(epoch).UTC()
		} else {
			t.Time = time.Unix(epoch, 0).UTC()
		}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for _, layout := range flexTimeLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}
