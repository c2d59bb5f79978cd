package model

import (
	"strconv"
	"strings"
	"time"
)

// Time accepts the mixed timestamp formats the backend emits. Unparseable
// values decode to the zero time rather than failing the whole payload.
type Time struct {
	time.Time
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (t *Time) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	t.Time = time.Time{}
	return nil
}

func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + t.Format(time.RFC3339) + `"`), nil
}

// Now wraps the current instant for locally synthesized messages.
func Now() Time {
	return Time{time.Now()}
}

// Relative renders an "Xm / Xh / Xd ago" style stamp for directory rows.
func (t Time) Relative(now time.Time) string {
	if t.IsZero() {
		return "now"
	}
	minutes := int(now.Sub(t.Time).Minutes())
	switch {
	case minutes < 1:
		return "now"
	case minutes < 60:
		return strconv.Itoa(minutes) + "m"
	case minutes < 24*60:
		return strconv.Itoa(minutes/60) + "h"
	case minutes < 7*24*60:
		return strconv.Itoa(minutes/(24*60)) + "d"
	}
	return t.Format("02/01/2006")
}
