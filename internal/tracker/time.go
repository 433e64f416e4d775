package tracker

import "time"

// timeLayouts covers the timestamp encodings the four backends emit.
// JIRA uses millisecond offsets without a colon; the Git forges RFC 3339.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05-0700",
	"2006-01-02 15:04:05 -0700 MST",
	"2006-01-02",
}

// ParseTime decodes a backend timestamp string. An empty or unparseable
// value is a ValidationError since every dated entity requires a valid
// creation time.
func ParseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, Validationf("created timestamp must not be empty")
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, Validationf("unrecognized timestamp: %q", s)
}
