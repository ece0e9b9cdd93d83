package sqlite

import "time"

const rfc3339 = time.RFC3339

func parseRFC3339(value string) (time.Time, error) {
	return time.Parse(rfc3339, value)
}
