package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

func scanInt(value string, dst *int) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("parsing integer setting %q: %w", value, err)
	}
	*dst = n
	return n, nil
}

func formatInt(n int) string {
	return strconv.Itoa(n)
}

func parseWeekdayList(value string) []time.Weekday {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	days := make([]time.Weekday, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > 6 {
			continue
		}
		days = append(days, time.Weekday(n))
	}
	return days
}

func formatWeekdayList(days []time.Weekday) string {
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(int(d))
	}
	return strings.Join(parts, ",")
}
