package bsapi

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// bareDateValue matches a colon, optional whitespace and an unquoted date or
// date-time literal, e.g. `"full": 2024-04-13` or `:2024-04-13T06:00:00+05:45`.
var bareDateValue = regexp.MustCompile(`(:\s*)(\d{4}-\d{1,2}-\d{1,2}(?:T[^\s",}\]]*)?)`)

// RepairJSON quotes bare date literals that appear as object values.
// The pass is deterministic and leaves already-quoted values untouched.
func RepairJSON(body []byte) []byte {
	return bareDateValue.ReplaceAll(body, []byte(`${1}"${2}"`))
}

// Decode parses a month payload. When the body is not valid JSON, it is
// repaired once with RepairJSON and parsed again; the second error is returned
// if that also fails.
func Decode(body []byte) ([]RawDay, error) {
	var days []RawDay
	if err := json.Unmarshal(body, &days); err == nil {
		return days, nil
	}

	days = nil
	if err := json.Unmarshal(RepairJSON(body), &days); err != nil {
		return nil, fmt.Errorf("unparseable month payload: %w", err)
	}
	return days, nil
}
