package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// FlexID is an opaque identifier that the backend transmits either as a
// JSON number (auto-increment rows) or a string (UUIDs, composite ids).
// It normalizes to a string at the boundary; the string-or-number
// ambiguity never propagates past it.
type FlexID string

func (id *FlexID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*id = FlexID(n.String())
		return nil
	}
	return fmt.Errorf("id is neither string nor number: %s", data)
}

func (id FlexID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(id))
}

func (id FlexID) String() string { return string(id) }

// Int returns the numeric value of the id, or ok=false for non-numeric
// ids.
func (id FlexID) Int() (int64, bool) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
