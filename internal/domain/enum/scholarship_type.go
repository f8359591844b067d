package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// ScholarshipType distinguishes percentage-based becas from fixed-amount
// convenios. The two are mutually exclusive on a single agreement.
type ScholarshipType int

const (
	ScholarshipTypePercentage ScholarshipType = 0
	ScholarshipTypeFixed      ScholarshipType = 1
)

func (t ScholarshipType) String() string {
	names := [...]string{"Percentage", "Fixed"}
	if int(t) < 0 || int(t) >= len(names) {
		return "Unknown"
	}
	return names[t]
}

func (t ScholarshipType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *ScholarshipType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = ScholarshipType(i)
		return nil
	}
	switch str {
	case "Percentage":
		*t = ScholarshipTypePercentage
	case "Fixed":
		*t = ScholarshipTypeFixed
	}
	return nil
}

func (t ScholarshipType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *ScholarshipType) Scan(value interface{}) error {
	if value == nil {
		*t = ScholarshipTypePercentage
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = ScholarshipType(v)
	case int:
		*t = ScholarshipType(v)
	}
	return nil
}
