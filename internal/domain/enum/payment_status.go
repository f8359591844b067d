package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// PaymentStatus represents the lifecycle state of a registered payment.
// A payment is created Confirmed (or Pending when taken offline) and may
// only ever transition to Void.
type PaymentStatus int

const (
	PaymentStatusPending   PaymentStatus = 0
	PaymentStatusConfirmed PaymentStatus = 1
	PaymentStatusVoid      PaymentStatus = 2
)

func (s PaymentStatus) String() string {
	names := [...]string{"Pending", "Confirmed", "Void"}
	if int(s) < 0 || int(s) >= len(names) {
		return "Unknown"
	}
	return names[s]
}

// ParsePaymentStatus parses a status name as used in query filters
func ParsePaymentStatus(s string) (PaymentStatus, bool) {
	switch s {
	case "pending", "Pending":
		return PaymentStatusPending, true
	case "confirmed", "Confirmed":
		return PaymentStatusConfirmed, true
	case "void", "Void":
		return PaymentStatusVoid, true
	}
	return PaymentStatusPending, false
}

func (s PaymentStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *PaymentStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = PaymentStatus(i)
		return nil
	}
	switch str {
	case "Pending":
		*s = PaymentStatusPending
	case "Confirmed":
		*s = PaymentStatusConfirmed
	case "Void":
		*s = PaymentStatusVoid
	}
	return nil
}

func (s PaymentStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *PaymentStatus) Scan(value interface{}) error {
	if value == nil {
		*s = PaymentStatusPending
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = PaymentStatus(v)
	case int:
		*s = PaymentStatus(v)
	}
	return nil
}
