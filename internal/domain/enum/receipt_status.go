package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// ReceiptStatus represents the settlement status of a receipt
type ReceiptStatus int

const (
	ReceiptStatusPending   ReceiptStatus = 0
	ReceiptStatusPartial   ReceiptStatus = 1
	ReceiptStatusPaid      ReceiptStatus = 2
	ReceiptStatusOverdue   ReceiptStatus = 3
	ReceiptStatusCancelled ReceiptStatus = 4
	ReceiptStatusWaived    ReceiptStatus = 5
)

func (s ReceiptStatus) String() string {
	names := [...]string{"Pending", "Partial", "Paid", "Overdue", "Cancelled", "Waived"}
	if int(s) < 0 || int(s) >= len(names) {
		return "Unknown"
	}
	return names[s]
}

// IsTerminal reports whether the status admits no further mutation.
// Paid and Cancelled receipts are frozen; Waived receipts may still be
// reinstated by an administrator.
func (s ReceiptStatus) IsTerminal() bool {
	return s == ReceiptStatusPaid || s == ReceiptStatusCancelled
}

// IsAdministrative reports whether the status is an administrative
// override rather than one derived from balances.
func (s ReceiptStatus) IsAdministrative() bool {
	return s == ReceiptStatusCancelled || s == ReceiptStatusWaived
}

// ParseReceiptStatus parses a status name as used in query filters
func ParseReceiptStatus(s string) (ReceiptStatus, bool) {
	switch s {
	case "pending", "Pending":
		return ReceiptStatusPending, true
	case "partial", "Partial":
		return ReceiptStatusPartial, true
	case "paid", "Paid":
		return ReceiptStatusPaid, true
	case "overdue", "Overdue":
		return ReceiptStatusOverdue, true
	case "cancelled", "Cancelled":
		return ReceiptStatusCancelled, true
	case "waived", "Waived":
		return ReceiptStatusWaived, true
	}
	return ReceiptStatusPending, false
}

func (s ReceiptStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *ReceiptStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = ReceiptStatus(i)
		return nil
	}
	switch str {
	case "Pending":
		*s = ReceiptStatusPending
	case "Partial":
		*s = ReceiptStatusPartial
	case "Paid":
		*s = ReceiptStatusPaid
	case "Overdue":
		*s = ReceiptStatusOverdue
	case "Cancelled":
		*s = ReceiptStatusCancelled
	case "Waived":
		*s = ReceiptStatusWaived
	}
	return nil
}

func (s ReceiptStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *ReceiptStatus) Scan(value interface{}) error {
	if value == nil {
		*s = ReceiptStatusPending
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = ReceiptStatus(v)
	case int:
		*s = ReceiptStatus(v)
	}
	return nil
}
