package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// PaymentMethod represents how a payment was tendered at the cashier desk
type PaymentMethod int

const (
	PaymentMethodCash     PaymentMethod = 0
	PaymentMethodTransfer PaymentMethod = 1
	PaymentMethodCard     PaymentMethod = 2
)

func (m PaymentMethod) String() string {
	names := [...]string{"cash", "transfer", "card"}
	if int(m) < 0 || int(m) >= len(names) {
		return "unknown"
	}
	return names[m]
}

// IsValid reports whether the method is one the cash-cut aggregator can bucket
func (m PaymentMethod) IsValid() bool {
	return m >= PaymentMethodCash && m <= PaymentMethodCard
}

// ParsePaymentMethod resolves a method from its wire name. The Spanish
// aliases are accepted because front-desk clients send them.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch s {
	case "cash", "efectivo":
		return PaymentMethodCash, true
	case "transfer", "transferencia":
		return PaymentMethodTransfer, true
	case "card", "tarjeta":
		return PaymentMethodCard, true
	}
	return PaymentMethod(-1), false
}

func (m PaymentMethod) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *PaymentMethod) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*m = PaymentMethod(i)
		return nil
	}
	if parsed, ok := ParsePaymentMethod(str); ok {
		*m = parsed
	}
	return nil
}

func (m PaymentMethod) Value() (driver.Value, error) {
	return int64(m), nil
}

func (m *PaymentMethod) Scan(value interface{}) error {
	if value == nil {
		*m = PaymentMethodCash
		return nil
	}
	switch v := value.(type) {
	case int64:
		*m = PaymentMethod(v)
	case int:
		*m = PaymentMethod(v)
	}
	return nil
}
