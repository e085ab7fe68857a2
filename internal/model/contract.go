package model

import (
	"time"

	"github.com/google/uuid"
)

// LineItem is one priced placement (banner, video spot) with a quantity.
// Subtotal is stored alongside the inputs, matching the persisted document shape.
type LineItem struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Subtotal  float64 `json:"subtotal"`
}

// Contract is a persisted advertising agreement. A contract with a nil ID is
// a draft that has not been handed to the store yet.
type Contract struct {
	ID               uuid.UUID  `json:"id"`
	CompanyName      string     `json:"company_name"`
	ClientTaxID      string     `json:"client_tax_id"` // stored formatted: XXX.XXX.XXX-XX
	Phone            string     `json:"phone"`         // digits only
	Items            []LineItem `json:"items"`
	TotalAmount      float64    `json:"total_amount"`
	DueDate          time.Time  `json:"due_date"`
	City             string     `json:"city"`
	DisplayLocation  string     `json:"display_location"`
	ResponsibleAdmin string     `json:"responsible_admin"`
	IsPaid           bool       `json:"is_paid"`
	Notes            string     `json:"notes"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// ClientContract is a lookup result for the client-facing area: the contract
// plus, when unpaid, a prefilled payment conversation link.
type ClientContract struct {
	Contract
	PaymentMessage string `json:"payment_message,omitempty"`
	PaymentLink    string `json:"payment_link,omitempty"`
}
