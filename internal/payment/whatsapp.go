package payment

import (
	"fmt"
	"net/url"

	"github.com/flymidia/contracts-service/internal/format"
	"github.com/flymidia/contracts-service/internal/model"
)

// ErrInvalidPhone is returned when a destination number has no digits at all.
var ErrInvalidPhone = fmt.Errorf("invalid phone number")

// Link builds a wa.me URL that opens a chat to the destination number with
// the message prefilled. The number is normalized to digits before use.
func Link(phone, message string) (string, error) {
	digits := format.Digits(phone)
	if digits == "" {
		return "", ErrInvalidPhone
	}
	return fmt.Sprintf("https://wa.me/%s?text=%s", digits, url.QueryEscape(message)), nil
}

// Message composes the pix payment request text for an unpaid contract.
func Message(c model.Contract) string {
	city := orDash(c.City)
	location := orDash(c.DisplayLocation)
	return fmt.Sprintf(
		"Olá, sou %s, de %s, referente ao contrato exibido em %s. O contrato vence em %s e o valor é %s. Gostaria de realizar o pagamento via PIX. Obrigado!",
		c.CompanyName,
		city,
		location,
		format.DateValue(c.DueDate),
		format.Currency(c.TotalAmount),
	)
}

func orDash(value string) string {
	if value == "" {
		return "—"
	}
	return value
}
