// Package pricing computes ticket leg amounts from flight base prices.
package pricing

import (
	"fmt"

	"github.com/Domenick1991/airticket/internal/domain"
	"github.com/shopspring/decimal"
)

// Quote is the priced breakdown of a ticket.
type Quote struct {
	Outbound decimal.Decimal
	Return   decimal.Decimal
	Total    decimal.Decimal
}

// Price multiplies each leg's base price by the passenger count. A passenger
// count below one is treated as one. An invalid returnBase prices the return
// leg at zero.
func Price(outboundBase decimal.Decimal, returnBase decimal.NullDecimal, passengers int) Quote {
	if passengers < 1 {
		passengers = 1
	}
	n := decimal.NewFromInt(int64(passengers))

	q := Quote{
		Outbound: outboundBase.Mul(n),
		Return:   decimal.Zero,
	}
	if returnBase.Valid {
		q.Return = returnBase.Decimal.Mul(n)
	}
	q.Total = q.Outbound.Add(q.Return)
	return q
}

// PriceLegs prices a ticket against its resolved flights.
func PriceLegs(outbound domain.Flight, ret *domain.Flight, passengers int) Quote {
	var returnBase decimal.NullDecimal
	if ret != nil {
		returnBase = decimal.NewNullDecimal(ret.BasePrice)
	}
	return Price(outbound.BasePrice, returnBase, passengers)
}

// Apply copies the quote onto the ticket amount fields.
func (q Quote) Apply(t *domain.Ticket) {
	t.OutboundPrice = q.Outbound
	t.ReturnPrice = q.Return
	t.TotalPrice = q.Total
}

// Format renders an amount keeping the scale it was computed with, so
// "100.00" x 2 is "200.00" while a zero return leg stays "0".
func Format(d decimal.Decimal) string {
	if exp := d.Exponent(); exp < 0 {
		return d.StringFixed(-exp)
	}
	return d.String()
}

// Parse reads a decimal-as-string amount.
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: invalid amount %q", domain.ErrValidation, s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: negative amount %q", domain.ErrValidation, s)
	}
	return d, nil
}
