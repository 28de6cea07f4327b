// README: Common money value object used across modules.
package types

import "github.com/shopspring/decimal"

const CurrencyPHP = "PHP"

type Money struct {
    Amount   float64
    Currency string
}

// String renders the amount with two decimals and the currency symbol when known.
func (m Money) String() string {
    amount := decimal.NewFromFloat(m.Amount).StringFixed(2)
    if m.Currency == CurrencyPHP || m.Currency == "" {
        return "₱" + amount
    }
    return amount + " " + m.Currency
}
