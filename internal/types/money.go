// README: Common money value object used across modules.
package types

// CurrencyNGN is the only currency the service quotes in.
const CurrencyNGN = "NGN"

type Money struct {
	Amount   int64
	Currency string
}

func Naira(amount int64) Money {
	return Money{Amount: amount, Currency: CurrencyNGN}
}

// Kobo returns the amount in the minor unit expected by card processors.
func (m Money) Kobo() int64 {
	return m.Amount * 100
}
