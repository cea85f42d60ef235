// README: Display formatting for estimates.
package pricing

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const nairaSign = "₦"

var printer = message.NewPrinter(language.MustParse("en-NG"))

// FormatPrice renders a Naira amount with grouping and no decimals, or
// NotAvailable when ok is false.
func FormatPrice(price int64, ok bool) string {
	if !ok {
		return NotAvailable
	}
	return nairaSign + printer.Sprintf("%d", price)
}
