package server

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var pricePrinter = message.NewPrinter(language.English)

// FormatPrice renders a price with a space as the thousands separator and a
// euro sign, matching the presentation of the original tool.
func FormatPrice(price float64) string {
	grouped := pricePrinter.Sprintf("%.2f", price)
	return "€" + strings.ReplaceAll(grouped, ",", " ")
}
