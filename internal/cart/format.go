package cart

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var rupiah = message.NewPrinter(language.Indonesian)

// FormatRupiah renders an amount the way receipts show it, e.g. "Rp 84.700" or
// "Rp 15.000,50".
func FormatRupiah(amount float64) string {
	if amount == math.Trunc(amount) {
		return rupiah.Sprintf("Rp %.0f", amount)
	}
	return rupiah.Sprintf("Rp %.2f", amount)
}
