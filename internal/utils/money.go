package utils

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.English)

// FormatPeso renders an amount as "₱15,000" or "₱1,250.5".
func FormatPeso(amount decimal.Decimal) string {
	f, _ := amount.Round(2).Float64()
	return printer.Sprintf("₱%v", number.Decimal(f, number.MaxFractionDigits(2)))
}

// FormatPesoShort renders large totals as "₱452K".
func FormatPesoShort(amount decimal.Decimal) string {
	if amount.Abs().LessThan(decimal.NewFromInt(10000)) {
		return FormatPeso(amount)
	}
	k := amount.Div(decimal.NewFromInt(1000)).Round(0)
	return "₱" + printer.Sprintf("%v", number.Decimal(k.IntPart())) + "K"
}
