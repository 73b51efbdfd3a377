package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Locale is the language all user-facing numbers and dates are rendered in.
var Locale = language.BrazilianPortuguese

const currencySymbol = "R$"

var monthNames = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

func printer() *message.Printer {
	return message.NewPrinter(Locale)
}

// FormatCurrency renders an amount as localized currency, e.g. "R$ 1.234,56".
// Negative amounts get a leading minus: "-R$ 10,00".
func FormatCurrency(amount decimal.Decimal) string {
	rounded := amount.Round(2)
	f, _ := rounded.Abs().Float64()
	s := printer().Sprintf("%s %.2f", currencySymbol, f)
	if rounded.IsNegative() {
		return "-" + s
	}
	return s
}

// FormatSignedCurrency always prefixes the sign, e.g. "+R$ 10,00".
func FormatSignedCurrency(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return FormatCurrency(amount)
	}
	return "+" + FormatCurrency(amount)
}

// FormatPercent renders a percentage with one decimal place, e.g. "12,5%".
func FormatPercent(p decimal.Decimal) string {
	f, _ := p.Round(1).Float64()
	return printer().Sprintf("%.1f%%", f)
}

// FormatDate renders a calendar date as dd/mm/yyyy.
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

// FormatDateTime renders a timestamp as dd/mm/yyyy HH:MM.
func FormatDateTime(t time.Time) string {
	return t.Format("02/01/2006 15:04")
}

// PeriodLabel renders a month as "outubro de 2026".
func PeriodLabel(year int, month time.Month) string {
	if month < time.January || month > time.December {
		return fmt.Sprintf("%d", year)
	}
	return fmt.Sprintf("%s de %d", monthNames[month-1], year)
}

// Slugify lowercases s and replaces whitespace runs with a single dash.
func Slugify(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "-")
}
