package domain

import (
	"fmt"
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Currency selects the symbol and precision tiers of FormatCurrency.
type Currency string

const (
	USD Currency = "USD"
	JPY Currency = "JPY"
)

var printer = message.NewPrinter(language.English)

// FormatCurrency renders v with grouped digits and a number of decimals that
// depends on its magnitude.
func FormatCurrency(v float64, cur Currency) string {
	symbol := "$"
	if cur == JPY {
		symbol = "¥"
	}
	return symbol + grouped(v, currencyDecimals(v, cur))
}

func currencyDecimals(v float64, cur Currency) int {
	abs := math.Abs(v)

	if cur == JPY {
		switch {
		case abs >= 1:
			return 0
		case abs >= 0.1:
			return 2
		default:
			return 4
		}
	}

	switch {
	case abs >= 1:
		return 2
	case abs >= 0.1:
		return 3
	case abs >= 0.01:
		return 4
	case abs >= 0.001:
		return 5
	default:
		return 6
	}
}

// FormatQuantity renders a usage or unit count. Whole numbers get no
// decimals, values of 100 and above one, everything else two.
func FormatQuantity(v float64) string {
	switch {
	case v == math.Trunc(v):
		return grouped(v, 0)
	case math.Abs(v) >= 100:
		return grouped(v, 1)
	default:
		return grouped(v, 2)
	}
}

// FormatFloatInput renders v for an editable form field: the shortest decimal
// that parses back to v, never in exponent notation.
func FormatFloatInput(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func grouped(v float64, decimals int) string {
	return printer.Sprintf(fmt.Sprintf("%%.%df", decimals), v)
}

// Display is the human-readable rendering of a CostBreakdown.
type Display struct {
	TotalUSD      string        `json:"total_usd"`
	TotalJPY      string        `json:"total_jpy"`
	PerRequestUSD string        `json:"per_request_usd"`
	PerRequestJPY string        `json:"per_request_jpy"`
	Requests      string        `json:"requests"`
	Items         []DisplayItem `json:"items"`
}

// DisplayItem is the human-readable rendering of a LineItem.
type DisplayItem struct {
	ID              string `json:"id"`
	Usage           string `json:"usage"`
	TotalUsage      string `json:"total_usage"`
	TotalUnits      string `json:"total_units"`
	PricePerUnitUSD string `json:"price_per_unit_usd"`
	PricePerUnitJPY string `json:"price_per_unit_jpy"`
	CostUSD         string `json:"cost_usd"`
	CostJPY         string `json:"cost_jpy"`
}

// NewDisplay formats every figure of b.
func NewDisplay(b *CostBreakdown) *Display {
	d := &Display{
		TotalUSD:      FormatCurrency(b.TotalUSD, USD),
		TotalJPY:      FormatCurrency(b.TotalJPY, JPY),
		PerRequestUSD: FormatCurrency(b.PerRequestUSD, USD),
		PerRequestJPY: FormatCurrency(b.PerRequestJPY, JPY),
		Requests:      FormatQuantity(b.RequestCount),
		Items:         make([]DisplayItem, 0, len(b.Items)),
	}

	for _, item := range b.Items {
		d.Items = append(d.Items, DisplayItem{
			ID:              item.ID,
			Usage:           FormatQuantity(item.UsagePerRequest) + " " + item.InputUnit,
			TotalUsage:      FormatQuantity(item.TotalUsage) + " " + item.InputUnit,
			TotalUnits:      FormatQuantity(item.TotalUnits) + " " + item.Unit,
			PricePerUnitUSD: FormatCurrency(item.PricePerUnitUSD, USD),
			PricePerUnitJPY: FormatCurrency(item.PricePerUnitJPY, JPY),
			CostUSD:         FormatCurrency(item.CostUSD, USD),
			CostJPY:         FormatCurrency(item.CostJPY, JPY),
		})
	}

	return d
}
