package quote

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrUnknownField = errors.New("unknown line item field")

// LineItem is one measured product entry. Numeric fields keep the raw user
// input as typed; parsing happens on read so a temporarily invalid value
// never blocks further edits.
type LineItem struct {
	ProductRef string
	Label      string
	Width      string
	Height     string
	Quantity   string
	UnitPrice  string
}

func NewLineItem() LineItem {
	return LineItem{Width: "0", Height: "0", Quantity: "1", UnitPrice: "0"}
}

// SetField replaces the named field with the raw value. Field names follow
// the wire shape: tipo, ancho, alto, cantidad, precio, productoId.
func (it *LineItem) SetField(field, raw string) error {
	switch field {
	case "tipo":
		it.Label = raw
	case "ancho":
		it.Width = raw
	case "alto":
		it.Height = raw
	case "cantidad":
		it.Quantity = raw
	case "precio":
		it.UnitPrice = raw
	case "productoId":
		it.ProductRef = raw
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// Subtotal is ancho * alto * cantidad * precio with permissive parsing.
func (it LineItem) Subtotal() float64 {
	return parseDecimal(it.Width) * parseDecimal(it.Height) *
		float64(parseCount(it.Quantity)) * parseDecimal(it.UnitPrice)
}

// parseDecimal degrades unparseable input to 0 instead of rejecting it.
func parseDecimal(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// parseCount degrades unparseable input to 1. The minimum of one item is a
// creation default, not a parsing floor.
func parseCount(raw string) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1
	}
	return v
}

// formatDecimal renders a stored number back into a raw field. ParseFloat
// round-trips the shortest representation exactly, which keeps a hydrated
// draft's total bit-for-bit equal to the persisted one.
func formatDecimal(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
