package quote

import (
	"errors"
	"fmt"
	"strconv"

	"escher-cotizador/go_backend/internal/domain/attachment"
)

var (
	ErrMissingCustomer = errors.New("quote has no customer bound")
	ErrEmptyQuote      = errors.New("quote has no line items")
	ErrItemIndex       = errors.New("line item index out of range")
)

// Draft is the live, editable representation of a quote. It is not safe for
// concurrent mutation; one draft belongs to one open view.
type Draft struct {
	CustomerRef string
	Status      Status
	Notes       string
	items       []LineItem
	attachments []attachment.Attachment
}

func NewDraft() *Draft {
	return &Draft{Status: StatusQuoted}
}

func (d *Draft) AddItem() *LineItem {
	d.items = append(d.items, NewLineItem())
	return &d.items[len(d.items)-1]
}

func (d *Draft) RemoveItem(i int) error {
	if i < 0 || i >= len(d.items) {
		return fmt.Errorf("%w: %d", ErrItemIndex, i)
	}
	d.items = append(d.items[:i], d.items[i+1:]...)
	return nil
}

func (d *Draft) UpdateItem(i int, field, raw string) error {
	if i < 0 || i >= len(d.items) {
		return fmt.Errorf("%w: %d", ErrItemIndex, i)
	}
	return d.items[i].SetField(field, raw)
}

func (d *Draft) Items() []LineItem {
	out := make([]LineItem, len(d.items))
	copy(out, d.items)
	return out
}

func (d *Draft) AddAttachments(as ...attachment.Attachment) {
	d.attachments = append(d.attachments, as...)
}

// RemoveAttachment discards the first attachment matching the URL and
// reports whether one was found.
func (d *Draft) RemoveAttachment(url string) bool {
	for i, a := range d.attachments {
		if a.URL == url {
			d.attachments = append(d.attachments[:i], d.attachments[i+1:]...)
			return true
		}
	}
	return false
}

func (d *Draft) Attachments() []attachment.Attachment {
	out := make([]attachment.Attachment, len(d.attachments))
	copy(out, d.attachments)
	return out
}

// Total is recomputed from the current line items on every call, so it can
// never go stale relative to them.
func (d *Draft) Total() float64 {
	var total float64
	for _, it := range d.items {
		total += it.Subtotal()
	}
	return total
}

// ToRecord produces the wire-shape payload after the validation gate.
// Provenance fields are left for the persistence boundary.
func (d *Draft) ToRecord() (Record, error) {
	if d.CustomerRef == "" {
		return Record{}, ErrMissingCustomer
	}
	if len(d.items) == 0 {
		return Record{}, ErrEmptyQuote
	}
	status := d.Status
	if !status.Valid() {
		status = StatusQuoted
	}
	rec := Record{
		ClienteID:     d.CustomerRef,
		Productos:     make([]RecordItem, 0, len(d.items)),
		Total:         d.Total(),
		Estado:        status,
		Observaciones: d.Notes,
		Imagenes:      AttachmentList(d.Attachments()),
	}
	for _, it := range d.items {
		rec.Productos = append(rec.Productos, RecordItem{
			ProductoID: it.ProductRef,
			Tipo:       it.Label,
			Ancho:      parseDecimal(it.Width),
			Alto:       parseDecimal(it.Height),
			Cantidad:   parseCount(it.Quantity),
			Precio:     parseDecimal(it.UnitPrice),
		})
	}
	return rec, nil
}

// draftFromRecord hydrates a draft from a persisted quote, applying
// defaults for absent optional fields.
func draftFromRecord(rec Record) *Draft {
	d := &Draft{
		CustomerRef: rec.ClienteID,
		Status:      rec.Estado,
		Notes:       rec.Observaciones,
	}
	if !d.Status.Valid() {
		d.Status = StatusQuoted
	}
	for _, p := range rec.Productos {
		d.items = append(d.items, LineItem{
			ProductRef: p.ProductoID,
			Label:      p.Tipo,
			Width:      formatDecimal(p.Ancho),
			Height:     formatDecimal(p.Alto),
			Quantity:   strconv.Itoa(p.Cantidad),
			UnitPrice:  formatDecimal(p.Precio),
		})
	}
	d.attachments = append(d.attachments, rec.Imagenes...)
	return d
}
