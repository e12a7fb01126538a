package quote

import (
	"encoding/json"
	"time"

	"escher-cotizador/go_backend/internal/domain/attachment"
)

// Status enumerates the quote lifecycle as persisted.
type Status string

const (
	StatusQuoted         Status = "presupuestado"
	StatusPending        Status = "pendiente"
	StatusSold           Status = "vendido"
	StatusReadyToInstall Status = "listo_para_instalar"
)

func (s Status) Valid() bool {
	switch s {
	case StatusQuoted, StatusPending, StatusSold, StatusReadyToInstall:
		return true
	}
	return false
}

// RecordItem is the wire shape of a line item: numerics coerced to numbers.
type RecordItem struct {
	ProductoID string  `json:"productoId,omitempty"`
	Tipo       string  `json:"tipo"`
	Ancho      float64 `json:"ancho"`
	Alto       float64 `json:"alto"`
	Cantidad   int     `json:"cantidad"`
	Precio     float64 `json:"precio,omitempty"`
}

// AttachmentList accepts both the tagged attachment objects and the legacy
// bare-URL array still present in older quote documents.
type AttachmentList []attachment.Attachment

func (l *AttachmentList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make([]attachment.Attachment, 0, len(raw))
	for _, el := range raw {
		var url string
		if err := json.Unmarshal(el, &url); err == nil {
			out = append(out, attachment.Attachment{URL: url, Kind: attachment.KindImage})
			continue
		}
		var a attachment.Attachment
		if err := json.Unmarshal(el, &a); err != nil {
			return err
		}
		if a.Kind == "" {
			a.Kind = attachment.KindImage
		}
		out = append(out, a)
	}
	*l = out
	return nil
}

// Record is the persisted quote payload. Provenance fields are stamped at
// the persistence boundary: user IDs by the edit session, timestamps by the
// document store.
type Record struct {
	ID            string         `json:"id,omitempty"`
	ClienteID     string         `json:"clienteId"`
	Productos     []RecordItem   `json:"productos"`
	Total         float64        `json:"total"`
	Estado        Status         `json:"estado"`
	Observaciones string         `json:"observaciones,omitempty"`
	Imagenes      AttachmentList `json:"imagenes"`
	CreatedBy     string         `json:"createdBy,omitempty"`
	CreatedAt     time.Time      `json:"createdAt,omitzero"`
	UpdatedBy     string         `json:"updatedBy,omitempty"`
	UpdatedAt     time.Time      `json:"updatedAt,omitzero"`
}
