package gofpdf

import (
	"bytes"
	"fmt"
	"log"
	"time"

	"github.com/jung-kurt/gofpdf"

	"escher-cotizador/go_backend/internal/domain/customer"
	"escher-cotizador/go_backend/internal/domain/quote"
)

type Generator struct{}

func New() *Generator { return &Generator{} }

func (g *Generator) Generate(rec quote.Record, cust customer.Customer) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Presupuesto", false)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr("Presupuesto"))
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	if rec.ID != "" {
		pdf.Cell(0, 6, tr(fmt.Sprintf("N° %s", rec.ID)))
		pdf.Ln(6)
	}
	if !rec.CreatedAt.IsZero() {
		pdf.Cell(0, 6, tr(fmt.Sprintf("Fecha: %s", rec.CreatedAt.Format("02/01/2006"))))
		pdf.Ln(6)
	}
	if cust.DisplayName() != "" || cust.Phone != "" {
		pdf.Cell(0, 6, tr(fmt.Sprintf("Cliente: %s %s", cust.DisplayName(), cust.Phone)))
		pdf.Ln(6)
	}
	pdf.Cell(0, 6, tr(fmt.Sprintf("Estado: %s", rec.Estado)))
	pdf.Ln(6)

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(70, 7, tr("Producto"))
	pdf.Cell(22, 7, tr("Ancho (m)"))
	pdf.Cell(22, 7, tr("Alto (m)"))
	pdf.Cell(18, 7, tr("Cant."))
	pdf.Cell(28, 7, tr("Precio"))
	pdf.Cell(30, 7, tr("Subtotal"))
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	for _, p := range rec.Productos {
		subtotal := p.Ancho * p.Alto * float64(p.Cantidad) * p.Precio
		pdf.Cell(70, 6, tr(trim(p.Tipo, 40)))
		pdf.Cell(22, 6, fmt.Sprintf("%.2f", p.Ancho))
		pdf.Cell(22, 6, fmt.Sprintf("%.2f", p.Alto))
		pdf.Cell(18, 6, fmt.Sprintf("%d", p.Cantidad))
		pdf.Cell(28, 6, fmt.Sprintf("$%.2f", p.Precio))
		pdf.Cell(30, 6, fmt.Sprintf("$%.2f", subtotal))
		pdf.Ln(6)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Total: $%.2f", rec.Total))
	pdf.Ln(6)

	if rec.Observaciones != "" {
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, tr("Observaciones: "+rec.Observaciones), "", "L", false)
		pdf.Ln(2)
	}

	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 5, tr("Escher • Cortinas y toldos a medida"))
	pdf.Ln(5)
	pdf.Cell(0, 5, tr(fmt.Sprintf("Generado: %s", time.Now().Format(time.RFC3339))))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		log.Printf("quote pdf: output failed: %v", err)
		return nil, err
	}
	return buf.Bytes(), nil
}

func trim(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
