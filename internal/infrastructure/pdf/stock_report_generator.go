// Package pdf implementa el reporte de stock para gerencia usando Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Organización  │  Fecha de generación               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA DISPONIBILIDAD: SKU | Repuesto | Ubic. | Disp. ...   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA STOCK BAJO: SKU | Repuesto | Ubicación | Déficit     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/tallerpro/stock-api/internal/application/reporting"
	"github.com/tallerpro/stock-api/internal/domain/repository"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 180, Green: 40, Blue: 40}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// StockReportGenerator implementa reporting.StockReportPDFGenerator usando Maroto v2.
type StockReportGenerator struct{}

// NewStockReportGenerator construye el generador.
func NewStockReportGenerator() *StockReportGenerator { return &StockReportGenerator{} }

var _ reporting.StockReportPDFGenerator = (*StockReportGenerator)(nil)

// GenerateStockReport genera el PDF y devuelve sus bytes.
func (g *StockReportGenerator) GenerateStockReport(
	_ context.Context,
	orgName string,
	generatedAt time.Time,
	availability []repository.PartAvailability,
	lowStock []repository.LowStockItem,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de Stock", true).
		WithAuthor(orgName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(orgName, generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(sectionTitleRow("DISPONIBILIDAD POR REPUESTO"))
	m.AddRows(availabilityHeaderRow())
	for _, r := range availabilityRows(availability) {
		m.AddRows(r)
	}
	if len(availability) == 0 {
		m.AddRows(emptyRow("Sin stock registrado."))
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))

	m.AddRows(sectionTitleRow("REPUESTOS BAJO MÍNIMO"))
	m.AddRows(lowStockHeaderRow())
	for _, r := range lowStockRows(lowStock) {
		m.AddRows(r)
	}
	if len(lowStock) == 0 {
		m.AddRows(emptyRow("Ningún repuesto bajo su umbral de reorden."))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: organización (izq) y fecha de generación (der).
func headerRow(orgName string, generatedAt time.Time) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(orgName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Reporte de disponibilidad de repuestos", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("REPORTE DE STOCK", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("Generado: "+generatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func sectionTitleRow(title string) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(title, props.Text{
			Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 2,
		}),
	))
}

func availabilityHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
		}))
	}
	return row.New(7).Add(
		h("SKU", 2, align.Left),
		h("Repuesto", 4, align.Left),
		h("Ubic.", 1, align.Center),
		h("Total", 1, align.Right),
		h("Reserv.", 1, align.Right),
		h("Disp.", 2, align.Right),
		h("Mín.", 1, align.Right),
	)
}

func availabilityRows(availability []repository.PartAvailability) []core.Row {
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{
			Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
		}))
	}
	result := make([]core.Row, 0, len(availability))
	for _, a := range availability {
		result = append(result, row.New(6).Add(
			cell(a.SKU, 2, align.Left),
			cell(a.PartName, 4, align.Left),
			cell(fmt.Sprintf("%d", a.Locations), 1, align.Center),
			cell(fmt.Sprintf("%d", a.Quantity), 1, align.Right),
			cell(fmt.Sprintf("%d", a.Reserved), 1, align.Right),
			cell(fmt.Sprintf("%d", a.Available), 2, align.Right),
			cell(fmt.Sprintf("%d", a.Minimum), 1, align.Right),
		))
	}
	return result
}

func lowStockHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
		}))
	}
	return row.New(7).Add(
		h("SKU", 2, align.Left),
		h("Repuesto", 4, align.Left),
		h("Ubicación", 2, align.Left),
		h("Disp.", 1, align.Right),
		h("Mín.", 1, align.Right),
		h("Déficit", 2, align.Right),
	)
}

func lowStockRows(lowStock []repository.LowStockItem) []core.Row {
	cell := func(s string, size int, a align.Type, color *props.Color) core.Col {
		return col.New(size).Add(text.New(s, props.Text{
			Size: 8, Align: a, Top: 1, Left: 1, Right: 1, Color: color,
		}))
	}
	result := make([]core.Row, 0, len(lowStock))
	for _, item := range lowStock {
		available := item.Quantity - item.Reserved
		deficit := item.Minimum - available
		result = append(result, row.New(6).Add(
			cell(item.SKU, 2, align.Left, nil),
			cell(item.PartName, 4, align.Left, nil),
			cell(item.Location, 2, align.Left, nil),
			cell(fmt.Sprintf("%d", available), 1, align.Right, nil),
			cell(fmt.Sprintf("%d", item.Minimum), 1, align.Right, nil),
			cell(fmt.Sprintf("%d", deficit), 2, align.Right, colorAlert),
		))
	}
	return result
}

func emptyRow(msg string) core.Row {
	return row.New(6).Add(col.New(12).Add(
		text.New(msg, props.Text{Size: 8, Color: colorGray, Top: 1, Left: 1}),
	))
}
