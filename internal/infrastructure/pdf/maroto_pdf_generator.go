// Package pdf implementa la generación de la confirmación de pedido en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: VILOFLEET  │  N° Pedido + Fecha                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  EMPRESA: Nombre + Dirección                                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  VEHÍCULO: Marca / Modelo / Acabado / Color                 │
//	│  CONDICIONES: Duración | Km por año | Cuota mensual         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: leyenda de confirmación                            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

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
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/vilofleet/flota-api/internal/application/requests"
	"github.com/vilofleet/flota-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 16, Green: 42, Blue: 94}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// Formato numérico alemán para importes (1.234,56 €).
var dePrinter = message.NewPrinter(language.German)

var _ requests.OrderPDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa requests.OrderPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateOrderPDF genera la confirmación de pedido y devuelve sus bytes.
// company puede ser nil (pedidos privados sin empresa).
func (g *MarotoPDFGenerator) GenerateOrderPDF(
	_ context.Context,
	order *entity.VehicleRequest,
	company *entity.Company,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Bestellbestätigung "+order.OrderNumber, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(order))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(companyRow(order, company))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(vehicleRow(order))
	m.AddRows(termsRow(order))
	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: marca (izq) y N° Pedido + Fecha (der).
func headerRow(order *entity.VehicleRequest) core.Row {
	fecha := order.CreatedAt.Format("02.01.2006")

	return row.New(18).Add(
		col.New(7).Add(
			text.New("VILOFLEET", props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1,
			}),
			text.New("Flottenleasing für Unternehmen und Mitarbeiter", props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("BESTELLBESTÄTIGUNG", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(order.OrderNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Datum: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// companyRow: datos de la empresa (o del snapshot si la empresa ya no existe).
func companyRow(order *entity.VehicleRequest, company *entity.Company) core.Row {
	name := requests.PlaceholderCompany
	address := "—"
	switch {
	case company != nil:
		name = company.Name
		if company.Address.Street != "" {
			address = fmt.Sprintf("%s, %s %s",
				company.Address.Street, company.Address.PostalCode, company.Address.City)
		}
	case order.Snapshot != nil && order.Snapshot.CompanyName != "":
		name = order.Snapshot.CompanyName
	}

	return row.New(14).Add(
		col.New(12).Add(
			text.New("UNTERNEHMEN", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New("Anschrift: "+address, props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// vehicleRow: identificación del vehículo pedido.
func vehicleRow(order *entity.VehicleRequest) core.Row {
	modelo := order.Brand + " " + order.Model
	if order.Trim != "" {
		modelo += " " + order.Trim
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New("FAHRZEUG", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(modelo, props.Text{Style: fontstyle.Bold, Size: 11, Top: 6}),
			text.New("Farbe: "+nonEmpty(order.Color, "—"), props.Text{
				Size: 8, Top: 12, Color: colorGray,
			}),
		),
	)
}

// termsRow: condiciones del leasing en tres columnas.
func termsRow(order *entity.VehicleRequest) core.Row {
	cell := func(label, value string) core.Col {
		return col.New(4).Add(
			text.New(label, props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 10, Top: 7}),
		)
	}
	rate, _ := order.MonthlyRate.Float64()
	return row.New(16).Add(
		cell("Laufzeit", fmt.Sprintf("%d Monate", order.DurationMonths)),
		cell("Laufleistung", dePrinter.Sprintf("%d km/Jahr", order.MileagePerYear)),
		cell("Monatliche Rate", dePrinter.Sprintf("%.2f €", rate)),
	)
}

// footerRow: leyenda de confirmación.
func footerRow() core.Row {
	return row.New(10).Add(col.New(12).Add(
		text.New(
			"Diese Bestellbestätigung dokumentiert den verbindlichen Eingang Ihrer "+
				"Leasingbestellung. Die Auslieferung erfolgt nach bestandener Bonitätsprüfung "+
				"und Vertragsunterzeichnung.",
			props.Text{Size: 7, Color: colorGray, Top: 2},
		),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
