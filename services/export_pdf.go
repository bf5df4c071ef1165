package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// GenerateQuotationPDF creates a quotation (tilbud) document for a stored
// calculation using maroto/v2. It returns the raw PDF bytes or an error.
func GenerateQuotationPDF(data *CalculationExportData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Side {current} af {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addQuotationHeader(m, data)
	addQuotationCustomerBlock(m, data)
	addQuotationItemsTable(m, data)
	addQuotationTotals(m, data)
	addQuotationTerms(m)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate quotation PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

// addQuotationHeader adds the company name, "TILBUD" title and calculation number.
func addQuotationHeader(m core.Maroto, data *CalculationExportData) {
	m.AddRows(
		row.New(10).Add(
			col.New(6).Add(
				text.New(data.CompanyName, props.Text{
					Size:  14,
					Style: fontstyle.Bold,
					Align: align.Left,
				}),
			),
			col.New(6).Add(
				text.New("TILBUD", props.Text{
					Size:  14,
					Style: fontstyle.Bold,
					Align: align.Right,
					Color: &props.Color{Red: 33, Green: 37, Blue: 41},
				}),
			),
		),
	)

	m.AddRows(
		row.New(8).Add(
			col.New(6).Add(
				text.New(data.CompanyEmail, props.Text{
					Size:  8,
					Align: align.Left,
					Color: &props.Color{Red: 100, Green: 100, Blue: 100},
				}),
			),
			col.New(6).Add(
				text.New(fmt.Sprintf("Nr.: %s", data.Number), props.Text{
					Size:  10,
					Style: fontstyle.Bold,
					Align: align.Right,
				}),
			),
		),
	)

	m.AddRows(row.New(3))
}

// addQuotationCustomerBlock adds the customer on the left and the project
// metadata on the right.
func addQuotationCustomerBlock(m core.Maroto, data *CalculationExportData) {
	labelStyle := props.Text{
		Size:  7,
		Style: fontstyle.Bold,
		Align: align.Left,
		Color: &props.Color{Red: 100, Green: 100, Blue: 100},
	}
	rightLabelStyle := props.Text{
		Size:  7,
		Style: fontstyle.Bold,
		Align: align.Right,
		Color: &props.Color{Red: 100, Green: 100, Blue: 100},
	}
	rightValueStyle := props.Text{
		Size:  8,
		Align: align.Right,
	}

	m.AddRows(
		row.New(6).Add(
			col.New(6).Add(text.New("KUNDE", labelStyle)),
			col.New(6).Add(text.New("PROJEKT", rightLabelStyle)),
		),
	)

	customer := data.Customer
	if customer == "" {
		customer = "—"
	}
	m.AddRows(
		row.New(7).Add(
			col.New(6).Add(text.New(customer, props.Text{
				Size:  9,
				Style: fontstyle.Bold,
				Align: align.Left,
			})),
			col.New(3).Add(text.New("Dato:", rightLabelStyle)),
			col.New(3).Add(text.New(data.CreatedDate, rightValueStyle)),
		),
	)

	if data.ProjectName != "" {
		m.AddRows(
			row.New(6).Add(
				col.New(6),
				col.New(3).Add(text.New("Sag:", rightLabelStyle)),
				col.New(3).Add(text.New(data.ProjectName, rightValueStyle)),
			),
		)
	}
	if data.ProfileName != "" {
		m.AddRows(
			row.New(6).Add(
				col.New(6),
				col.New(3).Add(text.New("Bygningsprofil:", rightLabelStyle)),
				col.New(3).Add(text.New(data.ProfileName, rightValueStyle)),
			),
		)
	}

	m.AddRows(row.New(4))
}

// addQuotationItemsTable adds the calculated item lines.
func addQuotationItemsTable(m core.Maroto, data *CalculationExportData) {
	headerStyle := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Left,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerRightStyle := headerStyle
	headerRightStyle.Align = align.Right

	m.AddRows(
		row.New(7).WithStyle(&props.Cell{
			BackgroundColor: &props.Color{Red: 51, Green: 51, Blue: 51},
		}).Add(
			col.New(1).Add(text.New("#", headerStyle)),
			col.New(5).Add(text.New("Beskrivelse", headerStyle)),
			col.New(2).Add(text.New("Antal", headerRightStyle)),
			col.New(2).Add(text.New("Tid", headerRightStyle)),
			col.New(2).Add(text.New("Pris", headerRightStyle)),
		),
	)

	cellStyle := props.Text{Size: 8, Align: align.Left}
	cellRightStyle := props.Text{Size: 8, Align: align.Right}

	for i, r := range data.Rows {
		bg := &props.Color{Red: 255, Green: 255, Blue: 255}
		if i%2 == 1 {
			bg = &props.Color{Red: 245, Green: 245, Blue: 245}
		}

		desc := r.Description
		if r.Variant != "" {
			desc += " (" + r.Variant + ")"
		}

		m.AddRows(
			row.New(6).WithStyle(&props.Cell{BackgroundColor: bg}).Add(
				col.New(1).Add(text.New(r.Index, cellStyle)),
				col.New(5).Add(text.New(desc, cellStyle)),
				col.New(2).Add(text.New(fmt.Sprintf("%.2f", r.Qty), cellRightStyle)),
				col.New(2).Add(text.New(FormatHours(r.TimeSeconds), cellRightStyle)),
				col.New(2).Add(text.New(FormatDKK(r.MaterialSale+r.LaborSale), cellRightStyle)),
			),
		)
	}

	m.AddRows(row.New(4))
}

// addQuotationTotals adds the price rollup block, right-aligned.
func addQuotationTotals(m core.Maroto, data *CalculationExportData) {
	labelStyle := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Right,
	}
	valueStyle := props.Text{
		Size:  8,
		Align: align.Right,
	}

	res := data.Result
	rows := []struct {
		label string
		value string
	}{
		{"Salgspris ekskl. moms:", FormatDKK(res.SalePriceExclVAT)},
		{fmt.Sprintf("Rabat (%.1f%%):", res.Settings.DiscountPercentage), FormatDKK(res.DiscountAmount)},
		{"Nettopris:", FormatDKK(res.NetPrice)},
		{fmt.Sprintf("Moms (%.0f%%):", res.Settings.VATPercentage), FormatDKK(res.VATAmount)},
	}

	for _, r := range rows {
		m.AddRows(
			row.New(5).Add(
				col.New(8),
				col.New(2).Add(text.New(r.label, labelStyle)),
				col.New(2).Add(text.New(r.value, valueStyle)),
			),
		)
	}

	// Grand total, emphasized.
	m.AddRows(
		row.New(8).Add(
			col.New(8),
			col.New(2).Add(text.New("I alt inkl. moms:", props.Text{
				Size:  10,
				Style: fontstyle.Bold,
				Align: align.Right,
			})),
			col.New(2).Add(text.New(FormatDKK(res.FinalAmount), props.Text{
				Size:  10,
				Style: fontstyle.Bold,
				Align: align.Right,
			})),
		),
	)

	m.AddRows(row.New(4))
}

// addQuotationTerms adds the standard validity and payment terms footer.
func addQuotationTerms(m core.Maroto) {
	termStyle := props.Text{
		Size:  7,
		Align: align.Left,
		Color: &props.Color{Red: 100, Green: 100, Blue: 100},
	}

	terms := []string{
		"Tilbuddet er gældende i 30 dage fra tilbudsdato.",
		"Betalingsbetingelser: netto 14 dage.",
		"Alle priser er baseret på de angivne mængder og forudsætninger.",
	}

	for _, term := range terms {
		m.AddRows(
			row.New(4).Add(
				col.New(12).Add(text.New(term, termStyle)),
			),
		)
	}
}
