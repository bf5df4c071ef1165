package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// GenerateCalculationExcel creates a breakdown workbook for a stored
// calculation and returns the file contents as a byte slice.
func GenerateCalculationExcel(data *CalculationExportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// Sheet names are capped at 31 chars.
	sheetName := data.Number
	if len(sheetName) > 31 {
		sheetName = sheetName[:31]
	}
	if sheetName == "" {
		sheetName = "Kalkulation"
	}

	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	columns := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I"}
	lastCol := columns[len(columns)-1]

	widths := []float64{8, 14, 40, 16, 8, 10, 16, 16, 16}
	for i, col := range columns {
		if err := f.SetColWidth(sheetName, col, col, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	// ── Styles ──────────────────────────────────────────────────────────

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}

	subtitleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 11},
	})
	if err != nil {
		return nil, fmt.Errorf("create subtitle style: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#333333"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	itemStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create item style: %w", err)
	}

	summaryLabelStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary label style: %w", err)
	}

	summaryValueStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary value style: %w", err)
	}

	// ── Header rows ─────────────────────────────────────────────────────

	if err := f.MergeCell(sheetName, "A1", lastCol+"1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	title := "Kalkulation " + data.Number
	if data.ProjectName != "" {
		title += " — " + data.ProjectName
	}
	f.SetCellValue(sheetName, "A1", sanitizeExcelCell(title))
	f.SetCellStyle(sheetName, "A1", lastCol+"1", titleStyle)

	if data.Customer != "" {
		if err := f.MergeCell(sheetName, "A2", lastCol+"2"); err != nil {
			return nil, fmt.Errorf("merge customer: %w", err)
		}
		f.SetCellValue(sheetName, "A2", "Kunde: "+sanitizeExcelCell(data.Customer))
		f.SetCellStyle(sheetName, "A2", lastCol+"2", subtitleStyle)
	}

	if err := f.MergeCell(sheetName, "A3", lastCol+"3"); err != nil {
		return nil, fmt.Errorf("merge date: %w", err)
	}
	subtitle := "Dato: " + data.CreatedDate
	if data.ProfileName != "" {
		subtitle += " | Bygningsprofil: " + data.ProfileName
	}
	f.SetCellValue(sheetName, "A3", subtitle)
	f.SetCellStyle(sheetName, "A3", lastCol+"3", subtitleStyle)

	// ── Column headers ──────────────────────────────────────────────────

	headers := []string{"#", "Kode", "Beskrivelse", "Variant", "Antal", "Tid", "Materialer (kost)", "Arbejdsløn (kost)", "Salgspris"}
	for i, h := range headers {
		cell := fmt.Sprintf("%s5", columns[i])
		f.SetCellValue(sheetName, cell, h)
	}
	f.SetCellStyle(sheetName, "A5", lastCol+"5", headerStyle)

	// ── Item rows ───────────────────────────────────────────────────────

	row := 6
	for _, r := range data.Rows {
		rowStr := fmt.Sprintf("%d", row)

		f.SetCellValue(sheetName, "A"+rowStr, r.Index)
		f.SetCellValue(sheetName, "B"+rowStr, sanitizeExcelCell(r.NodeCode))
		f.SetCellValue(sheetName, "C"+rowStr, sanitizeExcelCell(r.Description))
		f.SetCellValue(sheetName, "D"+rowStr, sanitizeExcelCell(r.Variant))
		f.SetCellValue(sheetName, "E"+rowStr, r.Qty)
		f.SetCellValue(sheetName, "F"+rowStr, FormatHours(r.TimeSeconds))
		f.SetCellValue(sheetName, "G"+rowStr, FormatDKK(r.MaterialCost))
		f.SetCellValue(sheetName, "H"+rowStr, FormatDKK(r.LaborCost))
		f.SetCellValue(sheetName, "I"+rowStr, FormatDKK(r.MaterialSale+r.LaborSale))
		f.SetCellStyle(sheetName, "A"+rowStr, lastCol+rowStr, itemStyle)

		row++
	}

	// ── Summary rows ────────────────────────────────────────────────────

	row++

	res := data.Result
	summaries := []struct {
		label string
		value string
	}{
		{"Kostpris:", FormatDKK(res.CostPrice)},
		{fmt.Sprintf("Dækningsgrad (%.1f%%):", res.DBPercentage), FormatDKK(res.DBAmount)},
		{"Salgspris ekskl. moms:", FormatDKK(res.SalePriceExclVAT)},
		{"Rabat:", FormatDKK(res.DiscountAmount)},
		{"Nettopris:", FormatDKK(res.NetPrice)},
		{fmt.Sprintf("Moms (%.0f%%):", res.Settings.VATPercentage), FormatDKK(res.VATAmount)},
		{"Totalpris inkl. moms:", FormatDKK(res.FinalAmount)},
	}
	for _, s := range summaries {
		rowStr := fmt.Sprintf("%d", row)
		f.SetCellValue(sheetName, "G"+rowStr, s.label)
		f.SetCellStyle(sheetName, "G"+rowStr, "G"+rowStr, summaryLabelStyle)
		f.SetCellValue(sheetName, "H"+rowStr, s.value)
		f.SetCellStyle(sheetName, "H"+rowStr, "H"+rowStr, summaryValueStyle)
		row++
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}

	return buf.Bytes(), nil
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +, -,
// @, \t or \r as formulas.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns thin border definitions for all four sides.
func thinBorders() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "#CCCCCC", Style: 1},
		{Type: "right", Color: "#CCCCCC", Style: 1},
		{Type: "top", Color: "#CCCCCC", Style: 1},
		{Type: "bottom", Color: "#CCCCCC", Style: 1},
	}
}
