package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	SheetName   = "Заказы"
	TotalsLabel = "ВСЕГО"
)

// Document is a rendered export ready to be sent as a file.
type Document struct {
	Filename string
	Data     []byte
}

// Renderer turns a summary table into a downloadable document.
type Renderer interface {
	Render(t *SummaryTable) (Document, error)
}

// XLSXRenderer lays the table out as:
// №, Точка, Адрес, one column per catalog item, Итого; then a blank row
// and the ВСЕГО row with column and grand totals.
type XLSXRenderer struct{}

func (XLSXRenderer) Render(t *SummaryTable) (Document, error) {
	if t == nil {
		return Document{}, fmt.Errorf("xlsx: empty summary")
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return Document{}, fmt.Errorf("xlsx: %w", err)
	}

	header := []any{"№", "Точка", "Адрес"}
	for _, it := range t.Items {
		header = append(header, it)
	}
	header = append(header, "Итого")
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return Document{}, fmt.Errorf("xlsx: header: %w", err)
	}

	rowNum := 2
	for _, r := range t.Rows {
		row := []any{r.Index, r.LocationName, r.Address}
		for _, q := range r.Quantities {
			row = append(row, q)
		}
		row = append(row, r.Total)
		cell, _ := excelize.CoordinatesToCellName(1, rowNum)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return Document{}, fmt.Errorf("xlsx: row %d: %w", r.Index, err)
		}
		rowNum++
	}

	rowNum++ // пустая строка перед итогами
	totals := []any{"", TotalsLabel, ""}
	for _, q := range t.ColumnTotals {
		totals = append(totals, q)
	}
	totals = append(totals, t.GrandTotal)
	totalsCell, _ := excelize.CoordinatesToCellName(1, rowNum)
	if err := f.SetSheetRow(SheetName, totalsCell, &totals); err != nil {
		return Document{}, fmt.Errorf("xlsx: totals: %w", err)
	}

	if err := style(f, len(header), rowNum); err != nil {
		return Document{}, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return Document{}, fmt.Errorf("xlsx: write: %w", err)
	}
	return Document{
		Filename: fmt.Sprintf("orders_%s.xlsx", t.Date),
		Data:     buf.Bytes(),
	}, nil
}

func style(f *excelize.File, cols, totalsRow int) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("xlsx: style: %w", err)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(cols, 1)
	if err := f.SetCellStyle(SheetName, "A1", lastHeader, bold); err != nil {
		return fmt.Errorf("xlsx: style: %w", err)
	}
	first, _ := excelize.CoordinatesToCellName(1, totalsRow)
	last, _ := excelize.CoordinatesToCellName(cols, totalsRow)
	if err := f.SetCellStyle(SheetName, first, last, bold); err != nil {
		return fmt.Errorf("xlsx: style: %w", err)
	}
	if err := f.SetColWidth(SheetName, "A", "A", 5); err != nil {
		return fmt.Errorf("xlsx: width: %w", err)
	}
	return f.SetColWidth(SheetName, "B", "C", 28)
}
