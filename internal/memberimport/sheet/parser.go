// Package sheet reads and writes the bulk import spreadsheets.
package sheet

import (
	"errors"
	"io"
	"strings"

	"github.com/leavehub/leavehub/internal/memberimport/domain"
	"github.com/xuri/excelize/v2"
)

// Column positions of the fixed row fields.
const (
	colName = iota
	colEmail
	colDepartment
	colPublicHoliday
	colEmploymentStartDate
	colCustomID
	colAccountEnabled
	colFirstAllowance
)

var ErrNoSheets = errors.New("workbook has no sheets")

// Parse reads the first sheet of an xlsx/xls workbook into import rows.
// Row 0 is the header row and is discarded; its columns from position 7 on
// name the dynamic allowance columns fed to the decoder. Rows with an empty
// name or an empty (post-trim) email cell are dropped silently.
func Parse(file io.Reader, decoder *Decoder) ([]*domain.ImportRow, error) {
	workbook, err := excelize.OpenReader(file)
	if err != nil {
		return nil, err
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}

	raw, err := workbook.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}

	headers := raw[0]
	rows := make([]*domain.ImportRow, 0, len(raw)-1)
	for _, cells := range raw[1:] {
		name := strings.TrimSpace(cellAt(cells, colName))
		email := strings.TrimSpace(cellAt(cells, colEmail))
		if name == "" || email == "" {
			continue
		}

		row := &domain.ImportRow{
			Name:                name,
			Email:               email,
			Department:          strings.TrimSpace(cellAt(cells, colDepartment)),
			PublicHoliday:       strings.TrimSpace(cellAt(cells, colPublicHoliday)),
			EmploymentStartDate: strings.TrimSpace(cellAt(cells, colEmploymentStartDate)),
			CustomID:            strings.TrimSpace(cellAt(cells, colCustomID)),
			AccountEnabled:      strings.TrimSpace(cellAt(cells, colAccountEnabled)),
			ValidationStatus:    domain.RowPending,
		}

		acc := NewAccumulator()
		for col := colFirstAllowance; col < len(headers); col++ {
			header := strings.TrimSpace(headers[col])
			if header == "" {
				continue
			}
			decoder.Decode(acc, header, cellAt(cells, col))
		}
		row.Allowances = acc.List()

		rows = append(rows, row)
	}

	return rows, nil
}

func cellAt(cells []string, index int) string {
	if index < 0 || index >= len(cells) {
		return ""
	}
	return cells[index]
}
