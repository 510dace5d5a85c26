package sheet

import (
	"fmt"

	allowancedomain "github.com/leavehub/leavehub/internal/allowancetype/domain"
	"github.com/xuri/excelize/v2"
)

var fixedHeaders = []string{
	"Name",
	"Email",
	"Department",
	"Public Holiday",
	"Employment Start Date",
	"Custom ID",
	"Account Enabled",
}

// BuildTemplate renders the downloadable import template: the fixed column
// block followed by a current/next column pair per allowance type, plus one
// example row.
func BuildTemplate(sheetName, activeLabel string, types []allowancedomain.AllowanceType) ([]byte, error) {
	workbook := excelize.NewFile()
	defer workbook.Close()

	const defaultSheet = "Sheet1"
	if sheetName != "" && sheetName != defaultSheet {
		if err := workbook.SetSheetName(defaultSheet, sheetName); err != nil {
			return nil, err
		}
	} else {
		sheetName = defaultSheet
	}

	headers := make([]string, 0, len(fixedHeaders)+2*len(types))
	headers = append(headers, fixedHeaders...)
	for _, t := range types {
		headers = append(headers,
			fmt.Sprintf("%s (%s) current", t.Name, t.Unit),
			fmt.Sprintf("%s (%s) next", t.Name, t.Unit),
		)
	}

	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := workbook.SetCellValue(sheetName, cell, header); err != nil {
			return nil, err
		}
	}

	example := []string{
		"Jane Doe",
		"jane.doe@example.com",
		"Engineering",
		"United Kingdom",
		"2024-01-15",
		"EMP-001",
		activeLabel,
	}
	for _, t := range types {
		if t.IsHours() {
			example = append(example, "7:30", "7:30")
		} else {
			example = append(example, "20", "22")
		}
	}
	for i, value := range example {
		cell, err := excelize.CoordinatesToCellName(i+1, 2)
		if err != nil {
			return nil, err
		}
		if err := workbook.SetCellValue(sheetName, cell, value); err != nil {
			return nil, err
		}
	}

	buf, err := workbook.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
