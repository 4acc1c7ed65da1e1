package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// WriteWorkbook renders grids as an XLSX file, one worksheet per grid, in order.
func WriteWorkbook(grids []Grid) ([]byte, error) {
	if len(grids) == 0 {
		return nil, fmt.Errorf("workbook needs at least one sheet")
	}

	f := excelize.NewFile()
	defer f.Close()

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create title style: %w", err)
	}

	for i, g := range grids {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), g.Name); err != nil {
				return nil, fmt.Errorf("failed to name sheet %q: %w", g.Name, err)
			}
		} else if _, err := f.NewSheet(g.Name); err != nil {
			return nil, fmt.Errorf("failed to add sheet %q: %w", g.Name, err)
		}
		if err := fillSheet(f, g, titleStyle); err != nil {
			return nil, err
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func fillSheet(f *excelize.File, g Grid, titleStyle int) error {
	for r, row := range g.Rows {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return err
		}
		values := make([]any, len(row))
		for i, v := range row {
			values[i] = v
		}
		if err := f.SetSheetRow(g.Name, cell, &values); err != nil {
			return fmt.Errorf("failed to write %s!%s: %w", g.Name, cell, err)
		}
	}

	for i, w := range g.Widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(g.Name, col, col, w); err != nil {
			return fmt.Errorf("failed to size %s column %s: %w", g.Name, col, err)
		}
	}

	for _, m := range g.Merges {
		if err := f.MergeCell(g.Name, m[0], m[1]); err != nil {
			return fmt.Errorf("failed to merge %s!%s:%s: %w", g.Name, m[0], m[1], err)
		}
	}

	if len(g.Rows) > 0 {
		if err := f.SetCellStyle(g.Name, "A1", "A1", titleStyle); err != nil {
			return fmt.Errorf("failed to style %s title: %w", g.Name, err)
		}
	}
	return nil
}
