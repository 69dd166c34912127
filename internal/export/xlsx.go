package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/loadwise/loadplan/internal/model"
)

// ExportXLSX writes the packing result to an Excel workbook with a Manifest
// sheet (one row per placed item, in loading order) and a Summary sheet with
// overall statistics and the unplaced remainder.
func ExportXLSX(path string, result model.PackingResult) error {
	if len(result.Items) == 0 {
		return fmt.Errorf("no placed items to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), "Manifest"); err != nil {
		return fmt.Errorf("failed to rename manifest sheet: %w", err)
	}
	if err := writeManifestSheet(f, result); err != nil {
		return err
	}

	if _, err := f.NewSheet("Summary"); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := writeSummarySheet(f, result); err != nil {
		return err
	}

	return f.SaveAs(path)
}

func writeManifestSheet(f *excelize.File, result model.PackingResult) error {
	headers := []string{"Step", "Label", "Width (cm)", "Height (cm)", "Length (cm)", "X", "Y", "Z", "Volume (cm3)"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue("Manifest", cell, h); err != nil {
			return err
		}
	}

	for row, info := range CollectLabelInfos(result) {
		values := []interface{}{
			info.Step, info.ItemLabel,
			info.Width, info.Height, info.Length,
			info.X, info.Y, info.Z,
			info.Width * info.Height * info.Length,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue("Manifest", cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeSummarySheet(f *excelize.File, result model.PackingResult) error {
	rows := [][2]interface{}{
		{"Container (L x W x H cm)", fmt.Sprintf("%.0f x %.0f x %.0f", result.Container.Length, result.Container.Width, result.Container.Height)},
		{"Items packed", result.TotalItemsPacked},
		{"Loading steps", len(result.Layers)},
		{"Volume utilization (%)", result.VolumeUtilization},
		{"Used volume (cm3)", result.UsedVolume()},
	}

	r := 1
	for _, row := range rows {
		for col, v := range []interface{}{row[0], row[1]} {
			cell, err := excelize.CoordinatesToCellName(col+1, r)
			if err != nil {
				return err
			}
			if err := f.SetCellValue("Summary", cell, v); err != nil {
				return err
			}
		}
		r++
	}

	if len(result.Unplaced) > 0 {
		r++
		cell, err := excelize.CoordinatesToCellName(1, r)
		if err != nil {
			return err
		}
		if err := f.SetCellValue("Summary", cell, "Did not fit"); err != nil {
			return err
		}
		r++
		for _, u := range result.Unplaced {
			values := []interface{}{
				u.Label,
				fmt.Sprintf("%.0f x %.0f x %.0f cm", u.Length, u.Width, u.Height),
				u.Quantity,
			}
			for col, v := range values {
				cell, err := excelize.CoordinatesToCellName(col+1, r)
				if err != nil {
					return err
				}
				if err := f.SetCellValue("Summary", cell, v); err != nil {
					return err
				}
			}
			r++
		}
	}
	return nil
}
