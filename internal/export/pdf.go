// Package export provides functionality for exporting packing results to
// various file formats.
package export

import (
	"fmt"
	"math"
	"strconv"

	"github.com/go-pdf/fpdf"

	"github.com/loadwise/loadplan/internal/engine"
	"github.com/loadwise/loadplan/internal/model"
)

// itemColor represents an RGB color for a placed item.
type itemColor struct {
	R, G, B int
}

// itemColors is the fallback palette used when a package carries no color.
var itemColors = []itemColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF generates a PDF load plan. Each loading layer is rendered on its
// own page as the front view (x/y cross-section) of the items that start at
// that depth, followed by a summary page with overall statistics and the
// unplaced remainder.
func ExportPDF(path string, result model.PackingResult) error {
	if len(result.Items) == 0 {
		return fmt.Errorf("no placed items to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	for i, depth := range result.Layers {
		pdf.AddPage()
		renderLayerPage(pdf, result, i, depth)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, result)

	return pdf.OutputFileAndClose(path)
}

// layerItems returns the items that start in the given loading layer.
func layerItems(result model.PackingResult, layer int) []model.PlacedItem {
	var items []model.PlacedItem
	for _, it := range result.Items {
		if engine.LayerIndex(result.Layers, it.Z) == layer {
			items = append(items, it)
		}
	}
	return items
}

// renderLayerPage draws one loading step on the current page.
func renderLayerPage(pdf *fpdf.Fpdf, result model.PackingResult, layer int, depth float64) {
	items := layerItems(result, layer)

	// Title
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Step %d of %d: load at depth %.0f cm", layer+1, len(result.Layers), depth)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	// Stats line
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Items this step: %d | Container: %.0f x %.0f x %.0f cm",
		len(items), result.Container.Length, result.Container.Width, result.Container.Height)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	// Scale the container cross-section (width x height) into the draw area.
	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight
	scale := math.Min(drawWidth/result.Container.Width, drawHeight/result.Container.Height)

	canvasW := result.Container.Width * scale
	canvasH := result.Container.Height * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Container outline
	pdf.SetFillColor(240, 240, 240)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	for i, it := range items {
		col := colorFor(it, i)
		iw := it.Width * scale
		ih := it.Height * scale
		ix := offsetX + it.X*scale
		// The container's y axis points up; PDF pages grow downward.
		iy := offsetY + canvasH - (it.Y+it.Height)*scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(ix, iy, iw, ih, "FD")

		if iw > 15 && ih > 8 {
			pdf.SetFont("Helvetica", "", labelFontSize(iw, ih))
			pdf.SetTextColor(0, 0, 0)

			label := it.Label
			dims := fmt.Sprintf("%.0fx%.0fx%.0f", it.Width, it.Height, it.Length)

			labelW := pdf.GetStringWidth(label)
			dimsW := pdf.GetStringWidth(dims)

			if labelW < iw-2 {
				pdf.SetXY(ix+(iw-labelW)/2, iy+ih/2-4)
				pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
			}
			if ih > 14 && dimsW < iw-2 {
				pdf.SetXY(ix+(iw-dimsW)/2, iy+ih/2)
				pdf.CellFormat(dimsW, 4, dims, "", 0, "C", false, 0, "")
			}
		}
	}

	drawLayerLegend(pdf, items, offsetY+canvasH+5)
}

// labelFontSize picks a font size proportional to the drawn rectangle.
func labelFontSize(w, h float64) float64 {
	size := math.Min(w, h) / 4
	if size > 9 {
		size = 9
	}
	if size < 5 {
		size = 5
	}
	return size
}

// drawLayerLegend lists the items of the step below the diagram.
func drawLayerLegend(pdf *fpdf.Fpdf, items []model.PlacedItem, y float64) {
	counts := make(map[string]int)
	var order []string
	for _, it := range items {
		if counts[it.Label] == 0 {
			order = append(order, it.Label)
		}
		counts[it.Label]++
	}

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(60, 60, 60)
	pdf.SetXY(marginLeft, y)

	line := ""
	for i, label := range order {
		if i > 0 {
			line += "  |  "
		}
		line += fmt.Sprintf("%s x%d", label, counts[label])
	}
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, line, "", 0, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// renderSummaryPage draws the overall statistics and unplaced remainder.
func renderSummaryPage(pdf *fpdf.Fpdf, result model.PackingResult) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, "Load Plan Summary", "", 1, "L", false, 0, "")

	rows := [][2]string{
		{"Container", fmt.Sprintf("%.0f x %.0f x %.0f cm", result.Container.Length, result.Container.Width, result.Container.Height)},
		{"Items packed", strconv.Itoa(result.TotalItemsPacked)},
		{"Loading steps", strconv.Itoa(len(result.Layers))},
		{"Volume utilization", fmt.Sprintf("%.1f%%", result.VolumeUtilization)},
		{"Used volume", fmt.Sprintf("%.0f cm3", result.UsedVolume())},
	}

	y := marginTop + headerHeight + 8
	pdf.SetFont("Helvetica", "", 11)
	for _, row := range rows {
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(60, 6, row[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(100, 6, row[1], "", 0, "L", false, 0, "")
		y += 7
	}

	if len(result.Unplaced) > 0 {
		y += 6
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(120, 6, "Did not fit", "", 1, "L", false, 0, "")
		y += 8

		pdf.SetFont("Helvetica", "", 10)
		for _, u := range result.Unplaced {
			pdf.SetXY(marginLeft, y)
			line := fmt.Sprintf("%s (%.0f x %.0f x %.0f cm): %d remaining", u.Label, u.Length, u.Width, u.Height, u.Quantity)
			pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, line, "", 0, "L", false, 0, "")
			y += 6
		}
	}
}

// colorFor resolves a placed item's fill color: the package's own hex color
// when present, otherwise a palette entry keyed by position.
func colorFor(it model.PlacedItem, idx int) itemColor {
	if c, ok := parseHexColor(it.Color); ok {
		return c
	}
	return itemColors[idx%len(itemColors)]
}

// parseHexColor parses "#rrggbb" into an itemColor.
func parseHexColor(s string) (itemColor, bool) {
	if len(s) != 7 || s[0] != '#' {
		return itemColor{}, false
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return itemColor{}, false
	}
	return itemColor{
		R: int(v >> 16 & 0xff),
		G: int(v >> 8 & 0xff),
		B: int(v & 0xff),
	}, true
}
