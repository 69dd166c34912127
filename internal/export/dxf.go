package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"
	"github.com/yofu/dxf/table"

	"github.com/loadwise/loadplan/internal/engine"
	"github.com/loadwise/loadplan/internal/model"
)

// dxfLayerColors cycles through distinct DXF colors, one per loading step.
var dxfLayerColors = []color.ColorNumber{
	color.Red,
	color.Yellow,
	color.Green,
	color.Cyan,
	color.Blue,
	color.Magenta,
}

// ExportDXF writes a top-down (x/z) floor plan of the packed container.
// The container outline goes on a CONTAINER layer and each loading step
// gets its own STEP_n layer holding the footprints of the items that
// start at that depth.
func ExportDXF(path string, result model.PackingResult) error {
	if len(result.Items) == 0 {
		return fmt.Errorf("no placed items to export")
	}

	d := dxf.NewDrawing()

	if _, err := d.AddLayer("CONTAINER", color.White, table.LT_CONTINUOUS, true); err != nil {
		return fmt.Errorf("failed to add container layer: %w", err)
	}
	if err := drawRect(d, 0, 0, result.Container.Width, result.Container.Length); err != nil {
		return fmt.Errorf("failed to draw container outline: %w", err)
	}

	for layer := range result.Layers {
		name := fmt.Sprintf("STEP_%d", layer+1)
		col := dxfLayerColors[layer%len(dxfLayerColors)]
		if _, err := d.AddLayer(name, col, table.LT_CONTINUOUS, true); err != nil {
			return fmt.Errorf("failed to add layer %s: %w", name, err)
		}
		for _, it := range result.Items {
			if engine.LayerIndex(result.Layers, it.Z) != layer {
				continue
			}
			// Top-down view: drawing x is container x, drawing y is depth z.
			if err := drawRect(d, it.X, it.Z, it.Width, it.Length); err != nil {
				return fmt.Errorf("failed to draw footprint of %q: %w", it.Label, err)
			}
		}
	}

	return d.SaveAs(path)
}

// drawRect draws an axis-aligned rectangle on the drawing's current layer.
func drawRect(d *drawing.Drawing, x, y, w, h float64) error {
	edges := [4][4]float64{
		{x, y, x + w, y},
		{x + w, y, x + w, y + h},
		{x + w, y + h, x, y + h},
		{x, y + h, x, y},
	}
	for _, e := range edges {
		if _, err := d.Line(e[0], e[1], 0, e[2], e[3], 0); err != nil {
			return err
		}
	}
	return nil
}
