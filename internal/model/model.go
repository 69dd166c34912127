// Package model defines the data structures shared by the load planning
// engine, the importers and the exporters.
package model

import "github.com/google/uuid"

// Dimensions describes an axis-aligned box in centimeters.
// Width spans the x axis, Height the y axis and Length the z (depth) axis.
type Dimensions struct {
	Length float64 `json:"length"` // cm, depth (z)
	Width  float64 `json:"width"`  // cm (x)
	Height float64 `json:"height"` // cm (y)
}

// Volume returns the enclosed volume in cubic centimeters.
func (d Dimensions) Volume() float64 {
	return d.Length * d.Width * d.Height
}

// PackageType describes one kind of box to load into the container.
// A Quantity of zero or less means "fill": pack as many as fit, bounded
// by an internal cap in the search coordinator.
type PackageType struct {
	ID          string  `json:"id"`
	Label       string  `json:"label"`
	Length      float64 `json:"length"` // cm, depth (z)
	Width       float64 `json:"width"`  // cm (x)
	Height      float64 `json:"height"` // cm (y)
	Quantity    int     `json:"quantity"`
	Color       string  `json:"color,omitempty"` // cosmetic passthrough, e.g. "#4caf50"
	KeepUpright bool    `json:"keep_upright"`
}

func NewPackageType(label string, length, width, height float64, qty int) PackageType {
	return PackageType{
		ID:       uuid.New().String()[:8],
		Label:    label,
		Length:   length,
		Width:    width,
		Height:   height,
		Quantity: qty,
	}
}

// Dims returns the package dimensions as a Dimensions value.
func (p PackageType) Dims() Dimensions {
	return Dimensions{Length: p.Length, Width: p.Width, Height: p.Height}
}

// Volume returns the volume of a single box of this type.
func (p PackageType) Volume() float64 {
	return p.Length * p.Width * p.Height
}

// IsFill reports whether the type has unbounded demand.
func (p PackageType) IsFill() bool {
	return p.Quantity <= 0
}

// PackingInput is the request consumed by the search coordinator. Dimensions
// are assumed positive and pre-validated by the caller.
type PackingInput struct {
	Container Dimensions    `json:"container"`
	Packages  []PackageType `json:"packages"`
}

// PlacedItem is one box placed inside the container. Width, Height and
// Length are the oriented extents, which may be a permutation of the source
// type's dimensions.
type PlacedItem struct {
	PackageID string  `json:"package_id"`
	Label     string  `json:"label"`
	Color     string  `json:"color,omitempty"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Z         float64 `json:"z"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Length    float64 `json:"length"`
}

// Volume returns the volume occupied by the placed item.
func (p PlacedItem) Volume() float64 {
	return p.Width * p.Height * p.Length
}

// PackingResult holds the full solution of one optimization run. Unplaced
// entries carry the remaining count of finite-quantity types in Quantity;
// fill types are never reported as unplaced.
type PackingResult struct {
	Container         Dimensions    `json:"container"`
	Items             []PlacedItem  `json:"items"`
	Unplaced          []PackageType `json:"unplaced,omitempty"`
	VolumeUtilization float64       `json:"volume_utilization"` // percent
	TotalItemsPacked  int           `json:"total_items_packed"`
	Layers            []float64     `json:"layers"` // sorted unique z start depths
}

// UsedVolume returns the summed volume of all placed items.
func (r PackingResult) UsedVolume() float64 {
	var total float64
	for _, it := range r.Items {
		total += it.Volume()
	}
	return total
}

// Plan ties a packing input and its last result together for save/load.
type Plan struct {
	Name   string         `json:"name"`
	Input  PackingInput   `json:"input"`
	Result *PackingResult `json:"result,omitempty"`
}

func NewPlan(name string) Plan {
	if name == "" {
		name = "Untitled"
	}
	return Plan{
		Name: name,
		Input: PackingInput{
			Container: DefaultAppConfig().DefaultContainer,
			Packages:  []PackageType{},
		},
	}
}
