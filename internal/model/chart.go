// Package model provides data models for the ngsreports tool.
package model

// ChartKind names the visual family a chart description targets.
type ChartKind string

const (
	ChartKindLine    ChartKind = "line"
	ChartKindArea    ChartKind = "area"
	ChartKindBar     ChartKind = "bar"
	ChartKindHeatmap ChartKind = "heatmap"
)

// ChartSpec is a declarative chart description handed to an external plotting
// collaborator together with its prepared data table. It names fields and
// mappings only; no rendering happens here.
type ChartSpec struct {
	Kind        ChartKind  `json:"kind"`
	Title       string     `json:"title"`
	Module      string     `json:"module"`                 // source FastQC module
	XField      string     `json:"x_field"`                // column mapped to the x axis
	YField      string     `json:"y_field,omitempty"`      // column mapped to the y axis
	SeriesField string     `json:"series_field,omitempty"` // one series per distinct value
	FacetField  string     `json:"facet_field,omitempty"`  // one panel per distinct value
	FillField   string     `json:"fill_field,omitempty"`   // column mapped to fill colour (heatmaps)
	XLabel      string     `json:"x_label,omitempty"`
	YLabel      string     `json:"y_label,omitempty"`
	YDomain     []float64  `json:"y_domain,omitempty"` // fixed [min, max] when the scale is known
	Palette     PwfPalette `json:"palette"`            // status colours for the renderer
}
