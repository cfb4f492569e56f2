package model

type FilterType string

const (
	FilterTypeAll      FilterType = "All"
	FilterTypeList     FilterType = "List"
	FilterTypeProperty FilterType = "Property"
)

// SelectionFilter describes a UI-selectable criterion for the host elements a client acts on.
type SelectionFilter struct {
	Name      string     `json:"Name"`
	Icon      string     `json:"Icon"`
	Type      FilterType `json:"Type"`
	Values    []string   `json:"Values,omitempty"`
	Operators []string   `json:"Operators,omitempty"`
	Selection []string   `json:"Selection,omitempty"`

	// Expression is set by the UI for property filters, e.g. "height > 3".
	Expression string `json:"Expression,omitempty"`
}
