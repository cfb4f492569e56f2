package host

import (
	"encoding/json"
	"fmt"
	"os"
)

// Document is the JSON model the standalone host works on.
type Document struct {
	ID      string    `json:"id,omitempty"`
	Objects []*Object `json:"objects"`
}

type Object struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Layer      string         `json:"layer,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
}

// LoadDocument reads a document file. A missing file is an empty document.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Document{}, nil
		}
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse document %s: %w", path, err)
	}
	seen := make(map[string]bool, len(doc.Objects))
	for _, o := range doc.Objects {
		if o.ID == "" {
			return nil, fmt.Errorf("parse document %s: object without id", path)
		}
		if seen[o.ID] {
			return nil, fmt.Errorf("parse document %s: duplicate object id %q", path, o.ID)
		}
		seen[o.ID] = true
	}
	return &doc, nil
}

func (d *Document) object(id string) (*Object, bool) {
	for _, o := range d.Objects {
		if o.ID == id {
			return o, true
		}
	}
	return nil, false
}

func (d *Document) ids() []string {
	out := make([]string, 0, len(d.Objects))
	for _, o := range d.Objects {
		out = append(out, o.ID)
	}
	return out
}

// distinct returns the distinct non-empty values of field in document order.
func (d *Document) distinct(field func(*Object) string) []string {
	seen := map[string]bool{}
	var out []string
	for _, o := range d.Objects {
		v := field(o)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
