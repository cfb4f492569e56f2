package host

import (
	"fmt"
	"slices"

	"cad-ui-bridge/internal/domain/model"
	"github.com/Knetic/govaluate"
)

const (
	filterAll      = "All"
	filterCategory = "Category"
	filterLayer    = "Layer"
	filterProperty = "Property"
)

var propertyOperators = []string{"==", "!=", ">", ">=", "<", "<=", "=~", "&&", "||"}

func builtinFilters(doc *Document) []model.SelectionFilter {
	return []model.SelectionFilter{
		{Name: filterAll, Icon: "mdi-select-all", Type: model.FilterTypeAll},
		{Name: filterCategory, Icon: "mdi-shape-outline", Type: model.FilterTypeList, Values: doc.distinct(func(o *Object) string { return o.Type })},
		{Name: filterLayer, Icon: "mdi-layers", Type: model.FilterTypeList, Values: doc.distinct(func(o *Object) string { return o.Layer })},
		{Name: filterProperty, Icon: "mdi-filter", Type: model.FilterTypeProperty, Operators: propertyOperators},
	}
}

// resolve returns the ids of the objects f selects, in document order.
func resolve(doc *Document, f *model.SelectionFilter) ([]string, error) {
	switch f.Type {
	case model.FilterTypeAll:
		return doc.ids(), nil
	case model.FilterTypeList:
		return match(doc, func(o *Object) (bool, error) {
			return slices.Contains(f.Selection, listValue(o, f.Name)), nil
		})
	case model.FilterTypeProperty:
		expr, err := govaluate.NewEvaluableExpression(f.Expression)
		if err != nil {
			return nil, fmt.Errorf("property filter %q: %w", f.Expression, err)
		}
		return match(doc, func(o *Object) (bool, error) {
			result, err := expr.Evaluate(parameters(o))
			if err != nil {
				// objects without the referenced properties do not match
				return false, nil
			}
			ok, _ := result.(bool)
			return ok, nil
		})
	default:
		return nil, fmt.Errorf("unsupported filter type %q", f.Type)
	}
}

func match(doc *Document, pred func(*Object) (bool, error)) ([]string, error) {
	out := []string{}
	for _, o := range doc.Objects {
		ok, err := pred(o)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, o.ID)
		}
	}
	return out, nil
}

func listValue(o *Object, name string) string {
	switch name {
	case filterCategory:
		return o.Type
	case filterLayer:
		return o.Layer
	}
	if v, ok := o.Properties[name]; ok {
		return fmt.Sprint(v)
	}
	return ""
}

func parameters(o *Object) map[string]any {
	params := make(map[string]any, len(o.Properties)+3)
	for k, v := range o.Properties {
		params[k] = v
	}
	params["id"] = o.ID
	params["type"] = o.Type
	params["layer"] = o.Layer
	return params
}
