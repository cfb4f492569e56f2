package script

import (
	"cad-ui-bridge/internal/domain/model"
)

type Factory struct {
	formatters map[model.Target]Formatter
}

func NewFactory() *Factory {
	return &Factory{
		formatters: map[model.Target]Formatter{
			model.TargetEventBus: &EventBusFormatter{},
			model.TargetStore:    &StoreFormatter{},
		},
	}
}

// GetFormatter returns the formatter for target, falling back to the event bus.
func (f *Factory) GetFormatter(target model.Target) Formatter {
	if fm, ok := f.formatters[target]; ok {
		return fm
	}
	return f.formatters[model.TargetEventBus]
}

// Render formats n with the formatter registered for its target.
func (f *Factory) Render(n model.Notification) (string, error) {
	return f.GetFormatter(n.Target).Format(n)
}
