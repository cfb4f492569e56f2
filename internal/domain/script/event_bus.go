package script

import (
	"encoding/json"
	"fmt"

	"cad-ui-bridge/internal/domain/model"
)

// EventBusFormatter emits a named event on the UI's global event bus.
type EventBusFormatter struct{}

func (f *EventBusFormatter) Target() model.Target { return model.TargetEventBus }

func (f *EventBusFormatter) Format(n model.Notification) (string, error) {
	payload, err := json.Marshal(n.Payload)
	if err != nil {
		return "", fmt.Errorf("serialize payload for event %q: %w", n.Name, err)
	}
	return fmt.Sprintf("window.EventBus.$emit(%s, %s)", quote(n.Name), payload), nil
}

// quote renders s as a JS string literal. encoding/json escapes quotes, control
// characters, U+2028/U+2029 and HTML-sensitive runes, so the result is safe to splice.
func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
