package script

import (
	"fmt"

	"cad-ui-bridge/internal/domain/model"
)

// StoreFormatter dispatches a named action on the UI's state container.
type StoreFormatter struct{}

func (f *StoreFormatter) Target() model.Target { return model.TargetStore }

func (f *StoreFormatter) Format(n model.Notification) (string, error) {
	arg := "null"
	if n.Argument != nil {
		arg = quote(*n.Argument)
	}
	return fmt.Sprintf("window.Store.dispatch(%s, %s)", quote(n.Name), arg), nil
}
