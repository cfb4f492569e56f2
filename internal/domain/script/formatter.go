package script

import (
	"cad-ui-bridge/internal/domain/model"
)

// Formatter renders a notification as script text the UI engine can evaluate.
type Formatter interface {
	Format(n model.Notification) (string, error)
	Target() model.Target
}
