package ports

import (
	"context"

	"cad-ui-bridge/internal/domain/model"
)

type AccountRepository interface {
	All(ctx context.Context) ([]model.Account, error)
	Upsert(ctx context.Context, account model.Account) error
	Delete(ctx context.Context, id string) error
	SetDefault(ctx context.Context, id string) error
}

// ProcessLauncher starts an OS-level process, typically opening a URL or file.
type ProcessLauncher interface {
	Start(args string) error
}
