package ports

import (
	"context"

	"cad-ui-bridge/internal/domain/model"
)

// ClientRepository persists the client records of one host document.
type ClientRepository interface {
	Get(ctx context.Context) ([]*model.ClientRecord, error)
	Save(ctx context.Context, clients []*model.ClientRecord) error
}
