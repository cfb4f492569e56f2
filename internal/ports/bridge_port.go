package ports

import (
	"context"
)

// BridgePort is the call surface exposed to UI scripts.
type BridgePort interface {
	HostBridge

	ShowDeveloperTools() error
	ShowAccountsPopup() error
	GetAccounts(ctx context.Context) (string, error)
	GetFilters() (string, error)
	StartExternalProcess(args string)
	CanSelectObjects() bool
	CanTogglePreview() bool
}
