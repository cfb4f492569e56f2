package ports

import (
	"cad-ui-bridge/internal/domain/model"
)

// HostBridge is the set of hooks every CAD host must supply. Arguments are the raw
// strings sent by the UI; hosts parse and validate them themselves.
type HostBridge interface {
	GetApplicationHostName() string
	GetFileName() string
	GetDocumentID() string
	GetDocumentLocation() string

	// GetFileClients returns the serialized clients stored in the open document.
	GetFileClients() (string, error)

	AddSender(args string) error
	UpdateSender(args string) error
	PushSender(args string) error
	AddSelectionToSender(args string) error
	RemoveSelectionFromSender(args string) error
	AddObjectsToSender(args string) error
	RemoveObjectsFromSender(args string) error

	AddReceiver(args string) error
	RemoveClient(args string) error
	BakeReceiver(args string) error

	// SelectClientObjects selects, previews or highlights the objects of a client.
	SelectClientObjects(args string) error

	ListSelectionFilters() []model.SelectionFilter
}

// ObjectSelector is implemented by hosts that can select client objects in their document.
type ObjectSelector interface {
	CanSelectObjects() bool
}

// PreviewToggler is implemented by hosts that can preview received objects.
type PreviewToggler interface {
	CanTogglePreview() bool
}
