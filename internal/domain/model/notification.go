package model

import "encoding/json"

// Target is the UI-side entry point a notification is delivered to.
type Target string

const (
	TargetEventBus Target = "event_bus"
	TargetStore    Target = "store"
)

// Event names and store actions understood by the UI.
const (
	EventUpdateClient         = "update-client"
	EventUpdateSelectionCount = "update-selection-count"
	EventClientError          = "client-error"

	ActionGetAccounts = "getAccounts"
)

// Notification is a host-initiated message for the UI. Event notifications carry an
// arbitrary payload, store actions a single optional string argument.
type Notification struct {
	Target   Target
	Name     string
	Payload  any
	Argument *string
}

// RawPayload marks a payload that is already serialized and must be forwarded verbatim.
type RawPayload = json.RawMessage
