package model

import "time"

type ClientRole string

const (
	ClientRoleSender   ClientRole = "sender"
	ClientRoleReceiver ClientRole = "receiver"
)

// ClientRecord describes a data-exchange endpoint stored alongside a host document.
// The bridge core never looks inside it; hosts decode it from the raw argument strings.
type ClientRecord struct {
	ID        string           `json:"_id"`
	Role      ClientRole       `json:"type"`
	Name      string           `json:"name,omitempty"`
	StreamID  string           `json:"streamId"`
	AccountID string           `json:"accountId,omitempty"`
	Objects   []string         `json:"objects,omitempty"`
	Filter    *SelectionFilter `json:"filter,omitempty"`
	PushedAt  *time.Time       `json:"pushedAt,omitempty"`
	BakedAt   *time.Time       `json:"bakedAt,omitempty"`
}

// ClientObjects is the argument shape of the add/remove objects operations.
type ClientObjects struct {
	ID      string   `json:"_id"`
	Objects []string `json:"objects"`
}
