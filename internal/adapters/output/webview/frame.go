package webview

// FrameType enumerates the frames sent to an attached UI page.
type FrameType string

const (
	TypeHello    FrameType = "hello"
	TypeEval     FrameType = "eval"
	TypeDevTools FrameType = "devtools"
)

// Frame is one message on the script transport.
type Frame struct {
	Type   FrameType `json:"type"`
	ID     string    `json:"id,omitempty"`
	Script string    `json:"script,omitempty"`
	// Token authenticates the page's calls into the bridge. Only set on hello frames.
	Token  string    `json:"token,omitempty"`
}

// inbound is what pages send back. Only logging is supported.
type inbound struct {
	Type    string `json:"type"`
	Level   string `json:"level,omitempty"`
	Message string `json:"message,omitempty"`
}
