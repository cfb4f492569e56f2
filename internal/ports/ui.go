package ports

import "errors"

// ScriptEngine is the embedded UI engine as seen from the native side.
type ScriptEngine interface {
	// EvaluateScriptAsync queues script for evaluation in the main content frame and
	// returns without waiting for it to run.
	EvaluateScriptAsync(script string) error
	ShowDevTools() error
}

// Window is the top-level native window owning the embedded UI.
type Window interface {
	// Invoke runs fn on the thread owning the window and blocks until it returns.
	Invoke(fn func()) error
	// ShowSignInDialog opens the modal accounts dialog. It must be called from
	// inside Invoke and reports whether the user confirmed.
	ShowSignInDialog() (bool, error)
}

// Notifier is the outbound channel hosts use to reach the UI.
type Notifier interface {
	Notify(eventName string, payload any)
	DispatchAction(actionName string, arg *string)
}

// ErrTransportNotReady is returned by script engines that have no UI attached yet.
var ErrTransportNotReady = errors.New("ui transport not ready")
