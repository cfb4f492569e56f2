package window

import (
	"context"

	"cad-ui-bridge/internal/ports"
)

// Dialog is a modal dialog that blocks until dismissed or ctx is done.
type Dialog interface {
	Run(ctx context.Context) (bool, error)
}

// Native is the top-level window: a UI thread plus the dialogs it owns. Dialogs run
// under the window's lifetime context.
type Native struct {
	Title string

	ctx    context.Context
	thread *Thread
	signIn Dialog
}

var _ ports.Window = (*Native)(nil)

func New(ctx context.Context, title string, thread *Thread, signIn Dialog) *Native {
	return &Native{Title: title, ctx: ctx, thread: thread, signIn: signIn}
}

func (w *Native) Invoke(fn func()) error {
	return w.thread.Invoke(fn)
}

func (w *Native) ShowSignInDialog() (bool, error) {
	return w.signIn.Run(w.ctx)
}
