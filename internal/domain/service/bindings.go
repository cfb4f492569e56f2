package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"

	"cad-ui-bridge/internal/domain/model"
	"cad-ui-bridge/internal/logx"
	"cad-ui-bridge/internal/ports"
)

var (
	ErrAlreadyAttached = errors.New("bindings already attached to a ui surface")
	ErrNotAttached     = errors.New("bindings not attached to a ui surface")
	ErrNoWindow        = errors.New("no native window attached")
)

// Bindings is the object UI scripts call into. Host specific operations are served
// by the embedded HostBridge; everything else is implemented here.
type Bindings struct {
	ports.HostBridge

	notifier *Notifier
	accounts ports.AccountRepository
	launcher ports.ProcessLauncher

	attached atomic.Bool
	window   atomic.Pointer[windowRef]
}

type windowRef struct {
	ports.Window
}

var _ ports.BridgePort = (*Bindings)(nil)

func NewBindings(host ports.HostBridge, notifier *Notifier, accounts ports.AccountRepository, launcher ports.ProcessLauncher) *Bindings {
	if notifier == nil {
		notifier = NewNotifier()
	}
	return &Bindings{
		HostBridge: host,
		notifier:   notifier,
		accounts:   accounts,
		launcher:   launcher,
	}
}

// Attach binds the UI surface handles. It succeeds once; a failed attach leaves the
// bindings unattached.
func (b *Bindings) Attach(engine ports.ScriptEngine, window ports.Window) error {
	if engine == nil {
		return errors.New("nil script engine")
	}
	if !b.attached.CompareAndSwap(false, true) {
		return ErrAlreadyAttached
	}
	if err := b.notifier.Bind(engine); err != nil {
		b.attached.Store(false)
		return fmt.Errorf("attach script engine: %w", err)
	}
	if window != nil {
		b.window.Store(&windowRef{window})
	}
	return nil
}

func (b *Bindings) Notifier() *Notifier { return b.notifier }

func (b *Bindings) Notify(eventName string, payload any) {
	b.notifier.Notify(eventName, payload)
}

func (b *Bindings) DispatchAction(actionName string, arg *string) {
	b.notifier.DispatchAction(actionName, arg)
}

func (b *Bindings) ShowDeveloperTools() error {
	engine, ok := b.notifier.Engine()
	if !ok {
		return ErrNotAttached
	}
	return engine.ShowDevTools()
}

// ShowAccountsPopup opens the sign-in dialog on the window thread and blocks until it
// is dismissed. The UI is told to reload its accounts whatever the outcome.
func (b *Bindings) ShowAccountsPopup() error {
	ref := b.window.Load()
	if ref == nil {
		return ErrNoWindow
	}

	var dialogErr error
	err := ref.Invoke(func() {
		defer b.DispatchAction(model.ActionGetAccounts, nil)

		confirmed, err := ref.ShowSignInDialog()
		if err != nil {
			dialogErr = err
			logx.Log.Warn().Err(err).Msg("sign-in dialog failed")
			return
		}
		logx.Log.Debug().Bool("confirmed", confirmed).Msg("sign-in dialog closed")
	})
	if err != nil {
		return fmt.Errorf("show accounts popup: %w", err)
	}
	return dialogErr
}

func (b *Bindings) GetAccounts(ctx context.Context) (string, error) {
	accounts, err := b.accounts.All(ctx)
	if err != nil {
		return "", err
	}
	if accounts == nil {
		accounts = []model.Account{}
	}
	return marshal(accounts)
}

func (b *Bindings) GetFilters() (string, error) {
	filters := b.ListSelectionFilters()
	if filters == nil {
		filters = []model.SelectionFilter{}
	}
	return marshal(filters)
}

// StartExternalProcess launches args and ignores every failure so a bad command
// can never take the UI down.
// TODO: surface launch failures to the UI once it has a place to show them.
func (b *Bindings) StartExternalProcess(args string) {
	if b.launcher == nil {
		return
	}
	defer func() { _ = recover() }()
	_ = b.launcher.Start(args)
}

func (b *Bindings) CanSelectObjects() bool {
	if s, ok := b.HostBridge.(ports.ObjectSelector); ok {
		return s.CanSelectObjects()
	}
	return false
}

func (b *Bindings) CanTogglePreview() bool {
	if p, ok := b.HostBridge.(ports.PreviewToggler); ok {
		return p.CanTogglePreview()
	}
	return false
}

func marshal(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
