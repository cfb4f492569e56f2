package service

import (
	"context"
	"errors"
	"sync"

	"cad-ui-bridge/internal/domain/model"
	"github.com/stretchr/testify/mock"
)

type MockHost struct {
	mock.Mock
}

func (m *MockHost) GetApplicationHostName() string { return m.Called().String(0) }
func (m *MockHost) GetFileName() string            { return m.Called().String(0) }
func (m *MockHost) GetDocumentID() string          { return m.Called().String(0) }
func (m *MockHost) GetDocumentLocation() string    { return m.Called().String(0) }

func (m *MockHost) GetFileClients() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *MockHost) AddSender(a string) error                 { return m.Called(a).Error(0) }
func (m *MockHost) UpdateSender(a string) error              { return m.Called(a).Error(0) }
func (m *MockHost) PushSender(a string) error                { return m.Called(a).Error(0) }
func (m *MockHost) AddSelectionToSender(a string) error      { return m.Called(a).Error(0) }
func (m *MockHost) RemoveSelectionFromSender(a string) error { return m.Called(a).Error(0) }
func (m *MockHost) AddObjectsToSender(a string) error        { return m.Called(a).Error(0) }
func (m *MockHost) RemoveObjectsFromSender(a string) error   { return m.Called(a).Error(0) }
func (m *MockHost) AddReceiver(a string) error               { return m.Called(a).Error(0) }
func (m *MockHost) RemoveClient(a string) error              { return m.Called(a).Error(0) }
func (m *MockHost) BakeReceiver(a string) error              { return m.Called(a).Error(0) }
func (m *MockHost) SelectClientObjects(a string) error       { return m.Called(a).Error(0) }

func (m *MockHost) ListSelectionFilters() []model.SelectionFilter {
	args := m.Called()
	if f := args.Get(0); f != nil {
		return f.([]model.SelectionFilter)
	}
	return nil
}

// selectingHost advertises both optional capabilities.
type selectingHost struct {
	*MockHost
}

func (selectingHost) CanSelectObjects() bool { return true }
func (selectingHost) CanTogglePreview() bool { return true }

type recordingEngine struct {
	mu      sync.Mutex
	scripts []string
	devtool int
	err     error
}

func (e *recordingEngine) EvaluateScriptAsync(script string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return e.err
	}
	e.scripts = append(e.scripts, script)
	return nil
}

func (e *recordingEngine) ShowDevTools() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.devtool++
	return nil
}

func (e *recordingEngine) Scripts() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.scripts...)
}

type panickingEngine struct{}

func (panickingEngine) EvaluateScriptAsync(string) error { panic("browser not initialised") }
func (panickingEngine) ShowDevTools() error              { return nil }

type fakeWindow struct {
	confirmed bool
	err       error
	invokeErr error
	invoked   int
	inside    bool
}

func (w *fakeWindow) Invoke(fn func()) error {
	if w.invokeErr != nil {
		return w.invokeErr
	}
	w.invoked++
	w.inside = true
	defer func() { w.inside = false }()
	fn()
	return nil
}

func (w *fakeWindow) ShowSignInDialog() (bool, error) {
	if !w.inside {
		return false, errors.New("dialog opened off the window thread")
	}
	return w.confirmed, w.err
}

type fakeAccounts struct {
	accounts []model.Account
	err      error
}

func (f *fakeAccounts) All(ctx context.Context) ([]model.Account, error) { return f.accounts, f.err }
func (f *fakeAccounts) Upsert(ctx context.Context, a model.Account) error {
	f.accounts = append(f.accounts, a)
	return nil
}
func (f *fakeAccounts) Delete(ctx context.Context, id string) error     { return nil }
func (f *fakeAccounts) SetDefault(ctx context.Context, id string) error { return nil }

type failingLauncher struct {
	calls int
	panic bool
}

func (l *failingLauncher) Start(args string) error {
	l.calls++
	if l.panic {
		panic("exec blew up")
	}
	return errors.New("executable not found")
}
