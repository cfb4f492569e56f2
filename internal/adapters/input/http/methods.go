package http

import (
	"context"
	"sort"

	"cad-ui-bridge/internal/ports"
)

// call invokes one bridge method with the raw request body. A nil result is answered
// with 204, a string as text and a bool as JSON.
type call func(ctx context.Context, b ports.BridgePort, arg string) (any, error)

var calls = map[string]call{
	"getApplicationHostName": text(ports.BridgePort.GetApplicationHostName),
	"getFileName":            text(ports.BridgePort.GetFileName),
	"getDocumentId":          text(ports.BridgePort.GetDocumentID),
	"getDocumentLocation":    text(ports.BridgePort.GetDocumentLocation),
	"getFileClients":         textErr(ports.BridgePort.GetFileClients),
	"getFilters":             textErr(ports.BridgePort.GetFilters),
	"getAccounts": func(ctx context.Context, b ports.BridgePort, _ string) (any, error) {
		accounts, err := b.GetAccounts(ctx)
		if err != nil {
			return nil, err
		}
		return accounts, nil
	},

	"showDeveloperTools": action(ports.BridgePort.ShowDeveloperTools),
	"showAccountsPopup":  action(ports.BridgePort.ShowAccountsPopup),
	"startExternalProcess": func(_ context.Context, b ports.BridgePort, arg string) (any, error) {
		b.StartExternalProcess(arg)
		return nil, nil
	},

	"canSelectObjects": flag(ports.BridgePort.CanSelectObjects),
	"canTogglePreview": flag(ports.BridgePort.CanTogglePreview),

	"addSender":                 withArg(ports.BridgePort.AddSender),
	"updateSender":              withArg(ports.BridgePort.UpdateSender),
	"pushSender":                withArg(ports.BridgePort.PushSender),
	"addSelectionToSender":      withArg(ports.BridgePort.AddSelectionToSender),
	"removeSelectionFromSender": withArg(ports.BridgePort.RemoveSelectionFromSender),
	"addObjectsToSender":        withArg(ports.BridgePort.AddObjectsToSender),
	"removeObjectsFromSender":   withArg(ports.BridgePort.RemoveObjectsFromSender),
	"addReceiver":               withArg(ports.BridgePort.AddReceiver),
	"removeClient":              withArg(ports.BridgePort.RemoveClient),
	"bakeReceiver":              withArg(ports.BridgePort.BakeReceiver),
	"selectClientObjects":       withArg(ports.BridgePort.SelectClientObjects),
}

func methodNames() []string {
	names := make([]string, 0, len(calls))
	for name := range calls {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func text(fn func(ports.BridgePort) string) call {
	return func(_ context.Context, b ports.BridgePort, _ string) (any, error) {
		return fn(b), nil
	}
}

func textErr(fn func(ports.BridgePort) (string, error)) call {
	return func(_ context.Context, b ports.BridgePort, _ string) (any, error) {
		s, err := fn(b)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

func flag(fn func(ports.BridgePort) bool) call {
	return func(_ context.Context, b ports.BridgePort, _ string) (any, error) {
		return fn(b), nil
	}
}

func action(fn func(ports.BridgePort) error) call {
	return func(_ context.Context, b ports.BridgePort, _ string) (any, error) {
		return nil, fn(b)
	}
}

func withArg(fn func(ports.BridgePort, string) error) call {
	return func(_ context.Context, b ports.BridgePort, arg string) (any, error) {
		return nil, fn(b, arg)
	}
}
