package service

import (
	"errors"
	"sync/atomic"

	"cad-ui-bridge/internal/domain/model"
	"cad-ui-bridge/internal/domain/script"
	"cad-ui-bridge/internal/logx"
	"cad-ui-bridge/internal/metrics"
	"cad-ui-bridge/internal/ports"
)

var ErrAlreadyBound = errors.New("script engine already bound")

// Notifier is the host-to-UI channel. It renders notifications as script text and
// hands them to the bound script engine without waiting for evaluation. Delivery is
// best effort: failures are logged and dropped. Two notifications reach the UI in
// issue order only if the engine evaluates scripts in FIFO order.
type Notifier struct {
	engine    atomic.Pointer[engineRef]
	formatter *script.Factory
}

type engineRef struct {
	ports.ScriptEngine
}

func NewNotifier() *Notifier {
	return &Notifier{formatter: script.NewFactory()}
}

// Bind sets the script engine. It succeeds once; later calls return ErrAlreadyBound.
func (n *Notifier) Bind(engine ports.ScriptEngine) error {
	if engine == nil {
		return errors.New("nil script engine")
	}
	if !n.engine.CompareAndSwap(nil, &engineRef{engine}) {
		return ErrAlreadyBound
	}
	return nil
}

// Engine returns the bound script engine, if any.
func (n *Notifier) Engine() (ports.ScriptEngine, bool) {
	ref := n.engine.Load()
	if ref == nil {
		return nil, false
	}
	return ref.ScriptEngine, true
}

// Notify emits eventName with payload on the UI event bus.
func (n *Notifier) Notify(eventName string, payload any) {
	n.send(model.Notification{Target: model.TargetEventBus, Name: eventName, Payload: payload})
}

// DispatchAction invokes actionName on the UI store. Only a few actions are
// meaningful to the UI; unknown names are ignored on its side.
func (n *Notifier) DispatchAction(actionName string, arg *string) {
	n.send(model.Notification{Target: model.TargetStore, Name: actionName, Argument: arg})
}

func (n *Notifier) send(msg model.Notification) {
	target := string(msg.Target)
	defer func() {
		if r := recover(); r != nil {
			metrics.RecordNotification(target, metrics.OutcomeError)
			logx.Log.Error().Str("target", target).Str("name", msg.Name).Interface("panic", r).Msg("notification transport panicked")
		}
	}()

	js, err := n.formatter.Render(msg)
	if err != nil {
		metrics.RecordNotification(target, metrics.OutcomeError)
		logx.Log.Warn().Err(err).Str("target", target).Str("name", msg.Name).Msg("notification dropped")
		return
	}

	engine, ok := n.Engine()
	if !ok {
		metrics.RecordNotification(target, metrics.OutcomeNotReady)
		logx.Log.Warn().Str("target", target).Str("name", msg.Name).Msg("ui transport not bound, notification dropped")
		return
	}

	if err := engine.EvaluateScriptAsync(js); err != nil {
		outcome := metrics.OutcomeError
		if errors.Is(err, ports.ErrTransportNotReady) {
			outcome = metrics.OutcomeNotReady
		}
		metrics.RecordNotification(target, outcome)
		logx.Log.Warn().Err(err).Str("target", target).Str("name", msg.Name).Msg("notification dropped")
		return
	}

	metrics.RecordNotification(target, metrics.OutcomeOK)
	logx.Log.Debug().Str("target", target).Str("name", msg.Name).Msg("notification sent")
}
