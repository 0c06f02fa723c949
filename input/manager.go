package input

import (
	"errors"
	"slices"
)

// ErrNotListener is returned by Subscribe for values implementing no listener interface
var ErrNotListener = errors.New("value implements no input listener interface")

// Manager fans translated events out to subscribed listeners and evaluates the global action map
// Listener capabilities are discovered by type assertion at subscribe time
type Manager struct {
	actions *ActionMap

	subscribers []any
	keys        []KeyListener
	mice        []MouseListener
	actionSubs  []ActionListener
	resizes     []ResizeListener

	dispatching bool
	pending     []func()
}

func NewManager() *Manager {
	return &Manager{actions: NewActionMap()}
}

// Actions returns the global action map
func (m *Manager) Actions() *ActionMap {
	return m.actions
}

func (m *Manager) BindAction(a Action)                 { m.actions.BindAction(a) }
func (m *Manager) UnbindAction(name string)            { m.actions.UnbindAction(name) }
func (m *Manager) ActionState(name string) ActionState { return m.actions.ActionState(name) }
func (m *Manager) IsActionDown(name string) bool       { return m.actions.IsActionDown(name) }
func (m *Manager) WasActionPressed(name string) bool   { return m.actions.WasActionPressed(name) }
func (m *Manager) WasActionReleased(name string) bool  { return m.actions.WasActionReleased(name) }

// Subscribe registers l for every listener interface it implements
// Subscribing the same value twice is a no-op
func (m *Manager) Subscribe(l any) error {
	_, isKey := l.(KeyListener)
	_, isMouse := l.(MouseListener)
	_, isAction := l.(ActionListener)
	_, isResize := l.(ResizeListener)
	if !isKey && !isMouse && !isAction && !isResize {
		return ErrNotListener
	}
	if m.dispatching {
		m.pending = append(m.pending, func() { m.subscribe(l) })
		return nil
	}
	m.subscribe(l)
	return nil
}

func (m *Manager) subscribe(l any) {
	if slices.Contains(m.subscribers, l) {
		return
	}
	m.subscribers = append(m.subscribers, l)
	if kl, ok := l.(KeyListener); ok {
		m.keys = append(m.keys, kl)
	}
	if ml, ok := l.(MouseListener); ok {
		m.mice = append(m.mice, ml)
	}
	if al, ok := l.(ActionListener); ok {
		m.actionSubs = append(m.actionSubs, al)
	}
	if rl, ok := l.(ResizeListener); ok {
		m.resizes = append(m.resizes, rl)
	}
}

// Unsubscribe removes l from every list; unknown values are ignored
func (m *Manager) Unsubscribe(l any) {
	if m.dispatching {
		m.pending = append(m.pending, func() { m.unsubscribe(l) })
		return
	}
	m.unsubscribe(l)
}

func (m *Manager) unsubscribe(l any) {
	idx := slices.Index(m.subscribers, l)
	if idx < 0 {
		return
	}
	m.subscribers = slices.Delete(m.subscribers, idx, idx+1)
	m.keys = slices.DeleteFunc(m.keys, func(x KeyListener) bool { return any(x) == l })
	m.mice = slices.DeleteFunc(m.mice, func(x MouseListener) bool { return any(x) == l })
	m.actionSubs = slices.DeleteFunc(m.actionSubs, func(x ActionListener) bool { return any(x) == l })
	m.resizes = slices.DeleteFunc(m.resizes, func(x ResizeListener) bool { return any(x) == l })
}

// Subscribers returns the number of subscribed values
func (m *Manager) Subscribers() int {
	return len(m.subscribers)
}

// Dispatch delivers one event; listeners may subscribe or unsubscribe during delivery,
// changes apply once the event has been delivered
func (m *Manager) Dispatch(ev Event) {
	m.dispatching = true
	defer m.endDispatch()

	var fired []ActionEvent
	switch ev.Kind {
	case EventKeyPressed:
		for _, l := range m.keys {
			l.OnKeyPressed(ev.Key)
		}
		fired = m.actions.KeyPressed(ev.Key)
	case EventKeyReleased:
		for _, l := range m.keys {
			l.OnKeyReleased(ev.Key)
		}
		fired = m.actions.KeyReleased(ev.Key)
	case EventMouseButton:
		for _, l := range m.mice {
			l.OnMouseButton(ev.Mouse)
		}
		fired = m.actions.MouseButton(ev.Mouse)
	case EventResize:
		for _, l := range m.resizes {
			l.OnResize(ev.Width, ev.Height)
		}
	}

	for _, a := range fired {
		for _, l := range m.actionSubs {
			l.OnAction(a)
		}
	}
}

func (m *Manager) endDispatch() {
	m.dispatching = false
	pending := m.pending
	m.pending = nil
	for _, fn := range pending {
		fn()
	}
}

// EndFrame clears per-frame action edges
func (m *Manager) EndFrame() {
	m.actions.EndFrame()
}
