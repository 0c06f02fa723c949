package input

import (
	"fmt"
	"slices"
	"sort"
)

// Trigger selects which transitions fire an action
type Trigger uint8

const (
	TriggerPressed Trigger = iota
	TriggerHeld
	TriggerReleased
)

var triggerNames = [...]string{
	TriggerPressed:  "pressed",
	TriggerHeld:     "held",
	TriggerReleased: "released",
}

func (t Trigger) String() string {
	if int(t) < len(triggerNames) {
		return triggerNames[t]
	}
	return fmt.Sprintf("Trigger(%d)", uint8(t))
}

// ParseTrigger resolves a persisted trigger name
func ParseTrigger(s string) (Trigger, error) {
	for i, name := range triggerNames {
		if name == s {
			return Trigger(i), nil
		}
	}
	return TriggerPressed, fmt.Errorf("unknown trigger %q", s)
}

// Action is a named binding of keys and mouse buttons
type Action struct {
	Name        string
	Trigger     Trigger
	AllowRepeat bool
	Keys        []Key
	Buttons     []MouseButton
}

// BuildAction assembles an action from persisted names
func BuildAction(name string, keys []string, buttons []int, trigger string, allowRepeat bool) (Action, error) {
	a := Action{Name: name, AllowRepeat: allowRepeat}
	if name == "" {
		return a, fmt.Errorf("action name is empty")
	}
	if trigger != "" {
		t, err := ParseTrigger(trigger)
		if err != nil {
			return a, fmt.Errorf("action %q: %w", name, err)
		}
		a.Trigger = t
	}
	for _, s := range keys {
		k, err := ParseKey(s)
		if err != nil {
			return a, fmt.Errorf("action %q: %w", name, err)
		}
		a.Keys = append(a.Keys, k)
	}
	for _, n := range buttons {
		b, err := ParseMouseButton(n)
		if err != nil {
			return a, fmt.Errorf("action %q: %w", name, err)
		}
		a.Buttons = append(a.Buttons, b)
	}
	return a, nil
}

// ActionState is the per-frame state of an action
// Pressed, Released and Triggered are edges cleared by EndFrame
type ActionState struct {
	Down      bool
	Pressed   bool
	Released  bool
	Triggered bool
}

type actionEntry struct {
	action Action
	state  ActionState
	down   int // number of bound inputs currently held
}

// ActionMap evaluates key and mouse transitions against named actions
// Not safe for concurrent use; driven from the game loop
type ActionMap struct {
	actions map[string]*actionEntry
}

func NewActionMap() *ActionMap {
	return &ActionMap{actions: make(map[string]*actionEntry)}
}

// BindAction adds or replaces the action with the same name
func (m *ActionMap) BindAction(a Action) {
	a.Keys = slices.Clone(a.Keys)
	a.Buttons = slices.Clone(a.Buttons)
	m.actions[a.Name] = &actionEntry{action: a}
}

// UnbindAction removes an action; unknown names are ignored
func (m *ActionMap) UnbindAction(name string) {
	delete(m.actions, name)
}

// Action returns a copy of the bound action
func (m *ActionMap) Action(name string) (Action, bool) {
	e, ok := m.actions[name]
	if !ok {
		return Action{}, false
	}
	a := e.action
	a.Keys = slices.Clone(a.Keys)
	a.Buttons = slices.Clone(a.Buttons)
	return a, true
}

// Actions returns every bound action sorted by name
func (m *ActionMap) Actions() []Action {
	names := make([]string, 0, len(m.actions))
	for name := range m.actions {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Action, 0, len(names))
	for _, name := range names {
		a, _ := m.Action(name)
		out = append(out, a)
	}
	return out
}

func (m *ActionMap) Len() int {
	return len(m.actions)
}

// ActionState returns the zero state for unknown actions
func (m *ActionMap) ActionState(name string) ActionState {
	if e, ok := m.actions[name]; ok {
		return e.state
	}
	return ActionState{}
}

func (m *ActionMap) IsActionDown(name string) bool {
	return m.ActionState(name).Down
}

func (m *ActionMap) WasActionPressed(name string) bool {
	return m.ActionState(name).Pressed
}

func (m *ActionMap) WasActionReleased(name string) bool {
	return m.ActionState(name).Released
}

// EndFrame clears per-frame edges
func (m *ActionMap) EndFrame() {
	for _, e := range m.actions {
		e.state.Pressed = false
		e.state.Released = false
		e.state.Triggered = false
	}
}

// KeyPressed applies a key press and returns the actions it fired, sorted by name
func (m *ActionMap) KeyPressed(ev KeyEvent) []ActionEvent {
	return m.press(func(a *Action) bool { return slices.Contains(a.Keys, ev.Key) }, ev.Repeat)
}

// KeyReleased applies a key release and returns the actions it fired
func (m *ActionMap) KeyReleased(ev KeyEvent) []ActionEvent {
	return m.release(func(a *Action) bool { return slices.Contains(a.Keys, ev.Key) })
}

// MouseButton applies a button transition and returns the actions it fired
func (m *ActionMap) MouseButton(ev MouseEvent) []ActionEvent {
	match := func(a *Action) bool { return slices.Contains(a.Buttons, ev.Button) }
	if ev.Pressed {
		return m.press(match, false)
	}
	return m.release(match)
}

// press evaluates triggers for a press or auto-repeat
// Repeat suppression applies to TriggerPressed only; TriggerHeld fires on every repeat
func (m *ActionMap) press(match func(*Action) bool, repeat bool) []ActionEvent {
	var fired []ActionEvent
	for _, e := range m.sorted() {
		if !match(&e.action) {
			continue
		}
		if !repeat {
			e.down++
			if e.down == 1 {
				e.state.Down = true
				e.state.Pressed = true
			}
		}

		fire := false
		switch e.action.Trigger {
		case TriggerPressed:
			fire = !repeat || e.action.AllowRepeat
		case TriggerHeld:
			fire = e.state.Down
		}
		if fire {
			e.state.Triggered = true
			fired = append(fired, ActionEvent{Name: e.action.Name, Trigger: e.action.Trigger, Repeat: repeat})
		}
	}
	return fired
}

func (m *ActionMap) release(match func(*Action) bool) []ActionEvent {
	var fired []ActionEvent
	for _, e := range m.sorted() {
		if !match(&e.action) || e.down == 0 {
			continue
		}
		e.down--
		if e.down > 0 {
			continue
		}
		e.state.Down = false
		e.state.Released = true
		if e.action.Trigger == TriggerReleased {
			e.state.Triggered = true
			fired = append(fired, ActionEvent{Name: e.action.Name, Trigger: TriggerReleased})
		}
	}
	return fired
}

func (m *ActionMap) sorted() []*actionEntry {
	out := make([]*actionEntry, 0, len(m.actions))
	for _, e := range m.actions {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].action.Name < out[j].action.Name })
	return out
}
