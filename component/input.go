package component

import (
	"fmt"

	"github.com/lixenwraith/vi-ecs/core"
	"github.com/lixenwraith/vi-ecs/input"
	"github.com/lixenwraith/vi-ecs/jsonx"
)

// InputComponent owns an entity's action bindings and receives events once attached to an input.Manager
type InputComponent struct {
	actions *input.ActionMap
	manager *input.Manager
}

func NewInput() InputComponent {
	return InputComponent{actions: input.NewActionMap()}
}

func (c *InputComponent) actionMap() *input.ActionMap {
	if c.actions == nil {
		c.actions = input.NewActionMap()
	}
	return c.actions
}

func (c *InputComponent) BindAction(a input.Action)                 { c.actionMap().BindAction(a) }
func (c *InputComponent) UnbindAction(name string)                  { c.actionMap().UnbindAction(name) }
func (c *InputComponent) ActionState(name string) input.ActionState { return c.actionMap().ActionState(name) }
func (c *InputComponent) IsActionDown(name string) bool             { return c.actionMap().IsActionDown(name) }
func (c *InputComponent) WasActionPressed(name string) bool         { return c.actionMap().WasActionPressed(name) }
func (c *InputComponent) WasActionReleased(name string) bool        { return c.actionMap().WasActionReleased(name) }
func (c *InputComponent) Actions() []input.Action                   { return c.actionMap().Actions() }

// EndFrame clears this frame's action edges
func (c *InputComponent) EndFrame() {
	c.actionMap().EndFrame()
}

// Attach subscribes to m, leaving any previous manager
func (c *InputComponent) Attach(m *input.Manager) error {
	if c.manager != nil {
		c.manager.Unsubscribe(c)
	}
	c.manager = nil
	if m == nil {
		return nil
	}
	if err := m.Subscribe(c); err != nil {
		return err
	}
	c.manager = m
	return nil
}

func (c *InputComponent) OnKeyPressed(ev input.KeyEvent) {
	c.actionMap().KeyPressed(ev)
}

func (c *InputComponent) OnKeyReleased(ev input.KeyEvent) {
	c.actionMap().KeyReleased(ev)
}

func (c *InputComponent) OnMouseButton(ev input.MouseEvent) {
	c.actionMap().MouseButton(ev)
}

func (c *InputComponent) OnDetach(core.Entity) {
	if c.manager != nil {
		c.manager.Unsubscribe(c)
		c.manager = nil
	}
}

// Encode writes actions sorted by name so output is independent of map order
func (c *InputComponent) Encode(b *jsonx.Builder) {
	b.BeginObject()
	b.AddKey("actions")
	b.BeginArray()
	for _, a := range c.Actions() {
		b.BeginObject()
		b.AddKey("name")
		b.AddString(a.Name)
		b.AddKey("trigger")
		b.AddString(a.Trigger.String())
		b.AddKey("allowRepeat")
		b.AddBool(a.AllowRepeat)
		b.AddKey("keys")
		b.BeginArray()
		for _, k := range a.Keys {
			b.AddString(k.String())
		}
		b.EndArray()
		b.AddKey("mouseButtons")
		b.BeginArray()
		for _, mb := range a.Buttons {
			b.AddInt(int64(mb))
		}
		b.EndArray()
		b.EndObject()
	}
	b.EndArray()
	b.EndObject()
}

func (c *InputComponent) Decode(v *jsonx.Value) error {
	if err := requireObject(v, "input"); err != nil {
		return err
	}
	actions := v.Key("actions")
	if !actions.IsNull() && !actions.IsArray() {
		return fmt.Errorf("input: actions must be an array")
	}

	m := input.NewActionMap()
	for i, item := range actions.Items() {
		if !item.IsObject() {
			return fmt.Errorf("input: action %d: expected object", i)
		}
		var keys []string
		for _, k := range item.Key("keys").Items() {
			keys = append(keys, k.String(""))
		}
		var buttons []int
		for _, mb := range item.Key("mouseButtons").Items() {
			buttons = append(buttons, mb.Int(-1))
		}
		a, err := input.BuildAction(
			item.Key("name").String(""),
			keys,
			buttons,
			item.Key("trigger").String("pressed"),
			item.Key("allowRepeat").Bool(false),
		)
		if err != nil {
			return fmt.Errorf("input: %w", err)
		}
		m.BindAction(a)
	}
	c.actions = m
	return nil
}
