package input

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
)

// DefaultHoldTimeout covers the usual terminal auto-repeat delay
const DefaultHoldTimeout = 600 * time.Millisecond

// Adapter translates tcell events into press/release transitions
// Terminals report no key-up: a key counts as held until no event for it arrives within the hold timeout,
// further events for a held key are marked as repeats
type Adapter struct {
	hold    time.Duration
	held    map[Key]time.Time
	buttons tcell.ButtonMask
}

func NewAdapter(hold time.Duration) *Adapter {
	if hold <= 0 {
		hold = DefaultHoldTimeout
	}
	return &Adapter{
		hold: hold,
		held: make(map[Key]time.Time),
	}
}

// Translate converts one tcell event; unsupported events yield nothing
func (a *Adapter) Translate(ev tcell.Event) []Event {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return a.translateKey(e)
	case *tcell.EventMouse:
		return a.translateMouse(e)
	case *tcell.EventResize:
		w, h := e.Size()
		return []Event{{Kind: EventResize, Width: w, Height: h}}
	}
	return nil
}

func (a *Adapter) translateKey(e *tcell.EventKey) []Event {
	k := KeyCode(e.Key())
	if e.Key() == tcell.KeyRune {
		k = RuneKey(e.Rune())
	}
	when := e.When()
	_, repeat := a.held[k]
	a.held[k] = when
	return []Event{{
		Kind: EventKeyPressed,
		Key:  KeyEvent{Key: k, Mod: e.Modifiers(), Repeat: repeat, When: when},
	}}
}

func (a *Adapter) translateMouse(e *tcell.EventMouse) []Event {
	x, y := e.Position()
	mask := e.Buttons()
	var out []Event
	for b := MouseLeft; b < mouseButtonCount; b++ {
		bit := mouseMasks[b]
		was, is := a.buttons&bit != 0, mask&bit != 0
		if was == is {
			continue
		}
		out = append(out, Event{
			Kind:  EventMouseButton,
			Mouse: MouseEvent{Button: b, Pressed: is, X: x, Y: y},
		})
	}
	a.buttons = mask
	return out
}

// Expire synthesizes releases for keys not seen within the hold timeout
func (a *Adapter) Expire(now time.Time) []Event {
	var out []Event
	for k, last := range a.held {
		if now.Sub(last) < a.hold {
			continue
		}
		delete(a.held, k)
		out = append(out, Event{
			Kind: EventKeyReleased,
			Key:  KeyEvent{Key: k, When: now},
		})
	}
	return out
}

// Held reports whether a key is currently considered down
func (a *Adapter) Held(k Key) bool {
	_, ok := a.held[k]
	return ok
}

// EventSource is the subset of tcell.Screen the poller needs
type EventSource interface {
	PollEvent() tcell.Event
}

// Poll forwards screen events to sink until the screen is finalized or ctx is done
// PollEvent blocks; finalizing the screen is what unblocks it on shutdown
func Poll(ctx context.Context, src EventSource, sink func(tcell.Event) bool) error {
	for {
		ev := src.PollEvent()
		if ev == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if !sink(ev) {
			return nil
		}
	}
}
