package input

import (
	"time"

	"github.com/gdamore/tcell/v2"
)

// EventKind discriminates Event payloads
type EventKind uint8

const (
	EventKeyPressed EventKind = iota
	EventKeyReleased
	EventMouseButton
	EventResize
)

// KeyEvent is a key transition; Repeat marks auto-repeat of an already held key
type KeyEvent struct {
	Key    Key
	Mod    tcell.ModMask
	Repeat bool
	When   time.Time
}

// MouseEvent is a button transition at a cell position
type MouseEvent struct {
	Button  MouseButton
	Pressed bool
	X, Y    int
}

// ActionEvent reports a fired action
type ActionEvent struct {
	Name    string
	Trigger Trigger
	Repeat  bool
}

// Event is a translated device event
type Event struct {
	Kind          EventKind
	Key           KeyEvent
	Mouse         MouseEvent
	Width, Height int
}
