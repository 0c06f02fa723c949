package input

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
)

// Key identifies a keyboard key; Code is tcell.KeyRune for printable characters
type Key struct {
	Code tcell.Key
	Rune rune
}

// KeyCode wraps a non-rune tcell key
func KeyCode(k tcell.Key) Key {
	return Key{Code: k}
}

// RuneKey wraps a printable character
func RuneKey(r rune) Key {
	return Key{Code: tcell.KeyRune, Rune: r}
}

// Rune aliases for keys that can't be written as a bare character in config files
var runeAliases = map[string]rune{
	"space":     ' ',
	"backslash": '\\',
}

var keysByName map[string]tcell.Key

func init() {
	keysByName = make(map[string]tcell.Key, len(tcell.KeyNames))
	for k, name := range tcell.KeyNames {
		if k == tcell.KeyRune {
			continue
		}
		keysByName[strings.ToLower(name)] = k
	}
}

// String returns the persisted name: the character for runes, the tcell key name otherwise
func (k Key) String() string {
	if k.Code == tcell.KeyRune {
		for alias, r := range runeAliases {
			if r == k.Rune {
				return alias
			}
		}
		return string(k.Rune)
	}
	if name, ok := tcell.KeyNames[k.Code]; ok {
		return name
	}
	return fmt.Sprintf("Key[%d]", int16(k.Code))
}

// ParseKey resolves a name produced by String
// Single characters are runes; longer names match tcell key names case-insensitively
func ParseKey(s string) (Key, error) {
	if s == "" {
		return Key{}, fmt.Errorf("empty key name")
	}
	if utf8.RuneCountInString(s) == 1 {
		r, _ := utf8.DecodeRuneInString(s)
		return RuneKey(r), nil
	}
	if r, ok := runeAliases[strings.ToLower(s)]; ok {
		return RuneKey(r), nil
	}
	if k, ok := keysByName[strings.ToLower(s)]; ok {
		return KeyCode(k), nil
	}
	return Key{}, fmt.Errorf("unknown key %q", s)
}

// MouseButton identifies a mouse button; persisted as its integer value
type MouseButton uint8

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
	mouseButtonCount
)

var mouseMasks = [mouseButtonCount]tcell.ButtonMask{
	MouseLeft:   tcell.Button1,
	MouseRight:  tcell.Button2,
	MouseMiddle: tcell.Button3,
}

func (b MouseButton) String() string {
	switch b {
	case MouseLeft:
		return "left"
	case MouseRight:
		return "right"
	case MouseMiddle:
		return "middle"
	}
	return fmt.Sprintf("button%d", uint8(b))
}

// ParseMouseButton validates a persisted button index
func ParseMouseButton(n int) (MouseButton, error) {
	if n < 0 || n >= int(mouseButtonCount) {
		return 0, fmt.Errorf("unknown mouse button %d", n)
	}
	return MouseButton(n), nil
}
