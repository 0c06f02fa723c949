package jsonx

import "fmt"

// SyntaxError reports a missing or unexpected token with its position
type SyntaxError struct {
	Msg    string
	Pos    int // byte offset into the input
	Line   int // 1-based
	Column int // 1-based, in bytes
	Near   string
}

func (e *SyntaxError) Error() string {
	if e.Near == "" {
		return fmt.Sprintf("json: %s at line %d, column %d", e.Msg, e.Line, e.Column)
	}
	return fmt.Sprintf("json: %s at line %d, column %d near %q", e.Msg, e.Line, e.Column, e.Near)
}
