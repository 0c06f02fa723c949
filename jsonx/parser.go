package jsonx

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// Token classifies the next value or delimiter without consuming it
type Token uint8

const (
	TokenEOF Token = iota
	TokenObjectStart
	TokenObjectEnd
	TokenArrayStart
	TokenArrayEnd
	TokenString
	TokenNumber
	TokenBool
	TokenNull
	TokenComma
	TokenColon
	TokenInvalid
)

var tokenNames = [...]string{
	TokenEOF:         "end of input",
	TokenObjectStart: "'{'",
	TokenObjectEnd:   "'}'",
	TokenArrayStart:  "'['",
	TokenArrayEnd:    "']'",
	TokenString:      "string",
	TokenNumber:      "number",
	TokenBool:        "boolean",
	TokenNull:        "null",
	TokenComma:       "','",
	TokenColon:       "':'",
	TokenInvalid:     "invalid character",
}

func (t Token) String() string {
	if int(t) < len(tokenNames) {
		return tokenNames[t]
	}
	return "unknown"
}

// Number is a parsed JSON number with the count of fractional digits of its literal
type Number struct {
	Value    float64
	Decimals int
}

// String formats the number with the same fractional digit count it was parsed with
func (n Number) String() string {
	return strconv.FormatFloat(n.Value, 'f', n.Decimals, 64)
}

// maxRoundDecimals bounds the post-parse rounding; beyond it float64 cannot represent the step
const maxRoundDecimals = 15

// Parser is a forward-only cursor over a JSON document
// Containers are walked explicitly: BeginObject, then More/GetKey/value pairs, then EndObject
type Parser struct {
	data  []byte
	pos   int
	first []bool // per open container: no element consumed yet
}

// NewParser creates a parser over data; data is not copied
func NewParser(data []byte) *Parser {
	return &Parser{data: data}
}

// Offset returns the current byte position
func (p *Parser) Offset() int {
	return p.pos
}

func (p *Parser) skipWhitespace() {
	for p.pos < len(p.data) {
		switch p.data[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

// errorf builds a SyntaxError positioned at the current offset
func (p *Parser) errorf(msg string) *SyntaxError {
	return p.errorAt(p.pos, msg)
}

func (p *Parser) errorAt(offset int, msg string) *SyntaxError {
	if offset > len(p.data) {
		offset = len(p.data)
	}
	line, col := 1, 1
	for _, c := range p.data[:offset] {
		if c == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	end := min(offset+16, len(p.data))
	return &SyntaxError{
		Msg:    msg,
		Pos:    offset,
		Line:   line,
		Column: col,
		Near:   string(p.data[offset:end]),
	}
}

// Peek classifies the next token after whitespace without consuming it
func (p *Parser) Peek() Token {
	p.skipWhitespace()
	if p.pos >= len(p.data) {
		return TokenEOF
	}
	switch c := p.data[p.pos]; {
	case c == '{':
		return TokenObjectStart
	case c == '}':
		return TokenObjectEnd
	case c == '[':
		return TokenArrayStart
	case c == ']':
		return TokenArrayEnd
	case c == '"':
		return TokenString
	case c == ',':
		return TokenComma
	case c == ':':
		return TokenColon
	case c == 't' || c == 'f':
		return TokenBool
	case c == 'n':
		return TokenNull
	case c == '-' || (c >= '0' && c <= '9'):
		return TokenNumber
	default:
		return TokenInvalid
	}
}

// Consume skips whitespace and requires the next byte to be ch
func (p *Parser) Consume(ch byte) error {
	p.skipWhitespace()
	if p.pos >= len(p.data) {
		return p.errorf("expected '" + string(ch) + "', got end of input")
	}
	if p.data[p.pos] != ch {
		return p.errorf("expected '" + string(ch) + "', got " + p.Peek().String())
	}
	p.pos++
	return nil
}

func (p *Parser) BeginObject() error {
	if err := p.Consume('{'); err != nil {
		return err
	}
	p.first = append(p.first, true)
	return nil
}

func (p *Parser) EndObject() error {
	if err := p.Consume('}'); err != nil {
		return err
	}
	p.pop()
	return nil
}

func (p *Parser) BeginArray() error {
	if err := p.Consume('['); err != nil {
		return err
	}
	p.first = append(p.first, true)
	return nil
}

func (p *Parser) EndArray() error {
	if err := p.Consume(']'); err != nil {
		return err
	}
	p.pop()
	return nil
}

func (p *Parser) pop() {
	if n := len(p.first); n > 0 {
		p.first = p.first[:n-1]
	}
}

// More reports whether the open container has another element
// It consumes the separating comma between elements and rejects a missing one
func (p *Parser) More() (bool, error) {
	switch p.Peek() {
	case TokenObjectEnd, TokenArrayEnd:
		return false, nil
	case TokenEOF:
		return false, p.errorf("unterminated container")
	}

	n := len(p.first)
	if n == 0 {
		return false, p.errorf("More called outside a container")
	}
	if p.first[n-1] {
		p.first[n-1] = false
		return true, nil
	}
	if err := p.Consume(','); err != nil {
		return false, err
	}
	if t := p.Peek(); t == TokenObjectEnd || t == TokenArrayEnd {
		return false, p.errorf("trailing comma")
	}
	return true, nil
}

// GetKey reads an object key and its colon
func (p *Parser) GetKey() (string, error) {
	key, err := p.GetString()
	if err != nil {
		return "", err
	}
	if err := p.Consume(':'); err != nil {
		return "", err
	}
	return key, nil
}

// GetString reads a quoted string and decodes its escapes
func (p *Parser) GetString() (string, error) {
	p.skipWhitespace()
	if p.pos >= len(p.data) || p.data[p.pos] != '"' {
		return "", p.errorf("expected string, got " + p.Peek().String())
	}
	start := p.pos
	p.pos++

	// Fast path: no escapes
	for i := p.pos; i < len(p.data); i++ {
		c := p.data[i]
		if c == '"' {
			s := string(p.data[p.pos:i])
			p.pos = i + 1
			return s, nil
		}
		if c == '\\' || c < 0x20 {
			break
		}
	}

	var sb strings.Builder
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		switch {
		case c == '"':
			p.pos++
			return sb.String(), nil
		case c < 0x20:
			return "", p.errorf("control character in string")
		case c == '\\':
			if err := p.readEscape(&sb); err != nil {
				return "", err
			}
		default:
			sb.WriteByte(c)
			p.pos++
		}
	}
	return "", p.errorAt(start, "unterminated string")
}

func (p *Parser) readEscape(sb *strings.Builder) error {
	p.pos++ // backslash
	if p.pos >= len(p.data) {
		return p.errorf("unterminated escape")
	}
	c := p.data[p.pos]
	p.pos++
	switch c {
	case '"', '\\', '/':
		sb.WriteByte(c)
	case 'b':
		sb.WriteByte('\b')
	case 'f':
		sb.WriteByte('\f')
	case 'n':
		sb.WriteByte('\n')
	case 'r':
		sb.WriteByte('\r')
	case 't':
		sb.WriteByte('\t')
	case 'u':
		r, err := p.readHex4()
		if err != nil {
			return err
		}
		if utf16.IsSurrogate(r) {
			// Low surrogate must follow as another \u escape
			if p.pos+1 < len(p.data) && p.data[p.pos] == '\\' && p.data[p.pos+1] == 'u' {
				p.pos += 2
				r2, err := p.readHex4()
				if err != nil {
					return err
				}
				r = utf16.DecodeRune(r, r2)
			} else {
				r = utf8.RuneError
			}
		}
		sb.WriteRune(r)
	default:
		return p.errorAt(p.pos-2, "invalid escape")
	}
	return nil
}

func (p *Parser) readHex4() (rune, error) {
	if p.pos+4 > len(p.data) {
		return 0, p.errorf("short unicode escape")
	}
	v, err := strconv.ParseUint(string(p.data[p.pos:p.pos+4]), 16, 32)
	if err != nil {
		return 0, p.errorf("invalid unicode escape")
	}
	p.pos += 4
	return rune(v), nil
}

// GetNumber reads a number literal
// The value is rounded to the literal's fractional digit count so that a persisted
// "45.0" does not come back as 44.99999 after float conversion
func (p *Parser) GetNumber() (Number, error) {
	p.skipWhitespace()
	start := p.pos
	i := p.pos

	if i < len(p.data) && p.data[i] == '-' {
		i++
	}
	intStart := i
	for i < len(p.data) && isDigit(p.data[i]) {
		i++
	}
	if i == intStart {
		return Number{}, p.errorAt(start, "expected number, got "+p.Peek().String())
	}

	decimals := 0
	if i < len(p.data) && p.data[i] == '.' {
		i++
		fracStart := i
		for i < len(p.data) && isDigit(p.data[i]) {
			i++
		}
		if i == fracStart {
			return Number{}, p.errorAt(i, "expected digit after decimal point")
		}
		decimals = i - fracStart
	}

	if i < len(p.data) && (p.data[i] == 'e' || p.data[i] == 'E') {
		i++
		sign := 1
		if i < len(p.data) && (p.data[i] == '+' || p.data[i] == '-') {
			if p.data[i] == '-' {
				sign = -1
			}
			i++
		}
		expStart := i
		for i < len(p.data) && isDigit(p.data[i]) {
			i++
		}
		if i == expStart {
			return Number{}, p.errorAt(i, "expected digit in exponent")
		}
		exp, _ := strconv.Atoi(string(p.data[expStart:i]))
		decimals = max(0, decimals-sign*exp)
	}

	v, err := strconv.ParseFloat(string(p.data[start:i]), 64)
	if err != nil {
		return Number{}, p.errorAt(start, "number out of range")
	}
	p.pos = i

	return Number{Value: roundTo(v, decimals), Decimals: decimals}, nil
}

func roundTo(v float64, decimals int) float64 {
	if decimals > maxRoundDecimals {
		return v
	}
	scale := math.Pow10(decimals)
	r := math.Round(v*scale) / scale
	if math.IsInf(r, 0) || math.IsNaN(r) {
		return v
	}
	return r
}

func (p *Parser) GetBool() (bool, error) {
	p.skipWhitespace()
	if p.hasLiteral("true") {
		p.pos += 4
		return true, nil
	}
	if p.hasLiteral("false") {
		p.pos += 5
		return false, nil
	}
	return false, p.errorf("expected boolean, got " + p.Peek().String())
}

func (p *Parser) GetNull() error {
	p.skipWhitespace()
	if p.hasLiteral("null") {
		p.pos += 4
		return nil
	}
	return p.errorf("expected null, got " + p.Peek().String())
}

func (p *Parser) hasLiteral(lit string) bool {
	if p.pos+len(lit) > len(p.data) || string(p.data[p.pos:p.pos+len(lit)]) != lit {
		return false
	}
	// Literal must not run into an identifier character
	end := p.pos + len(lit)
	return end == len(p.data) || !isAlnum(p.data[end])
}

// Skip consumes one complete value of any kind
func (p *Parser) Skip() error {
	_, err := parseValue(p, 0)
	return err
}

// AtEOF reports whether only whitespace remains
func (p *Parser) AtEOF() bool {
	return p.Peek() == TokenEOF
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlnum(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}
