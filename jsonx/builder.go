package jsonx

import (
	"math"
	"strconv"
)

// Builder is a forward-only JSON emitter
// It tracks a single needs-comma flag and trusts the caller for call order:
// malformed sequences (two keys in a row, unbalanced ends) are not detected
type Builder struct {
	buf        []byte
	needsComma bool
}

// NewBuilder creates an empty builder
func NewBuilder() *Builder {
	return &Builder{buf: make([]byte, 0, 256)}
}

func (b *Builder) separate() {
	if b.needsComma {
		b.buf = append(b.buf, ',')
	}
}

func (b *Builder) BeginObject() {
	b.separate()
	b.buf = append(b.buf, '{')
	b.needsComma = false
}

func (b *Builder) EndObject() {
	b.buf = append(b.buf, '}')
	b.needsComma = true
}

func (b *Builder) BeginArray() {
	b.separate()
	b.buf = append(b.buf, '[')
	b.needsComma = false
}

func (b *Builder) EndArray() {
	b.buf = append(b.buf, ']')
	b.needsComma = true
}

// AddKey emits an object key and the colon; the next Add* call supplies its value
func (b *Builder) AddKey(key string) {
	b.separate()
	b.writeString(key)
	b.buf = append(b.buf, ':')
	b.needsComma = false
}

func (b *Builder) AddString(s string) {
	b.separate()
	b.writeString(s)
	b.needsComma = true
}

// AddNumber emits the shortest representation that round-trips f
// Non-finite values have no JSON form and are written as null
func (b *Builder) AddNumber(f float64) {
	b.separate()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		b.buf = append(b.buf, "null"...)
	} else {
		b.buf = strconv.AppendFloat(b.buf, f, 'f', -1, 64)
	}
	b.needsComma = true
}

// AddNumberDecimals emits f with exactly decimals fractional digits
func (b *Builder) AddNumberDecimals(f float64, decimals int) {
	if decimals < 0 {
		b.AddNumber(f)
		return
	}
	b.separate()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		b.buf = append(b.buf, "null"...)
	} else {
		b.buf = strconv.AppendFloat(b.buf, f, 'f', decimals, 64)
	}
	b.needsComma = true
}

func (b *Builder) AddInt(n int64) {
	b.separate()
	b.buf = strconv.AppendInt(b.buf, n, 10)
	b.needsComma = true
}

func (b *Builder) AddBool(v bool) {
	b.separate()
	b.buf = strconv.AppendBool(b.buf, v)
	b.needsComma = true
}

func (b *Builder) AddNull() {
	b.separate()
	b.buf = append(b.buf, "null"...)
	b.needsComma = true
}

// Bytes returns the emitted document; the slice aliases the builder buffer
func (b *Builder) Bytes() []byte {
	return b.buf
}

func (b *Builder) String() string {
	return string(b.buf)
}

// Reset clears the builder for reuse
func (b *Builder) Reset() {
	b.buf = b.buf[:0]
	b.needsComma = false
}

const hexDigits = "0123456789abcdef"

func (b *Builder) writeString(s string) {
	b.buf = append(b.buf, '"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			b.buf = append(b.buf, '\\', '"')
		case '\\':
			b.buf = append(b.buf, '\\', '\\')
		case '\b':
			b.buf = append(b.buf, '\\', 'b')
		case '\f':
			b.buf = append(b.buf, '\\', 'f')
		case '\n':
			b.buf = append(b.buf, '\\', 'n')
		case '\r':
			b.buf = append(b.buf, '\\', 'r')
		case '\t':
			b.buf = append(b.buf, '\\', 't')
		default:
			if c < 0x20 {
				b.buf = append(b.buf, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xF])
				continue
			}
			b.buf = append(b.buf, c)
		}
	}
	b.buf = append(b.buf, '"')
}
