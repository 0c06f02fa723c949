package jsonx

import (
	"math"
	"sort"
)

// Kind tags the variant held by a Value
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "null"
	}
}

// maxDepth bounds recursion on hostile input
const maxDepth = 512

// Value is an in-memory JSON tree node
// Typed accessors return the caller's default on kind mismatch and lookups on
// absent keys or indices return the shared null Value, so optional fields need no existence checks
type Value struct {
	kind Kind
	b    bool
	num  Number
	str  string
	arr  []*Value
	obj  map[string]*Value
}

// nullValue is the shared sentinel returned by failed lookups; mutators ignore it
var nullValue = &Value{}

// Null returns the shared null Value
func Null() *Value {
	return nullValue
}

func NewBool(b bool) *Value {
	return &Value{kind: KindBool, b: b}
}

// NewNumber wraps f using the shortest decimal representation
func NewNumber(f float64) *Value {
	return &Value{kind: KindNumber, num: Number{Value: f, Decimals: -1}}
}

func NewNumberDecimals(n Number) *Value {
	return &Value{kind: KindNumber, num: n}
}

func NewString(s string) *Value {
	return &Value{kind: KindString, str: s}
}

func NewArray() *Value {
	return &Value{kind: KindArray}
}

func NewObject() *Value {
	return &Value{kind: KindObject, obj: make(map[string]*Value)}
}

// Parse builds a Value tree from a complete document
func Parse(data []byte) (*Value, error) {
	p := NewParser(data)
	v, err := parseValue(p, 0)
	if err != nil {
		return nil, err
	}
	if !p.AtEOF() {
		return nil, p.errorf("unexpected trailing data")
	}
	return v, nil
}

// ParseFrom reads one value from an existing parser cursor
func ParseFrom(p *Parser) (*Value, error) {
	return parseValue(p, 0)
}

func parseValue(p *Parser, depth int) (*Value, error) {
	if depth > maxDepth {
		return nil, p.errorf("nesting too deep")
	}

	switch t := p.Peek(); t {
	case TokenObjectStart:
		if err := p.BeginObject(); err != nil {
			return nil, err
		}
		v := NewObject()
		for {
			more, err := p.More()
			if err != nil {
				return nil, err
			}
			if !more {
				break
			}
			key, err := p.GetKey()
			if err != nil {
				return nil, err
			}
			child, err := parseValue(p, depth+1)
			if err != nil {
				return nil, err
			}
			v.obj[key] = child
		}
		if err := p.EndObject(); err != nil {
			return nil, err
		}
		return v, nil

	case TokenArrayStart:
		if err := p.BeginArray(); err != nil {
			return nil, err
		}
		v := NewArray()
		for {
			more, err := p.More()
			if err != nil {
				return nil, err
			}
			if !more {
				break
			}
			child, err := parseValue(p, depth+1)
			if err != nil {
				return nil, err
			}
			v.arr = append(v.arr, child)
		}
		if err := p.EndArray(); err != nil {
			return nil, err
		}
		return v, nil

	case TokenString:
		s, err := p.GetString()
		if err != nil {
			return nil, err
		}
		return NewString(s), nil

	case TokenNumber:
		n, err := p.GetNumber()
		if err != nil {
			return nil, err
		}
		return NewNumberDecimals(n), nil

	case TokenBool:
		b, err := p.GetBool()
		if err != nil {
			return nil, err
		}
		return NewBool(b), nil

	case TokenNull:
		if err := p.GetNull(); err != nil {
			return nil, err
		}
		return &Value{}, nil

	default:
		return nil, p.errorf("expected value, got " + t.String())
	}
}

func (v *Value) Kind() Kind {
	return v.kind
}

func (v *Value) IsNull() bool {
	return v.kind == KindNull
}

func (v *Value) IsObject() bool {
	return v.kind == KindObject
}

func (v *Value) IsArray() bool {
	return v.kind == KindArray
}

func (v *Value) Bool(def bool) bool {
	if v.kind != KindBool {
		return def
	}
	return v.b
}

func (v *Value) Float(def float64) float64 {
	if v.kind != KindNumber {
		return def
	}
	return v.num.Value
}

// Int truncates toward zero; non-numbers and out-of-range values return def
// float64(math.MaxInt64) rounds up to 2^63, so the upper bound is exclusive
func (v *Value) Int(def int) int {
	if v.kind != KindNumber || math.IsNaN(v.num.Value) ||
		v.num.Value >= math.MaxInt64 || v.num.Value < math.MinInt64 {
		return def
	}
	return int(v.num.Value)
}

// Number returns the number with its parsed decimal count
func (v *Value) Number() (Number, bool) {
	if v.kind != KindNumber {
		return Number{}, false
	}
	return v.num, true
}

func (v *Value) String(def string) string {
	if v.kind != KindString {
		return def
	}
	return v.str
}

// Len is the element count of arrays and objects, zero otherwise
func (v *Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.arr)
	case KindObject:
		return len(v.obj)
	}
	return 0
}

// Key looks up an object member, returning the null sentinel when absent
func (v *Value) Key(key string) *Value {
	if v.kind != KindObject {
		return nullValue
	}
	if c, ok := v.obj[key]; ok {
		return c
	}
	return nullValue
}

// Has reports whether an object member exists, even if its value is null
func (v *Value) Has(key string) bool {
	if v.kind != KindObject {
		return false
	}
	_, ok := v.obj[key]
	return ok
}

// Index returns an array element, or the null sentinel when out of range
func (v *Value) Index(i int) *Value {
	if v.kind != KindArray || i < 0 || i >= len(v.arr) {
		return nullValue
	}
	return v.arr[i]
}

// Keys returns object member names in sorted order
func (v *Value) Keys() []string {
	if v.kind != KindObject {
		return nil
	}
	keys := make([]string, 0, len(v.obj))
	for k := range v.obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Items returns a copy of the array elements
func (v *Value) Items() []*Value {
	if v.kind != KindArray {
		return nil
	}
	out := make([]*Value, len(v.arr))
	copy(out, v.arr)
	return out
}

// Set assigns an object member; no-op unless v is an object
func (v *Value) Set(key string, child *Value) {
	if v.kind != KindObject || child == nil {
		return
	}
	v.obj[key] = child
}

// Append adds an array element; no-op unless v is an array
func (v *Value) Append(child *Value) {
	if v.kind != KindArray || child == nil {
		return
	}
	v.arr = append(v.arr, child)
}

// Encode writes v through b, object members in sorted key order
func (v *Value) Encode(b *Builder) {
	switch v.kind {
	case KindNull:
		b.AddNull()
	case KindBool:
		b.AddBool(v.b)
	case KindNumber:
		b.AddNumberDecimals(v.num.Value, v.num.Decimals)
	case KindString:
		b.AddString(v.str)
	case KindArray:
		b.BeginArray()
		for _, c := range v.arr {
			c.Encode(b)
		}
		b.EndArray()
	case KindObject:
		b.BeginObject()
		for _, k := range v.Keys() {
			b.AddKey(k)
			v.obj[k].Encode(b)
		}
		b.EndObject()
	}
}

// Marshal encodes v into a fresh buffer
func (v *Value) Marshal() []byte {
	b := NewBuilder()
	v.Encode(b)
	return b.Bytes()
}
