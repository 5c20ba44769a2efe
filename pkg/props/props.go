package props

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/vango-dev/shadowtree/pkg/shadow"
)

// Attr is a single attribute.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// Props holds a node's attributes. It implements shadow.Props.
type Props struct {
	shadow.Sealable
	values map[string]any
}

// New creates unsealed props from attrs. Empty attrs are skipped and later
// attrs override earlier ones with the same key.
func New(attrs ...Attr) *Props {
	p := &Props{values: make(map[string]any, len(attrs))}
	for _, a := range attrs {
		if a.IsEmpty() {
			continue
		}
		p.values[a.Key] = a.Value
	}
	return p
}

// Empty returns sealed props with no attributes, suitable for nodes that
// carry no data.
func Empty() *Props {
	p := New()
	p.Seal()
	return p
}

// Get returns the value for key.
func (p *Props) Get(key string) (any, bool) {
	v, ok := p.values[key]
	return v, ok
}

// GetString returns the value for key formatted as a string, or "" if absent.
func (p *Props) GetString(key string) string {
	v, ok := p.values[key]
	if !ok {
		return ""
	}
	return formatValue(v)
}

// Len returns the number of attributes.
func (p *Props) Len() int {
	return len(p.values)
}

// Keys returns the attribute keys in sorted order.
func (p *Props) Keys() []string {
	keys := make([]string, 0, len(p.values))
	for k := range p.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set assigns value to key. It panics with E101 once the props are sealed.
func (p *Props) Set(key string, value any) {
	p.EnsureUnsealed("props.Set")
	p.values[key] = value
}

// Delete removes key. It panics with E101 once the props are sealed.
func (p *Props) Delete(key string) {
	p.EnsureUnsealed("props.Delete")
	delete(p.values, key)
}

// With returns an unsealed copy of p with attrs applied on top. p itself
// is left untouched, so With is safe on sealed props.
func (p *Props) With(attrs ...Attr) *Props {
	next := &Props{values: make(map[string]any, len(p.values)+len(attrs))}
	for k, v := range p.values {
		next.values[k] = v
	}
	for _, a := range attrs {
		if a.IsEmpty() {
			continue
		}
		next.values[a.Key] = a.Value
	}
	return next
}

// DebugProps returns the attributes as sorted name/value pairs.
func (p *Props) DebugProps() []shadow.DebugProp {
	out := make([]shadow.DebugProp, 0, len(p.values))
	for _, k := range p.Keys() {
		out = append(out, shadow.DebugProp{Name: k, Value: formatValue(p.values[k])})
	}
	return out
}

// Map returns a copy of the attributes.
func (p *Props) Map() map[string]any {
	out := make(map[string]any, len(p.values))
	for k, v := range p.values {
		out[k] = v
	}
	return out
}

func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(v)
	}
}
