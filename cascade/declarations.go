package cascade

import (
	"iter"

	"smover/css"
)

// Declarations is an ordered property to value mapping. Each property appears
// once, order is the order in which properties were first set.
type Declarations struct {
	props  []string
	values map[string]string
}

// NewDeclarations returns empty declarations.
func NewDeclarations() *Declarations {
	return &Declarations{values: make(map[string]string)}
}

// Set assigns value keeping position of an existing property.
func (d *Declarations) Set(prop, value string) {
	if _, ok := d.values[prop]; !ok {
		d.props = append(d.props, prop)
	}
	d.values[prop] = value
}

// Get returns value of the property.
func (d *Declarations) Get(prop string) (string, bool) {
	if d == nil {
		return "", false
	}
	v, ok := d.values[prop]
	return v, ok
}

// Len returns number of properties.
func (d *Declarations) Len() int {
	if d == nil {
		return 0
	}
	return len(d.props)
}

// All iterates over properties in stored order.
func (d *Declarations) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		if d == nil {
			return
		}
		for _, p := range d.props {
			if !yield(p, d.values[p]) {
				return
			}
		}
	}
}

// List returns properties as declarations in stored order.
func (d *Declarations) List() []css.Declaration {
	if d.Len() == 0 {
		return nil
	}
	list := make([]css.Declaration, 0, len(d.props))
	for p, v := range d.All() {
		list = append(list, css.Declaration{Property: p, Value: v})
	}
	return list
}

// String returns style attribute text: "property: value; property: value;".
func (d *Declarations) String() string {
	return css.FormatInline(d.List())
}
