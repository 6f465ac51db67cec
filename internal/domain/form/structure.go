package form

import (
	"fmt"
	"strings"
)

// Problem is one structural defect of a form definition.
type Problem struct {
	Key    string
	Reason string
}

// StructureError lists every structural defect found in a form.
type StructureError struct {
	Problems []Problem
}

func (e *StructureError) Error() string {
	parts := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		if p.Key == "" {
			parts[i] = p.Reason
		} else {
			parts[i] = fmt.Sprintf("%s: %s", p.Key, p.Reason)
		}
	}
	return "invalid form structure: " + strings.Join(parts, "; ")
}

type structureCollector struct {
	problems []Problem
}

func (c *structureCollector) add(key, format string, args ...any) {
	c.problems = append(c.problems, Problem{Key: key, Reason: fmt.Sprintf(format, args...)})
}

func (c *structureCollector) err() error {
	if len(c.problems) == 0 {
		return nil
	}
	return &StructureError{Problems: c.problems}
}

// block is a node of the conditional block tree. Index 0 is the root, which
// has no condition and no parent.
type block struct {
	key    string
	cond   *IfEqual
	parent int
}

type slot struct {
	field *Field
	block int
}

// Layout is a form parsed into its conditional block tree. It is immutable
// and safe for concurrent use.
type Layout struct {
	form   *Form
	blocks []block
	slots  []slot
	byKey  map[string]int
}

// ValidateStructure checks marker balance, key uniqueness and per-define limits.
func (f *Form) ValidateStructure() error {
	_, err := Compile(f)
	return err
}

// Compile validates f and parses its IfEqual/IfEnd markers into a block tree.
// Every problem found is reported, not only the first.
func Compile(f *Form) (*Layout, error) {
	c := &structureCollector{}
	if f == nil {
		c.add("", "form is required")
		return nil, c.err()
	}

	l := &Layout{
		form:   f,
		blocks: []block{{parent: -1}},
		byKey:  make(map[string]int),
	}
	open := []int{0}

	for _, field := range f.Fields {
		if field == nil {
			c.add("", "field entry is empty")
			continue
		}
		key := strings.TrimSpace(field.Key)
		if key == "" {
			c.add("", "field at order %d has no key", field.Order)
			continue
		}
		if field.Define == nil {
			c.add(key, "define is required")
			continue
		}

		current := open[len(open)-1]
		switch d := field.Define.(type) {
		case *IfEqual:
			for _, idx := range open[1:] {
				if l.blocks[idx].key == key {
					c.add(key, "conditional block is nested inside a block with the same key")
				}
			}
			if len(d.Values) == 0 {
				c.add(key, "IfEqual needs at least one value")
			}
			l.blocks = append(l.blocks, block{key: key, cond: d, parent: current})
			open = append(open, len(l.blocks)-1)
		case *IfEnd:
			if len(open) == 1 {
				c.add(key, "IfEnd without a matching IfEqual")
				continue
			}
			if l.blocks[current].key != key {
				c.add(key, "IfEnd closes %q while block %q is still open", key, l.blocks[current].key)
				continue
			}
			open = open[:len(open)-1]
		default:
			if _, dup := l.byKey[key]; dup {
				c.add(key, "duplicate field key")
				continue
			}
			checkDefine(c, key, field)
			l.byKey[key] = len(l.slots)
			l.slots = append(l.slots, slot{field: field, block: current})
		}
	}

	for _, idx := range open[1:] {
		c.add(l.blocks[idx].key, "IfEqual is never closed")
	}

	if err := c.err(); err != nil {
		return nil, err
	}
	return l, nil
}

func checkDefine(c *structureCollector, key string, field *Field) {
	switch d := field.Define.(type) {
	case *SingleLineText:
		if d.MaxTexts < 0 {
			c.add(key, "max_texts must not be negative")
		}
		switch d.TextType {
		case "", TextTypeString, TextTypeEmail, TextTypeURL:
		default:
			c.add(key, "unknown text_type %q", d.TextType)
		}
	case *MultiLineText:
		if d.MaxTexts < 0 || d.MaxLines < 0 {
			c.add(key, "max_texts and max_lines must not be negative")
		}
	case *SingleChoice:
		checkOptions(c, key, d.Options)
	case *MultipleChoice:
		checkOptions(c, key, d.Options)
		if d.MaxOptions < 0 {
			c.add(key, "max_options must not be negative")
		}
	case *BoolField:
	case *Image:
		if d.MaxSize < 0 || d.MinWidth < 0 || d.MaxWidth < 0 || d.MinHeight < 0 || d.MaxHeight < 0 {
			c.add(key, "image limits must not be negative")
		}
		if d.MaxWidth > 0 && d.MinWidth > d.MaxWidth {
			c.add(key, "min_width exceeds max_width")
		}
		if d.MaxHeight > 0 && d.MinHeight > d.MaxHeight {
			c.add(key, "min_height exceeds max_height")
		}
	case *File:
		if d.MaxSize < 0 {
			c.add(key, "max_size must not be negative")
		}
	case *IfEqual, *IfEnd:
		// markers are handled by Compile
	}

	if def, ok := field.Default.(StaticDefault); ok && !def.Value.IsNull() {
		if _, blob := field.Define.(*Image); blob {
			c.add(key, "image fields cannot carry a static default")
		} else if _, blob := field.Define.(*File); blob {
			c.add(key, "file fields cannot carry a static default")
		} else if v := checkValue(field, def.Value, nil); v.code != "" {
			c.add(key, "static default is invalid: %s", v.message)
		}
	}
	if def, ok := field.Default.(DynamicDefault); ok && strings.TrimSpace(def.FieldKey) == "" {
		c.add(key, "dynamic default needs a field_key")
	}
}

func checkOptions(c *structureCollector, key string, options []Option) {
	if len(options) == 0 {
		c.add(key, "choice field needs at least one option")
		return
	}
	for i, opt := range options {
		if !opt.Value.IsScalar() {
			c.add(key, "option %d must be an integer or a string", i)
			continue
		}
		for _, prev := range options[:i] {
			if prev.Value.Equal(opt.Value) {
				c.add(key, "duplicate option value %s", opt.Value)
				break
			}
		}
	}
}

// Form returns the compiled form.
func (l *Layout) Form() *Form {
	return l.form
}

// Depth returns how many conditional blocks enclose the answerable field key.
func (l *Layout) Depth(key string) int {
	idx, ok := l.byKey[key]
	if !ok {
		return -1
	}
	depth := 0
	for b := l.slots[idx].block; b > 0; b = l.blocks[b].parent {
		depth++
	}
	return depth
}
