package form

// DefaultResolver looks up the value a DynamicDefault points at. The boolean
// is false when no answer exists yet.
type DefaultResolver interface {
	ResolveDynamic(d DynamicDefault) (Value, bool)
}

// ResolverFunc adapts a plain function to DefaultResolver.
type ResolverFunc func(d DynamicDefault) (Value, bool)

func (f ResolverFunc) ResolveDynamic(d DynamicDefault) (Value, bool) {
	return f(d)
}

// ResolveDefault evaluates d. A dynamic default that r cannot resolve falls
// back to its fallback value; a nil r resolves nothing.
func ResolveDefault(d Default, r DefaultResolver) (Value, bool) {
	switch v := d.(type) {
	case StaticDefault:
		return v.Value, !v.Value.IsNull()
	case DynamicDefault:
		if r != nil {
			if got, ok := r.ResolveDynamic(v); ok && !got.IsNull() {
				return got, true
			}
		}
		if v.Fallback != nil && !v.Fallback.IsNull() {
			return *v.Fallback, true
		}
	}
	return Value{}, false
}

// visibility memoizes block evaluation for one call.
type visibility struct {
	layout  *Layout
	answers Answers
	r       DefaultResolver
	state   []int8
}

const (
	blockUnknown int8 = iota
	blockEvaluating
	blockShown
	blockHidden
)

func (l *Layout) newVisibility(answers Answers, r DefaultResolver) *visibility {
	state := make([]int8, len(l.blocks))
	state[0] = blockShown
	return &visibility{layout: l, answers: answers, r: r, state: state}
}

// shown reports whether block idx and all its ancestors hold. A block whose
// condition depends on its own visibility is hidden.
func (v *visibility) shown(idx int) bool {
	switch v.state[idx] {
	case blockUnknown:
		v.state[idx] = blockEvaluating
		b := v.layout.blocks[idx]
		if v.shown(b.parent) && v.holds(b) {
			v.state[idx] = blockShown
		} else {
			v.state[idx] = blockHidden
		}
	case blockEvaluating:
		return false
	}
	return v.state[idx] == blockShown
}

// holds evaluates the block condition against the effective value of its key.
func (v *visibility) holds(b block) bool {
	lhs, ok := v.effectiveValue(b)
	if !ok {
		return false
	}
	return lhs.In(b.cond.Values)
}

// effectiveValue is the value a condition compares. A field contributes only
// while it is visible itself: a non-editable field its default, otherwise the
// submitted answer, then its own default. Anything else falls back to the
// IfEqual source default.
func (v *visibility) effectiveValue(b block) (Value, bool) {
	if idx, ok := v.layout.byKey[b.key]; ok {
		sl := v.layout.slots[idx]
		if v.shown(sl.block) {
			if sl.field.Editable {
				if got, ok := v.answers.Get(b.key); ok {
					return got, true
				}
			}
			if got, ok := ResolveDefault(sl.field.Default, v.r); ok {
				return got, true
			}
		}
	} else if got, ok := v.answers.Get(b.key); ok {
		return got, true
	}
	return ResolveDefault(b.cond.From, v.r)
}

// VisibleFields returns the answerable fields whose enclosing conditions all
// hold for answers, in form order.
func (l *Layout) VisibleFields(answers Answers, r DefaultResolver) []*Field {
	vis := l.newVisibility(answers, r)
	out := make([]*Field, 0, len(l.slots))
	for _, s := range l.slots {
		if vis.shown(s.block) {
			out = append(out, s.field)
		}
	}
	return out
}

// Visible reports whether the answerable field key is currently shown.
func (l *Layout) Visible(key string, answers Answers, r DefaultResolver) bool {
	idx, ok := l.byKey[key]
	if !ok {
		return false
	}
	return l.newVisibility(answers, r).shown(l.slots[idx].block)
}

// Prefill returns the resolved defaults of every visible field, keyed by field key.
func (l *Layout) Prefill(answers Answers, r DefaultResolver) Answers {
	out := Answers{}
	for _, field := range l.VisibleFields(answers, r) {
		if v, ok := ResolveDefault(field.Default, r); ok {
			out[field.Key] = v
		}
	}
	return out
}
