package form

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Default pre-fills a field or feeds an IfEqual condition when no answer exists.
// It is either a StaticDefault or a DynamicDefault.
type Default interface {
	isDefault()
}

// StaticDefault is a literal value.
type StaticDefault struct {
	Value Value
}

// DynamicDefault reads the answer given to FieldKey in an earlier form.
// An empty SchemaID refers to the schema the ticket was created from. An empty
// StepID matches any form step of that schema. Fallback is used when no
// answer can be found.
type DynamicDefault struct {
	SchemaID string
	StepID   string
	FieldKey string
	Fallback *Value
}

func (StaticDefault) isDefault()  {}
func (DynamicDefault) isDefault() {}

type defaultWire struct {
	Type     string `json:"type"`
	Value    *Value `json:"value,omitempty"`
	SchemaID string `json:"schema_id,omitempty"`
	StepID   string `json:"step_id,omitempty"`
	FieldKey string `json:"field_key,omitempty"`
	Fallback *Value `json:"fallback,omitempty"`
}

func marshalDefault(d Default) (json.RawMessage, error) {
	switch v := d.(type) {
	case nil:
		return json.RawMessage("null"), nil
	case StaticDefault:
		val := v.Value
		return json.Marshal(defaultWire{Type: "static", Value: &val})
	case DynamicDefault:
		return json.Marshal(defaultWire{
			Type:     "dynamic",
			SchemaID: v.SchemaID,
			StepID:   v.StepID,
			FieldKey: v.FieldKey,
			Fallback: v.Fallback,
		})
	default:
		return nil, fmt.Errorf("unknown default %T", d)
	}
}

func unmarshalDefault(data json.RawMessage) (Default, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	var w defaultWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("invalid default: %w", err)
	}
	switch w.Type {
	case "static":
		if w.Value == nil {
			return StaticDefault{Value: Null()}, nil
		}
		return StaticDefault{Value: *w.Value}, nil
	case "dynamic":
		return DynamicDefault{
			SchemaID: w.SchemaID,
			StepID:   w.StepID,
			FieldKey: w.FieldKey,
			Fallback: w.Fallback,
		}, nil
	default:
		return nil, fmt.Errorf("unknown default type %q", w.Type)
	}
}

// Field is one entry of a form: an answerable input or a conditional marker.
type Field struct {
	Order         int
	Key           string
	NameZh        string
	NameEn        string
	DescriptionZh string
	DescriptionEn string
	Required      bool
	Editable      bool
	Define        Define
	Default       Default
}

type fieldWire struct {
	Order         int             `json:"order"`
	Key           string          `json:"key"`
	NameZh        string          `json:"name_zh,omitempty"`
	NameEn        string          `json:"name_en,omitempty"`
	DescriptionZh string          `json:"description_zh,omitempty"`
	DescriptionEn string          `json:"description_en,omitempty"`
	Required      bool            `json:"required"`
	Editable      *bool           `json:"editable,omitempty"`
	Define        json.RawMessage `json:"define"`
	Default       json.RawMessage `json:"default,omitempty"`
}

func (f Field) MarshalJSON() ([]byte, error) {
	define, err := marshalDefine(f.Define)
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", f.Key, err)
	}
	w := fieldWire{
		Order:         f.Order,
		Key:           f.Key,
		NameZh:        f.NameZh,
		NameEn:        f.NameEn,
		DescriptionZh: f.DescriptionZh,
		DescriptionEn: f.DescriptionEn,
		Required:      f.Required,
		Editable:      &f.Editable,
		Define:        define,
	}
	if f.Default != nil {
		if w.Default, err = marshalDefault(f.Default); err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Key, err)
		}
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes a field. An absent "editable" means editable.
func (f *Field) UnmarshalJSON(data []byte) error {
	var w fieldWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	define, err := unmarshalDefine(w.Define)
	if err != nil {
		return fmt.Errorf("field %q: %w", w.Key, err)
	}
	def, err := unmarshalDefault(w.Default)
	if err != nil {
		return fmt.Errorf("field %q: %w", w.Key, err)
	}
	*f = Field{
		Order:         w.Order,
		Key:           w.Key,
		NameZh:        w.NameZh,
		NameEn:        w.NameEn,
		DescriptionZh: w.DescriptionZh,
		DescriptionEn: w.DescriptionEn,
		Required:      w.Required,
		Editable:      w.Editable == nil || *w.Editable,
		Define:        define,
		Default:       def,
	}
	return nil
}

// Form is an ordered list of fields. Slice order is authoritative; Order is
// kept dense by NewForm.
type Form struct {
	Fields    []*Field   `json:"fields"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// NewForm sorts fields stably by their declared order and renumbers them 0..n-1.
func NewForm(fields []*Field, expiresAt *time.Time) *Form {
	sorted := make([]*Field, len(fields))
	copy(sorted, fields)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Order < sorted[j].Order })
	for i, f := range sorted {
		f.Order = i
	}
	return &Form{Fields: sorted, ExpiresAt: expiresAt}
}

// Expired reports whether the form no longer accepts submissions at now.
func (f *Form) Expired(now time.Time) bool {
	return f.ExpiresAt != nil && !now.Before(*f.ExpiresAt)
}

// AnswerableFields returns the non-marker fields in order.
func (f *Form) AnswerableFields() []*Field {
	out := make([]*Field, 0, len(f.Fields))
	for _, field := range f.Fields {
		if !IsMarker(field.Define) {
			out = append(out, field)
		}
	}
	return out
}

// Field returns the answerable field with key.
func (f *Form) Field(key string) (*Field, bool) {
	for _, field := range f.Fields {
		if field.Key == key && !IsMarker(field.Define) {
			return field, true
		}
	}
	return nil, false
}

// DynamicDefaults returns every dynamic default declared in the form,
// including those feeding IfEqual conditions.
func (f *Form) DynamicDefaults() []DynamicDefault {
	var out []DynamicDefault
	for _, field := range f.Fields {
		if d, ok := field.Default.(DynamicDefault); ok {
			out = append(out, d)
		}
		if cond, ok := field.Define.(*IfEqual); ok {
			if d, ok := cond.From.(DynamicDefault); ok {
				out = append(out, d)
			}
		}
	}
	return out
}
