package form

import (
	"encoding/json"
	"fmt"
)

// FieldType is the wire tag of a field define.
type FieldType string

const (
	TypeSingleLineText FieldType = "SingleLineText"
	TypeMultiLineText  FieldType = "MultiLineText"
	TypeSingleChoice   FieldType = "SingleChoice"
	TypeMultipleChoice FieldType = "MultipleChoice"
	TypeBool           FieldType = "Bool"
	TypeImage          FieldType = "Image"
	TypeFile           FieldType = "File"
	TypeIfEqual        FieldType = "IfEqual"
	TypeIfEnd          FieldType = "IfEnd"
)

// Define is the closed set of field kinds. Only the types in this file
// implement it; every consumer switches over all of them.
type Define interface {
	Type() FieldType
	isDefine()
}

// TextType restricts the content of a single line text answer.
type TextType string

const (
	TextTypeString TextType = "string"
	TextTypeEmail  TextType = "email"
	TextTypeURL    TextType = "url"
)

type SingleLineText struct {
	MaxTexts int      `json:"max_texts"`
	TextType TextType `json:"text_type,omitempty"`
}

type MultiLineText struct {
	MaxTexts int `json:"max_texts"`
	MaxLines int `json:"max_lines"`
}

// Option is one selectable choice. Value must be an integer or a string.
type Option struct {
	Value   Value  `json:"value"`
	LabelZh string `json:"label_zh,omitempty"`
	LabelEn string `json:"label_en,omitempty"`
}

type SingleChoice struct {
	Options []Option `json:"options"`
}

// MultipleChoice limits the selection to MaxOptions entries; zero means no limit.
type MultipleChoice struct {
	Options    []Option `json:"options"`
	MaxOptions int      `json:"max_options"`
	IsCheckbox bool     `json:"is_checkbox"`
}

type BoolField struct{}

// Image bounds are ignored when zero. MaxSize is in bytes.
type Image struct {
	MaxSize   int64    `json:"max_size"`
	MinWidth  int      `json:"min_width"`
	MaxWidth  int      `json:"max_width"`
	MinHeight int      `json:"min_height"`
	MaxHeight int      `json:"max_height"`
	Mimes     []string `json:"mimes,omitempty"`
}

type File struct {
	MaxSize int64    `json:"max_size"`
	Mimes   []string `json:"mimes,omitempty"`
}

// IfEqual opens a conditional block named by the owning field's key. The
// block is visible when the value of that key is one of Values.
type IfEqual struct {
	From   Default `json:"-"`
	Values []Value `json:"values"`
}

// IfEnd closes the innermost block with the owning field's key.
type IfEnd struct{}

func (*SingleLineText) Type() FieldType { return TypeSingleLineText }
func (*MultiLineText) Type() FieldType  { return TypeMultiLineText }
func (*SingleChoice) Type() FieldType   { return TypeSingleChoice }
func (*MultipleChoice) Type() FieldType { return TypeMultipleChoice }
func (*BoolField) Type() FieldType      { return TypeBool }
func (*Image) Type() FieldType          { return TypeImage }
func (*File) Type() FieldType           { return TypeFile }
func (*IfEqual) Type() FieldType        { return TypeIfEqual }
func (*IfEnd) Type() FieldType          { return TypeIfEnd }

func (*SingleLineText) isDefine() {}
func (*MultiLineText) isDefine()  {}
func (*SingleChoice) isDefine()   {}
func (*MultipleChoice) isDefine() {}
func (*BoolField) isDefine()      {}
func (*Image) isDefine()          {}
func (*File) isDefine()           {}
func (*IfEqual) isDefine()        {}
func (*IfEnd) isDefine()          {}

// IsMarker reports whether d is a control-flow marker rather than an answerable field.
func IsMarker(d Define) bool {
	switch d.(type) {
	case *IfEqual, *IfEnd:
		return true
	default:
		return false
	}
}

func marshalDefine(d Define) ([]byte, error) {
	if d == nil {
		return nil, fmt.Errorf("field define is required")
	}
	if cond, ok := d.(*IfEqual); ok {
		from, err := marshalDefault(cond.From)
		if err != nil {
			return nil, err
		}
		values := cond.Values
		if values == nil {
			values = []Value{}
		}
		return json.Marshal(struct {
			Type   FieldType       `json:"type"`
			From   json.RawMessage `json:"from"`
			Values []Value         `json:"values"`
		}{TypeIfEqual, from, values})
	}

	body, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	tag, _ := json.Marshal(d.Type())
	fields["type"] = tag
	return json.Marshal(fields)
}

func unmarshalDefine(data []byte) (Define, error) {
	var head struct {
		Type FieldType `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("invalid field define: %w", err)
	}

	var d Define
	switch head.Type {
	case TypeSingleLineText:
		d = &SingleLineText{}
	case TypeMultiLineText:
		d = &MultiLineText{}
	case TypeSingleChoice:
		d = &SingleChoice{}
	case TypeMultipleChoice:
		d = &MultipleChoice{}
	case TypeBool:
		d = &BoolField{}
	case TypeImage:
		d = &Image{}
	case TypeFile:
		d = &File{}
	case TypeIfEnd:
		d = &IfEnd{}
	case TypeIfEqual:
		var wire struct {
			From   json.RawMessage `json:"from"`
			Values []Value         `json:"values"`
		}
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, fmt.Errorf("invalid IfEqual define: %w", err)
		}
		from, err := unmarshalDefault(wire.From)
		if err != nil {
			return nil, err
		}
		return &IfEqual{From: from, Values: wire.Values}, nil
	case "":
		return nil, fmt.Errorf("field define type is required")
	default:
		return nil, fmt.Errorf("unknown field define type %q", head.Type)
	}

	if err := json.Unmarshal(data, d); err != nil {
		return nil, fmt.Errorf("invalid %s define: %w", head.Type, err)
	}
	return d, nil
}
