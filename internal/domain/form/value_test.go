package form

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Value
		wantErr bool
	}{
		{"null", `null`, Null(), false},
		{"integer", `42`, Int(42), false},
		{"string", `"yes"`, String("yes"), false},
		{"bool", `true`, Bool(true), false},
		{"mixed list", `[1, "two"]`, List(Int(1), String("two")), false},
		{"empty list", `[]`, List(), false},
		{"float rejected", `1.5`, Value{}, true},
		{"nested list rejected", `[[1]]`, Value{}, true},
		{"bool in list rejected", `[true]`, Value{}, true},
		{"object rejected", `{"a": 1}`, Value{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Value
			err := json.Unmarshal([]byte(tt.input), &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestValue_EqualIsExact(t *testing.T) {
	assert.False(t, Int(1).Equal(String("1")))
	assert.False(t, Bool(false).Equal(Null()))
	assert.True(t, List(Int(1), String("a")).Equal(List(Int(1), String("a"))))
	assert.False(t, List(Int(1)).Equal(List(Int(1), Int(2))))
	assert.True(t, Bool(true).In([]Value{Int(1), Bool(true)}))
	assert.False(t, Int(3).In(nil))
}

func TestValue_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(Answers{
		"n": Int(7),
		"s": String("x"),
		"b": Bool(false),
		"l": List(String("a"), Int(2)),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":7,"s":"x","b":false,"l":["a",2]}`, string(data))
}

func TestAnswers_GetTreatsNullAsMissing(t *testing.T) {
	a := Answers{"x": Null(), "y": Int(0)}

	_, ok := a.Get("x")
	assert.False(t, ok)

	v, ok := a.Get("y")
	assert.True(t, ok)
	assert.True(t, v.Equal(Int(0)))

	_, ok = a.Get("missing")
	assert.False(t, ok)
}

func TestAnswers_UnmarshalJSONKeepsUndecodableKeys(t *testing.T) {
	var a Answers
	require.NoError(t, json.Unmarshal([]byte(`{"name":1.5,"agree":{"x":1},"tags":[[1]],"consent":true}`), &a))

	require.Len(t, a, 4)
	assert.True(t, a["consent"].Equal(Bool(true)))
	for _, key := range []string{"name", "agree", "tags"} {
		assert.Equal(t, KindInvalid, a[key].Kind(), key)
		_, ok := a.Get(key)
		assert.True(t, ok, "%s counts as answered", key)
	}

	_, err := json.Marshal(a)
	assert.Error(t, err, "invalid values are never written back")

	var empty Answers
	require.NoError(t, json.Unmarshal([]byte(`null`), &empty))
	assert.Nil(t, empty)

	assert.Error(t, json.Unmarshal([]byte(`["x"]`), &empty), "answers must be an object")
}

func TestField_JSONRoundTrip(t *testing.T) {
	raw := `{
		"order": 3,
		"key": "consent",
		"required": false,
		"define": {"type": "IfEqual", "from": {"type": "static", "value": false}, "values": [true]}
	}`
	var f Field
	require.NoError(t, json.Unmarshal([]byte(raw), &f))

	cond, ok := f.Define.(*IfEqual)
	require.True(t, ok)
	assert.True(t, f.Editable, "absent editable means editable")
	assert.Equal(t, StaticDefault{Value: Bool(false)}, cond.From)
	require.Len(t, cond.Values, 1)
	assert.True(t, cond.Values[0].Equal(Bool(true)))

	data, err := json.Marshal(f)
	require.NoError(t, err)

	var back Field
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, f.Key, back.Key)
	assert.Equal(t, f.Define, back.Define)
}

func TestField_UnmarshalDynamicDefault(t *testing.T) {
	raw := `{
		"order": 0,
		"key": "email",
		"editable": false,
		"define": {"type": "SingleLineText", "max_texts": 64, "text_type": "email"},
		"default": {"type": "dynamic", "step_id": "tkf_a", "field_key": "contact", "fallback": "none@example.com"}
	}`
	var f Field
	require.NoError(t, json.Unmarshal([]byte(raw), &f))

	assert.False(t, f.Editable)
	assert.Equal(t, &SingleLineText{MaxTexts: 64, TextType: TextTypeEmail}, f.Define)
	def, ok := f.Default.(DynamicDefault)
	require.True(t, ok)
	assert.Equal(t, "tkf_a", def.StepID)
	assert.Equal(t, "contact", def.FieldKey)
	require.NotNil(t, def.Fallback)
	assert.True(t, def.Fallback.Equal(String("none@example.com")))
}

func TestField_UnmarshalRejectsUnknownDefine(t *testing.T) {
	var f Field
	err := json.Unmarshal([]byte(`{"key": "x", "define": {"type": "Slider"}}`), &f)
	assert.Error(t, err)

	err = json.Unmarshal([]byte(`{"key": "x", "define": {}}`), &f)
	assert.Error(t, err)
}

func TestNewForm_SortsStablyAndRenumbers(t *testing.T) {
	a := &Field{Order: 5, Key: "a", Define: &BoolField{}}
	b := &Field{Order: 1, Key: "b", Define: &BoolField{}}
	c := &Field{Order: 5, Key: "c", Define: &BoolField{}}

	f := NewForm([]*Field{a, b, c}, nil)

	keys := make([]string, 0, 3)
	for i, field := range f.Fields {
		keys = append(keys, field.Key)
		assert.Equal(t, i, field.Order)
	}
	assert.Equal(t, []string{"b", "a", "c"}, keys)
}
