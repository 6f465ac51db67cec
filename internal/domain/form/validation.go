package form

import (
	"fmt"
	"path"
	"strings"

	"github.com/orris-inc/ticketflow/internal/shared/textutil"
)

// Field error codes.
const (
	CodeRequired           = "required"
	CodeInvalidType        = "invalid_type"
	CodeTextTooLong        = "text_too_long"
	CodeTooManyLines       = "too_many_lines"
	CodeInvalidFormat      = "invalid_format"
	CodeInvalidChoice      = "invalid_choice"
	CodeDuplicateChoice    = "duplicate_choice"
	CodeTooManyChoices     = "too_many_choices"
	CodeBlobNotFound       = "blob_not_found"
	CodeBlobTooLarge       = "blob_too_large"
	CodeBlobMimeNotAllowed = "blob_mime_not_allowed"
	CodeImageTooSmall      = "image_too_small"
	CodeImageTooLarge      = "image_too_large"
)

// BlobKind distinguishes images from generic files.
type BlobKind string

const (
	BlobKindImage BlobKind = "image"
	BlobKindFile  BlobKind = "file"
)

// Blob is the registered metadata of an uploaded image or file.
type Blob struct {
	ID     string
	Kind   BlobKind
	Mime   string
	Size   int64
	Width  int
	Height int
}

// BlobLookup finds registered blob metadata by id.
type BlobLookup interface {
	LookupBlob(id string) (Blob, bool)
}

// Blobs is an in-memory BlobLookup.
type Blobs map[string]Blob

func (b Blobs) LookupBlob(id string) (Blob, bool) {
	blob, ok := b[id]
	return blob, ok
}

// BlobID strips a trailing file extension from a submitted blob reference.
func BlobID(ref string) string {
	ref = strings.TrimSpace(ref)
	return strings.TrimSuffix(ref, path.Ext(ref))
}

// FieldError is one field-level violation of a submission.
type FieldError struct {
	Key     string
	Code    string
	Message string
}

// FieldErrors holds every violation of a submission, one per key, in form order.
type FieldErrors struct {
	Errors []FieldError
}

func (e *FieldErrors) Error() string {
	keys := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		keys[i] = fe.Key + "=" + fe.Code
	}
	return "invalid submission: " + strings.Join(keys, ", ")
}

// Codes returns the error code for every failing key.
func (e *FieldErrors) Codes() map[string]string {
	out := make(map[string]string, len(e.Errors))
	for _, fe := range e.Errors {
		out[fe.Key] = fe.Code
	}
	return out
}

// BlobRefs lists the blob ids referenced by visible, editable image and file
// answers, so callers can load their metadata before validating.
func (l *Layout) BlobRefs(answers Answers, r DefaultResolver) []string {
	var ids []string
	for _, field := range l.VisibleFields(answers, r) {
		if !field.Editable {
			continue
		}
		switch field.Define.(type) {
		case *Image, *File:
		default:
			continue
		}
		if v, ok := answers.Get(field.Key); ok {
			if s, ok := v.AsString(); ok && strings.TrimSpace(s) != "" {
				ids = append(ids, BlobID(s))
			}
		}
	}
	return ids
}

// ValidateSubmission checks answers against every visible field and returns
// the normalized answers to store. Hidden fields are exempt from all checks.
// The error, when non-nil, is a *FieldErrors listing every failing field.
func (l *Layout) ValidateSubmission(answers Answers, r DefaultResolver, blobs BlobLookup) (Answers, error) {
	out := Answers{}
	var errs []FieldError

	for _, field := range l.VisibleFields(answers, r) {
		if !field.Editable {
			if v, ok := ResolveDefault(field.Default, r); ok {
				out[field.Key] = v
			}
			continue
		}

		v, ok := answers.Get(field.Key)
		if !ok {
			v, ok = ResolveDefault(field.Default, r)
		}
		if ok {
			res := checkValue(field, v, blobs)
			if res.code != "" {
				errs = append(errs, FieldError{Key: field.Key, Code: res.code, Message: res.message})
				continue
			}
			v, ok = res.value, !res.value.IsNull()
		}
		if !ok {
			if field.Required {
				errs = append(errs, FieldError{Key: field.Key, Code: CodeRequired, Message: "this field is required"})
			}
			continue
		}
		out[field.Key] = v
	}

	if len(errs) > 0 {
		return nil, &FieldErrors{Errors: errs}
	}
	return out, nil
}

type checked struct {
	value   Value
	code    string
	message string
}

func reject(code, format string, args ...any) checked {
	return checked{code: code, message: fmt.Sprintf(format, args...)}
}

// checkValue type-checks v against the field define. A null result value
// without a code means the answer normalized to empty.
func checkValue(field *Field, v Value, blobs BlobLookup) checked {
	if v.kind == KindInvalid {
		return reject(CodeInvalidType, "%s", v.s)
	}
	switch d := field.Define.(type) {
	case *SingleLineText:
		s, ok := v.AsString()
		if !ok {
			return reject(CodeInvalidType, "expected a string, got %s", v.Kind())
		}
		s = textutil.Clean(s)
		if s == "" {
			return checked{}
		}
		if strings.ContainsAny(s, "\r\n") {
			return reject(CodeInvalidFormat, "line breaks are not allowed")
		}
		if d.MaxTexts > 0 && textutil.Length(s) > d.MaxTexts {
			return reject(CodeTextTooLong, "at most %d characters", d.MaxTexts)
		}
		switch d.TextType {
		case TextTypeEmail:
			if !textutil.IsEmail(s) {
				return reject(CodeInvalidFormat, "not a valid email address")
			}
		case TextTypeURL:
			if !textutil.IsURL(s) {
				return reject(CodeInvalidFormat, "not a valid url")
			}
		}
		return checked{value: String(s)}

	case *MultiLineText:
		s, ok := v.AsString()
		if !ok {
			return reject(CodeInvalidType, "expected a string, got %s", v.Kind())
		}
		s = textutil.Clean(strings.ReplaceAll(s, "\r\n", "\n"))
		if s == "" {
			return checked{}
		}
		if d.MaxTexts > 0 && textutil.Length(s) > d.MaxTexts {
			return reject(CodeTextTooLong, "at most %d characters", d.MaxTexts)
		}
		if d.MaxLines > 0 && textutil.LineCount(s) > d.MaxLines {
			return reject(CodeTooManyLines, "at most %d lines", d.MaxLines)
		}
		return checked{value: String(s)}

	case *SingleChoice:
		if !v.IsScalar() {
			return reject(CodeInvalidType, "expected an option value, got %s", v.Kind())
		}
		if !optionValue(d.Options, v) {
			return reject(CodeInvalidChoice, "%s is not an option", v)
		}
		return checked{value: v}

	case *MultipleChoice:
		list, ok := v.AsList()
		if !ok {
			return reject(CodeInvalidType, "expected a list of option values, got %s", v.Kind())
		}
		if len(list) == 0 {
			return checked{}
		}
		if d.MaxOptions > 0 && len(list) > d.MaxOptions {
			return reject(CodeTooManyChoices, "at most %d options", d.MaxOptions)
		}
		for i, e := range list {
			if !optionValue(d.Options, e) {
				return reject(CodeInvalidChoice, "%s is not an option", e)
			}
			if e.In(list[:i]) {
				return reject(CodeDuplicateChoice, "%s is selected twice", e)
			}
		}
		return checked{value: List(list...)}

	case *BoolField:
		if _, ok := v.AsBool(); !ok {
			return reject(CodeInvalidType, "expected a bool, got %s", v.Kind())
		}
		return checked{value: v}

	case *Image:
		blob, res, ok := lookupBlob(v, blobs, BlobKindImage)
		if !ok {
			return res
		}
		if d.MaxSize > 0 && blob.Size > d.MaxSize {
			return reject(CodeBlobTooLarge, "at most %d bytes", d.MaxSize)
		}
		if !mimeAllowed(d.Mimes, blob.Mime) {
			return reject(CodeBlobMimeNotAllowed, "type %s is not allowed", blob.Mime)
		}
		if blob.Width < d.MinWidth || blob.Height < d.MinHeight {
			return reject(CodeImageTooSmall, "image must be at least %dx%d", d.MinWidth, d.MinHeight)
		}
		if (d.MaxWidth > 0 && blob.Width > d.MaxWidth) || (d.MaxHeight > 0 && blob.Height > d.MaxHeight) {
			return reject(CodeImageTooLarge, "image must be at most %dx%d", d.MaxWidth, d.MaxHeight)
		}
		return checked{value: String(blob.ID)}

	case *File:
		blob, res, ok := lookupBlob(v, blobs, "")
		if !ok {
			return res
		}
		if d.MaxSize > 0 && blob.Size > d.MaxSize {
			return reject(CodeBlobTooLarge, "at most %d bytes", d.MaxSize)
		}
		if !mimeAllowed(d.Mimes, blob.Mime) {
			return reject(CodeBlobMimeNotAllowed, "type %s is not allowed", blob.Mime)
		}
		return checked{value: String(blob.ID)}

	case *IfEqual, *IfEnd:
		return checked{}
	}
	return reject(CodeInvalidType, "unsupported field type %T", field.Define)
}

// lookupBlob resolves a blob reference. An empty kind accepts any blob.
func lookupBlob(v Value, blobs BlobLookup, kind BlobKind) (Blob, checked, bool) {
	s, ok := v.AsString()
	if !ok {
		return Blob{}, reject(CodeInvalidType, "expected a blob id, got %s", v.Kind()), false
	}
	id := BlobID(s)
	if id == "" {
		return Blob{}, checked{}, false
	}
	if blobs == nil {
		return Blob{}, reject(CodeBlobNotFound, "blob %s does not exist", id), false
	}
	blob, ok := blobs.LookupBlob(id)
	if !ok || (kind != "" && blob.Kind != kind) {
		return Blob{}, reject(CodeBlobNotFound, "blob %s does not exist", id), false
	}
	return blob, checked{}, true
}

func optionValue(options []Option, v Value) bool {
	for _, opt := range options {
		if opt.Value.Equal(v) {
			return true
		}
	}
	return false
}

// mimeAllowed matches exact types and "type/*" wildcards. An empty list allows all.
func mimeAllowed(allowed []string, mime string) bool {
	if len(allowed) == 0 {
		return true
	}
	mime = strings.ToLower(strings.TrimSpace(mime))
	for _, a := range allowed {
		a = strings.ToLower(strings.TrimSpace(a))
		if a == mime || a == "*/*" {
			return true
		}
		if prefix, ok := strings.CutSuffix(a, "/*"); ok && strings.HasPrefix(mime, prefix+"/") {
			return true
		}
	}
	return false
}
