package blob

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/orris-inc/ticketflow/internal/domain/form"
	"github.com/orris-inc/ticketflow/internal/shared/biztime"
	"github.com/orris-inc/ticketflow/internal/shared/id"
)

var (
	ErrInvalidKind   = errors.New("blob kind must be image or file")
	ErrInvalidMime   = errors.New("invalid mime type")
	ErrInvalidSize   = errors.New("blob size must be positive")
	ErrInvalidSHA256 = errors.New("sha256 must be 64 hex characters")
)

var (
	mimePattern   = regexp.MustCompile(`^[a-z0-9][a-z0-9!#$&^_.+-]*/[a-z0-9][a-z0-9!#$&^_.+-]*$`)
	sha256Pattern = regexp.MustCompile(`^[a-f0-9]{64}$`)
)

// Blob is the metadata of an uploaded image or file. The bytes live in
// external storage; form answers reference blobs by SID.
type Blob struct {
	id         uint
	sid        string
	kind       form.BlobKind
	mime       string
	size       int64
	width      int
	height     int
	sha256     string
	uploadedBy string
	createdAt  time.Time
}

// Metadata describes a blob being registered.
type Metadata struct {
	Kind       form.BlobKind
	Mime       string
	Size       int64
	Width      int
	Height     int
	SHA256     string
	UploadedBy string
}

func NewBlob(m Metadata) (*Blob, error) {
	if m.Kind != form.BlobKindImage && m.Kind != form.BlobKindFile {
		return nil, ErrInvalidKind
	}
	mime := strings.ToLower(strings.TrimSpace(m.Mime))
	if !mimePattern.MatchString(mime) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMime, m.Mime)
	}
	if m.Kind == form.BlobKindImage && !strings.HasPrefix(mime, "image/") {
		return nil, fmt.Errorf("%w: images need an image/* type, got %s", ErrInvalidMime, mime)
	}
	if m.Size <= 0 {
		return nil, ErrInvalidSize
	}
	if m.Width < 0 || m.Height < 0 {
		return nil, fmt.Errorf("image dimensions must not be negative")
	}
	sum := strings.ToLower(strings.TrimSpace(m.SHA256))
	if sum != "" && !sha256Pattern.MatchString(sum) {
		return nil, ErrInvalidSHA256
	}
	if m.UploadedBy == "" {
		return nil, fmt.Errorf("uploader is required")
	}

	return &Blob{
		sid:        id.NewBlobID(),
		kind:       m.Kind,
		mime:       mime,
		size:       m.Size,
		width:      m.Width,
		height:     m.Height,
		sha256:     sum,
		uploadedBy: m.UploadedBy,
		createdAt:  biztime.NowUTC(),
	}, nil
}

func ReconstructBlob(id uint, sid string, m Metadata, createdAt time.Time) (*Blob, error) {
	if sid == "" {
		return nil, fmt.Errorf("blob SID is required")
	}
	return &Blob{
		id:         id,
		sid:        sid,
		kind:       m.Kind,
		mime:       m.Mime,
		size:       m.Size,
		width:      m.Width,
		height:     m.Height,
		sha256:     m.SHA256,
		uploadedBy: m.UploadedBy,
		createdAt:  createdAt,
	}, nil
}

func (b *Blob) ID() uint {
	return b.id
}

func (b *Blob) SetID(id uint) {
	b.id = id
}

func (b *Blob) SID() string {
	return b.sid
}

func (b *Blob) Kind() form.BlobKind {
	return b.kind
}

func (b *Blob) Mime() string {
	return b.mime
}

func (b *Blob) Size() int64 {
	return b.size
}

func (b *Blob) Width() int {
	return b.width
}

func (b *Blob) Height() int {
	return b.height
}

func (b *Blob) SHA256() string {
	return b.sha256
}

func (b *Blob) UploadedBy() string {
	return b.uploadedBy
}

func (b *Blob) CreatedAt() time.Time {
	return b.createdAt
}

// FormBlob is the view the form validator checks answers against.
func (b *Blob) FormBlob() form.Blob {
	return form.Blob{
		ID:     b.sid,
		Kind:   b.kind,
		Mime:   b.mime,
		Size:   b.size,
		Width:  b.width,
		Height: b.height,
	}
}
