package models

type FormBlobModel struct {
	ID         uint   `gorm:"primaryKey"`
	SID        string `gorm:"column:sid;uniqueIndex;size:32;not null"`
	Kind       string `gorm:"size:10;not null"`
	Mime       string `gorm:"size:255;not null"`
	Size       int64  `gorm:"not null"`
	Width      int    `gorm:"not null;default:0"`
	Height     int    `gorm:"not null;default:0"`
	SHA256     string `gorm:"column:sha256;size:64;not null;default:'';index"`
	UploadedBy string `gorm:"size:32;not null;index"`
	CreatedAt  int64  `gorm:"autoCreateTime:milli;not null"`
}

func (FormBlobModel) TableName() string {
	return "form_blobs"
}
