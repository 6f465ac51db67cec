package models

// UserModel represents the database persistence model for directory users
type UserModel struct {
	ID        uint   `gorm:"primarykey"`
	SID       string `gorm:"column:sid;uniqueIndex;size:32;not null"`
	Email     string `gorm:"uniqueIndex;not null;size:255"`
	Name      string `gorm:"not null;size:100"`
	Status    string `gorm:"not null;default:active;size:20;index"`
	CreatedAt int64  `gorm:"autoCreateTime:milli;not null"`
	UpdatedAt int64  `gorm:"autoUpdateTime:milli;not null"`
}

// TableName specifies the table name for GORM
func (UserModel) TableName() string {
	return "users"
}
