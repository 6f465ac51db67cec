package models

// RoleModel stores role metadata. Membership lives in casbin_rule.
type RoleModel struct {
	ID          uint   `gorm:"primarykey"`
	SID         string `gorm:"column:sid;uniqueIndex;size:32;not null"`
	Name        string `gorm:"not null;size:50"`
	Description string `gorm:"type:text"`
	CreatedAt   int64  `gorm:"autoCreateTime:milli;not null"`
	UpdatedAt   int64  `gorm:"autoUpdateTime:milli;not null"`
}

func (RoleModel) TableName() string {
	return "roles"
}
