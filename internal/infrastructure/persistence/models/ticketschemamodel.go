package models

import "gorm.io/datatypes"

// TicketSchemaModel stores a published schema. Steps are kept as one JSON
// document because a schema is immutable once published. The first step's
// operator is copied into columns so startable schemas can be queried.
type TicketSchemaModel struct {
	ID                uint           `gorm:"primaryKey"`
	SID               string         `gorm:"column:sid;uniqueIndex;size:32;not null"`
	TitleZh           string         `gorm:"size:200;not null;default:''"`
	TitleEn           string         `gorm:"size:200;not null;default:''"`
	DescriptionZh     string         `gorm:"type:text"`
	DescriptionEn     string         `gorm:"type:text"`
	Steps             datatypes.JSON `gorm:"not null"`
	FirstOperatorKind string         `gorm:"size:10;not null;index:idx_schema_first_operator"`
	FirstOperatorRef  string         `gorm:"size:32;not null;default:'';index:idx_schema_first_operator"`
	CreatedAt         int64          `gorm:"autoCreateTime:milli;not null;index"`
	UpdatedAt         int64          `gorm:"autoUpdateTime:milli;not null"`
}

func (TicketSchemaModel) TableName() string {
	return "ticket_schemas"
}
