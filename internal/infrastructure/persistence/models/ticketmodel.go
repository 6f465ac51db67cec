package models

import "gorm.io/datatypes"

type TicketModel struct {
	ID          uint   `gorm:"primaryKey"`
	SID         string `gorm:"column:sid;uniqueIndex;size:32;not null"`
	SchemaSID   string `gorm:"column:schema_sid;size:32;not null;index"`
	RequesterID string `gorm:"size:32;not null;index"`
	Title       string `gorm:"size:200;not null"`
	Status      string `gorm:"size:20;not null;index"`
	Finished    bool   `gorm:"not null;default:false"`
	Version     int    `gorm:"not null;default:1"`
	CreatedAt   int64  `gorm:"autoCreateTime:milli;not null;index"`
	UpdatedAt   int64  `gorm:"autoUpdateTime:milli;not null"`
	FinishedAt  *int64

	// Note: No foreign key constraints or associations.
	// All relationships are managed by application business logic.
}

func (TicketModel) TableName() string {
	return "tickets"
}

type FlowItemModel struct {
	ID        uint           `gorm:"primaryKey"`
	SID       string         `gorm:"column:sid;uniqueIndex;size:32;not null"`
	TicketID  uint           `gorm:"not null;uniqueIndex:uk_flow_item_ticket_step"`
	StepSID   string         `gorm:"column:step_sid;size:32;not null;uniqueIndex:uk_flow_item_ticket_step"`
	StepOrder int            `gorm:"not null"`
	UserID    string         `gorm:"size:32;not null;default:'';index"`
	RoleID    string         `gorm:"size:32;not null;default:''"`
	Finished  bool           `gorm:"not null;default:false"`
	Value     datatypes.JSON `gorm:"type:json"`
	CreatedAt int64          `gorm:"autoCreateTime:milli;not null"`
	UpdatedAt int64          `gorm:"autoUpdateTime:milli;not null;index"`
}

func (FlowItemModel) TableName() string {
	return "ticket_flow_items"
}

type FlowEventModel struct {
	ID          uint           `gorm:"primaryKey"`
	TicketSID   string         `gorm:"column:ticket_sid;size:32;not null;index"`
	FlowItemSID string         `gorm:"column:flow_item_sid;size:32;not null;default:''"`
	StepSID     string         `gorm:"column:step_sid;size:32;not null;default:''"`
	ActorID     string         `gorm:"size:32;not null"`
	Kind        string         `gorm:"size:20;not null"`
	Comment     string         `gorm:"type:text"`
	Payload     datatypes.JSON `gorm:"type:json"`
	CreatedAt   int64          `gorm:"not null"`
}

func (FlowEventModel) TableName() string {
	return "ticket_flow_events"
}

type SubmissionModel struct {
	ID             uint   `gorm:"primaryKey"`
	TicketSID      string `gorm:"column:ticket_sid;size:32;not null;uniqueIndex:uk_submission_ticket_key"`
	IdempotencyKey string `gorm:"size:128;not null;uniqueIndex:uk_submission_ticket_key"`
	CreatedAt      int64  `gorm:"autoCreateTime:milli;not null"`
}

func (SubmissionModel) TableName() string {
	return "ticket_submissions"
}
