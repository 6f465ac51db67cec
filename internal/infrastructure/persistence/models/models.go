// Package models holds the gorm persistence models.
package models

// All returns every model managed by AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&TicketSchemaModel{},
		&TicketModel{},
		&FlowItemModel{},
		&FlowEventModel{},
		&SubmissionModel{},
		&UserModel{},
		&RoleModel{},
		&FormBlobModel{},
	}
}
