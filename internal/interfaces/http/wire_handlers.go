package http

import (
	"github.com/orris-inc/ticketflow/internal/interfaces/http/handlers"
	schemaHandlers "github.com/orris-inc/ticketflow/internal/interfaces/http/handlers/schema"
	ticketHandlers "github.com/orris-inc/ticketflow/internal/interfaces/http/handlers/ticket"
)

type allHandlers struct {
	schemaHandler *schemaHandlers.SchemaHandler
	ticketHandler *ticketHandlers.TicketHandler
	userHandler   *handlers.UserHandler
	roleHandler   *handlers.RoleHandler
	blobHandler   *handlers.BlobHandler
}

func (c *Container) initHandlers() {
	u := c.ucs
	log := c.log

	c.hdlrs = &allHandlers{
		schemaHandler: schemaHandlers.NewSchemaHandler(u.PublishSchema, u.GetSchema, u.ListSchemas, u.ProbableAssignUsers, log),
		ticketHandler: ticketHandlers.NewTicketHandler(u.CreateTicket, u.GetTicket, u.GetTicketHistory, u.ProcessTicket, u.ListTickets, log),
		userHandler:   handlers.NewUserHandler(u.CreateUser, u.ListUsers, u.UpdateUserStatus, log),
		roleHandler:   handlers.NewRoleHandler(u.CreateRole, u.ListRoles, u.UpdateRoleMembership, log),
		blobHandler:   handlers.NewBlobHandler(u.RegisterBlob, log),
	}
}
