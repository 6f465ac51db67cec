package routes

import (
	"github.com/gin-gonic/gin"

	schemahandlers "github.com/orris-inc/ticketflow/internal/interfaces/http/handlers/schema"
	tickethandlers "github.com/orris-inc/ticketflow/internal/interfaces/http/handlers/ticket"
	"github.com/orris-inc/ticketflow/internal/interfaces/http/middleware"
	"github.com/orris-inc/ticketflow/internal/shared/constants"
)

type SchemaRouteConfig struct {
	SchemaHandler        *schemahandlers.SchemaHandler
	TicketHandler        *tickethandlers.TicketHandler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
	RateLimitMiddleware  *middleware.RateLimitMiddleware
}

func SetupSchemaRoutes(engine *gin.Engine, config *SchemaRouteConfig) {
	schemas := engine.Group("/schemas")
	schemas.Use(config.AuthMiddleware.RequireAuth())
	{
		schemas.POST("",
			config.PermissionMiddleware.RequirePermission(constants.ResourceSchema, constants.ActionPublish),
			config.SchemaHandler.PublishSchema)
		schemas.GET("",
			config.SchemaHandler.ListSchemas)

		// Static segment before /:id
		schemas.GET("/probable",
			config.SchemaHandler.ProbableSchemas)

		schemas.GET("/:id/flows/:flow_id/probable_assign_users",
			config.SchemaHandler.ProbableAssignUsers)
		schemas.POST("/:id/tickets",
			config.RateLimitMiddleware.PerActor("ticket_create"),
			config.TicketHandler.CreateTicket)
		schemas.GET("/:id/tickets",
			config.PermissionMiddleware.RequirePermission(constants.ResourceTicket, constants.ActionManage),
			config.TicketHandler.ListSchemaTickets)

		schemas.GET("/:id",
			config.SchemaHandler.GetSchema)
	}
}
