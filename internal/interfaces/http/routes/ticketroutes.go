package routes

import (
	"github.com/gin-gonic/gin"

	tickethandlers "github.com/orris-inc/ticketflow/internal/interfaces/http/handlers/ticket"
	"github.com/orris-inc/ticketflow/internal/interfaces/http/middleware"
)

type TicketRouteConfig struct {
	TicketHandler       *tickethandlers.TicketHandler
	AuthMiddleware      *middleware.AuthMiddleware
	RateLimitMiddleware *middleware.RateLimitMiddleware
}

func SetupTicketRoutes(engine *gin.Engine, config *TicketRouteConfig) {
	tickets := engine.Group("/tickets")
	tickets.Use(config.AuthMiddleware.RequireAuth())
	{
		tickets.GET("",
			config.TicketHandler.ListTickets)

		tickets.GET("/:id/history",
			config.TicketHandler.GetTicketHistory)
		tickets.POST("/:id/process",
			config.RateLimitMiddleware.PerActor("ticket_process"),
			config.TicketHandler.ProcessTicket)

		tickets.GET("/:id",
			config.TicketHandler.GetTicket)
	}
}
