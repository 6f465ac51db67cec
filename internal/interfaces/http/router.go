package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/orris-inc/ticketflow/internal/interfaces/http/middleware"
	"github.com/orris-inc/ticketflow/internal/interfaces/http/routes"

	_ "github.com/orris-inc/ticketflow/docs"
)

// Router represents the HTTP router configuration
type Router struct {
	engine    *gin.Engine
	container *Container
}

// NewRouter wires the container's handlers into a gin engine.
func NewRouter(container *Container) *Router {
	return &Router{
		engine:    container.engine,
		container: container,
	}
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes() {
	c := r.container

	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.Logger(c.log))
	r.engine.Use(middleware.Recovery(c.log))

	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.engine.GET("/healthz", r.healthz)

	routes.SetupSchemaRoutes(r.engine, &routes.SchemaRouteConfig{
		SchemaHandler:        c.hdlrs.schemaHandler,
		TicketHandler:        c.hdlrs.ticketHandler,
		AuthMiddleware:       c.authMiddleware,
		PermissionMiddleware: c.permissionMiddleware,
		RateLimitMiddleware:  c.rateLimitMiddleware,
	})
	routes.SetupTicketRoutes(r.engine, &routes.TicketRouteConfig{
		TicketHandler:       c.hdlrs.ticketHandler,
		AuthMiddleware:      c.authMiddleware,
		RateLimitMiddleware: c.rateLimitMiddleware,
	})
	routes.SetupDirectoryRoutes(r.engine, &routes.DirectoryRouteConfig{
		UserHandler:          c.hdlrs.userHandler,
		RoleHandler:          c.hdlrs.roleHandler,
		BlobHandler:          c.hdlrs.blobHandler,
		AuthMiddleware:       c.authMiddleware,
		PermissionMiddleware: c.permissionMiddleware,
	})
}

func (r *Router) healthz(ctx *gin.Context) {
	sqlDB, err := r.container.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx.Request.Context())
	}
	if err != nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Handler returns the gin engine as an http.Handler.
func (r *Router) Handler() http.Handler {
	return r.engine
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
