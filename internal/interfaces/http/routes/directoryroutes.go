package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/orris-inc/ticketflow/internal/interfaces/http/handlers"
	"github.com/orris-inc/ticketflow/internal/interfaces/http/middleware"
	"github.com/orris-inc/ticketflow/internal/shared/constants"
)

type DirectoryRouteConfig struct {
	UserHandler          *handlers.UserHandler
	RoleHandler          *handlers.RoleHandler
	BlobHandler          *handlers.BlobHandler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
}

// SetupDirectoryRoutes registers user and role administration plus blob
// registration. Directory writes need directory:manage.
func SetupDirectoryRoutes(engine *gin.Engine, config *DirectoryRouteConfig) {
	manage := config.PermissionMiddleware.RequirePermission(constants.ResourceDirectory, constants.ActionManage)

	users := engine.Group("/users")
	users.Use(config.AuthMiddleware.RequireAuth(), manage)
	{
		users.POST("", config.UserHandler.CreateUser)
		users.GET("", config.UserHandler.ListUsers)
		users.PATCH("/:id/status", config.UserHandler.UpdateUserStatus)
	}

	roles := engine.Group("/roles")
	roles.Use(config.AuthMiddleware.RequireAuth(), manage)
	{
		roles.POST("", config.RoleHandler.CreateRole)
		roles.GET("", config.RoleHandler.ListRoles)
		roles.POST("/:id/members", config.RoleHandler.GrantRole)
		roles.DELETE("/:id/members/:user_id", config.RoleHandler.RevokeRole)
	}

	blobs := engine.Group("/blobs")
	blobs.Use(config.AuthMiddleware.RequireAuth())
	{
		blobs.POST("", config.BlobHandler.RegisterBlob)
	}
}
