package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/ticketflow/internal/application/user/dto"
	"github.com/orris-inc/ticketflow/internal/application/user/usecases"
	"github.com/orris-inc/ticketflow/internal/shared/id"
	"github.com/orris-inc/ticketflow/internal/shared/logger"
	"github.com/orris-inc/ticketflow/internal/shared/utils"
)

// UserHandler handles HTTP requests for the user directory
type UserHandler struct {
	createUC       usecases.CreateUserExecutor
	listUC         usecases.ListUsersExecutor
	updateStatusUC usecases.UpdateUserStatusExecutor
	logger         logger.Interface
}

// NewUserHandler creates a new user handler
func NewUserHandler(
	createUC usecases.CreateUserExecutor,
	listUC usecases.ListUsersExecutor,
	updateStatusUC usecases.UpdateUserStatusExecutor,
	log logger.Interface,
) *UserHandler {
	return &UserHandler{
		createUC:       createUC,
		listUC:         listUC,
		updateStatusUC: updateStatusUC,
		logger:         log,
	}
}

// CreateUser handles POST /users
// @Summary Add a directory user
// @Tags directory
// @Accept json
// @Produce json
// @Security Bearer
// @Param user body dto.CreateUserRequest true "User data"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create user", "error", err)
		utils.ErrorResponseWithError(c, utils.BindError(err))
		return
	}

	userResp, err := h.createUC.Execute(c.Request.Context(), req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, userResp, "User created successfully")
}

// ListUsers handles GET /users
// @Summary List directory users
// @Tags directory
// @Produce json
// @Security Bearer
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Param status query string false "Status filter" Enums(active, inactive)
// @Success 200 {object} utils.APIResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	var req dto.ListUsersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindError(err))
		return
	}
	p := utils.NormalizePagination(req.Page, req.PageSize)
	req.Page, req.PageSize = p.Page, p.PageSize

	result, err := h.listUC.Execute(c.Request.Context(), req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Users, result.Total, result.Page, result.PageSize)
}

// UpdateUserStatus handles PATCH /users/:id/status
// @Summary Activate or deactivate a user
// @Description Inactive users are never bound to new flows
// @Tags directory
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "User ID"
// @Param status body dto.UpdateUserStatusRequest true "New status"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /users/{id}/status [patch]
func (h *UserHandler) UpdateUserStatus(c *gin.Context) {
	userSID, err := utils.ParseSIDParam(c, "id", id.PrefixUser, "user")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.UpdateUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for update user status", "user_id", userSID, "error", err)
		utils.ErrorResponseWithError(c, utils.BindError(err))
		return
	}

	userResp, err := h.updateStatusUC.Execute(c.Request.Context(), userSID, req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "User status updated", userResp)
}
