package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/ticketflow/internal/application/permission/dto"
	"github.com/orris-inc/ticketflow/internal/application/permission/usecases"
	"github.com/orris-inc/ticketflow/internal/shared/id"
	"github.com/orris-inc/ticketflow/internal/shared/logger"
	"github.com/orris-inc/ticketflow/internal/shared/utils"
)

type RoleHandler struct {
	createUC     usecases.CreateRoleExecutor
	listUC       usecases.ListRolesExecutor
	membershipUC usecases.UpdateRoleMembershipExecutor
	logger       logger.Interface
}

func NewRoleHandler(
	createUC usecases.CreateRoleExecutor,
	listUC usecases.ListRolesExecutor,
	membershipUC usecases.UpdateRoleMembershipExecutor,
	log logger.Interface,
) *RoleHandler {
	return &RoleHandler{
		createUC:     createUC,
		listUC:       listUC,
		membershipUC: membershipUC,
		logger:       log,
	}
}

// CreateRole godoc
// @Summary Create a role
// @Tags directory
// @Accept json
// @Produce json
// @Security Bearer
// @Param role body dto.CreateRoleRequest true "Role data"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /roles [post]
func (h *RoleHandler) CreateRole(c *gin.Context) {
	var req dto.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create role", "error", err)
		utils.ErrorResponseWithError(c, utils.BindError(err))
		return
	}

	role, err := h.createUC.Execute(c.Request.Context(), req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, role, "Role created successfully")
}

// ListRoles godoc
// @Summary List roles
// @Tags directory
// @Produce json
// @Security Bearer
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Param with_members query bool false "Include member user ids"
// @Success 200 {object} utils.APIResponse
// @Router /roles [get]
func (h *RoleHandler) ListRoles(c *gin.Context) {
	p := utils.ParsePagination(c)
	withMembers, _ := strconv.ParseBool(c.Query("with_members"))

	result, err := h.listUC.Execute(c.Request.Context(), usecases.ListRolesQuery{
		Page:        p.Page,
		PageSize:    p.PageSize,
		WithMembers: withMembers,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Roles, result.Total, result.Page, result.PageSize)
}

// GrantRole godoc
// @Summary Add a user to a role
// @Tags directory
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Role ID"
// @Param request body dto.RoleMembershipRequest true "Member"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /roles/{id}/members [post]
func (h *RoleHandler) GrantRole(c *gin.Context) {
	h.updateMembership(c, true)
}

// RevokeRole godoc
// @Summary Remove a user from a role
// @Tags directory
// @Produce json
// @Security Bearer
// @Param id path string true "Role ID"
// @Param user_id path string true "User ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /roles/{id}/members/{user_id} [delete]
func (h *RoleHandler) RevokeRole(c *gin.Context) {
	h.updateMembership(c, false)
}

func (h *RoleHandler) updateMembership(c *gin.Context, grant bool) {
	roleSID, err := utils.ParseSIDParam(c, "id", id.PrefixRole, "role")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var userSID string
	if grant {
		var req dto.RoleMembershipRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.ErrorResponseWithError(c, utils.BindError(err))
			return
		}
		userSID = req.UserID
	} else {
		if userSID, err = utils.ParseSIDParam(c, "user_id", id.PrefixUser, "user"); err != nil {
			utils.ErrorResponseWithError(c, err)
			return
		}
	}

	err = h.membershipUC.Execute(c.Request.Context(), usecases.UpdateRoleMembershipCommand{
		RoleSID: roleSID,
		UserSID: userSID,
		Grant:   grant,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	msg := "Role granted"
	if !grant {
		msg = "Role revoked"
	}
	utils.SuccessResponse(c, http.StatusOK, msg, nil)
}
