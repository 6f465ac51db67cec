package schema

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/ticketflow/internal/application/schema/dto"
	"github.com/orris-inc/ticketflow/internal/application/schema/usecases"
	"github.com/orris-inc/ticketflow/internal/shared/id"
	"github.com/orris-inc/ticketflow/internal/shared/logger"
	"github.com/orris-inc/ticketflow/internal/shared/utils"
)

type SchemaHandler struct {
	publishUC  usecases.PublishSchemaExecutor
	getUC      usecases.GetSchemaExecutor
	listUC     usecases.ListSchemasExecutor
	probableUC usecases.ProbableAssignUsersExecutor
	logger     logger.Interface
}

func NewSchemaHandler(
	publishUC usecases.PublishSchemaExecutor,
	getUC usecases.GetSchemaExecutor,
	listUC usecases.ListSchemasExecutor,
	probableUC usecases.ProbableAssignUsersExecutor,
	logger logger.Interface,
) *SchemaHandler {
	return &SchemaHandler{
		publishUC:  publishUC,
		getUC:      getUC,
		listUC:     listUC,
		probableUC: probableUC,
		logger:     logger,
	}
}

// PublishSchema handles POST /schemas
// @Summary Publish a ticket schema
// @Description Validate a draft and store it as an immutable schema
// @Tags schemas
// @Accept json
// @Produce json
// @Security Bearer
// @Param schema body dto.SchemaDraftRequest true "Schema draft"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 422 {object} utils.APIResponse
// @Router /schemas [post]
func (h *SchemaHandler) PublishSchema(c *gin.Context) {
	actorID, err := utils.ActorID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.SchemaDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for publish schema", "error", err)
		utils.ErrorResponseWithError(c, utils.BindError(err))
		return
	}

	result, err := h.publishUC.Execute(c.Request.Context(), usecases.PublishSchemaCommand{
		Draft:       req,
		PublisherID: actorID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Schema published successfully")
}

// GetSchema handles GET /schemas/:id
// @Summary Get schema by ID
// @Tags schemas
// @Produce json
// @Security Bearer
// @Param id path string true "Schema ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /schemas/{id} [get]
func (h *SchemaHandler) GetSchema(c *gin.Context) {
	schemaSID, err := utils.ParseSIDParam(c, "id", id.PrefixSchema, "schema")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getUC.Execute(c.Request.Context(), usecases.GetSchemaQuery{SchemaSID: schemaSID})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// ListSchemas handles GET /schemas
// @Summary List schemas
// @Tags schemas
// @Produce json
// @Security Bearer
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} utils.APIResponse
// @Router /schemas [get]
func (h *SchemaHandler) ListSchemas(c *gin.Context) {
	h.list(c, "")
}

// ProbableSchemas handles GET /schemas/probable
// @Summary Schemas the caller can start
// @Description Schemas whose first flow the caller may act on
// @Tags schemas
// @Produce json
// @Security Bearer
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} utils.APIResponse
// @Router /schemas/probable [get]
func (h *SchemaHandler) ProbableSchemas(c *gin.Context) {
	actorID, err := utils.ActorID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	h.list(c, actorID)
}

func (h *SchemaHandler) list(c *gin.Context, startableBy string) {
	p := utils.ParsePagination(c)
	result, err := h.listUC.Execute(c.Request.Context(), usecases.ListSchemasQuery{
		Page:        p.Page,
		PageSize:    p.PageSize,
		StartableBy: startableBy,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Schemas, result.Total, result.Page, result.PageSize)
}

// ProbableAssignUsers handles GET /schemas/:id/flows/:flow_id/probable_assign_users
// @Summary Preview flow assignees
// @Description Users that would be eligible for a flow if the caller started a ticket now
// @Tags schemas
// @Produce json
// @Security Bearer
// @Param id path string true "Schema ID"
// @Param flow_id path string true "Flow ID"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /schemas/{id}/flows/{flow_id}/probable_assign_users [get]
func (h *SchemaHandler) ProbableAssignUsers(c *gin.Context) {
	schemaSID, err := utils.ParseSIDParam(c, "id", id.PrefixSchema, "schema")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	flowSID, err := utils.ParseSIDParam(c, "flow_id", id.PrefixFlowStep, "flow")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	actorID, err := utils.ActorID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.probableUC.Execute(c.Request.Context(), usecases.ProbableAssignUsersQuery{
		SchemaSID:   schemaSID,
		FlowSID:     flowSID,
		RequesterID: actorID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
