package ticket

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/ticketflow/internal/application/ticket/usecases"
	"github.com/orris-inc/ticketflow/internal/shared/constants"
	"github.com/orris-inc/ticketflow/internal/shared/id"
	"github.com/orris-inc/ticketflow/internal/shared/logger"
	"github.com/orris-inc/ticketflow/internal/shared/utils"
)

type TicketHandler struct {
	createTicketUC usecases.CreateTicketExecutor
	getTicketUC    usecases.GetTicketExecutor
	historyUC      usecases.GetTicketHistoryExecutor
	processUC      usecases.ProcessTicketExecutor
	listTicketsUC  usecases.ListTicketsExecutor
	logger         logger.Interface
}

func NewTicketHandler(
	createTicketUC usecases.CreateTicketExecutor,
	getTicketUC usecases.GetTicketExecutor,
	historyUC usecases.GetTicketHistoryExecutor,
	processUC usecases.ProcessTicketExecutor,
	listTicketsUC usecases.ListTicketsExecutor,
	logger logger.Interface,
) *TicketHandler {
	return &TicketHandler{
		createTicketUC: createTicketUC,
		getTicketUC:    getTicketUC,
		historyUC:      historyUC,
		processUC:      processUC,
		listTicketsUC:  listTicketsUC,
		logger:         logger,
	}
}

// CreateTicket handles POST /schemas/:id/tickets
// @Summary Start a ticket
// @Description Instantiate a ticket from a published schema
// @Tags tickets
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Schema ID"
// @Param ticket body CreateTicketRequest true "Ticket data"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Failure 429 {object} utils.APIResponse
// @Router /schemas/{id}/tickets [post]
func (h *TicketHandler) CreateTicket(c *gin.Context) {
	schemaSID, err := utils.ParseSIDParam(c, "id", id.PrefixSchema, "schema")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	actorID, err := utils.ActorID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create ticket", "error", err)
		utils.ErrorResponseWithError(c, utils.BindError(err))
		return
	}

	result, err := h.createTicketUC.Execute(c.Request.Context(), req.ToCommand(schemaSID, actorID))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Ticket created successfully")
}

// GetTicket handles GET /tickets/:id
// @Summary Get ticket by ID
// @Description Ticket detail with flows, status and the step waiting for an actor
// @Tags tickets
// @Produce json
// @Security Bearer
// @Param id path string true "Ticket ID"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /tickets/{id} [get]
func (h *TicketHandler) GetTicket(c *gin.Context) {
	ticketSID, actorID, ok := ticketAndActor(c)
	if !ok {
		return
	}

	result, err := h.getTicketUC.Execute(c.Request.Context(), usecases.GetTicketQuery{
		TicketSID: ticketSID,
		ActorID:   actorID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// GetTicketHistory handles GET /tickets/:id/history
// @Summary Ticket flow history
// @Tags tickets
// @Produce json
// @Security Bearer
// @Param id path string true "Ticket ID"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /tickets/{id}/history [get]
func (h *TicketHandler) GetTicketHistory(c *gin.Context) {
	ticketSID, actorID, ok := ticketAndActor(c)
	if !ok {
		return
	}

	events, err := h.historyUC.Execute(c.Request.Context(), usecases.GetTicketHistoryQuery{
		TicketSID: ticketSID,
		ActorID:   actorID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", events)
}

// ProcessTicket handles POST /tickets/:id/process
// @Summary Process the current flow
// @Description Submit form answers or a review decision for the step waiting on the caller
// @Tags tickets
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Ticket ID"
// @Param Idempotency-Key header string false "Replays return the first result"
// @Param submission body ProcessTicketRequest true "Form answers or review"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Failure 422 {object} utils.APIResponse
// @Failure 429 {object} utils.APIResponse
// @Router /tickets/{id}/process [post]
func (h *TicketHandler) ProcessTicket(c *gin.Context) {
	ticketSID, actorID, ok := ticketAndActor(c)
	if !ok {
		return
	}

	var req ProcessTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for process ticket", "ticket_id", ticketSID, "error", err)
		utils.ErrorResponseWithError(c, utils.BindError(err))
		return
	}

	key := c.GetHeader(constants.HeaderIdempotencyKey)
	result, err := h.processUC.Execute(c.Request.Context(), req.ToCommand(ticketSID, actorID, key))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", toProcessTicketResponse(result))
}

// ListTickets handles GET /tickets
// @Summary List my tickets
// @Description Tickets the caller started or takes part in
// @Tags tickets
// @Produce json
// @Security Bearer
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Param status query string false "Status filter" Enums(pending, in_progress, finished)
// @Success 200 {object} utils.APIResponse
// @Router /tickets [get]
func (h *TicketHandler) ListTickets(c *gin.Context) {
	h.list(c, "")
}

// ListSchemaTickets handles GET /schemas/:id/tickets
// @Summary List tickets of a schema
// @Tags tickets
// @Produce json
// @Security Bearer
// @Param id path string true "Schema ID"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Param status query string false "Status filter" Enums(pending, in_progress, finished)
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Router /schemas/{id}/tickets [get]
func (h *TicketHandler) ListSchemaTickets(c *gin.Context) {
	schemaSID, err := utils.ParseSIDParam(c, "id", id.PrefixSchema, "schema")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	h.list(c, schemaSID)
}

func (h *TicketHandler) list(c *gin.Context, schemaSID string) {
	actorID, err := utils.ActorID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	p := utils.ParsePagination(c)
	result, err := h.listTicketsUC.Execute(c.Request.Context(), usecases.ListTicketsQuery{
		ActorID:   actorID,
		SchemaSID: schemaSID,
		Status:    c.Query("status"),
		Page:      p.Page,
		PageSize:  p.PageSize,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Tickets, result.Total, result.Page, result.PageSize)
}

func ticketAndActor(c *gin.Context) (string, string, bool) {
	ticketSID, err := utils.ParseSIDParam(c, "id", id.PrefixTicket, "ticket")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return "", "", false
	}
	actorID, err := utils.ActorID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return "", "", false
	}
	return ticketSID, actorID, true
}
