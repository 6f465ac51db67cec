package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/orris-inc/ticketflow/internal/application/blob/dto"
	"github.com/orris-inc/ticketflow/internal/application/blob/usecases"
	"github.com/orris-inc/ticketflow/internal/shared/logger"
	"github.com/orris-inc/ticketflow/internal/shared/utils"
)

// BlobHandler records metadata for uploaded images and files so form
// answers can reference them by id.
type BlobHandler struct {
	registerUC usecases.RegisterBlobExecutor
	logger     logger.Interface
}

func NewBlobHandler(registerUC usecases.RegisterBlobExecutor, log logger.Interface) *BlobHandler {
	return &BlobHandler{registerUC: registerUC, logger: log}
}

// RegisterBlob handles POST /blobs
// @Summary Register blob metadata
// @Tags blobs
// @Accept json
// @Produce json
// @Security Bearer
// @Param blob body dto.RegisterBlobRequest true "Blob metadata"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /blobs [post]
func (h *BlobHandler) RegisterBlob(c *gin.Context) {
	actorID, err := utils.ActorID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.RegisterBlobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for register blob", "error", err)
		utils.ErrorResponseWithError(c, utils.BindError(err))
		return
	}

	result, err := h.registerUC.Execute(c.Request.Context(), usecases.RegisterBlobCommand{
		Request:    req,
		UploaderID: actorID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Blob registered")
}
