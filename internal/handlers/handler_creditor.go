package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/phonix-app/loan_settlement_app/internal/apperrors"
	portssvc "github.com/phonix-app/loan_settlement_app/internal/core/ports/services"
	"github.com/phonix-app/loan_settlement_app/internal/dto"
	"github.com/phonix-app/loan_settlement_app/internal/middleware"
)

// creditorHandler handles HTTP requests related to the settlement ledger.
type creditorHandler struct {
	creditorService portssvc.CreditorSvcFacade
}

func newCreditorHandler(cs portssvc.CreditorSvcFacade) *creditorHandler {
	return &creditorHandler{creditorService: cs}
}

// registerCreditorRoutes registers routes related to settlement-ledger entries.
func registerCreditorRoutes(rg *gin.RouterGroup, creditorService portssvc.CreditorSvcFacade) {
	h := newCreditorHandler(creditorService)

	creditors := rg.Group("/creditors")
	{
		creditors.GET("", h.listCreditors)
		creditors.GET("/:id", h.getCreditor)
		creditors.PUT("/:id", h.updateCreditor)
		creditors.GET("/:id/summary", h.getSettlementSummary)
	}
}

// listCreditors godoc
// @Summary List settlement-ledger entries
// @Description Retrieves a paginated list of creditors, newest first
// @Tags creditors
// @Produce  json
// @Param   limit query int false "Limit number of results" default(20)
// @Param   nextToken query string false "Pagination token from a previous response"
// @Success 200 {object} dto.ListCreditorsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters or token"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list creditors"
// @Security BearerAuth
// @Router /creditors [get]
func (h *creditorHandler) listCreditors(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListCreditorsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListCreditors", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	creditors, nextToken, err := h.creditorService.ListCreditors(c.Request.Context(), params.Limit, params.NextToken)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Code == http.StatusBadRequest {
			c.JSON(http.StatusBadRequest, gin.H{"error": appErr.Message})
			return
		}
		logger.Error("Failed to list creditors from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list creditors"})
		return
	}

	creditorResponses := make([]dto.CreditorResponse, len(creditors))
	for i, cr := range creditors {
		creditorResponses[i] = dto.ToCreditorResponse(&cr)
	}
	c.JSON(http.StatusOK, dto.ListCreditorsResponse{Creditors: creditorResponses, NextToken: nextToken})
}

// getCreditor godoc
// @Summary Get a creditor by ID
// @Description Retrieves details for a specific settlement-ledger entry
// @Tags creditors
// @Produce  json
// @Param   id path string true "Creditor ID"
// @Success 200 {object} dto.CreditorResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Creditor not found"
// @Failure 500 {object} map[string]string "Failed to retrieve creditor"
// @Security BearerAuth
// @Router /creditors/{id} [get]
func (h *creditorHandler) getCreditor(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	creditorID := c.Param("id")

	creditor, err := h.creditorService.GetCreditorByID(c.Request.Context(), creditorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Creditor not found"})
		} else {
			logger.Error("Failed to get creditor from service", slog.String("error", err.Error()), slog.String("creditor_id", creditorID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve creditor"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToCreditorResponse(creditor))
}

// updateCreditor godoc
// @Summary Update a settlement-ledger entry
// @Description Updates a creditor; in cash mode the paid amount and settled flag drive the settlement rules, in installment mode those fields are derived from the installment book
// @Tags creditors
// @Accept  json
// @Produce  json
// @Param   id path string true "Creditor ID"
// @Param   creditor body dto.UpdateCreditorRequest true "Fields to update"
// @Success 200 {object} dto.CreditorResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Creditor not found"
// @Failure 500 {object} map[string]string "Failed to update creditor"
// @Security BearerAuth
// @Router /creditors/{id} [put]
func (h *creditorHandler) updateCreditor(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	creditorID := c.Param("id")

	var req dto.UpdateCreditorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateCreditor", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	creditor, err := h.creditorService.UpdateCreditor(c.Request.Context(), creditorID, req, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Creditor not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error updating creditor", slog.String("error", err.Error()), slog.String("creditor_id", creditorID))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to update creditor in service", slog.String("error", err.Error()), slog.String("creditor_id", creditorID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update creditor"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToCreditorResponse(creditor))
}

// getSettlementSummary godoc
// @Summary Get a creditor's settlement summary
// @Description Retrieves the read-only projection of a creditor's settlement position, including installment counts in installment mode
// @Tags creditors
// @Produce  json
// @Param   id path string true "Creditor ID"
// @Success 200 {object} dto.SettlementSummaryResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Creditor not found"
// @Failure 500 {object} map[string]string "Failed to build settlement summary"
// @Security BearerAuth
// @Router /creditors/{id}/summary [get]
func (h *creditorHandler) getSettlementSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	creditorID := c.Param("id")

	summary, err := h.creditorService.GetSettlementSummary(c.Request.Context(), creditorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Creditor not found"})
		} else {
			logger.Error("Failed to build settlement summary", slog.String("error", err.Error()), slog.String("creditor_id", creditorID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build settlement summary"})
		}
		return
	}

	c.JSON(http.StatusOK, summary)
}
