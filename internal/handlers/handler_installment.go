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

// installmentHandler handles HTTP requests related to the installment book.
type installmentHandler struct {
	installmentService portssvc.InstallmentSvcFacade
}

func newInstallmentHandler(is portssvc.InstallmentSvcFacade) *installmentHandler {
	return &installmentHandler{installmentService: is}
}

// registerInstallmentRoutes registers the installment book routes. Creation and
// listing hang off the owning creditor; edits address the installment directly.
func registerInstallmentRoutes(rg *gin.RouterGroup, installmentService portssvc.InstallmentSvcFacade) {
	h := newInstallmentHandler(installmentService)

	creditors := rg.Group("/creditors")
	{
		creditors.POST("/:id/installments", h.addInstallment)
		creditors.GET("/:id/installments", h.listInstallments)
	}
	installments := rg.Group("/installments")
	{
		installments.PUT("/:id", h.updateInstallment)
		installments.DELETE("/:id", h.deleteInstallment)
	}
}

// addInstallment godoc
// @Summary Record an installment against a creditor
// @Description Adds an installment to the creditor's book; the installment number is assigned server-side and the creditor's settlement aggregate is recomputed
// @Tags installments
// @Accept  json
// @Produce  json
// @Param   id path string true "Creditor ID"
// @Param   installment body dto.AddInstallmentRequest true "Installment details"
// @Success 201 {object} dto.InstallmentResponse
// @Failure 400 {object} map[string]string "Invalid input or cash-mode creditor"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Creditor not found"
// @Failure 409 {object} map[string]string "Concurrent numbering conflict"
// @Failure 500 {object} map[string]string "Failed to add installment"
// @Security BearerAuth
// @Router /creditors/{id}/installments [post]
func (h *installmentHandler) addInstallment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	creditorID := c.Param("id")

	var req dto.AddInstallmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddInstallment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	installment, err := h.installmentService.AddInstallment(c.Request.Context(), creditorID, req, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Creditor not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error adding installment", slog.String("error", err.Error()), slog.String("creditor_id", creditorID))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrConflict) {
			logger.Warn("Conflict adding installment", slog.String("error", err.Error()), slog.String("creditor_id", creditorID))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to add installment in service", slog.String("error", err.Error()), slog.String("creditor_id", creditorID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add installment"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToInstallmentResponse(installment))
}

// listInstallments godoc
// @Summary List a creditor's installments
// @Description Retrieves the creditor's installment book ordered by installment number
// @Tags installments
// @Produce  json
// @Param   id path string true "Creditor ID"
// @Success 200 {object} dto.ListInstallmentsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Creditor not found"
// @Failure 500 {object} map[string]string "Failed to list installments"
// @Security BearerAuth
// @Router /creditors/{id}/installments [get]
func (h *installmentHandler) listInstallments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	creditorID := c.Param("id")

	installments, err := h.installmentService.ListInstallments(c.Request.Context(), creditorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Creditor not found"})
		} else {
			logger.Error("Failed to list installments from service", slog.String("error", err.Error()), slog.String("creditor_id", creditorID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list installments"})
		}
		return
	}

	installmentResponses := make([]dto.InstallmentResponse, len(installments))
	for i, inst := range installments {
		installmentResponses[i] = dto.ToInstallmentResponse(&inst)
	}
	c.JSON(http.StatusOK, dto.ListInstallmentsResponse{Installments: installmentResponses})
}

// updateInstallment godoc
// @Summary Update an installment
// @Description Updates an installment's payment fields; the installment number is immutable and the creditor's aggregate is recomputed
// @Tags installments
// @Accept  json
// @Produce  json
// @Param   id path string true "Installment ID"
// @Param   installment body dto.UpdateInstallmentRequest true "Fields to update"
// @Success 200 {object} dto.InstallmentResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Installment not found"
// @Failure 500 {object} map[string]string "Failed to update installment"
// @Security BearerAuth
// @Router /installments/{id} [put]
func (h *installmentHandler) updateInstallment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	installmentID := c.Param("id")

	var req dto.UpdateInstallmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateInstallment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	installment, err := h.installmentService.UpdateInstallment(c.Request.Context(), installmentID, req, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Installment not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error updating installment", slog.String("error", err.Error()), slog.String("installment_id", installmentID))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to update installment in service", slog.String("error", err.Error()), slog.String("installment_id", installmentID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update installment"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToInstallmentResponse(installment))
}

// deleteInstallment godoc
// @Summary Delete an installment
// @Description Removes an installment; later installments keep their numbers and the creditor's aggregate is recomputed
// @Tags installments
// @Produce  json
// @Param   id path string true "Installment ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Installment not found"
// @Failure 500 {object} map[string]string "Failed to delete installment"
// @Security BearerAuth
// @Router /installments/{id} [delete]
func (h *installmentHandler) deleteInstallment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	installmentID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.installmentService.DeleteInstallment(c.Request.Context(), installmentID, userID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Installment not found"})
		} else {
			logger.Error("Failed to delete installment in service", slog.String("error", err.Error()), slog.String("installment_id", installmentID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete installment"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
