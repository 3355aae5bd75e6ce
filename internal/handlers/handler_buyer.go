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

// buyerHandler handles HTTP requests related to the buyer pipeline.
type buyerHandler struct {
	buyerService portssvc.BuyerSvcFacade
}

func newBuyerHandler(bs portssvc.BuyerSvcFacade) *buyerHandler {
	return &buyerHandler{buyerService: bs}
}

// registerBuyerRoutes registers routes related to buyers.
func registerBuyerRoutes(rg *gin.RouterGroup, buyerService portssvc.BuyerSvcFacade) {
	h := newBuyerHandler(buyerService)

	buyers := rg.Group("/buyers")
	{
		buyers.POST("", h.createBuyer)
		buyers.GET("/:id", h.getBuyer)
		buyers.GET("", h.listBuyers)
		buyers.PUT("/:id", h.updateBuyer)
		buyers.POST("/:id/status", h.setBuyerStatus)
		buyers.GET("/:id/history", h.listStatusHistory)
	}
}

// createBuyer godoc
// @Summary Register a new buyer
// @Description Registers a buyer at the start of the qualification pipeline
// @Tags buyers
// @Accept  json
// @Produce  json
// @Param   buyer body dto.CreateBuyerRequest true "Buyer details"
// @Success 201 {object} dto.BuyerResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Buyer with national ID already exists"
// @Failure 500 {object} map[string]string "Failed to register buyer"
// @Security BearerAuth
// @Router /buyers [post]
func (h *buyerHandler) createBuyer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateBuyerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateBuyer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	buyer, err := h.buyerService.CreateBuyer(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating buyer", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Duplicate buyer national ID", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create buyer in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register buyer"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToBuyerResponse(buyer))
}

// getBuyer godoc
// @Summary Get a buyer by ID
// @Description Retrieves details for a specific buyer
// @Tags buyers
// @Produce  json
// @Param   id path string true "Buyer ID"
// @Success 200 {object} dto.BuyerResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Buyer not found"
// @Failure 500 {object} map[string]string "Failed to retrieve buyer"
// @Security BearerAuth
// @Router /buyers/{id} [get]
func (h *buyerHandler) getBuyer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	buyerID := c.Param("id")

	buyer, err := h.buyerService.GetBuyerByID(c.Request.Context(), buyerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Buyer not found"})
		} else {
			logger.Error("Failed to get buyer from service", slog.String("error", err.Error()), slog.String("buyer_id", buyerID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve buyer"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToBuyerResponse(buyer))
}

// listBuyers godoc
// @Summary List buyers
// @Description Retrieves a paginated list of buyers, newest first
// @Tags buyers
// @Produce  json
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {object} dto.ListBuyersResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list buyers"
// @Security BearerAuth
// @Router /buyers [get]
func (h *buyerHandler) listBuyers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListBuyersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListBuyers", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	buyers, err := h.buyerService.ListBuyers(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		logger.Error("Failed to list buyers from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list buyers"})
		return
	}

	buyerResponses := make([]dto.BuyerResponse, len(buyers))
	for i, b := range buyers {
		buyerResponses[i] = dto.ToBuyerResponse(&b)
	}
	c.JSON(http.StatusOK, dto.ListBuyersResponse{Buyers: buyerResponses})
}

// updateBuyer godoc
// @Summary Update a buyer
// @Description Updates a buyer's editable fields; status changes go through the status endpoint
// @Tags buyers
// @Accept  json
// @Produce  json
// @Param   id path string true "Buyer ID"
// @Param   buyer body dto.UpdateBuyerRequest true "Fields to update"
// @Success 200 {object} dto.BuyerResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Buyer not found"
// @Failure 500 {object} map[string]string "Failed to update buyer"
// @Security BearerAuth
// @Router /buyers/{id} [put]
func (h *buyerHandler) updateBuyer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	buyerID := c.Param("id")

	var req dto.UpdateBuyerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateBuyer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	buyer, err := h.buyerService.UpdateBuyer(c.Request.Context(), buyerID, req, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Buyer not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error updating buyer", slog.String("error", err.Error()), slog.String("buyer_id", buyerID))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to update buyer in service", slog.String("error", err.Error()), slog.String("buyer_id", buyerID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update buyer"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToBuyerResponse(buyer))
}

// setBuyerStatus godoc
// @Summary Move a buyer to a new pipeline stage
// @Description Changes the buyer's status; a genuine change appends a history row, and moving into completed marks the linked loan purchased and opens a settlement-ledger entry for the loan's holder
// @Tags buyers
// @Accept  json
// @Produce  json
// @Param   id path string true "Buyer ID"
// @Param   status body dto.SetBuyerStatusRequest true "New status"
// @Success 200 {object} dto.BuyerResponse
// @Failure 400 {object} map[string]string "Invalid status, transition, or missing completion fields"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Buyer not found"
// @Failure 409 {object} map[string]string "Concurrent completion conflict"
// @Failure 500 {object} map[string]string "Failed to update buyer status"
// @Security BearerAuth
// @Router /buyers/{id}/status [post]
func (h *buyerHandler) setBuyerStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	buyerID := c.Param("id")

	var req dto.SetBuyerStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SetBuyerStatus", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	buyer, err := h.buyerService.SetBuyerStatus(c.Request.Context(), buyerID, req, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Buyer not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error setting buyer status", slog.String("error", err.Error()), slog.String("buyer_id", buyerID))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrConflict) {
			logger.Warn("Conflict setting buyer status", slog.String("error", err.Error()), slog.String("buyer_id", buyerID))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to set buyer status in service", slog.String("error", err.Error()), slog.String("buyer_id", buyerID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update buyer status"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToBuyerResponse(buyer))
}

// listStatusHistory godoc
// @Summary Get a buyer's status history
// @Description Retrieves the buyer's append-only status trail, newest first
// @Tags buyers
// @Produce  json
// @Param   id path string true "Buyer ID"
// @Success 200 {object} dto.ListStatusHistoryResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Buyer not found"
// @Failure 500 {object} map[string]string "Failed to list status history"
// @Security BearerAuth
// @Router /buyers/{id}/history [get]
func (h *buyerHandler) listStatusHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	buyerID := c.Param("id")

	history, err := h.buyerService.ListStatusHistory(c.Request.Context(), buyerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Buyer not found"})
		} else {
			logger.Error("Failed to list status history from service", slog.String("error", err.Error()), slog.String("buyer_id", buyerID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list status history"})
		}
		return
	}

	historyResponses := make([]dto.StatusHistoryResponse, len(history))
	for i, row := range history {
		historyResponses[i] = dto.ToStatusHistoryResponse(row)
	}
	c.JSON(http.StatusOK, dto.ListStatusHistoryResponse{History: historyResponses})
}
