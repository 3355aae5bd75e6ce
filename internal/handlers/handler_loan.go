package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/phonix-app/loan_settlement_app/internal/apperrors"
	"github.com/phonix-app/loan_settlement_app/internal/core/domain"
	portssvc "github.com/phonix-app/loan_settlement_app/internal/core/ports/services"
	"github.com/phonix-app/loan_settlement_app/internal/dto"
	"github.com/phonix-app/loan_settlement_app/internal/middleware"
)

// loanHandler handles HTTP requests related to loan offers.
type loanHandler struct {
	loanService portssvc.LoanSvcFacade
}

func newLoanHandler(ls portssvc.LoanSvcFacade) *loanHandler {
	return &loanHandler{loanService: ls}
}

// registerLoanRoutes registers routes related to loan offers.
func registerLoanRoutes(rg *gin.RouterGroup, loanService portssvc.LoanSvcFacade) {
	h := newLoanHandler(loanService)

	loans := rg.Group("/loans")
	{
		loans.POST("", h.createLoan)
		loans.GET("/:id", h.getLoan)
		loans.GET("", h.listLoans)
		loans.PUT("/:id/status", h.updateLoanStatus)
	}
}

// createLoan godoc
// @Summary Register a new loan offer
// @Description Registers a purchasable bank loan offer together with its original holder
// @Tags loans
// @Accept  json
// @Produce  json
// @Param   loan body dto.CreateLoanRequest true "Loan details"
// @Success 201 {object} dto.LoanResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to register loan"
// @Security BearerAuth
// @Router /loans [post]
func (h *loanHandler) createLoan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateLoan", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	loan, err := h.loanService.CreateLoan(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating loan", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create loan in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register loan"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToLoanResponse(loan))
}

// getLoan godoc
// @Summary Get a loan by ID
// @Description Retrieves details for a specific loan offer
// @Tags loans
// @Produce  json
// @Param   id path string true "Loan ID"
// @Success 200 {object} dto.LoanResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Loan not found"
// @Failure 500 {object} map[string]string "Failed to retrieve loan"
// @Security BearerAuth
// @Router /loans/{id} [get]
func (h *loanHandler) getLoan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	loanID := c.Param("id")

	loan, err := h.loanService.GetLoanByID(c.Request.Context(), loanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Loan not found"})
		} else {
			logger.Error("Failed to get loan from service", slog.String("error", err.Error()), slog.String("loan_id", loanID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve loan"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToLoanResponse(loan))
}

// listLoans godoc
// @Summary List loan offers
// @Description Retrieves a paginated list of loan offers, newest registrations first
// @Tags loans
// @Produce  json
// @Param   limit query int false "Limit number of results" default(20)
// @Param   nextToken query string false "Pagination token from a previous response"
// @Success 200 {object} dto.ListLoansResponse
// @Failure 400 {object} map[string]string "Invalid query parameters or token"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list loans"
// @Security BearerAuth
// @Router /loans [get]
func (h *loanHandler) listLoans(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListLoansParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListLoans", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	loans, nextToken, err := h.loanService.ListLoans(c.Request.Context(), params.Limit, params.NextToken)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Code == http.StatusBadRequest {
			c.JSON(http.StatusBadRequest, gin.H{"error": appErr.Message})
			return
		}
		logger.Error("Failed to list loans from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list loans"})
		return
	}

	loanResponses := make([]dto.LoanResponse, len(loans))
	for i, l := range loans {
		loanResponses[i] = dto.ToLoanResponse(&l)
	}
	c.JSON(http.StatusOK, dto.ListLoansResponse{Loans: loanResponses, NextToken: nextToken})
}

// updateLoanStatus godoc
// @Summary Update a loan's market status
// @Description Moves a loan between available and unsuccessful; purchased is reserved for the buyer completion flow
// @Tags loans
// @Accept  json
// @Produce  json
// @Param   id path string true "Loan ID"
// @Param   status body dto.UpdateLoanStatusRequest true "New status"
// @Success 200 {object} dto.LoanResponse
// @Failure 400 {object} map[string]string "Invalid input or transition"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Loan not found"
// @Failure 500 {object} map[string]string "Failed to update loan status"
// @Security BearerAuth
// @Router /loans/{id}/status [put]
func (h *loanHandler) updateLoanStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	loanID := c.Param("id")

	var req dto.UpdateLoanStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateLoanStatus", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	loan, err := h.loanService.UpdateLoanStatus(c.Request.Context(), loanID, domain.LoanStatus(req.Status), userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Loan not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error updating loan status", slog.String("error", err.Error()), slog.String("loan_id", loanID))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to update loan status in service", slog.String("error", err.Error()), slog.String("loan_id", loanID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update loan status"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToLoanResponse(loan))
}
