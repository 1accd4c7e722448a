package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/EgehanKilicarslan/tripsync/internal/database/service"
	"github.com/EgehanKilicarslan/tripsync/internal/metrics"
)

// PaymentHandler handles the simulated checkout
type PaymentHandler struct {
	service service.PaymentService
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(service service.PaymentService, m *metrics.Metrics, logger *slog.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		metrics: m,
		logger:  logger,
	}
}

type CheckoutRequest struct {
	ListingID  string `json:"listingId" binding:"required,uuid"`
	Nights     int    `json:"nights" binding:"omitempty,min=1"`
	CardNumber string `json:"cardNumber" binding:"required,card_number"`
	CardHolder string `json:"cardHolder" binding:"required"`
	Expiry     string `json:"expiry" binding:"required,card_expiry"`
	CVV        string `json:"cvv" binding:"required,len=3,numeric"`
	Address    string `json:"address" binding:"required"`
	City       string `json:"city" binding:"required"`
	PostalCode string `json:"postalCode" binding:"required"`
	Country    string `json:"country"`
}

// Checkout handles POST /api/payments
func (h *PaymentHandler) Checkout(c *gin.Context) {
	userID, ok := currentUserID(c, h.logger)
	if !ok {
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("⚠️ [PaymentHandler] Invalid checkout request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": validationMessage(err)})
		return
	}

	payment, err := h.service.Checkout(c.Request.Context(), userID, service.CheckoutInput{
		ListingID:  uuid.MustParse(req.ListingID),
		Nights:     req.Nights,
		CardNumber: req.CardNumber,
		CardHolder: req.CardHolder,
		Expiry:     req.Expiry,
		CVV:        req.CVV,
		Address:    req.Address,
		City:       req.City,
		PostalCode: req.PostalCode,
		Country:    req.Country,
	})
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	h.metrics.RecordPayment()

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"payment": payment,
	})
}

// List handles GET /api/payments
func (h *PaymentHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c, h.logger)
	if !ok {
		return
	}

	payments, err := h.service.ListPayments(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payments": payments})
}
