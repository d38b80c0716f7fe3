package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/sahelexpress/colis_backend/internal/core/ports/services"
	"github.com/sahelexpress/colis_backend/internal/dto"
	"github.com/sahelexpress/colis_backend/internal/middleware"
)

// paymentHandler handles HTTP requests related to payments.
type paymentHandler struct {
	paymentService portssvc.PaymentSvcFacade
}

// newPaymentHandler creates a new paymentHandler.
func newPaymentHandler(ps portssvc.PaymentSvcFacade) *paymentHandler {
	return &paymentHandler{
		paymentService: ps,
	}
}

// registerPaymentRoutes registers routes related to payments.
func registerPaymentRoutes(rg *gin.RouterGroup, paymentService portssvc.PaymentSvcFacade) {
	h := newPaymentHandler(paymentService)

	payments := rg.Group("/paiements")
	{
		payments.POST("", h.recordPayment)
		payments.POST("/:id/annuler", h.cancelPayment)
	}
}

// recordPayment godoc
// @Summary Record a payment against an invoice
// @Description Records the payment, settles the invoice when fully paid and appends the matching cash movement, all in one transaction
// @Tags paiements
// @Accept json
// @Produce json
// @Param payment body dto.RecordPaymentRequest true "Payment details"
// @Success 201 {object} dto.RecordPaymentResponse
// @Failure 400 {object} map[string]string "Invalid input or amount exceeds remaining balance"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 409 {object} map[string]string "Invoice cancelled or already settled"
// @Failure 500 {object} map[string]string "Failed to record payment"
// @Security BearerAuth
// @Router /paiements [post]
func (h *paymentHandler) recordPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("invoice_id", req.InvoiceID))
	logger.Info("Received request to record payment", slog.String("mode", string(req.Mode)), slog.String("amount", req.Amount.String()))

	payment, invoice, err := h.paymentService.RecordPayment(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to record payment")
		return
	}

	logger.Info("Payment recorded successfully", slog.String("payment_id", payment.PaymentID), slog.String("invoice_status", invoice.Status.String()))
	c.JSON(http.StatusCreated, dto.RecordPaymentResponse{
		Payment: dto.ToPaymentResponse(payment),
		Invoice: dto.ToInvoiceResponse(invoice),
	})
}

// cancelPayment godoc
// @Summary Cancel a payment
// @Description Cancels a validated payment, restores the invoice's paid amount and appends the offsetting cash movement
// @Tags paiements
// @Produce json
// @Param id path string true "Payment ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Payment not found"
// @Failure 409 {object} map[string]string "Payment already cancelled"
// @Failure 500 {object} map[string]string "Failed to cancel payment"
// @Security BearerAuth
// @Router /paiements/{id}/annuler [post]
func (h *paymentHandler) cancelPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	paymentID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("payment_id", paymentID))
	logger.Info("Received request to cancel payment")

	invoice, err := h.paymentService.CancelPayment(c.Request.Context(), paymentID, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to cancel payment")
		return
	}

	logger.Info("Payment cancelled", slog.String("invoice_id", invoice.InvoiceID))
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}
