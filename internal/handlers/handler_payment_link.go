package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/sahelexpress/colis_backend/internal/core/ports/services"
	"github.com/sahelexpress/colis_backend/internal/dto"
	"github.com/sahelexpress/colis_backend/internal/middleware"
)

// paymentLinkHandler handles HTTP requests related to mobile-money payment links.
type paymentLinkHandler struct {
	linkService portssvc.PaymentLinkSvcFacade
}

// newPaymentLinkHandler creates a new paymentLinkHandler.
func newPaymentLinkHandler(ls portssvc.PaymentLinkSvcFacade) *paymentLinkHandler {
	return &paymentLinkHandler{
		linkService: ls,
	}
}

// registerPaymentLinkRoutes registers the authenticated payment-link routes.
func registerPaymentLinkRoutes(rg *gin.RouterGroup, linkService portssvc.PaymentLinkSvcFacade) {
	h := newPaymentLinkHandler(linkService)

	links := rg.Group("/liens-paiement")
	{
		links.POST("", h.createLink)
		links.POST("/:token/annuler", h.cancelLink)
	}
}

// registerPublicLinkRoutes registers the unauthenticated routes used by
// customers and the mobile-money provider callback.
func registerPublicLinkRoutes(r *gin.Engine, linkService portssvc.PaymentLinkSvcFacade) {
	h := newPaymentLinkHandler(linkService)

	pay := r.Group("/pay")
	{
		pay.GET("/:token", h.getLink)
		pay.POST("/:token/confirmation", h.settleLink)
	}
}

// createLink godoc
// @Summary Issue a payment link for an invoice
// @Description Creates a tokenized, time-limited mobile-money payment link
// @Tags liens-paiement
// @Accept json
// @Produce json
// @Param link body dto.CreatePaymentLinkRequest true "Link details"
// @Success 201 {object} dto.PaymentLinkResponse
// @Failure 400 {object} map[string]string "Invalid input or amount exceeds remaining balance"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 409 {object} map[string]string "Invoice cancelled or already settled"
// @Failure 500 {object} map[string]string "Failed to create payment link"
// @Security BearerAuth
// @Router /liens-paiement [post]
func (h *paymentLinkHandler) createLink(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreatePaymentLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateLink", slog.String("error", err.Error()))
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
	logger.Info("Received request to create payment link", slog.String("amount", req.Amount.String()))

	link, err := h.linkService.CreateLink(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create payment link")
		return
	}

	logger.Info("Payment link created", slog.String("link_id", link.LinkID))
	c.JSON(http.StatusCreated, dto.ToPaymentLinkResponse(link))
}

// getLink godoc
// @Summary Get a payment link by token
// @Description Retrieves the link's status, amount and expiry for display to the payer
// @Tags liens-paiement
// @Produce json
// @Param token path string true "Link token"
// @Success 200 {object} dto.PaymentLinkResponse
// @Failure 404 {object} map[string]string "Link not found"
// @Failure 500 {object} map[string]string "Failed to retrieve payment link"
// @Router /pay/{token} [get]
func (h *paymentLinkHandler) getLink(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	token := c.Param("token")

	link, err := h.linkService.GetLink(c.Request.Context(), token)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve payment link")
		return
	}

	c.JSON(http.StatusOK, dto.ToPaymentLinkResponse(link))
}

// settleLink godoc
// @Summary Settle a payment link
// @Description Provider callback confirming payment; records the payment and marks the link paid. Safe to retry: duplicate confirmations are rejected
// @Tags liens-paiement
// @Accept json
// @Produce json
// @Param token path string true "Link token"
// @Param confirmation body dto.SettleLinkRequest true "Provider confirmation details"
// @Success 200 {object} dto.PaymentLinkResponse
// @Failure 404 {object} map[string]string "Link not found"
// @Failure 409 {object} map[string]string "Link expired or already processed"
// @Failure 500 {object} map[string]string "Failed to settle payment link"
// @Router /pay/{token}/confirmation [post]
func (h *paymentLinkHandler) settleLink(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	token := c.Param("token")

	var req dto.SettleLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SettleLink", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger.Info("Received provider confirmation for payment link")

	link, err := h.linkService.SettleLink(c.Request.Context(), token, req)
	if err != nil {
		respondError(c, logger, err, "Failed to settle payment link")
		return
	}

	logger.Info("Payment link settled", slog.String("link_id", link.LinkID))
	c.JSON(http.StatusOK, dto.ToPaymentLinkResponse(link))
}

// cancelLink godoc
// @Summary Cancel a pending payment link
// @Description Cancels a link that has not been paid yet
// @Tags liens-paiement
// @Produce json
// @Param token path string true "Link token"
// @Success 200 {object} dto.PaymentLinkResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Link not found"
// @Failure 409 {object} map[string]string "Link already processed"
// @Failure 500 {object} map[string]string "Failed to cancel payment link"
// @Security BearerAuth
// @Router /liens-paiement/{token}/annuler [post]
func (h *paymentLinkHandler) cancelLink(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	token := c.Param("token")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	link, err := h.linkService.CancelLink(c.Request.Context(), token, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to cancel payment link")
		return
	}

	logger.Info("Payment link cancelled", slog.String("link_id", link.LinkID))
	c.JSON(http.StatusOK, dto.ToPaymentLinkResponse(link))
}
