package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/sahelexpress/colis_backend/internal/core/ports/services"
	"github.com/sahelexpress/colis_backend/internal/dto"
	"github.com/sahelexpress/colis_backend/internal/middleware"
)

// invoiceHandler handles HTTP requests related to invoices.
type invoiceHandler struct {
	invoiceService portssvc.InvoiceSvcFacade
	paymentService portssvc.PaymentSvcFacade
	linkService    portssvc.PaymentLinkSvcFacade
}

// newInvoiceHandler creates a new invoiceHandler.
func newInvoiceHandler(is portssvc.InvoiceSvcFacade, ps portssvc.PaymentSvcFacade, ls portssvc.PaymentLinkSvcFacade) *invoiceHandler {
	return &invoiceHandler{
		invoiceService: is,
		paymentService: ps,
		linkService:    ls,
	}
}

// registerInvoiceRoutes registers routes related to invoices.
func registerInvoiceRoutes(rg *gin.RouterGroup, invoiceService portssvc.InvoiceSvcFacade, paymentService portssvc.PaymentSvcFacade, linkService portssvc.PaymentLinkSvcFacade) {
	h := newInvoiceHandler(invoiceService, paymentService, linkService)

	invoices := rg.Group("/factures")
	{
		invoices.POST("", h.createProforma)
		invoices.GET("", h.listInvoices)
		invoices.GET("/:id", h.getInvoice)
		invoices.POST("/:id/valider", h.validateInvoice)
		invoices.POST("/:id/annuler", h.cancelInvoice)
		invoices.GET("/:id/paiements", h.listInvoicePayments)
		invoices.GET("/:id/liens", h.listInvoiceLinks)
	}
}

// createProforma godoc
// @Summary Invoice a parcel
// @Description Computes the billable total of a parcel and creates a proforma invoice with the next monthly reference
// @Tags factures
// @Accept json
// @Produce json
// @Param invoice body dto.CreateProformaRequest true "Parcel to invoice"
// @Success 201 {object} dto.InvoiceResponse
// @Failure 400 {object} map[string]string "Invalid input or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Parcel not found"
// @Failure 409 {object} map[string]string "Parcel already invoiced"
// @Failure 500 {object} map[string]string "Failed to create invoice"
// @Security BearerAuth
// @Router /factures [post]
func (h *invoiceHandler) createProforma(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateProformaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateProforma", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("parcel_id", req.ParcelID))
	logger.Info("Received request to invoice parcel")

	invoice, err := h.invoiceService.CreateProforma(c.Request.Context(), req.ParcelID, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create invoice")
		return
	}

	logger.Info("Invoice created successfully", slog.String("invoice_id", invoice.InvoiceID), slog.String("reference", invoice.Reference))
	c.JSON(http.StatusCreated, dto.ToInvoiceResponse(invoice))
}

// listInvoices godoc
// @Summary List invoices
// @Description Retrieves a token-paginated list of invoices, newest first
// @Tags factures
// @Produce json
// @Param limit query int false "Page size" default(50)
// @Param nextToken query string false "Pagination token from a previous page"
// @Success 200 {object} dto.ListInvoicesResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list invoices"
// @Security BearerAuth
// @Router /factures [get]
func (h *invoiceHandler) listInvoices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListInvoicesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListInvoices", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	page, err := h.invoiceService.ListInvoices(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list invoices")
		return
	}

	c.JSON(http.StatusOK, page)
}

// getInvoice godoc
// @Summary Get an invoice by ID
// @Description Retrieves details for a specific invoice
// @Tags factures
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 500 {object} map[string]string "Failed to retrieve invoice"
// @Security BearerAuth
// @Router /factures/{id} [get]
func (h *invoiceHandler) getInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("id")

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), invoiceID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve invoice")
		return
	}

	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// validateInvoice godoc
// @Summary Validate a proforma invoice
// @Description Explicitly transitions a proforma invoice to definitive
// @Tags factures
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 409 {object} map[string]string "Invalid status transition"
// @Failure 500 {object} map[string]string "Failed to validate invoice"
// @Security BearerAuth
// @Router /factures/{id}/valider [post]
func (h *invoiceHandler) validateInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	invoice, err := h.invoiceService.ValidateInvoice(c.Request.Context(), invoiceID, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to validate invoice")
		return
	}

	logger.Info("Invoice validated successfully", slog.String("invoice_id", invoiceID))
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// cancelInvoice godoc
// @Summary Cancel an invoice
// @Description Transitions an invoice to the cancelled state; this is terminal
// @Tags factures
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 409 {object} map[string]string "Invalid status transition"
// @Failure 500 {object} map[string]string "Failed to cancel invoice"
// @Security BearerAuth
// @Router /factures/{id}/annuler [post]
func (h *invoiceHandler) cancelInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	invoice, err := h.invoiceService.CancelInvoice(c.Request.Context(), invoiceID, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to cancel invoice")
		return
	}

	logger.Info("Invoice cancelled", slog.String("invoice_id", invoiceID))
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// listInvoicePayments godoc
// @Summary List payments for an invoice
// @Description Retrieves every payment recorded against an invoice, cancelled ones included
// @Tags factures
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {array} dto.PaymentResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 500 {object} map[string]string "Failed to list payments"
// @Security BearerAuth
// @Router /factures/{id}/paiements [get]
func (h *invoiceHandler) listInvoicePayments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("id")

	payments, err := h.paymentService.ListPaymentsByInvoice(c.Request.Context(), invoiceID)
	if err != nil {
		respondError(c, logger, err, "Failed to list payments")
		return
	}

	c.JSON(http.StatusOK, dto.ToPaymentResponses(payments))
}

// listInvoiceLinks godoc
// @Summary List payment links for an invoice
// @Description Retrieves every mobile-money payment link issued for an invoice
// @Tags factures
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {array} dto.PaymentLinkResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list payment links"
// @Security BearerAuth
// @Router /factures/{id}/liens [get]
func (h *invoiceHandler) listInvoiceLinks(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("id")

	links, err := h.linkService.ListLinksForInvoice(c.Request.Context(), invoiceID)
	if err != nil {
		respondError(c, logger, err, "Failed to list payment links")
		return
	}

	c.JSON(http.StatusOK, dto.ToPaymentLinkResponses(links))
}
