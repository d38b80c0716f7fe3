package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/sahelexpress/colis_backend/internal/core/ports/services"
	"github.com/sahelexpress/colis_backend/internal/dto"
	"github.com/sahelexpress/colis_backend/internal/middleware"
)

// caisseHandler handles HTTP requests related to cash registers and movements.
type caisseHandler struct {
	caisseService portssvc.CaisseSvcFacade
}

// newCaisseHandler creates a new caisseHandler.
func newCaisseHandler(cs portssvc.CaisseSvcFacade) *caisseHandler {
	return &caisseHandler{
		caisseService: cs,
	}
}

// registerCaisseRoutes registers routes related to cash registers.
func registerCaisseRoutes(rg *gin.RouterGroup, caisseService portssvc.CaisseSvcFacade) {
	h := newCaisseHandler(caisseService)

	caisses := rg.Group("/caisses")
	{
		caisses.GET("", h.listRegisters)
		caisses.GET("/:id", h.getRegister)
		caisses.GET("/:id/solde", h.getBalance)
		caisses.GET("/:id/mouvements", h.listMovements)
		caisses.PATCH("/:id/active", h.setRegisterActive)
	}

	movements := rg.Group("/mouvements")
	{
		movements.POST("", h.recordMovement)
	}
}

// listRegisters godoc
// @Summary List cash registers
// @Description Retrieves every cash register
// @Tags caisses
// @Produce json
// @Success 200 {array} dto.RegisterResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list registers"
// @Security BearerAuth
// @Router /caisses [get]
func (h *caisseHandler) listRegisters(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	registers, err := h.caisseService.ListRegisters(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to list registers")
		return
	}

	responses := make([]dto.RegisterResponse, len(registers))
	for i := range registers {
		responses[i] = dto.ToRegisterResponse(&registers[i])
	}

	c.JSON(http.StatusOK, responses)
}

// getRegister godoc
// @Summary Get a cash register by ID
// @Description Retrieves details for a specific cash register
// @Tags caisses
// @Produce json
// @Param id path string true "Register ID"
// @Success 200 {object} dto.RegisterResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Register not found"
// @Failure 500 {object} map[string]string "Failed to retrieve register"
// @Security BearerAuth
// @Router /caisses/{id} [get]
func (h *caisseHandler) getRegister(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	registerID := c.Param("id")

	register, err := h.caisseService.GetRegister(c.Request.Context(), registerID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve register")
		return
	}

	c.JSON(http.StatusOK, dto.ToRegisterResponse(register))
}

// getBalance godoc
// @Summary Get a register's current balance
// @Description Derives the balance from the register's opening balance and full movement log
// @Tags caisses
// @Produce json
// @Param id path string true "Register ID"
// @Success 200 {object} dto.BalanceResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Register not found"
// @Failure 500 {object} map[string]string "Failed to compute balance"
// @Security BearerAuth
// @Router /caisses/{id}/solde [get]
func (h *caisseHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	registerID := c.Param("id")

	balance, err := h.caisseService.GetBalance(c.Request.Context(), registerID)
	if err != nil {
		respondError(c, logger, err, "Failed to compute balance")
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{RegisterID: registerID, Balance: balance})
}

// listMovements godoc
// @Summary List a register's movements
// @Description Retrieves a token-paginated page of the register's movement log, newest first
// @Tags caisses
// @Produce json
// @Param id path string true "Register ID"
// @Param limit query int false "Page size" default(50)
// @Param nextToken query string false "Pagination token from a previous page"
// @Success 200 {object} dto.ListMovementsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Register not found"
// @Failure 500 {object} map[string]string "Failed to list movements"
// @Security BearerAuth
// @Router /caisses/{id}/mouvements [get]
func (h *caisseHandler) listMovements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	registerID := c.Param("id")

	var params dto.ListMovementsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListMovements", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	page, err := h.caisseService.ListMovements(c.Request.Context(), registerID, params)
	if err != nil {
		respondError(c, logger, err, "Failed to list movements")
		return
	}

	c.JSON(http.StatusOK, page)
}

// setRegisterActive godoc
// @Summary Activate or deactivate a register
// @Description Toggles the register's active flag; inactive registers refuse new movements
// @Tags caisses
// @Accept json
// @Produce json
// @Param id path string true "Register ID"
// @Param body body dto.SetRegisterActiveRequest true "Target active state"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Register not found"
// @Failure 500 {object} map[string]string "Failed to update register"
// @Security BearerAuth
// @Router /caisses/{id}/active [patch]
func (h *caisseHandler) setRegisterActive(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	registerID := c.Param("id")

	var req dto.SetRegisterActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SetRegisterActive", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.caisseService.SetRegisterActive(c.Request.Context(), registerID, *req.IsActive, userID); err != nil {
		respondError(c, logger, err, "Failed to update register")
		return
	}

	logger.Info("Register active flag updated", slog.String("register_id", registerID), slog.Bool("is_active", *req.IsActive))
	c.Status(http.StatusNoContent)
}

// recordMovement godoc
// @Summary Record a cash movement
// @Description Validates and appends a movement to a register's log; the target register is given by ID or by agency
// @Tags caisses
// @Accept json
// @Produce json
// @Param movement body dto.CreateMovementRequest true "Movement details"
// @Success 201 {object} dto.MovementResponse
// @Failure 400 {object} map[string]string "Invalid input or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Register not found"
// @Failure 409 {object} map[string]string "Register inactive"
// @Failure 500 {object} map[string]string "Failed to record movement"
// @Security BearerAuth
// @Router /mouvements [post]
func (h *caisseHandler) recordMovement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordMovement", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger.Info("Received request to record movement", slog.String("kind", string(req.Kind)), slog.String("amount", req.Amount.String()))

	movement, err := h.caisseService.RecordMovement(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to record movement")
		return
	}

	logger.Info("Movement recorded successfully", slog.String("movement_id", movement.MovementID))
	c.JSON(http.StatusCreated, dto.ToMovementResponse(movement))
}
