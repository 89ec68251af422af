package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/kasirone/kasir_pos_app/internal/core/ports/services"
	"github.com/kasirone/kasir_pos_app/internal/dto"
	"github.com/kasirone/kasir_pos_app/internal/middleware"
)

// stockHandler handles HTTP requests for the stock ledger.
type stockHandler struct {
	stockService portssvc.StockSvcFacade
}

func newStockHandler(ss portssvc.StockSvcFacade) *stockHandler {
	return &stockHandler{stockService: ss}
}

// registerStockRoutes registers routes related to the stock ledger.
func registerStockRoutes(rg *gin.RouterGroup, stockService portssvc.StockSvcFacade) {
	h := newStockHandler(stockService)

	stock := rg.Group("/stock")
	{
		stock.POST("/movements", h.recordMovement)
		stock.POST("/opname", h.recordOpname)
		stock.GET("/movements/:productID", h.listMovements)
	}
}

// recordMovement godoc
// @Summary Record a stock movement
// @Description Appends one entry to the stock ledger and updates the cached quantity atomically
// @Tags stock
// @Accept  json
// @Produce  json
// @Param   movement body dto.RecordMovementRequest true "Movement details"
// @Success 201 {object} dto.MovementResponse
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 422 {object} map[string]string "Movement would take stock negative"
// @Security BearerAuth
// @Router /stock/movements [post]
func (h *stockHandler) recordMovement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecordMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordMovement", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	movement, err := h.stockService.RecordMovement(c.Request.Context(), req, actorID)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToMovementResponse(movement))
}

// recordOpname godoc
// @Summary Reconcile a physical stock count
// @Description Computes the delta against the live quantity and appends an adjustment entry; a matching count records nothing
// @Tags stock
// @Accept  json
// @Produce  json
// @Param   opname body dto.OpnameRequest true "Count details"
// @Success 200 {object} dto.MovementResponse
// @Success 204 "Count matched the ledger, nothing recorded"
// @Failure 404 {object} map[string]string "Product not found"
// @Security BearerAuth
// @Router /stock/opname [post]
func (h *stockHandler) recordOpname(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.OpnameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordOpname", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	movement, err := h.stockService.RecordOpname(c.Request.Context(), req, actorID)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	if movement == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, dto.ToMovementResponse(movement))
}

// listMovements godoc
// @Summary List stock movements for a product
// @Description Cursor-paginated ledger slice, newest first, with optional type filters
// @Tags stock
// @Produce  json
// @Param   productID path string true "Product ID"
// @Param   movementType query string false "Filter by movement type"
// @Param   referenceType query string false "Filter by reference type"
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Cursor from previous page"
// @Success 200 {object} dto.ListMovementsResponse
// @Failure 404 {object} map[string]string "Product not found"
// @Security BearerAuth
// @Router /stock/movements/{productID} [get]
func (h *stockHandler) listMovements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListMovementsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.stockService.ListMovements(c.Request.Context(), c.Param("productID"), params)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
