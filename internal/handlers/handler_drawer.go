package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/kasirone/kasir_pos_app/internal/core/ports/services"
	"github.com/kasirone/kasir_pos_app/internal/dto"
	"github.com/kasirone/kasir_pos_app/internal/middleware"
)

// drawerHandler handles HTTP requests for cash drawer shifts.
type drawerHandler struct {
	drawerService portssvc.DrawerSvcFacade
}

func newDrawerHandler(ds portssvc.DrawerSvcFacade) *drawerHandler {
	return &drawerHandler{drawerService: ds}
}

// registerDrawerRoutes registers routes related to cash drawers.
func registerDrawerRoutes(rg *gin.RouterGroup, drawerService portssvc.DrawerSvcFacade) {
	h := newDrawerHandler(drawerService)

	drawers := rg.Group("/drawers")
	{
		drawers.POST("", h.openDrawer)
		drawers.GET("", h.listDrawers)
		drawers.GET("/open", h.getOpenDrawer)
		drawers.GET("/:id", h.getDrawer)
		drawers.POST("/:id/cash-in", h.recordCashIn)
		drawers.POST("/:id/cash-out", h.recordCashOut)
		drawers.POST("/:id/close", h.closeDrawer)
		drawers.GET("/:id/entries", h.listEntries)
	}
}

// openDrawer godoc
// @Summary Open a cash drawer shift
// @Description Starts a shift for the authenticated cashier; one open drawer per cashier
// @Tags drawers
// @Accept  json
// @Produce  json
// @Param   drawer body dto.OpenDrawerRequest true "Opening balance"
// @Success 201 {object} dto.DrawerResponse
// @Failure 409 {object} map[string]string "Cashier already has an open drawer"
// @Security BearerAuth
// @Router /drawers [post]
func (h *drawerHandler) openDrawer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.OpenDrawerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for OpenDrawer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	cashierID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	drawer, err := h.drawerService.Open(c.Request.Context(), cashierID, req)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToDrawerResponse(drawer))
}

// getOpenDrawer godoc
// @Summary Get the authenticated cashier's open drawer
// @Tags drawers
// @Produce  json
// @Success 200 {object} dto.DrawerResponse
// @Failure 422 {object} map[string]string "Cashier has no open drawer"
// @Security BearerAuth
// @Router /drawers/open [get]
func (h *drawerHandler) getOpenDrawer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	cashierID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	drawer, err := h.drawerService.GetOpenDrawer(c.Request.Context(), cashierID)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToDrawerResponse(drawer))
}

// getDrawer godoc
// @Summary Get a drawer by ID
// @Tags drawers
// @Produce  json
// @Param   id path string true "Drawer ID"
// @Success 200 {object} dto.DrawerResponse
// @Failure 404 {object} map[string]string "Drawer not found"
// @Security BearerAuth
// @Router /drawers/{id} [get]
func (h *drawerHandler) getDrawer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	drawer, err := h.drawerService.GetDrawer(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToDrawerResponse(drawer))
}

// recordCashIn godoc
// @Summary Record a manual cash inflow
// @Tags drawers
// @Accept  json
// @Produce  json
// @Param   id path string true "Drawer ID"
// @Param   entry body dto.CashEntryRequest true "Amount and notes"
// @Success 200 {object} dto.DrawerResponse
// @Failure 409 {object} map[string]string "Drawer is closed"
// @Security BearerAuth
// @Router /drawers/{id}/cash-in [post]
func (h *drawerHandler) recordCashIn(c *gin.Context) {
	h.recordEntry(c, true)
}

// recordCashOut godoc
// @Summary Record a manual cash outflow
// @Tags drawers
// @Accept  json
// @Produce  json
// @Param   id path string true "Drawer ID"
// @Param   entry body dto.CashEntryRequest true "Amount and notes"
// @Success 200 {object} dto.DrawerResponse
// @Failure 409 {object} map[string]string "Drawer is closed"
// @Security BearerAuth
// @Router /drawers/{id}/cash-out [post]
func (h *drawerHandler) recordCashOut(c *gin.Context) {
	h.recordEntry(c, false)
}

func (h *drawerHandler) recordEntry(c *gin.Context, cashIn bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CashEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for drawer entry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	record := h.drawerService.RecordCashOut
	if cashIn {
		record = h.drawerService.RecordCashIn
	}

	drawer, err := record(c.Request.Context(), c.Param("id"), req, actorID)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToDrawerResponse(drawer))
}

// closeDrawer godoc
// @Summary Close a cash drawer shift
// @Description Records the counted amount; the difference against the expected balance is kept as data
// @Tags drawers
// @Accept  json
// @Produce  json
// @Param   id path string true "Drawer ID"
// @Param   close body dto.CloseDrawerRequest true "Counted amount and notes"
// @Success 200 {object} dto.DrawerResponse
// @Failure 409 {object} map[string]string "Drawer is already closed"
// @Security BearerAuth
// @Router /drawers/{id}/close [post]
func (h *drawerHandler) closeDrawer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CloseDrawerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CloseDrawer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	drawer, err := h.drawerService.Close(c.Request.Context(), c.Param("id"), req, actorID)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}

	logger.Info("Drawer closed", slog.String("drawer_id", drawer.DrawerID))
	c.JSON(http.StatusOK, dto.ToDrawerResponse(drawer))
}

// listEntries godoc
// @Summary List a drawer's cash ledger entries
// @Tags drawers
// @Produce  json
// @Param   id path string true "Drawer ID"
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Cursor from previous page"
// @Success 200 {object} dto.ListDrawerEntriesResponse
// @Failure 404 {object} map[string]string "Drawer not found"
// @Security BearerAuth
// @Router /drawers/{id}/entries [get]
func (h *drawerHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	var nextToken *string
	if token := c.Query("nextToken"); token != "" {
		nextToken = &token
	}

	resp, err := h.drawerService.ListEntries(c.Request.Context(), c.Param("id"), limit, nextToken)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// listDrawers godoc
// @Summary List drawer history
// @Tags drawers
// @Produce  json
// @Param   cashierID query string false "Filter by cashier"
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Cursor from previous page"
// @Success 200 {object} dto.ListDrawersResponse
// @Security BearerAuth
// @Router /drawers [get]
func (h *drawerHandler) listDrawers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListDrawersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.drawerService.ListDrawers(c.Request.Context(), params)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
