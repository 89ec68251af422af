package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/kasirone/kasir_pos_app/internal/core/ports/services"
	"github.com/kasirone/kasir_pos_app/internal/middleware"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// reportHandler serves spreadsheet exports.
type reportHandler struct {
	reportService portssvc.ReportSvcFacade
}

func newReportHandler(rs portssvc.ReportSvcFacade) *reportHandler {
	return &reportHandler{reportService: rs}
}

// registerReportRoutes registers routes related to report exports.
func registerReportRoutes(rg *gin.RouterGroup, reportService portssvc.ReportSvcFacade) {
	h := newReportHandler(reportService)

	reports := rg.Group("/reports")
	{
		reports.GET("/stock-card/:productID", h.exportStockCard)
		reports.GET("/drawer/:drawerID", h.exportDrawerReconciliation)
	}
}

// exportStockCard godoc
// @Summary Export a product's stock card
// @Description Downloads the complete movement history of a product as .xlsx
// @Tags reports
// @Produce  application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param   productID path string true "Product ID"
// @Success 200 {file} file
// @Failure 404 {object} map[string]string "Product not found"
// @Security BearerAuth
// @Router /reports/stock-card/{productID} [get]
func (h *reportHandler) exportStockCard(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	productID := c.Param("productID")

	data, err := h.reportService.BuildStockCardXLSX(c.Request.Context(), productID)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=stock-card-%s.xlsx", productID))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// exportDrawerReconciliation godoc
// @Summary Export a drawer reconciliation
// @Description Downloads one drawer shift with its entries and difference summary as .xlsx
// @Tags reports
// @Produce  application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param   drawerID path string true "Drawer ID"
// @Success 200 {file} file
// @Failure 404 {object} map[string]string "Drawer not found"
// @Security BearerAuth
// @Router /reports/drawer/{drawerID} [get]
func (h *reportHandler) exportDrawerReconciliation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	drawerID := c.Param("drawerID")

	data, err := h.reportService.BuildDrawerReconciliationXLSX(c.Request.Context(), drawerID)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=drawer-%s.xlsx", drawerID))
	c.Data(http.StatusOK, xlsxContentType, data)
}
