package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/kasirone/kasir_pos_app/internal/core/ports/services"
	"github.com/kasirone/kasir_pos_app/internal/dto"
	"github.com/kasirone/kasir_pos_app/internal/middleware"
)

// returnHandler handles direct return lookups. Creation and per-transaction
// listing live under /transactions.
type returnHandler struct {
	returnService portssvc.ReturnSvcFacade
}

func newReturnHandler(rs portssvc.ReturnSvcFacade) *returnHandler {
	return &returnHandler{returnService: rs}
}

// registerReturnRoutes registers routes related to returns.
func registerReturnRoutes(rg *gin.RouterGroup, returnService portssvc.ReturnSvcFacade) {
	h := newReturnHandler(returnService)

	returns := rg.Group("/returns")
	{
		returns.GET("/:id", h.getReturn)
	}
}

// getReturn godoc
// @Summary Get a return by ID
// @Tags returns
// @Produce  json
// @Param   id path string true "Return ID"
// @Success 200 {object} dto.ReturnResponse
// @Failure 404 {object} map[string]string "Return not found"
// @Security BearerAuth
// @Router /returns/{id} [get]
func (h *returnHandler) getReturn(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	ret, err := h.returnService.GetReturn(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToReturnResponse(ret))
}
