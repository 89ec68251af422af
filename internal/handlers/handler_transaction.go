package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/kasirone/kasir_pos_app/internal/core/ports/services"
	"github.com/kasirone/kasir_pos_app/internal/dto"
	"github.com/kasirone/kasir_pos_app/internal/middleware"
)

// transactionHandler handles HTTP requests for the sale state machine.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
	returnService      portssvc.ReturnSvcFacade
}

func newTransactionHandler(ts portssvc.TransactionSvcFacade, rs portssvc.ReturnSvcFacade) *transactionHandler {
	return &transactionHandler{
		transactionService: ts,
		returnService:      rs,
	}
}

// registerTransactionRoutes registers routes related to transactions and
// their returns.
func registerTransactionRoutes(rg *gin.RouterGroup, transactionService portssvc.TransactionSvcFacade, returnService portssvc.ReturnSvcFacade) {
	h := newTransactionHandler(transactionService, returnService)

	transactions := rg.Group("/transactions")
	{
		transactions.POST("", h.createDraft)
		transactions.GET("", h.listTransactions)
		transactions.GET("/:id", h.getTransaction)
		transactions.PUT("/:id/items", h.upsertItem)
		transactions.POST("/:id/complete", h.completeTransaction)
		transactions.POST("/:id/lock", h.lockTransaction)
		transactions.DELETE("/:id", h.deleteTransaction)
		transactions.POST("/:id/returns", h.createReturn)
		transactions.GET("/:id/returns", h.listReturns)
	}
}

// createDraft godoc
// @Summary Create a draft transaction
// @Description Opens an empty DRAFT sale for the authenticated cashier
// @Tags transactions
// @Produce  json
// @Success 201 {object} dto.TransactionResponse
// @Security BearerAuth
// @Router /transactions [post]
func (h *transactionHandler) createDraft(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	cashierID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	txn, err := h.transactionService.CreateDraft(c.Request.Context(), cashierID)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// upsertItem godoc
// @Summary Add or update a draft line
// @Description Adds or replaces one line of a DRAFT transaction; quantity zero removes it
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Param   item body dto.UpsertItemRequest true "Line details"
// @Success 200 {object} dto.TransactionResponse
// @Failure 409 {object} map[string]string "Transaction is not a draft"
// @Failure 422 {object} map[string]string "Insufficient stock"
// @Security BearerAuth
// @Router /transactions/{id}/items [put]
func (h *transactionHandler) upsertItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpsertItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpsertItem", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	txn, err := h.transactionService.UpsertItem(c.Request.Context(), c.Param("id"), req, actorID)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// completeTransaction godoc
// @Summary Complete a draft transaction
// @Description Finalizes payment, appends stock ledger entries, and records the drawer inflow atomically
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Param   payment body dto.CompleteTransactionRequest true "Payment details"
// @Success 200 {object} dto.TransactionResponse
// @Failure 409 {object} map[string]string "Transaction is not a draft"
// @Failure 422 {object} map[string]string "Insufficient stock, payment, or no open drawer"
// @Security BearerAuth
// @Router /transactions/{id}/complete [post]
func (h *transactionHandler) completeTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CompleteTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CompleteTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	txn, err := h.transactionService.Complete(c.Request.Context(), c.Param("id"), req, actorID)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}

	logger.Info("Transaction completed", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// lockTransaction godoc
// @Summary Lock a transaction
// @Description Transitions DRAFT or COMPLETED to LOCKED; idempotent when already locked
// @Tags transactions
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Success 204 "Locked"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Security BearerAuth
// @Router /transactions/{id}/lock [post]
func (h *transactionHandler) lockTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.transactionService.Lock(c.Request.Context(), c.Param("id"), actorID); err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// deleteTransaction godoc
// @Summary Delete a transaction
// @Description Removes a transaction; completed sales get compensating stock entries first
// @Tags transactions
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Security BearerAuth
// @Router /transactions/{id} [delete]
func (h *transactionHandler) deleteTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.transactionService.Delete(c.Request.Context(), c.Param("id"), actorID); err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// getTransaction godoc
// @Summary Get a transaction by ID
// @Tags transactions
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} map[string]string "Transaction not found"
// @Security BearerAuth
// @Router /transactions/{id} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	txn, err := h.transactionService.GetTransaction(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// listTransactions godoc
// @Summary List transactions
// @Description Cursor-paginated transaction history, newest first
// @Tags transactions
// @Produce  json
// @Param   cashierID query string false "Filter by cashier"
// @Param   status query string false "Filter by status (DRAFT, COMPLETED, LOCKED)"
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Cursor from previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Security BearerAuth
// @Router /transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.transactionService.ListTransactions(c.Request.Context(), params)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// createReturn godoc
// @Summary Return items from a completed transaction
// @Description Writes compensating stock entries and the refund's drawer outflow atomically
// @Tags returns
// @Accept  json
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Param   return body dto.CreateReturnRequest true "Return lines"
// @Success 201 {object} dto.ReturnResponse
// @Failure 409 {object} map[string]string "Transaction is not completed"
// @Failure 422 {object} map[string]string "Over-return or no open drawer"
// @Security BearerAuth
// @Router /transactions/{id}/returns [post]
func (h *transactionHandler) createReturn(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateReturn", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	ret, err := h.returnService.CreateReturn(c.Request.Context(), c.Param("id"), req, actorID)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}

	logger.Info("Return created", slog.String("return_id", ret.ReturnID))
	c.JSON(http.StatusCreated, dto.ToReturnResponse(ret))
}

// listReturns godoc
// @Summary List returns for a transaction
// @Tags returns
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Success 200 {array} dto.ReturnResponse
// @Failure 404 {object} map[string]string "Transaction not found"
// @Security BearerAuth
// @Router /transactions/{id}/returns [get]
func (h *transactionHandler) listReturns(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	returns, err := h.returnService.ListReturnsByTransaction(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToReturnResponses(returns))
}
