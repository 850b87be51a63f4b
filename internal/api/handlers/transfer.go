package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"corebank/internal/api/middleware"
	"corebank/internal/domain/bankerrors"
	"corebank/internal/domain/money"
)

type transferRequest struct {
	SourceAccountNumber      string `json:"source_account_number" binding:"required"`
	DestinationAccountNumber string `json:"destination_account_number" binding:"required"`
	Amount                   string `json:"amount" binding:"required"`
	Description              string `json:"description"`
	OperationKey             string `json:"operation_key" binding:"required"`
}

// MakeTransferHandler returns the POST /transfers handler (spec §6). Source
// and destination are supplied as account numbers; the handler resolves
// them to internal IDs before calling the engine.
func MakeTransferHandler(container *Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}

		var req transferRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		amount, err := money.FromString(req.Amount)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
			return
		}

		ctx := c.Request.Context()
		source, err := container.Engine.AccountByNumber(ctx, req.SourceAccountNumber)
		if err != nil {
			writeEngineError(c, bankerrors.AccountNotFound())
			return
		}
		destination, err := container.Engine.AccountByNumber(ctx, req.DestinationAccountNumber)
		if err != nil {
			writeEngineError(c, bankerrors.AccountNotFound())
			return
		}

		result, engErr := container.Engine.Transfer(ctx, userID, source.ID, destination.ID, amount, req.OperationKey, req.Description)
		if engErr != nil {
			writeEngineError(c, engErr)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}
