package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"corebank/internal/api/middleware"
	"corebank/internal/domain/money"
)

type withdrawRequest struct {
	AccountID    string `json:"account_id" binding:"required"`
	Amount       string `json:"amount" binding:"required"`
	Description  string `json:"description"`
	OperationKey string `json:"operation_key"`
}

// MakeWithdrawHandler returns the POST /accounts/withdraw handler (spec §6).
func MakeWithdrawHandler(container *Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}

		var req withdrawRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		accountID, err := uuid.Parse(req.AccountID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account_id"})
			return
		}
		amount, err := money.FromString(req.Amount)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
			return
		}

		result, engErr := container.Engine.Withdraw(c.Request.Context(), userID, accountID, amount, req.OperationKey, req.Description)
		if engErr != nil {
			writeEngineError(c, engErr)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}
