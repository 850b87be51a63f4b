package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"corebank/internal/api/middleware"
	"corebank/internal/domain/bankerrors"
)

// MakeReconcileHandler returns the GET /accounts/:id/reconcile handler
// (spec §4.F, §6). Ownership is verified here: the reconciler itself never
// checks it, since it is a read-only collaborator invoked on the caller's
// behalf under the same ownership contract as the engine operations.
func MakeReconcileHandler(container *Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}

		accountID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account id"})
			return
		}

		ctx := c.Request.Context()
		acc, err := container.Engine.AccountByID(ctx, accountID)
		if err != nil || acc == nil {
			writeEngineError(c, bankerrors.AccountNotFound())
			return
		}
		if acc.UserID != userID {
			writeEngineError(c, bankerrors.UnauthorizedAccess())
			return
		}

		report, err := container.Reconciler.Account(ctx, accountID)
		if err != nil {
			writeEngineError(c, bankerrors.StorageError(err))
			return
		}

		c.JSON(http.StatusOK, report)
	}
}
