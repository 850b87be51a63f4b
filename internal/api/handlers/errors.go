package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"corebank/internal/domain/bankerrors"
)

// statusForCode maps a stable engine error code to its HTTP status, per
// spec §7's recovery guidance for each code.
func statusForCode(code bankerrors.Code) int {
	switch code {
	case bankerrors.CodeInvalidAmount:
		return http.StatusBadRequest
	case bankerrors.CodeAccountNotFound:
		return http.StatusNotFound
	case bankerrors.CodeUnauthorizedAccess:
		return http.StatusForbidden
	case bankerrors.CodeAccountFrozen, bankerrors.CodeAccountClosed:
		return http.StatusConflict
	case bankerrors.CodeSelfTransfer:
		return http.StatusBadRequest
	case bankerrors.CodeInsufficientFunds:
		return http.StatusUnprocessableEntity
	case bankerrors.CodeDuplicateOperation:
		return http.StatusConflict
	case bankerrors.CodeConcurrencyConflict:
		return http.StatusConflict
	case bankerrors.CodeStorageError:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeEngineError(c *gin.Context, err *bankerrors.EngineError) {
	c.JSON(statusForCode(err.Code), gin.H{
		"error": gin.H{
			"code":    err.Code,
			"message": err.Message,
		},
	})
}
