package httpserver

import (
	"errors"
	"net/http"

	"ezelectronics/internal/domain"
	cartsvc "ezelectronics/internal/service/cart"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var errorStatuses = []struct {
	err    error
	status int
}{
	{domain.ErrProductNotFound, http.StatusNotFound},
	{domain.ErrEmptyProductStock, http.StatusConflict},
	{domain.ErrLowProductStock, http.StatusConflict},
	{domain.ErrCartNotFound, http.StatusNotFound},
	{domain.ErrEmptyCart, http.StatusBadRequest},
	{domain.ErrProductNotInCart, http.StatusNotFound},
	{cartsvc.ErrInvalidInput, http.StatusUnprocessableEntity},
}

func statusFor(err error) int {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// writeError renders err as {"error": msg}. Unmapped errors are logged and
// hidden behind a generic message.
func (h *handlers) writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request_failed",
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.String("owner", c.GetString(ownerKey)),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		_ = c.Error(err)
		c.AbortWithStatusJSON(status, gin.H{"error": "internal error"})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
