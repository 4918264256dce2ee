package gateway

import (
	"errors"
	"net/http"

	"github.com/example/market/pkg/cart"
	"github.com/example/market/pkg/catalog"
	"github.com/example/market/pkg/checkout"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// statusFor maps domain errors to a status code and a short client message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, cart.ErrCartNotFound):
		return http.StatusNotFound, "cart not found"
	case errors.Is(err, catalog.ErrProductNotFound):
		return http.StatusNotFound, "product not found"
	case errors.Is(err, checkout.ErrOrderNotFound):
		return http.StatusNotFound, "order not found"
	case errors.Is(err, cart.ErrInvalidQuantity):
		return http.StatusBadRequest, "invalid quantity"
	case errors.Is(err, cart.ErrCartCheckedOut):
		return http.StatusConflict, "cart already checked out"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func (g *Gateway) writeError(c *gin.Context, err error) {
	status, msg := statusFor(err)
	if status == http.StatusInternalServerError {
		g.logger.Error("Request failed",
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.Error(err))
	}
	c.JSON(status, errorResponse{Error: msg})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body", Details: err.Error()})
}
