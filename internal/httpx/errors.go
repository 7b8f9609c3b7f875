package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/ordenes-ecom/internal/apperr"
)

// ErrorBody is the JSON shape of every failed response.
// swagger:model
type ErrorBody struct {
	StatusCode int    `json:"statusCode" example:"404"`
	Message    string `json:"message"    example:"Order with ID 0f8fad5b-d9cb-469f-a165-70867728950e not found"`
	Code       string `json:"code"       example:"NOT_FOUND"`
	Timestamp  string `json:"timestamp"  example:"2024-05-01T12:00:00Z"`
	Path       string `json:"path"       example:"/orders/0f8fad5b-d9cb-469f-a165-70867728950e"`
	Detail     any    `json:"detail,omitempty"`
}

// AbortWithError renders err as an ErrorBody and stops the handler chain.
// Errors outside the apperr taxonomy become an opaque 500.
func AbortWithError(c *gin.Context, err error) {
	body := ErrorBody{
		StatusCode: http.StatusInternalServerError,
		Message:    "Internal server error",
		Code:       apperr.CodeInternal,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Path:       c.Request.URL.Path,
	}
	if ae, ok := apperr.As(err); ok {
		body.StatusCode = ae.HTTPStatus()
		body.Message = ae.Message
		body.Code = ae.Code
		body.Detail = ae.Detail
	}
	if err != nil {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(body.StatusCode, body)
}

// BindError wraps a gin binding failure as a validation error.
func BindError(err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	return apperr.Validation("Invalid request body: %v", err)
}

// ErrorLogger logs the errors attached to a request that ended in a 5xx.
func ErrorLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if c.Writer.Status() < http.StatusInternalServerError {
			return
		}
		for _, e := range c.Errors {
			log.Error("request failed", "rid", RID(c), "path", c.Request.URL.Path, "err", e.Err)
		}
	}
}
