package apperrors

import (
	"log/slog"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the uniform error envelope for HTTP responses.
type ErrorResponse struct {
	Error *AppError `json:"error"`
}

// HandleError translates any error into an HTTP response. Non-AppError values
// are treated as internal failures: full detail is logged, the client sees a
// generic message.
func HandleError(c *gin.Context, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		appErr = InternalError(err)
	}

	if appErr.HTTPCode >= 500 {
		slog.Error("server error",
			"path", c.Request.URL.Path,
			"error", appErr.Error(),
		)
		// Never leak the wrapped cause or details on 5xx.
		appErr = New(CodeInternalError, "system", "Internal server error", appErr.HTTPCode)
	}

	c.JSON(appErr.HTTPCode, ErrorResponse{Error: appErr})
}

// AsAppError attempts to unwrap err into an *AppError.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
