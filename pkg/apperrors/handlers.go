package apperrors

import (
	"log/slog"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

// ErrorResponse - стандартный ответ об ошибке
type ErrorResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Code    ErrorCode   `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
	Error   string      `json:"error,omitempty"`
}

var debug atomic.Bool

// SetDebug включает вывод причины 500-х ошибок в ответ (только для development).
func SetDebug(v bool) {
	debug.Store(v)
}

// HandleError пишет конверт {success:false, message} с HTTP-статусом ошибки.
// Не-AppError ошибки превращаются в 500 с общим сообщением.
func HandleError(c *gin.Context, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		appErr = InternalError(err)
	}

	resp := ErrorResponse{
		Success: false,
		Message: appErr.Message,
		Code:    appErr.Code,
		Details: appErr.Details,
	}

	if appErr.HTTPCode >= 500 {
		slog.ErrorContext(c.Request.Context(), "server error",
			slog.String("path", c.FullPath()),
			slog.Any("error", appErr.Unwrap()),
		)
		if debug.Load() && appErr.Err != nil {
			resp.Error = appErr.Err.Error()
		}
	}

	c.AbortWithStatusJSON(appErr.HTTPCode, resp)
}

// AsAppError - пытается преобразовать error в *AppError
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
