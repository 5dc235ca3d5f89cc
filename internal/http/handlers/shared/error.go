package shared

import (
	"errors"

	"github.com/storefront-next/internal/gateway"
	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 返回错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, msg string, err error) {
	respond(c, response.WrapError(code, msg, err))
}

func respond(c *gin.Context, appErr *response.AppError) {
	if appErr.Err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"message", appErr.Message,
			"error", appErr.Err,
		)
	}
	response.Fail(c, appErr)
}

// RespondBackendError 映射网关返回的错误：后端拒绝时保留其文案，传输失败为 502
func RespondBackendError(c *gin.Context, err error, fallbackMsg string) {
	if httpErr, ok := gateway.AsHTTPError(err); ok {
		RequestLog(c).Warnw("backend_request_rejected",
			"status", httpErr.Status,
			"message", httpErr.Message,
		)
		respond(c, response.FromBackend(httpErr.Status, httpErr.Message))
		return
	}
	if errors.Is(err, gateway.ErrTransport) || errors.Is(err, gateway.ErrInvalidResponse) {
		RespondError(c, response.CodeBadGateway, fallbackMsg, err)
		return
	}
	RespondError(c, response.CodeInternal, fallbackMsg, err)
}
