package admin

import (
	handlershared "github.com/storefront-next/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

func respondBackendError(c *gin.Context, err error, fallbackMsg string) {
	handlershared.RespondBackendError(c, err, fallbackMsg)
}
