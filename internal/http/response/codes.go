package response

import "net/http"

const (
	CodeOK              = 0
	CodeBadRequest      = 400
	CodeUnauthorized    = 401
	CodeForbidden       = 403
	CodeNotFound        = 404
	CodeConflict        = 409
	CodeTooManyRequests = 429
	CodeInternal        = 500
	CodeBadGateway      = 502
)

// 后端状态码中可原样透出的部分
var passthroughStatus = map[int]bool{
	http.StatusBadRequest:      true,
	http.StatusUnauthorized:    true,
	http.StatusForbidden:       true,
	http.StatusNotFound:        true,
	http.StatusConflict:        true,
	http.StatusTooManyRequests: true,
}

// CodeForBackendStatus 后端 HTTP 状态对应的业务码，不可透出的一律视为网关错误
func CodeForBackendStatus(status int) int {
	if passthroughStatus[status] {
		return status
	}
	return CodeBadGateway
}
