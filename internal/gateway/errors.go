package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidResponse 响应声明为 JSON 但无法解析
	ErrInvalidResponse = errors.New("invalid json response")
	// ErrTransport 请求未能到达后端
	ErrTransport = errors.New("backend request failed")
)

// HTTPError 后端返回非 2xx 状态
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// AsHTTPError 提取 HTTPError
func AsHTTPError(err error) (*HTTPError, bool) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr, true
	}
	return nil, false
}

// StatusOf 返回错误对应的 HTTP 状态，非 HTTPError 返回 0
func StatusOf(err error) int {
	if httpErr, ok := AsHTTPError(err); ok {
		return httpErr.Status
	}
	return 0
}

// newHTTPError 从错误响应体中提取 message 字段
func newHTTPError(status int, body []byte) *HTTPError {
	var payload struct {
		Message string `json:"message"`
	}
	message := ""
	if err := json.Unmarshal(body, &payload); err == nil {
		message = strings.TrimSpace(payload.Message)
	}
	if message == "" {
		message = fmt.Sprintf("Request failed (%d)", status)
	}
	return &HTTPError{Status: status, Message: message}
}
