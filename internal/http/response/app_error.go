package response

// AppError 桥接层错误，Code 写入响应体 status_code，Message 直接展示
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WrapError 包装错误
func WrapError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// FromBackend 后端拒绝请求时沿用其文案
func FromBackend(status int, message string) *AppError {
	return &AppError{Code: CodeForBackendStatus(status), Message: message}
}
