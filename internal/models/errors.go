package models

// AppError is a structured application error with HTTP status code.
type AppError struct {
	Code    string `json:"error"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (e *AppError) Error() string { return e.Message }

// Error constructors.
var (
	ErrNotFound = func(msg string) *AppError {
		return &AppError{Code: "NOT_FOUND", Message: msg, Status: 404}
	}
	ErrBadRequest = func(msg string) *AppError {
		return &AppError{Code: "BAD_REQUEST", Message: msg, Status: 400}
	}
	ErrInternal = func(msg string) *AppError {
		return &AppError{Code: "INTERNAL", Message: msg, Status: 500}
	}
	// ErrBus marks a failed transport transaction; the register shadow may
	// be ahead of the physical device until the next sync.
	ErrBus = func(msg string) *AppError {
		return &AppError{Code: "BUS_ERROR", Message: msg, Status: 502}
	}
)
