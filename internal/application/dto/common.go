package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// IDResponse respuesta de creación.
type IDResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"message,omitempty"`
}

// SuccessResponse respuesta de operaciones sin cuerpo.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
