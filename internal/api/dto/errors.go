package dto

// ErrorResponse é o corpo de erro padrão; Message é omitido em 5xx
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
