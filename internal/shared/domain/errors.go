package domain

// BusinessError es un error operacional con un código estable que el caller
// puede mapear a un 4xx. No corrompe estado: se devuelve antes de publicar nada.
type BusinessError struct {
	Code    string `json:"code"`    // ej. "EMPTY_CART", "INSUFFICIENT_STOCK"
	Message string `json:"message"` // descripción legible
}

func (e *BusinessError) Error() string {
	return e.Code + ": " + e.Message
}

func NewBusinessError(code, message string) *BusinessError {
	return &BusinessError{Code: code, Message: message}
}
