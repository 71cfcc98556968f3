package dto

// Códigos numéricos estables de error expuestos en el cuerpo de las respuestas.
// Los clientes los usan para decidir qué mostrar; no reasignar.
const (
	CodeInternal          = 1000
	CodeNotFound          = 1001
	CodeValidation        = 1002
	CodeInsufficientStock = 1003
	CodeDuplicate         = 1004
	CodeUnauthorized      = 2001
	CodeForbidden         = 2002
)

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// DefaultPage aplica valores por defecto y límites a Limit/Offset.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}

// ErrorResponse cuerpo de error HTTP.
// Field se completa en errores de validación; Available en stock insuficiente.
type ErrorResponse struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	Field     string `json:"field,omitempty"`
	Available *int64 `json:"available,omitempty"`
}
