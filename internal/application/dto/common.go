package dto

// PageRequest paginação para listagens.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// Normalizar aplica os valores padrão quando Limit/Offset vêm zerados.
func (p *PageRequest) Normalizar() {
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

// ErrorResponse corpo de erro HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Detalhes carrega contexto acionável (coordenada, quantidades) quando
	// o erro de domínio o fornece.
	Detalhes map[string]string `json:"detalhes,omitempty"`
}
