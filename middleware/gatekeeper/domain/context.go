package domain

import "time"

// HeaderGetter lê um header da requisição pelo nome. Mantém o domínio sem
// dependência de net/http.
type HeaderGetter func(name string) string

// RequestContext é o estado por requisição compartilhado pelos estágios do
// pipeline e consumido pelo adapter HTTP. Criado no parse da requisição,
// destruído no fim dela; nada aqui sobrevive entre requisições.
type RequestContext struct {
	Action   Action
	PostType string
	ClientIP string

	// Header lê os headers da requisição de origem (read-only).
	Header HeaderGetter

	// Decisão geográfica (preenchida pelo gate de jurisdição).
	Country   string
	Occupied  bool
	Exception bool

	// Vars é o conjunto de variáveis de query reconhecidas (zerado pelo
	// filtro quando fora da allow-list); Query é a representação subjacente
	// da requisição, da qual variáveis filtradas são removidas de vez, para
	// não ressurgirem em links gerados nem em chaves de cache.
	Vars  QueryVars
	Query QueryVars

	// Criteria é o bundle sanitizado, ou nil quando ausente/rejeitado.
	// Invariante: ou totalmente sanitizado, ou nil: nunca parcial.
	Criteria *SearchCriteria

	// Blocked marca o hard-stop de jurisdição (403): resposta imediata,
	// sem erro diferido e sem estágios posteriores.
	Blocked bool

	// RetryAfter é a recomendação para o header Retry-After quando o
	// limiter rejeita (0 = sem recomendação).
	RetryAfter time.Duration

	errCode int
}

// SetError grava o erro diferido, apenas se ainda não houver um.
// Devolve true se o código foi gravado.
func (c *RequestContext) SetError(code int) bool {
	if c.errCode != 0 {
		return false
	}
	c.errCode = code
	return true
}

// OverrideError é a exceção à regra do SetError: o rate limiter pode
// sobrepor um estado de prioridade menor (ex: 429 por cima de 400).
// Nenhum outro componente deve chamar isto.
func (c *RequestContext) OverrideError(code int) {
	if c.errCode == 0 || code > c.errCode {
		c.errCode = code
	}
}

// ErrorCode devolve o erro diferido, ou 0 se não houver.
func (c *RequestContext) ErrorCode() int {
	return c.errCode
}

// Rejected informa se há um erro diferido na faixa 4xx.
func (c *RequestContext) Rejected() bool {
	return c.errCode >= 400 && c.errCode < 500
}

// ClearCriteria remove o bundle do contexto. Uma busca rejeitada nunca chega
// ao estágio de query com dados parciais.
func (c *RequestContext) ClearCriteria() {
	c.Criteria = nil
}
