package application

import (
	"context"

	"cardfile-gateway/middleware/gatekeeper/domain"
)

// Stage é um estágio do pipeline de restrição. Cada estágio lê e muta o
// RequestContext de forma controlada; um estágio posterior respeita o estado
// terminal deixado por um anterior.
type Stage interface {
	Apply(ctx context.Context, rc *domain.RequestContext)
}

// StageFunc adapta uma função a Stage.
type StageFunc func(ctx context.Context, rc *domain.RequestContext)

func (f StageFunc) Apply(ctx context.Context, rc *domain.RequestContext) { f(ctx, rc) }

// Pipeline é a sequência ordenada de estágios. A ordem é a estrutura de
// dados em si: quem monta o slice decide a ordem de execução.
type Pipeline []Stage

// Run executa os estágios em ordem. O hard-stop de jurisdição (Blocked)
// encerra o pipeline; um erro diferido NÃO encerra: estágios posteriores
// ainda rodam (o limiter conta a requisição e pode sobrepor o código).
func (p Pipeline) Run(ctx context.Context, rc *domain.RequestContext) {
	for _, st := range p {
		if rc.Blocked {
			return
		}
		st.Apply(ctx, rc)
	}
}
