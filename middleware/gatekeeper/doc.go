// Package gatekeeper fornece adapters HTTP (net/http) para o pipeline de
// restrição de acesso anônimo ao acervo do cardfile.
//
// Visão geral (camadas):
//
//   - domain: contratos e tipos do domínio (critérios, contexto, contadores),
//     sem dependência de net/http
//   - application: os estágios do pipeline (gate geográfico, filtro de query,
//     validador de busca, rate limiter distribuído) sem net/http
//   - infra: implementações concretas (redis, memória, token bucket, semáforo)
//   - gatekeeper (este pacote): middlewares HTTP + parse/reescrita de query +
//     tradução de decisões para status/headers/redirect
//
// Fluxo no gateway, por requisição anônima:
//
//  1. Extrai IP do cliente e monta o RequestContext tipado a partir da query
//  2. Roda o pipeline: geo → filtro → validador → limiter
//  3. Hard-block de jurisdição responde 403 com a mensagem fixa, sem render
//  4. Erro diferido (400/429) vira redirect 302 para a listagem canônica com
//     cferror=<código>. É a estratégia única deste gateway: a requisição nunca
//     chega ao upstream, logo resultado vazio/paginação zero valem por
//     construção (o upstream só vê o cferror na listagem e renderiza o status)
//  5. Permitida: a query string é reescrita a partir do mapeamento filtrado e
//     dos critérios sanitizados, e a requisição segue ao próximo handler
//
// Tráfego autenticado (cookie de sessão presente) não passa por restrição
// nenhuma.
package gatekeeper
