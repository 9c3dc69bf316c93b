// Package application contém os casos de uso do gatekeeper: o gate
// geográfico, o filtro de variáveis de query, o validador de critérios de
// busca e o rate limiter distribuído: organizados como um pipeline ordenado
// de estágios sobre um mesmo RequestContext.
//
// Ele depende apenas do pacote domain e não conhece net/http.
// A ordem dos estágios é um dado (a Pipeline é um slice), não prioridade de
// hook: GeoGate → QueryFilter → SearchValidator → Limiter.
package application
