// Package infra contém implementações concretas (infraestrutura) para os
// contratos definidos no pacote domain.
//
// Exemplos:
//   - RedisCounterStore: contadores distribuídos EXISTS/SET/INCR com TTL
//   - MemoryCounterStore: janela fixa em memória, para testes e processo único
//   - RedisAuditStore / MemoryAuditStore: auditoria de rejeições do limiter
//   - TokenBucketStore: limitador local de rajada usando golang.org/x/time/rate
//   - ChanPool: semáforo simples para o teto de concorrência do upstream
package infra
