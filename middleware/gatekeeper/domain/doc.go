// Package domain define contratos e tipos de domínio para o gatekeeper do
// cardfile: critérios de busca, variáveis de query tipadas, contexto de
// requisição com sinal de erro e contratos de armazenamento de contadores.
//
// Este pacote não depende de net/http nem de implementações concretas.
// A intenção é permitir testes de unidade puros e desacoplar as regras de
// restrição de detalhes de infraestrutura (redis, proxy, etc).
package domain
