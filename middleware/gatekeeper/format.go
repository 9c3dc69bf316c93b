// utilitário pequeno para formatação rápida/consistente de valores numéricos
// em headers e na query reescrita, sem puxar fmt só para isso.

package gatekeeper

import "strconv"

func formatInt(v int) string { return strconv.Itoa(v) }

func formatFloat(v float64) string {
	// sem notação científica para valores comuns
	return strconv.FormatFloat(v, 'f', -1, 64)
}
