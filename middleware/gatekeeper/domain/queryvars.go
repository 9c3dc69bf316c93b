package domain

// Mapeamento tipado de variáveis de query.
//
// O conjunto de chaves é enumerado na camada de aplicação (deny/allow lists);
// aqui ficam apenas o valor tipado e a semântica de "zero do próprio tipo",
// necessária porque o filtro precisa zerar uma variável respeitando o tipo
// dela antes de removê-la da representação subjacente.

type VarKind int

const (
	KindString VarKind = iota
	KindList
	KindBool
	KindInt
)

// VarValue é um valor de variável de query com tipo conhecido.
// Formatos desconhecidos são rejeitados na borda (parse), não propagados.
type VarValue struct {
	Kind VarKind

	Str  string
	List []string
	Bool bool
	Int  int
}

func StringVar(s string) VarValue   { return VarValue{Kind: KindString, Str: s} }
func ListVar(l []string) VarValue   { return VarValue{Kind: KindList, List: l} }
func BoolVar(b bool) VarValue       { return VarValue{Kind: KindBool, Bool: b} }
func IntVar(n int) VarValue         { return VarValue{Kind: KindInt, Int: n} }

// Zero devolve o valor zero do mesmo tipo.
func (v VarValue) Zero() VarValue {
	return VarValue{Kind: v.Kind}
}

// IsZero informa se o valor é o zero do próprio tipo.
func (v VarValue) IsZero() bool {
	switch v.Kind {
	case KindList:
		return len(v.List) == 0
	case KindBool:
		return !v.Bool
	case KindInt:
		return v.Int == 0
	default:
		return v.Str == ""
	}
}

type QueryVars map[string]VarValue

func (q QueryVars) Clone() QueryVars {
	out := make(QueryVars, len(q))
	for k, v := range q {
		if v.Kind == KindList {
			v.List = append([]string(nil), v.List...)
		}
		out[k] = v
	}
	return out
}

// GetString devolve o valor string da variável, ou "" se ausente/de outro tipo.
func (q QueryVars) GetString(key string) string {
	v, ok := q[key]
	if !ok || v.Kind != KindString {
		return ""
	}
	return v.Str
}

// GetInt devolve o valor inteiro da variável, ou 0 se ausente/de outro tipo.
func (q QueryVars) GetInt(key string) int {
	v, ok := q[key]
	if !ok || v.Kind != KindInt {
		return 0
	}
	return v.Int
}
