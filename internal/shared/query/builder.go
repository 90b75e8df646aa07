// Package query monta consultas SQL parametrizadas a partir de filtros opcionais.
//
// Apenas literais fixos do código (tabela, colunas, ordenação) entram no texto
// da consulta; valores vindos do cliente são sempre parâmetros posicionais ($n).
package query

import (
	"strconv"
	"strings"
)

// Builder acumula cláusulas de igualdade na ordem em que são chamadas
type Builder struct {
	base    string
	clauses []string
	args    []any
	orderBy string
	limit   int
}

// New inicia uma consulta a partir do SELECT base (sem WHERE)
func New(base string) *Builder {
	return &Builder{base: base}
}

// Eq adiciona "AND column = $n" quando value não é nil
func (b *Builder) Eq(column string, value *string) *Builder {
	if value == nil {
		return b
	}
	return b.EqValue(column, *value)
}

// EqValue adiciona uma igualdade obrigatória
func (b *Builder) EqValue(column string, value any) *Builder {
	b.args = append(b.args, value)
	b.clauses = append(b.clauses, column+" = $"+strconv.Itoa(len(b.args)))
	return b
}

// OrderBy define a ordenação final (literal fixo)
func (b *Builder) OrderBy(expr string) *Builder {
	b.orderBy = expr
	return b
}

// Limit adiciona "LIMIT $n" como parâmetro; n <= 0 não limita
func (b *Builder) Limit(n int) *Builder {
	b.limit = n
	return b
}

// Build devolve o texto da consulta e os parâmetros na mesma ordem dos placeholders.
// Mesma sequência de chamadas produz sempre o mesmo texto e a mesma ordem.
func (b *Builder) Build() (string, []any) {
	var sb strings.Builder
	sb.WriteString(b.base)
	sb.WriteString(" WHERE 1=1")
	for _, c := range b.clauses {
		sb.WriteString(" AND ")
		sb.WriteString(c)
	}
	if b.orderBy != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(b.orderBy)
	}

	args := make([]any, len(b.args), len(b.args)+1)
	copy(args, b.args)
	if b.limit > 0 {
		args = append(args, b.limit)
		sb.WriteString(" LIMIT $")
		sb.WriteString(strconv.Itoa(len(args)))
	}
	return sb.String(), args
}
