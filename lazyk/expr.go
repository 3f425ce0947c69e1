package lazyk

import "strings"

// Expr is a parsed combinator term, the output of the parsers and the
// input of the loader. The runtime never reduces an Expr, it first
// materializes the tree into the heap.
type Expr struct {
	op exprOp
	l  *Expr
	r  *Expr
}

type exprOp int

const (
	opS exprOp = iota
	opK
	opI
	opApply
)

// The combinator atoms are shared, parsers never allocate them.
var (
	exprS = &Expr{op: opS}
	exprK = &Expr{op: opK}
	exprI = &Expr{op: opI}
)

func apply(l *Expr, r *Expr) *Expr {
	return &Expr{op: opApply, l: l, r: r}
}

// String renders the term in Unlambda backtick form.
func (e *Expr) String() string {
	var sb strings.Builder
	e.write(&sb)
	return sb.String()
}

func (e *Expr) write(sb *strings.Builder) {
	switch e.op {
	case opS:
		sb.WriteByte('s')
	case opK:
		sb.WriteByte('k')
	case opI:
		sb.WriteByte('i')
	case opApply:
		sb.WriteByte('`')
		e.l.write(sb)
		e.r.write(sb)
	}
}
