package lazyk

import (
	"fmt"
	"strings"
)

// dump renders the subgraph at a in backtick form. It is only used for
// diagnostics when a term refuses to reduce to a number, so it chases
// links but makes no attempt at sharing or cycle detection.
func (h *heap) dump(a addr) string {
	var sb strings.Builder
	h.dumpTo(&sb, a)
	return sb.String()
}

func (h *heap) dumpTo(sb *strings.Builder, a addr) {
	switch n := h.get(a); n.kind {
	case kindS:
		sb.WriteByte('s')
	case kindK:
		sb.WriteByte('k')
	case kindI:
		sb.WriteByte('i')
	case kindApply:
		sb.WriteByte('`')
		h.dumpTo(sb, n.lhs)
		h.dumpTo(sb, n.rhs)
	case kindLink:
		h.dumpTo(sb, n.lhs)
	case kindInc:
		sb.WriteString("<increment>")
	case kindNum:
		fmt.Fprintf(sb, "<number:%d>", n.num)
	case kindStdin:
		sb.WriteString("<stdin>")
	case kindFree:
		sb.WriteString("<runtime bug>")
	}
}
