package lazyk

import (
	"unsafe"

	"github.com/golang/glog"
)

// addr indexes a node in the heap arena. 32-bit handles keep the node
// struct compact and let the collector mark with a plain bitmap.
type addr int32

type kind uint8

const (
	kindFree kind = iota // unused slot, available for allocation
	kindS
	kindK
	kindI
	kindApply // lhs applied to rhs
	kindLink  // indirection to lhs, written over a reduced redex
	kindInc   // host primitive: forces its argument to a number and adds one
	kindNum   // reduced numeric value, 256 and above ends the output stream
	kindStdin // unforced input thunk
)

type node struct {
	kind kind
	lhs  addr   // Apply function, or Link target
	rhs  addr   // Apply argument
	num  uint16 // Num value
}

// nodeSize charges the heap budget per slot.
const nodeSize = int(unsafe.Sizeof(node{}))

// The primitives are interned at fixed addresses so loading and
// grafting never allocate them and the reducer compares tags directly.
// Slots below programAreaEnd are immutable and never swept.
const (
	addrS addr = iota
	addrK
	addrI
	addrInc
	addrZero
	programAreaEnd
)

type heap struct {
	nodes []node
	fresh addr // allocation cursor, reset by the collector
}

func newHeap() *heap {
	return &heap{
		nodes: []node{
			{kind: kindS},
			{kind: kindK},
			{kind: kindI},
			{kind: kindInc},
			{kind: kindNum},
		},
		fresh: programAreaEnd,
	}
}

// alloc writes n into the first Free slot at or past the cursor,
// growing the arena when the scan finds none.
func (h *heap) alloc(n node) addr {
	for i := h.fresh; int(i) < len(h.nodes); i++ {
		if h.nodes[i].kind == kindFree {
			h.nodes[i] = n
			h.fresh = i + 1
			return i
		}
	}
	h.nodes = append(h.nodes, n)
	a := addr(len(h.nodes) - 1)
	h.fresh = a + 1
	return a
}

func (h *heap) get(a addr) node {
	return h.nodes[a]
}

func (h *heap) set(a addr, n node) {
	h.nodes[a] = n
}

// deref follows Link chains to the first non-Link address.
func (h *heap) deref(a addr) addr {
	for h.nodes[a].kind == kindLink {
		a = h.nodes[a].lhs
	}
	return a
}

// rhs reads the argument of a spine application node.
func (h *heap) rhs(a addr) addr {
	n := h.nodes[a]
	if n.kind != kindApply {
		glog.Fatalf("runtime bug: rhs of non-apply node %d (kind=%d)", a, n.kind)
	}
	return n.rhs
}

func (h *heap) allocApply(l addr, r addr) addr {
	return h.alloc(node{kind: kindApply, lhs: l, rhs: r})
}
