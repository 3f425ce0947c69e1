package lazyk

import (
	"bufio"
	"fmt"
	"io"

	"github.com/golang/glog"
)

// heapBudgetBytes bounds node storage. The budget is checked between
// output bytes only, never in the middle of a reduction.
const heapBudgetBytes = 256 * 1024 * 1024

// Console drives a loaded program.
type Console interface {
	Reset()
	Step() (byte, bool, error)
	Run() error
}

// Runner owns the heap for its lifetime and reduces the program graph
// against a lazy stream of input bytes.
//
// The top-level root is the program applied to a stdin thunk. Forcing
// the thunk consumes one input byte b and rewrites the thunk into
// cons(Church(b), Stdin'); at end of input b is 256, which is also the
// value that terminates the output stream.
type Runner struct {
	heap    *heap
	program *Expr
	start   addr // root of the remaining output stream
	in      *bufio.Reader
	out     *bufio.Writer
	emitted uint64
}

func NewRunner(program *Expr, in io.Reader, out io.Writer) *Runner {
	r := &Runner{
		program: program,
		in:      bufio.NewReader(in),
		out:     bufio.NewWriter(out),
	}
	r.Reset()
	return r
}

// Reset discards the heap and reloads the program against a fresh stdin
// thunk. The input reader keeps its position: bytes consumed before the
// reset stay consumed.
func (r *Runner) Reset() {
	r.heap = newHeap()
	r.emitted = 0
	p := r.load(r.program)
	in := r.heap.alloc(node{kind: kindStdin})
	r.start = r.heap.allocApply(p, in)
}

// load materializes a parsed term bottom-up. Pure allocation, the
// primitives map to their interned slots.
func (r *Runner) load(e *Expr) addr {
	switch e.op {
	case opS:
		return addrS
	case opK:
		return addrK
	case opI:
		return addrI
	case opApply:
		l := r.load(e.l)
		x := r.load(e.r)
		return r.heap.allocApply(l, x)
	}
	glog.Fatalf("runtime bug: unknown expr op %d", e.op)
	return 0
}

// pushChurch builds the Church numeral n: the successor combinator
// S(S(KS)K) applied n times to KI. Each step allocates its own succ
// subgraph, five nodes per successor.
func (r *Runner) pushChurch(n int) addr {
	h := r.heap
	acc := h.allocApply(addrK, addrI)
	for ; n > 0; n-- {
		ks := h.allocApply(addrK, addrS)
		sks := h.allocApply(addrS, ks)
		sksk := h.allocApply(sks, addrK)
		succ := h.allocApply(addrS, sksk)
		acc = h.allocApply(succ, acc)
	}
	return acc
}

// pushCons builds the pair S(SI(K car))(K cdr), so that the pair
// applied to a selector f reduces to (f car) cdr.
func (r *Runner) pushCons(car addr, cdr addr) addr {
	h := r.heap
	kcar := h.allocApply(addrK, car)
	kcdr := h.allocApply(addrK, cdr)
	si := h.allocApply(addrS, addrI)
	sicar := h.allocApply(si, kcar)
	scar := h.allocApply(addrS, sicar)
	return h.allocApply(scar, kcdr)
}

// spine descends the left chain from a, pushing each dereferenced
// address. The top of the returned stack is the leftmost atom; the
// entries below it are the application nodes whose rhs supply the
// arguments in order.
func (r *Runner) spine(a addr, stack []addr) []addr {
	for {
		a = r.heap.deref(a)
		stack = append(stack, a)
		n := r.heap.get(a)
		if n.kind != kindApply {
			return stack
		}
		a = n.lhs
	}
}

// reduce drives the graph at start to weak head normal form: a value
// node, or a primitive with too few arguments on the spine.
//
// Redexes are updated in place. K and I write a Link over the outermost
// application they consume; S rewrites its third spine node into a new
// application so prior references keep seeing the shared result.
func (r *Runner) reduce(start addr) error {
	h := r.heap
	stack := r.spine(start, nil)
	for len(stack) > 0 {
		f := h.deref(stack[len(stack)-1])
		stack = stack[:len(stack)-1]
		switch h.get(f).kind {
		case kindS:
			if len(stack) < 3 {
				return nil
			}
			r1 := stack[len(stack)-1]
			r2 := stack[len(stack)-2]
			r3 := stack[len(stack)-3]
			stack = stack[:len(stack)-3]
			x := h.rhs(r1)
			y := h.rhs(r2)
			z := h.rhs(r3)
			xz := h.allocApply(x, z)
			yz := h.allocApply(y, z)
			h.set(r3, node{kind: kindApply, lhs: xz, rhs: yz})
			stack = r.spine(r3, stack)
		case kindK:
			if len(stack) < 2 {
				return nil
			}
			r1 := stack[len(stack)-1]
			r2 := stack[len(stack)-2]
			stack = stack[:len(stack)-2]
			h.set(r2, node{kind: kindLink, lhs: h.rhs(r1)})
			stack = r.spine(r2, stack)
		case kindI:
			if len(stack) < 1 {
				return nil
			}
			r1 := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			h.set(r1, node{kind: kindLink, lhs: h.rhs(r1)})
			stack = r.spine(r1, stack)
		case kindInc:
			if len(stack) < 1 {
				return nil
			}
			r1 := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			t := h.rhs(r1)
			if err := r.reduce(t); err != nil {
				return err
			}
			t = h.deref(t)
			n := h.get(t)
			if n.kind != kindNum {
				return fmt.Errorf("cannot increment a non-numeric term: %s", h.dump(t))
			}
			h.set(r1, node{kind: kindNum, num: n.num + 1})
			stack = append(stack, r1)
		case kindNum:
			return nil
		case kindStdin:
			// Interactive programs expect pending output to be
			// visible before the process blocks on a read.
			r.out.Flush()
			v := 256
			if b, err := r.in.ReadByte(); err == nil {
				v = int(b)
			}
			church := r.pushChurch(v)
			tail := h.alloc(node{kind: kindStdin})
			cons := r.pushCons(church, tail)
			h.set(f, node{kind: kindLink, lhs: cons})
			stack = r.spine(f, stack)
		default:
			glog.Fatalf("runtime bug: irreducible node %d (kind=%d)", f, h.get(f).kind)
		}
	}
	return nil
}

// Step forces the next output byte. done reports that the stream has
// terminated; b is only meaningful when done is false.
func (r *Runner) Step() (byte, bool, error) {
	h := r.heap
	car := h.allocApply(r.start, addrK)
	inc := h.allocApply(car, addrInc)
	probe := h.allocApply(inc, addrZero)
	if err := r.reduce(probe); err != nil {
		return 0, false, err
	}
	v := h.get(h.deref(probe))
	if v.kind != kindNum {
		return 0, false, fmt.Errorf("cannot reduce the output head to a numeric value: %s", h.dump(probe))
	}
	if v.num >= 256 {
		return 0, true, nil
	}
	b := byte(v.num & 0xFF)
	r.out.WriteByte(b)
	r.emitted++
	glog.V(2).Infof("emitted byte %d (0x%02x), heap length %d", r.emitted, b, len(h.nodes))
	ki := h.allocApply(addrK, addrI)
	r.start = h.allocApply(r.start, ki)
	if len(h.nodes)*nodeSize > heapBudgetBytes {
		r.collect()
	}
	return b, false, nil
}

// Run forces output bytes until the stream terminates.
func (r *Runner) Run() error {
	defer r.out.Flush()
	for {
		if _, done, err := r.Step(); err != nil || done {
			return err
		}
	}
}
