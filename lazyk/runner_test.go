package lazyk

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func newTestRunner(program *Expr, input string) (*Runner, *bytes.Buffer) {
	var out bytes.Buffer
	return NewRunner(program, strings.NewReader(input), &out), &out
}

// churchExpr builds the Church numeral n as a parsed term, the same
// shape the runtime grafts for input bytes.
func churchExpr(n int) *Expr {
	succ := apply(exprS, apply(apply(exprS, apply(exprK, exprS)), exprK))
	e := apply(exprK, exprI)
	for ; n > 0; n-- {
		e = apply(succ, e)
	}
	return e
}

// consExpr builds the pair S(SI(K car))(K cdr).
func consExpr(car *Expr, cdr *Expr) *Expr {
	return apply(
		apply(exprS, apply(apply(exprS, exprI), apply(exprK, car))),
		apply(exprK, cdr))
}

// reduceToNum forces a and reads back the numeric result.
func reduceToNum(t *testing.T, r *Runner, a addr) uint16 {
	t.Helper()
	if err := r.reduce(a); err != nil {
		t.Fatalf("reduce: %v", err)
	}
	n := r.heap.get(r.heap.deref(a))
	if n.kind != kindNum {
		t.Fatalf("reduce: got kind=%d, want a number (%s)", n.kind, r.heap.dump(a))
	}
	return n.num
}

// Church numerals decode through the Inc/Zero probe: n inc 0 = n.
func TestChurchDecode(t *testing.T) {
	r, _ := newTestRunner(exprI, "")
	for n := 0; n <= 256; n++ {
		ch := r.pushChurch(n)
		probe := r.heap.allocApply(r.heap.allocApply(ch, addrInc), addrZero)
		if got := reduceToNum(t, r, probe); int(got) != n {
			t.Fatalf("church %d: got=%d", n, got)
		}
	}
}

func TestConsSelectors(t *testing.T) {
	r, _ := newTestRunner(exprI, "")
	h := r.heap
	car := h.alloc(node{kind: kindNum, num: 65})
	cdr := h.alloc(node{kind: kindNum, num: 66})
	pair := r.pushCons(car, cdr)
	// pair K selects the head.
	head := h.allocApply(pair, addrK)
	if got := reduceToNum(t, r, head); got != 65 {
		t.Fatalf("car: got=%d, want=65", got)
	}
	// pair (K I) selects the tail.
	ki := h.allocApply(addrK, addrI)
	tail := h.allocApply(pair, ki)
	if got := reduceToNum(t, r, tail); got != 66 {
		t.Fatalf("cdr: got=%d, want=66", got)
	}
}

// The identity program copies its input stream to the output stream.
func TestEchoIdentity(t *testing.T) {
	r, out := newTestRunner(exprI, "hello\n")
	if err := r.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := out.String(); got != "hello\n" {
		t.Fatalf("echo: got=%q, want=%q", got, "hello\n")
	}
}

func TestEchoEmptyInput(t *testing.T) {
	r, out := newTestRunner(exprI, "")
	if err := r.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no output, got %q", out.String())
	}
}

func TestStepByByte(t *testing.T) {
	r, _ := newTestRunner(exprI, "AB")
	b, done, err := r.Step()
	if err != nil || done || b != 'A' {
		t.Fatalf("first step: got=(%q, %v, %v)", b, done, err)
	}
	b, done, err = r.Step()
	if err != nil || done || b != 'B' {
		t.Fatalf("second step: got=(%q, %v, %v)", b, done, err)
	}
	_, done, err = r.Step()
	if err != nil || !done {
		t.Fatalf("final step: got=(done=%v, err=%v), want termination", done, err)
	}
	if r.emitted != 2 {
		t.Fatalf("emitted: got=%d, want=2", r.emitted)
	}
}

// A constant program ignores its input and emits a fixed byte before
// the end-of-stream numeral.
func TestFixedByteProgram(t *testing.T) {
	program := apply(exprK, consExpr(churchExpr(65), consExpr(churchExpr(256), exprI)))
	r, out := newTestRunner(program, "ignored")
	if err := r.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := out.String(); got != "A" {
		t.Fatalf("got=%q, want=%q", got, "A")
	}
}

// K I applied to the input reduces to I, so the output head probe
// I K Inc Zero lands on a bare Inc primitive, which is not a numeral.
func TestDecodeTypeError(t *testing.T) {
	program := apply(exprK, exprI)
	r, _ := newTestRunner(program, "")
	err := r.Run()
	if err == nil || !strings.Contains(err.Error(), "numeric") {
		t.Fatalf("expected a decode error, got %v", err)
	}
}

// S applied to the input hands a Church numeral (a function) to Inc.
func TestIncTypeError(t *testing.T) {
	r, _ := newTestRunner(exprS, "")
	err := r.Run()
	if err == nil || !strings.Contains(err.Error(), "increment") {
		t.Fatalf("expected an increment error, got %v", err)
	}
}

// Once the input hits end of stream every further force yields the
// 256 sentinel: the echo of a short input terminates exactly once.
func TestEOFSticky(t *testing.T) {
	r, out := newTestRunner(exprI, "x")
	if err := r.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := out.String(); got != "x" {
		t.Fatalf("got=%q, want=%q", got, "x")
	}
	// The stream stays terminated.
	_, done, err := r.Step()
	if err != nil || !done {
		t.Fatalf("step after termination: got=(done=%v, err=%v)", done, err)
	}
}

func TestReset(t *testing.T) {
	r, out := newTestRunner(exprI, "ab")
	b, _, err := r.Step()
	if err != nil || b != 'a' {
		t.Fatalf("step: got=(%q, %v)", b, err)
	}
	r.Reset()
	if r.emitted != 0 {
		t.Fatalf("emitted after reset: got=%d, want=0", r.emitted)
	}
	// The input keeps its position, so the reloaded program sees the
	// remaining byte.
	if err := r.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	r.out.Flush()
	if got := out.String(); got != "ab" {
		t.Fatalf("got=%q, want=%q", got, "ab")
	}
}

// After reduce returns, the dereferenced root is in weak head normal
// form: a value, a primitive, or an undersupplied application.
func TestReduceWHNF(t *testing.T) {
	r, _ := newTestRunner(exprI, "")
	h := r.heap
	// S x y with only two arguments cannot fire.
	partial := h.allocApply(h.allocApply(addrS, addrK), addrK)
	if err := r.reduce(partial); err != nil {
		t.Fatalf("reduce: %v", err)
	}
	n := h.get(h.deref(partial))
	if n.kind != kindApply {
		t.Fatalf("partial application: got kind=%d, want apply", n.kind)
	}
	// S K K x fires down to x.
	v := h.alloc(node{kind: kindNum, num: 7})
	full := h.allocApply(partial, v)
	if got := reduceToNum(t, r, full); got != 7 {
		t.Fatalf("skk x: got=%d, want=7", got)
	}
}

func TestRunnerIsConsole(t *testing.T) {
	var _ Console = NewRunner(exprI, strings.NewReader(""), io.Discard)
	var _ Console = NewDebugRunner(NewRunner(exprI, strings.NewReader(""), io.Discard))
}
