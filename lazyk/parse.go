package lazyk

import "fmt"

// The four source dialects. A program source is accepted by the first
// dialect that parses it completely, tried in this order.
//
// Lazy K:    case-insensitive s/k/i, parentheses, left-associative
//            juxtaposition, whitespace insensitive, '#' comments to end
//            of line.
// Unlambda:  '`' applies the following two terms, atoms are s/k/i.
// Iota:      '*' applies the following two terms, 'i' is the iota
//            combinator S(SI(KS))(KK).
// Jot:       a {0,1} string folded left from I.

// Parse parses src, auto-detecting the dialect.
func Parse(src []byte) (*Expr, error) {
	e, lazyErr := ParseLazyK(src)
	if lazyErr == nil {
		return e, nil
	}
	e, unlambdaErr := ParseUnlambda(src)
	if unlambdaErr == nil {
		return e, nil
	}
	e, iotaErr := ParseIota(src)
	if iotaErr == nil {
		return e, nil
	}
	e, jotErr := ParseJot(src)
	if jotErr == nil {
		return e, nil
	}
	return nil, fmt.Errorf("no dialect accepts the source: lazy k: %v, unlambda: %v, iota: %v, jot: %v",
		lazyErr, unlambdaErr, iotaErr, jotErr)
}

// Chain composes programs so that the input flows through them right to
// left: chaining P1, P2 builds a term that computes P1(P2(x)).
func Chain(exprs []*Expr) *Expr {
	if len(exprs) == 1 {
		return exprs[0]
	}
	acc := exprI
	for _, e := range exprs {
		acc = apply(apply(exprS, apply(exprK, acc)), e)
	}
	return acc
}

type parser struct {
	src []byte
	pos int
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *parser) peek() byte {
	return p.src[p.pos]
}

// skipSpace also discards '#' line comments when comments is true.
func (p *parser) skipSpace(comments bool) {
	for !p.eof() {
		switch c := p.peek(); {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			p.pos++
		case comments && c == '#':
			for !p.eof() && p.peek() != '\n' {
				p.pos++
			}
		default:
			return
		}
	}
}

func (p *parser) errorf(format string, a ...interface{}) error {
	return fmt.Errorf("offset %d: %s", p.pos, fmt.Sprintf(format, a...))
}

// ParseLazyK parses the Lazy K combinator grammar.
func ParseLazyK(src []byte) (*Expr, error) {
	p := &parser{src: src}
	e, err := p.lazyKExpr()
	if err != nil {
		return nil, err
	}
	p.skipSpace(true)
	if !p.eof() {
		return nil, p.errorf("unexpected %q", p.peek())
	}
	return e, nil
}

// lazyKExpr parses one or more terms and left-folds the juxtaposition.
func (p *parser) lazyKExpr() (*Expr, error) {
	e, err := p.lazyKTerm()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace(true)
		if p.eof() || p.peek() == ')' {
			return e, nil
		}
		r, err := p.lazyKTerm()
		if err != nil {
			return nil, err
		}
		e = apply(e, r)
	}
}

func (p *parser) lazyKTerm() (*Expr, error) {
	p.skipSpace(true)
	if p.eof() {
		return nil, p.errorf("unexpected end of source")
	}
	switch c := p.peek(); c {
	case 's', 'S':
		p.pos++
		return exprS, nil
	case 'k', 'K':
		p.pos++
		return exprK, nil
	case 'i', 'I':
		p.pos++
		return exprI, nil
	case '(':
		p.pos++
		e, err := p.lazyKExpr()
		if err != nil {
			return nil, err
		}
		p.skipSpace(true)
		if p.eof() || p.peek() != ')' {
			return nil, p.errorf("expected ')'")
		}
		p.pos++
		return e, nil
	default:
		return nil, p.errorf("unexpected %q", c)
	}
}

// ParseUnlambda parses the backtick prefix grammar.
func ParseUnlambda(src []byte) (*Expr, error) {
	p := &parser{src: src}
	e, err := p.unlambdaTerm()
	if err != nil {
		return nil, err
	}
	p.skipSpace(false)
	if !p.eof() {
		return nil, p.errorf("unexpected %q", p.peek())
	}
	return e, nil
}

func (p *parser) unlambdaTerm() (*Expr, error) {
	p.skipSpace(false)
	if p.eof() {
		return nil, p.errorf("unexpected end of source")
	}
	switch c := p.peek(); c {
	case 's':
		p.pos++
		return exprS, nil
	case 'k':
		p.pos++
		return exprK, nil
	case 'i':
		p.pos++
		return exprI, nil
	case '`':
		p.pos++
		l, err := p.unlambdaTerm()
		if err != nil {
			return nil, err
		}
		r, err := p.unlambdaTerm()
		if err != nil {
			return nil, err
		}
		return apply(l, r), nil
	default:
		return nil, p.errorf("unexpected %q", c)
	}
}

// iotaExpr is the iota combinator spelled in SKI: applied to x it
// computes x S K.
var iotaExpr = apply(
	apply(exprS, apply(apply(exprS, exprI), apply(exprK, exprS))),
	apply(exprK, exprK))

// ParseIota parses the '*' prefix grammar.
func ParseIota(src []byte) (*Expr, error) {
	p := &parser{src: src}
	e, err := p.iotaTerm()
	if err != nil {
		return nil, err
	}
	p.skipSpace(false)
	if !p.eof() {
		return nil, p.errorf("unexpected %q", p.peek())
	}
	return e, nil
}

func (p *parser) iotaTerm() (*Expr, error) {
	p.skipSpace(false)
	if p.eof() {
		return nil, p.errorf("unexpected end of source")
	}
	switch c := p.peek(); c {
	case 'i':
		p.pos++
		return iotaExpr, nil
	case '*':
		p.pos++
		l, err := p.iotaTerm()
		if err != nil {
			return nil, err
		}
		r, err := p.iotaTerm()
		if err != nil {
			return nil, err
		}
		return apply(l, r), nil
	default:
		return nil, p.errorf("unexpected %q", c)
	}
}

// ParseJot parses a {0,1} string, folding left from I:
// 0 appends S then K, 1 wraps the accumulator in S(K _).
func ParseJot(src []byte) (*Expr, error) {
	p := &parser{src: src}
	e := exprI
	for {
		p.skipSpace(false)
		if p.eof() {
			return e, nil
		}
		switch c := p.peek(); c {
		case '0':
			e = apply(apply(e, exprS), exprK)
		case '1':
			e = apply(exprS, apply(exprK, e))
		default:
			return nil, p.errorf("unexpected %q", c)
		}
		p.pos++
	}
}
