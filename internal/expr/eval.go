// ABOUTME: Recursive-descent evaluator for the restricted expression grammar
// ABOUTME: Fixed function/constant tables, depth-capped, no ambient state

package expr

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// maxDepth caps parser recursion so pathological nesting cannot blow the stack.
const maxDepth = 32

// functions is the closed set of callables the grammar accepts.
var functions = map[string]func(float64) float64{
	"sin":   math.Sin,
	"cos":   math.Cos,
	"tan":   math.Tan,
	"sqrt":  math.Sqrt,
	"log":   math.Log,
	"log10": math.Log10,
	"exp":   math.Exp,
}

// exprConstants are the identifiers usable inside expressions.
var exprConstants = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
}

var errEval = errors.New("expression error")

// evaluate runs the restricted grammar over already-normalized text.
// Any failure reports ok=false; the caller degrades to a generic reason.
func evaluate(text string) (float64, bool) {
	tokens, err := lex(text)
	if err != nil {
		return 0, false
	}
	p := &parser{tokens: tokens}
	v, err := p.parseExpr(0)
	if err != nil || !p.atEnd() {
		return 0, false
	}
	return v, true
}

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokIdent
	tokOp    // + - * / ^
	tokLParen
	tokRParen
)

type token struct {
	kind  tokenKind
	op    byte
	num   float64
	ident string
}

// lex splits normalized text into tokens. Identifiers are lowercased so
// SQRT(2) and sqrt(2) behave the same.
func lex(text string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(text) {
		c := text[i]
		switch {
		case c == '+' || c == '-' || c == '*' || c == '/' || c == '^':
			tokens = append(tokens, token{kind: tokOp, op: c})
			i++
		case c == '(':
			tokens = append(tokens, token{kind: tokLParen})
			i++
		case c == ')':
			tokens = append(tokens, token{kind: tokRParen})
			i++
		case c >= '0' && c <= '9' || c == '.':
			j := i
			for j < len(text) && (text[j] >= '0' && text[j] <= '9' || text[j] == '.') {
				j++
			}
			// Exponent suffix like 1e5 or 2.5e-3.
			if j < len(text) && (text[j] == 'e' || text[j] == 'E') {
				k := j + 1
				if k < len(text) && (text[k] == '+' || text[k] == '-') {
					k++
				}
				if k < len(text) && text[k] >= '0' && text[k] <= '9' {
					for k < len(text) && text[k] >= '0' && text[k] <= '9' {
						k++
					}
					j = k
				}
			}
			v, err := strconv.ParseFloat(text[i:j], 64)
			if err != nil {
				return nil, errEval
			}
			tokens = append(tokens, token{kind: tokNumber, num: v})
			i = j
		case unicode.IsLetter(rune(c)):
			j := i
			for j < len(text) && (unicode.IsLetter(rune(text[j])) || text[j] >= '0' && text[j] <= '9') {
				j++
			}
			tokens = append(tokens, token{kind: tokIdent, ident: strings.ToLower(text[i:j])})
			i = j
		default:
			return nil, errEval
		}
	}
	if len(tokens) == 0 {
		return nil, errEval
	}
	return tokens, nil
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) atEnd() bool {
	return p.pos >= len(p.tokens)
}

func (p *parser) peek() (token, bool) {
	if p.atEnd() {
		return token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *parser) next() (token, bool) {
	t, ok := p.peek()
	if ok {
		p.pos++
	}
	return t, ok
}

// parseExpr handles + and -.
func (p *parser) parseExpr(depth int) (float64, error) {
	if depth > maxDepth {
		return 0, errEval
	}
	v, err := p.parseTerm(depth + 1)
	if err != nil {
		return 0, err
	}
	for {
		t, ok := p.peek()
		if !ok || t.kind != tokOp || (t.op != '+' && t.op != '-') {
			return v, nil
		}
		p.pos++
		rhs, err := p.parseTerm(depth + 1)
		if err != nil {
			return 0, err
		}
		if t.op == '+' {
			v += rhs
		} else {
			v -= rhs
		}
	}
}

// parseTerm handles * and /.
func (p *parser) parseTerm(depth int) (float64, error) {
	if depth > maxDepth {
		return 0, errEval
	}
	v, err := p.parseUnary(depth + 1)
	if err != nil {
		return 0, err
	}
	for {
		t, ok := p.peek()
		if !ok || t.kind != tokOp || (t.op != '*' && t.op != '/') {
			return v, nil
		}
		p.pos++
		rhs, err := p.parseUnary(depth + 1)
		if err != nil {
			return 0, err
		}
		if t.op == '*' {
			v *= rhs
		} else {
			v /= rhs
		}
	}
}

// parseUnary handles a leading sign. The sign binds looser than ^,
// so -2^2 is -(2^2).
func (p *parser) parseUnary(depth int) (float64, error) {
	if depth > maxDepth {
		return 0, errEval
	}
	t, ok := p.peek()
	if ok && t.kind == tokOp && (t.op == '+' || t.op == '-') {
		p.pos++
		v, err := p.parseUnary(depth + 1)
		if err != nil {
			return 0, err
		}
		if t.op == '-' {
			return -v, nil
		}
		return v, nil
	}
	return p.parsePower(depth + 1)
}

// parsePower handles ^, right-associative.
func (p *parser) parsePower(depth int) (float64, error) {
	if depth > maxDepth {
		return 0, errEval
	}
	base, err := p.parsePrimary(depth + 1)
	if err != nil {
		return 0, err
	}
	t, ok := p.peek()
	if !ok || t.kind != tokOp || t.op != '^' {
		return base, nil
	}
	p.pos++
	exponent, err := p.parseUnary(depth + 1)
	if err != nil {
		return 0, err
	}
	return math.Pow(base, exponent), nil
}

// parsePrimary handles numbers, constants, function calls, and parentheses.
func (p *parser) parsePrimary(depth int) (float64, error) {
	if depth > maxDepth {
		return 0, errEval
	}
	t, ok := p.next()
	if !ok {
		return 0, errEval
	}
	switch t.kind {
	case tokNumber:
		return t.num, nil
	case tokIdent:
		if v, isConst := exprConstants[t.ident]; isConst {
			return v, nil
		}
		fn, isFn := functions[t.ident]
		if !isFn {
			return 0, errEval
		}
		open, ok := p.next()
		if !ok || open.kind != tokLParen {
			return 0, errEval
		}
		arg, err := p.parseExpr(depth + 1)
		if err != nil {
			return 0, err
		}
		closing, ok := p.next()
		if !ok || closing.kind != tokRParen {
			return 0, errEval
		}
		return fn(arg), nil
	case tokLParen:
		v, err := p.parseExpr(depth + 1)
		if err != nil {
			return 0, err
		}
		closing, ok := p.next()
		if !ok || closing.kind != tokRParen {
			return 0, errEval
		}
		return v, nil
	default:
		return 0, errEval
	}
}
