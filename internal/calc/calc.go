// Package calc evaluates plain arithmetic expressions.
//
// The grammar covers numeric literals (including scientific notation) and
// the operators + - * / ** with parentheses and unary minus. Nothing else is
// reachable: there are no identifiers, no function calls, and no ambient
// names, so an expression can compute a number or fail, never execute code.
package calc

import (
	"fmt"
	"math"
	"strconv"
)

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokPower
	tokLParen
	tokRParen
	tokEOF
)

type token struct {
	kind  tokenKind
	value float64
	pos   int
}

// Evaluate parses and evaluates an arithmetic expression.
func Evaluate(expr string) (float64, error) {
	tokens, err := tokenize(expr)
	if err != nil {
		return 0, err
	}

	p := &parser{tokens: tokens}
	result, err := p.parseExpr()
	if err != nil {
		return 0, err
	}

	if tok := p.peek(); tok.kind != tokEOF {
		return 0, fmt.Errorf("unexpected input at position %d", tok.pos)
	}

	if math.IsInf(result, 0) || math.IsNaN(result) {
		return 0, fmt.Errorf("result is not a finite number")
	}

	return result, nil
}

// Format renders a result the way the agent protocol expects: integral
// values without a trailing ".0", everything else in shortest form.
func Format(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func tokenize(expr string) ([]token, error) {
	var tokens []token

	i := 0
	for i < len(expr) {
		ch := expr[i]

		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			i++
		case ch >= '0' && ch <= '9' || ch == '.':
			start := i
			i = scanNumber(expr, i)
			value, err := strconv.ParseFloat(expr[start:i], 64)
			if err != nil {
				return nil, fmt.Errorf("invalid number %q at position %d", expr[start:i], start)
			}
			tokens = append(tokens, token{kind: tokNumber, value: value, pos: start})
		case ch == '+':
			tokens = append(tokens, token{kind: tokPlus, pos: i})
			i++
		case ch == '-':
			tokens = append(tokens, token{kind: tokMinus, pos: i})
			i++
		case ch == '*':
			if i+1 < len(expr) && expr[i+1] == '*' {
				tokens = append(tokens, token{kind: tokPower, pos: i})
				i += 2
			} else {
				tokens = append(tokens, token{kind: tokStar, pos: i})
				i++
			}
		case ch == '/':
			tokens = append(tokens, token{kind: tokSlash, pos: i})
			i++
		case ch == '(':
			tokens = append(tokens, token{kind: tokLParen, pos: i})
			i++
		case ch == ')':
			tokens = append(tokens, token{kind: tokRParen, pos: i})
			i++
		default:
			return nil, fmt.Errorf("unexpected character %q at position %d", string(ch), i)
		}
	}

	tokens = append(tokens, token{kind: tokEOF, pos: len(expr)})
	return tokens, nil
}

// scanNumber consumes digits, one decimal point, and an optional exponent
// (e.g. 5.972e24) starting at i, returning the index past the literal.
func scanNumber(expr string, i int) int {
	seenDot := false
	for i < len(expr) {
		ch := expr[i]
		if ch >= '0' && ch <= '9' {
			i++
			continue
		}
		if ch == '.' && !seenDot {
			seenDot = true
			i++
			continue
		}
		if (ch == 'e' || ch == 'E') && i+1 < len(expr) {
			next := expr[i+1]
			if next >= '0' && next <= '9' {
				i += 2
				continue
			}
			if (next == '+' || next == '-') && i+2 < len(expr) && expr[i+2] >= '0' && expr[i+2] <= '9' {
				i += 3
				continue
			}
		}
		break
	}
	return i
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

// parseExpr handles + and - (lowest precedence, left-associative).
func (p *parser) parseExpr() (float64, error) {
	left, err := p.parseTerm()
	if err != nil {
		return 0, err
	}

	for {
		switch p.peek().kind {
		case tokPlus:
			p.next()
			right, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			left += right
		case tokMinus:
			p.next()
			right, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			left -= right
		default:
			return left, nil
		}
	}
}

// parseTerm handles * and / (left-associative).
func (p *parser) parseTerm() (float64, error) {
	left, err := p.parseUnary()
	if err != nil {
		return 0, err
	}

	for {
		switch p.peek().kind {
		case tokStar:
			p.next()
			right, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			left *= right
		case tokSlash:
			p.next()
			right, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			if right == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			left /= right
		default:
			return left, nil
		}
	}
}

// parseUnary handles a leading minus. The minus binds looser than ** on its
// left, so -2**2 evaluates to -(2**2).
func (p *parser) parseUnary() (float64, error) {
	if p.peek().kind == tokMinus {
		p.next()
		v, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		return -v, nil
	}
	return p.parsePower()
}

// parsePower handles ** (right-associative; the exponent may be signed).
func (p *parser) parsePower() (float64, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return 0, err
	}

	if p.peek().kind == tokPower {
		p.next()
		exp, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		return math.Pow(base, exp), nil
	}

	return base, nil
}

func (p *parser) parsePrimary() (float64, error) {
	tok := p.next()

	switch tok.kind {
	case tokNumber:
		return tok.value, nil
	case tokLParen:
		v, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return 0, fmt.Errorf("missing closing parenthesis at position %d", closing.pos)
		}
		return v, nil
	case tokEOF:
		return 0, fmt.Errorf("unexpected end of expression")
	default:
		return 0, fmt.Errorf("unexpected token at position %d", tok.pos)
	}
}
