// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package formula

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/UNO-SOFT/sheetedit"
)

type tokenKind uint8

const (
	tokNumber tokenKind = iota
	tokRef
	tokOp
)

type token struct {
	kind tokenKind
	text string
	pos  int
	num  float64
	// row and col of a reference, 0-based
	row, col int
	// valid is false for references outside of any sheet (A0, too many letters)
	valid bool
}

var errUnexpectedEnd = errors.New("unexpected end of formula")

func isDigit(c byte) bool { return '0' <= c && c <= '9' }
func isUpper(c byte) bool { return 'A' <= c && c <= 'Z' }

func lex(s string) ([]token, error) {
	var toks []token
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '+' || c == '-' || c == '*' || c == '/' || c == '(' || c == ')':
			toks = append(toks, token{kind: tokOp, text: s[i : i+1], pos: i})
			i++
		case isDigit(c) || c == '.':
			j := i
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			if j < len(s) && s[j] == '.' {
				j++
				for j < len(s) && isDigit(s[j]) {
					j++
				}
			}
			if j < len(s) && (s[j] == 'e' || s[j] == 'E') {
				k := j + 1
				if k < len(s) && (s[k] == '+' || s[k] == '-') {
					k++
				}
				if k < len(s) && isDigit(s[k]) {
					for k < len(s) && isDigit(s[k]) {
						k++
					}
					j = k
				}
			}
			f, err := strconv.ParseFloat(s[i:j], 64)
			if err != nil {
				return nil, &EvalError{Formula: s, Pos: i, Err: err}
			}
			toks = append(toks, token{kind: tokNumber, text: s[i:j], pos: i, num: f})
			i = j
		case isUpper(c):
			j := i
			for j < len(s) && isUpper(s[j]) {
				j++
			}
			k := j
			for k < len(s) && isDigit(s[k]) {
				k++
			}
			if k == j {
				return nil, &EvalError{Formula: s, Pos: i, Err: fmt.Errorf("unknown name %q", s[i:j])}
			}
			tok := token{kind: tokRef, text: s[i:k], pos: i}
			col, colErr := sheetedit.ColumnIndex(s[i:j])
			row, rowErr := strconv.Atoi(s[j:k])
			if colErr == nil && rowErr == nil && row > 0 {
				tok.row, tok.col, tok.valid = row-1, col, true
			}
			toks = append(toks, tok)
			i = k
		default:
			return nil, &EvalError{Formula: s, Pos: i, Err: fmt.Errorf("unexpected %q", c)}
		}
	}
	return toks, nil
}

// parser is a recursive-descent evaluator of
//
//	expr   = term { ("+" | "-") term }
//	term   = unary { ("*" | "/") unary }
//	unary  = ("+" | "-") unary | primary
//	primary = number | reference | "(" expr ")"
type parser struct {
	src  CellSource
	toks []token
	i    int
}

func (p *parser) pos() int {
	if p.i < len(p.toks) {
		return p.toks[p.i].pos
	}
	if len(p.toks) == 0 {
		return 0
	}
	last := p.toks[len(p.toks)-1]
	return last.pos + len(last.text)
}

func (p *parser) peekOp(ops ...string) (string, bool) {
	if p.i >= len(p.toks) || p.toks[p.i].kind != tokOp {
		return "", false
	}
	for _, op := range ops {
		if p.toks[p.i].text == op {
			return op, true
		}
	}
	return "", false
}

func (p *parser) expr() (float64, error) {
	f, err := p.term()
	if err != nil {
		return 0, err
	}
	for {
		op, ok := p.peekOp("+", "-")
		if !ok {
			return f, nil
		}
		p.i++
		g, err := p.term()
		if err != nil {
			return 0, err
		}
		if op == "+" {
			f += g
		} else {
			f -= g
		}
	}
}

func (p *parser) term() (float64, error) {
	f, err := p.unary()
	if err != nil {
		return 0, err
	}
	for {
		op, ok := p.peekOp("*", "/")
		if !ok {
			return f, nil
		}
		p.i++
		g, err := p.unary()
		if err != nil {
			return 0, err
		}
		if op == "*" {
			f *= g
		} else {
			f /= g
		}
	}
}

func (p *parser) unary() (float64, error) {
	if op, ok := p.peekOp("+", "-"); ok {
		p.i++
		f, err := p.unary()
		if op == "-" {
			f = -f
		}
		return f, err
	}
	return p.primary()
}

func (p *parser) primary() (float64, error) {
	if p.i >= len(p.toks) {
		return 0, errUnexpectedEnd
	}
	tok := p.toks[p.i]
	switch tok.kind {
	case tokNumber:
		p.i++
		return tok.num, nil
	case tokRef:
		p.i++
		if !tok.valid {
			return 0, nil
		}
		return CellValue(p.src, tok.row, tok.col), nil
	}
	if tok.text != "(" {
		return 0, fmt.Errorf("unexpected %q", tok.text)
	}
	p.i++
	f, err := p.expr()
	if err != nil {
		return 0, err
	}
	if _, ok := p.peekOp(")"); !ok {
		if p.i >= len(p.toks) {
			return 0, errUnexpectedEnd
		}
		return 0, fmt.Errorf("unexpected %q, wanted )", p.toks[p.i].text)
	}
	p.i++
	return f, nil
}
