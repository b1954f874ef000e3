package parser

import (
	"strconv"
	"strings"

	"github.com/roach88/perspective/internal/catalog"
	"github.com/roach88/perspective/internal/function"
	"github.com/roach88/perspective/internal/ir"
	"github.com/roach88/perspective/internal/queryir"
)

// FunctionLookup resolves function names. *function.Registry satisfies it.
type FunctionLookup interface {
	Lookup(name string) (function.Function, error)
}

// Parser turns query text into validated statements.
//
// A Parser holds only read-only collaborators and is safe for
// concurrent use. Each Parse call works on its own token stream.
type Parser struct {
	catalog   *catalog.Catalog
	functions FunctionLookup
}

// New creates a parser resolving tables against cat and functions
// against functions.
func New(cat *catalog.Catalog, functions FunctionLookup) *Parser {
	return &Parser{catalog: cat, functions: functions}
}

// Parse parses one statement:
//
//	SELECT expr [, expr]* FROM table
//	  [[INNER | LEFT [OUTER]] JOIN table ON col = col [AND col = col]*]*
//	  [WHERE col IN (literal [, literal]*) [AND ...]*]
//	  [ORDER BY col [ASC]] [;]
//
// where expr is a qualified column, a literal or NAME(expr, ...).
// "col = literal" in WHERE is shorthand for a one-element IN list.
//
// Parsing has no side effects: the same text always yields an equal
// Statement or the same error.
func (p *Parser) Parse(text string) (*queryir.Statement, error) {
	tokens, err := Tokenize(text)
	if err != nil {
		return nil, err
	}

	s := &state{tokens: tokens, functions: p.functions, b: queryir.NewBuilder(p.catalog)}
	if err := s.statement(); err != nil {
		return nil, err
	}
	return s.b.Build()
}

// state is the cursor of a single Parse call.
type state struct {
	tokens    []Token
	pos       int
	functions FunctionLookup
	b         *queryir.Builder
}

func (s *state) peek() Token {
	return s.tokens[s.pos]
}

func (s *state) next() Token {
	tok := s.tokens[s.pos]
	if tok.Type != EOF {
		s.pos++
	}
	return tok
}

func (s *state) expect(t TokenType) (Token, error) {
	tok := s.next()
	if tok.Type != t {
		return tok, unexpected(tok, t.String())
	}
	return tok, nil
}

func (s *state) expectKeyword(keyword string) error {
	if tok := s.next(); !tok.Is(keyword) {
		return unexpected(tok, keyword)
	}
	return nil
}

// acceptKeyword consumes the keyword if it is next.
func (s *state) acceptKeyword(keyword string) bool {
	if s.peek().Is(keyword) {
		s.pos++
		return true
	}
	return false
}

func (s *state) statement() error {
	if err := s.expectKeyword("SELECT"); err != nil {
		return err
	}
	if err := s.projection(); err != nil {
		return err
	}

	if err := s.expectKeyword("FROM"); err != nil {
		return err
	}
	source, err := s.expect(IDENTIFIER)
	if err != nil {
		return err
	}
	s.b.From(source.Text)

	for {
		tok := s.peek()
		if !tok.Is("INNER") && !tok.Is("LEFT") && !tok.Is("JOIN") {
			break
		}
		if err := s.join(); err != nil {
			return err
		}
	}

	if s.acceptKeyword("WHERE") {
		if err := s.where(); err != nil {
			return err
		}
	}

	if s.acceptKeyword("ORDER") {
		if err := s.expectKeyword("BY"); err != nil {
			return err
		}
		ref, err := s.column()
		if err != nil {
			return err
		}
		s.acceptKeyword("ASC")
		s.b.OrderBy(ref.Qualified())
	}

	if s.peek().Type == SEMICOLON {
		s.next()
	}
	if tok := s.next(); tok.Type != EOF {
		return unexpected(tok, EOF.String())
	}
	return nil
}

func (s *state) projection() error {
	for {
		expr, err := s.expr()
		if err != nil {
			return err
		}
		s.b.SelectExpr(expr)

		if s.peek().Type != COMMA {
			return nil
		}
		s.next()
	}
}

// expr parses a column reference, literal or function call.
func (s *state) expr() (queryir.Expr, error) {
	tok := s.peek()
	switch {
	case tok.Type == IDENTIFIER && s.tokens[s.pos+1].Type == LPAREN:
		return s.call()
	case tok.Type == IDENTIFIER:
		return s.column()
	default:
		v, err := s.literal()
		if err != nil {
			return nil, err
		}
		return queryir.Literal{Value: v}, nil
	}
}

func (s *state) call() (queryir.Expr, error) {
	name := s.next()
	fn, err := s.functions.Lookup(name.Text)
	if err != nil {
		return nil, (&queryir.IllegalQueryError{
			Code:       queryir.ErrCodeFunction,
			Message:    "unknown function " + name.Text,
			Violations: []string{"unknown function " + name.Text},
			Err:        err,
		}).WithDetail("position", strconv.Itoa(name.Pos))
	}
	s.next() // (

	var args []queryir.Expr
	if s.peek().Type != RPAREN {
		for {
			arg, err := s.expr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if s.peek().Type != COMMA {
				break
			}
			s.next()
		}
	}
	if _, err := s.expect(RPAREN); err != nil {
		return nil, err
	}

	call := queryir.Call{Function: fn, Args: args}
	if err := queryir.CheckCall(call); err != nil {
		return nil, err
	}
	return call, nil
}

// column parses table.column. Keywords are allowed after the dot.
func (s *state) column() (queryir.ColumnRef, error) {
	table, err := s.expect(IDENTIFIER)
	if err != nil {
		return queryir.ColumnRef{}, err
	}
	if tok := s.peek(); tok.Type != DOT {
		return queryir.ColumnRef{}, syntaxError(tok.Pos,
			"column %q must be qualified as table.column", table.Text)
	}
	s.next()

	col := s.next()
	if col.Type != IDENTIFIER && col.Type != KEYWORD {
		return queryir.ColumnRef{}, unexpected(col, "column name")
	}
	return queryir.ColumnRef{Table: table.Text, Column: col.Text}, nil
}

func (s *state) literal() (ir.Value, error) {
	tok := s.next()
	switch {
	case tok.Type == STRING:
		return ir.NewString(tok.Text), nil
	case tok.Type == NUMBER:
		return number(tok, false)
	case tok.Type == MINUS:
		num, err := s.expect(NUMBER)
		if err != nil {
			return nil, err
		}
		return number(num, true)
	case tok.Is("NULL"):
		return ir.Null{}, nil
	default:
		return nil, unexpected(tok, "expression")
	}
}

func number(tok Token, negative bool) (ir.Value, error) {
	text := tok.Text
	if negative {
		text = "-" + text
	}
	if !strings.ContainsAny(text, ".eE") {
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, syntaxError(tok.Pos, "integer %s out of range", text)
		}
		return ir.NewInt(n), nil
	}
	f, ok := ir.ParseNumber(text)
	if !ok {
		return nil, syntaxError(tok.Pos, "number %s out of range", text)
	}
	return ir.NewFloat(f), nil
}

// join parses one join clause with its ON conditions.
func (s *state) join() error {
	kind := queryir.JoinInner
	switch {
	case s.acceptKeyword("INNER"):
	case s.acceptKeyword("LEFT"):
		kind = queryir.JoinLeft
		s.acceptKeyword("OUTER")
	}
	if err := s.expectKeyword("JOIN"); err != nil {
		return err
	}

	table, err := s.expect(IDENTIFIER)
	if err != nil {
		return err
	}
	if kind == queryir.JoinLeft {
		s.b.LeftJoin(table.Text)
	} else {
		s.b.InnerJoin(table.Text)
	}

	if err := s.expectKeyword("ON"); err != nil {
		return err
	}
	for {
		left, err := s.column()
		if err != nil {
			return err
		}
		if _, err := s.expect(EQUALS); err != nil {
			return err
		}
		right, err := s.column()
		if err != nil {
			return err
		}
		s.b.On(left.Qualified(), right.Qualified())

		if !s.acceptKeyword("AND") {
			return nil
		}
	}
}

// where parses AND-separated membership tests.
func (s *state) where() error {
	for {
		col, err := s.column()
		if err != nil {
			return err
		}

		var values []ir.Value
		switch tok := s.next(); {
		case tok.Type == EQUALS:
			v, err := s.filterValue()
			if err != nil {
				return err
			}
			values = append(values, v)
		case tok.Is("IN"):
			if _, err := s.expect(LPAREN); err != nil {
				return err
			}
			for {
				v, err := s.filterValue()
				if err != nil {
					return err
				}
				values = append(values, v)
				if s.peek().Type != COMMA {
					break
				}
				s.next()
			}
			if _, err := s.expect(RPAREN); err != nil {
				return err
			}
		default:
			return unexpected(tok, "IN or '='")
		}
		s.b.Where(col.Qualified(), values...)

		if !s.acceptKeyword("AND") {
			return nil
		}
	}
}

func (s *state) filterValue() (ir.Value, error) {
	pos := s.peek().Pos
	v, err := s.literal()
	if err != nil {
		return nil, err
	}
	if ir.IsNull(v) {
		return nil, (&queryir.IllegalQueryError{
			Code:       queryir.ErrCodeBadFilter,
			Message:    "NULL is not allowed in a filter value list",
			Violations: []string{"NULL is not allowed in a filter value list"},
		}).WithDetail("position", strconv.Itoa(pos))
	}
	return v, nil
}
