package engine

import "strconv"

// astNode is a node in the transient formula AST. Trees are built per
// evaluation call and discarded after producing a value or error.
type astNode interface {
	eval(ev *evaluator) (Value, error)
}

// numberNode is a numeric literal.
type numberNode struct {
	value float64
}

// stringNode is a double-quoted string literal.
type stringNode struct {
	value string
}

// cellNode is a single cell reference.
type cellNode struct {
	coord Coord
}

// rangeNode is a rectangular range named by two corner references.
type rangeNode struct {
	start Coord
	end   Coord
}

// binaryNode is one of the four arithmetic operators.
type binaryNode struct {
	op    byte
	left  astNode
	right astNode
}

// unaryNode is a prefix + or - applied to a factor.
type unaryNode struct {
	op      byte
	operand astNode
}

// callNode is a function call against the registry.
type callNode struct {
	name string
	args []astNode
}

// arrayNode is a bracketed literal like [[5,"x"],[6,"y"]], used for
// table-shaped function arguments.
type arrayNode struct {
	elems []astNode
}

// parser turns a token stream into an AST.
type parser struct {
	tokens []token
	pos    int
}

// parseFormula parses the body of a formula (text after the leading =)
// into an AST.
func parseFormula(body string) (astNode, error) {
	tokens, err := newLexer(body).tokenize()
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: tokens}
	node, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if p.current().typ != tokenEOF {
		return nil, newEvalError("unexpected token %q after expression", p.current().value)
	}
	return node, nil
}

func (p *parser) current() token {
	if p.pos >= len(p.tokens) {
		return token{typ: tokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *parser) advance() token {
	tok := p.current()
	p.pos++
	return tok
}

// parseExpression handles + and - (lowest precedence, left associative).
func (p *parser) parseExpression() (astNode, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.current()
		if tok.typ != tokenOperator || (tok.value != "+" && tok.value != "-") {
			return left, nil
		}
		p.advance()

		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: tok.value[0], left: left, right: right}
	}
}

// parseTerm handles * and /, which bind tighter than + and -.
func (p *parser) parseTerm() (astNode, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.current()
		if tok.typ != tokenOperator || (tok.value != "*" && tok.value != "/") {
			return left, nil
		}
		p.advance()

		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: tok.value[0], left: left, right: right}
	}
}

// parseFactor handles primaries and prefix signs.
func (p *parser) parseFactor() (astNode, error) {
	tok := p.current()

	if tok.typ == tokenOperator && (tok.value == "+" || tok.value == "-") {
		p.advance()
		operand, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return &unaryNode{op: tok.value[0], operand: operand}, nil
	}

	return p.parsePrimary()
}

func (p *parser) parsePrimary() (astNode, error) {
	tok := p.current()

	switch tok.typ {
	case tokenNumber:
		p.advance()
		value, err := strconv.ParseFloat(tok.value, 64)
		if err != nil {
			return nil, newEvalError("invalid number %q", tok.value)
		}
		return &numberNode{value: value}, nil

	case tokenString:
		p.advance()
		return &stringNode{value: tok.value}, nil

	case tokenCell:
		p.advance()
		coord, err := ParseRef(tok.value)
		if err != nil {
			return nil, err
		}
		return &cellNode{coord: coord}, nil

	case tokenRange:
		p.advance()
		start, end, err := ParseRange(tok.value)
		if err != nil {
			return nil, err
		}
		return &rangeNode{start: start, end: end}, nil

	case tokenFunction:
		return p.parseCall()

	case tokenLeftBracket:
		return p.parseArray()

	case tokenLeftParen:
		p.advance()
		node, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if p.current().typ != tokenRightParen {
			return nil, newEvalError("expected closing parenthesis")
		}
		p.advance()
		return node, nil

	case tokenEOF:
		return nil, newEvalError("unexpected end of formula")

	default:
		return nil, newEvalError("unexpected token %q", tok.value)
	}
}

// parseCall parses NAME(arg, arg, ...). The name is resolved against
// the registry at evaluation time, not here.
func (p *parser) parseCall() (astNode, error) {
	name := p.advance().value

	if p.current().typ != tokenLeftParen {
		return nil, newEvalError("expected ( after function name %s", name)
	}
	p.advance()

	var args []astNode
	if p.current().typ == tokenRightParen {
		p.advance()
		return &callNode{name: name, args: args}, nil
	}

	for {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		switch p.current().typ {
		case tokenComma:
			p.advance()
		case tokenRightParen:
			p.advance()
			return &callNode{name: name, args: args}, nil
		default:
			return nil, newEvalError("expected , or ) in arguments of %s", name)
		}
	}
}

// parseArray parses a bracketed literal. Elements may themselves be
// bracketed, which is how row-of-rows tables are written.
func (p *parser) parseArray() (astNode, error) {
	p.advance() // consume [

	var elems []astNode
	if p.current().typ == tokenRightBracket {
		p.advance()
		return &arrayNode{elems: elems}, nil
	}

	for {
		elem, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		elems = append(elems, elem)

		switch p.current().typ {
		case tokenComma:
			p.advance()
		case tokenRightBracket:
			p.advance()
			return &arrayNode{elems: elems}, nil
		default:
			return nil, newEvalError("expected , or ] in array literal")
		}
	}
}
