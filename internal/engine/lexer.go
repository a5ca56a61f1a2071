package engine

import "strings"

// tokenType classifies a lexical token in a formula.
type tokenType int

const (
	tokenEOF tokenType = iota
	tokenNumber
	tokenString
	tokenCell
	tokenRange
	tokenFunction
	tokenOperator
	tokenComma
	tokenLeftParen
	tokenRightParen
	tokenLeftBracket
	tokenRightBracket
)

// token is a lexical token with its byte position in the input, kept
// for error messages.
type token struct {
	typ   tokenType
	value string
	pos   int
}

// lexer tokenizes the body of a formula (the text after the leading =).
type lexer struct {
	input      string
	pos        int
	parenDepth int
}

func newLexer(input string) *lexer {
	return &lexer{input: input}
}

// tokenize scans the whole input. The returned slice always ends with
// a tokenEOF token on success.
func (l *lexer) tokenize() ([]token, error) {
	var tokens []token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.typ == tokenEOF {
			break
		}
	}
	if l.parenDepth > 0 {
		return nil, newEvalError("missing closing parenthesis")
	}
	return tokens, nil
}

func (l *lexer) next() (token, error) {
	l.skipWhitespace()

	if l.pos >= len(l.input) {
		return token{typ: tokenEOF, pos: l.pos}, nil
	}

	start := l.pos
	ch := l.input[l.pos]

	switch {
	case ch == '"':
		return l.scanString()
	case isDigit(ch) || (ch == '.' && l.pos+1 < len(l.input) && isDigit(l.input[l.pos+1])):
		return l.scanNumber(), nil
	case isLetter(ch):
		return l.scanIdentifier()
	}

	switch ch {
	case '+', '-', '*', '/':
		l.pos++
		return token{typ: tokenOperator, value: string(ch), pos: start}, nil
	case ',':
		l.pos++
		return token{typ: tokenComma, value: ",", pos: start}, nil
	case '(':
		l.pos++
		l.parenDepth++
		return token{typ: tokenLeftParen, value: "(", pos: start}, nil
	case ')':
		l.pos++
		l.parenDepth--
		if l.parenDepth < 0 {
			return token{}, newEvalError("unexpected closing parenthesis at position %d", start)
		}
		return token{typ: tokenRightParen, value: ")", pos: start}, nil
	case '[':
		l.pos++
		return token{typ: tokenLeftBracket, value: "[", pos: start}, nil
	case ']':
		l.pos++
		return token{typ: tokenRightBracket, value: "]", pos: start}, nil
	}

	return token{}, newEvalError("unexpected character %q at position %d", string(ch), start)
}

func (l *lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		switch l.input[l.pos] {
		case ' ', '\t', '\n', '\r':
			l.pos++
		default:
			return
		}
	}
}

// scanNumber scans an integer or decimal literal.
func (l *lexer) scanNumber() token {
	start := l.pos
	for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
		l.pos++
	}
	if l.pos < len(l.input) && l.input[l.pos] == '.' {
		l.pos++
		for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
			l.pos++
		}
	}
	return token{typ: tokenNumber, value: l.input[start:l.pos], pos: start}
}

// scanString scans a double-quoted string literal. A doubled quote is
// an escaped quote.
func (l *lexer) scanString() (token, error) {
	start := l.pos
	l.pos++ // opening quote

	var b strings.Builder
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch == '"' {
			if l.pos+1 < len(l.input) && l.input[l.pos+1] == '"' {
				b.WriteByte('"')
				l.pos += 2
				continue
			}
			l.pos++ // closing quote
			return token{typ: tokenString, value: b.String(), pos: start}, nil
		}
		b.WriteByte(ch)
		l.pos++
	}
	return token{}, newEvalError("unclosed string literal at position %d", start)
}

// scanIdentifier scans a run of letters and digits and classifies it:
// letters followed by ( is a function name, letters followed by digits
// is a cell reference (possibly extended to a range by a colon), and
// anything else is an error.
func (l *lexer) scanIdentifier() (token, error) {
	start := l.pos
	for l.pos < len(l.input) && (isLetter(l.input[l.pos]) || isDigit(l.input[l.pos])) {
		l.pos++
	}
	value := strings.ToUpper(l.input[start:l.pos])

	if isCellLabel(value) {
		// check for a range: A1:B2 lexes as a single token
		if l.pos < len(l.input) && l.input[l.pos] == ':' {
			saved := l.pos
			l.pos++ // consume ':'
			secondStart := l.pos
			for l.pos < len(l.input) && (isLetter(l.input[l.pos]) || isDigit(l.input[l.pos])) {
				l.pos++
			}
			second := strings.ToUpper(l.input[secondStart:l.pos])
			if isCellLabel(second) {
				return token{typ: tokenRange, value: value + ":" + second, pos: start}, nil
			}
			l.pos = saved
		}
		return token{typ: tokenCell, value: value, pos: start}, nil
	}

	if l.pos < len(l.input) && l.input[l.pos] == '(' {
		return token{typ: tokenFunction, value: strings.ToUpper(value), pos: start}, nil
	}

	return token{}, newEvalError("unexpected identifier %q at position %d", value, start)
}

// isCellLabel reports whether s matches [A-Z]+[0-9]+.
func isCellLabel(s string) bool {
	letterEnd := 0
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			letterEnd = i + 1
		} else {
			break
		}
	}
	if letterEnd == 0 || letterEnd == len(s) {
		return false
	}
	for i := letterEnd; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isLetter(ch byte) bool {
	return (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z')
}
