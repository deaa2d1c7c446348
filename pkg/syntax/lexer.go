package syntax

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// lexer turns source text into tokens. It is used once per Parse call.
type lexer struct {
	src  string
	off  int
	line int
	col  int
}

// tokenize scans the whole source. The returned slice always ends with a
// TokenEOF token.
func tokenize(src string) ([]Token, error) {
	lx := &lexer{src: src, line: 1, col: 1}
	var toks []Token
	for {
		tok, err := lx.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == TokenEOF {
			return toks, nil
		}
	}
}

func (lx *lexer) pos() Position {
	return Position{Line: lx.line, Column: lx.col, Offset: lx.off}
}

func (lx *lexer) peek() rune {
	if lx.off >= len(lx.src) {
		return utf8.RuneError
	}
	r, _ := utf8.DecodeRuneInString(lx.src[lx.off:])
	return r
}

func (lx *lexer) peekAt(n int) rune {
	off := lx.off
	for i := 0; i < n; i++ {
		if off >= len(lx.src) {
			return utf8.RuneError
		}
		_, size := utf8.DecodeRuneInString(lx.src[off:])
		off += size
	}
	if off >= len(lx.src) {
		return utf8.RuneError
	}
	r, _ := utf8.DecodeRuneInString(lx.src[off:])
	return r
}

func (lx *lexer) advance() rune {
	r, size := utf8.DecodeRuneInString(lx.src[lx.off:])
	lx.off += size
	if r == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}
	return r
}

func (lx *lexer) atEnd() bool {
	return lx.off >= len(lx.src)
}

func (lx *lexer) skipSpaceAndComments() {
	for !lx.atEnd() {
		r := lx.peek()
		switch {
		case unicode.IsSpace(r):
			lx.advance()
		case r == '#':
			for !lx.atEnd() && lx.peek() != '\n' {
				lx.advance()
			}
		default:
			return
		}
	}
}

func (lx *lexer) next() (Token, error) {
	lx.skipSpaceAndComments()
	start := lx.pos()
	if lx.atEnd() {
		return Token{Kind: TokenEOF, Pos: start}, nil
	}

	r := lx.peek()
	switch {
	case isIdentStart(r):
		return lx.ident(start), nil
	case isDigit(r), r == '-', r == '.' && isDigit(lx.peekAt(1)):
		return lx.number(start)
	case r == '"':
		return lx.str(start)
	}

	lx.advance()
	kind, ok := punctuation[r]
	if !ok {
		return Token{}, errorAt(start, "unexpected character %q", r)
	}
	return Token{Kind: kind, Text: string(r), Pos: start}, nil
}

var punctuation = map[rune]TokenKind{
	'{': TokenLBrace,
	'}': TokenRBrace,
	'(': TokenLParen,
	')': TokenRParen,
	',': TokenComma,
	'=': TokenEquals,
	';': TokenSemicolon,
}

func (lx *lexer) ident(start Position) Token {
	for !lx.atEnd() && isIdentPart(lx.peek()) {
		lx.advance()
	}
	return Token{Kind: TokenIdent, Text: lx.src[start.Offset:lx.off], Pos: start}
}

func (lx *lexer) number(start Position) (Token, error) {
	if lx.peek() == '-' {
		lx.advance()
		if !isDigit(lx.peek()) && !(lx.peek() == '.' && isDigit(lx.peekAt(1))) {
			return Token{}, errorAt(start, "unexpected character '-'")
		}
	}
	kind := TokenInt
	for !lx.atEnd() && isDigit(lx.peek()) {
		lx.advance()
	}
	if lx.peek() == '.' && isDigit(lx.peekAt(1)) {
		kind = TokenFloat
		lx.advance()
		for !lx.atEnd() && isDigit(lx.peek()) {
			lx.advance()
		}
	}
	if !lx.atEnd() && isIdentStart(lx.peek()) {
		return Token{}, errorAt(lx.pos(), "unexpected character %q after number", lx.peek())
	}
	return Token{Kind: kind, Text: lx.src[start.Offset:lx.off], Pos: start}, nil
}

func (lx *lexer) str(start Position) (Token, error) {
	lx.advance() // opening quote
	var b strings.Builder
	for {
		if lx.atEnd() || lx.peek() == '\n' {
			return Token{}, errorAt(start, "unterminated string")
		}
		r := lx.advance()
		switch r {
		case '"':
			return Token{Kind: TokenString, Text: b.String(), Pos: start}, nil
		case '\\':
			if lx.atEnd() {
				return Token{}, errorAt(start, "unterminated string")
			}
			esc := lx.advance()
			switch esc {
			case '"', '\\':
				b.WriteRune(esc)
			case 'n':
				b.WriteRune('\n')
			case 't':
				b.WriteRune('\t')
			default:
				return Token{}, errorAt(start, "unknown escape sequence \\%c", esc)
			}
		default:
			b.WriteRune(r)
		}
	}
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || isDigit(r) || r == '-'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
