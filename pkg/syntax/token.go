package syntax

import (
	"fmt"
	"strings"
)

// TokenKind identifies the type of a lexical token.
type TokenKind int

const (
	TokenEOF       TokenKind = iota
	TokenIdent               // [A-Za-z_][A-Za-z0-9_-]*
	TokenString              // "..." with escape processing
	TokenInt                 // -?[0-9]+
	TokenFloat               // -?[0-9]*.[0-9]+
	TokenLBrace              // {
	TokenRBrace              // }
	TokenLParen              // (
	TokenRParen              // )
	TokenComma               // ,
	TokenEquals              // =
	TokenSemicolon           // ;
)

var tokenNames = map[TokenKind]string{
	TokenEOF:       "end of input",
	TokenIdent:     "identifier",
	TokenString:    "string",
	TokenInt:       "integer",
	TokenFloat:     "float",
	TokenLBrace:    "'{'",
	TokenRBrace:    "'}'",
	TokenLParen:    "'('",
	TokenRParen:    "')'",
	TokenComma:     "','",
	TokenEquals:    "'='",
	TokenSemicolon: "';'",
}

func (k TokenKind) String() string {
	if name, ok := tokenNames[k]; ok {
		return name
	}
	return "unknown"
}

// Position locates a token in the source. Line and Column are 1-based,
// Offset is the 0-based byte offset.
type Position struct {
	Line   int
	Column int
	Offset int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is a single lexical unit produced by the lexer.
type Token struct {
	Kind TokenKind
	Text string // decoded for strings, raw for everything else
	Pos  Position
}

// describe renders the token for error messages.
func (t Token) describe() string {
	switch t.Kind {
	case TokenEOF:
		return "end of input"
	case TokenIdent:
		return fmt.Sprintf("'%s'", t.Text)
	case TokenString:
		return fmt.Sprintf("%q", t.Text)
	case TokenInt, TokenFloat:
		return t.Text
	default:
		return t.Kind.String()
	}
}

// Reserved words. Matching is case-insensitive.
const (
	kwAnd       = "and"
	kwOr        = "or"
	kwNot       = "not"
	kwLayout    = "layout"
	kwLay       = "lay"
	kwOut       = "out"
	kwGraph     = "graph"
	kwSubgraph  = "subgraph"
	kwOthers    = "others"
	kwStyle     = "style"
	kwAlgorithm = "algorithm"
	kwCriteria  = "criteria"
	kwTrue      = "true"
	kwFalse     = "false"
)

var keywords = map[string]bool{
	kwAnd:       true,
	kwOr:        true,
	kwNot:       true,
	kwLayout:    true,
	kwLay:       true,
	kwOut:       true,
	kwGraph:     true,
	kwSubgraph:  true,
	kwOthers:    true,
	kwStyle:     true,
	kwAlgorithm: true,
	kwCriteria:  true,
	kwTrue:      true,
	kwFalse:     true,
}

// IsKeyword reports whether word is reserved by the grammar.
func IsKeyword(word string) bool {
	return keywords[strings.ToLower(word)]
}

// is reports whether t is the identifier kw, ignoring case.
func (t Token) is(kw string) bool {
	return t.Kind == TokenIdent && strings.EqualFold(t.Text, kw)
}

// isWord reports whether t is a plain, non-reserved identifier.
func (t Token) isWord() bool {
	return t.Kind == TokenIdent && !IsKeyword(t.Text)
}
