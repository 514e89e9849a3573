package luaparse

// tokenKind enumerates the lexical token kinds the scanner produces.
type tokenKind int

const (
	tkEOF tokenKind = iota
	tkError
	tkName
	tkNumber
	tkString

	// keywords
	tkAnd
	tkBreak
	tkDo
	tkElse
	tkElseif
	tkEnd
	tkFalse
	tkFor
	tkFunction
	tkIf
	tkIn
	tkLocal
	tkNil
	tkNot
	tkOr
	tkRepeat
	tkReturn
	tkThen
	tkTrue
	tkUntil
	tkWhile

	// punctuation & operators
	tkPlus
	tkMinus
	tkStar
	tkSlash
	tkPercent
	tkCaret
	tkHash
	tkEq
	tkNe
	tkLe
	tkGe
	tkLt
	tkGt
	tkAssign
	tkLParen
	tkRParen
	tkLBrace
	tkRBrace
	tkLBracket
	tkRBracket
	tkSemi
	tkColon
	tkComma
	tkDot
	tkConcat // ..
	tkEllipsis
)

var keywords = map[string]tokenKind{
	"and": tkAnd, "break": tkBreak, "do": tkDo, "else": tkElse,
	"elseif": tkElseif, "end": tkEnd, "false": tkFalse, "for": tkFor,
	"function": tkFunction, "if": tkIf, "in": tkIn, "local": tkLocal,
	"nil": tkNil, "not": tkNot, "or": tkOr, "repeat": tkRepeat,
	"return": tkReturn, "then": tkThen, "true": tkTrue, "until": tkUntil,
	"while": tkWhile,
}

type token struct {
	kind tokenKind
	text string
	lo   int
	hi   int
}
