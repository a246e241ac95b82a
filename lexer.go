package prolog

import (
	"fmt"
	"math/big"
	"strings"
	"unicode"
	"unicode/utf8"
)

// tokenKind classifies a single lexical token produced by the lexer.
type tokenKind int

const (
	tokEOF tokenKind = iota
	tokAtom
	tokVariable
	tokInteger
	tokFloat
	tokString
	tokBackQuote
	tokPunct  // ( ) [ ] { } |
	tokOpenCT // '(' immediately following an atom with no space: functor application
	tokEnd    // clause-terminating '.'
)

type token struct {
	kind tokenKind
	text string
	ival *big.Int
	fval float64
	pos  int
	line int
}

// lexer tokenizes Prolog source text one rune at a time. Grounded on the
// scanning style of cbarrick-ripl's reader (hand-written rune scanner, no
// regexp/text-scanner dependency), since operator-precedence parsing needs
// precise control over what counts as "no space before '('".
type lexer struct {
	src  string
	pos  int
	line int
}

func newLexer(src string) *lexer {
	return &lexer{src: src, line: 1}
}

func (l *lexer) peekRune() (rune, int) {
	if l.pos >= len(l.src) {
		return 0, 0
	}
	r, size := utf8.DecodeRuneInString(l.src[l.pos:])
	return r, size
}

func (l *lexer) advance() rune {
	r, size := l.peekRune()
	l.pos += size
	if r == '\n' {
		l.line++
	}
	return r
}

func (l *lexer) skipLayout() (sawSpace bool) {
	for {
		r, size := l.peekRune()
		if size == 0 {
			return
		}
		switch {
		case unicode.IsSpace(r):
			sawSpace = true
			l.advance()
		case r == '%':
			sawSpace = true
			for {
				r, size := l.peekRune()
				if size == 0 || r == '\n' {
					break
				}
				l.advance()
			}
		case r == '/' && strings.HasPrefix(l.src[l.pos:], "/*"):
			sawSpace = true
			l.pos += 2
			end := strings.Index(l.src[l.pos:], "*/")
			if end < 0 {
				l.pos = len(l.src)
				return
			}
			for i := 0; i < end+2; i++ {
				l.advance()
			}
		default:
			return
		}
	}
}

const symbolRunes = `+-*/\^<>=~:.?@#&$`

func isSymbolRune(r rune) bool { return strings.ContainsRune(symbolRunes, r) }

// next returns the next token, or an error on malformed literal syntax.
func (l *lexer) next() (token, error) {
	spaceBefore := l.skipLayout()
	start := l.pos
	line := l.line
	r, size := l.peekRune()
	if size == 0 {
		return token{kind: tokEOF, pos: start, line: line}, nil
	}

	switch {
	case r == '(' :
		l.advance()
		kind := tokPunct
		if !spaceBefore {
			kind = tokOpenCT
		}
		return token{kind: kind, text: "(", pos: start, line: line}, nil

	case strings.ContainsRune(")[]{}", r):
		l.advance()
		return token{kind: tokPunct, text: string(r), pos: start, line: line}, nil

	case r == ',':
		l.advance()
		return token{kind: tokAtom, text: ",", pos: start, line: line}, nil

	case r == '|':
		l.advance()
		return token{kind: tokPunct, text: "|", pos: start, line: line}, nil

	case r == '!':
		l.advance()
		return token{kind: tokAtom, text: "!", pos: start, line: line}, nil

	case r == ';':
		l.advance()
		return token{kind: tokAtom, text: ";", pos: start, line: line}, nil

	case r == '\'':
		return l.quotedAtom(start, line)

	case r == '"':
		return l.quotedString(start, line, '"', tokString)

	case r == '`':
		return l.quotedString(start, line, '`', tokBackQuote)

	case r == '_' || unicode.IsUpper(r):
		return l.ident(start, line, tokVariable), nil

	case unicode.IsLower(r):
		return l.ident(start, line, tokAtom), nil

	case unicode.IsDigit(r):
		return l.number(start, line)

	case isSymbolRune(r):
		return l.symbolAtomOrEnd(start, line)

	default:
		return token{}, fmt.Errorf("unexpected character %q", r)
	}
}

func (l *lexer) ident(start, line int, kind tokenKind) token {
	for {
		r, size := l.peekRune()
		if size == 0 || !(r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)) {
			break
		}
		l.advance()
	}
	return token{kind: kind, text: l.src[start:l.pos], pos: start, line: line}
}

// symbolAtomOrEnd reads a run of symbol characters, or (for a lone '.'
// followed by layout or EOF) the clause terminator.
func (l *lexer) symbolAtomOrEnd(start, line int) (token, error) {
	r, _ := l.peekRune()
	if r == '.' {
		next, size := utf8.DecodeRuneInString(l.src[l.pos+1:])
		if size == 0 || unicode.IsSpace(next) || next == '%' {
			l.advance()
			return token{kind: tokEnd, text: ".", pos: start, line: line}, nil
		}
	}
	for {
		r, size := l.peekRune()
		if size == 0 || !isSymbolRune(r) {
			break
		}
		l.advance()
	}
	return token{kind: tokAtom, text: l.src[start:l.pos], pos: start, line: line}, nil
}

func (l *lexer) number(start, line int) (token, error) {
	if l.src[start] == '0' && start+1 < len(l.src) {
		switch l.src[start+1] {
		case '\'':
			l.pos = start + 2
			r, _, err := l.readCharCode()
			if err != nil {
				return token{}, err
			}
			return token{kind: tokInteger, ival: big.NewInt(int64(r)), pos: start, line: line}, nil
		case 'x':
			return l.radixNumber(start, line, 16, "0123456789abcdefABCDEF")
		case 'o':
			return l.radixNumber(start, line, 8, "01234567")
		case 'b':
			return l.radixNumber(start, line, 2, "01")
		}
	}

	for {
		r, size := l.peekRune()
		if size == 0 || !unicode.IsDigit(r) {
			break
		}
		l.advance()
	}

	isFloat := false
	if r, _ := l.peekRune(); r == '.' {
		if next, size := utf8.DecodeRuneInString(l.src[l.pos+1:]); size > 0 && unicode.IsDigit(next) {
			isFloat = true
			l.advance()
			for {
				r, size := l.peekRune()
				if size == 0 || !unicode.IsDigit(r) {
					break
				}
				l.advance()
			}
		}
	}
	if r, _ := l.peekRune(); r == 'e' || r == 'E' {
		save := l.pos
		l.advance()
		if r, _ := l.peekRune(); r == '+' || r == '-' {
			l.advance()
		}
		digits := false
		for {
			r, size := l.peekRune()
			if size == 0 || !unicode.IsDigit(r) {
				break
			}
			digits = true
			l.advance()
		}
		if digits {
			isFloat = true
		} else {
			l.pos = save
		}
	}

	text := l.src[start:l.pos]
	if isFloat {
		var f float64
		if _, err := fmt.Sscanf(text, "%g", &f); err != nil {
			return token{}, fmt.Errorf("malformed float literal %q", text)
		}
		return token{kind: tokFloat, fval: f, text: text, pos: start, line: line}, nil
	}
	n := new(big.Int)
	if _, ok := n.SetString(text, 10); !ok {
		return token{}, fmt.Errorf("malformed integer literal %q", text)
	}
	return token{kind: tokInteger, ival: n, text: text, pos: start, line: line}, nil
}

func (l *lexer) radixNumber(start, line, base int, digits string) (token, error) {
	l.pos = start + 2
	digitStart := l.pos
	for {
		r, size := l.peekRune()
		if size == 0 || !strings.ContainsRune(digits, r) {
			break
		}
		l.advance()
	}
	if l.pos == digitStart {
		return token{}, fmt.Errorf("malformed radix literal at position %d", start)
	}
	n := new(big.Int)
	if _, ok := n.SetString(l.src[digitStart:l.pos], base); !ok {
		return token{}, fmt.Errorf("malformed radix literal %q", l.src[start:l.pos])
	}
	return token{kind: tokInteger, ival: n, pos: start, line: line}, nil
}

// readCharCode reads a single (possibly escaped) character after 0' and
// returns its code point.
func (l *lexer) readCharCode() (rune, int, error) {
	r, size := l.peekRune()
	if size == 0 {
		return 0, 0, fmt.Errorf("unterminated 0' character code")
	}
	if r == '\\' {
		l.advance()
		return l.readEscape('\'')
	}
	if r == '\'' && strings.HasPrefix(l.src[l.pos+1:], "'") {
		l.advance()
		l.advance()
		return '\'', 1, nil
	}
	l.advance()
	return r, size, nil
}

func (l *lexer) quotedAtom(start, line int) (token, error) {
	return l.quoted(start, line, '\'', tokAtom)
}

func (l *lexer) quotedString(start, line int, delim rune, kind tokenKind) (token, error) {
	return l.quoted(start, line, delim, kind)
}

func (l *lexer) quoted(start, line int, delim rune, kind tokenKind) (token, error) {
	l.advance() // opening delimiter
	var sb strings.Builder
	for {
		r, size := l.peekRune()
		if size == 0 {
			return token{}, fmt.Errorf("unterminated quoted literal starting at position %d", start)
		}
		if r == delim {
			if strings.HasPrefix(l.src[l.pos+1:], string(delim)) {
				l.advance()
				l.advance()
				sb.WriteRune(delim)
				continue
			}
			l.advance()
			break
		}
		if r == '\\' {
			l.advance()
			if r2, _ := l.peekRune(); r2 == '\n' {
				l.advance()
				continue
			}
			esc, _, err := l.readEscape(delim)
			if err != nil {
				return token{}, err
			}
			sb.WriteRune(esc)
			continue
		}
		l.advance()
		sb.WriteRune(r)
	}
	return token{kind: kind, text: sb.String(), pos: start, line: line}, nil
}

func (l *lexer) readEscape(delim rune) (rune, int, error) {
	r, size := l.peekRune()
	if size == 0 {
		return 0, 0, fmt.Errorf("unterminated escape sequence")
	}
	l.advance()
	switch r {
	case 'a':
		return '\a', 1, nil
	case 'b':
		return '\b', 1, nil
	case 'f':
		return '\f', 1, nil
	case 'n':
		return '\n', 1, nil
	case 'r':
		return '\r', 1, nil
	case 't':
		return '\t', 1, nil
	case 'v':
		return '\v', 1, nil
	case '\\', '\'', '"', '`':
		return r, 1, nil
	case 'x':
		start := l.pos
		for {
			r, size := l.peekRune()
			if size == 0 || !strings.ContainsRune("0123456789abcdefABCDEF", r) {
				break
			}
			l.advance()
		}
		hex := l.src[start:l.pos]
		if r, _ := l.peekRune(); r == '\\' {
			l.advance()
		}
		var code int64
		if _, err := fmt.Sscanf(hex, "%x", &code); err != nil {
			return 0, 0, fmt.Errorf("malformed \\x escape")
		}
		return rune(code), 1, nil
	default:
		if unicode.IsDigit(r) {
			start := l.pos - 1
			for {
				r, size := l.peekRune()
				if size == 0 || !unicode.IsDigit(r) {
					break
				}
				l.advance()
			}
			oct := l.src[start:l.pos]
			if r, _ := l.peekRune(); r == '\\' {
				l.advance()
			}
			var code int64
			if _, err := fmt.Sscanf(oct, "%o", &code); err != nil {
				return 0, 0, fmt.Errorf("malformed octal escape")
			}
			return rune(code), 1, nil
		}
		return r, 1, nil
	}
}
