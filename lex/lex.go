// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package lex turns predicate source text into a flat token stream.
// The scanner is a byte-offset cursor in the style of the teacher's
// fstring, simplified because expressions are always a single line.
package lex

import (
	"errors"
	"fmt"
	"net/netip"

	"github.com/dlclark/regexp2"
)

// Span identifies a half-open byte range [Start, End) in the source
// text an error or token came from.
type Span struct {
	Start int
	End   int
}

// Kind names the category of a Token.
type Kind int

const (
	KindParenOpen Kind = iota
	KindParenClose
	KindDuration
	KindIdentifier
	KindCidr
	KindIp
	KindNumber
	KindOperator
	KindRegex
	KindSpace
	KindString
)

// Token is one lexical unit. Only the fields relevant to its Kind are
// populated; the rest are zero.
type Token struct {
	Kind     Kind
	Span     Span
	Text     string
	Duration uint64
	Ip       netip.Addr
	Cidr     netip.Prefix
	Regex    *regexp2.Regexp
	Pattern  string // source pattern body, for Regex tokens
	String   string
}

// Sentinel error kinds, matched with errors.Is against an *Error.
var (
	ErrBadSyntax  = errors.New("bad syntax")
	ErrUnfinished = errors.New("unfinished token")
	ErrRegex      = errors.New("invalid regex")
	ErrAddr       = errors.New("invalid address")
)

// Error is a lexical error anchored to a Span of the source text.
type Error struct {
	Kind error
	Span Span
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("lex: %s at %d:%d: %s", e.Kind, e.Span.Start, e.Span.End, e.Msg)
	}
	return fmt.Sprintf("lex: %s at %d:%d", e.Kind, e.Span.Start, e.Span.End)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// Lexer scans a single line of predicate source into Tokens.
type Lexer struct {
	src string
	pos int
}

// New returns a Lexer over src.
func New(src string) *Lexer {
	return &Lexer{src: src}
}

// Tokenize scans src in full, returning every token including Space.
// Callers that don't care about whitespace should filter KindSpace.
func Tokenize(src string) ([]Token, error) {
	lexer := New(src)
	var tokens []Token
	for {
		tok, err := lexer.Next()
		if err != nil {
			return nil, err
		}
		if tok == nil {
			return tokens, nil
		}
		tokens = append(tokens, *tok)
	}
}

// Next scans and returns the next token, or (nil, nil) at end of
// input.
func (l *Lexer) Next() (*Token, error) {
	if l.pos >= len(l.src) {
		return nil, nil
	}
	start := l.pos
	c := l.src[l.pos]

	switch {
	case c == '(':
		l.pos++
		return l.tok(KindParenOpen, start), nil
	case c == ')':
		l.pos++
		return l.tok(KindParenClose, start), nil
	case c == ' ':
		for l.pos < len(l.src) && l.src[l.pos] == ' ' {
			l.pos++
		}
		return l.tok(KindSpace, start), nil
	case c == '\'' || c == '"':
		return l.scanString(start)
	case c == 'm' && l.pos+1 < len(l.src) && isRegexDelim(l.src[l.pos+1]):
		return l.scanRegex(start)
	case isDecimal(c):
		return l.scanNumeric(start)
	case c == '.' && l.pos+1 < len(l.src) && isDecimal(l.src[l.pos+1]):
		return l.scanNumeric(start)
	case isIdentStart(c):
		return l.scanIdentifier(start)
	default:
		if tok, ok := l.scanOperator(start); ok {
			return tok, nil
		}
		return nil, &Error{Kind: ErrBadSyntax, Span: Span{start, start + 1}}
	}
}

func (l *Lexer) tok(k Kind, start int) *Token {
	return &Token{Kind: k, Span: Span{start, l.pos}, Text: l.src[start:l.pos]}
}

func isDecimal(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c >= 'a' && c <= 'z'
}

func isIdentChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || isDecimal(c)
}

func isWordChar(c byte) bool {
	return isIdentChar(c) || c == '_'
}

func isRegexDelim(c byte) bool {
	return c != ' ' && !isWordChar(c)
}

func (l *Lexer) scanIdentifier(start int) (*Token, error) {
	l.pos++
	for l.pos < len(l.src) && isIdentChar(l.src[l.pos]) {
		l.pos++
	}
	return l.tok(KindIdentifier, start), nil
}

// scanNumeric disambiguates between Cidr, Ip, Duration and plain
// Number, all of which begin with a decimal digit.
func (l *Lexer) scanNumeric(start int) (*Token, error) {
	if tok, matched, err := l.tryDottedQuad(start); matched {
		if err != nil {
			return nil, err
		}
		return tok, nil
	}
	if tok, ok := l.tryDuration(start); ok {
		return tok, nil
	}
	for l.pos < len(l.src) && isDecimal(l.src[l.pos]) {
		l.pos++
	}
	// Optional leading-`.` fraction (§4.1's Number form); the fraction
	// digits are part of the token's span but, per spec, never feed
	// into the parsed value.
	if l.pos < len(l.src) && l.src[l.pos] == '.' && l.pos+1 < len(l.src) && isDecimal(l.src[l.pos+1]) {
		l.pos++
		for l.pos < len(l.src) && isDecimal(l.src[l.pos]) {
			l.pos++
		}
	}
	return l.tok(KindNumber, start), nil
}

// tryDottedQuad recognizes `\d{1,3}(\.\d{1,3}){3}` optionally followed
// by `/\d{1,2}`, producing a Cidr or Ip token. The second return value
// reports whether the dotted-quad shape was present at all; a shape
// match with an invalid address (octet > 255, bad prefix length)
// yields a non-nil error rather than falling back to Number, since an
// out-of-range dotted quad is never a meaningful plain number. On no
// shape match the cursor is left untouched.
func (l *Lexer) tryDottedQuad(start int) (*Token, bool, error) {
	save := l.pos
	for group := 0; group < 4; group++ {
		if group > 0 {
			if l.pos >= len(l.src) || l.src[l.pos] != '.' {
				l.pos = save
				return nil, false, nil
			}
			l.pos++
		}
		digits := 0
		for l.pos < len(l.src) && isDecimal(l.src[l.pos]) && digits < 3 {
			l.pos++
			digits++
		}
		if digits == 0 {
			l.pos = save
			return nil, false, nil
		}
	}

	addrText := l.src[start:l.pos]
	if l.pos < len(l.src) && l.src[l.pos] == '/' {
		prefixStart := l.pos
		l.pos++
		digits := 0
		for l.pos < len(l.src) && isDecimal(l.src[l.pos]) && digits < 2 {
			l.pos++
			digits++
		}
		if digits == 0 {
			l.pos = prefixStart
		} else {
			text := l.src[start:l.pos]
			prefix, err := netip.ParsePrefix(text)
			if err != nil {
				return nil, true, &Error{Kind: ErrAddr, Span: Span{start, l.pos}, Msg: err.Error()}
			}
			return &Token{Kind: KindCidr, Span: Span{start, l.pos}, Text: text, Cidr: prefix}, true, nil
		}
	}

	addr, err := netip.ParseAddr(addrText)
	if err != nil {
		return nil, true, &Error{Kind: ErrAddr, Span: Span{start, l.pos}, Msg: err.Error()}
	}
	return &Token{Kind: KindIp, Span: Span{start, l.pos}, Text: addrText, Ip: addr}, true, nil
}

var durationMultipliers = []struct {
	suffix byte
	scale  uint64
}{
	{'w', 604800},
	{'d', 86400},
	{'h', 3600},
	{'m', 60},
	{'s', 1},
}

// tryDuration scans `(\d+w)?(\d+d)?(\d+h)?(\d+m)?(\d+s)?`, requiring
// the suffixes it does see to appear in that order, and requiring at
// least one complete digit+suffix group. On failure the cursor is
// left untouched.
func (l *Lexer) tryDuration(start int) (*Token, bool) {
	save := l.pos
	var total uint64
	matched := false
	order := 0

	for {
		digitsStart := l.pos
		for l.pos < len(l.src) && isDecimal(l.src[l.pos]) {
			l.pos++
		}
		if l.pos == digitsStart {
			break
		}
		if l.pos >= len(l.src) {
			l.pos = digitsStart
			break
		}
		suffix := l.src[l.pos]
		found := -1
		for i := order; i < len(durationMultipliers); i++ {
			if durationMultipliers[i].suffix == suffix {
				found = i
				break
			}
		}
		if found == -1 {
			l.pos = digitsStart
			break
		}
		var value uint64
		for _, d := range l.src[digitsStart:l.pos] {
			value = value*10 + uint64(d-'0')
		}
		total += value * durationMultipliers[found].scale
		l.pos++ // consume suffix
		order = found + 1
		matched = true
	}

	if !matched {
		l.pos = save
		return nil, false
	}
	return &Token{Kind: KindDuration, Span: Span{start, l.pos}, Text: l.src[start:l.pos], Duration: total}, true
}

func (l *Lexer) scanRegex(start int) (*Token, error) {
	delim := l.src[l.pos+1]
	l.pos += 2
	body, ok := l.scanDelimited(delim)
	if !ok {
		return nil, &Error{Kind: ErrUnfinished, Span: Span{start, l.pos}}
	}
	re, err := regexp2.Compile(body, regexp2.None)
	if err != nil {
		return nil, &Error{Kind: ErrRegex, Span: Span{start, l.pos}, Msg: err.Error()}
	}
	return &Token{Kind: KindRegex, Span: Span{start, l.pos}, Text: l.src[start:l.pos], Pattern: body, Regex: re}, nil
}

func (l *Lexer) scanString(start int) (*Token, error) {
	delim := l.src[l.pos]
	l.pos++
	body, ok := l.scanDelimited(delim)
	if !ok {
		return nil, &Error{Kind: ErrUnfinished, Span: Span{start, l.pos}}
	}
	return &Token{Kind: KindString, Span: Span{start, l.pos}, Text: l.src[start:l.pos], String: body}, nil
}

// scanDelimited consumes up to and including the closing delim,
// returning everything between the delimiters. A backslash never
// escapes in the usual sense: it and the character following it are
// both copied into the body verbatim, and only prevent that following
// character from being read as the closing delimiter. This matches
// the reference lexer's find_closing_inner exactly.
func (l *Lexer) scanDelimited(delim byte) (string, bool) {
	var body []byte
	escaped := false
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if escaped {
			escaped = false
		} else if c == '\\' {
			escaped = true
		} else if c == delim {
			l.pos++
			return string(body), true
		}
		body = append(body, c)
		l.pos++
	}
	return "", false
}

var operators = []string{"&&", "||", "==", "!", "+", "-", "~"}

func (l *Lexer) scanOperator(start int) (*Token, bool) {
	for _, op := range operators {
		if l.pos+len(op) <= len(l.src) && l.src[l.pos:l.pos+len(op)] == op {
			l.pos += len(op)
			return l.tok(KindOperator, start), true
		}
	}
	return nil, false
}
