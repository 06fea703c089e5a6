// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lex

import (
	"errors"
	"strings"
	"testing"
)

func TestTokenizeKinds(t *testing.T) {
	tests := []struct {
		src  string
		kind Kind
	}{
		{"(", KindParenOpen},
		{")", KindParenClose},
		{"'hello'", KindString},
		{`m/f../`, KindRegex},
		{"1.1.1.1", KindIp},
		{"1.1.1.0/24", KindCidr},
		{"1h30m", KindDuration},
		{"123", KindNumber},
		{"nick", KindIdentifier},
		{"&&", KindOperator},
	}
	for _, tt := range tests {
		toks, err := Tokenize(tt.src)
		if err != nil {
			t.Fatalf("Tokenize(%q) error: %v", tt.src, err)
		}
		if len(toks) != 1 {
			t.Fatalf("Tokenize(%q) = %d tokens, want 1", tt.src, len(toks))
		}
		if toks[0].Kind != tt.kind {
			t.Fatalf("Tokenize(%q) kind = %v, want %v", tt.src, toks[0].Kind, tt.kind)
		}
	}
}

func TestScanDelimitedPreservesEscapes(t *testing.T) {
	toks, err := Tokenize(`'a\'b'`)
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	if len(toks) != 1 || toks[0].String != `a\'b` {
		t.Fatalf("String = %q, want %q (backslash preserved verbatim)", toks[0].String, `a\'b`)
	}
}

func TestRegexRetainsBarePattern(t *testing.T) {
	toks, err := Tokenize("m/f../")
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	if toks[0].Pattern != "f.." {
		t.Fatalf("Pattern = %q, want %q", toks[0].Pattern, "f..")
	}
	if toks[0].Text != "m/f../" {
		t.Fatalf("Text = %q, want %q", toks[0].Text, "m/f../")
	}
}

func TestDottedQuadInvalidAddressErrors(t *testing.T) {
	_, err := Tokenize("999.1.1.1")
	var lexErr *Error
	if !errors.As(err, &lexErr) || !errors.Is(err, ErrAddr) {
		t.Fatalf("Tokenize(999.1.1.1) error = %v, want ErrAddr", err)
	}
}

func TestNumberAcceptsLeadingDotFraction(t *testing.T) {
	for _, src := range []string{"1.5", ".5"} {
		toks, err := Tokenize(src)
		if err != nil {
			t.Fatalf("Tokenize(%q) error: %v", src, err)
		}
		if len(toks) != 1 || toks[0].Kind != KindNumber {
			t.Fatalf("Tokenize(%q) = %+v, want a single Number token", src, toks)
		}
		if toks[0].Text != src {
			t.Fatalf("Tokenize(%q) token text = %q, want %q", src, toks[0].Text, src)
		}
	}
}

func TestDurationOrderEnforced(t *testing.T) {
	toks, err := Tokenize("1h2w")
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	// "1h" matches (order h then nothing further valid for w), leaving
	// "2w" to be lexed as its own Duration token.
	if len(toks) != 2 || toks[0].Kind != KindDuration || toks[1].Kind != KindDuration {
		t.Fatalf("Tokenize(1h2w) = %+v, want two Duration tokens", toks)
	}
}

func TestUnterminatedStringReportsUnfinished(t *testing.T) {
	_, err := Tokenize(`'unterminated`)
	if !errors.Is(err, ErrUnfinished) {
		t.Fatalf("error = %v, want ErrUnfinished", err)
	}
}

// TestTotalOrder checks that tokenizing and rejoining every token's raw
// text reproduces the input exactly; the lexer's cursor advances are a
// total, non-overlapping cover of the source.
func TestTotalOrder(t *testing.T) {
	srcs := []string{
		`a == 'b' && c in 1.1.1.0/24`,
		`nick ~ m/f../ || host == "x"`,
		`a + 1 - 2`,
	}
	for _, src := range srcs {
		toks, err := Tokenize(src)
		if err != nil {
			t.Fatalf("Tokenize(%q) error: %v", src, err)
		}
		var b strings.Builder
		for _, tok := range toks {
			b.WriteString(tok.Text)
		}
		if b.String() != src {
			t.Fatalf("rejoined = %q, want %q", b.String(), src)
		}
	}
}
