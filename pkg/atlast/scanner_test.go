package atlast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func scanAll(in *Interp, line string) []token {
	in.line = line
	in.pos = 0
	var toks []token
	for {
		tok := in.scanNext()
		if tok.kind == tokNull {
			return toks
		}
		toks = append(toks, tok)
	}
}

func TestScanner_tokens(t *testing.T) {
	for _, tc := range []struct {
		name string
		line string
		want []token
	}{
		{"empty", "", nil},
		{"whitespace only", " \t ", nil},
		{"word upper cased", "hello", []token{
			{kind: tokWord, word: "HELLO"},
		}},
		{"mixed words and ints", "dup 42 swap", []token{
			{kind: tokWord, word: "DUP"},
			{kind: tokInt, ival: 42},
			{kind: tokWord, word: "SWAP"},
		}},
		{"negative int", "-17", []token{{kind: tokInt, ival: -17}}},
		{"hex prefix", "0x2A 0X2a", []token{
			{kind: tokInt, ival: 42},
			{kind: tokInt, ival: 42},
		}},
		{"octal leading zero", "017", []token{{kind: tokInt, ival: 15}}},
		{"real", "3.5", []token{{kind: tokReal, rval: 3.5}}},
		{"real with exponent", "2.5e2", []token{{kind: tokReal, rval: 250}}},
		{"minus alone is a word", "-", []token{{kind: tokWord, word: "-"}}},
		{"string", `"hi"`, []token{{kind: tokString, sval: "hi"}}},
		{"string escapes", `"a\tb\n\r\b\q"`, []token{
			{kind: tokString, sval: "a\tb\n\r\bq"},
		}},
		{"line comment", `1 \ 2 3`, []token{{kind: tokInt, ival: 1}}},
		{"paren comment closed", "1 ( skip me ) 2", []token{
			{kind: tokInt, ival: 1},
			{kind: tokInt, ival: 2},
		}},
		{"paren word is not a comment", "(LIT)", []token{
			{kind: tokWord, word: "(LIT)"},
		}},
		{"backslash word is not a comment", `\x 1`, []token{
			{kind: tokWord, word: `\X`},
			{kind: tokInt, ival: 1},
		}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			in := New()
			assert.Equal(t, tc.want, scanAll(in, tc.line))
		})
	}
}

func TestScanner_realWordings(t *testing.T) {
	// "1e3" starts with a digit yet fails integer parse; it only counts as
	// a real if strconv accepts it, and the scanner tries int first.
	in := New()
	toks := scanAll(in, "1e3")
	assert.Equal(t, []token{{kind: tokReal, rval: 1000}}, toks)
}

func TestScanner_pendingComment(t *testing.T) {
	in := New()

	assert.Nil(t, scanAll(in, "( open"))
	assert.True(t, in.pending.comment, "comment pending across lines")

	assert.Nil(t, scanAll(in, "still inside"))
	assert.True(t, in.pending.comment)

	toks := scanAll(in, "done ) 9")
	assert.False(t, in.pending.comment)
	assert.Equal(t, []token{{kind: tokInt, ival: 9}}, toks)
}

func TestScanner_runawayString(t *testing.T) {
	in := New()
	assert.Nil(t, scanAll(in, `"never closed`))
	assert.Equal(t, RUNSTRING, in.status)
}

func TestScanner_baseSensitivity(t *testing.T) {
	in := New()
	in.base = 16
	assert.Equal(t, []token{{kind: tokInt, ival: 31}}, scanAll(in, "1F"))

	in.status = NORMAL
	in.base = 8
	assert.Equal(t, []token{{kind: tokInt, ival: 9}}, scanAll(in, "11"))
}
