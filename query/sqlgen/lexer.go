package sqlgen

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// SQLLexer splits a statement into quoted literals, comments and plain text.
// Only the text runs are candidates for rewriting.
var SQLLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `'(?:[^']|'')*'`},
	{Name: "QuotedIdent", Pattern: `"(?:[^"]|"")*"`},
	{Name: "LineComment", Pattern: `--[^\n]*`},
	{Name: "BlockComment", Pattern: `/\*(?:[^*]|\*+[^*/])*\*+/`},
	{Name: "BraceComment", Pattern: `\{[^}]*\}`},
	{Name: "Text", Pattern: `[^'"{/-]+`},
	{Name: "Other", Pattern: `[\s\S]`},
})

var (
	symbols   = SQLLexer.Symbols()
	textToken = symbols["Text"]
	otherTok  = symbols["Other"]
)

// Segment is a run of the statement that is either rewritable text or a literal.
type Segment struct {
	Value   string
	Literal bool
}

// Segments splits sql into alternating text and literal segments. Adjacent
// text tokens are merged so a predicate is never split across segments.
func Segments(sql string) ([]Segment, error) {
	lex, err := SQLLexer.LexString("", sql)
	if err != nil {
		return nil, err
	}
	tokens, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil, err
	}

	var (
		out  []Segment
		text strings.Builder
	)
	flush := func() {
		if text.Len() > 0 {
			out = append(out, Segment{Value: text.String()})
			text.Reset()
		}
	}
	for _, tok := range tokens {
		if tok.EOF() {
			break
		}
		if tok.Type == textToken || tok.Type == otherTok {
			text.WriteString(tok.Value)
			continue
		}
		flush()
		out = append(out, Segment{Value: tok.Value, Literal: true})
	}
	flush()
	return out, nil
}

// rewriteOutsideLiterals applies fn to the text segments of sql only.
// If sql cannot be segmented it falls back to rewriting the whole statement.
func rewriteOutsideLiterals(sql string, fn func(string) string) string {
	segs, err := Segments(sql)
	if err != nil {
		return fn(sql)
	}
	var b strings.Builder
	b.Grow(len(sql))
	for _, s := range segs {
		if s.Literal {
			b.WriteString(s.Value)
			continue
		}
		b.WriteString(fn(s.Value))
	}
	return b.String()
}
