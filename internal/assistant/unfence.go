package assistant

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var markdown = goldmark.New()

// Unfence returns the contents of the fenced code blocks in a Markdown
// reply, one block after another. A reply without fenced blocks is returned
// unchanged.
func Unfence(reply string) string {
	source := []byte(reply)
	doc := markdown.Parser().Parse(text.NewReader(source))

	var (
		b     strings.Builder
		found bool
	)
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		block, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		if found && !strings.HasSuffix(b.String(), "\n") {
			b.WriteByte('\n')
		}
		found = true
		lines := block.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			b.Write(seg.Value(source))
		}
		return ast.WalkSkipChildren, nil
	})

	if !found {
		return reply
	}
	return b.String()
}
