package disqus

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/util"
)

// ResolveIdentifier picks the thread identifier for one page. The first
// non-empty explicit value wins; otherwise the title is used verbatim.
func ResolveIdentifier(title string, hasTitle bool, explicit ...string) (string, error) {
	for _, id := range explicit {
		if id != "" {
			return id, nil
		}
	}
	if !hasTitle {
		return "", &DocumentError{Err: ErrNoTitle}
	}
	return title, nil
}

// TitleText returns the plain text of the first heading in doc.
func TitleText(doc ast.Node, source []byte) (string, bool) {
	var heading *ast.Heading
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok {
			heading = h
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	if heading == nil {
		return "", false
	}
	return plainText(heading, source), true
}

func plainText(n ast.Node, source []byte) string {
	var b strings.Builder
	ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.CodeSpan:
			// Code span contents are literal.
			for c := t.FirstChild(); c != nil; c = c.NextSibling() {
				if s, ok := c.(*ast.Text); ok {
					b.Write(s.Segment.Value(source))
				}
			}
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			b.Write(decodeText(t.Segment.Value(source)))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		case *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

// decodeText resolves backslash escapes and character references the way
// goldmark's HTML writer does before escaping.
func decodeText(v []byte) []byte {
	v = util.UnescapePunctuations(v)
	v = util.ResolveNumericReferences(v)
	return util.ResolveEntityNames(v)
}
