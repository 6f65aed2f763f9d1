package disqus

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// WarnDuplicate is recorded when a page has more than one directive.
const WarnDuplicate = "multiple disqus directives in document, thread container id is duplicated"

// KindDisqus is the NodeKind of Disqus nodes.
var KindDisqus = ast.NewNodeKind("Disqus")

var (
	staticRootKey = parser.NewContextKey()
	warningsKey   = parser.NewContextKey()
)

var directives = [][]byte{
	[]byte("::disqus"),
	[]byte(".. disqus::"),
}

// Disqus marks where the comment thread goes.
type Disqus struct {
	ast.BaseBlock
	Identifier string
	ScriptSrc  string
	Err        error
}

// Dump implements ast.Node
func (n *Disqus) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Identifier": n.Identifier,
	}, nil)
}

// Kind implements ast.Node
func (n *Disqus) Kind() ast.NodeKind {
	return KindDisqus
}

// WithStaticRoot sets the path prefix from the page being converted back to
// the output root, e.g. "../" for a page one directory deep.
func WithStaticRoot(pc parser.Context, prefix string) {
	pc.Set(staticRootKey, prefix)
}

// Warnings returns the warnings recorded while parsing with pc.
func Warnings(pc parser.Context) []string {
	w, _ := pc.Get(warningsKey).([]string)
	return w
}

func addWarning(pc parser.Context, msg string) {
	pc.Set(warningsKey, append(Warnings(pc), msg))
}

type directiveParser struct{}

func (p *directiveParser) Trigger() []byte {
	return []byte{':', '.'}
}

func (p *directiveParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || pos >= len(line) {
		return nil, parser.NoChildren
	}
	rest := util.TrimRightSpace(line[pos:])
	for _, d := range directives {
		if bytes.Equal(rest, d) {
			reader.Advance(segment.Len() - 1)
			return &Disqus{}, parser.NoChildren
		}
	}
	return nil, parser.NoChildren
}

func (p *directiveParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	return parser.Close
}

func (p *directiveParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {}

func (p *directiveParser) CanInterruptParagraph() bool {
	return true
}

func (p *directiveParser) CanAcceptIndentedLine() bool {
	return false
}

// identifierTransformer fills in the identifier and script path of every
// Disqus node in the document.
type identifierTransformer struct {
	cfg Config
}

func (t *identifierTransformer) Transform(node *ast.Document, reader text.Reader, pc parser.Context) {
	var nodes []*Disqus
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if d, ok := n.(*Disqus); ok && entering {
			nodes = append(nodes, d)
		}
		return ast.WalkContinue, nil
	})
	if len(nodes) == 0 {
		return
	}
	if len(nodes) > 1 {
		addWarning(pc, WarnDuplicate)
	}

	var pageID string
	if v, ok := meta.Get(pc)["disqus_identifier"]; ok && v != nil {
		pageID = fmt.Sprint(v)
	}
	title, hasTitle := TitleText(node, reader.Source())
	id, err := ResolveIdentifier(title, hasTitle, pageID, t.cfg.Identifier)

	prefix, _ := pc.Get(staticRootKey).(string)
	for _, d := range nodes {
		d.Identifier = id
		d.ScriptSrc = prefix + ScriptPath
		d.Err = err
	}
}

// snippetRenderer renders Disqus nodes
type snippetRenderer struct {
	cfg Config
}

// RegisterFuncs implements renderer.NodeRenderer
func (r *snippetRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindDisqus, r.renderDisqus)
}

func (r *snippetRenderer) renderDisqus(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*Disqus)
	if n.Err != nil {
		return ast.WalkStop, n.Err
	}
	_, _ = w.WriteString(Snippet(r.cfg.Shortname, n.Identifier, n.ScriptSrc))
	return ast.WalkContinue, nil
}

// Extension adds the ::disqus directive to a goldmark.Markdown.
type Extension struct {
	cfg Config
}

// New validates cfg and returns an extension using it.
func New(cfg Config) (*Extension, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Extension{cfg: cfg}, nil
}

// Extend implements goldmark.Extender
func (e *Extension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithBlockParsers(
			util.Prioritized(&directiveParser{}, 150),
		),
		parser.WithASTTransformers(
			util.Prioritized(&identifierTransformer{cfg: e.cfg}, 100),
		),
	)
	m.Renderer().AddOptions(
		renderer.WithNodeRenderers(
			util.Prioritized(&snippetRenderer{cfg: e.cfg}, 100),
		),
	)
}
