package disqus

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
)

func newMarkdown(t *testing.T, cfg Config) goldmark.Markdown {
	t.Helper()
	ext, err := New(cfg)
	require.NoError(t, err)
	return goldmark.New(goldmark.WithExtensions(meta.Meta, ext))
}

func convert(md goldmark.Markdown, source string, prefix string) (string, parser.Context, error) {
	ctx := parser.NewContext()
	WithStaticRoot(ctx, prefix)
	var buf bytes.Buffer
	err := md.Convert([]byte(source), &buf, parser.WithContext(ctx))
	return buf.String(), ctx, err
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, ErrShortnameUnset)

	_, err = New(Config{Shortname: "B@D"})
	assert.ErrorIs(t, err, ErrShortnameInvalid)
}

func TestExtension_TitleIdentifier(t *testing.T) {
	md := newMarkdown(t, Config{Shortname: "good"})

	out, ctx, err := convert(md, "# Main\n\nSome text.\n\n::disqus\n", "")
	require.NoError(t, err)
	assert.Contains(t, out, `id="disqus_thread"`)
	assert.Contains(t, out, `data-disqus-shortname="good"`)
	assert.Contains(t, out, `data-disqus-identifier="Main"`)
	assert.Contains(t, out, `src="_static/disqus.js"`)
	assert.Contains(t, out, "<h1>Main</h1>")
	assert.Empty(t, Warnings(ctx))
}

func TestExtension_DirectiveSyntax(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   bool
	}{
		{name: "leaf directive", source: "# T\n\n::disqus\n", want: true},
		{name: "rst style", source: "# T\n\n.. disqus::\n", want: true},
		{name: "trailing spaces", source: "# T\n\n::disqus   \n", want: true},
		{name: "indented up to three", source: "# T\n\n   ::disqus\n", want: true},
		{name: "interrupts paragraph", source: "# T\n\n.. toctree::\n    :maxdepth: 2\n.. disqus::", want: true},
		{name: "with argument", source: "# T\n\n::disqus foo\n", want: false},
		{name: "inline mention", source: "# T\n\nuse ::disqus here\n", want: false},
		{name: "code block", source: "# T\n\n    ::disqus\n", want: false},
		{name: "fenced", source: "# T\n\n```\n::disqus\n```\n", want: false},
	}

	md := newMarkdown(t, Config{Shortname: "good"})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := convert(md, tt.source, "")
			require.NoError(t, err)
			if tt.want {
				assert.Contains(t, out, `<div id="disqus_thread"`)
			} else {
				assert.NotContains(t, out, `<div id="disqus_thread"`)
			}
		})
	}
}

func TestExtension_NoTitle(t *testing.T) {
	md := newMarkdown(t, Config{Shortname: "good"})

	_, _, err := convert(md, "No heading here.\n\n::disqus\n", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoTitle)
	assert.Contains(t, err.Error(), "No title nodes found in document, cannot derive disqus_identifier config value.")
}

func TestExtension_NoTitleWithoutDirective(t *testing.T) {
	md := newMarkdown(t, Config{Shortname: "good"})

	out, _, err := convert(md, "No heading and no thread.\n", "")
	require.NoError(t, err)
	assert.NotContains(t, out, "disqus")
}

func TestExtension_IdentifierPrecedence(t *testing.T) {
	tests := []struct {
		name   string
		cfg    Config
		source string
		want   string
	}{
		{
			name:   "config identifier over title",
			cfg:    Config{Shortname: "good", Identifier: "site-wide"},
			source: "# Main\n\n::disqus\n",
			want:   "site-wide",
		},
		{
			name:   "config identifier without title",
			cfg:    Config{Shortname: "good", Identifier: "site-wide"},
			source: "::disqus\n",
			want:   "site-wide",
		},
		{
			name:   "front matter over config",
			cfg:    Config{Shortname: "good", Identifier: "site-wide"},
			source: "---\ndisqus_identifier: page-one\n---\n# Main\n\n::disqus\n",
			want:   "page-one",
		},
		{
			name:   "non-string front matter",
			cfg:    Config{Shortname: "good", Identifier: "site-wide"},
			source: "---\ndisqus_identifier: 42\n---\n# Main\n\n::disqus\n",
			want:   "42",
		},
		{
			name:   "empty front matter value ignored",
			cfg:    Config{Shortname: "good"},
			source: "---\ndisqus_identifier:\n---\n# Main\n\n::disqus\n",
			want:   "Main",
		},
		{
			name:   "front matter title is not a heading",
			cfg:    Config{Shortname: "good"},
			source: "---\ntitle: Front\n---\n# Heading\n\n::disqus\n",
			want:   "Heading",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := newMarkdown(t, tt.cfg)
			out, _, err := convert(md, tt.source, "")
			require.NoError(t, err)
			assert.Contains(t, out, `data-disqus-identifier="`+tt.want+`"`)
		})
	}
}

func TestExtension_EscapesIdentifier(t *testing.T) {
	md := newMarkdown(t, Config{Shortname: "good"})

	out, _, err := convert(md, "# Tom & \"Jerry\"\n\n::disqus\n", "")
	require.NoError(t, err)
	assert.Contains(t, out, `data-disqus-identifier="Tom &amp; &#34;Jerry&#34;"`)
}

func TestExtension_DecodesTitleIdentifier(t *testing.T) {
	md := newMarkdown(t, Config{Shortname: "good"})

	out, _, err := convert(md, "# Tom &amp; Jerry\n\n::disqus\n", "")
	require.NoError(t, err)
	assert.Contains(t, out, `data-disqus-identifier="Tom &amp; Jerry"`)
	assert.NotContains(t, out, "&amp;amp;")
}

func TestExtension_StaticRoot(t *testing.T) {
	md := newMarkdown(t, Config{Shortname: "good"})

	out, _, err := convert(md, "# Nested\n\n::disqus\n", "../../")
	require.NoError(t, err)
	assert.Contains(t, out, `src="../../_static/disqus.js"`)
}

func TestExtension_DuplicateDirectiveWarns(t *testing.T) {
	md := newMarkdown(t, Config{Shortname: "good"})

	out, ctx, err := convert(md, "# Main\n\n::disqus\n\n::disqus\n", "")
	require.NoError(t, err)
	assert.Equal(t, 2, bytes.Count([]byte(out), []byte(`id="disqus_thread"`)))
	assert.Equal(t, []string{WarnDuplicate}, Warnings(ctx))
}

func TestSnippet(t *testing.T) {
	got := Snippet("good", "Main", "_static/disqus.js")
	assert.Equal(t, `<div id="disqus_thread" data-disqus-shortname="good" data-disqus-identifier="Main"></div>
<script type="text/javascript" src="_static/disqus.js"></script>
`, got)
}

func TestScriptEmbedded(t *testing.T) {
	assert.Contains(t, string(Script), "data-disqus-shortname")
	assert.Contains(t, string(Script), ".disqus.com/embed.js")
}
