package docgen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"

	"github.com/zellyn/disqusdoc/internal/disqus"
)

// Options controls a build.
type Options struct {
	SourceDir string
	OutputDir string
	Config    Config

	// Strict turns warnings into a build failure.
	Strict bool
}

// Result summarizes a finished build.
type Result struct {
	Pages    []string
	Warnings []string
}

// Generator converts markdown pages to HTML.
type Generator struct {
	md goldmark.Markdown
}

// NewGenerator returns a Generator for cfg. It fails if the Disqus settings
// are unusable.
func NewGenerator(cfg Config) (*Generator, error) {
	ext, err := disqus.New(cfg.Disqus)
	if err != nil {
		return nil, err
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			meta.Meta,
			ext,
		),
		goldmark.WithRendererOptions(
			goldmarkhtml.WithUnsafe(), // Allow raw HTML in markdown
		),
	)
	return &Generator{md: md}, nil
}

// GenerateDoc converts a single markdown file to HTML. rel is the output
// path relative to the output root and decides how the page links back to
// shared assets. It returns the warnings raised for the page.
func (g *Generator) GenerateDoc(inputPath, outputPath, rel string) ([]string, error) {
	content, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("reading input file: %w", err)
	}

	body, title, warnings, err := g.convert(content, rootPrefix(rel))
	if err != nil {
		var docErr *disqus.DocumentError
		if errors.As(err, &docErr) {
			docErr.Path = inputPath
			return warnings, docErr
		}
		return warnings, fmt.Errorf("converting %s: %w", inputPath, err)
	}

	page := generateHTMLPage(title, body)
	if err := os.WriteFile(outputPath, []byte(page), 0644); err != nil {
		return warnings, fmt.Errorf("writing output file: %w", err)
	}
	return warnings, nil
}

func (g *Generator) convert(content []byte, prefix string) (body, title string, warnings []string, err error) {
	ctx := parser.NewContext()
	disqus.WithStaticRoot(ctx, prefix)

	doc := g.md.Parser().Parse(text.NewReader(content), parser.WithContext(ctx))
	warnings = disqus.Warnings(ctx)

	var buf bytes.Buffer
	if err := g.md.Renderer().Render(&buf, content, doc); err != nil {
		return "", "", warnings, err
	}

	title = "Documentation"
	if t, ok := disqus.TitleText(doc, content); ok && t != "" {
		title = t
	}
	if v, ok := meta.Get(ctx)["title"]; ok {
		if s, ok := v.(string); ok && s != "" {
			title = s
		}
	}
	return buf.String(), title, warnings, nil
}

// rootPrefix returns the relative path from the page at rel back to the
// output root.
func rootPrefix(rel string) string {
	dir := filepath.ToSlash(filepath.Dir(rel))
	if dir == "." {
		return ""
	}
	return strings.Repeat("../", strings.Count(dir, "/")+1)
}

// generateHTMLPage creates a complete HTML page with the converted content
func generateHTMLPage(title, bodyContent string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>
</head>
<body>
    <main class="docs-content">
        <article class="doc-article">
            %s
        </article>
    </main>
</body>
</html>
`, html.EscapeString(title), bodyContent)
}

// Build validates the configuration and converts every markdown file under
// opts.SourceDir. A configuration error stops the build before any page is
// read. Page errors are logged and collected so the remaining pages still
// build.
func Build(ctx context.Context, opts Options, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}

	g, err := NewGenerator(opts.Config)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	if err := writeStatic(opts.OutputDir); err != nil {
		return nil, err
	}

	res := &Result{}
	var docErrs []error
	err = filepath.Walk(opts.SourceDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if info.IsDir() {
			// Don't descend into the output tree if it sits inside the sources.
			if path != opts.SourceDir && sameDir(path, opts.OutputDir) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".md" {
			return nil
		}

		relPath, err := filepath.Rel(opts.SourceDir, path)
		if err != nil {
			return fmt.Errorf("calculating relative path: %w", err)
		}
		rel := strings.TrimSuffix(relPath, ".md") + ".html"
		outputPath := filepath.Join(opts.OutputDir, rel)

		if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
			return fmt.Errorf("creating output subdirectory: %w", err)
		}

		logger.Info("Generating page", "source", path, "output", outputPath)
		warnings, err := g.GenerateDoc(path, outputPath, rel)
		for _, w := range warnings {
			logger.Warn(w, "path", path)
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s: %s", path, w))
		}
		var docErr *disqus.DocumentError
		if errors.As(err, &docErr) {
			logger.Error("Failed to generate page", "path", path, "error", docErr.Err)
			docErrs = append(docErrs, err)
			return nil
		}
		if err != nil {
			return err
		}
		res.Pages = append(res.Pages, rel)
		return nil
	})
	if err != nil {
		return res, err
	}

	if len(docErrs) > 0 {
		return res, errors.Join(docErrs...)
	}
	if opts.Strict && len(res.Warnings) > 0 {
		return res, fmt.Errorf("build finished with %d warnings (treated as errors)", len(res.Warnings))
	}
	return res, nil
}

func writeStatic(outputDir string) error {
	path := filepath.Join(outputDir, filepath.FromSlash(disqus.ScriptPath))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating static directory: %w", err)
	}
	if err := os.WriteFile(path, disqus.Script, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", disqus.ScriptPath, err)
	}
	return nil
}

func sameDir(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
