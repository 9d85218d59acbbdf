package plugins

import (
	"context"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/quantmind-br/repolens/internal/domain"
	"github.com/quantmind-br/repolens/internal/markdown"
	"github.com/quantmind-br/repolens/internal/report"
)

// Documentation discovery limits
const (
	DocsRoot     = "docs"
	DocsPattern  = "docs/**/*.{md,markdown,mdx}"
	DocsMaxDepth = 3
	DocsMaxFiles = 100
)

// extractDocs lists the markdown documents under docs/, each with a title
// taken from its first heading or, failing that, from its file name
func extractDocs(ctx context.Context, b domain.Backend) (report.Report, error) {
	paths, err := collectDocs(ctx, b, DocsRoot, 1)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return report.New(), nil
	}

	sort.Strings(paths)
	if len(paths) > DocsMaxFiles {
		paths = paths[:DocsMaxFiles]
	}

	docs := make([]any, 0, len(paths))
	for _, p := range paths {
		data, err := b.ReadFile(ctx, p)
		if err != nil {
			return nil, err
		}
		title := markdown.Title(string(data))
		if title == "" {
			title = titleFromName(p)
		}
		docs = append(docs, map[string]any{
			"title": title,
			"path":  p,
		})
	}
	return report.Report{NameDocs: docs}, nil
}

func collectDocs(ctx context.Context, b domain.Backend, dir string, depth int) ([]string, error) {
	entries, err := b.ListDirectory(ctx, dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			if depth >= DocsMaxDepth || strings.HasPrefix(e.Name, ".") {
				continue
			}
			nested, err := collectDocs(ctx, b, e.Path, depth+1)
			if err != nil {
				return nil, err
			}
			paths = append(paths, nested...)
			continue
		}
		if ok, _ := doublestar.Match(DocsPattern, e.Path); ok {
			paths = append(paths, e.Path)
		}
	}
	return paths, nil
}

// titleFromName turns "getting-started.md" into "Getting Started"
func titleFromName(p string) string {
	name := strings.TrimSuffix(path.Base(p), path.Ext(p))
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	return cases.Title(language.English).String(strings.Join(strings.Fields(name), " "))
}
