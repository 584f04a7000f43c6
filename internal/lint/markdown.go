package lint

import (
	"net/url"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"nngkb/internal/corpus"
)

// mdEngine parses segments into a goldmark AST. GFM matches the export
// convention (tables, autolinks).
var mdEngine = goldmark.New(
	goldmark.WithExtensions(extension.GFM, extension.Linkify),
)

// checkMarkdownRefs walks the markdown AST of a segment and validates every
// image and link reference: images need non-empty alt text and a
// resolvable-looking URL, links need a non-empty destination.
func (l *Linter) checkMarkdownRefs(result *Result, path string, seg corpus.Segment) {
	src := []byte(seg.Content)
	root := mdEngine.Parser().Parse(text.NewReader(src))
	offsets := lineOffsets(src)

	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Image:
			result.Stats.ImagesChecked++

			line := seg.StartLine + nodeLine(node, offsets)

			alt := strings.TrimSpace(string(node.Text(src)))
			if alt == "" {
				l.report(result, Issue{
					Rule:     RuleImageRef,
					Path:     path,
					Line:     line,
					Value:    string(node.Destination),
					Severity: SeverityError,
					Message:  "image has empty alt text",
				})
			}

			if !isResolvableRef(string(node.Destination)) {
				l.report(result, Issue{
					Rule:     RuleImageRef,
					Path:     path,
					Line:     line,
					Value:    string(node.Destination),
					Severity: SeverityError,
					Message:  "image URL does not look resolvable",
				})
			}
		case *ast.Link:
			result.Stats.LinksChecked++

			dest := strings.TrimSpace(string(node.Destination))
			if dest == "" {
				l.report(result, Issue{
					Rule:     RuleLinkRef,
					Path:     path,
					Line:     seg.StartLine + nodeLine(node, offsets),
					Severity: SeverityError,
					Message:  "link has empty destination",
				})
			}
		}

		return ast.WalkContinue, nil
	})
}

// isResolvableRef accepts absolute http(s) URLs, protocol-relative URLs, and
// relative paths. Spaces and control characters disqualify.
func isResolvableRef(ref string) bool {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.ContainsAny(ref, " \t\n") {
		return false
	}

	if strings.HasPrefix(ref, "//") {
		return true
	}

	u, err := url.Parse(ref)
	if err != nil {
		return false
	}

	if u.Scheme != "" {
		return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
	}

	// Relative reference inside the corpus or media tree
	return u.Path != ""
}

// lineOffsets returns the byte offset of each line start.
func lineOffsets(src []byte) []int {
	offsets := []int{0}

	for i, b := range src {
		if b == '\n' {
			offsets = append(offsets, i+1)
		}
	}

	return offsets
}

// nodeLine resolves the 1-based line of a node within its segment. Inline
// nodes report the first line of their nearest block ancestor.
func nodeLine(n ast.Node, offsets []int) int {
	for cur := n; cur != nil; cur = cur.Parent() {
		if cur.Type() == ast.TypeBlock && cur.Lines().Len() > 0 {
			start := cur.Lines().At(0).Start

			return sort.SearchInts(offsets, start+1)
		}
	}

	return 1
}
