// Package lint validates knowledge-base markdown files against the corpus
// conventions: source lines, separator structure, image references, and
// editorial consistency.
package lint

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"nngkb/internal/article"
	"nngkb/internal/config"
	"nngkb/internal/corpus"
)

// Severity classifies lint findings.
type Severity int

// Severities.
const (
	SeverityWarning Severity = iota
	SeverityError
)

// String returns the severity label.
func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}

	return "warning"
}

// Issue is a single lint finding with file context.
type Issue struct {
	Rule     string
	Path     string
	Message  string
	Value    string
	Line     int
	Severity Severity
}

// Result contains lint results for one file.
type Result struct {
	Path     string
	Issues   []Issue
	Stats    Stats
	IsValid  bool
	Segments int
}

// Stats contains lint statistics.
type Stats struct {
	Articles       int
	ImagesChecked  int
	LinksChecked   int
	ErrorCount     int
	WarningCount   int
	ParsedArticles int
}

// Rule names.
const (
	RuleSourceLine    = "source-line"
	RuleSeparator     = "separator-split"
	RuleImageRef      = "image-ref"
	RuleLinkRef       = "link-ref"
	RuleByline        = "byline"
	RuleDateLine      = "date-line"
	RuleTagsLine      = "tags-line"
	RuleTitle         = "title"
	RuleHeadingLevels = "heading-levels"
)

// Linter validates corpus files.
type Linter struct {
	cfg           *config.Config
	scanner       *corpus.Scanner
	parser        *article.Parser
	sourcePattern *regexp.Regexp
	bylinePattern *regexp.Regexp
	datePattern   *regexp.Regexp
	tagsPattern   *regexp.Regexp
}

// NewLinter creates a new linter from configuration. Pattern overrides from
// the config replace the built-in byline and date patterns.
func NewLinter(cfg *config.Config) (*Linter, error) {
	l := &Linter{
		cfg:           cfg,
		scanner:       corpus.NewScannerWithSeparator(cfg.Corpus.Root, cfg.Corpus.Separator),
		parser:        article.NewParser(),
		sourcePattern: regexp.MustCompile(`^Source:\s*(.*)$`),
		bylinePattern: regexp.MustCompile(`^[Bb]y\s+\S+`),
		datePattern:   regexp.MustCompile(`^[A-Z][a-z]+ \d{1,2}, \d{4}`),
		tagsPattern:   regexp.MustCompile(`^(?:Tags|Topics):\s*(.*)$`),
	}

	var err error

	if p := cfg.Corpus.Lint.Patterns.Byline; p != "" {
		l.bylinePattern, err = regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid byline pattern: %w", err)
		}
	}

	if p := cfg.Corpus.Lint.Patterns.Date; p != "" {
		l.datePattern, err = regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid date pattern: %w", err)
		}
	}

	return l, nil
}

// LintFile validates one corpus file. The file is split on the separator
// token first; every segment must then be a well-formed article document.
func (l *Linter) LintFile(path, content string) *Result {
	result := &Result{
		Path:    path,
		IsValid: true,
	}

	segments := l.scanner.Split(content)
	result.Segments = len(segments)
	result.Stats.Articles = len(segments)

	if l.cfg.Corpus.Lint.CheckSeparators {
		// Separator count must be consistent with segment count: N separators
		// yield at most N+1 segments, and no segment may be blank.
		seps := l.scanner.CountSeparators(content)
		if seps > 0 && len(segments) != seps+1 {
			l.report(result, Issue{
				Rule:     RuleSeparator,
				Path:     path,
				Severity: SeverityError,
				Message: fmt.Sprintf(
					"separator token splits file into %d non-empty segments, expected %d",
					len(segments), seps+1,
				),
			})
		}
	}

	for _, seg := range segments {
		l.lintSegment(result, path, seg)
	}

	result.Stats.ErrorCount = l.countSeverity(result, SeverityError)
	result.Stats.WarningCount = l.countSeverity(result, SeverityWarning)

	return result
}

// lintSegment validates one article sub-document.
func (l *Linter) lintSegment(result *Result, path string, seg corpus.Segment) {
	lines := strings.Split(seg.Content, "\n")

	var (
		sourceLines []int
		sourceVals  []string
		bylineCount int
		dateCount   int
		tagsCount   int
		titles      []string
		titleLines  []int
	)

	// Byline and date candidates only count inside the title block, which
	// ends at the Summary line or the first section heading. Body sentences
	// beginning with "By" are not bylines.
	inBody := false

	for i, raw := range lines {
		line := strings.TrimSpace(raw)

		if strings.HasPrefix(line, "##") || strings.HasPrefix(line, "Summary:") {
			inBody = true
		}

		if m := l.sourcePattern.FindStringSubmatch(line); m != nil {
			sourceLines = append(sourceLines, seg.StartLine+i)
			sourceVals = append(sourceVals, strings.Trim(strings.TrimSpace(m[1]), "<>"))
		}

		if !inBody && l.bylinePattern.MatchString(line) {
			bylineCount++
		}

		if !inBody && l.datePattern.MatchString(line) {
			dateCount++
		}

		if m := l.tagsPattern.FindStringSubmatch(line); m != nil {
			tagsCount++

			if l.cfg.Corpus.Lint.RequireTags && strings.TrimSpace(m[1]) == "" {
				l.report(result, Issue{
					Rule:     RuleTagsLine,
					Path:     path,
					Line:     seg.StartLine + i,
					Severity: SeverityWarning,
					Message:  "tags line is empty",
				})
			}
		}

		if strings.HasPrefix(line, "# ") {
			titles = append(titles, strings.TrimSpace(strings.TrimPrefix(line, "# ")))
			titleLines = append(titleLines, seg.StartLine+i)
		}
	}

	l.checkSourceLine(result, path, seg, sourceLines, sourceVals)
	l.checkTitleBlock(result, path, seg, titles, titleLines, bylineCount, dateCount)

	if l.cfg.Corpus.Lint.CheckImages {
		l.checkMarkdownRefs(result, path, seg)
	}

	if l.cfg.Corpus.Lint.CheckHeadings {
		l.checkHeadingLevels(result, path, seg, lines)
	}

	if _, err := l.parser.ParseArticle(seg.Content); err == nil {
		result.Stats.ParsedArticles++
	}
}

// checkSourceLine enforces exactly one well-formed "Source:" line per
// article.
func (l *Linter) checkSourceLine(result *Result, path string, seg corpus.Segment, sourceLines []int, vals []string) {
	if !l.cfg.Corpus.Lint.RequireSourceLine {
		return
	}

	switch len(vals) {
	case 0:
		l.report(result, Issue{
			Rule:     RuleSourceLine,
			Path:     path,
			Line:     seg.StartLine,
			Severity: SeverityError,
			Message:  "missing Source: line",
		})

		return
	case 1:
		// expected
	default:
		l.report(result, Issue{
			Rule:     RuleSourceLine,
			Path:     path,
			Line:     sourceLines[1],
			Severity: SeverityError,
			Message:  fmt.Sprintf("article has %d Source: lines, expected exactly 1", len(vals)),
		})
	}

	for i, val := range vals {
		if !isWellFormedURL(val) {
			l.report(result, Issue{
				Rule:     RuleSourceLine,
				Path:     path,
				Line:     sourceLines[i],
				Value:    val,
				Severity: SeverityError,
				Message:  "Source: line does not contain a well-formed URL",
			})
		}
	}
}

// checkTitleBlock enforces the title/byline block: an H1 title (conventionally
// repeated after the source header), one byline, and a date line.
func (l *Linter) checkTitleBlock(result *Result, path string, seg corpus.Segment, titles []string, titleLines []int, bylineCount, dateCount int) {
	if len(titles) == 0 {
		l.report(result, Issue{
			Rule:     RuleTitle,
			Path:     path,
			Line:     seg.StartLine,
			Severity: SeverityError,
			Message:  "article has no H1 title",
		})

		return
	}

	if len(titles) > 2 {
		l.report(result, Issue{
			Rule:     RuleTitle,
			Path:     path,
			Line:     titleLines[2],
			Severity: SeverityError,
			Message:  fmt.Sprintf("article has %d H1 titles, expected one title block", len(titles)),
		})
	}

	if len(titles) >= 2 && titles[0] != titles[1] {
		l.report(result, Issue{
			Rule:     RuleTitle,
			Path:     path,
			Line:     titleLines[1],
			Value:    titles[1],
			Severity: SeverityWarning,
			Message:  "repeated H1 title does not match the document title",
		})
	}

	if max := l.cfg.Corpus.MaxTitleLength; max > 0 && len(titles[0]) > max {
		l.report(result, Issue{
			Rule:     RuleTitle,
			Path:     path,
			Line:     titleLines[0],
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("title exceeds %d characters", max),
		})
	}

	if l.cfg.Corpus.Lint.RequireByline && bylineCount == 0 {
		l.report(result, Issue{
			Rule:     RuleByline,
			Path:     path,
			Line:     seg.StartLine,
			Severity: SeverityError,
			Message:  "article has no byline",
		})
	}

	if bylineCount > 1 {
		l.report(result, Issue{
			Rule:     RuleByline,
			Path:     path,
			Line:     seg.StartLine,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("article has %d byline candidates, expected 1", bylineCount),
		})
	}

	if dateCount == 0 {
		l.report(result, Issue{
			Rule:     RuleDateLine,
			Path:     path,
			Line:     seg.StartLine,
			Severity: SeverityWarning,
			Message:  "article has no publication date line",
		})
	}
}

// checkHeadingLevels flags heading jumps (e.g. H2 followed directly by H4).
func (l *Linter) checkHeadingLevels(result *Result, path string, seg corpus.Segment, lines []string) {
	headingPattern := regexp.MustCompile(`^(#{2,6})\s+`)

	prevLevel := 1

	for i, raw := range lines {
		m := headingPattern.FindStringSubmatch(strings.TrimSpace(raw))
		if m == nil {
			continue
		}

		level := len(m[1])
		if level > prevLevel+1 {
			l.report(result, Issue{
				Rule:     RuleHeadingLevels,
				Path:     path,
				Line:     seg.StartLine + i,
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("heading level jumps from H%d to H%d", prevLevel, level),
			})
		}

		prevLevel = level
	}
}

// report appends an issue and downgrades validity on errors. In strict mode
// warnings invalidate too.
func (l *Linter) report(result *Result, issue Issue) {
	result.Issues = append(result.Issues, issue)

	if issue.Severity == SeverityError || l.cfg.Features.StrictLint {
		result.IsValid = false
	}
}

func (l *Linter) countSeverity(result *Result, sev Severity) int {
	count := 0

	for _, issue := range result.Issues {
		if issue.Severity == sev {
			count++
		}
	}

	return count
}

// isWellFormedURL reports whether s parses as an absolute http(s) URL.
func isWellFormedURL(s string) bool {
	if s == "" {
		return false
	}

	u, err := url.Parse(s)
	if err != nil {
		return false
	}

	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// SortIssues orders issues by line number for stable reporting.
func SortIssues(issues []Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Line < issues[j].Line
	})
}

// String returns a one-line summary of the result.
func (r *Result) String() string {
	status := "VALID"
	if !r.IsValid {
		status = "INVALID"
	}

	return fmt.Sprintf(
		"%s | Articles: %d | Errors: %d | Warnings: %d",
		status,
		r.Stats.Articles,
		r.Stats.ErrorCount,
		r.Stats.WarningCount,
	)
}
