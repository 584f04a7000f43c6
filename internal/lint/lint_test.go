package lint

import (
	"strings"
	"testing"

	"nngkb/internal/config"
)

const validArticle = `# Five Users Are Enough

Source: https://www.nngroup.com/articles/five-users/

---

# Five Users Are Enough

by Jakob Nielsen

March 18, 2024

Summary: Testing with five users finds most usability problems.

## Why Five

Elaborate testing wastes resources on diminishing returns.

![Curve of problems found per user](https://media.nngroup.com/media/curve.png)

Topics: Usability Testing
`

func newTestLinter(t *testing.T) *Linter {
	t.Helper()

	l, err := NewLinter(config.DefaultConfig())
	if err != nil {
		t.Fatalf("NewLinter failed: %v", err)
	}

	return l
}

func TestLintFile_ValidArticle(t *testing.T) {
	l := newTestLinter(t)

	result := l.LintFile("five-users.md", validArticle)
	if !result.IsValid {
		t.Fatalf("Expected valid result, got issues: %+v", result.Issues)
	}

	if result.Segments != 1 {
		t.Errorf("Expected 1 segment, got %d", result.Segments)
	}

	if result.Stats.ParsedArticles != 1 {
		t.Errorf("Expected 1 parsed article, got %d", result.Stats.ParsedArticles)
	}

	if result.Stats.ImagesChecked != 1 {
		t.Errorf("Expected 1 image checked, got %d", result.Stats.ImagesChecked)
	}
}

func TestLintFile_MissingSourceLine(t *testing.T) {
	l := newTestLinter(t)

	content := "# Title\n\nby Someone\n\nMarch 18, 2024\n\nbody\n"

	result := l.LintFile("a.md", content)
	if result.IsValid {
		t.Fatal("Expected invalid result for missing Source: line")
	}

	if !hasIssue(result, RuleSourceLine, "missing Source: line") {
		t.Errorf("Expected missing-source issue, got: %+v", result.Issues)
	}
}

func TestLintFile_MalformedSourceURL(t *testing.T) {
	l := newTestLinter(t)

	content := "# Title\n\nSource: not-a-url\n\nby Someone\n\nMarch 18, 2024\n"

	result := l.LintFile("a.md", content)
	if result.IsValid {
		t.Fatal("Expected invalid result for malformed source URL")
	}

	if !hasIssue(result, RuleSourceLine, "well-formed URL") {
		t.Errorf("Expected malformed-URL issue, got: %+v", result.Issues)
	}
}

func TestLintFile_DuplicateSourceLines(t *testing.T) {
	l := newTestLinter(t)

	content := "# Title\n\nSource: https://www.nngroup.com/articles/a/\n" +
		"Source: https://www.nngroup.com/articles/b/\n\nby Someone\n\nMarch 18, 2024\n"

	result := l.LintFile("a.md", content)
	if result.IsValid {
		t.Fatal("Expected invalid result for duplicate Source: lines")
	}

	if !hasIssue(result, RuleSourceLine, "expected exactly 1") {
		t.Errorf("Expected duplicate-source issue, got: %+v", result.Issues)
	}
}

func TestLintFile_MissingByline(t *testing.T) {
	l := newTestLinter(t)

	content := "# Title\n\nSource: https://www.nngroup.com/articles/a/\n\nMarch 18, 2024\n"

	result := l.LintFile("a.md", content)
	if result.IsValid {
		t.Fatal("Expected invalid result for missing byline")
	}

	if !hasIssue(result, RuleByline, "no byline") {
		t.Errorf("Expected missing-byline issue, got: %+v", result.Issues)
	}
}

func TestLintFile_BodyByProseNotCountedAsByline(t *testing.T) {
	l := newTestLinter(t)

	content := "# Title\n\nSource: https://www.nngroup.com/articles/a/\n\n" +
		"by Real Author\n\nMarch 18, 2024\n\nSummary: One summary.\n\n" +
		"By contrast, users rarely read manuals from cover to cover.\n"

	result := l.LintFile("a.md", content)
	if !result.IsValid {
		t.Fatalf("Expected valid result, got: %+v", result.Issues)
	}

	if hasIssue(result, RuleByline, "candidates") {
		t.Errorf("Expected body prose not to count as a byline, got: %+v", result.Issues)
	}
}

func TestLintFile_BodyByProseDoesNotSatisfyByline(t *testing.T) {
	l := newTestLinter(t)

	content := "# Title\n\nSource: https://www.nngroup.com/articles/a/\n\n" +
		"March 18, 2024\n\nSummary: One summary.\n\n" +
		"By the second session, participants had improved noticeably.\n"

	result := l.LintFile("a.md", content)
	if result.IsValid {
		t.Fatal("Expected invalid result when the only byline-shaped line is body prose")
	}

	if !hasIssue(result, RuleByline, "no byline") {
		t.Errorf("Expected missing-byline issue, got: %+v", result.Issues)
	}
}

func TestLintFile_MissingDateIsWarning(t *testing.T) {
	l := newTestLinter(t)

	content := "# Title\n\nSource: https://www.nngroup.com/articles/a/\n\nby Someone\n"

	result := l.LintFile("a.md", content)
	if !result.IsValid {
		t.Fatalf("Expected warnings not to invalidate, got: %+v", result.Issues)
	}

	if !hasIssue(result, RuleDateLine, "no publication date") {
		t.Errorf("Expected missing-date warning, got: %+v", result.Issues)
	}

	if result.Stats.WarningCount == 0 {
		t.Error("Expected warning count > 0")
	}
}

func TestLintFile_StrictModeWarningsInvalidate(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Features.StrictLint = true

	l, err := NewLinter(cfg)
	if err != nil {
		t.Fatalf("NewLinter failed: %v", err)
	}

	content := "# Title\n\nSource: https://www.nngroup.com/articles/a/\n\nby Someone\n"

	result := l.LintFile("a.md", content)
	if result.IsValid {
		t.Fatal("Expected strict mode to invalidate on warnings")
	}
}

func TestLintFile_TitleMismatchWarning(t *testing.T) {
	l := newTestLinter(t)

	content := "# First Title\n\nSource: https://www.nngroup.com/articles/a/\n\n---\n\n" +
		"# Different Title\n\nby Someone\n\nMarch 18, 2024\n"

	result := l.LintFile("a.md", content)

	if !hasIssue(result, RuleTitle, "does not match") {
		t.Errorf("Expected title-mismatch warning, got: %+v", result.Issues)
	}
}

func TestLintFile_TooManyTitles(t *testing.T) {
	l := newTestLinter(t)

	content := "# A\n\nSource: https://www.nngroup.com/articles/a/\n\nby Someone\n\nMarch 18, 2024\n\n# A\n\n# A\n"

	result := l.LintFile("a.md", content)
	if result.IsValid {
		t.Fatal("Expected invalid result for three H1 titles")
	}

	if !hasIssue(result, RuleTitle, "H1 titles") {
		t.Errorf("Expected too-many-titles issue, got: %+v", result.Issues)
	}
}

func TestLintFile_HeadingLevelJump(t *testing.T) {
	l := newTestLinter(t)

	content := "# Title\n\nSource: https://www.nngroup.com/articles/a/\n\nby Someone\n\nMarch 18, 2024\n\n" +
		"## Section\n\ntext\n\n#### Deep Heading\n"

	result := l.LintFile("a.md", content)

	if !hasIssue(result, RuleHeadingLevels, "jumps") {
		t.Errorf("Expected heading-jump warning, got: %+v", result.Issues)
	}
}

func TestLintFile_SeparatorSegments(t *testing.T) {
	l := newTestLinter(t)

	sep := "<|RELATED_DOC_SEP-magic-abc|>"
	first := "# A\n\nSource: https://www.nngroup.com/articles/a/\n\nby Someone\n\nMarch 18, 2024\n"
	second := "# B\n\nSource: https://www.nngroup.com/articles/b/\n\nby Someone\n\nMarch 19, 2024\n"

	result := l.LintFile("pair.md", first+sep+"\n"+second)
	if !result.IsValid {
		t.Fatalf("Expected valid multi-article file, got: %+v", result.Issues)
	}

	if result.Segments != 2 {
		t.Errorf("Expected 2 segments, got %d", result.Segments)
	}
}

func TestLintFile_SeparatorWithBlankSegment(t *testing.T) {
	l := newTestLinter(t)

	content := "# A\n\nSource: https://www.nngroup.com/articles/a/\n\nby Someone\n\nMarch 18, 2024\n" +
		"<|RELATED_DOC_SEP-magic-abc|>\n\n"

	result := l.LintFile("a.md", content)
	if result.IsValid {
		t.Fatal("Expected invalid result for separator with blank segment")
	}

	if !hasIssue(result, RuleSeparator, "non-empty segments") {
		t.Errorf("Expected separator issue, got: %+v", result.Issues)
	}
}

func TestLintFile_IssueLinesInSecondSegment(t *testing.T) {
	l := newTestLinter(t)

	// First segment is fine; second one is missing its source line, and the
	// reported line number must point into the original file.
	first := "# A\n\nSource: https://www.nngroup.com/articles/a/\n\nby Someone\n\nMarch 18, 2024\n"
	second := "# B\n\nby Someone\n\nMarch 19, 2024\n"

	result := l.LintFile("pair.md", first+"<|RELATED_DOC_SEP-magic-abc|>\n"+second)

	found := false

	for _, issue := range result.Issues {
		if issue.Rule == RuleSourceLine && issue.Line > 7 {
			found = true
		}
	}

	if !found {
		t.Errorf("Expected source issue with line in second segment, got: %+v", result.Issues)
	}
}

func TestNewLinter_PatternOverride(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Corpus.Lint.Patterns.Date = `^\d{4}-\d{2}-\d{2}$`

	l, err := NewLinter(cfg)
	if err != nil {
		t.Fatalf("NewLinter failed: %v", err)
	}

	content := "# Title\n\nSource: https://www.nngroup.com/articles/a/\n\nby Someone\n\n2024-03-18\n"

	result := l.LintFile("a.md", content)

	if hasIssue(result, RuleDateLine, "no publication date") {
		t.Errorf("Expected overridden date pattern to accept ISO dates, got: %+v", result.Issues)
	}
}

func TestNewLinter_InvalidPatternOverride(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Corpus.Lint.Patterns.Byline = "[invalid(regex"

	if _, err := NewLinter(cfg); err == nil {
		t.Fatal("Expected error for invalid byline pattern override")
	}
}

func TestSortIssues(t *testing.T) {
	issues := []Issue{
		{Rule: RuleTitle, Line: 30},
		{Rule: RuleSourceLine, Line: 2},
		{Rule: RuleByline, Line: 11},
	}

	SortIssues(issues)

	if issues[0].Line != 2 || issues[1].Line != 11 || issues[2].Line != 30 {
		t.Errorf("Issues not sorted by line: %+v", issues)
	}
}

func TestResult_String(t *testing.T) {
	l := newTestLinter(t)

	result := l.LintFile("five-users.md", validArticle)

	s := result.String()
	if !strings.Contains(s, "VALID") {
		t.Errorf("Expected VALID in summary, got %q", s)
	}

	invalid := l.LintFile("bad.md", "# Title only\n")
	if !strings.Contains(invalid.String(), "INVALID") {
		t.Errorf("Expected INVALID in summary, got %q", invalid.String())
	}
}

func hasIssue(result *Result, rule, messagePart string) bool {
	for _, issue := range result.Issues {
		if issue.Rule == rule && strings.Contains(issue.Message, messagePart) {
			return true
		}
	}

	return false
}
