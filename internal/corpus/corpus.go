// Package corpus provides filesystem scanning and multi-article splitting for
// the knowledge-base directory.
package corpus

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Corpus errors.
var (
	ErrNotADirectory = errors.New("corpus root is not a directory")
	ErrEmptyCorpus   = errors.New("no markdown files found under corpus root")
)

// separatorPattern matches the literal multi-article separator token on a line
// of its own. The magic suffix varies per export run, so only the prefix is
// fixed.
var separatorPattern = regexp.MustCompile(`^<\|RELATED_DOC_SEP-magic-[^|>]*\|>\s*$`)

// Segment is one raw sub-document of a corpus file.
type Segment struct {
	Content   string
	StartLine int
}

// File is one markdown file of the corpus with its raw content.
type File struct {
	Path    string
	Content string
	Size    int64
}

// Scanner walks the corpus directory and loads markdown files.
type Scanner struct {
	root      string
	separator *regexp.Regexp
}

// NewScanner creates a scanner rooted at the given directory, using the
// default separator token.
func NewScanner(root string) *Scanner {
	return &Scanner{
		root:      root,
		separator: separatorPattern,
	}
}

// NewScannerWithSeparator creates a scanner that splits on an exact literal
// separator line instead of the default token pattern.
func NewScannerWithSeparator(root, separator string) *Scanner {
	if separator == "" {
		return NewScanner(root)
	}

	return &Scanner{
		root:      root,
		separator: regexp.MustCompile(`^` + regexp.QuoteMeta(separator) + `\s*$`),
	}
}

// ListFiles returns the paths of all markdown files under the root, sorted by
// the walk order. Dot-directories are skipped.
func (s *Scanner) ListFiles() ([]string, error) {
	info, err := os.Stat(s.root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat corpus root %s: %w", s.root, err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotADirectory, s.root)
	}

	var files []string

	err = filepath.Walk(s.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if strings.HasPrefix(info.Name(), ".") && path != s.root {
				return filepath.SkipDir
			}

			return nil
		}

		if strings.ToLower(filepath.Ext(path)) != ".md" {
			return nil
		}

		files = append(files, path)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk corpus root: %w", err)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyCorpus, s.root)
	}

	return files, nil
}

// ReadFile loads one corpus file from disk.
func (s *Scanner) ReadFile(path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file %s: %w", path, err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	return &File{
		Path:    path,
		Content: string(content),
		Size:    info.Size(),
	}, nil
}

// Split divides raw file content into segments on the separator token. A file
// without the token yields exactly one segment. Blank segments are dropped.
// Line numbers are 1-based and refer to the original file.
func (s *Scanner) Split(content string) []Segment {
	lines := strings.Split(content, "\n")

	var segments []Segment

	var buf []string

	segStart := 1

	flush := func(nextStart int) {
		text := strings.TrimSpace(strings.Join(buf, "\n"))
		if text != "" {
			segments = append(segments, Segment{
				Content:   strings.Join(buf, "\n"),
				StartLine: segStart,
			})
		}

		buf = nil
		segStart = nextStart
	}

	for i, line := range lines {
		if s.separator.MatchString(strings.TrimSpace(line)) {
			flush(i + 2)

			continue
		}

		buf = append(buf, line)
	}

	flush(len(lines) + 1)

	return segments
}

// IsSeparator reports whether a single line is the separator token.
func (s *Scanner) IsSeparator(line string) bool {
	return s.separator.MatchString(strings.TrimSpace(line))
}

// CountSeparators returns the number of separator lines in the content.
func (s *Scanner) CountSeparators(content string) int {
	count := 0

	for line := range strings.SplitSeq(content, "\n") {
		if s.IsSeparator(line) {
			count++
		}
	}

	return count
}
