package corpus

import (
	"fmt"

	"nngkb/internal/article"
	"nngkb/internal/models"
)

// LoadResult aggregates a full corpus parse.
type LoadResult struct {
	Articles []*models.Article
	Files    int
	Failures []ParseFailure
}

// ParseFailure records one sub-document that could not be parsed.
type ParseFailure struct {
	Path    string
	Ordinal int
	Err     error
}

// Load scans the corpus, splits every file, and parses each segment into an
// Article. Parse failures are collected rather than aborting the walk; the
// progress callback, if set, fires once per file.
func (s *Scanner) Load(parser *article.Parser, progress func(path string)) (*LoadResult, error) {
	paths, err := s.ListFiles()
	if err != nil {
		return nil, err
	}

	result := &LoadResult{Files: len(paths)}

	for _, path := range paths {
		if progress != nil {
			progress(path)
		}

		file, err := s.ReadFile(path)
		if err != nil {
			return nil, err
		}

		for ordinal, seg := range s.Split(file.Content) {
			art, err := parser.ParseArticle(seg.Content)
			if err != nil {
				result.Failures = append(result.Failures, ParseFailure{
					Path:    path,
					Ordinal: ordinal,
					Err:     fmt.Errorf("segment at line %d: %w", seg.StartLine, err),
				})

				continue
			}

			art.Path = path
			art.Ordinal = ordinal
			result.Articles = append(result.Articles, art)
		}
	}

	return result, nil
}
