package ingest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"nngkb/internal/models"
	"nngkb/pkg/textutil"
)

// Extraction errors.
var (
	ErrNoTitle = errors.New("page has no article title")
	ErrNoBody  = errors.New("page has no article body")
)

// Extractor pulls article fields out of an NN/g page.
type Extractor struct{}

// NewExtractor creates a new extractor instance.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract parses the HTML of an article page into an Article. The fetched
// page URL serves as fallback when no canonical link is present.
func (e *Extractor) Extract(html, pageURL string) (*models.Article, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	art := &models.Article{
		SourceURL: pageURL,
	}

	if canonical, ok := doc.Find(`link[rel="canonical"]`).Attr("href"); ok && canonical != "" {
		art.SourceURL = canonical
	}

	art.Title = textutil.NormalizeWhitespace(doc.Find("article h1").First().Text())
	if art.Title == "" {
		art.Title = textutil.NormalizeWhitespace(doc.Find("h1").First().Text())
	}

	if art.Title == "" {
		return nil, ErrNoTitle
	}

	// Byline: author links in the article header, falling back to the
	// author meta tag
	doc.Find("article .author-block a, article a[rel=author]").Each(func(_ int, s *goquery.Selection) {
		name := textutil.NormalizeWhitespace(s.Text())
		if name != "" {
			art.Authors = append(art.Authors, name)
		}
	})

	if len(art.Authors) == 0 {
		if author, ok := doc.Find(`meta[name="author"]`).Attr("content"); ok {
			for _, name := range strings.Split(author, ",") {
				if n := textutil.NormalizeWhitespace(name); n != "" {
					art.Authors = append(art.Authors, n)
				}
			}
		}
	}

	art.DateRaw = textutil.NormalizeWhitespace(doc.Find("article time").First().Text())
	art.Summary = textutil.NormalizeWhitespace(doc.Find("article .article-summary, article .lede").First().Text())

	var bodyParts []string

	doc.Find("article h2, article h3, article p, article img").Each(func(_ int, s *goquery.Selection) {
		switch goquery.NodeName(s) {
		case "h2":
			if title := textutil.NormalizeWhitespace(s.Text()); title != "" {
				bodyParts = append(bodyParts, "## "+title)
			}
		case "h3":
			if title := textutil.NormalizeWhitespace(s.Text()); title != "" {
				bodyParts = append(bodyParts, "### "+title)
			}
		case "p":
			if text := textutil.NormalizeWhitespace(s.Text()); text != "" {
				bodyParts = append(bodyParts, text)
			}
		case "img":
			src, _ := s.Attr("src")
			alt, _ := s.Attr("alt")

			if src == "" {
				return
			}

			art.Images = append(art.Images, models.ImageRef{URL: src, Alt: alt})
			bodyParts = append(bodyParts, fmt.Sprintf("![%s](%s)", alt, src))

			if caption := textutil.NormalizeWhitespace(s.Parent().Find("figcaption").Text()); caption != "" {
				bodyParts = append(bodyParts, "*"+caption+"*")
			}
		}
	})

	if len(bodyParts) == 0 {
		return nil, ErrNoBody
	}

	art.Body = strings.Join(bodyParts, "\n\n")

	doc.Find(".article-tags a, a[href^='/topic/']").Each(func(_ int, s *goquery.Selection) {
		tag := textutil.NormalizeWhitespace(s.Text())
		if tag != "" && !containsFold(art.Tags, tag) {
			art.Tags = append(art.Tags, tag)
		}
	})

	doc.Find(".related-articles a[href^='/articles/']").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		title := textutil.NormalizeWhitespace(s.Text())

		if href == "" || title == "" {
			return
		}

		art.RelatedArticles = append(art.RelatedArticles, models.RelatedLink{
			Title: title,
			URL:   absoluteURL(art.SourceURL, href),
		})
	})

	return art, nil
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}

	return false
}

// absoluteURL resolves a site-relative href against the page URL's host.
func absoluteURL(pageURL, href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}

	if strings.HasPrefix(href, "/") {
		return "https://www.nngroup.com" + href
	}

	return strings.TrimSuffix(pageURL, "/") + "/" + href
}
