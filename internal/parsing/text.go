package parsing

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	multiSpacePattern = regexp.MustCompile(`[ \t]+`)
	blankRunPattern   = regexp.MustCompile(`\n{3,}`)
)

// jobContentSelectors are tried in order to locate the posting body.
var jobContentSelectors = []string{
	".job-description",
	".job-content",
	"#job-description",
	"#job-content",
	".posting-content",
	".job-details",
	"[data-testid='job-description']",
	"main",
	"article",
}

// noiseSelectors are removed before extracting text.
const noiseSelectors = "nav, footer, header, script, style, noscript, form, .ad, .advertisement, .sidebar, .cookie-banner, .popup, .apply-button"

// blockElements get a line break after their text so list items stay separate.
const blockElements = "p, li, h1, h2, h3, h4, h5, h6, div, tr"

// HTMLToText extracts readable text from an HTML job posting.
func HTMLToText(html string) (string, error) {
	return ExtractText(html, jobContentSelectors, nil)
}

// ExtractText removes noise, takes the first element matching contentSelectors
// (falling back to body) and returns its cleaned text with one line per block.
func ExtractText(html string, contentSelectors, extraNoise []string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find(noiseSelectors).Remove()
	if len(extraNoise) > 0 {
		doc.Find(strings.Join(extraNoise, ", ")).Remove()
	}

	var content *goquery.Selection
	for _, selector := range contentSelectors {
		if sel := doc.Find(selector); sel.Length() > 0 {
			content = sel.First()
			break
		}
	}
	if content == nil {
		content = doc.Find("body")
	}

	content.Find("br").ReplaceWithHtml("\n")
	content.Find("li").Each(func(_ int, s *goquery.Selection) {
		s.PrependHtml("- ")
	})
	content.Find(blockElements).Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	return CleanText(content.Text()), nil
}

// CleanText normalizes line endings and whitespace while keeping line structure.
func CleanText(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(multiSpacePattern.ReplaceAllString(line, " "))
	}

	result := blankRunPattern.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(result)
}
