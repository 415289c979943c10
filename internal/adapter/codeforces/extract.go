package codeforces

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"codemate/internal/domain/model"
)

var fallbackSelectors = []string{
	"#pageContent .problem-statement",
	".problemindexholder .problem-statement",
	".ttypography .problem-statement",
}

var (
	titlePrefix   = regexp.MustCompile(`^[A-Z][0-9]*\.\s*`)
	timeLabel     = regexp.MustCompile(`(?i)time limit per test`)
	memoryLabel   = regexp.MustCompile(`(?i)memory limit per test`)
	brTag         = regexp.MustCompile(`(?i)<br\s*/?>`)
	sampleInputs  = ".sample-tests .input pre, .sample-test .input pre"
	sampleOutputs = ".sample-tests .output pre, .sample-test .output pre"
)

// Extract parses a problem page and builds the sanitized statement.
func Extract(page *model.Page, ref model.ProblemRef) (*model.ProblemStatement, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		return nil, fmt.Errorf("parse problem page: %w", err)
	}

	stmt := findStatement(doc)
	if stmt == nil {
		return nil, &model.StatementNotFoundError{URL: page.URL}
	}

	absolutizeLinks(stmt, page.Origin)

	inner, err := stmt.Html()
	if err != nil {
		return nil, fmt.Errorf("render statement: %w", err)
	}

	return &model.ProblemStatement{
		ContestID:     ref.ContestID,
		Index:         ref.Index,
		URL:           page.URL,
		Title:         titlePrefix.ReplaceAllString(strings.TrimSpace(stmt.Find(".title").First().Text()), ""),
		TimeLimit:     propertyValue(stmt.Find(".time-limit"), timeLabel),
		MemoryLimit:   propertyValue(stmt.Find(".memory-limit"), memoryLabel),
		InputFile:     propertyValue(stmt.Find(".input-file"), nil),
		OutputFile:    propertyValue(stmt.Find(".output-file"), nil),
		Samples:       extractSamples(stmt),
		StatementHTML: Sanitize(inner),
	}, nil
}

func findStatement(doc *goquery.Document) *goquery.Selection {
	if sel := doc.Find(StatementSelector).First(); sel.Length() > 0 {
		return sel
	}
	for _, s := range fallbackSelectors {
		if sel := doc.Find(s).First(); sel.Length() > 0 {
			return sel
		}
	}
	return nil
}

func absolutizeLinks(stmt *goquery.Selection, origin string) {
	stmt.Find("a").Each(func(_ int, a *goquery.Selection) {
		if href, ok := a.Attr("href"); ok && href != "" {
			a.SetAttr("href", absolutize(href, origin))
		}
	})

	stmt.Find("img").Each(func(_ int, img *goquery.Selection) {
		src := img.AttrOr("src", "")
		if src == "" {
			src = img.AttrOr("data-src", "")
		}
		if src != "" {
			img.SetAttr("src", absolutize(src, origin))
		}
		if srcset, ok := img.Attr("srcset"); ok && srcset != "" {
			img.SetAttr("srcset", absolutizeSrcset(srcset, origin))
		}
	})
}

func absolutize(u, origin string) string {
	switch {
	case strings.HasPrefix(u, "//"):
		return "https:" + u
	case strings.HasPrefix(u, "/"):
		return origin + u
	default:
		return u
	}
}

func absolutizeSrcset(srcset, origin string) string {
	items := strings.Split(srcset, ",")
	out := make([]string, 0, len(items))
	for _, item := range items {
		fields := strings.Fields(item)
		if len(fields) == 0 {
			continue
		}
		fields[0] = absolutize(fields[0], origin)
		out = append(out, strings.Join(fields, " "))
	}
	return strings.Join(out, ", ")
}

// propertyValue returns the text of a limits/io block without its label.
func propertyValue(sel *goquery.Selection, label *regexp.Regexp) string {
	if sel.Length() == 0 {
		return ""
	}
	clone := sel.Clone()
	clone.Find(".property-title").Remove()
	text := clone.Text()
	if label != nil {
		text = label.ReplaceAllString(text, "")
	}
	return strings.TrimSpace(text)
}

func extractSamples(stmt *goquery.Selection) []model.SampleTest {
	inputs := stmt.Find(sampleInputs)
	outputs := stmt.Find(sampleOutputs)

	n := inputs.Length()
	if outputs.Length() > n {
		n = outputs.Length()
	}

	samples := make([]model.SampleTest, 0, n)
	for i := 0; i < n; i++ {
		in := preText(inputs.Eq(i))
		out := preText(outputs.Eq(i))
		if in == "" && out == "" {
			continue
		}
		samples = append(samples, model.SampleTest{Input: in, Output: out})
	}
	return samples
}

// preText converts a sample <pre> to plain text. Newer Codeforces markup wraps
// each line in a .test-example-line div; older markup separates lines with <br>.
func preText(pre *goquery.Selection) string {
	if pre.Length() == 0 {
		return ""
	}

	if lines := pre.Find(".test-example-line"); lines.Length() > 0 {
		parts := make([]string, 0, lines.Length())
		lines.Each(func(_ int, l *goquery.Selection) {
			parts = append(parts, cleanSampleText(l.Text()))
		})
		return strings.Join(parts, "\n")
	}

	raw, err := pre.Html()
	if err != nil {
		return ""
	}
	raw = brTag.ReplaceAllString(raw, "\n")
	raw = strings.ReplaceAll(raw, "&nbsp;", " ")

	frag, err := goquery.NewDocumentFromReader(strings.NewReader("<div>" + raw + "</div>"))
	if err != nil {
		return cleanSampleText(raw)
	}
	return cleanSampleText(frag.Find("div").First().Text())
}

func cleanSampleText(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	return strings.ReplaceAll(s, "\u00a0", " ")
}
