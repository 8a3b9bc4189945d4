package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// blockTags are elements that end a line when HTML is flattened. Line
// structure matters here: each line of a schedule post is usually one
// entry, and the extraction prompt leans on that.
var blockTags = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"table": true, "ul": true, "ol": true, "section": true, "article": true,
}

// CleanText normalizes pasted schedule input. HTML is flattened to visible
// text with line breaks preserved; plain text passes through with
// whitespace tidied.
func CleanText(input string) string {
	if !looksLikeHTML(input) {
		return normalizeWhitespace(input)
	}

	doc, err := html.Parse(strings.NewReader(input))
	if err != nil {
		// Parse failures fall back to the raw text
		return normalizeWhitespace(input)
	}

	return normalizeWhitespace(flattenVisibleText(doc))
}

// looksLikeHTML reports whether the input is worth running through an HTML
// parser. Angle brackets alone are not enough since schedule text can
// contain them, so require a known tag.
func looksLikeHTML(input string) bool {
	lower := strings.ToLower(input)
	for _, marker := range []string{"<html", "<body", "<div", "<p>", "<p ", "<br", "<table", "<span", "<li>"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// flattenVisibleText extracts text nodes from HTML, skipping scripts/styles
func flattenVisibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			// Skip script, style, noscript tags
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if n.Type == html.ElementNode && blockTags[n.Data] {
			buf.WriteString("\n")
		}
	}

	walk(n)
	return buf.String()
}

// normalizeWhitespace collapses runs of spaces and drops blank lines while
// keeping the line structure of the schedule.
func normalizeWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	var out []string
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
