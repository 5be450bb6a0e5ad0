// Package ingest fetches external documents and extracts paragraph-sized
// passages suitable for typing races, deduplicated by the passage store.
package ingest

import (
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

const (
	// Paragraphs shorter than this are boilerplate (captions, nav text).
	minParagraph = 80
	// Combined passage length bounds, sentence-boundary aware.
	minPassage = 220
	maxPassage = 650
)

// ExtractPassages pulls <p> text out of an HTML document and reassembles it
// into medium-length passages.
func ExtractPassages(doc string) []string {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return nil
	}

	var paras []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "p" {
			if t := normalizeSpace(nodeText(n)); len(t) > minParagraph {
				paras = append(paras, t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	var out []string
	var buf strings.Builder
	for _, para := range paras {
		if len(para) > maxPassage {
			for _, chunk := range splitSentences(para, maxPassage) {
				pushChunk(&out, &buf, chunk)
			}
		} else {
			pushChunk(&out, &buf, para)
		}
	}
	if buf.Len() >= minPassage {
		out = append(out, strings.TrimSpace(buf.String()))
	}

	final := make([]string, 0, len(out))
	for _, s := range out {
		if !strings.ContainsFunc(s, unicode.IsLetter) {
			continue
		}
		final = append(final, ensureTerminalPunctuation(s))
	}
	return final
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// pushChunk accumulates paragraphs into buf; when the next chunk would grow
// past the maximum, the buffer is flushed as one passage if long enough.
func pushChunk(out *[]string, buf *strings.Builder, next string) {
	switch {
	case buf.Len() == 0:
		buf.WriteString(next)
	case buf.Len()+1+len(next) <= maxPassage:
		buf.WriteByte(' ')
		buf.WriteString(next)
	default:
		if buf.Len() >= minPassage {
			*out = append(*out, strings.TrimSpace(buf.String()))
		}
		buf.Reset()
		buf.WriteString(next)
	}
}

// splitSentences breaks an over-long paragraph at sentence boundaries into
// pieces no longer than maxLen.
func splitSentences(long string, maxLen int) []string {
	var out []string
	var cur strings.Builder
	for _, sent := range strings.FieldsFunc(long, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	}) {
		s := normalizeSpace(sent)
		if s == "" {
			continue
		}
		if cur.Len()+len(s)+1 > maxLen {
			if cur.Len() > 0 {
				out = append(out, strings.TrimSpace(cur.String()))
			}
			cur.Reset()
			cur.WriteString(s)
			continue
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(s)
	}
	if cur.Len() > 0 {
		out = append(out, strings.TrimSpace(cur.String()))
	}
	return out
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func ensureTerminalPunctuation(s string) string {
	if strings.HasSuffix(s, ".") || strings.HasSuffix(s, "!") || strings.HasSuffix(s, "?") {
		return s
	}
	return s + "."
}
