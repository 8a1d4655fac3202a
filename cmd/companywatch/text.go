package main

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// htmlText flattens an HTML fragment into one line of plain text. Input
// that does not parse is returned trimmed.
func htmlText(s string) string {
	if !strings.ContainsRune(s, '<') {
		return strings.Join(strings.Fields(s), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	var words []string
	collectText(doc.Find("body"), &words)
	return strings.Join(words, " ")
}

func collectText(sel *goquery.Selection, words *[]string) {
	sel.Contents().Each(func(_ int, c *goquery.Selection) {
		switch goquery.NodeName(c) {
		case "#text":
			*words = append(*words, strings.Fields(c.Text())...)
		case "script", "style":
		default:
			collectText(c, words)
		}
	})
}
