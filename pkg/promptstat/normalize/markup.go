package normalize

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// StripMarkup returns the text content of s with HTML tags removed and
// entities decoded. Tag boundaries become spaces so adjacent words stay
// apart. Only names known to HTML count as tags: "dark <verse> pop" keeps
// <verse> as text. Plain text passes through unchanged.
func StripMarkup(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return b.String()
			}
			return s
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			raw := string(z.Raw())
			name, _ := z.TagName()
			if atom.Lookup(name) == 0 {
				b.WriteString(raw)
				continue
			}
			b.WriteByte(' ')
		case html.CommentToken, html.DoctypeToken:
			b.WriteByte(' ')
		}
	}
}
