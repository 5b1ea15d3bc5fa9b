package htmlx

import (
	"bytes"
	"log"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Renderer converts model-generated markdown into HTML safe to hand to a
// browser. Model output is untrusted input.
type Renderer struct {
	md        goldmark.Markdown
	sanitizer *bluemonday.Policy
}

func NewRenderer() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
	)

	// Strict base, then allow the markdown constructs we render.
	sanitizer := bluemonday.StrictPolicy()
	sanitizer.AllowElements("p", "br", "strong", "em", "del", "code", "pre", "blockquote")
	sanitizer.AllowElements("ul", "ol", "li")
	sanitizer.AllowElements("h1", "h2", "h3", "h4", "h5", "h6")
	sanitizer.AllowElements("table", "thead", "tbody", "tr", "th", "td")
	sanitizer.AllowAttrs("href").OnElements("a")
	sanitizer.RequireParseableURLs(true)
	sanitizer.AddTargetBlankToFullyQualifiedLinks(true)
	sanitizer.RequireNoFollowOnLinks(true)

	return &Renderer{md: md, sanitizer: sanitizer}
}

// Render returns sanitized HTML for the given markdown. On a parser error it
// falls back to the sanitized raw text rather than dropping the response.
func (r *Renderer) Render(markdown string) string {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		log.Printf("htmlx: markdown convert failed: %v", err)
		return r.sanitizer.Sanitize(markdown)
	}
	return r.sanitizer.Sanitize(buf.String())
}
