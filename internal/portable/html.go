// Package portable renders portable-text bodies as HTML for the site and as
// Markdown for the terminal.
package portable

import (
	"html"
	"html/template"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/daviddao/folio/internal/types"
)

// ImageURL resolves a body image to a fetchable URL.
type ImageURL func(types.Image) string

// Renderer converts bodies to sanitized HTML.
type Renderer struct {
	imageURL ImageURL
	policy   *bluemonday.Policy
}

// NewRenderer returns a renderer that resolves images with imageURL.
func NewRenderer(imageURL ImageURL) *Renderer {
	p := bluemonday.UGCPolicy()
	p.AllowElements("figure", "figcaption")
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^[a-z0-9 -]+$`)).Globally()
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return &Renderer{imageURL: imageURL, policy: p}
}

// HTML renders blocks. Unknown node types are skipped.
func (r *Renderer) HTML(blocks []types.Block) template.HTML {
	var b strings.Builder
	var lists []string // open list tags, innermost last

	closeLists := func(depth int) {
		for len(lists) > depth {
			b.WriteString("</li></" + lists[len(lists)-1] + ">")
			lists = lists[:len(lists)-1]
		}
	}

	for _, blk := range blocks {
		if blk.Type == types.BlockTypeBlock && blk.ListItem != "" {
			level := max(blk.Level, 1)
			tag := "ul"
			if blk.ListItem == types.ListNumber {
				tag = "ol"
			}
			closeLists(level)
			switch {
			case len(lists) == level && lists[level-1] == tag:
				b.WriteString("</li><li>")
			case len(lists) == level:
				closeLists(level - 1)
				fallthrough
			default:
				for len(lists) < level {
					b.WriteString("<" + tag + "><li>")
					lists = append(lists, tag)
				}
			}
			r.writeSpans(&b, blk)
			continue
		}
		closeLists(0)

		switch blk.Type {
		case types.BlockTypeBlock:
			tag := blockTag(blk.Style)
			b.WriteString("<" + tag + ">")
			r.writeSpans(&b, blk)
			b.WriteString("</" + tag + ">")
		case types.BlockTypeImage:
			src := ""
			if r.imageURL != nil {
				src = r.imageURL(blk.Image())
			}
			if src == "" {
				continue
			}
			b.WriteString(`<figure><img src="` + html.EscapeString(src) + `" alt="` + html.EscapeString(altText(blk.Alt)) + `"></figure>`)
		case types.BlockTypeCode:
			b.WriteString("<pre>")
			if blk.Filename != "" {
				b.WriteString(`<span class="filename">` + html.EscapeString(blk.Filename) + "</span>")
			}
			if blk.Language != "" {
				b.WriteString(`<code class="language-` + html.EscapeString(strings.ToLower(blk.Language)) + `">`)
			} else {
				b.WriteString("<code>")
			}
			b.WriteString(html.EscapeString(blk.Code))
			b.WriteString("</code></pre>")
		}
	}
	closeLists(0)

	return template.HTML(r.policy.Sanitize(b.String()))
}

func (r *Renderer) writeSpans(b *strings.Builder, blk types.Block) {
	links := make(map[string]string, len(blk.MarkDefs))
	for _, def := range blk.MarkDefs {
		if def.Type == "link" {
			links[def.Key] = def.Href
		}
	}
	for _, span := range blk.Children {
		var closers []string
		for _, mark := range span.Marks {
			switch mark {
			case types.MarkStrong:
				b.WriteString("<strong>")
				closers = append(closers, "</strong>")
			case types.MarkEmphasis:
				b.WriteString("<em>")
				closers = append(closers, "</em>")
			case types.MarkCode:
				b.WriteString("<code>")
				closers = append(closers, "</code>")
			default:
				if href, ok := links[mark]; ok {
					b.WriteString(`<a href="` + html.EscapeString(href) + `" rel="noopener noreferrer">`)
					closers = append(closers, "</a>")
				}
			}
		}
		b.WriteString(strings.ReplaceAll(html.EscapeString(span.Text), "\n", "<br>"))
		for i := len(closers) - 1; i >= 0; i-- {
			b.WriteString(closers[i])
		}
	}
}

func blockTag(style string) string {
	switch style {
	case types.StyleH1, types.StyleH2, types.StyleH3, types.StyleH4:
		return style
	case types.StyleBlockquote:
		return "blockquote"
	}
	return "p"
}

func altText(alt string) string {
	if alt == "" {
		return "Image"
	}
	return alt
}
