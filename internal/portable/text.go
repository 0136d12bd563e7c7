package portable

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/daviddao/folio/internal/types"
)

// WordsPerMinute is the reading speed used for estimates.
const WordsPerMinute = 200

// PlainText joins the text of all blocks, one line per block. Code is included.
func PlainText(blocks []types.Block) string {
	var lines []string
	for _, blk := range blocks {
		switch blk.Type {
		case types.BlockTypeBlock:
			lines = append(lines, spanText(blk.Children))
		case types.BlockTypeCode:
			lines = append(lines, blk.Code)
		}
	}
	return strings.Join(lines, "\n")
}

// ReadingTime estimates how long the body takes to read, e.g. "4 min read".
func ReadingTime(blocks []types.Block) string {
	words := len(strings.Fields(PlainText(blocks)))
	minutes := (words + WordsPerMinute - 1) / WordsPerMinute
	return fmt.Sprintf("%d min read", max(minutes, 1))
}

// Markdown renders blocks as Markdown. Images resolve through imageURL when
// it is non-nil and are skipped otherwise.
func Markdown(blocks []types.Block, imageURL ImageURL) string {
	var b strings.Builder
	number := map[int]int{}
	prevList := false

	for _, blk := range blocks {
		isList := blk.Type == types.BlockTypeBlock && blk.ListItem != ""
		if prevList && !isList {
			b.WriteString("\n")
			clear(number)
		}
		prevList = isList

		switch blk.Type {
		case types.BlockTypeBlock:
			text := markdownSpans(blk)
			if isList {
				level := max(blk.Level, 1)
				indent := strings.Repeat("  ", level-1)
				if blk.ListItem == types.ListNumber {
					number[level]++
					b.WriteString(indent + strconv.Itoa(number[level]) + ". " + text + "\n")
				} else {
					b.WriteString(indent + "- " + text + "\n")
				}
				continue
			}
			switch blk.Style {
			case types.StyleH1:
				b.WriteString("# " + text + "\n\n")
			case types.StyleH2:
				b.WriteString("## " + text + "\n\n")
			case types.StyleH3:
				b.WriteString("### " + text + "\n\n")
			case types.StyleH4:
				b.WriteString("#### " + text + "\n\n")
			case types.StyleBlockquote:
				b.WriteString("> " + strings.ReplaceAll(text, "\n", "\n> ") + "\n\n")
			default:
				b.WriteString(text + "\n\n")
			}
		case types.BlockTypeImage:
			if imageURL == nil {
				continue
			}
			if src := imageURL(blk.Image()); src != "" {
				b.WriteString("![" + altText(blk.Alt) + "](" + src + ")\n\n")
			}
		case types.BlockTypeCode:
			if blk.Filename != "" {
				b.WriteString("`" + blk.Filename + "`\n\n")
			}
			b.WriteString("```" + strings.ToLower(blk.Language) + "\n" + blk.Code + "\n```\n\n")
		}
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

func markdownSpans(blk types.Block) string {
	links := make(map[string]string, len(blk.MarkDefs))
	for _, def := range blk.MarkDefs {
		if def.Type == "link" {
			links[def.Key] = def.Href
		}
	}
	var b strings.Builder
	for _, span := range blk.Children {
		text := span.Text
		href := ""
		for _, mark := range span.Marks {
			switch mark {
			case types.MarkStrong:
				text = "**" + text + "**"
			case types.MarkEmphasis:
				text = "_" + text + "_"
			case types.MarkCode:
				text = "`" + text + "`"
			default:
				if h, ok := links[mark]; ok {
					href = h
				}
			}
		}
		if href != "" {
			text = "[" + text + "](" + href + ")"
		}
		b.WriteString(text)
	}
	return b.String()
}

func spanText(spans []types.Span) string {
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(s.Text)
	}
	return b.String()
}
