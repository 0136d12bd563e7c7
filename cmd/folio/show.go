package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/daviddao/folio/internal/content"
	"github.com/daviddao/folio/internal/media"
	"github.com/daviddao/folio/internal/portable"
	"github.com/daviddao/folio/internal/types"
)

var (
	showRaw   bool
	showWidth int
)

var showCmd = &cobra.Command{
	Use:   "show project|post SLUG",
	Short: "Render a project or post in the terminal",
	Example: `  folio show post hello-world
  folio show project storefront --raw > storefront.md`,
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"project", "post"},
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, slug := args[0], args[1]
		loader, err := newLoader()
		if err != nil {
			return err
		}
		images := media.Resolver{ProjectID: cfg.Sanity.ProjectID, Dataset: cfg.Sanity.Dataset}
		imageURL := func(img types.Image) string { return images.URL(img, media.Width(1200), media.AutoFormat()) }

		var doc strings.Builder
		switch kind {
		case "project":
			p, state := loader.Project(cmd.Context(), slug)
			if p == nil {
				return notFound("project", slug, state)
			}
			if jsonOutput {
				return printJSON(cmd, p)
			}
			fmt.Fprintf(&doc, "# %s\n\n", p.Title)
			if len(p.Categories) > 0 {
				labels := make([]string, len(p.Categories))
				for i, c := range p.Categories {
					labels[i] = types.Title(types.ProjectCategories, c)
				}
				fmt.Fprintf(&doc, "_%s_\n\n", strings.Join(labels, ", "))
			}
			if len(p.Body) > 0 {
				doc.WriteString(portable.Markdown(p.Body, imageURL))
			} else if p.Description != "" {
				doc.WriteString(p.Description + "\n")
			}
			if len(p.Technologies) > 0 {
				doc.WriteString("\n## Technologies Used\n\n")
				for _, t := range p.Technologies {
					fmt.Fprintf(&doc, "- %s\n", t)
				}
			}
			for _, link := range [][2]string{{"GitHub", p.GithubLink}, {"Live Demo", p.LiveLink}} {
				if link[1] != "" {
					fmt.Fprintf(&doc, "\n[%s](%s)\n", link[0], link[1])
				}
			}
		case "post":
			p, state := loader.Post(cmd.Context(), slug)
			if p == nil {
				return notFound("post", slug, state)
			}
			if jsonOutput {
				return printJSON(cmd, p)
			}
			fmt.Fprintf(&doc, "# %s\n\n", p.Title)
			meta := []string{content.FormatDate(p.PublishedAt), p.ReadingTime}
			if p.Author.Name != "" {
				meta = append(meta, "by "+p.Author.Name)
			}
			fmt.Fprintf(&doc, "_%s_\n\n", strings.Join(meta, " · "))
			doc.WriteString(portable.Markdown(p.Body, imageURL))
		default:
			return fmt.Errorf("unknown kind %q: use project or post", kind)
		}

		if showRaw {
			fmt.Fprint(cmd.OutOrStdout(), doc.String())
			return nil
		}
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(showWidth),
		)
		if err != nil {
			return fmt.Errorf("create renderer: %w", err)
		}
		out, err := r.Render(doc.String())
		if err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func notFound(kind, slug string, state content.State) error {
	if state == content.StateFailed {
		return fmt.Errorf("could not load %s %q (see log)", kind, slug)
	}
	return fmt.Errorf("%s %q not found", kind, slug)
}

func init() {
	showCmd.Flags().BoolVar(&showRaw, "raw", false, "Print Markdown without terminal styling")
	showCmd.Flags().IntVar(&showWidth, "width", 80, "Wrap width")
	rootCmd.AddCommand(showCmd)
}
