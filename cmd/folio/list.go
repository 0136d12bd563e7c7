package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/daviddao/folio/internal/content"
	"github.com/daviddao/folio/internal/display"
	"github.com/daviddao/folio/internal/filter"
	"github.com/daviddao/folio/internal/types"
)

var listCategory string

type listOutput[T any] struct {
	Category   string   `json:"category"`
	Categories []string `json:"categories"`
	State      string   `json:"state"`
	Items      []T      `json:"items"`
}

func newLoader() (*content.Loader, error) {
	src, err := contentSource()
	if err != nil {
		return nil, err
	}
	return content.NewLoader(src, logger,
		content.WithLimits(cfg.Content.FeaturedLimit, cfg.Content.SkillsLimit),
		content.WithTimeout(cfg.Content.Timeout),
	), nil
}

func labeler(options []types.Option) func(string) string {
	return func(v string) string { return types.Title(options, v) }
}

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List projects, optionally filtered by category",
	Example: `  folio projects
  folio projects --category web --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		loader, err := newLoader()
		if err != nil {
			return err
		}
		list := loader.Projects(cmd.Context())
		view := filter.NewView(list.Projects)
		view.Select(listCategory)

		if jsonOutput {
			return printJSON(cmd, listOutput[types.Project]{
				Category: view.Selection(), Categories: list.Categories,
				State: list.State.String(), Items: view.Visible(),
			})
		}

		if list.State == content.StateFailed {
			return fmt.Errorf("could not load projects (see log)")
		}
		if len(view.Items()) == 0 {
			fmt.Println(display.Dim.Render("No projects yet."))
			return nil
		}
		fmt.Println(display.Chips(filter.Options(view.Selection(), "All Projects", list.Categories, labeler(types.ProjectCategories))))
		fmt.Println()
		if len(view.Visible()) == 0 {
			fmt.Println(display.Dim.Render("No projects found in this category."))
			return nil
		}
		for _, p := range view.Visible() {
			fmt.Printf("%s %-28s %s\n", display.FeaturedMark(p.Featured), display.Truncate(p.Title, 28), display.Dim.Render(p.Slug.Current))
			if p.Description != "" {
				fmt.Printf("    %s\n", display.Truncate(p.Description, 76))
			}
			if len(p.Technologies) > 0 {
				fmt.Printf("    %s\n", display.Muted.Render(strings.Join(p.Technologies, " · ")))
			}
		}
		return nil
	},
}

var postsCmd = &cobra.Command{
	Use:   "posts",
	Short: "List blog posts, optionally filtered by category",
	RunE: func(cmd *cobra.Command, args []string) error {
		loader, err := newLoader()
		if err != nil {
			return err
		}
		list := loader.Blog(cmd.Context())
		view := filter.NewView(list.Posts)
		view.Select(listCategory)

		if jsonOutput {
			return printJSON(cmd, listOutput[types.Post]{
				Category: view.Selection(), Categories: list.Categories,
				State: list.State.String(), Items: view.Visible(),
			})
		}

		if list.State == content.StateFailed {
			return fmt.Errorf("could not load posts (see log)")
		}
		if len(view.Items()) == 0 {
			fmt.Println(display.Dim.Render("No posts yet."))
			return nil
		}
		fmt.Println(display.Chips(filter.Options(view.Selection(), "All Posts", list.Categories, labeler(types.PostCategories))))
		fmt.Println()
		if len(view.Visible()) == 0 {
			fmt.Println(display.Dim.Render("No posts found in this category."))
			return nil
		}
		for _, p := range view.Visible() {
			fmt.Printf("  %-18s %s\n", display.Dim.Render(content.FormatDate(p.PublishedAt)), display.Bold.Render(p.Title))
			fmt.Printf("  %-18s %s\n", "", display.Muted.Render(p.Slug.Current+" · "+p.ReadingTime))
		}
		return nil
	},
}

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "List skills with proficiency, optionally filtered by category",
	RunE: func(cmd *cobra.Command, args []string) error {
		loader, err := newLoader()
		if err != nil {
			return err
		}
		about := loader.About(cmd.Context())
		view := filter.NewView(about.Skills)
		view.Select(listCategory)
		categories := filter.Unique(about.Skills)

		if jsonOutput {
			return printJSON(cmd, listOutput[types.Skill]{
				Category: view.Selection(), Categories: nonNil(categories),
				State: about.State.String(), Items: view.Visible(),
			})
		}

		if about.State == content.StateFailed {
			return fmt.Errorf("could not load skills (see log)")
		}
		if len(view.Items()) == 0 {
			fmt.Println(display.Dim.Render("No skills yet."))
			return nil
		}
		fmt.Println(display.Chips(filter.Options(view.Selection(), "All Skills", categories, labeler(types.SkillCategories))))
		fmt.Println()
		for _, s := range view.Visible() {
			fmt.Printf("  %-20s %s  %s\n", display.Truncate(s.Name, 20), display.ProficiencyBar(s.Proficiency, 20),
				display.Dim.Render(types.Title(types.SkillCategories, s.Category)))
		}
		return nil
	},
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func init() {
	for _, c := range []*cobra.Command{projectsCmd, postsCmd, skillsCmd} {
		c.Flags().StringVarP(&listCategory, "category", "c", filter.All, "Category to show")
		rootCmd.AddCommand(c)
	}
}
