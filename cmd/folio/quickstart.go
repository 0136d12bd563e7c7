package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daviddao/folio/internal/contact"
	"github.com/daviddao/folio/internal/display"
)

var quickstartCmd = &cobra.Command{
	Use:   "quickstart",
	Short: "Quick start guide for folio",
	Long:  "Display a quick start guide showing common folio workflows.",
	Run: func(cmd *cobra.Command, args []string) {
		b := display.Bold.Render
		a := display.Success.Render
		d := display.Dim.Render

		fmt.Printf("\n%s\n\n", b("folio — Personal Portfolio Site"))
		fmt.Println("Serve projects, a blog and a contact form from one binary.")
		fmt.Println()

		fmt.Println(b("GETTING STARTED"))
		fmt.Printf("  %s           Create .folio/folio.yaml and .folio/folio.db\n", a("folio init"))
		fmt.Printf("  %s\n", a("folio init --sanity-project abc123"))
		fmt.Printf("  %s\n\n", d("  Read content from Sanity project abc123"))

		fmt.Println(b("CONTENT"))
		fmt.Printf("  %s           Mirror Sanity content into SQLite\n", a("folio sync"))
		fmt.Printf("  %s       List projects\n", a("folio projects"))
		fmt.Printf("  %s  Only one category\n", a("folio projects -c web"))
		fmt.Printf("  %s  Posts and skills work the same way\n", a("folio posts / skills"))
		fmt.Printf("  %s  Render a post in the terminal\n\n", a("folio show post SLUG"))

		fmt.Println(b("SERVING"))
		fmt.Printf("  %s          Run the site on server.listen_addr\n", a("folio serve"))
		fmt.Printf("  %s  Override the address\n", a("folio serve --addr :3000"))
		fmt.Printf("  %s\n\n", d("  content.source: sqlite reads the mirror, sanity queries the CMS live"))

		fmt.Println(b("CONTACT FORM"))
		fmt.Printf("  %s\n", a(`folio send --name Ada --email ada@example.com --subject Hi --message "Hello there!"`))
		fmt.Printf("  %s\n", d("  Submits once and prints each status:"))
		fmt.Printf("    %s\n", display.StatusLine(contact.StatusIdle))
		fmt.Printf("    %s\n", display.StatusLine(contact.StatusSubmitting))
		fmt.Printf("    %s\n", display.StatusLine(contact.StatusSuccess))
		fmt.Printf("    %s\n\n", display.StatusLine(contact.StatusError))
		fmt.Printf("  %s        Messages received by the site\n", a("folio messages"))
		fmt.Printf("  %s           Content and inbox counts\n\n", a("folio stats"))

		fmt.Println(b("NOTIFICATIONS"))
		fmt.Println("  Put a Google OAuth credentials.json at notify.credentials, set notify.to,")
		fmt.Printf("  run %s once, then set notify.enabled: true.\n", a("folio notify login"))
		fmt.Printf("  %s sends a test message.\n\n", a("folio notify test"))

		fmt.Println(b("JSON OUTPUT"))
		fmt.Printf("  Listings support %s for machine-readable output:\n", a("--json"))
		fmt.Printf("  %s\n", a("folio projects --json"))
		fmt.Printf("  %s\n\n", a("folio stats --json"))

		fmt.Printf("%s Run %s to start.\n\n", display.Success.Render("Ready!"), a("folio init"))
	},
}

func init() {
	rootCmd.AddCommand(quickstartCmd)
}
