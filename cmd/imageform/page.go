package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/darim/imageform/pkg/renderers/page"
)

func newPageCommand(a *app) *cobra.Command {
	var (
		out       string
		templates string
	)
	cmd := &cobra.Command{
		Use:   "page <form>",
		Short: "Render the HTML page that submits a form from the browser",
		Long: `Render a standalone HTML page for a form. The API URL resolved from
--api-url or --hostname is written into the page script.

Examples:
  imageform page compose --hostname www.darim.me --out compose.html
  imageform page jpeg --templates ./my-templates`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := a.catalogFor(cmd.Context())
			if err != nil {
				return err
			}
			form, err := catalog.Lookup(args[0])
			if err != nil {
				return err
			}

			renderer, err := page.New(
				page.WithPlaceholder(a.cfg.UI.Placeholder),
				page.WithTheme(a.cfg.UI.Theme.Manifest(), a.cfg.UI.Theme.Variant),
				page.WithTemplatesDir(templates),
			)
			if err != nil {
				return err
			}
			html, err := renderer.Render(cmd.Context(), form, a.cfg.APIURL())
			if err != nil {
				return err
			}

			if out == "" {
				_, err := a.out.Write(html)
				return err
			}
			if err := os.WriteFile(out, html, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			a.logger.Info("page written", zap.String("form", form.Name), zap.String("path", out))
			fmt.Fprintf(a.out, "Page written to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&templates, "templates", "", "directory holding an alternate page.html template")
	return cmd
}
