package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/darim/imageform/pkg/forms"
	"github.com/darim/imageform/pkg/model"
)

func newFormsCommand(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:     "forms",
		Aliases: []string{"ls"},
		Short:   "List the forms in the catalogue",
		Long: `List the forms known to imageform: the built-in image builder forms,
then any from --catalog, then any derived from --openapi.

Examples:
  imageform forms                 # Table of forms and their fields
  imageform forms --format yaml   # Catalogue file layout, reusable with --catalog`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, err := a.catalogFor(cmd.Context())
			if err != nil {
				return err
			}
			return writeForms(a.out, catalog, format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format (table, json, yaml)")
	return cmd
}

type catalogDocument struct {
	Forms map[string]model.Form `json:"forms" yaml:"forms"`
}

func writeForms(w io.Writer, catalog *forms.Catalog, format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "table":
		return writeFormsTable(w, catalog)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(catalogDoc(catalog))
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(catalogDoc(catalog)); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want table, json or yaml)", format)
	}
}

func catalogDoc(catalog *forms.Catalog) catalogDocument {
	doc := catalogDocument{Forms: make(map[string]model.Form, catalog.Len())}
	for _, name := range catalog.Names() {
		form, _ := catalog.Form(name)
		form.Name = ""
		doc.Forms[name] = form
	}
	return doc
}

func writeFormsTable(w io.Writer, catalog *forms.Catalog) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FORM\tENDPOINT\tFIELD\tKIND\tLABEL")
	for _, name := range catalog.Names() {
		form, _ := catalog.Form(name)
		for i, id := range form.Fields.IDs() {
			formCol, endpointCol := "", ""
			if i == 0 {
				formCol, endpointCol = name, "/"+form.Endpoint
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", formCol, endpointCol, id, form.Fields[id], form.Label(id))
		}
		if len(form.Fields) == 0 {
			fmt.Fprintf(tw, "%s\t/%s\t\t\t\n", name, form.Endpoint)
		}
	}
	return tw.Flush()
}
