package cmd

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/net/html"

	"github.com/marcus/mbrowse/internal/dom"
	"github.com/marcus/mbrowse/internal/selection"
	"github.com/marcus/mbrowse/internal/settings"
)

var (
	demoRows        int
	demoCount       int
	demoCardinality settings.Cardinality
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Write a sample list view and register its settings",
	Long: `Write a sample list view document with a fresh widget uuid.

The widget's record is stored in the settings store so "mbrowse browse" finds
it. With --embed the record is also written into the document itself.`,
	GroupID: "system",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if demoRows < 1 {
			return fmt.Errorf("--rows must be at least 1, got %d", demoRows)
		}
		id := uuid.New().String()
		rec := settings.Record{Count: demoCount, Cardinality: demoCardinality}

		embed, _ := cmd.Flags().GetBool("embed")
		doc, err := demoDocument(id, demoRows, rec, embed)
		if err != nil {
			return err
		}

		database, err := openStore()
		if err != nil {
			return err
		}
		defer database.Close()
		if err := database.Put(id, rec); err != nil {
			return err
		}

		outPath, _ := cmd.Flags().GetString("out")
		if outPath == "" {
			return dom.Render(cmd.OutOrStdout(), doc)
		}
		if err := writeDocument(outPath, doc); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "wrote %s (uuid %s)\n", outPath, id)
		return nil
	},
}

const demoShell = `<!DOCTYPE html>
<html><head><title>Media library</title></head>
<body><div class="entity-browser"></div></body></html>`

var demoBody = dom.MustCompile("div.entity-browser")

// demoDocument builds a list view with rows media:1..media:rows. The first
// rec.Count rows are pre-selected so the markup agrees with the record.
func demoDocument(id string, rows int, rec settings.Record, embed bool) (*html.Node, error) {
	doc, err := dom.ParseString(demoShell)
	if err != nil {
		return nil, err
	}

	form := dom.NewElement("form", "entity-browser-form")
	dom.SetAttr(form, selection.UUIDAttribute, id)
	content := dom.NewElement("div", "view-content")
	form.AppendChild(content)

	for i := 1; i <= rows; i++ {
		row := dom.NewElement("div", "views-row")
		input := dom.NewElement("input")
		dom.SetAttr(input, "type", "checkbox")
		dom.SetAttr(input, "name", fmt.Sprintf("entity_browser_select[media:%d]", i))
		label := dom.NewElement("span", "label")
		dom.SetText(label, fmt.Sprintf("Media item %d", i))
		row.AppendChild(input)
		row.AppendChild(label)
		if i <= rec.Count {
			dom.AddClass(row, selection.ClassChecked)
			dom.SetAttr(input, "checked", "checked")
		}
		content.AppendChild(row)
	}
	dom.Query(doc, demoBody).AppendChild(form)

	if embed {
		reg := settings.NewRegistry(map[string]settings.Record{id: rec})
		if err := settings.Embed(doc, reg); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func init() {
	rootCmd.AddCommand(demoCmd)
	demoCmd.Flags().IntVarP(&demoRows, "rows", "r", 6, "Number of rows")
	demoCmd.Flags().IntVarP(&demoCount, "count", "n", 0, "Number of rows already selected")
	cardinalityFlag(demoCmd.Flags(), &demoCardinality, "cardinality", "c", 2, `Maximum items: a positive number or "unlimited"`)
	demoCmd.Flags().Bool("embed", false, "Also embed the settings in the document")
	demoCmd.Flags().StringP("out", "o", "", "Write the document to this file instead of stdout")
}
