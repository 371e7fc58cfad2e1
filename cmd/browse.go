package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/marcus/mbrowse/internal/attach"
	"github.com/marcus/mbrowse/internal/db"
	"github.com/marcus/mbrowse/internal/dom"
	"github.com/marcus/mbrowse/internal/i18n"
	"github.com/marcus/mbrowse/internal/output"
	"github.com/marcus/mbrowse/internal/selection"
	"github.com/marcus/mbrowse/internal/settings"
	"github.com/marcus/mbrowse/pkg/browser"
)

// browseActivations collects --click and --dblclick in command line order.
var browseActivations []activation

var browseCmd = &cobra.Command{
	Use:   "browse FILE",
	Short: "Select items in a list view document",
	Long: `Select items in a list view document.

The widget's configuration is looked up by the form's uuid. A document that is
not framed reads the settings it embeds, falling back to the settings store and
the settings file. With --framed the document runs inside an embedder, and only
the store and the settings file (the embedder's settings) count.

On a terminal the selection is made interactively. Otherwise, or with --click
and --dblclick, the given items are activated in command line order and the
result is printed.`,
	GroupID: "core",
	Args:    cobra.ExactArgs(1),
	RunE:    runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
	browseCmd.Flags().String("uuid-settings", "", "Settings file layered over the store (default from config)")
	browseCmd.Flags().Bool("framed", false, "Resolve settings from the embedding window")
	activationFlag(browseCmd.Flags(), &browseActivations, "click", dom.EventClick, "Click the item with this id (repeatable, implies headless)")
	activationFlag(browseCmd.Flags(), &browseActivations, "dblclick", dom.EventDblClick, "Double click the item with this id (repeatable, implies headless)")
	browseCmd.Flags().Bool("no-tui", false, "Never start the interactive browser")
	browseCmd.Flags().StringP("out", "o", "", "Write the updated document to this file")
	browseCmd.Flags().StringP("format", "f", "ids", "Output format: ids, tree or json")
}

// browseInput is everything the load phase produces.
type browseInput struct {
	doc      *html.Node
	stored   *settings.Registry
	fromFile *settings.Registry
}

// loadBrowseInput reads the document, the store snapshot and the settings
// file concurrently.
func loadBrowseInput(docPath, storePath, driver, settingsPath string) (*browseInput, error) {
	var in browseInput
	var g errgroup.Group

	g.Go(func() error {
		f, err := os.Open(docPath)
		if err != nil {
			return err
		}
		defer f.Close()
		in.doc, err = dom.Parse(f)
		if err != nil {
			return fmt.Errorf("parse %s: %w", docPath, err)
		}
		return nil
	})

	g.Go(func() error {
		database, err := db.Open(storePath, driver)
		if err != nil {
			return err
		}
		defer database.Close()
		in.stored, err = database.Registry()
		return err
	})

	g.Go(func() error {
		if settingsPath == "" {
			in.fromFile = &settings.Registry{}
			return nil
		}
		var err error
		in.fromFile, err = settings.LoadFile(settingsPath)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &in, nil
}

// buildWindow assembles the window chain for the document. The embedder
// window carries the store records with the settings file layered over
// them; the document's own window carries what the page embeds.
func buildWindow(in *browseInput, framed bool) *settings.Window {
	embedder := &settings.Registry{}
	embedder.Merge(in.stored)
	embedder.Merge(in.fromFile)

	local, err := settings.FromDocument(in.doc)
	if err != nil {
		slog.Warn("ignoring embedded settings", "err", err)
	}

	if framed {
		return settings.NewWindow("embedder", embedder).Frame("browser", local)
	}

	merged := &settings.Registry{}
	merged.Merge(embedder)
	merged.Merge(local)
	return settings.NewWindow("browser", merged)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	docPath := args[0]
	flags := cmd.Flags()

	settingsPath, _ := flags.GetString("uuid-settings")
	if settingsPath == "" {
		settingsPath = cfg.Store.SettingsFile
	}
	framed, _ := flags.GetBool("framed")
	acts := browseActivations
	browseActivations = nil
	noTUI, _ := flags.GetBool("no-tui")
	outPath, _ := flags.GetString("out")
	format, _ := flags.GetString("format")

	in, err := loadBrowseInput(docPath, cfg.Store.Path, cfg.Store.Driver, settingsPath)
	if err != nil {
		return err
	}
	behavior := attach.New(buildWindow(in, framed), i18n.Parse(cfg.UI.Locale), nil)
	ctrl, err := behavior.Attach(in.doc)
	if err != nil {
		return err
	}
	if ctrl == nil {
		return fmt.Errorf("no entity browser form in %s", docPath)
	}
	defer behavior.Registry().DisposeAll()

	interactive := len(acts) == 0 && !noTUI && term.IsTerminal(int(os.Stdout.Fd()))
	if interactive {
		quietLogging(cfg.Log)
		m := browser.New(ctrl, behavior.Delegator,
			browser.WithColumns(cfg.UI.Columns),
			browser.WithTitle(filepath.Base(docPath)),
		)
		res, err := browser.Run(cmd.Context(), m)
		if err != nil {
			return err
		}
		if res.Cancelled {
			output.Warning("selection cancelled")
			return nil
		}
	} else {
		if err := applyActivations(behavior.Delegator, ctrl, acts); err != nil {
			return err
		}
	}

	if outPath != "" {
		if err := writeDocument(outPath, in.doc); err != nil {
			return err
		}
	}
	return printSelection(cmd.OutOrStdout(), ctrl, format)
}

// applyActivations delivers the events in order, the way a user clicking
// the rows would.
func applyActivations(d *dom.Delegator, ctrl *selection.Controller, acts []activation) error {
	rows := make(map[string]*html.Node)
	for _, item := range ctrl.Items() {
		if id := selection.ItemID(item); id != "" {
			rows[id] = item
		}
	}
	for _, a := range acts {
		row, ok := rows[a.ID]
		if !ok {
			return fmt.Errorf("no item %q in list view %s", a.ID, ctrl.UUID())
		}
		d.Dispatch(row, a.Event)
	}
	return nil
}

func writeDocument(path string, doc *html.Node) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := dom.Render(f, doc); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// selectionReport is the JSON shape printed by --format json.
type selectionReport struct {
	browser.Result
	Count       int    `json:"count"`
	Cardinality string `json:"cardinality"`
	Locked      bool   `json:"locked"`
	Counter     string `json:"counter"`
}

func printSelection(w io.Writer, ctrl *selection.Controller, format string) error {
	switch format {
	case "json":
		return output.WriteJSON(w, selectionReport{
			Result:      browser.Result{UUID: ctrl.UUID(), Selected: ctrl.SelectedIDs()},
			Count:       ctrl.Count(),
			Cardinality: ctrl.Cardinality().String(),
			Locked:      ctrl.Locked(),
			Counter:     ctrl.CounterText(),
		})

	case "tree":
		fmt.Fprintln(w, output.RenderTree(selectionTree(ctrl), output.TreeRenderOptions{ShowState: true}))
		if warn := ctrl.LimitText(); warn != "" {
			fmt.Fprintln(w, warn)
		}
		return nil

	case "ids", "":
		for _, id := range ctrl.SelectedIDs() {
			fmt.Fprintln(w, id)
		}
		return nil

	default:
		return fmt.Errorf("unknown format %q (want ids, tree or json)", format)
	}
}

func selectionTree(ctrl *selection.Controller) output.TreeNode {
	root := output.TreeNode{ID: ctrl.UUID(), Title: ctrl.CounterText()}
	for _, item := range ctrl.Items() {
		state := output.ItemAvailable
		switch {
		case selection.IsSelected(item):
			state = output.ItemSelected
		case selection.IsDisabled(item):
			state = output.ItemDisabled
		}
		root.Children = append(root.Children, output.TreeNode{
			ID:    selection.ItemID(item),
			Title: dom.Text(item),
			State: state,
		})
	}
	return root
}
