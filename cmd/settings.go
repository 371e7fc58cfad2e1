package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/marcus/mbrowse/internal/db"
	"github.com/marcus/mbrowse/internal/output"
	"github.com/marcus/mbrowse/internal/settings"
)

var settingsCmd = &cobra.Command{
	Use:     "settings",
	Aliases: []string{"config"},
	Short:   "Manage stored widget settings",
	Long: `Manage the settings store: one record per widget uuid holding the number of
items already selected and the cardinality of the field.`,
	GroupID: "system",
}

var settingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored records",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openStore()
		if err != nil {
			return err
		}
		defer database.Close()

		entries, err := database.List()
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			out := make(map[string]settings.Record, len(entries))
			for _, e := range entries {
				out[e.UUID] = e.Record
			}
			return output.WriteJSON(cmd.OutOrStdout(), map[string]any{"entity_browser": out})
		}

		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No records stored.")
			return nil
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "UUID\tCOUNT\tCARDINALITY\tUPDATED")
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", e.UUID, e.Record.Count, e.Record.Cardinality, e.UpdatedAt.Format("2006-01-02 15:04"))
		}
		return tw.Flush()
	},
}

var settingsGetCmd = &cobra.Command{
	Use:   "get UUID",
	Short: "Show the record for a widget",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openStore()
		if err != nil {
			return err
		}
		defer database.Close()

		rec, ok, err := database.Get(args[0])
		if err != nil {
			return err
		}
		if !ok {
			rec = settings.Defaults
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return output.WriteJSON(cmd.OutOrStdout(), rec)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "count: %d\ncardinality: %s\n", rec.Count, rec.Cardinality)
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "(not stored, defaults shown)")
		}
		return nil
	},
}

var (
	setCount       int
	setCardinality settings.Cardinality
)

var settingsSetCmd = &cobra.Command{
	Use:   "set UUID",
	Short: "Create or update the record for a widget",
	Long: `Create or update the record for a widget.

Without --count or --cardinality on a terminal, a form asks for both.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		uuid := args[0]
		database, err := openStore()
		if err != nil {
			return err
		}
		defer database.Close()

		rec, _, err := database.Get(uuid)
		if err != nil {
			return err
		}
		rec = rec.Normalize()

		flags := cmd.Flags()
		switch {
		case flags.Changed("count") || flags.Changed("cardinality"):
			if flags.Changed("count") {
				rec.Count = setCount
			}
			if flags.Changed("cardinality") {
				rec.Cardinality = setCardinality
			}
		case term.IsTerminal(int(os.Stdin.Fd())):
			rec, err = promptRecord(uuid, rec)
			if err != nil {
				return err
			}
		default:
			return errors.New("nothing to set: pass --count and/or --cardinality")
		}

		if rec.Count < 0 {
			return fmt.Errorf("count must not be negative, got %d", rec.Count)
		}
		if err := database.Put(uuid, rec); err != nil {
			return err
		}
		output.Success("SET %s count=%d cardinality=%s", uuid, rec.Count, rec.Cardinality)
		return nil
	},
}

// promptRecord asks for a record with a huh form, starting from rec.
func promptRecord(uuid string, rec settings.Record) (settings.Record, error) {
	count := strconv.Itoa(rec.Count)
	card := rec.Cardinality.String()

	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Items already selected").
			Description(uuid).
			Value(&count).
			Validate(func(s string) error {
				n, err := strconv.Atoi(s)
				if err != nil || n < 0 {
					return errors.New("enter a number, 0 or more")
				}
				return nil
			}),
		huh.NewInput().
			Title("Cardinality").
			Description(`A positive number, or "unlimited"`).
			Value(&card).
			Validate(func(s string) error {
				_, err := settings.ParseCardinality(s)
				return err
			}),
	)).WithTheme(huh.ThemeCharm())

	if err := form.Run(); err != nil {
		return rec, err
	}

	n, _ := strconv.Atoi(count)
	c, _ := settings.ParseCardinality(card)
	return settings.Record{Count: n, Cardinality: c}, nil
}

var settingsDeleteCmd = &cobra.Command{
	Use:     "delete UUID",
	Aliases: []string{"rm"},
	Short:   "Delete the record for a widget",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openStore()
		if err != nil {
			return err
		}
		defer database.Close()

		deleted, err := database.Delete(args[0])
		if err != nil {
			return err
		}
		if !deleted {
			output.Warning("no record for %s", args[0])
			return nil
		}
		output.Success("DELETED %s", args[0])
		return nil
	},
}

var settingsImportCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import records from a YAML settings file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(args[0]); err != nil {
			return err
		}
		reg, err := settings.LoadFile(args[0])
		if err != nil {
			return err
		}

		database, err := openStore()
		if err != nil {
			return err
		}
		defer database.Close()

		n, err := database.Import(reg)
		if err != nil {
			return err
		}
		output.Success("IMPORTED %d records from %s", n, args[0])
		return nil
	},
}

var settingsExportCmd = &cobra.Command{
	Use:   "export FILE",
	Short: "Write every stored record to a YAML settings file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openStore()
		if err != nil {
			return err
		}
		defer database.Close()

		reg, err := database.Registry()
		if err != nil {
			return err
		}
		if err := settings.SaveFile(args[0], reg); err != nil {
			return err
		}
		output.Success("EXPORTED %d records to %s", reg.Len(), args[0])
		return nil
	},
}

// openStore opens the configured settings database.
func openStore() (*db.DB, error) {
	return db.Open(cfg.Store.Path, cfg.Store.Driver)
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsListCmd, settingsGetCmd, settingsSetCmd, settingsDeleteCmd, settingsImportCmd, settingsExportCmd)

	settingsListCmd.Flags().Bool("json", false, "Output as JSON")
	settingsGetCmd.Flags().Bool("json", false, "Output as JSON")

	settingsSetCmd.Flags().IntVarP(&setCount, "count", "n", 0, "Number of items already selected")
	cardinalityFlag(settingsSetCmd.Flags(), &setCardinality, "cardinality", "c", settings.DefaultCardinality, `Maximum items: a positive number or "unlimited"`)
}
