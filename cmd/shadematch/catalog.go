package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"shade-match/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect or import the product catalog",
}

var catalogStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show product counts per category",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		entries, err := loadCatalog(cmd.Context())
		if err != nil {
			return err
		}
		return printCatalogStats(os.Stdout, catalog.NewIndex(entries))
	},
}

func printCatalogStats(out io.Writer, ix *catalog.Index) error {
	if ix.Len() == 0 {
		fmt.Fprintln(out, "Catalog is empty.")
		return nil
	}

	counts := ix.Categories()
	names := make([]string, 0, len(counts))
	byName := make(map[string]int, len(counts))
	for kind, n := range counts {
		names = append(names, kind.String())
		byName[kind.String()] = n
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tPRODUCTS")
	fmt.Fprintln(w, "--------\t--------")
	for _, name := range names {
		fmt.Fprintf(w, "%s\t%d\n", name, byName[name])
	}
	fmt.Fprintf(w, "total\t%d\n", ix.Len())
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "Indexed at %s\n", ix.BuiltAt().Local().Format("2006-01-02 15:04:05"))
	return nil
}

var catalogImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Load a CSV or JSON catalog file into the database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		entries, err := catalog.LoadFile(args[0])
		if err != nil {
			return err
		}
		store, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		n, err := store.Import(cmd.Context(), entries)
		if err != nil {
			return err
		}
		fmt.Printf("Imported %d products.\n", n)
		return nil
	},
}

func init() {
	catalogCmd.AddCommand(catalogStatsCmd, catalogImportCmd)
	rootCmd.AddCommand(catalogCmd)
}
