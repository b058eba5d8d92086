package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msto63/ember/internal/store"
)

var cacheListLimit int

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Verwaltet den Parse-Cache",
	Long: `Zeigt Statistiken und Einträge des SQLite-Parse-Cache oder leert ihn.

Der Pfad stammt aus [cache] path der Config bzw. EMBER_CACHE_PATH.`,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Zeigt Cache-Statistiken",
	Args:  cobra.NoArgs,
	RunE: withStore(func(cmd *cobra.Command, db *store.SQLiteStore) error {
		stats, err := db.Statistics(context.Background())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, titleStyle.Render("Parse-Cache"))
		fmt.Fprintln(out, renderKeyValue("Pfad", appConfig.Cache.Path))
		fmt.Fprintln(out, renderKeyValue("Einträge", fmt.Sprintf("%v / %v", stats["entries"], stats["max_entries"])))
		fmt.Fprintln(out, renderKeyValue("Bytes", stats["bytes"]))
		fmt.Fprintln(out, renderKeyValue("Treffer", stats["hits"]))
		return nil
	}),
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "Listet die zuletzt genutzten Einträge",
	Args:  cobra.NoArgs,
	RunE: withStore(func(cmd *cobra.Command, db *store.SQLiteStore) error {
		entries, err := db.List(context.Background(), cacheListLimit)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(out, mutedStyle.Render("Cache ist leer"))
			return nil
		}
		for _, e := range entries {
			fmt.Fprintf(out, "%s  %-30s %6d B  %4d Treffer  %s\n",
				titleStyle.Render(shortHash(e.Hash)),
				e.Name,
				e.Size,
				e.Hits,
				mutedStyle.Render(e.AccessedAt.Format("2006-01-02 15:04:05")))
		}
		return nil
	}),
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Leert den Cache",
	Args:  cobra.NoArgs,
	RunE: withStore(func(cmd *cobra.Command, db *store.SQLiteStore) error {
		if err := db.Clear(context.Background()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s Cache geleert\n", okStyle.Render(iconOK))
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheStatsCmd, cacheListCmd, cacheClearCmd)
	cacheListCmd.Flags().IntVarP(&cacheListLimit, "limit", "n", 20, "Maximale Anzahl Einträge")
}

// withStore opens the configured cache database for a subcommand
func withStore(run func(cmd *cobra.Command, db *store.SQLiteStore) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		db, err := store.Open(store.Config{
			Path:       appConfig.Cache.Path,
			MaxEntries: appConfig.Cache.MaxEntries,
		})
		if err != nil {
			return err
		}
		defer db.Close()
		return run(cmd, db)
	}
}

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
