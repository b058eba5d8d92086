// ============================================================================
// ember - Lexer, Parser und AST
// ============================================================================
//
// Package:     cmd
// Description: CLI command for the interactive AST viewer
// Author:      Mike Stoffels
// Created:     2025-03-09
// License:     MIT
// ============================================================================

package cmd

import (
	"github.com/spf13/cobra"

	mdwlog "github.com/msto63/ember/foundation/core/log"
	"github.com/msto63/ember/internal/tui/astview"
)

var viewCmd = &cobra.Command{
	Use:     "view <datei>",
	Aliases: []string{"tui", "browse"},
	Short:   "Startet den interaktiven AST-Viewer",
	Long: `Zeigt den Syntaxbaum einer Quelle in einer Terminal-UI an.

Die Datei wird bei jedem Neuladen (r) erneut gelesen, so lässt sich
eine Quelle nebenher bearbeiten.

Tastenkuerzel:
  ↑/↓, j/k    Navigation
  PgUp/PgDn   Seitenweise
  Enter/Space Knoten auf-/zuklappen
  ←/h, →/l    Zuklappen bzw. zum Elternknoten / Aufklappen
  e / c       Alle auf- / zuklappen
  g / G       Zum Anfang / Ende springen
  /           Suche, n springt zum nächsten Treffer
  p           Positionen ein-/ausblenden
  r           Neu laden
  q, Esc      Beenden`,
	Args: cobra.ExactArgs(1),
	RunE: runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
	path := args[0]

	// Logs would corrupt the alternate screen
	quiet := mdwlog.NewNop()
	engine, closeEngine, err := openEngine(appConfig, quiet)
	if err != nil {
		return err
	}
	defer closeEngine()

	return astview.Run(astview.Config{
		Name: path,
		Load: func() (string, error) {
			_, source, err := readSource(path)
			return source, err
		},
		Engine: engine,
	})
}
