package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/ember/foundation/core/error"
	"github.com/msto63/ember/foundation/ember"
	"github.com/msto63/ember/foundation/ember/ast"
)

var checkCmd = &cobra.Command{
	Use:   "check <datei|->...",
	Short: "Prüft Quellen auf Syntaxfehler",
	Long: `Parst eine oder mehrere Quellen und meldet für jede, ob sie gültig ist.

Der Exit-Code ist 1, sobald eine Quelle fehlerhaft ist.

Beispiele:
  ember check main.em lib.em
  ember check examples/*.em`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	engine, closeEngine, err := openEngine(appConfig, logger)
	if err != nil {
		return err
	}
	defer closeEngine()

	out := cmd.OutOrStdout()
	failed := 0
	for _, path := range args {
		name, err := checkSource(engine, path)
		if err == nil {
			fmt.Fprintf(out, "%s %s\n", okStyle.Render(iconOK), name)
			continue
		}

		failed++
		fmt.Fprintf(out, "%s %s\n", errorStyle.Render(iconError), name)
		var srcErr sourceError
		if errors.As(err, &srcErr) {
			fmt.Fprintln(out, renderSourceError(srcErr.err, srcErr.source))
		} else {
			fmt.Fprintln(out, renderError(err))
		}
	}

	if failed > 0 {
		return mdwerror.Newf("%d von %d Quellen fehlerhaft", failed, len(args)).
			WithCode(mdwerror.CodeSyntax)
	}
	return nil
}

// checkSource parses one source and validates the resulting tree
func checkSource(engine *ember.Engine, path string) (string, error) {
	name, source, err := readSource(path)
	if err != nil {
		return name, err
	}

	result, err := engine.Parse(context.Background(), name, source)
	if err != nil {
		return name, sourceError{err: err, source: source}
	}
	if errs := ast.ValidateAST(result.Root); len(errs) > 0 {
		return name, mdwerror.Wrap(errs[0], "invalid tree").
			WithCode(mdwerror.CodeInternal).
			WithDetail("problems", len(errs))
	}
	return name, nil
}
