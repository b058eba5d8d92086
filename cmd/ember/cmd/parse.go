package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	mdwlog "github.com/msto63/ember/foundation/core/log"
	"github.com/msto63/ember/foundation/ember/ast"
)

var parseStats bool

var parseCmd = &cobra.Command{
	Use:   "parse <datei|->",
	Short: "Gibt den Syntaxbaum einer Quelle aus",
	Long: `Parst eine Quelle und gibt den Syntaxbaum aus.

Formate (--format, default aus der Config):
  sexpr  - kompakte S-Expression, z.B. (statements (+ 1 (* 2 3)))
  tree   - eingerückter Baum mit Positionen
  json   - verschachtelte Arrays
  yaml   - wie json, als YAML

Beispiele:
  ember parse main.em
  ember parse -f tree main.em
  echo "if (a) b; else c;" | ember parse -
  ember parse --remote localhost:9170 main.em`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().BoolVar(&parseStats, "stats", false, "Statistik (Tokens, Dauer, Cache) auf stderr ausgeben")
}

// parseOutcome is what the parse command needs from a local or remote parse
type parseOutcome struct {
	root     *ast.Statements
	hash     string
	traceID  string
	tokens   int
	cached   bool
	duration string
}

func runParse(cmd *cobra.Command, args []string) error {
	name, source, err := readSource(args[0])
	if err != nil {
		return err
	}

	var outcome parseOutcome
	if remoteAddr != "" {
		outcome, err = parseRemote(name, source)
	} else {
		outcome, err = parseLocal(name, source)
	}
	if err != nil {
		return err
	}

	out, err := renderTree(outcome.root, appConfig.Output.Format)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)

	if parseStats {
		w := cmd.ErrOrStderr()
		fmt.Fprintln(w, renderKeyValue("Hash", outcome.hash))
		fmt.Fprintln(w, renderKeyValue("Trace-ID", outcome.traceID))
		fmt.Fprintln(w, renderKeyValue("Tokens", outcome.tokens))
		fmt.Fprintln(w, renderKeyValue("Anweisungen", len(outcome.root.List)))
		fmt.Fprintln(w, renderKeyValue("Dauer", outcome.duration))
		fmt.Fprintln(w, renderKeyValue("Aus Cache", outcome.cached))
	}
	return nil
}

func parseLocal(name, source string) (parseOutcome, error) {
	engine, closeEngine, err := openEngine(appConfig, logger)
	if err != nil {
		return parseOutcome{}, err
	}
	defer closeEngine()

	result, err := engine.Parse(context.Background(), name, source)
	if err != nil {
		return parseOutcome{}, sourceError{err: err, source: source}
	}
	logger.Debug("parsed", mdwlog.Fields{"name": name, "cached": result.Cached})

	return parseOutcome{
		root:     result.Root,
		hash:     result.Hash,
		traceID:  result.TraceID,
		tokens:   result.Tokens,
		cached:   result.Cached,
		duration: result.Duration.String(),
	}, nil
}

func parseRemote(name, source string) (parseOutcome, error) {
	client, closeConn, err := dialRemote(remoteAddr, logger)
	if err != nil {
		return parseOutcome{}, err
	}
	defer closeConn()

	ctx, cancel := callContext()
	defer cancel()

	result, err := client.Parse(ctx, name, source)
	if err != nil {
		return parseOutcome{}, err
	}
	return parseOutcome{
		root:     result.Root,
		hash:     result.Hash,
		traceID:  result.TraceID,
		tokens:   result.Tokens,
		cached:   result.Cached,
		duration: result.Duration.String(),
	}, nil
}
