package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msto63/ember/foundation/ember/parser"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens <datei|->",
	Short: "Gibt die Tokens einer Quelle aus",
	Long: `Zerlegt eine Quelle in Tokens und gibt sie mit Position aus.

Beispiele:
  ember tokens main.em
  echo "a += 0x1F;" | ember tokens -
  ember tokens -f json main.em
  ember tokens --remote localhost:9170 main.em`,
	Args: cobra.ExactArgs(1),
	RunE: runTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)
}

func runTokens(cmd *cobra.Command, args []string) error {
	name, source, err := readSource(args[0])
	if err != nil {
		return err
	}

	var tokens []parser.Token
	if remoteAddr != "" {
		client, closeConn, err := dialRemote(remoteAddr, logger)
		if err != nil {
			return err
		}
		defer closeConn()

		ctx, cancel := callContext()
		defer cancel()
		tokens, err = client.Tokenize(ctx, name, source)
		if err != nil {
			return err
		}
	} else {
		engine, closeEngine, err := openEngine(appConfig, logger)
		if err != nil {
			return err
		}
		defer closeEngine()

		tokens, err = engine.Tokenize(context.Background(), name, source)
		if err != nil {
			return sourceError{err: err, source: source}
		}
	}

	out, err := renderTokens(tokens, appConfig.Output.Format)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}
