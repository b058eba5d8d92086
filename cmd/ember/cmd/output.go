package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	mdwerror "github.com/msto63/ember/foundation/core/error"
	"github.com/msto63/ember/foundation/ember/ast"
	"github.com/msto63/ember/foundation/ember/parser"
	"github.com/msto63/ember/pkg/core/config"
)

// renderTree renders a program tree in one of the output formats
func renderTree(root ast.Node, format string) (string, error) {
	switch format {
	case config.FormatSexpr, "":
		return ast.Sexpr(root) + "\n", nil
	case config.FormatTree:
		return ast.Tree(root), nil
	case config.FormatJSON:
		data, err := ast.MarshalIndentJSON(root)
		if err != nil {
			return "", err
		}
		return string(data) + "\n", nil
	case config.FormatYAML:
		data, err := ast.MarshalYAML(root)
		if err != nil {
			return "", err
		}
		return string(data), nil
	default:
		return "", unknownFormat(format)
	}
}

// tokenView is the serialized form of a token
type tokenView struct {
	Kind   string `json:"kind" yaml:"kind"`
	Text   string `json:"text" yaml:"text"`
	Offset int    `json:"offset" yaml:"offset"`
	Line   int    `json:"line" yaml:"line"`
	Column int    `json:"column" yaml:"column"`
}

// renderTokens renders a token list. The sexpr and tree formats share a
// plain table.
func renderTokens(tokens []parser.Token, format string) (string, error) {
	views := make([]tokenView, len(tokens))
	for i, tok := range tokens {
		views[i] = tokenView{
			Kind:   tok.Kind.String(),
			Text:   tok.Text,
			Offset: tok.Offset,
			Line:   tok.Line,
			Column: tok.Column,
		}
	}

	switch format {
	case config.FormatJSON:
		data, err := json.MarshalIndent(views, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data) + "\n", nil
	case config.FormatYAML:
		data, err := yaml.Marshal(views)
		if err != nil {
			return "", err
		}
		return string(data), nil
	case config.FormatSexpr, config.FormatTree, "":
		var b strings.Builder
		for _, v := range views {
			pos := fmt.Sprintf("%d:%d", v.Line, v.Column)
			fmt.Fprintf(&b, "%s %s %s\n",
				mutedStyle.Render(fmt.Sprintf("%-8s", pos)),
				titleStyle.Render(fmt.Sprintf("%-10s", v.Kind)),
				v.Text)
		}
		return b.String(), nil
	default:
		return "", unknownFormat(format)
	}
}

func unknownFormat(format string) error {
	return mdwerror.Newf("unknown output format %q", format).
		WithCode(mdwerror.CodeInvalidInput).
		WithDetail("format", format)
}
