// ============================================================================
// ember - Lexer, Parser und AST
// ============================================================================
//
// Package:     astview
// Description: Styles for the AST viewer TUI
// Author:      Mike Stoffels
// Created:     2025-03-09
// License:     MIT
// ============================================================================

package astview

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/msto63/ember/foundation/ember/ast"
)

// Color Palette
var (
	ColorPrimary   = lipgloss.Color("#8B5CF6") // Violet
	ColorSecondary = lipgloss.Color("#06B6D4") // Cyan
	ColorAccent    = lipgloss.Color("#F59E0B") // Amber
	ColorSuccess   = lipgloss.Color("#10B981") // Emerald
	ColorError     = lipgloss.Color("#EF4444") // Red
	ColorDimmed    = lipgloss.Color("#374151") // Dark Gray

	ColorBgPanel    = lipgloss.Color("#1E293B") // Slate 800
	ColorBgSelected = lipgloss.Color("#3B0764") // Purple 950

	ColorText      = lipgloss.Color("#F8FAFC") // Slate 50
	ColorTextMuted = lipgloss.Color("#94A3B8") // Slate 400
	ColorTextDim   = lipgloss.Color("#64748B") // Slate 500
)

// Header styles
var (
	LogoStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	TitlePanelStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 2)
)

// Tree styles
var (
	TreePanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDimmed).
			Padding(0, 1)

	SelectedLineStyle = lipgloss.NewStyle().
				Background(ColorBgSelected).
				Bold(true)

	MatchStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Underline(true)

	PositionStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)

	CollapsedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true)

	// Node category styles
	StatementStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	OperatorStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary)

	LiteralStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	IdentifierStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	FunctionStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)
)

// Status and help styles
var (
	StatusBarStyle = lipgloss.NewStyle().
			Background(ColorBgPanel).
			Foreground(ColorText).
			Padding(0, 1)

	StatusOKStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)

	StatusErrorStyle = lipgloss.NewStyle().
				Foreground(ColorError).
				Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)
)

// Icons
const (
	IconExpanded  = "▾ "
	IconCollapsed = "▸ "
	IconLeaf      = "  "
	IconOK        = "✓ "
	IconError     = "✗ "
)

// Logo
const Logo = "ember AST"

// RenderKeyHint renders a keyboard shortcut hint
func RenderKeyHint(key, description string) string {
	return HelpKeyStyle.Render(key) + " " + HelpDescStyle.Render(description)
}

// NodeStyle returns the style for a node kind
func NodeStyle(kind string) lipgloss.Style {
	switch kind {
	case ast.KindStatements, ast.KindIf, ast.KindIfElse, ast.KindWhile, ast.KindFor, ast.KindReturn:
		return StatementStyle
	case ast.KindBinary, ast.KindPrefix, ast.KindSuffix, ast.KindTernary,
		ast.KindCall, ast.KindIndex, ast.KindMember:
		return OperatorStyle
	case ast.KindString, ast.KindNumber, ast.KindVoid:
		return LiteralStyle
	case ast.KindFunction:
		return FunctionStyle
	default:
		return IdentifierStyle
	}
}
