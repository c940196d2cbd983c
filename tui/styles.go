// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent   = lipgloss.Color("#4ecca3")
	colorError    = lipgloss.Color("#e94560")
	colorModified = lipgloss.Color("#f0a500")
	colorDim      = lipgloss.Color("#555555")
	colorBar      = lipgloss.Color("#333333")
	colorBarText  = lipgloss.Color("#cccccc")
)

var (
	dimText      = lipgloss.NewStyle().Foreground(colorDim)
	errorText    = lipgloss.NewStyle().Foreground(colorError)
	successText  = lipgloss.NewStyle().Foreground(colorAccent)
	modifiedText = lipgloss.NewStyle().Foreground(colorModified).Bold(true)

	headerStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	rowNumStyle = lipgloss.NewStyle().Foreground(colorDim).Align(lipgloss.Right)

	cellNormal   = lipgloss.NewStyle()
	cellSelected = lipgloss.NewStyle().Reverse(true)
	cellEditing  = lipgloss.NewStyle().
			Background(lipgloss.Color("#1a3a2a")).
			Foreground(colorAccent).
			Bold(true)

	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(colorBarText)
	tabActiveStyle = lipgloss.NewStyle().Padding(0, 1).Foreground(colorAccent).Bold(true).Underline(true)

	barStyle = lipgloss.NewStyle().
			Background(colorBar).
			Foreground(colorBarText).
			Padding(0, 1)
	barErrorStyle = lipgloss.NewStyle().
			Background(colorBar).
			Foreground(colorError).
			Padding(0, 1)
	barSuccessStyle = lipgloss.NewStyle().
			Background(colorBar).
			Foreground(colorAccent).
			Padding(0, 1)

	promptStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
)
