package main

import (
	"fmt"
	"image/color"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func row(label string, value interface{}) string {
	return labelStyle.Render(fmt.Sprintf("%-12s", label)) + valueStyle.Render(fmt.Sprint(value))
}

// swatch renders a small block in the given tint.
func swatch(c color.RGBA) string {
	hex := fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("██")
}
