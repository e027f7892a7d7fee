// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package ux provides terminal output styling for the archassist CLI.
package ux

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Palette.
var (
	ColorTealBright  = lipgloss.Color("#2CD7C7")
	ColorTealPrimary = lipgloss.Color("#20B9B4")
	ColorTealDeep    = lipgloss.Color("#16858E")
	ColorSlate       = lipgloss.Color("#2C4A54")

	ColorSuccess = lipgloss.Color("#2CD7C7")
	ColorWarning = lipgloss.Color("#F4D03F")
	ColorError   = lipgloss.Color("#E74C3C")
)

// Styles provides pre-configured lipgloss styles
var Styles = struct {
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Bold      lipgloss.Style
	Muted     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Highlight lipgloss.Style
	Box       lipgloss.Style
}{
	Title:     lipgloss.NewStyle().Bold(true).Foreground(ColorTealBright),
	Subtitle:  lipgloss.NewStyle().Foreground(ColorTealPrimary),
	Bold:      lipgloss.NewStyle().Bold(true),
	Muted:     lipgloss.NewStyle().Foreground(ColorSlate),
	Success:   lipgloss.NewStyle().Foreground(ColorSuccess),
	Warning:   lipgloss.NewStyle().Foreground(ColorWarning),
	Error:     lipgloss.NewStyle().Foreground(ColorError),
	Highlight: lipgloss.NewStyle().Foreground(ColorTealBright).Bold(true),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorTealDeep).
		Padding(0, 1),
}

// Icon is a status glyph.
type Icon string

const (
	IconSuccess Icon = "✓"
	IconWarning Icon = "⚠"
	IconError   Icon = "✗"
	IconArrow   Icon = "→"
	IconBullet  Icon = "•"
)

// Render returns the icon with its style.
func (i Icon) Render() string {
	switch i {
	case IconSuccess:
		return Styles.Success.Render(string(i))
	case IconWarning:
		return Styles.Warning.Render(string(i))
	case IconError:
		return Styles.Error.Render(string(i))
	default:
		return string(i)
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Printer writes human-oriented output.
//
// In plain mode no styling or glyphs are emitted, and status lines carry
// an uppercase prefix instead ("OK:", "WARN:", "ERROR:") so output stays
// greppable when piped.
type Printer struct {
	w     io.Writer
	plain bool
}

// NewPrinter returns a Printer writing to w.
func NewPrinter(w io.Writer, plain bool) *Printer {
	return &Printer{w: w, plain: plain}
}

// Stdout returns a Printer for os.Stdout, plain unless stdout is a terminal.
func Stdout() *Printer {
	return NewPrinter(os.Stdout, !IsTerminal(os.Stdout))
}

// Plain reports whether styling is disabled.
func (p *Printer) Plain() bool { return p.plain }

func (p *Printer) Title(text string) {
	if p.plain {
		fmt.Fprintf(p.w, "%s\n", strings.ToUpper(text))
		return
	}
	fmt.Fprintln(p.w, Styles.Title.Render(text))
}

func (p *Printer) Success(text string) { p.status(IconSuccess, "OK", Styles.Success, text) }
func (p *Printer) Warning(text string) { p.status(IconWarning, "WARN", Styles.Warning, text) }
func (p *Printer) Error(text string)   { p.status(IconError, "ERROR", Styles.Error, text) }

func (p *Printer) status(icon Icon, prefix string, style lipgloss.Style, text string) {
	if p.plain {
		fmt.Fprintf(p.w, "%s: %s\n", prefix, text)
		return
	}
	fmt.Fprintf(p.w, "%s %s\n", icon.Render(), style.Render(text))
}

// Line prints text unstyled.
func (p *Printer) Line(text string) {
	fmt.Fprintln(p.w, text)
}

// Muted prints secondary text. Plain mode prints it unstyled.
func (p *Printer) Muted(text string) {
	if p.plain {
		fmt.Fprintln(p.w, text)
		return
	}
	fmt.Fprintln(p.w, Styles.Muted.Render(text))
}

// Field prints "label: value".
func (p *Printer) Field(label string, value any) {
	if p.plain {
		fmt.Fprintf(p.w, "%s: %v\n", label, value)
		return
	}
	fmt.Fprintf(p.w, "%s %v\n", Styles.Subtitle.Render(label+":"), value)
}

// List prints a header followed by one bulleted line per item. Nothing is
// printed for an empty list.
func (p *Printer) List(header string, items []string) {
	if len(items) == 0 {
		return
	}
	if p.plain {
		fmt.Fprintf(p.w, "%s:\n", header)
		for _, item := range items {
			fmt.Fprintf(p.w, "  - %s\n", item)
		}
		return
	}
	fmt.Fprintln(p.w, Styles.Bold.Render(header))
	for _, item := range items {
		fmt.Fprintf(p.w, "  %s %s\n", IconBullet.Render(), item)
	}
}

// Box prints content under a title inside a rounded border.
func (p *Printer) Box(title, content string) {
	if p.plain {
		fmt.Fprintf(p.w, "%s:\n%s\n", title, content)
		return
	}
	fmt.Fprintln(p.w, Styles.Box.Width(80).Render(Styles.Title.Render(title)+"\n"+content))
}

// Risk renders a risk level ("low", "medium", "high") in its color.
func (p *Printer) Risk(level string) string {
	if p.plain {
		return strings.ToUpper(level)
	}
	switch level {
	case "high":
		return Styles.Error.Bold(true).Render(strings.ToUpper(level))
	case "medium":
		return Styles.Warning.Bold(true).Render(strings.ToUpper(level))
	default:
		return Styles.Success.Bold(true).Render(strings.ToUpper(level))
	}
}
