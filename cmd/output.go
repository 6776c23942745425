package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)
	warningColor = color.New(color.FgYellow)
	infoColor    = color.New(color.FgCyan)
	boldColor    = color.New(color.Bold)
	dimColor     = color.New(color.Faint)
)

// Success prints a success message in green.
func Success(w io.Writer, format string, a ...any) {
	successColor.Fprintf(w, "✓ "+format+"\n", a...)
}

// Error prints an error message in red.
func Error(w io.Writer, format string, a ...any) {
	errorColor.Fprintf(w, "✗ "+format+"\n", a...)
}

// Warning prints a warning message in yellow.
func Warning(w io.Writer, format string, a ...any) {
	warningColor.Fprintf(w, "⚠ "+format+"\n", a...)
}

// Info prints an info message in cyan.
func Info(w io.Writer, format string, a ...any) {
	infoColor.Fprintf(w, "ℹ "+format+"\n", a...)
}

// Bold formats text in bold.
func Bold(format string, a ...any) string {
	return boldColor.Sprintf(format, a...)
}

// Dim formats text in faint style.
func Dim(format string, a ...any) string {
	return dimColor.Sprintf(format, a...)
}

// printField prints a labelled value, skipping empty optional ones.
func printField(w io.Writer, label string, value *string) {
	if value == nil || *value == "" {
		return
	}
	fmt.Fprintf(w, "  %-12s %s\n", label+":", *value)
}

func formatSize(size int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case size >= GB:
		return fmt.Sprintf("%.1f GB", float64(size)/GB)
	case size >= MB:
		return fmt.Sprintf("%.1f MB", float64(size)/MB)
	case size >= KB:
		return fmt.Sprintf("%.1f KB", float64(size)/KB)
	default:
		return fmt.Sprintf("%d bytes", size)
	}
}
