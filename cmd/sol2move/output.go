// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/errors"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/transform"
)

// printDiagnostics renders every diagnostic of one unit through the color
// reporter: unit-level warnings first, then each contract's errors before
// its warnings, in transform order.
func printDiagnostics(path string, unit *transform.UnitResult) {
	source, display := sourceFor(path)
	reporter := errors.NewReporter(display, source)

	for _, w := range unit.Warnings {
		fmt.Print(reporter.FormatError(w))
	}
	for _, c := range unit.Contracts {
		for _, e := range c.Errors {
			fmt.Print(reporter.FormatError(e))
		}
		for _, w := range c.Warnings {
			fmt.Print(reporter.FormatError(w))
		}
	}
}

// sourceFor loads the original source next to the AST dump so diagnostics
// can show context lines. The parser writes <name>.json beside <name>.sol;
// a missing source degrades the output to location lines only.
func sourceFor(path string) (source, display string) {
	solPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".sol"
	data, err := os.ReadFile(solPath)
	if err != nil {
		return "", path
	}
	return string(data), solPath
}

// printAdvisories renders the storage partitioning decisions of a unit as
// one table, a row per state variable placement.
func printAdvisories(w io.Writer, unit *transform.UnitResult) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Contract", "Variable", "Group", "Class", "Note"})
	rows := false
	for _, c := range unit.Contracts {
		for _, a := range c.Advisories {
			table.Append([]string{c.Name, a.Variable, a.Group, a.Class, a.Note})
			rows = true
		}
	}
	if rows {
		table.Render()
	}
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.1fms", float64(d.Nanoseconds())/1e6)
	case d >= time.Microsecond:
		return fmt.Sprintf("%.1fµs", float64(d.Nanoseconds())/1e3)
	default:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
}
