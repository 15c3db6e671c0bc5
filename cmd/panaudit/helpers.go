package main

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"

	"panaudit/internal/scan"
	"panaudit/internal/session"
)

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func formatWeight(ounces float64) string {
	if ounces == 0 {
		return "-"
	}
	return strconv.FormatFloat(ounces, 'f', 1, 64) + " oz"
}

func truncate(value string, limit int) string {
	if limit <= 3 || runewidth.StringWidth(value) <= limit {
		return value
	}
	return runewidth.Truncate(value, limit, "...")
}

// scanStatus summarizes one scan row: the server-reported state first, then
// the local classification.
func scanStatus(record scan.Record, action *session.Action) string {
	switch {
	case action != nil && action.Delete:
		return "delete pending"
	case record.Deleted():
		return "deleted"
	case record.Flagged():
		return "flagged"
	case scan.NeedsManualReview(record):
		return "manual"
	default:
		return "automated"
	}
}

// editSummary renders the local, unsubmitted edits on an action.
func editSummary(action *session.Action) string {
	if action == nil || !action.Changed() {
		return ""
	}
	parts := make([]string, 0, 3)
	if action.Delete {
		parts = append(parts, "delete")
	}
	if action.PanID != "" {
		parts = append(parts, "pan="+action.PanID)
	}
	if action.MenuItemID != "" || action.MenuItemName != "" {
		label := action.MenuItemName
		if label == "" {
			label = action.MenuItemID
		}
		parts = append(parts, "menu="+label)
	}
	return strings.Join(parts, ", ")
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

const (
	ansiReset  = "\x1b[0m"
	ansiYellow = "\x1b[33m"
)

func highlight(value string, colorize bool) string {
	if !colorize {
		return value
	}
	return ansiYellow + value + ansiReset
}
