// Package formatter provides markdown formatting utilities for corpus files.
package formatter

import (
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"

	"nngkb/pkg/metadata"
)

var (
	sourceLinePattern = regexp.MustCompile(`^Source:\s+(.+?)\s*$`)
	tagsLinePattern   = regexp.MustCompile(`^(Tags|Topics):\s+(.+?)\s*$`)
)

// FormatMarkdown takes a raw corpus document and formats it: table columns
// are aligned by display width, runs of blank lines are collapsed, and the
// "Source:"/"Tags:" lines get canonical spacing. The metadata block is
// stripped before formatting and re-signed afterwards, preserving the
// previous lint status.
func FormatMarkdown(content string) (string, error) {
	meta, cleanContent := metadata.Extract(content)

	lines := strings.Split(cleanContent, "\n")

	var formattedLines []string

	var tableBuffer []string

	blankRun := 0

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		trimmedLine := strings.TrimSpace(line)

		// Check if the line looks like a table row
		// Simple heuristic: starts and ends with |
		if strings.HasPrefix(trimmedLine, "|") && strings.HasSuffix(trimmedLine, "|") {
			tableBuffer = append(tableBuffer, line)
			blankRun = 0

			continue
		}

		// If we were buffering a table and hit a non-table line, process the buffer
		if len(tableBuffer) > 0 {
			formattedLines = append(formattedLines, processTable(tableBuffer)...)
			tableBuffer = nil
		}

		if trimmedLine == "" {
			blankRun++
			// Collapse runs of more than one blank line
			if blankRun > 1 {
				continue
			}
		} else {
			blankRun = 0
		}

		formattedLines = append(formattedLines, normalizeLine(line))
	}

	// Process any remaining table at the end of the file
	if len(tableBuffer) > 0 {
		formattedLines = append(formattedLines, processTable(tableBuffer)...)
	}

	formattedContent := strings.Join(formattedLines, "\n")

	// Restore metadata (Sign will calculate new hash and append block)
	linted := false
	if meta != nil {
		linted = meta.Linted
	}

	return metadata.Sign(formattedContent, linted), nil
}

// normalizeLine canonicalizes spacing on the convention's metadata lines.
func normalizeLine(line string) string {
	trimmed := strings.TrimSpace(line)

	if m := sourceLinePattern.FindStringSubmatch(trimmed); m != nil {
		return "Source: " + m[1]
	}

	if m := tagsLinePattern.FindStringSubmatch(trimmed); m != nil {
		return m[1] + ": " + m[2]
	}

	return line
}

func processTable(rows []string) []string {
	// If it's just one line, it's not really a table we can format nicely (needs header+separator)
	if len(rows) < 2 {
		return rows
	}

	// 1. Parse all cells
	var table [][]string

	for _, row := range rows {
		// Remove leading/trailing pipes for splitting, but keep them in mind for reconstruction
		// Standard markdown table: | cell1 | cell2 |
		parts := strings.Split(row, "|")

		// The split will result in empty strings at start/end if the line starts/ends with pipe
		if len(parts) > 0 && strings.TrimSpace(parts[0]) == "" {
			parts = parts[1:]
		}

		if len(parts) > 0 && strings.TrimSpace(parts[len(parts)-1]) == "" {
			parts = parts[:len(parts)-1]
		}

		var cells []string
		for _, p := range parts {
			cells = append(cells, strings.TrimSpace(p))
		}

		table = append(table, cells)
	}

	// 2. Validate table structure
	if len(table) == 0 {
		return rows
	}

	colCount := len(table[0])
	// Find max columns
	for _, row := range table {
		if len(row) > colCount {
			colCount = len(row)
		}
	}

	// Identify separator row (usually 2nd row, index 1)
	separatorRowIdx := -1

	if len(table) > 1 {
		isSep := true
		for _, cell := range table[1] {
			trim := strings.TrimSpace(cell)
			trim = strings.ReplaceAll(trim, "-", "")
			trim = strings.ReplaceAll(trim, ":", "") // Handle alignment :--- or ---:
			trim = strings.ReplaceAll(trim, " ", "")

			if trim != "" {
				isSep = false
				break
			}
		}

		if isSep {
			separatorRowIdx = 1
		}
	}

	// 3. Calculate max widths (using display width)
	colWidths := make([]int, colCount)

	for rIdx, row := range table {
		// Skip separator row for width calculation
		if rIdx == separatorRowIdx {
			continue
		}

		for i := 0; i < len(row) && i < colCount; i++ {
			width := runewidth.StringWidth(row[i])
			if width > colWidths[i] {
				colWidths[i] = width
			}
		}
	}

	// Ensure min width for separator (usually 3 dashes "---")
	for i := range colWidths {
		if colWidths[i] < 3 {
			colWidths[i] = 3
		}
	}

	// 4. Reconstruct lines
	var result []string

	for i, row := range table {
		var sb strings.Builder

		sb.WriteString("|")

		isSeparator := (i == separatorRowIdx)

		for j := 0; j < colCount; j++ {
			sb.WriteString(" ")

			content := ""
			if j < len(row) {
				content = row[j]
			}

			if isSeparator {
				// Default to "---" extended to width; alignment markers are
				// not preserved
				dashCount := colWidths[j]
				sb.WriteString(strings.Repeat("-", dashCount))
			} else {
				sb.WriteString(content)
				// Pad with spaces based on display width
				contentWidth := runewidth.StringWidth(content)

				padding := colWidths[j] - contentWidth
				if padding > 0 {
					sb.WriteString(strings.Repeat(" ", padding))
				}
			}

			sb.WriteString(" |")
		}

		result = append(result, sb.String())
	}

	return result
}
