// Package formatter renders canonical properties as aligned markdown tables.
package formatter

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"propertyiq/internal/models"
	"propertyiq/pkg/utils"
)

const (
	maxAddressWidth = 40
	minColumnWidth  = 3
)

// Header lists the columns of a property table.
var Header = []string{"ID", "Address", "City", "Type", "Price", "Beds", "Baths", "Sq Ft"}

var printer = message.NewPrinter(language.English)

// RenderTable renders properties as a markdown table, one row per property, in input order.
func RenderTable(props []models.Property) string {
	rows := make([][]string, 0, len(props)+1)
	rows = append(rows, Header)

	for i := range props {
		rows = append(rows, Row(&props[i]))
	}

	return strings.Join(FormatTable(rows), "\n") + "\n"
}

// Row converts one property into table cells.
func Row(p *models.Property) []string {
	return []string{
		p.ID,
		utils.Truncate(utils.NormalizeWhitespace(p.Address), maxAddressWidth),
		p.City,
		strings.ReplaceAll(string(p.PropertyType), "_", " "),
		printer.Sprintf("$%d", int64(p.Price)),
		strconv.Itoa(p.Bedrooms),
		strconv.FormatFloat(p.Bathrooms, 'f', -1, 64),
		printer.Sprintf("%d", p.SquareFeet),
	}
}

// FormatTable aligns rows into markdown table lines. The first row is the header; a
// separator line is inserted after it. Cell widths are measured in display columns.
func FormatTable(rows [][]string) []string {
	if len(rows) == 0 {
		return nil
	}

	colCount := 0
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}

	colWidths := make([]int, colCount)

	for _, row := range rows {
		for i, cell := range row {
			if width := runewidth.StringWidth(cell); width > colWidths[i] {
				colWidths[i] = width
			}
		}
	}

	for i := range colWidths {
		if colWidths[i] < minColumnWidth {
			colWidths[i] = minColumnWidth
		}
	}

	result := make([]string, 0, len(rows)+1)

	for i, row := range rows {
		result = append(result, formatRow(row, colWidths))

		if i == 0 {
			result = append(result, separator(colWidths))
		}
	}

	return result
}

func formatRow(row []string, colWidths []int) string {
	var sb strings.Builder

	sb.WriteString("|")

	for j, width := range colWidths {
		content := ""
		if j < len(row) {
			content = strings.ReplaceAll(row[j], "|", "/")
		}

		sb.WriteString(" ")
		sb.WriteString(content)

		if padding := width - runewidth.StringWidth(content); padding > 0 {
			sb.WriteString(strings.Repeat(" ", padding))
		}

		sb.WriteString(" |")
	}

	return sb.String()
}

func separator(colWidths []int) string {
	var sb strings.Builder

	sb.WriteString("|")

	for _, width := range colWidths {
		sb.WriteString(" ")
		sb.WriteString(strings.Repeat("-", width))
		sb.WriteString(" |")
	}

	return sb.String()
}
