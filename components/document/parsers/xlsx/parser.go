package xlsx

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/bububa/textchunker/components/document"
)

// MimeType handled by Parser
const MimeType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Parser renders every sheet as a markdown section holding one table.
type Parser struct {
	password string
}

var _ document.Parser = (*Parser)(nil)

type Option func(*Parser)

func WithPassword(passwd string) Option {
	return func(p *Parser) {
		p.password = passwd
	}
}

func NewParser(opts ...Option) *Parser {
	ret := new(Parser)
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Parse writes "# <sheet>" followed by the sheet's rows as a markdown table.
// The first row is used as the table header. Empty sheets are skipped.
func (p *Parser) Parse(ctx context.Context, reader document.ParserReader, writer io.Writer) error {
	opts := make([]excelize.Options, 0, 1)
	if p.password != "" {
		opts = append(opts, excelize.Options{Password: p.password})
	}
	doc, err := excelize.OpenReader(io.NewSectionReader(reader, 0, reader.Size()), opts...)
	if err != nil {
		return err
	}
	defer doc.Close()

	var written bool
	for _, sheet := range doc.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return err
		}
		table, err := readSheet(doc, sheet)
		if err != nil {
			return fmt.Errorf("sheet %s: %w", sheet, err)
		}
		if len(table) == 0 {
			continue
		}
		if written {
			if _, err := io.WriteString(writer, "\n"); err != nil {
				return err
			}
		}
		if err := writeTable(writer, sheet, table); err != nil {
			return err
		}
		written = true
	}
	return nil
}

func readSheet(doc *excelize.File, sheet string) ([][]string, error) {
	rows, err := doc.Rows(sheet)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var table [][]string
	for rowIdx := 1; rows.Next(); rowIdx++ {
		cols, err := rows.Columns()
		if err != nil {
			return nil, err
		}
		row := make([]string, len(cols))
		var filled bool
		for colIdx, value := range cols {
			value = strings.TrimSpace(document.EscapeMarkdown(document.StripUnprintable(value)))
			if value == "" {
				continue
			}
			filled = true
			if cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx); err == nil {
				value = decorate(doc, sheet, cell, value)
			}
			row[colIdx] = value
		}
		if filled {
			table = append(table, row)
		}
	}
	return table, rows.Error()
}

// decorate applies the cell's font style and hyperlink as markdown.
func decorate(doc *excelize.File, sheet, cell, value string) string {
	if styleID, err := doc.GetCellStyle(sheet, cell); err == nil {
		if style, err := doc.GetStyle(styleID); err == nil && style.Font != nil {
			switch {
			case style.Font.Bold:
				value = "**" + value + "**"
			case style.Font.Strike:
				value = "~~" + value + "~~"
			case style.Font.Italic:
				value = "*" + value + "*"
			}
		}
	}
	if ok, target, _ := doc.GetCellHyperLink(sheet, cell); ok && target != "" {
		value = fmt.Sprintf("[%s](%s)", value, target)
	}
	return value
}

func writeTable(w io.Writer, sheet string, table [][]string) error {
	var width int
	for _, row := range table {
		width = max(width, len(row))
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", sheet)
	writeRow(&sb, table[0], width)
	sb.WriteString("|")
	for range width {
		sb.WriteString(" --- |")
	}
	sb.WriteString("\n")
	for _, row := range table[1:] {
		writeRow(&sb, row, width)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeRow(sb *strings.Builder, row []string, width int) {
	sb.WriteString("|")
	for idx := range width {
		var value string
		if idx < len(row) {
			value = row[idx]
		}
		sb.WriteString(" ")
		sb.WriteString(value)
		sb.WriteString(" |")
	}
	sb.WriteString("\n")
}
