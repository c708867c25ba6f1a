package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type tableColumn struct {
	Title string
	Right bool
}

func leftColumns(titles ...string) []tableColumn {
	cols := make([]tableColumn, len(titles))
	for i, title := range titles {
		cols[i] = tableColumn{Title: title}
	}
	return cols
}

// renderTable draws rows under columns. Rounded borders are used for
// terminals, plain ASCII otherwise. Short rows are padded with blanks.
func renderTable(columns []tableColumn, rows [][]string, fancy bool) string {
	if len(columns) == 0 {
		return ""
	}

	tw := table.NewWriter()
	style := table.StyleDefault
	if fancy {
		style = table.StyleRounded
	}
	tw.SetStyle(style)

	header := make(table.Row, len(columns))
	configs := make([]table.ColumnConfig, len(columns))
	for i, col := range columns {
		header[i] = col.Title
		align := text.AlignLeft
		if col.Right {
			align = text.AlignRight
		}
		configs[i] = table.ColumnConfig{Number: i + 1, Align: align, AlignHeader: text.AlignLeft}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, row := range rows {
		r := make(table.Row, len(columns))
		for i := range r {
			r[i] = ""
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}

	return tw.Render() + "\n"
}
