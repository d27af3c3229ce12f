package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"cuesheet/internal/report"
)

// maxCellWidth wraps long clip names and composer lists.
const maxCellWidth = 48

type tableColumn struct {
	Title string
	Right bool
}

var (
	clipColumns = []tableColumn{
		{Title: "Line", Right: true},
		{Title: "Clip"},
		{Title: "Start", Right: true},
		{Title: "End", Right: true},
		{Title: "Length", Right: true},
		{Title: "State"},
	}
	normalizeColumns = []tableColumn{{Title: "Clip Name"}, {Title: "Display"}, {Title: "Identity"}, {Title: "Rules"}}
	cacheColumns     = []tableColumn{{Title: "Track"}, {Title: "Title"}, {Title: "Source"}, {Title: "Model"}, {Title: "Updated"}}
	checkColumns     = []tableColumn{{Title: "Check"}, {Title: "Status"}, {Title: "Detail"}}
)

// renderCueSheetTable shows the summary columns of the cue sheet, taking
// titles and alignment from report.Columns.
func renderCueSheetTable(rows []report.Row) string {
	var (
		columns []tableColumn
		index   []int
	)
	for i, col := range report.Columns {
		if col.Summary {
			columns = append(columns, tableColumn{Title: col.Title, Right: col.Numeric})
			index = append(index, i)
		}
	}
	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		all := row.Cells()
		picked := make([]string, len(index))
		for i, at := range index {
			picked[i] = all[at]
		}
		cells = append(cells, picked)
	}
	return renderTable(columns, cells)
}

func renderTable(columns []tableColumn, rows [][]string) string {
	if len(columns) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(columns))
	configs := make([]table.ColumnConfig, len(columns))
	for i, col := range columns {
		header[i] = col.Title
		align := text.AlignLeft
		if col.Right {
			align = text.AlignRight
		}
		configs[i] = table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
			WidthMax:    maxCellWidth,
		}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, cells := range rows {
		row := make(table.Row, len(columns))
		for i := range row {
			row[i] = ""
			if i < len(cells) {
				row[i] = cells[i]
			}
		}
		tw.AppendRow(row)
	}
	return tw.Render()
}
