package main

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"subtitlebatch/internal/core/domain"
)

const titleWidth = 48

func renderResults(results []domain.SubtitleResult) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Title", "Language", "Status", "URL"})

	for i, r := range results {
		status := string(r.Status)
		if r.Status == domain.StatusFailed {
			status += ": " + r.Reason
		}
		tw.AppendRow(table.Row{strconv.Itoa(i + 1), r.Title, string(r.Language), status, r.URL})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 2, WidthMax: titleWidth},
		{Number: 4, WidthMax: titleWidth},
	})
	return tw.Render()
}
