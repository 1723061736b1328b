package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/anime-shed/card-inspector-go/internal/repository"
	"github.com/anime-shed/card-inspector-go/internal/service"
	"github.com/anime-shed/card-inspector-go/pkg/models"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

// analysisOutput is the JSON shape of one analysed image
type analysisOutput struct {
	ID       string                    `json:"id,omitempty"`
	Label    string                    `json:"label"`
	Category models.Category           `json:"category"`
	State    models.AnalysisState      `json:"state"`
	Degraded []string                  `json:"degraded,omitempty"`
	Result   models.CardAnalysisResult `json:"result"`
}

func newAnalysisOutput(a *service.Analysis) analysisOutput {
	return analysisOutput{
		ID:       a.ID,
		Label:    a.Label,
		Category: a.Category,
		State:    a.State,
		Degraded: a.Degraded,
		Result:   a.Result,
	}
}

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeJSONLine encodes v as a single line of JSON.
func writeJSONLine(cmd *cobra.Command, v any) error {
	return json.NewEncoder(cmd.OutOrStdout()).Encode(v)
}

func parseSettle(raw string) (time.Duration, error) {
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("--settle must be a positive duration, got %q", raw)
	}
	return d, nil
}

// useTable reports whether output should be a human table rather than JSON
func (c *commandContext) useTable(cmd *cobra.Command) bool {
	return !c.forceJSON() && isTerminal(cmd.OutOrStdout())
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

var analysisHeaders = []string{"Label", "State", "Rarity", "Series", "Character", "Quality", "Confidence", "Size"}

var analysisAligns = []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight}

func analysisRow(label string, state models.AnalysisState, r models.CardAnalysisResult) []string {
	quality, size := "-", "-"
	if q := r.ImageQuality; q != nil {
		quality = fmt.Sprintf("%d", q.Quality.QualityScore)
		size = humanize.Bytes(uint64(q.FileInfo.SizeBytes))
	}
	return []string{
		label,
		state.String(),
		r.CardInfo.Rarity.String(),
		r.CardInfo.Series,
		r.CardInfo.Character,
		quality,
		fmt.Sprintf("%.2f", r.Confidence),
		size,
	}
}

func renderAnalyses(cmd *cobra.Command, analyses []*service.Analysis) {
	rows := make([][]string, 0, len(analyses))
	for _, a := range analyses {
		rows = append(rows, analysisRow(a.Label, a.State, a.Result))
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(analysisHeaders, rows, analysisAligns))
	for _, a := range analyses {
		fmt.Fprintf(cmd.OutOrStdout(), "\n%s: %s\n", a.Label, a.Result.Story)
	}
}

func renderStoredCards(cmd *cobra.Command, cards []*repository.StoredCard) {
	headers := append([]string{"ID", "Saved"}, analysisHeaders...)
	aligns := append([]columnAlignment{alignLeft, alignLeft}, analysisAligns...)
	rows := make([][]string, 0, len(cards))
	for _, card := range cards {
		row := append([]string{card.ID, humanize.Time(card.CreatedAt)}, analysisRow(card.Label, card.State, card.Result)...)
		rows = append(rows, row)
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns))
}

func formatDuration(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}
