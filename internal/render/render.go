// Package render writes analysis reports to a terminal.
package render

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/Adda-Baaj/reddit-sentiment/internal/domain"
	"github.com/Adda-Baaj/reddit-sentiment/internal/history"
	"github.com/Adda-Baaj/reddit-sentiment/internal/pipeline"
)

const (
	NoResultsMessage = "No posts or comments found for this query. Try a different keyword."

	barWidth        = 40
	textColumnWidth = 80
)

var sentimentColors = map[domain.Sentiment]text.Colors{
	domain.Positive: {text.FgGreen},
	domain.Negative: {text.FgRed},
	domain.Neutral:  {text.FgHiBlack},
}

// Renderer writes reports to w. Color is off unless enabled.
type Renderer struct {
	w     io.Writer
	color bool
}

// New returns a Renderer writing to w.
func New(w io.Writer, color bool) *Renderer {
	return &Renderer{w: w, color: color}
}

// Report prints the metrics, the distribution chart and the raw table. A
// report without results prints only the warning.
func (r *Renderer) Report(rep *pipeline.Report) {
	if rep == nil || rep.State == pipeline.StateNoResults {
		r.warn(NoResultsMessage)
		return
	}

	fmt.Fprintf(r.w, "Sentiment for %q in %s (%d items)\n\n", rep.Query.Text, scopeLabel(rep.Query), rep.Summary.Total)
	r.metrics(rep)
	fmt.Fprintln(r.w)
	r.chart(rep)
	fmt.Fprintln(r.w)
	r.items(rep.Items)
}

// Error prints the user-facing part of err.
func (r *Renderer) Error(err error) {
	if err == nil {
		return
	}
	msg := err.Error()
	var fe *pipeline.FetchError
	if errors.As(err, &fe) {
		msg = fe.Message
	}
	fmt.Fprintln(r.w, r.paint("Error: ", text.Colors{text.FgRed, text.Bold})+msg)
}

// History prints archived summaries, newest first.
func (r *Renderer) History(entries []history.Entry) {
	if len(entries) == 0 {
		r.warn("No analyses recorded yet.")
		return
	}
	t := r.table()
	t.AppendHeader(table.Row{"Fetched", "Query", "Scope", "Total", "Positive", "Negative", "Neutral"})
	for _, e := range entries {
		t.AppendRow(table.Row{
			e.FetchedAt.Local().Format("2006-01-02 15:04"),
			e.Query.Text,
			scopeLabel(e.Query),
			e.Summary.Total,
			e.Summary.Positive,
			e.Summary.Negative,
			e.Summary.Neutral,
		})
	}
	t.Render()
}

func (r *Renderer) metrics(rep *pipeline.Report) {
	t := r.table()
	t.AppendHeader(table.Row{"Positive", "Negative", "Neutral"})
	t.AppendRow(table.Row{rep.Summary.Positive, rep.Summary.Negative, rep.Summary.Neutral})
	t.Render()
}

// chart draws one horizontal bar per non-empty bucket, largest first.
func (r *Renderer) chart(rep *pipeline.Report) {
	longest := 0
	for _, b := range rep.Summary.Distribution {
		longest = max(longest, b.Count)
	}
	if longest == 0 {
		return
	}

	t := r.table()
	t.SetTitle("Sentiment distribution")
	for _, b := range rep.Summary.Distribution {
		n := b.Count * barWidth / longest
		if n == 0 {
			n = 1
		}
		bar := r.paint(strings.Repeat("█", n), sentimentColors[b.Sentiment])
		t.AppendRow(table.Row{b.Sentiment.String(), bar, b.Count})
	}
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 3, Align: text.AlignRight}})
	t.Render()
}

func (r *Renderer) items(items []domain.Item) {
	t := r.table()
	t.AppendHeader(table.Row{"Text", "Compound", "Sentiment"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMax: textColumnWidth},
		{Number: 2, Align: text.AlignRight},
	})
	for _, it := range items {
		t.AppendRow(table.Row{
			it.Text,
			fmt.Sprintf("%.4f", it.Compound),
			r.paint(it.Sentiment.String(), sentimentColors[it.Sentiment]),
		})
	}
	t.Render()
}

func (r *Renderer) table() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(r.w)
	t.SetStyle(table.StyleLight)
	return t
}

func (r *Renderer) warn(msg string) {
	fmt.Fprintln(r.w, r.paint("Warning: ", text.Colors{text.FgYellow, text.Bold})+msg)
}

func (r *Renderer) paint(s string, c text.Colors) string {
	if !r.color || len(c) == 0 {
		return s
	}
	return c.Sprint(s)
}

func scopeLabel(q domain.Query) string {
	if q.Scope == domain.ScopeAll {
		return "all of Reddit"
	}
	return "r/" + q.Subreddit
}
