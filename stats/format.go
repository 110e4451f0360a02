package stats

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
)

const noData = "n/a (no data)"

func percent(rate float64, err error) string {
	if errors.Is(err, ErrNoData) {
		return noData
	}
	return fmt.Sprintf("%.2f%%", rate*100)
}

func decimal(v float64, err error) string {
	if errors.Is(err, ErrNoData) {
		return noData
	}
	return fmt.Sprintf("%.2f", v)
}

func integer(v int, err error) string {
	if errors.Is(err, ErrNoData) {
		return noData
	}
	return strconv.Itoa(v)
}

// WriteText writes the four corpus metrics, one per line:
//
//	Unknown: 4.21%
//	Unknown suffix: 0.93%
//	Average length: 1.37
//	Median length: 1
func WriteText(w io.Writer, r Report) error {
	_, err := fmt.Fprintf(w, "Unknown: %s\nUnknown suffix: %s\nAverage length: %s\nMedian length: %s\n",
		percent(r.UnknownRate()),
		percent(r.SuffixUnknownRate()),
		decimal(r.AverageLength()),
		integer(r.MedianLength()))
	return err
}

// WriteTable writes the corpus metrics together with the raw counts as a table.
func WriteTable(w io.Writer, r Report) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"METRIC", "VALUE", "COUNT"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk([][]string{
		{"tokens", "", strconv.Itoa(r.Tokens)},
		{"unknown", percent(r.UnknownRate()), strconv.Itoa(r.Unknown)},
		{"unknown suffix", percent(r.SuffixUnknownRate()), strconv.Itoa(r.SuffixUnknown)},
		{"average length", decimal(r.AverageLength()), strconv.Itoa(len(r.Lengths))},
		{"median length", integer(r.MedianLength()), strconv.Itoa(len(r.Lengths))},
	})
	table.Render()
	return nil
}
