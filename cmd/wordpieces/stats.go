package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/npillmayer/wordpieces/conllx"
	"github.com/npillmayer/wordpieces/internal/config"
	"github.com/npillmayer/wordpieces/internal/pipeline"
	"github.com/npillmayer/wordpieces/stats"
	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	var table bool

	cmd := &cobra.Command{
		Use:               "stats WORDPIECES CORPUS",
		Short:             "Report unknown rates and piece counts of a CoNLL corpus",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: fileArgsCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd.Context(), activeCfg, args[0], args[1], table, cmd.ErrOrStderr())
		},
	}
	cmd.Flags().BoolVar(&table, "table", false, "Print statistics as a table")

	return cmd
}

// runStats writes the corpus statistics to w, the diagnostic stream.
func runStats(ctx context.Context, cfg config.Config, vocabPath, corpusPath string, table bool, w io.Writer) error {
	vocab, corpus, err := openInputs(cfg, vocabPath, corpusPath)
	if err != nil {
		return err
	}
	defer corpus.Close()

	var total stats.Accumulator
	err = pipeline.Run(ctx, corpus, pipelineOptions(cfg),
		func(sent *conllx.Sentence) *stats.Accumulator {
			acc := &stats.Accumulator{}
			acc.AddWords(vocab, sent.Forms())
			return acc
		},
		func(acc *stats.Accumulator) error {
			total.Merge(acc)
			return nil
		})
	if err != nil {
		return err
	}

	report := total.Report()
	slog.Debug("corpus processed", "path", corpusPath, "tokens", report.Tokens,
		"unknown", report.Unknown, "suffix_unknown", report.SuffixUnknown)
	if table {
		return stats.WriteTable(w, report)
	}
	return stats.WriteText(w, report)
}
