package main

import (
	"bufio"
	"context"
	"io"

	"github.com/npillmayer/wordpieces/conllx"
	"github.com/npillmayer/wordpieces/internal/config"
	"github.com/npillmayer/wordpieces/internal/pipeline"
	"github.com/npillmayer/wordpieces/render"
	"github.com/spf13/cobra"
)

func newPrintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "print WORDPIECES CORPUS",
		Short:             "Print the word pieces of every sentence of a CoNLL corpus",
		Long:              "Print one line per sentence. Non-initial pieces of a word carry a continuation marker,\nwords which cannot be segmented completely are replaced by a placeholder.",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: fileArgsCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrint(cmd.Context(), activeCfg, args[0], args[1], cmd.OutOrStdout())
		},
	}

	return cmd
}

func runPrint(ctx context.Context, cfg config.Config, vocabPath, corpusPath string, out io.Writer) error {
	vocab, corpus, err := openInputs(cfg, vocabPath, corpusPath)
	if err != nil {
		return err
	}
	defer corpus.Close()

	r := render.Renderer{Marker: cfg.Render.Marker, Unknown: cfg.Render.Unknown}
	w := bufio.NewWriter(out)
	err = pipeline.Run(ctx, corpus, pipelineOptions(cfg),
		func(sent *conllx.Sentence) string {
			return r.Line(vocab, sent.Forms())
		},
		func(line string) error {
			if _, err := w.WriteString(line); err != nil {
				return err
			}
			return w.WriteByte('\n')
		})
	if flushErr := w.Flush(); err == nil {
		err = flushErr
	}
	return err
}
