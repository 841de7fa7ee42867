package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/wudi/ocrkit/engine"
	"github.com/wudi/ocrkit/export"
	"github.com/wudi/ocrkit/ocr"
)

func newBatchCommand(ctx *commandContext) *cobra.Command {
	var formatFlag string
	var progressFlag bool
	var preprocessFlag bool

	cmd := &cobra.Command{
		Use:   "batch <images...>",
		Short: "Recognize several images in order",
		Long: `Recognize several images sequentially with a shared engine. Results come
back in input order. The first failing image aborts the batch; nothing is
printed for a partial run.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.newService()
			if err != nil {
				return err
			}
			defer svc.Close()

			opts, err := ctx.recognizeOptions(preprocessFlag)
			if err != nil {
				return err
			}
			if progressFlag {
				renderer := newProgressRenderer()
				defer renderer.Finish()
				total := len(args)
				opts = append(opts, ocr.WithBatchProgress(func(index int, ev engine.Event) {
					renderer.SetPrefix(fmt.Sprintf("image %d/%d", index+1, total))
					renderer.Update(ev)
				}))
			}

			srcs := make([]engine.Source, 0, len(args))
			for _, path := range args {
				srcs = append(srcs, engine.FromFile(path))
			}
			results, err := svc.RecognizeBatch(cmd.Context(), srcs, opts...)
			if err != nil {
				return err
			}
			return writeBatch(cmd.OutOrStdout(), args, results, formatFlag)
		},
	}

	cmd.Flags().StringVarP(&formatFlag, "format", "f", "table", "Output format: table, text or json")
	cmd.Flags().BoolVar(&progressFlag, "progress", false, "Show per-image progress")
	cmd.Flags().BoolVar(&preprocessFlag, "preprocess", false, "Binarize images before recognition")

	return cmd
}

func writeBatch(w io.Writer, paths []string, results []*engine.Result, format string) error {
	switch format {
	case "table":
		rows := make([][]string, 0, len(results))
		for i, res := range results {
			rows = append(rows, []string{
				strconv.Itoa(i),
				filepath.Base(paths[i]),
				fmt.Sprintf("%.1f", res.Confidence),
				strconv.Itoa(len(res.Words)),
				strconv.FormatInt(res.ProcessingTime.Milliseconds(), 10),
			})
		}
		_, err := fmt.Fprintln(w, renderTable(
			[]string{"#", "Image", "Confidence", "Words", "Time (ms)"},
			rows,
			[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignRight},
		))
		return err
	case "text":
		for i, res := range results {
			if i > 0 {
				if _, err := io.WriteString(w, "\n"); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintln(w, res.Text); err != nil {
				return err
			}
		}
		return nil
	case "json":
		return export.JSON(w, results)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
