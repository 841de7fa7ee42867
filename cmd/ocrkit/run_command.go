package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/wudi/ocrkit/engine"
	"github.com/wudi/ocrkit/export"
	"github.com/wudi/ocrkit/ocr"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var formatFlag string
	var progressFlag bool
	var preprocessFlag bool
	var scriptFlag string

	cmd := &cobra.Command{
		Use:   "run <image>",
		Short: "Recognize text in a single image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var svcOpts []ocr.ServiceOption
			if scriptFlag != "" {
				svcOpts = append(svcOpts, ocr.WithScript(scriptFlag))
			}
			svc, err := ctx.newService(svcOpts...)
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
				opts = append(opts, ocr.WithProgress(renderer.Update))
			}

			res, err := svc.Recognize(cmd.Context(), engine.FromFile(args[0]), opts...)
			if err != nil {
				return err
			}
			return writeResult(cmd.OutOrStdout(), res, formatFlag)
		},
	}

	cmd.Flags().StringVarP(&formatFlag, "format", "f", "text", "Output format: text, json, markdown, hocr or table")
	cmd.Flags().BoolVar(&progressFlag, "progress", false, "Show recognition progress")
	cmd.Flags().BoolVar(&preprocessFlag, "preprocess", false, "Binarize the image before recognition")
	cmd.Flags().StringVar(&scriptFlag, "script", "", "JavaScript post-processing snippet")

	return cmd
}

func writeResult(w io.Writer, res *engine.Result, format string) error {
	switch format {
	case "text":
		_, err := fmt.Fprintln(w, res.Text)
		return err
	case "json":
		return export.JSON(w, res)
	case "markdown":
		doc := &ocr.Document{
			Pages:         []*engine.Result{res},
			FullText:      res.Text,
			AvgConfidence: res.Confidence,
			TotalTime:     res.ProcessingTime,
		}
		_, err := io.WriteString(w, export.Markdown(doc))
		return err
	case "hocr":
		return export.HOCR(w, res)
	case "table":
		rows := make([][]string, 0, len(res.Words))
		for _, word := range res.Words {
			rows = append(rows, []string{
				word.Text,
				fmt.Sprintf("%.1f", word.Confidence),
				fmt.Sprintf("%d,%d", word.Box.X0, word.Box.Y0),
				strconv.Itoa(word.Box.Width()) + "x" + strconv.Itoa(word.Box.Height()),
			})
		}
		_, err := fmt.Fprintln(w, renderTable(
			[]string{"Word", "Confidence", "Origin", "Size"},
			rows,
			[]columnAlignment{alignLeft, alignRight, alignRight, alignRight},
		))
		return err
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
