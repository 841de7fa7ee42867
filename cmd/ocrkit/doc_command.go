package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/wudi/ocrkit/engine"
	"github.com/wudi/ocrkit/export"
	"github.com/wudi/ocrkit/ocr"
)

func newDocCommand(ctx *commandContext) *cobra.Command {
	var formatFlag string
	var progressFlag bool
	var preprocessFlag bool
	var pageBreakFlag string

	cmd := &cobra.Command{
		Use:   "doc <pages...>",
		Short: "Recognize the pages of a document and aggregate them",
		Args:  cobra.MinimumNArgs(1),
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
			if pageBreakFlag != "" {
				opts = append(opts, ocr.WithPageBreak(pageBreakFlag))
			}
			if progressFlag {
				renderer := newProgressRenderer()
				defer renderer.Finish()
				opts = append(opts, ocr.WithPageProgress(func(page, total int, ev engine.Event) {
					renderer.SetPrefix(fmt.Sprintf("page %d/%d", page, total))
					renderer.Update(ev)
				}))
			}

			pages := make([]engine.Source, 0, len(args))
			for _, path := range args {
				pages = append(pages, engine.FromFile(path))
			}
			doc, err := svc.RecognizeDocument(cmd.Context(), pages, opts...)
			if err != nil {
				return err
			}
			return writeDocument(cmd.OutOrStdout(), doc, formatFlag)
		},
	}

	cmd.Flags().StringVarP(&formatFlag, "format", "f", "text", "Output format: text, json, markdown or html")
	cmd.Flags().BoolVar(&progressFlag, "progress", false, "Show per-page progress")
	cmd.Flags().BoolVar(&preprocessFlag, "preprocess", false, "Binarize pages before recognition")
	cmd.Flags().StringVar(&pageBreakFlag, "page-break", "", "Separator between pages in the aggregated text")

	return cmd
}

func writeDocument(w io.Writer, doc *ocr.Document, format string) error {
	switch format {
	case "text":
		return export.Text(w, doc)
	case "json":
		return export.JSON(w, doc)
	case "markdown":
		_, err := io.WriteString(w, export.Markdown(doc))
		return err
	case "html":
		return export.HTML(w, doc)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
