package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wudi/ocrkit/capability"
	"github.com/wudi/ocrkit/engine"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Report whether this host can run recognition",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report := capability.Detect(engine.Default())

			engineCell := report.Engine
			if engineCell == "" {
				engineCell = "(none)"
			}
			versionCell := report.EngineVersion
			if versionCell == "" {
				versionCell = "unknown"
			}
			statusCell := "ok"
			if !report.Supported() {
				statusCell = "unavailable"
			}
			languagesCell := "unknown"
			if report.Languages != nil {
				languagesCell = strings.Join(report.Languages, ", ")
			}

			rows := [][]string{
				{"engine", engineCell},
				{"version", versionCell},
				{"status", statusCell},
				{"languages", languagesCell},
				{"os/arch", report.OS + "/" + report.Arch},
				{"cpus", strconv.Itoa(report.NumCPU)},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Property", "Value"}, rows, nil))

			return report.Err()
		},
	}
}
