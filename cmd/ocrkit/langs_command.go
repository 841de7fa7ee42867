package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

func newLangsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "langs",
		Short: "Manage traineddata language packs",
	}
	cmd.AddCommand(newLangsListCommand(ctx))
	cmd.AddCommand(newLangsPullCommand(ctx))
	cmd.AddCommand(newLangsRemoveCommand(ctx))
	return cmd
}

func newLangsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List installed language packs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := ctx.newManager()
			if err != nil {
				return err
			}
			langs, err := mgr.Installed()
			if err != nil {
				return err
			}
			if len(langs) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "no language packs in %s\n", mgr.Dir())
				return nil
			}

			rows := make([][]string, 0, len(langs))
			for _, lang := range langs {
				size := "?"
				if info, err := os.Stat(mgr.Path(lang)); err == nil {
					size = strconv.FormatInt(info.Size()/1024, 10) + " KiB"
				}
				rows = append(rows, []string{lang, size})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Language", "Size"},
				rows,
				[]columnAlignment{alignLeft, alignRight},
			))
			return nil
		},
	}
}

func newLangsPullCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "pull <langs...>",
		Short: "Download language packs that are not yet installed",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := ctx.newManager()
			if err != nil {
				return err
			}
			for _, spec := range args {
				if err := mgr.Ensure(cmd.Context(), spec); err != nil {
					return fmt.Errorf("pull %s: %w", spec, err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "language packs ready in %s\n", mgr.Dir())
			return nil
		},
	}
}

func newLangsRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <lang>",
		Short: "Delete an installed language pack",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := ctx.newManager()
			if err != nil {
				return err
			}
			return mgr.Remove(args[0])
		},
	}
}
