package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"alphamastery/internal/api"
	"alphamastery/internal/config"
	"alphamastery/internal/content"
	"alphamastery/internal/rotation"
)

const payloadColumnWidth = 60

func newContentCommand(ctx *commandContext) *cobra.Command {
	contentCmd := &cobra.Command{
		Use:   "content",
		Short: "Manage rotation content",
	}

	contentCmd.AddCommand(newContentImportCommand(ctx))
	contentCmd.AddCommand(newContentListCommand(ctx))
	contentCmd.AddCommand(newContentNextCommand(ctx))
	contentCmd.AddCommand(newContentCursorCommand(ctx))
	contentCmd.AddCommand(newContentResetCommand(ctx))

	return contentCmd
}

func newContentImportCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import items from a YAML or JSON seed file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve seed path: %w", err)
			}
			file, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open seed file: %w", err)
			}
			defer file.Close()

			return ctx.withStore(func(_ *config.Config, store *content.Store) error {
				result, err := store.Import(cmd.Context(), file)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, result)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Imported %d items (%d already present)\n", result.Inserted, result.Skipped)
				for _, key := range sortedKeys(result.PerKey) {
					fmt.Fprintf(out, "  %s: %d\n", key, result.PerKey[key])
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newContentListCommand(ctx *commandContext) *cobra.Command {
	var (
		jsonOutput bool
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "list [key]",
		Short: "List rotation keys, or the items of one key",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, store *content.Store) error {
				out := cmd.OutOrStdout()
				tty := isTerminal(out)
				if len(args) == 0 {
					counts, err := store.Keys(cmd.Context())
					if err != nil {
						return err
					}
					converted := api.FromKeyCounts(counts)
					if jsonOutput {
						return writeJSON(cmd, converted)
					}
					if len(converted) == 0 {
						fmt.Fprintln(out, "No content stored")
						return nil
					}
					rows := make([][]string, 0, len(converted))
					for _, c := range converted {
						rows = append(rows, []string{c.Key, strconv.Itoa(c.Count)})
					}
					fmt.Fprintln(out, renderRows(tty, []string{"Key", "Items"}, rows, []columnAlignment{alignLeft, alignRight}))
					if tty {
						fmt.Fprintf(out, "%d items across %d keys\n", api.TotalItems(converted), len(converted))
					}
					return nil
				}

				key := strings.TrimSpace(args[0])
				items, err := store.List(cmd.Context(), key, limit)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, items)
				}
				if len(items) == 0 {
					fmt.Fprintf(out, "No items for %q\n", key)
					return nil
				}
				rows := make([][]string, 0, len(items))
				for i, item := range items {
					payload := item.Payload
					if tty {
						payload = truncate(payload, payloadColumnWidth)
					}
					rows = append(rows, []string{strconv.Itoa(i), strconv.FormatInt(item.ID, 10), payload})
				}
				fmt.Fprintln(out, renderRows(tty, []string{"#", "ID", "Payload"}, rows, []columnAlignment{alignRight, alignRight, alignLeft}))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of items to show (0 for all)")
	return cmd
}

func newContentNextCommand(ctx *commandContext) *cobra.Command {
	var (
		jsonOutput bool
		count      int
	)

	cmd := &cobra.Command{
		Use:   "next <key>",
		Short: "Serve the next item(s) of a key, advancing its cursor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, store *content.Store) error {
				selector := rotation.NewSelector(store, content.NewCursor(store), nil)
				items, err := selector.SelectBatch(cmd.Context(), args[0], count)
				out := cmd.OutOrStdout()
				if errors.Is(err, rotation.ErrNoContent) {
					fmt.Fprintf(out, "No content for %q\n", strings.TrimSpace(args[0]))
					return nil
				}
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, items)
				}
				for _, item := range items {
					fmt.Fprintf(out, "%d\t%s\n", item.ID, item.Payload)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().IntVarP(&count, "count", "n", 1, "Number of items to serve")
	return cmd
}

func newContentCursorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "cursor <key>",
		Short: "Show the stored cursor position of a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, store *content.Store) error {
				key := strings.TrimSpace(args[0])
				pos, ok, err := content.NewCursor(store).Position(cmd.Context(), key)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if !ok {
					fmt.Fprintf(out, "%s: never served\n", key)
					return nil
				}
				total, err := store.Count(cmd.Context(), key)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s: last index %d of %d (now %d items)\n", key, pos.LastIndex, pos.Total, total)
				return nil
			})
		},
	}
}

func newContentResetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reset <key>",
		Short: "Forget the cursor of a key so it starts over",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, store *content.Store) error {
				key := strings.TrimSpace(args[0])
				if err := content.NewCursor(store).Reset(cmd.Context(), key); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cursor for %s reset\n", key)
				return nil
			})
		},
	}
}
