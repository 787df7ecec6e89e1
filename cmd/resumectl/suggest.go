package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <prompt>",
	Short: "Send one prompt to the suggestion backend and print the answer",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSuggest,
}

var suggestFlags suggesterFlags

func init() {
	suggestFlags.register(suggestCmd)
	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s, release, err := suggestFlags.suggester(ctx)
	if err != nil {
		return err
	}
	defer release()

	text, err := s.Suggest(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}
