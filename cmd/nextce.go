package main

import (
	"context"

	"nextce/internal/strategy"

	"github.com/spf13/cobra"
)

var checkCommand = &cobra.Command{
	Use:   "check",
	Short: "verify the properties that have no verdict yet",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withSession(cmd.Context(), func(ctx context.Context, s *session) error {
			sel, err := selector(s.db)
			if err != nil {
				return err
			}
			return s.engine.Check(ctx, sel)
		})
	},
}

var nextCECommand = &cobra.Command{
	Use:     "next-ce",
	Aliases: []string{"next_ce"},
	Short:   "show the next counterexample of the selected properties",
	Long:    `Every call excludes the counterexamples already shown and asks NuSMV for a different one.`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withSession(cmd.Context(), func(ctx context.Context, s *session) error {
			sel, err := selector(s.db)
			if err != nil {
				return err
			}
			return s.engine.NextCE(ctx, sel)
		})
	},
}

var resetCECommand = &cobra.Command{
	Use:     "reset-ce",
	Aliases: []string{"reset_ce"},
	Short:   "forget the counterexamples shown for the selected properties",
	Long:    ``,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withSession(cmd.Context(), func(_ context.Context, s *session) error {
			sel, err := selector(s.db)
			if err != nil {
				return err
			}
			return s.engine.ResetCE(sel)
		})
	},
}

var computeAllCommand = &cobra.Command{
	Use:     "compute-all",
	Aliases: []string{"compute_all"},
	Short:   "show every remaining counterexample of the selected properties",
	Long:    ``,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		order, err := strategy.New(Order)
		if err != nil {
			return err
		}
		return withSession(cmd.Context(), func(ctx context.Context, s *session) error {
			sel, err := selector(s.db)
			if err != nil {
				return err
			}
			return s.engine.ComputeAll(ctx, sel, order)
		})
	},
}

func init() {
	addSelectorFlags(checkCommand)
	addSelectorFlags(nextCECommand)
	addSelectorFlags(resetCECommand)
	addSelectorFlags(computeAllCommand)
}
