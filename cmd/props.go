package main

import (
	"context"
	"fmt"

	"nextce/internal/nextce"
	"nextce/internal/report"

	"github.com/spf13/cobra"
)

var setEquivalenceCommand = &cobra.Command{
	Use:     "set-equivalence <1-4>",
	Aliases: []string{"ce_equivalence"},
	Short:   "select the counterexample equivalence class, resetting every property",
	Long:    ``,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		class, err := nextce.ParseEquivalenceClass(args[0])
		if err != nil {
			return err
		}
		return withSession(cmd.Context(), func(_ context.Context, s *session) error {
			if err := s.engine.SetClass(class); err != nil {
				return err
			}
			return s.reporter.Printf("equivalence class set to %d, every property was reset\n", class)
		})
	},
}

var showEquivalenceCommand = &cobra.Command{
	Use:   "show-equivalence",
	Short: "show the equivalence classes",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withSession(cmd.Context(), func(_ context.Context, s *session) error {
			current := s.engine.Config().Class()
			for _, info := range nextce.ClassInfos {
				mark := " "
				if info.Class == current {
					mark = "*"
				}
				if err := s.reporter.Printf("%s %s %s\n", mark, report.Colour(36, fmt.Sprintf("%d %-22s", info.Class, info.Title)), info.Description); err != nil {
					return err
				}
			}
			return nil
		})
	},
}

var showPropsCommand = &cobra.Command{
	Use:   "show-props",
	Short: "list the LTL properties with their verdict and enumeration state",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withSession(cmd.Context(), func(_ context.Context, s *session) error {
			for _, p := range s.db.All() {
				state := "-"
				if rec := nextce.RecordOf(p); rec != nil {
					state = fmt.Sprintf("%s, %d excluded", rec.Status(), rec.Len())
				}
				if err := s.reporter.Printf("%s [%s]\n", p, state); err != nil {
					return err
				}
			}
			return nil
		})
	},
}
