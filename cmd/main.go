package main

import (
	"context"
	goflag "flag"
	"fmt"
	"os"
	"os/signal"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
)

var rootCmd = &cobra.Command{
	Use:   "nextce",
	Short: "nextce, enumerate distinct counterexamples of LTL invariants with NuSMV",
	Long:  "",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := log.ParseLevel(LogLevel)
		if err != nil {
			return err
		}
		log.SetLevel(level)
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	ModelFile   string
	SessionDir  string
	NuSMVBinary string
	Evaluator   string
	Order       string
	LogLevel    string
	Verbose     bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&ModelFile, "model", "", "SMV model file")
	rootCmd.PersistentFlags().StringVar(&SessionDir, "db", ".nextce", "session store directory")
	rootCmd.PersistentFlags().StringVar(&NuSMVBinary, "nusmv", "NuSMV", "NuSMV binary")
	rootCmd.PersistentFlags().StringVar(&Evaluator, "evaluator", "explicit", "fixed state evaluator: explicit or yices")
	rootCmd.PersistentFlags().StringVar(&Order, "order", "dfs", "compute-all order over properties: dfs or bfs")
	rootCmd.PersistentFlags().StringVar(&LogLevel, "log-level", "info", "log level")
	rootCmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "v", false, "print every variable at every step")

	rootCmd.AddCommand(versionCommand)
	rootCmd.AddCommand(checkCommand)
	rootCmd.AddCommand(nextCECommand)
	rootCmd.AddCommand(resetCECommand)
	rootCmd.AddCommand(computeAllCommand)
	rootCmd.AddCommand(setEquivalenceCommand)
	rootCmd.AddCommand(showEquivalenceCommand)
	rootCmd.AddCommand(showPropsCommand)
}

func main() {
	flag.CommandLine.AddGoFlagSet(goflag.CommandLine)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
