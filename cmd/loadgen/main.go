// Package main is the synthetic traffic generator for the podium service.
package main

import (
	"os"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/okian/podium/internal/loadgen"
	"github.com/okian/podium/pkg/logger"
)

var cfg = &loadgen.Config{}

var rootCmd = &cobra.Command{
	Use:   "loadgen",
	Short: "Generates random score submissions against a podium service.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := logger.Init(); err != nil {
			return pkgerrors.Wrap(err, "initialize logging failed")
		}
		return loadgen.Run(cmd.Context(), cfg)
	},
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&cfg.BaseURL, "base-url", "http://localhost:8080", "service base URL")
	f.StringVar(&cfg.Table, "table", "highscores", "table to submit against")
	f.IntVar(&cfg.Submissions, "submissions", 1000, "number of submissions to send")
	f.IntVar(&cfg.Workers, "workers", 8, "concurrent submitters")
	f.DurationVar(&cfg.Timeout, "timeout", 5*time.Second, "HTTP request timeout")
	f.Int64Var(&cfg.MinScore, "min-score", 0, "minimum generated score")
	f.Int64Var(&cfg.MaxScore, "max-score", 10000, "maximum generated score")
	f.StringVar(&cfg.ProofSalt, "proof-salt", "", "attach proofs computed with this salt")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
