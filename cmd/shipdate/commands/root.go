package commands

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"shipdate/internal/config"
	"shipdate/internal/loader"
	"shipdate/internal/logging"
	"shipdate/internal/report"
	"shipdate/internal/simulation"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose     bool
	projectPath string
	iterations  int
	workers     int
	seed        int64
	noProgress  bool

	cfg *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "shipdate",
	Short: "shipdate forecasts project completion dates with Monte Carlo simulation",
	Long: `A project estimation tool that turns three-point task estimates into a
probability distribution over calendar completion dates, accounting for
weekends, public holidays, vacations, and communication overhead.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)

		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("shipdate starting")
	},
	Run: func(cmd *cobra.Command, args []string) {
		proj, err := loader.LoadProject(projectPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", projectPath).Msg("Failed to load project")
		}

		runIterations := iterations
		if runIterations <= 0 {
			runIterations = cfg.Iterations
		}
		runWorkers := workers
		if runWorkers <= 0 {
			runWorkers = cfg.Workers
		}

		monte := simulation.NewMonteCarlo(proj, runIterations)
		monte.SetWorkers(runWorkers)
		if seed != 0 {
			monte.SetSeed(seed)
		}
		if !noProgress && isatty.IsTerminal(os.Stderr.Fd()) {
			monte.Register(report.NewProgress(os.Stderr, runIterations))
		}

		log.Info().
			Str("project", proj.Name).
			Int("iterations", runIterations).
			Int("workers", runWorkers).
			Msg("Running simulation")

		outcomes, err := monte.Run()
		if err != nil {
			log.Fatal().Err(err).Msg("Simulation failed")
		}

		report.Render(os.Stdout, proj.Name, outcomes)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.Flags().StringVarP(&projectPath, "project", "p", "project.yaml", "path to the YAML project definition")
	rootCmd.Flags().IntVarP(&iterations, "iterations", "n", 0, "number of iterations (default from SHIPDATE_ITERATIONS)")
	rootCmd.Flags().IntVarP(&workers, "workers", "w", 0, "maximum concurrent iterations (default from SHIPDATE_WORKERS)")
	rootCmd.Flags().Int64Var(&seed, "seed", 0, "fixed random seed for reproducible runs (0 means time-based)")
	rootCmd.Flags().BoolVar(&noProgress, "no-progress", false, "disable the progress indicator")
}
