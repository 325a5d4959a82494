package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/san-kum/dynpar/internal/config"
	"github.com/san-kum/dynpar/internal/dynpar"
	"github.com/san-kum/dynpar/internal/export"
	"github.com/san-kum/dynpar/internal/logger"
	"github.com/san-kum/dynpar/internal/viz"
	"github.com/spf13/cobra"
)

var version = "dev"

var (
	configFile string
	preset     string
	// Orbit and photometry
	alpha float64
	beta  float64
	mag1  float64
	mag2  float64
	years float64
	// Solver
	tolerance   float64
	maxIter     int
	stableSteps int
	// Output
	showPlot   bool
	plotHeight int
	plotWidth  int
	csvPath    string
	jsonPath   string
	svgPath    string
	logLevel   string
	prettyLog  bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "dynpar",
		Short:        "dynamical parallax of visual binary stars",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&prettyLog, "pretty", false, "human-readable log output")

	solveCmd := &cobra.Command{
		Use:   "solve",
		Short: "estimate period, distance, magnitudes and masses",
		Args:  cobra.NoArgs,
		RunE:  runSolve,
	}
	addInputFlags(solveCmd)
	solveCmd.Flags().BoolVar(&showPlot, "plot", false, "print the convergence chart")
	solveCmd.Flags().StringVar(&csvPath, "csv", "", "write the iteration history as CSV")
	solveCmd.Flags().StringVar(&jsonPath, "json", "", "write the result as JSON")
	solveCmd.Flags().StringVar(&svgPath, "svg", "", "write the convergence chart as SVG")

	plotCmd := &cobra.Command{
		Use:   "plot",
		Short: "print the convergence chart only",
		Args:  cobra.NoArgs,
		RunE:  runPlot,
	}
	addInputFlags(plotCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(cmd.OutOrStdout(), "  %-10s alpha=%g\" beta=%g\" m=%g/%g t=%gyr\n", name,
					p.Orbit.SemiMajorArcsec, p.Orbit.SemiMinorArcsec,
					p.Photometry.ApparentMag1, p.Photometry.ApparentMag2,
					p.Orbit.PartialOrbitYears)
			}
			return nil
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}

	rootCmd.AddCommand(solveCmd, plotCmd, presetsCmd, versionCmd)
	return rootCmd
}

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset binary")
	cmd.Flags().Float64Var(&alpha, "alpha", config.DefaultSemiMajor, "apparent semi-major axis [arcsec]")
	cmd.Flags().Float64Var(&beta, "beta", config.DefaultSemiMinor, "apparent semi-minor axis [arcsec]")
	cmd.Flags().Float64Var(&mag1, "mag1", config.DefaultMag1, "apparent magnitude of the primary")
	cmd.Flags().Float64Var(&mag2, "mag2", config.DefaultMag2, "apparent magnitude of the secondary")
	cmd.Flags().Float64Var(&years, "years", config.DefaultPartialYears, "time to sweep the observed arc [yr]")
	cmd.Flags().Float64Var(&tolerance, "tol", dynpar.DefaultTolerance, "relative convergence tolerance")
	cmd.Flags().IntVar(&maxIter, "max-iter", dynpar.DefaultMaxIterations, "iteration cap")
	cmd.Flags().IntVar(&stableSteps, "stable-steps", dynpar.DefaultStableSteps, "consecutive passing steps required")
	cmd.Flags().IntVar(&plotHeight, "height", viz.DefaultChartOptions().Height, "chart panel height")
	cmd.Flags().IntVar(&plotWidth, "width", viz.DefaultChartOptions().Width, "chart panel width")
}

// resolveConfig applies preset, then config file, then explicitly set flags.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("alpha") {
		cfg.Orbit.SemiMajorArcsec = alpha
	}
	if flags.Changed("beta") {
		cfg.Orbit.SemiMinorArcsec = beta
	}
	if flags.Changed("years") {
		cfg.Orbit.PartialOrbitYears = years
	}
	if flags.Changed("mag1") {
		cfg.Photometry.ApparentMag1 = mag1
	}
	if flags.Changed("mag2") {
		cfg.Photometry.ApparentMag2 = mag2
	}
	if flags.Changed("tol") {
		cfg.Solver.Tolerance = tolerance
	}
	if flags.Changed("max-iter") {
		cfg.Solver.MaxIterations = maxIter
	}
	if flags.Changed("stable-steps") {
		cfg.Solver.StableSteps = stableSteps
	}
	if flags.Changed("log-level") || cfg.Log.Level == "" {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("pretty") {
		cfg.Log.Pretty = prettyLog
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func solve(cmd *cobra.Command) (*dynpar.Result, zerolog.Logger, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, zerolog.Nop(), err
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty, Out: cmd.ErrOrStderr()})
	in := cfg.Inputs()

	log.Debug().
		Float64("alpha_arcsec", in.SemiMajorArcsec).
		Float64("beta_arcsec", in.SemiMinorArcsec).
		Float64("mag1", in.ApparentMag1).
		Float64("mag2", in.ApparentMag2).
		Float64("years", in.PartialOrbitYears).
		Msg("solving")

	res, err := dynpar.Solve(context.Background(), in, cfg.SolverConfig(), dynpar.NewLogObserver(log, in.Constants))
	if err != nil {
		log.Error().Err(err).Msg("solve failed")
		return res, log, err
	}
	return res, log, nil
}

func runSolve(cmd *cobra.Command, args []string) error {
	res, log, err := solve(cmd)
	if res == nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err != nil {
		// Keep the partial history of a failed run for inspection.
		fmt.Fprintln(out, viz.Status(res))
		if exportErr := writeExports(res, log); exportErr != nil {
			return errors.Join(err, exportErr)
		}
		return err
	}

	fmt.Fprintln(out, viz.Summary(res))

	if showPlot {
		fmt.Fprintln(out)
		fmt.Fprintln(out, viz.RenderChart(res, viz.ChartOptions{Height: plotHeight, Width: plotWidth}))
	}

	return writeExports(res, log)
}

func writeExports(res *dynpar.Result, log zerolog.Logger) error {
	outputs := []struct {
		path  string
		write func(string, *dynpar.Result) error
	}{
		{csvPath, export.WriteCSVFile},
		{jsonPath, export.WriteJSONFile},
		{svgPath, export.WriteSVGFile},
	}
	for _, o := range outputs {
		if o.path == "" {
			continue
		}
		if err := o.write(o.path, res); err != nil {
			log.Error().Err(err).Str("path", o.path).Msg("export failed")
			return err
		}
		log.Info().Str("path", o.path).Msg("exported")
	}
	return nil
}

func runPlot(cmd *cobra.Command, args []string) error {
	res, _, err := solve(cmd)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), viz.RenderChart(res, viz.ChartOptions{Height: plotHeight, Width: plotWidth}))
	return nil
}
