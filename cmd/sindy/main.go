package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/sindy/internal/basis"
	"github.com/san-kum/sindy/internal/config"
	"github.com/san-kum/sindy/internal/deriv"
	"github.com/san-kum/sindy/internal/discover"
	"github.com/san-kum/sindy/internal/integrate"
	"github.com/san-kum/sindy/internal/models"
	"github.com/san-kum/sindy/internal/optim"
	"github.com/san-kum/sindy/internal/regress"
	"github.com/san-kum/sindy/internal/store"
	"github.com/san-kum/sindy/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	optimizer  string
	maxIter    int
	denoise    bool
	normalize  bool
	degree     int
	trig       bool
	minThresh  float64
	maxThresh  float64
	steps      int
	dt         float64
	duration   float64
	derivFile  string
	live       bool
	parallel   bool
	noSave     bool
	plot       bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sindy",
		Short: "sparse identification of nonlinear dynamics",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".sindy", "data directory")

	demoCmd := &cobra.Command{
		Use:   "demo [model]",
		Short: "discover equations of a known system from synthetic data",
		Args:  cobra.ExactArgs(1),
		RunE:  runDemo,
	}
	addSweepFlags(demoCmd)
	demoCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "integration timestep")
	demoCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "trajectory duration")
	demoCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	demoCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	discoverCmd := &cobra.Command{
		Use:   "discover [trajectory.csv]",
		Short: "discover equations from a measured trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  runDiscover,
	}
	addSweepFlags(discoverCmd)
	discoverCmd.Flags().StringVar(&derivFile, "derivatives", "", "derivative csv (finite differences when absent)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	rootCmd.AddCommand(demoCmd, discoverCmd, listCmd, exportCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func addSweepFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&optimizer, "optimizer", config.DefaultOptimizer, "sparse solver (stlsq, ista)")
	cmd.Flags().IntVar(&maxIter, "maxiter", config.DefaultMaxIter, "optimizer iteration budget")
	cmd.Flags().BoolVar(&denoise, "denoise", false, "singular-value denoising of the feature matrix")
	cmd.Flags().BoolVar(&normalize, "normalize", true, "normalize feature rows before fitting")
	cmd.Flags().IntVar(&degree, "degree", config.DefaultDegree, "polynomial basis degree")
	cmd.Flags().BoolVar(&trig, "trig", false, "add sin/cos candidates")
	cmd.Flags().Float64Var(&minThresh, "min-threshold", config.DefaultMinThresh, "sweep lower bound")
	cmd.Flags().Float64Var(&maxThresh, "max-threshold", config.DefaultMaxThresh, "sweep upper bound")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "sweep step count")
	cmd.Flags().BoolVar(&live, "live", false, "live sweep progress view")
	cmd.Flags().BoolVar(&parallel, "parallel", false, "evaluate thresholds concurrently")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "skip saving the run")
	cmd.Flags().BoolVar(&plot, "plot", false, "plot the residual/threshold trade-off")
}

func runDemo(cmd *cobra.Command, args []string) error {
	cfg, err := demoConfig(args[0])
	if err != nil {
		return err
	}

	sys, err := models.Lookup(cfg.Model)
	if err != nil {
		return err
	}

	states, derivs, times, err := integrate.Trajectory(context.Background(), sys, sys.DefaultState(), cfg.Dt, cfg.Duration)
	if err != nil {
		return err
	}

	opts, b, err := buildOptions(cfg, times)
	if err != nil {
		return err
	}
	return sweepAndReport(cfg.Model, states, derivs, b, cfg.Thresholds(), opts)
}

func demoConfig(model string) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case configFile != "":
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	case preset != "":
		cfg = config.GetPreset(model, preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q for model %q", preset, model)
		}
	default:
		cfg = config.DefaultConfig()
		cfg.Model = model
		cfg.Optimizer = optimizer
		cfg.MaxIter = maxIter
		cfg.Denoise = denoise
		cfg.Normalize = normalize
		cfg.Dt = dt
		cfg.Duration = duration
		cfg.Basis.Degree = degree
		cfg.Basis.Trig = trig
		cfg.Sweep = config.SweepConfig{Min: minThresh, Max: maxThresh, Steps: steps}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	cfg.Model = model
	return cfg, nil
}

func runDiscover(cmd *cobra.Command, args []string) error {
	states, times, err := readTrajectory(args[0])
	if err != nil {
		return err
	}

	var derivs *mat.Dense
	if derivFile != "" {
		derivs, _, err = readMatrix(derivFile)
		if err != nil {
			return err
		}
	} else {
		derivs, err = deriv.Central(states, times)
		if err != nil {
			return err
		}
	}

	cfg := config.DefaultConfig()
	cfg.Model = "trajectory"
	cfg.Optimizer = optimizer
	cfg.MaxIter = maxIter
	cfg.Denoise = denoise
	cfg.Normalize = normalize
	cfg.Basis.Degree = degree
	cfg.Basis.Trig = trig
	cfg.Sweep = config.SweepConfig{Min: minThresh, Max: maxThresh, Steps: steps}
	if err := cfg.Validate(); err != nil {
		return err
	}

	opts, b, err := buildOptions(cfg, times)
	if err != nil {
		return err
	}
	return sweepAndReport(cfg.Model, states, derivs, b, cfg.Thresholds(), opts)
}

func buildOptions(cfg *config.Config, times []float64) (regress.Options, basis.Basis, error) {
	opts := regress.DefaultOptions()
	opts.MaxIter = cfg.MaxIter
	opts.Denoise = cfg.Denoise
	opts.Normalize = cfg.Normalize
	opts.Times = times

	switch cfg.Optimizer {
	case "stlsq":
		opts.Optimizer = optim.NewSTLSQ(cfg.Sweep.Min)
	case "ista":
		opts.Optimizer = optim.NewISTA(cfg.Sweep.Min)
	default:
		return opts, nil, fmt.Errorf("unknown optimizer: %s", cfg.Optimizer)
	}

	var b basis.Basis = basis.NewPolynomial(cfg.Basis.Degree)
	if cfg.Basis.Trig {
		b = basis.NewUnion(b, basis.NewTrig(cfg.Basis.Harmonics))
	}
	return opts, b, nil
}

func sweepAndReport(model string, states, derivs *mat.Dense, b basis.Basis, thresholds []float64, opts regress.Options) error {
	var result *discover.Result
	var sweepTrace []discover.TraceEntry
	var err error

	switch {
	case live:
		result, sweepTrace, err = runLive(model, states, derivs, b, thresholds, opts)
	case parallel:
		ens := discover.NewEnsemble(thresholds)
		ens.RecordTrace = plot
		result, err = ens.Run(context.Background(), states, derivs, b, opts)
		sweepTrace = ens.Trace()
	default:
		sw := discover.NewSweep(thresholds)
		sw.RecordTrace = plot
		result, err = sw.Run(states, derivs, b, opts)
		sweepTrace = sw.Trace()
	}
	if err != nil {
		return err
	}

	if !live {
		fmt.Print(viz.RenderResult(model, result))
	}
	if plot && len(sweepTrace) > 0 {
		residuals := make([]float64, len(sweepTrace))
		for i, e := range sweepTrace {
			residuals[i] = e.Residual
		}
		fmt.Println(viz.PlotTradeoff(thresholds, residuals, 60, 10))
	}

	if noSave {
		return nil
	}
	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(model, result)
	if err != nil {
		return err
	}
	fmt.Printf("saved run %s\n", runID)
	return nil
}

func runLive(model string, states, derivs *mat.Dense, b basis.Basis, thresholds []float64, opts regress.Options) (*discover.Result, []discover.TraceEntry, error) {
	p := tea.NewProgram(viz.NewLiveSweep(model))
	sw := discover.NewSweep(thresholds)
	sw.RecordTrace = plot
	sw.Observer = func(step, total int, th float64) {
		p.Send(viz.SweepProgressMsg{Step: step, Total: total, Threshold: th})
	}

	go func() {
		result, err := sw.Run(states, derivs, b, opts)
		p.Send(viz.SweepDoneMsg{Result: result, Err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return nil, nil, err
	}
	result, runErr := final.(viz.LiveSweep).Result()
	if runErr != nil {
		return nil, nil, runErr
	}
	if result == nil {
		return nil, nil, fmt.Errorf("sweep aborted")
	}
	return result, sw.Trace(), nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no saved runs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tWHEN\tTHRESHOLD\tCONVERGED")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.4g\t%v\n",
			r.ID, r.Model, r.Timestamp.Format("2006-01-02 15:04:05"), r.Threshold, r.Converged)
	}
	return w.Flush()
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	payload, err := st.LoadPayload(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run %s (%s)\n", meta.ID, meta.Model)
	for _, eq := range meta.Equations {
		fmt.Printf("  %s\n", eq)
	}
	fmt.Printf("features: %d, samples: %d\n", len(payload.Coefficients), len(payload.Times))
	return nil
}

// readTrajectory parses a CSV with a header row and columns time,x1,...,xn,
// returning states laid out one row per variable.
func readTrajectory(path string) (*mat.Dense, []float64, error) {
	rows, header, err := readCSV(path)
	if err != nil {
		return nil, nil, err
	}
	if len(header) < 2 {
		return nil, nil, fmt.Errorf("%s: need a time column and at least one state column", path)
	}

	samples := len(rows)
	vars := len(header) - 1
	times := make([]float64, samples)
	states := mat.NewDense(vars, samples, nil)
	for s, row := range rows {
		times[s] = row[0]
		for v := 0; v < vars; v++ {
			states.Set(v, s, row[v+1])
		}
	}
	return states, times, nil
}

// readMatrix parses a CSV like readTrajectory but returns all columns after
// time as matrix rows.
func readMatrix(path string) (*mat.Dense, []float64, error) {
	return readTrajectory(path)
}

func readCSV(path string) ([][]float64, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return nil, nil, fmt.Errorf("%s: no data rows", path)
	}

	header := records[0]
	rows := make([][]float64, 0, len(records)-1)
	for i, rec := range records[1:] {
		row := make([]float64, len(rec))
		for j, field := range rec {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("%s: row %d column %d: %w", path, i+2, j+1, err)
			}
			row[j] = v
		}
		rows = append(rows, row)
	}
	return rows, header, nil
}
