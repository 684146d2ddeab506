package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/phaselab/phaselab/internal/analysis"
	"github.com/phaselab/phaselab/internal/config"
	"github.com/phaselab/phaselab/internal/engine"
	"github.com/phaselab/phaselab/internal/export"
	"github.com/phaselab/phaselab/internal/storage"
	"github.com/phaselab/phaselab/internal/system"
	"github.com/phaselab/phaselab/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	verbose    bool
	configFile string
	dt         float64
	duration   float64
	speed      float64
	themeName  string
	// Plot selection
	varName string
	plotX   string
	plotY   string
	// Section overrides
	secMode    string
	secPeriod  string
	planeVar   string
	planeValue float64
	secDir     string
	// SVG export
	svgPoints bool
	svgOut    string
	svgWidth  int
	svgHeight int
	svgColor  string
	// Bifurcation sweep
	sweepParam     string
	sweepMin       float64
	sweepMax       float64
	sweepSteps     int
	sweepWatch     string
	sweepTransient float64
	sweepRecord    float64
	// Lyapunov
	d0 float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "phaselab",
		Short: "expression-defined dynamical systems lab",
		// No subcommand drops straight into the live view of the
		// default system.
		RunE: runLive,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".phaselab", "data directory")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "debug logging")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	}

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "integrate a system and archive the run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSystem,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "system file (yaml)")
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	runCmd.Flags().Float64Var(&duration, "time", 30.0, "simulated seconds")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "watch a system integrate in real time",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&configFile, "config", "", "system file (yaml)")
	liveCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	liveCmd.Flags().Float64Var(&speed, "speed", config.DefaultSpeed, "simulated seconds per wall second")
	liveCmd.Flags().StringVar(&themeName, "theme", "", "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	poincareCmd := &cobra.Command{
		Use:   "poincare [preset]",
		Short: "collect and plot a poincare section",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runPoincare,
	}
	poincareCmd.Flags().StringVar(&configFile, "config", "", "system file (yaml)")
	poincareCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	poincareCmd.Flags().Float64Var(&duration, "time", 200.0, "simulated seconds")
	poincareCmd.Flags().StringVar(&secMode, "mode", "", "trigger mode (time, plane)")
	poincareCmd.Flags().StringVar(&secPeriod, "period", "", "sampling period expression (time mode)")
	poincareCmd.Flags().StringVar(&planeVar, "plane-var", "", "crossing quantity (plane mode)")
	poincareCmd.Flags().Float64Var(&planeValue, "plane-value", 0, "crossing value (plane mode)")
	poincareCmd.Flags().StringVar(&secDir, "direction", "", "crossing direction (positive, negative, both)")
	poincareCmd.Flags().StringVar(&plotX, "x", "", "section x quantity")
	poincareCmd.Flags().StringVar(&plotY, "y", "", "section y quantity")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list archived runs",
		RunE:  runList,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot an archived run",
		Args:  cobra.ExactArgs(1),
		RunE:  runPlot,
	}
	plotCmd.Flags().StringVar(&varName, "var", "", "plot a single quantity")
	plotCmd.Flags().StringVar(&plotX, "x", "", "phase portrait x quantity")
	plotCmd.Flags().StringVar(&plotY, "y", "", "phase portrait y quantity")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write an archived run as CSV to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  runExportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "write an archived run as JSON to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  runExportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render an archived run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  runExportSVG,
	}
	exportSVGCmd.Flags().StringVar(&plotX, "x", "", "x quantity (default: first column)")
	exportSVGCmd.Flags().StringVar(&plotY, "y", "", "y quantity (default: second column)")
	exportSVGCmd.Flags().BoolVar(&svgPoints, "points", false, "render the poincare points instead of the trajectory")
	exportSVGCmd.Flags().StringVar(&svgOut, "out", "", "output file (default: stdout)")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 600, "image height")
	exportSVGCmd.Flags().StringVar(&svgColor, "color", "", "stroke color (default: the system's particle color)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in systems",
		RunE:  runPresets,
	}

	lyapunovCmd := &cobra.Command{
		Use:   "lyapunov [preset]",
		Short: "estimate the largest lyapunov exponent",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLyapunov,
	}
	lyapunovCmd.Flags().StringVar(&configFile, "config", "", "system file (yaml)")
	lyapunovCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	lyapunovCmd.Flags().Float64Var(&duration, "time", 50.0, "simulated seconds")
	lyapunovCmd.Flags().Float64Var(&d0, "d0", 1e-8, "initial separation")

	spectrumCmd := &cobra.Command{
		Use:   "spectrum [preset]",
		Short: "amplitude spectrum of one quantity",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSpectrum,
	}
	spectrumCmd.Flags().StringVar(&configFile, "config", "", "system file (yaml)")
	spectrumCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	spectrumCmd.Flags().Float64Var(&duration, "time", 60.0, "simulated seconds")
	spectrumCmd.Flags().StringVar(&varName, "var", "", "quantity to analyze (default: first column)")

	bifurcationCmd := &cobra.Command{
		Use:   "bifurcation [preset]",
		Short: "sweep a parameter and plot the attractor",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runBifurcation,
	}
	bifurcationCmd.Flags().StringVar(&configFile, "config", "", "system file (yaml)")
	bifurcationCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	bifurcationCmd.Flags().StringVar(&sweepParam, "param", "", "order-0 variable to sweep")
	bifurcationCmd.Flags().Float64Var(&sweepMin, "min", 0, "sweep start")
	bifurcationCmd.Flags().Float64Var(&sweepMax, "max", 1, "sweep end")
	bifurcationCmd.Flags().IntVar(&sweepSteps, "steps", 60, "parameter values")
	bifurcationCmd.Flags().StringVar(&sweepWatch, "watch", "", "quantity to record (default: first column)")
	bifurcationCmd.Flags().Float64Var(&sweepTransient, "transient", 30.0, "settle time per value")
	bifurcationCmd.Flags().Float64Var(&sweepRecord, "record", 10.0, "recording window per value")

	compareCmd := &cobra.Command{
		Use:   "compare [preset]",
		Short: "run the same system under rk4 and euler",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCompare,
	}
	compareCmd.Flags().StringVar(&configFile, "config", "", "system file (yaml)")
	compareCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	compareCmd.Flags().Float64Var(&duration, "time", 10.0, "simulated seconds")

	rootCmd.AddCommand(runCmd, liveCmd, poincareCmd, listCmd, plotCmd,
		exportCSVCmd, exportJSONCmd, exportSVGCmd, presetsCmd,
		lyapunovCmd, spectrumCmd, bifurcationCmd, compareCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadSystem resolves the system definition: an explicit --config file
// wins, then a named preset, then the default system. Flags given on
// the command line override file values.
func loadSystem(cmd *cobra.Command, args []string) (*config.Config, error) {
	var cfg *config.Config
	var err error
	switch {
	case configFile != "":
		cfg, err = config.Load(configFile)
	case len(args) > 0:
		cfg, err = config.Preset(args[0])
	default:
		cfg = config.DefaultConfig()
	}
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("speed") {
		cfg.Speed = speed
	}
	cfg.Normalize()
	return cfg, nil
}

func newEngine(cfg *config.Config) *engine.Engine {
	return engine.New(cfg.GetParticles(), engine.Config{
		Dt:      cfg.Dt,
		History: cfg.History,
		Section: cfg.GetSection(),
	})
}

func systemName(cfg *config.Config) string {
	if cfg.Name != "" {
		return cfg.Name
	}
	return "system"
}

func runSystem(cmd *cobra.Command, args []string) error {
	cfg, err := loadSystem(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	eng := newEngine(cfg)
	name := systemName(cfg)
	fmt.Printf("integrating %s for %.4gs (dt=%g)...\n", name, duration, cfg.Dt)

	res, err := eng.Run(context.Background(), duration)
	if err != nil {
		if res == nil || res.Steps() == 0 {
			return err
		}
		fmt.Printf("stopped early: %v\n", err)
	}

	runID, err := st.Save(name, cfg, res)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", res.Elapsed.Round(time.Millisecond))
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", res.Steps())
	if len(res.Points) > 0 {
		fmt.Printf("poincare points: %d\n", len(res.Points))
	}
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "QUANTITY\tMIN\tMAX\tMEAN\tFINAL")
	for _, col := range res.Columns {
		s := res.Stats[col]
		fmt.Fprintf(w, "%s\t%.4g\t%.4g\t%.4g\t%.4g\n", col, s.Min, s.Max, s.Mean, s.Final)
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadSystem(cmd, args)
	if err != nil {
		return err
	}
	if themeName != "" {
		viz.SetTheme(themeName)
	}
	return viz.Run(newEngine(cfg), systemName(cfg), cfg.Speed)
}

func runPoincare(cmd *cobra.Command, args []string) error {
	cfg, err := loadSystem(cmd, args)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("mode") {
		cfg.Poincare.Mode = secMode
	}
	if cmd.Flags().Changed("period") {
		cfg.Poincare.Period = secPeriod
	}
	if cmd.Flags().Changed("plane-var") {
		cfg.Poincare.PlaneVar = planeVar
	}
	if cmd.Flags().Changed("plane-value") {
		cfg.Poincare.PlaneValue = planeValue
	}
	if cmd.Flags().Changed("direction") {
		cfg.Poincare.Direction = secDir
	}
	if cmd.Flags().Changed("x") {
		cfg.Poincare.PlotX = plotX
	}
	if cmd.Flags().Changed("y") {
		cfg.Poincare.PlotY = plotY
	}

	sc := cfg.GetSection()
	if !sc.Enabled() {
		return fmt.Errorf("no section configured: add a poincare block or pass --mode")
	}

	eng := newEngine(cfg)
	fmt.Printf("integrating %s for %.4gs (dt=%g)...\n", systemName(cfg), duration, cfg.Dt)
	res, err := eng.Run(context.Background(), duration)
	if err != nil {
		if res == nil || res.Steps() == 0 {
			return err
		}
		fmt.Printf("stopped early: %v\n", err)
	}

	if len(res.Points) == 0 {
		fmt.Println("no crossings recorded")
		return nil
	}

	p := viz.NewPlot(70, 22)
	for _, pt := range res.Points {
		p.Add(pt.X, pt.Y)
	}
	fmt.Printf("%d points, %s vs %s\n\n", len(res.Points), sc.PlotX, sc.PlotY)
	fmt.Println(p.Render())
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSYSTEM\tCREATED\tDT\tSTEPS\tTIME\tPOINTS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.4g\t%d\t%.4gs\t%d\n",
			run.ID,
			run.Name,
			run.CreatedAt.Format("2006-01-02 15:04:05"),
			run.Dt,
			run.Steps,
			run.Duration,
			run.PoincarePoints,
		)
	}
	return w.Flush()
}

// maxPlots caps how many time series the plot command prints before it
// turns into scrollback noise.
const maxPlots = 6

func runPlot(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	cols, times, rows, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("system: %s\n", meta.Name)
	fmt.Printf("samples: %d (t = %.4g..%.4g)\n\n", len(rows), times[0], times[len(times)-1])

	if plotX != "" && plotY != "" {
		xs := column(cols, rows, plotX)
		ys := column(cols, rows, plotY)
		if xs == nil || ys == nil {
			return fmt.Errorf("unknown quantity (have: %s)", strings.Join(cols, ", "))
		}
		p := viz.NewPlot(70, 22).Lines(true)
		p.AddSeries(xs, ys)
		fmt.Printf("%s vs %s\n", plotX, plotY)
		fmt.Println(p.Render())
		return nil
	}

	selected := cols
	if varName != "" {
		selected = []string{varName}
	}
	if len(selected) > maxPlots {
		selected = selected[:maxPlots]
	}
	for _, col := range selected {
		data := column(cols, rows, col)
		if data == nil {
			return fmt.Errorf("unknown quantity %q (have: %s)", col, strings.Join(cols, ", "))
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(col),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func runExportCSV(cmd *cobra.Command, args []string) error {
	cols, times, rows, err := storage.New(dataDir).LoadSeries(args[0])
	if err != nil {
		return err
	}
	res := &engine.Result{Columns: cols, Times: times, Rows: rows}
	return storage.ExportCSV(os.Stdout, res)
}

func runExportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	cols, times, rows, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	points, err := st.LoadPoints(args[0])
	if err != nil {
		return err
	}
	res := &engine.Result{Columns: cols, Times: times, Rows: rows, Points: points}
	return storage.ExportJSON(os.Stdout, meta.Name, meta.Dt, res)
}

func runExportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	stroke := svgColor
	if stroke == "" {
		stroke = "#5fd7a7"
		if cfg, err := st.LoadConfig(runID); err == nil {
			for _, p := range cfg.Particles {
				if p.Color != "" {
					stroke = p.Color
					break
				}
			}
		}
	}

	var svg string
	if svgPoints {
		points, err := st.LoadPoints(runID)
		if err != nil {
			return err
		}
		svg = export.SectionSVG(points, svgWidth, svgHeight, stroke)
	} else {
		cols, _, rows, err := st.LoadSeries(runID)
		if err != nil {
			return err
		}
		x, y := plotX, plotY
		if x == "" || y == "" {
			if len(cols) < 2 {
				return fmt.Errorf("run has %d quantities, pass --x and --y", len(cols))
			}
			x, y = cols[0], cols[1]
		}
		xs := column(cols, rows, x)
		ys := column(cols, rows, y)
		if xs == nil || ys == nil {
			return fmt.Errorf("unknown quantity (have: %s)", strings.Join(cols, ", "))
		}
		svg = export.PortraitSVG(xs, ys, svgWidth, svgHeight, stroke)
	}

	if svg == "" {
		return fmt.Errorf("not enough data to render")
	}
	if svgOut == "" {
		fmt.Println(svg)
		return nil
	}
	if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", svgOut)
	return nil
}

func runPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPARTICLES\tVARS\tDT\tSECTION")
	for _, name := range config.PresetNames() {
		cfg, err := config.Preset(name)
		if err != nil {
			return err
		}
		vars := 0
		for _, p := range cfg.Particles {
			vars += len(p.Vars)
		}
		mode := cfg.Poincare.Mode
		if mode == "" {
			mode = "-"
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%g\t%s\n", name, len(cfg.Particles), vars, cfg.Dt, mode)
	}
	return w.Flush()
}

func runLyapunov(cmd *cobra.Command, args []string) error {
	cfg, err := loadSystem(cmd, args)
	if err != nil {
		return err
	}

	l := system.Build(cfg.GetParticles())
	if l.StateDim() == 0 {
		return fmt.Errorf("system has no integrated variables")
	}

	fmt.Printf("estimating over %.4gs (dt=%g, d0=%g)...\n", duration, cfg.Dt, d0)
	lambda := analysis.Lyapunov(l, engine.NewRK4(), engine.State(l.Initial), cfg.Dt, duration, d0)

	fmt.Printf("largest lyapunov exponent: %+.4f\n", lambda)
	switch {
	case lambda > 0.005:
		fmt.Println("nearby trajectories diverge (chaotic)")
	case lambda < -0.005:
		fmt.Println("nearby trajectories converge (stable)")
	default:
		fmt.Println("near zero (periodic or marginal)")
	}
	return nil
}

func runSpectrum(cmd *cobra.Command, args []string) error {
	cfg, err := loadSystem(cmd, args)
	if err != nil {
		return err
	}

	eng := newEngine(cfg)
	res, err := eng.Run(context.Background(), duration)
	if err != nil {
		if res == nil || res.Steps() == 0 {
			return err
		}
		fmt.Printf("stopped early: %v\n", err)
	}
	if len(res.Columns) == 0 {
		return fmt.Errorf("system has no quantities")
	}

	col := varName
	if col == "" {
		col = res.Columns[0]
	}
	series := res.Column(col)
	if series == nil {
		return fmt.Errorf("unknown quantity %q (have: %s)", col, strings.Join(res.Columns, ", "))
	}

	sp := analysis.PowerSpectrum(series, cfg.Dt)
	if len(sp.Freqs) == 0 {
		return fmt.Errorf("series too short for a spectrum")
	}

	// The interesting peaks sit in the low bins; the upper three
	// quarters are usually flat.
	plotData := sp.Amps
	if len(plotData) > 4 {
		plotData = plotData[:len(plotData)/4]
	}
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("amplitude spectrum of %s", col)),
	)
	fmt.Println(graph)
	fmt.Println()

	freq, amp := sp.Dominant()
	fmt.Printf("dominant frequency: %.4g hz (amplitude %.4g)\n", freq, amp)
	if freq > 0 {
		fmt.Printf("period: %.6g s (use as a time-mode section period)\n", 1/freq)
	}
	return nil
}

func runBifurcation(cmd *cobra.Command, args []string) error {
	cfg, err := loadSystem(cmd, args)
	if err != nil {
		return err
	}
	if sweepParam == "" {
		return fmt.Errorf("--param names the order-0 variable to sweep")
	}

	particles := cfg.GetParticles()

	opts := analysis.DefaultSweepOptions()
	opts.Min = sweepMin
	opts.Max = sweepMax
	opts.Steps = sweepSteps
	opts.Dt = cfg.Dt
	opts.Transient = sweepTransient
	opts.Record = sweepRecord
	opts.Watch = sweepWatch
	if opts.Watch == "" {
		names := system.Build(particles).AllNames()
		if len(names) == 0 {
			return fmt.Errorf("system has no quantities to watch")
		}
		opts.Watch = names[0]
	}

	fmt.Printf("sweeping %s over %g..%g (%d values, watching %s)...\n",
		sweepParam, opts.Min, opts.Max, opts.Steps, opts.Watch)

	points, err := analysis.Sweep(particles, sweepParam, opts)
	if err != nil {
		return err
	}

	p := viz.NewPlot(70, 22)
	total := 0
	for _, bp := range points {
		for _, v := range bp.Values {
			p.Add(bp.Param, v)
		}
		total += len(bp.Values)
	}
	if total == 0 {
		fmt.Println("no attractor values recorded")
		return nil
	}
	fmt.Printf("%d attractor values\n\n", total)
	fmt.Println(p.Render())
	return nil
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, err := loadSystem(cmd, args)
	if err != nil {
		return err
	}

	if duration < cfg.Dt {
		return fmt.Errorf("time %.4g is shorter than one step (dt=%g)", duration, cfg.Dt)
	}

	probe := system.Build(cfg.GetParticles())
	names := probe.AllNames()
	if len(names) == 0 {
		return fmt.Errorf("system has no quantities")
	}
	lead := names[0]

	steppers := []struct {
		name string
		st   engine.Stepper
	}{
		{"rk4", engine.NewRK4()},
		{"euler", engine.NewEuler()},
	}

	fmt.Printf("comparing steppers on %s (dt=%g, time=%.4gs)\n\n", systemName(cfg), cfg.Dt, duration)
	fmt.Printf("%-8s  %8s  %16s  %12s\n", "stepper", "steps", "final "+lead, "elapsed")
	fmt.Println(strings.Repeat("-", 50))

	finals := make([][]float64, 0, len(steppers))
	for _, s := range steppers {
		eng := engine.New(cfg.GetParticles(), engine.Config{
			Dt:      cfg.Dt,
			History: cfg.History,
			Stepper: s.st,
		})
		res, err := eng.Run(context.Background(), duration)
		if err != nil && res.Steps() == 0 {
			fmt.Printf("%-8s  error: %v\n", s.name, err)
			finals = append(finals, nil)
			continue
		}
		note := ""
		if err != nil {
			note = "  (stopped early)"
		}
		fmt.Printf("%-8s  %8d  %16.6f  %12v%s\n",
			s.name, res.Steps(), res.Stats[lead].Final, res.Elapsed.Round(time.Microsecond), note)
		finals = append(finals, res.Rows[len(res.Rows)-1])
	}

	if len(finals) == 2 && finals[0] != nil && finals[1] != nil {
		maxDiff := 0.0
		for i := range finals[0] {
			if i >= len(finals[1]) {
				break
			}
			if d := math.Abs(finals[0][i] - finals[1][i]); d > maxDiff {
				maxDiff = d
			}
		}
		fmt.Printf("\nmax final-state difference: %.3e\n", maxDiff)
	}
	return nil
}

// column extracts one named series from loaded rows.
func column(cols []string, rows [][]float64, name string) []float64 {
	idx := -1
	for i, c := range cols {
		if c == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	out := make([]float64, len(rows))
	for i, row := range rows {
		if idx < len(row) {
			out[i] = row[idx]
		}
	}
	return out
}
