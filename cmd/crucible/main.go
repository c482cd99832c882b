package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/beautiful-code/crucible/internal/analysis"
	"github.com/beautiful-code/crucible/internal/config"
	"github.com/beautiful-code/crucible/internal/crucible"
	"github.com/beautiful-code/crucible/internal/library"
	"github.com/beautiful-code/crucible/internal/monitor"
	"github.com/beautiful-code/crucible/internal/radio"
	"github.com/beautiful-code/crucible/internal/stage"
	"github.com/beautiful-code/crucible/internal/storage"
)

var (
	dataDir    string
	configFile string
	preset     string
	prototype  string
	frameRate  float64
	duration   float64
)

// main is the entry point for the crucible CLI; it registers commands and
// flags and executes the root command, exiting with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:   "crucible",
		Short: "tensegrity structure design and physics lab",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".crucible", "run archive directory")

	bakeCmd := &cobra.Command{
		Use:   "bake [prototype]",
		Short: "bake a prototype into a brick and archive the run",
		Args:  cobra.ExactArgs(1),
		RunE:  bakePrototype,
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "drive a scenario from Building through Viewing and archive it",
		RunE:  runScenario,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "scenario config file path (yaml)")
	runCmd.Flags().StringVar(&prototype, "prototype", "single-right", "prototype name, used to look up --preset")
	runCmd.Flags().StringVar(&preset, "preset", "", "preset name, e.g. default/slack/taut/frozen-landing")
	runCmd.Flags().Float64Var(&frameRate, "fps", config.DefaultFPS, "host frame rate driving sub_steps")
	runCmd.Flags().Float64Var(&duration, "max-seconds", 30.0, "simulated-time budget before giving up")

	monitorCmd := &cobra.Command{
		Use:   "monitor",
		Short: "drive a scenario with a live terminal view",
		RunE:  monitorScenario,
	}
	monitorCmd.Flags().StringVar(&configFile, "config", "", "scenario config file path (yaml)")
	monitorCmd.Flags().StringVar(&prototype, "prototype", "single-right", "prototype name, used to look up --preset")
	monitorCmd.Flags().StringVar(&preset, "preset", "", "preset name")
	monitorCmd.Flags().Float64Var(&frameRate, "fps", config.DefaultFPS, "host frame rate driving sub_steps")

	presetsCmd := &cobra.Command{
		Use:   "presets [prototype]",
		Short: "list presets for a prototype",
		Args:  cobra.ExactArgs(1),
		RunE:  listPresets,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list archived runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot an archived run's telemetry",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "print an archived run's baked brick as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "print an archived run's telemetry history as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	rootCmd.AddCommand(bakeCmd, runCmd, monitorCmd, presetsCmd, listCmd, plotCmd, exportJSONCmd, exportCSVCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func lookupPrototype(name string) (library.Prototype, error) {
	switch name {
	case "single-right":
		return library.SingleRight(), nil
	default:
		return library.Prototype{}, fmt.Errorf("unknown prototype %q", name)
	}
}

func bakePrototype(cmd *cobra.Command, args []string) error {
	protoName := args[0]
	proto, err := lookupPrototype(protoName)
	if err != nil {
		return err
	}

	oven := stage.NewOven(proto, radio.NullRadio{})
	hist := analysis.NewHistory(1024)

	const nominalSubSteps = 500
	for step := 0; ; step++ {
		outcome := oven.Iterate(nominalSubSteps)
		hist.Record(analysis.Sample{
			Age:       oven.Fabric().Age,
			SimTime:   float64(oven.Fabric().Age) * 50e-6,
			MaxSpeed:  oven.Fabric().MaxJointSpeed(),
			MaxStrain: oven.Fabric().MaxStrain(),
			Altitude:  oven.Fabric().Altitude(),
		})
		if outcome.Kind == stage.Failed {
			return fmt.Errorf("bake failed: %s", outcome.Error())
		}
		if outcome.Kind == stage.Done {
			break
		}
	}

	brick := oven.Bake()
	fmt.Printf("baked %s as %s after %s of simulated time, %d samples recorded\n",
		protoName, brick.ID, humanize.SIWithDigits(float64(oven.Fabric().Age)*50e-6, 3, "s"), len(hist.Samples))

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(protoName, brick, hist)
	if err != nil {
		return err
	}
	fmt.Printf("archived run %s\n", runID)
	return nil
}

func loadScenario() (*config.Config, error) {
	if configFile != "" {
		return config.Load(configFile)
	}
	if preset != "" {
		cfg := config.GetPreset(prototype, preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q", preset)
		}
		return cfg, nil
	}
	return config.DefaultConfig(), nil
}

func buildCrucible(cfg *config.Config) (*crucible.Crucible, error) {
	proto, err := lookupPrototype(cfg.Prototype)
	if err != nil {
		return nil, err
	}

	oven := stage.NewOven(proto, radio.NullRadio{})
	for {
		outcome := oven.Iterate(500)
		if outcome.Kind == stage.Failed {
			return nil, fmt.Errorf("bake failed before scenario start: %s", outcome.Error())
		}
		if outcome.Kind == stage.Done {
			break
		}
	}

	lib := library.NewMapLibrary()
	lib.Store(oven.Bake())

	cr := crucible.New(oven.Fabric(), lib, radio.NullRadio{}, crucible.Config{
		TargetAltitude:      cfg.TargetAltitude,
		PretenstTarget:      cfg.PretenstTarget,
		PretenseDuration:    cfg.PretenseDuration,
		PretenseRampSteps:   cfg.PretenseRampSteps,
		ConvergeInitialDrag: cfg.ConvergeInitialDrag,
		ConvergeDuration:    cfg.ConvergeDuration,
		Surface:             cfg.SurfaceMode(),
		FallDuration:        cfg.FallDuration,
		SettleInitialDrag:   cfg.SettleInitialDrag,
		SettleDuration:      cfg.SettleDuration,
	})
	return cr, nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario()
	if err != nil {
		return err
	}
	cr, err := buildCrucible(cfg)
	if err != nil {
		return err
	}

	hist := analysis.NewHistory(4096)
	fps := frameRate
	if fps <= 0 {
		fps = config.DefaultFPS
	}
	maxFrames := int(duration * fps)

	for frame := 0; frame < maxFrames && cr.CurrentStage() != crucible.Viewing; frame++ {
		subSteps := uint32(0)
		if scale := cr.TargetTimeScale(); scale > 0 {
			subSteps = uint32(scale*20000/float32(fps) + 0.5)
		}
		if subSteps > 0 {
			cr.Iterate(subSteps)
		}
		fab := cr.Fabric()
		hist.Record(analysis.Sample{
			Age: fab.Age, SimTime: float64(fab.Age) * 50e-6,
			MaxSpeed: fab.MaxJointSpeed(), MaxStrain: fab.MaxStrain(),
			Altitude: fab.Altitude(),
		})
	}

	fmt.Printf("ended in stage %s after %d recorded frames\n", cr.CurrentStage(), len(hist.Samples))

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(cfg.Prototype, nil, hist)
	if err != nil {
		return err
	}
	fmt.Printf("archived run %s\n", runID)
	return nil
}

func monitorScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario()
	if err != nil {
		return err
	}
	cr, err := buildCrucible(cfg)
	if err != nil {
		return err
	}

	fps := frameRate
	if fps <= 0 {
		fps = cfg.FPS
	}
	p := tea.NewProgram(monitor.NewModel(cr, fps))
	_, err = p.Run()
	return err
}

func listPresets(cmd *cobra.Command, args []string) error {
	names := config.ListPresets(args[0])
	if len(names) == 0 {
		fmt.Println("no presets found")
		return nil
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPROTOTYPE\tWHEN\tBRICK\tSAMPLES\tFINAL STRAIN")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.4f\n",
			run.ID, run.Prototype, humanize.Time(run.Timestamp), run.BrickID, run.SampleCount, run.FinalStrain)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	hist, err := st.LoadHistory(runID)
	if err != nil {
		return err
	}
	if len(hist.Samples) == 0 {
		return fmt.Errorf("no telemetry to plot")
	}

	fmt.Printf("run: %s\nsamples: %d\n\n", runID, len(hist.Samples))
	fmt.Println(asciigraph.Plot(hist.MaxSpeeds(), asciigraph.Height(8), asciigraph.Width(60), asciigraph.Caption("max joint speed")))
	fmt.Println()
	fmt.Println(asciigraph.Plot(hist.MaxStrains(), asciigraph.Height(8), asciigraph.Width(60), asciigraph.Caption("max strain")))

	if spectrum := analysis.StrainSpectrum(hist.MaxStrains()); len(spectrum) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(spectrum, asciigraph.Height(8), asciigraph.Width(60), asciigraph.Caption("strain power spectrum")))
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	brick, err := st.LoadBrick(runID)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(brick)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	hist, err := st.LoadHistory(runID)
	if err != nil {
		return err
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()
	if err := w.Write([]string{"age", "sim_time", "max_speed", "max_strain", "altitude"}); err != nil {
		return err
	}
	for _, s := range hist.Samples {
		row := []string{
			strconv.FormatUint(s.Age, 10),
			strconv.FormatFloat(s.SimTime, 'f', 6, 64),
			strconv.FormatFloat(float64(s.MaxSpeed), 'f', 8, 32),
			strconv.FormatFloat(float64(s.MaxStrain), 'f', 8, 32),
			strconv.FormatFloat(float64(s.Altitude), 'f', 6, 32),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
