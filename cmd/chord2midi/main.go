// Package main is the entry point for chord2midi CLI
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/james-see/chord2midi/pkg/api"
	"github.com/james-see/chord2midi/pkg/converter"
	"github.com/james-see/chord2midi/pkg/progression"
	"github.com/james-see/chord2midi/pkg/timeline"
	"github.com/james-see/chord2midi/pkg/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	outputFile      string
	demoOutput      string
	trace           bool
	serverPort      int
	octave          int
	startTick       int
	ticksPerMeasure int
	channel         int
	velocity        int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		var oe *timeline.OrderingError
		if errors.As(err, &oe) {
			fmt.Fprintf(os.Stderr, "fatal: timeline ordering violation in %s: last_abs_time=%d > abs_time=%d (chord %d, strum offset %d)\n",
				oe.Label, oe.Last, oe.Target, oe.Chord, oe.Offset)
			fmt.Fprintln(os.Stderr, "hint: ticks_per_measure must cover the strum pattern plus the note length")
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "chord2midi",
	Short: "Render strummed chord progressions to MIDI files",
	Long: `chord2midi turns chord progressions into Standard MIDI Files.

Every chord is strummed at fixed offsets within its measure and written
as ordered Note On / Note Off events on a single track.

Examples:
  chord2midi demo -o output.mid
  chord2midi init song.yml
  chord2midi render song.yml -o song.mid
  chord2midi events song.yml
  chord2midi inspect song.mid
  chord2midi chord Am7
  chord2midi tui
  chord2midi serve --port 8080`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
}

var renderCmd = &cobra.Command{
	Use:   "render <progression.yml|json>",
	Short: "Render a progression document to MIDI",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Render the C - G - F demo progression",
	Args:  cobra.NoArgs,
	RunE:  runDemo,
}

var eventsCmd = &cobra.Command{
	Use:   "events <progression.yml|json>",
	Short: "Print the note events of a progression",
	Args:  cobra.ExactArgs(1),
	RunE:  runEvents,
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <input.mid>",
	Short: "Print the note events of a MIDI file",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

var chordCmd = &cobra.Command{
	Use:   "chord <symbol>",
	Short: "Show how a chord symbol is parsed",
	Args:  cobra.ExactArgs(1),
	RunE:  runChord,
}

var initCmd = &cobra.Command{
	Use:   "init <progression.yml|json>",
	Short: "Write the demo progression as a document to edit",
	Args:  cobra.ExactArgs(1),
	RunE:  runInit,
}

var convertCmd = &cobra.Command{
	Use:   "convert <input>",
	Short: "Auto-detect and convert between formats",
	Long:  `Converts a progression document to MIDI or to the other document format, based on file extensions.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runConvert,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	RunE:  runTUI,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  runServe,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVar(&trace, "trace", false, "Print generation diagnostics to stderr")

	for _, cmd := range []*cobra.Command{renderCmd, eventsCmd, demoCmd} {
		cmd.Flags().IntVar(&startTick, "start-tick", 0, "Tick of the first chord")
		cmd.Flags().IntVar(&ticksPerMeasure, "ticks-per-measure", progression.DefaultTicksPerMeasure, "Ticks between chords")
		cmd.Flags().IntVar(&channel, "channel", 0, "MIDI channel (0-15)")
		cmd.Flags().IntVar(&velocity, "velocity", progression.DefaultVelocity, "Note On velocity (0-127)")
	}

	renderCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output .mid file path")
	demoCmd.Flags().StringVarP(&demoOutput, "output", "o", "output.mid", "Output .mid file path")

	convertCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file path (required)")
	_ = convertCmd.MarkFlagRequired("output")

	chordCmd.Flags().IntVar(&octave, "octave", progression.DefaultOctave, "Octave of the chord root (C4 = 60)")

	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 8080, "Server port")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(chordCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)
}

func newConverter() *converter.Converter {
	if trace {
		return converter.New(timeline.WithTrace(os.Stderr))
	}
	return converter.New()
}

func getOutputPath(input, defaultExt string) string {
	if outputFile != "" {
		return outputFile
	}
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + defaultExt
}

func loadProgression(path string) (*progression.Progression, error) {
	p, err := progression.Load(os.DirFS(filepath.Dir(path)), filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return p, nil
}

// applyOverrides copies explicitly set timing flags onto p
func applyOverrides(cmd *cobra.Command, p *progression.Progression) {
	flags := cmd.Flags()
	if flags.Changed("start-tick") {
		p.StartTick = startTick
	}
	if flags.Changed("ticks-per-measure") {
		p.TicksPerMeasure = ticksPerMeasure
	}
	if flags.Changed("channel") {
		p.Channel = channel
	}
	if flags.Changed("velocity") {
		v := velocity
		p.Velocity = &v
	}
}

func runRender(cmd *cobra.Command, args []string) error {
	input := args[0]
	output := getOutputPath(input, ".mid")

	p, err := loadProgression(input)
	if err != nil {
		return err
	}
	applyOverrides(cmd, p)

	events, err := newConverter().RenderFile(p, output)
	if err != nil {
		return err
	}

	fmt.Printf("Rendered %s -> %s (%d events)\n", input, output, len(events))
	return nil
}

func runDemo(cmd *cobra.Command, args []string) error {
	p := progression.Demo()
	applyOverrides(cmd, p)

	if _, err := newConverter().RenderFile(p, demoOutput); err != nil {
		return err
	}

	fmt.Printf("%s created\n", demoOutput)
	return nil
}

func runEvents(cmd *cobra.Command, args []string) error {
	p, err := loadProgression(args[0])
	if err != nil {
		return err
	}
	applyOverrides(cmd, p)

	events, score, err := newConverter().Events(p)
	if err != nil {
		return err
	}
	printEvents(score.StartTick, events)
	return nil
}

func runInspect(cmd *cobra.Command, args []string) error {
	events, resolution, err := converter.NewMIDIConverter().DecodeFile(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s: %d ticks per quarter, %d note events\n", args[0], resolution, len(events))
	printEvents(0, events)
	return nil
}

func printEvents(start uint32, events []timeline.Event) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tTICK\tDELTA\tKIND\tCH\tNOTE\tVEL")
	ticks := timeline.AbsoluteTimes(start, events)
	for i, ev := range events {
		fmt.Fprintf(w, "%d\t%d\t%d\t%s\t%d\t%d\t%d\n", i, ticks[i], ev.Delta, ev.Kind, ev.Channel, ev.Note, ev.Velocity)
	}
	_ = w.Flush()
}

func runChord(cmd *cobra.Command, args []string) error {
	chord, err := progression.ParseSymbol(args[0], octave)
	if err != nil {
		return err
	}
	note, err := chord.Note()
	if err != nil {
		return err
	}

	fmt.Printf("Symbol:    %s\n", args[0])
	fmt.Printf("Root:      %d\n", chord.Root())
	fmt.Printf("Intervals: %v\n", chord.Intervals())
	fmt.Printf("Strummed:  %d\n", note)
	return nil
}

func runInit(cmd *cobra.Command, args []string) error {
	output := args[0]
	format := progression.FormatOf(output)
	if format == progression.FormatUnknown {
		return fmt.Errorf("cannot determine document format from %s", output)
	}

	f, err := os.OpenFile(output, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}
	if err := progression.Encode(f, progression.Demo(), format); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Printf("Wrote %s\n", output)
	return nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	input := args[0]

	fmt.Printf("Converting %s -> %s\n", input, outputFile)
	if err := newConverter().ConvertFile(input, outputFile); err != nil {
		return err
	}
	fmt.Println("Conversion complete!")
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	return tui.Run()
}

func runServe(cmd *cobra.Command, args []string) error {
	fmt.Printf("Starting API server on port %d...\n", serverPort)
	return api.StartServer(serverPort)
}
