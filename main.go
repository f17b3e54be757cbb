package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

const appVersion = "0.2.0"

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		if !errors.Is(err, errAlert) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	cfg, warnings := LoadConfig()

	var (
		wakeStr   string
		sleepStr  string
		coffeeStr string
		modelPath string
		clockStr  string
		port      int
		tui       bool
	)

	cmd := &cobra.Command{
		Use:           "betterrest",
		Short:         "Recommended bedtime from wake-up time, sleep goal and coffee intake (CLI, terminal or web)",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if ok, _ := cmd.Flags().GetBool("version"); ok {
				fmt.Fprintf(stdout, "betterrest v%s\n", appVersion)
				return nil
			}

			log := newLogger(stderr, cfg.LogLevel)
			for _, w := range warnings {
				log.Warn(w)
			}

			if cmd.Flags().Changed("model") {
				cfg.ModelPath = modelPath
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if cmd.Flags().Changed("clock") {
				clk, err := parseClock(clockStr)
				if err != nil {
					return err
				}
				cfg.Clock = clk
			}

			model, name, err := openModel(cfg.ModelPath)
			if err != nil {
				// Keep going: the screen reports the failure through its alert.
				log.Error("load model", "path", cfg.ModelPath, "err", err)
			} else {
				log.Debug("model ready", "model", name)
			}

			if cfg.Port > 0 {
				printListenAddrs(stdout, cfg.Port)
				return serveWeb(cfg.Port, newWebApp(model, name, cfg, log), stderr)
			}

			in, err := ParseInputs(wakeStr, sleepStr, coffeeStr, cfg.Location)
			if err != nil {
				return err
			}
			screen := NewScreen(model, cfg.Location, cfg.Clock, log)
			screen.Inputs = in

			if tui {
				return runTUI(screen)
			}
			return printCLI(stdout, screen.Render())
		},
	}

	cmd.Version = appVersion
	cmd.SetVersionTemplate("betterrest v{{.Version}}\n")
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.Flags().BoolP("version", "v", false, "Show version and exit")

	cmd.Flags().StringVar(&wakeStr, "wake", webDefaultWake, "Wake-up time HH:MM")
	cmd.Flags().StringVar(&sleepStr, "sleep", webDefaultSleep, "Desired sleep in hours (4-12, steps of 0.25)")
	cmd.Flags().StringVar(&coffeeStr, "coffee", webDefaultCoffee, "Cups of coffee per day (1-10)")
	cmd.Flags().StringVar(&modelPath, "model", "", "Linear model artifact (JSON); empty uses the built-in model")
	cmd.Flags().StringVar(&clockStr, "clock", cfg.Clock.String(), "Time style: 12 or 24")
	cmd.Flags().IntVar(&port, "port", cfg.Port, "Run web UI on this port (e.g. 8585)")
	cmd.Flags().BoolVar(&tui, "tui", false, "Run the interactive terminal screen")

	return cmd
}

// errAlert makes a shown alert exit non-zero without printing it twice.
var errAlert = errors.New("bedtime unavailable")

func printCLI(w io.Writer, v View) error {
	in := v.Inputs
	fmt.Fprintf(w, "Wake up:        %s\n", in.WakeLabel())
	fmt.Fprintf(w, "Desired sleep:  %s\n", in.SleepLabel())
	fmt.Fprintf(w, "Coffee:         %s\n\n", in.CoffeeLabel())

	if v.ShowingError() {
		fmt.Fprintf(w, "%s: %s\n", v.Alert.Title, v.Alert.Message)
		return errAlert
	}
	fmt.Fprintf(w, "Your ideal bedtime is… %s\n", v.Bedtime)
	return nil
}
