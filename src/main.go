package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/apex/log/handlers/discard"
	"github.com/apex/log/handlers/text"
	"github.com/integrii/flaggy"

	"toruslife/src/config"
	"toruslife/src/universe"
	"toruslife/src/view"
)

type EnvOptions struct {
	configFile  string
	interactive bool
	randomData  bool
}

func main() {
	eo, c := initOptions(os.Args[1:])

	logOut, l := newLogger(c)
	if logOut != nil {
		defer logOut.Close()
	}

	var stateCh chan universe.Status
	if c.View == config.ViewHeadless {
		stateCh = make(chan universe.Status, 10) //the buffered channel to getting the universe status
	}

	u, err := universe.NewBaseUniverse(c.Options(l), stateCh)
	if err != nil {
		l.WithError(err).Fatal("universe init failed")
	}
	defer u.Close()

	if eo.randomData {
		u.Generate(c.Probability)
	} else if err := u.SettleTemplate(c.Template); err != nil {
		l.WithError(err).Fatal("settle failed")
	}

	switch c.View {
	case config.ViewTerminal:
		runViewer(u, view.NewViewTerminal(c.Probability), l)
	case config.ViewWindow:
		w, err := view.NewWindow(c.Scale, c.Probability)
		if err != nil {
			l.WithError(err).Fatal("window init failed")
		}
		runViewer(u, w, l)
	default:
		runHeadless(u, stateCh, l)
	}
}

//runViewer blocks until the interactive viewer is closed
func runViewer(u universe.Universe, v universe.Viewer, l log.Interface) {
	u.RegisterViewer(v)
	if err := v.Start(); err != nil {
		l.WithError(err).Error("viewer stopped")
	}
}

//runHeadless plays the simulation until it is finished or interrupted
func runHeadless(u universe.Universe, stateCh chan universe.Status, l log.Interface) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	out := view.NewConsoleOut(l)
	u.RegisterViewer(out)
	_ = out.Start()

	u.Start()
	for {
		select {
		case st := <-stateCh:
			if st.RunningMode == universe.RunningStateFinished {
				return
			}
		case <-ctx.Done():
			st := u.Status()
			l.WithField("generation", st.Generation).Warn("interrupted")
			return
		}
	}
}

//newLogger returns the logger for the view, the terminal view owns stdout so the log goes to the file
func newLogger(c config.Config) (io.Closer, *log.Logger) {
	level, _ := log.ParseLevel(c.LogLevel)
	l := &log.Logger{Level: level}

	var f *os.File
	if c.LogFile != "" {
		var err error
		if f, err = os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err != nil {
			l.Handler = cli.New(os.Stderr)
			l.WithError(err).Fatal("log file open failed")
		}
	}

	switch {
	case f != nil:
		l.Handler = text.New(f)
	case c.View == config.ViewTerminal:
		l.Handler = discard.New()
	default:
		l.Handler = cli.New(os.Stderr)
	}
	log.Log = l
	if f == nil {
		return nil, l
	}
	return f, l
}

func initOptions(args []string) (eo *EnvOptions, c config.Config) {
	eo = &EnvOptions{configFile: findConfigFile(args)}

	c = config.Default()
	if eo.configFile != "" {
		var err error
		if c, err = config.Load(eo.configFile); err != nil {
			flaggy.ShowHelpAndExit(err.Error())
		}
	}

	flaggy.SetName("toruslife")
	flaggy.SetDescription("\"The Life\" game simulation on the toroidal field")
	flaggy.DefaultParser.ShowHelpOnUnexpected = true

	//the values loaded from the config file are the flag defaults, the flags override them
	flaggy.String(&eo.configFile, "c", "config", "Path to the YAML configuration file")
	flaggy.Int(&c.Width, "x", "width", "Width of a simulation field")
	flaggy.Int(&c.Height, "y", "height", "Height of a simulation field")
	flaggy.Duration(&c.Interval, "i", "interval", "Simulation speed (interval between the steps) in format the number with 'ms' suffix, for example 150ms")
	flaggy.Int(&c.MaxSteps, "s", "maxSteps", "Limit the simulation to maxSteps")
	flaggy.Int(&c.Birth, "b", "birth", "Neighbor count making a dead cell alive")
	flaggy.Int(&c.SurviveMin, "", "surviveMin", "Minimal neighbor count keeping a cell alive")
	flaggy.Int(&c.SurviveMax, "", "surviveMax", "Maximal neighbor count keeping a cell alive")
	flaggy.Float64(&c.Probability, "p", "probability", "Alive cell probability for the random data")
	flaggy.Int64(&c.Seed, "", "seed", "Random seed, 0 means time based")
	flaggy.Bool(&c.Dense, "d", "dense", "Keep the population as a dense grid")
	flaggy.Bool(&c.StopWhenStable, "", "stopWhenStable", "Finish when a generation changes nothing")
	flaggy.String(&c.Engine, "e", "engine", "Engine to use ["+strings.Join(universe.EngineNames(), "|")+"]")
	flaggy.String(&c.Host, "o", "host", "Host to calculate the generations on ["+strings.Join(universe.HostNames(), "|")+"]")
	flaggy.String(&c.Template, "t", "template", "Template to settle with")
	flaggy.String(&c.View, "v", "view", "View to use ["+strings.Join([]string{config.ViewHeadless, config.ViewTerminal, config.ViewWindow}, "|")+"]")
	flaggy.Int(&c.Scale, "", "scale", "Cell size in pixels for the window view")
	flaggy.String(&c.LogFile, "l", "logFile", "Write the log to the file")
	flaggy.String(&c.LogLevel, "", "logLevel", "Log level [debug|info|warn|error]")
	flaggy.Bool(&eo.interactive, "n", "interactive", "Start interactive mode, the same as --view terminal")
	flaggy.Bool(&eo.randomData, "r", "random", "Settle with random data")

	flaggy.ParseArgs(args)

	if eo.interactive {
		c.View = config.ViewTerminal
	}
	if err := c.Validate(); err != nil {
		flaggy.ShowHelpAndExit(err.Error())
	}
	if c.Interval == 0 && c.View != config.ViewHeadless {
		//the interactive views need time to draw the frames
		c.Interval = time.Millisecond
	}

	return
}

//findConfigFile returns the config file path from the args, it is needed before the flags are defined
func findConfigFile(args []string) string {
	for i, a := range args {
		switch {
		case a == "-c" || a == "--config":
			if i+1 < len(args) {
				return args[i+1]
			}
		case strings.HasPrefix(a, "--config="):
			return strings.TrimPrefix(a, "--config=")
		case strings.HasPrefix(a, "-c="):
			return strings.TrimPrefix(a, "-c=")
		}
	}
	return ""
}
