package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/apex/log"
	"gopkg.in/yaml.v3"

	"toruslife/src/universe"
)

//ErrInvalid is returned for the configuration values the universe can't run with
var ErrInvalid = errors.New("invalid configuration")

//MinInterval is the shortest non zero interval, 0 means back-to-back generations
const MinInterval = time.Millisecond

//View names
const (
	ViewHeadless = "headless"
	ViewTerminal = "terminal"
	ViewWindow   = "window"
)

//Config is the configuration file content, the CLI flags override it
type Config struct {
	Width          int           `yaml:"width"`
	Height         int           `yaml:"height"`
	Interval       time.Duration `yaml:"interval"` //with the unit, "150ms" or "0s"
	MaxSteps       int           `yaml:"max_steps"`
	Birth          int           `yaml:"birth"`
	SurviveMin     int           `yaml:"survive_min"`
	SurviveMax     int           `yaml:"survive_max"`
	Probability    float64       `yaml:"probability"`
	Seed           int64         `yaml:"seed"`
	Dense          bool          `yaml:"dense"`
	StopWhenStable bool          `yaml:"stop_when_stable"`
	Engine         string        `yaml:"engine"`
	Host           string        `yaml:"host"`
	View           string        `yaml:"view"`
	Template       string        `yaml:"template"`
	Scale          int           `yaml:"scale"`
	LogFile        string        `yaml:"log_file"`
	LogLevel       string        `yaml:"log_level"`
}

//Default returns the configuration with the universe defaults
func Default() Config {
	o := universe.DefaultUniverseOptions
	return Config{
		Width:       o.Width,
		Height:      o.Height,
		Interval:    o.Interval,
		MaxSteps:    o.MaxSteps,
		Birth:       o.Rules.Birth,
		SurviveMin:  o.Rules.SurviveMin,
		SurviveMax:  o.Rules.SurviveMax,
		Probability: o.AliveProbability,
		Engine:      o.Engine,
		Host:        o.Host,
		View:        ViewHeadless,
		Template:    "sample",
		Scale:       8,
		LogLevel:    "info",
	}
}

//Load reads the YAML file over the defaults, the keys missing in the file keep the default values
func Load(path string) (Config, error) {
	c := Default()
	body, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("read config: %w", err)
	}
	if err := Parse(body, &c); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

//Parse unmarshals the YAML document into c
func Parse(body []byte, c *Config) error {
	if err := yaml.Unmarshal(body, c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

//Rules returns the rules set by the configuration
func (c Config) Rules() universe.Rules {
	return universe.Rules{Birth: c.Birth, SurviveMin: c.SurviveMin, SurviveMax: c.SurviveMax}
}

//Validate checks the values before the universe is created
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalid, c.Width, c.Height)
	}
	if c.Probability < 0 || c.Probability > 1 {
		return fmt.Errorf("%w: probability %v is outside [0,1]", ErrInvalid, c.Probability)
	}
	if c.Interval < 0 {
		return fmt.Errorf("%w: negative interval %v", ErrInvalid, c.Interval)
	}
	if c.Interval > 0 && c.Interval < MinInterval {
		return fmt.Errorf("%w: interval %v is below %v, set the unit like 150ms", ErrInvalid, c.Interval, MinInterval)
	}
	if c.MaxSteps < 0 {
		return fmt.Errorf("%w: negative max_steps %d", ErrInvalid, c.MaxSteps)
	}
	if err := c.Rules().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, ok := universe.Engines[c.Engine]; !ok {
		return fmt.Errorf("%w: unknown engine %q", ErrInvalid, c.Engine)
	}
	if _, ok := universe.Hosts[c.Host]; !ok {
		return fmt.Errorf("%w: unknown host %q", ErrInvalid, c.Host)
	}
	switch c.View {
	case ViewHeadless, ViewTerminal, ViewWindow:
	default:
		return fmt.Errorf("%w: unknown view %q", ErrInvalid, c.View)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

//Options converts the configuration to the universe options
func (c Config) Options(l log.Interface) *universe.Options {
	return &universe.Options{
		Width:            c.Width,
		Height:           c.Height,
		Interval:         c.Interval,
		MaxSteps:         c.MaxSteps,
		Rules:            c.Rules(),
		AliveProbability: c.Probability,
		Seed:             c.Seed,
		Dense:            c.Dense,
		StopWhenStable:   c.StopWhenStable,
		Engine:           c.Engine,
		Host:             c.Host,
		Logger:           l,
	}
}
