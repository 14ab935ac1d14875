package main

import (
	"flag"

	"github.com/alejandrodnm/polyreward/config"
	"github.com/alejandrodnm/polyreward/internal/adapters/notify"
)

// cliFlags son los flags de la línea de comandos.
// set registra qué flags se pasaron de verdad: un -capital 0 explícito
// tiene que llegar a Validate y no confundirse con "no pasado".
type cliFlags struct {
	configPath string
	event      string
	market     int
	capital    float64
	once       bool
	verbose    bool
	logFormat  string
	output     string
	serve      string

	set map[string]bool
}

func parseFlags(args []string) (cliFlags, error) {
	var f cliFlags
	fs := flag.NewFlagSet("polyreward", flag.ContinueOnError)
	fs.StringVar(&f.configPath, "config", "config/config.yaml", "path to config file (empty = env only)")
	fs.StringVar(&f.event, "event", "", "event slug (overrides config)")
	fs.IntVar(&f.market, "market", 0, "market index inside the event (overrides config)")
	fs.Float64Var(&f.capital, "capital", 0, "capital in USD (overrides config)")
	fs.BoolVar(&f.once, "once", false, "run one estimation and exit, even if watch interval is set")
	fs.BoolVar(&f.verbose, "verbose", false, "set log level to debug")
	fs.StringVar(&f.logFormat, "format", "", "log format: text|json (overrides config)")
	fs.StringVar(&f.output, "output", notify.FormatText, "report output: text|json")
	fs.StringVar(&f.serve, "serve", "", "HTTP listen address for /api/v1/report and /metrics (overrides config)")
	if err := fs.Parse(args); err != nil {
		return cliFlags{}, err
	}

	f.set = make(map[string]bool)
	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })
	return f, nil
}

// apply sobreescribe cfg con los flags pasados explícitamente.
func (f cliFlags) apply(cfg *config.Config) {
	if f.set["event"] {
		cfg.Event.Slug = f.event
	}
	if f.set["market"] {
		cfg.Event.MarketIndex = f.market
	}
	if f.set["capital"] {
		cfg.Estimator.CapitalUSD = f.capital
	}
	if f.verbose {
		cfg.Log.Level = "debug"
	}
	if f.logFormat != "" {
		cfg.Log.Format = f.logFormat
	}
	if f.set["serve"] {
		cfg.Server.Addr = f.serve
	}
	if f.once {
		cfg.Watch.IntervalSeconds = 0
	}
}
