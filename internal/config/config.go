package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

type Trend struct {
	// PreviousMonthFactor scales the current month to synthesize last
	// month's figures for the comparison view.
	PreviousMonthFactor float64 `json:"previous_month_factor"`
	// ConfidenceBand is the fractional half-width of the prediction
	// interval around the extrapolated month total.
	ConfidenceBand float64 `json:"confidence_band"`
	Accuracy       float64 `json:"accuracy"`
}

type Config struct {
	DBFile     string
	ConfigFile string
	LogLevel   zerolog.Level
	Port       int

	Currency   string `json:"currency"`
	RegionCode string `json:"region_code"`

	CostPerKWh     float64 `json:"cost_per_kwh"`
	CarbonKgPerKWh float64 `json:"carbon_kg_per_kwh"`
	KgCO2PerTree   float64 `json:"kg_co2_per_tree"`
	// Divisor turning kg CO2 into the "km driven by car" comparison text.
	CarComparisonDivisor float64 `json:"car_comparison_divisor"`

	MonthlyBudget      float64 `json:"monthly_budget"`
	MonthlyTargetUnits float64 `json:"monthly_target_units"`
	HistoryMonths      int     `json:"history_months"`

	Trend Trend `json:"trend"`

	EnableDatadog bool     `json:"enable_datadog"`
	DDAgentAddr   string   `json:"dd_agent_addr"`
	DDNamespace   string   `json:"dd_namespace"`
	DDTags        []string `json:"dd_tags"`

	NtfyTopic string `json:"ntfy_topic"`

	LogFile string `json:"log_file"`
}

func Load() Config {
	var cfg Config
	var logLevel string

	flag.StringVar(&cfg.DBFile, "db-file", "data/wattwise.db", "Path to sqlite database file")
	flag.StringVar(&cfg.ConfigFile, "config-file", "config.json", "Path to engine config file")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.IntVar(&cfg.Port, "port", 8080, "HTTP listen port")
	flag.Parse()

	cfg.LogLevel = parseLogLevel(logLevel)
	applyDefaults(&cfg)

	file, err := os.Open(cfg.ConfigFile)
	if err != nil {
		panic("Failed to load config file: " + err.Error())
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		panic("Failed to parse config file: " + err.Error())
	}

	cfg.validate()
	return cfg
}

func applyDefaults(cfg *Config) {
	cfg.Currency = "INR"
	cfg.RegionCode = "IN-MH"
	cfg.CostPerKWh = 8
	cfg.CarbonKgPerKWh = 0.92
	cfg.KgCO2PerTree = 21.77
	cfg.CarComparisonDivisor = 411
	cfg.MonthlyBudget = 2000
	cfg.MonthlyTargetUnits = 250
	cfg.HistoryMonths = 12
	cfg.Trend = Trend{
		PreviousMonthFactor: 1.125,
		ConfidenceBand:      0.089,
		Accuracy:            0.92,
	}
	cfg.DDNamespace = "wattwise."
}

func parseLogLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func (cfg *Config) validate() {
	var problems []string

	if cfg.CostPerKWh <= 0 {
		problems = append(problems, "cost_per_kwh must be positive")
	}
	if cfg.CarbonKgPerKWh <= 0 {
		problems = append(problems, "carbon_kg_per_kwh must be positive")
	}
	if cfg.KgCO2PerTree <= 0 {
		problems = append(problems, "kg_co2_per_tree must be positive")
	}
	if cfg.CarComparisonDivisor <= 0 {
		problems = append(problems, "car_comparison_divisor must be positive")
	}
	if cfg.MonthlyBudget < 0 {
		problems = append(problems, "monthly_budget must not be negative")
	}
	if cfg.MonthlyTargetUnits <= 0 {
		problems = append(problems, "monthly_target_units must be positive")
	}
	if cfg.HistoryMonths <= 0 {
		problems = append(problems, "history_months must be positive")
	}
	if cfg.Trend.PreviousMonthFactor <= 0 {
		problems = append(problems, "trend.previous_month_factor must be positive")
	}
	if cfg.Trend.ConfidenceBand < 0 || cfg.Trend.ConfidenceBand >= 1 {
		problems = append(problems, "trend.confidence_band must be in [0, 1)")
	}
	if cfg.Trend.Accuracy < 0 || cfg.Trend.Accuracy > 1 {
		problems = append(problems, "trend.accuracy must be in [0, 1]")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d", cfg.Port))
	}

	if len(problems) > 0 {
		panic("Invalid config: " + strings.Join(problems, ", "))
	}
}
