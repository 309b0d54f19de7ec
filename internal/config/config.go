// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"fmt"
	"io"
	"time"

	"github.com/iwvelando/mine-npv/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for mine-npv.
type Configuration struct {
	Projects   []Project         `yaml:"projects"`
	Comparison *ComparisonConfig `yaml:"comparison,omitempty"`
	Advisor    AdvisorConfig     `yaml:"advisor,omitempty"`
	Logging    LoggingConfig     `yaml:"logging,omitempty"`
	Output     OutputConfig      `yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
	Unit   string `yaml:"unit,omitempty"`   // k, M, B
}

// AdvisorConfig selects the generative service used for narrative analysis.
type AdvisorConfig struct {
	Provider  string        `yaml:"provider,omitempty"`  // none, gemini, openai
	Model     string        `yaml:"model,omitempty"`     // provider default when empty
	APIKeyEnv string        `yaml:"apiKeyEnv,omitempty"` // environment variable holding the key
	Timeout   time.Duration `yaml:"timeout,omitempty"`   // per request, e.g. 30s
}

// Project is one valuation. A project with cashFlows is evaluated row by row;
// otherwise the annuity parameters are used. Nil fields were left empty.
type Project struct {
	Name              string      `yaml:"name"`
	Active            bool        `yaml:"active"`
	DiscountRate      *float64    `yaml:"discountRate,omitempty"`      // percent
	InitialInvestment *float64    `yaml:"initialInvestment,omitempty"` // millions
	LifeOfMine        *float64    `yaml:"lifeOfMine,omitempty"`        // years
	AnnualCashFlow    *float64    `yaml:"annualCashFlow,omitempty"`    // millions per year
	CashFlows         []FlowEntry `yaml:"cashFlows,omitempty"`
}

// FlowEntry is one year/amount row of an irregular project.
type FlowEntry struct {
	Year   int      `yaml:"year"`
	Amount *float64 `yaml:"amount,omitempty"`
}

// ComparisonConfig describes the two-project incremental comparison.
type ComparisonConfig struct {
	ProjectA ComparisonProject `yaml:"projectA"`
	ProjectB ComparisonProject `yaml:"projectB"`
	Rates    []float64         `yaml:"rates,omitempty"` // percent; default 0..30 step 2
}

// ComparisonProject is an annuity project reduced to the comparison inputs.
type ComparisonProject struct {
	Name       string   `yaml:"name"`
	Investment *float64 `yaml:"investment,omitempty"`
	Revenue    *float64 `yaml:"revenue,omitempty"`
	Life       *float64 `yaml:"life,omitempty"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.AutomaticEnv()

	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads YAML configuration from an arbitrary reader,
// e.g. an uploaded file.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	err := v.Unmarshal(&configuration)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &configuration, nil
}

// ActiveProjects returns the projects flagged active, in configuration order.
func (conf *Configuration) ActiveProjects() []Project {
	var active []Project
	for _, project := range conf.Projects {
		if project.Active {
			active = append(active, project)
		}
	}
	return active
}

// FindProject returns the project with the given name.
func (conf *Configuration) FindProject(name string) (*Project, bool) {
	for i := range conf.Projects {
		if conf.Projects[i].Name == name {
			return &conf.Projects[i], true
		}
	}
	return nil, false
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (conf *Configuration) ValidateConfiguration() []string {
	validator := validation.ConfigValidator{}
	for _, project := range conf.Projects {
		validator.Projects = append(validator.Projects, project.toValidation())
	}

	warnings := validator.ValidateAll()

	if conf.Output.Unit != "" {
		if _, err := validation.ValidateUnit(conf.Output.Unit); err != nil {
			warnings = append(warnings, fmt.Sprintf("%v; millions will be used", err))
		}
	}
	if err := validation.ValidateAdvisorProvider(conf.Advisor.Provider); err != nil {
		warnings = append(warnings, fmt.Sprintf("%v; the advisor is disabled", err))
	}
	if len(conf.ActiveProjects()) == 0 {
		warnings = append(warnings, "No active projects configured")
	}

	return warnings
}

func (p Project) toValidation() validation.ProjectConfig {
	years := make([]int, 0, len(p.CashFlows))
	for _, entry := range p.CashFlows {
		years = append(years, entry.Year)
	}
	return validation.ProjectConfig{
		Name:              p.Name,
		Active:            p.Active,
		DiscountRate:      p.DiscountRate,
		InitialInvestment: p.InitialInvestment,
		LifeOfMine:        p.LifeOfMine,
		AnnualCashFlow:    p.AnnualCashFlow,
		FlowYears:         years,
	}
}
