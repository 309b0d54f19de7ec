package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/iwvelando/mine-npv/internal/advisor"
	"github.com/iwvelando/mine-npv/internal/config"
	"github.com/iwvelando/mine-npv/internal/lab"
	"github.com/iwvelando/mine-npv/internal/valuation"
	"github.com/iwvelando/mine-npv/pkg/constants"
	"github.com/iwvelando/mine-npv/pkg/format"
	"github.com/iwvelando/mine-npv/pkg/output"
	"github.com/iwvelando/mine-npv/pkg/validation"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// API keys may live in a local .env file; a missing file is fine.
	_ = godotenv.Load()

	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	unitFlag := flag.String("unit", "", "display unit override: k, M, B")
	compare := flag.Bool("compare", false, "print the NPV profile of the comparison projects")
	verdict := flag.Bool("verdict", false, "ask the advisor for a comparison verdict (implies -compare)")
	question := flag.String("ask", "", "question for the advisor about an annuity project")
	projectName := flag.String("project", "", "project the -ask question refers to (default: first active annuity project)")
	formula := flag.String("formula", "", "comma-separated interest factors to synthesize, e.g. \"P/F,P/A\"")
	formulaRate := flag.Float64("formula-rate", 0, "percent rate used to evaluate the -formula factors")
	formulaPeriods := flag.Int("formula-periods", 0, "number of periods used to evaluate the -formula factors (0 skips evaluation)")
	flag.Parse()

	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := config.NewLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	unitValue := conf.Output.Unit
	if *unitFlag != "" {
		unitValue = *unitFlag
	}
	unit, err := validation.ValidateUnit(unitValue)
	if err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	warnings := conf.ValidateConfiguration()
	for _, warning := range warnings {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	results, err := valuation.Evaluate(logger, *conf)
	if err != nil {
		logger.Fatal("failed to value projects",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(results, unit)
	case constants.OutputFormatCSV:
		output.CsvFormat(results)
	}

	wantsAdvisor := *verdict || *question != "" || *formula != ""
	if !*compare && !wantsAdvisor {
		return
	}

	ctx := context.Background()
	service := advisor.NewService(logger, nil, conf.Advisor.Timeout)
	if wantsAdvisor {
		service, err = advisor.NewServiceFromConfig(ctx, logger, conf.Advisor)
		if err != nil {
			logger.Fatal("failed to initialize advisor",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	}

	if *compare || *verdict {
		runComparison(ctx, logger, service, conf, unit, *verdict)
	}
	if *question != "" {
		runQuestion(ctx, logger, service, conf, unit, *projectName, *question)
	}
	if *formula != "" {
		runFormula(ctx, logger, service, *formula, *formulaRate, *formulaPeriods)
	}
}

func runComparison(ctx context.Context, logger *zap.Logger, service *advisor.Service, conf *config.Configuration, unit format.Unit, withVerdict bool) {
	a, b := conf.Comparison.LabProjects()
	rates := conf.Comparison.ProfileRates()

	if withVerdict {
		result, err := service.Compare(ctx, a, b, rates)
		if err != nil {
			logger.Error("comparison verdict failed",
				zap.String("op", "main.runComparison"),
				zap.Error(err),
			)
		} else {
			fmt.Printf("\n")
			output.ProfileFormat(a, b, result.Profile, unit)
			fmt.Printf("\n--- Verdict (%s profile) ---\n%s\n", result.ProfileSource, result.Verdict.Markdown)
			return
		}
	}

	points, err := lab.Profile(a, b, rates)
	if err != nil {
		logger.Error("failed to compute NPV profile",
			zap.String("op", "main.runComparison"),
			zap.Error(err),
		)
		return
	}
	fmt.Printf("\n")
	output.ProfileFormat(a, b, points, unit)
}

func runQuestion(ctx context.Context, logger *zap.Logger, service *advisor.Service, conf *config.Configuration, unit format.Unit, name, question string) {
	var project *config.Project
	if name != "" {
		if p, ok := conf.FindProject(name); ok {
			project = p
		}
	} else {
		for _, p := range conf.ActiveProjects() {
			if !p.IsIrregular() {
				project = &p
				break
			}
		}
	}
	if project == nil || project.IsIrregular() {
		logger.Error("no annuity project available for the advisor question",
			zap.String("op", "main.runQuestion"),
			zap.String("project", name),
		)
		return
	}

	reply, err := service.Chat(ctx, project.ToInputs(), unit, question)
	if err != nil {
		logger.Error("advisor question failed",
			zap.String("op", "main.runQuestion"),
			zap.String("project", project.Name),
			zap.Error(err),
		)
		return
	}
	fmt.Printf("\n--- Advisor: %s ---\n%s\n", project.Name, reply.Markdown)
}

func runFormula(ctx context.Context, logger *zap.Logger, service *advisor.Service, blocks string, ratePercent float64, periods int) {
	chain, err := lab.NewFormulaChain(strings.Split(blocks, ",")...)
	if err != nil {
		logger.Error("invalid formula chain",
			zap.String("op", "main.runFormula"),
			zap.Error(err),
		)
		return
	}

	if periods > 0 {
		factors, product, err := chain.Evaluate(ratePercent, periods)
		if err != nil {
			logger.Error("failed to evaluate formula chain",
				zap.String("op", "main.runFormula"),
				zap.Error(err),
			)
			return
		}
		fmt.Printf("\n--- Factors at %.2f%% over %d periods ---\n", ratePercent, periods)
		for _, factor := range factors {
			fmt.Printf("(%s) = %.4f\n", factor.Block, factor.Value)
		}
		fmt.Printf("Chain product: %.4f\n", product)

		if !service.Available() {
			logger.Info("advisor unavailable; skipping formula narrative",
				zap.String("op", "main.runFormula"),
			)
			return
		}
	}

	reply, err := service.SynthesizeFormula(ctx, chain)
	if err != nil {
		logger.Error("formula synthesis failed",
			zap.String("op", "main.runFormula"),
			zap.Error(err),
		)
		return
	}
	fmt.Printf("\n--- Formula: %s ---\n%s\n", chain.String(), reply.Markdown)
}
