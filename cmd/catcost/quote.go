package main

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mlindqvist/catcost/internal/cli"
	"github.com/mlindqvist/catcost/internal/common"
	"github.com/mlindqvist/catcost/internal/config"
	"github.com/mlindqvist/catcost/internal/model"
	"github.com/mlindqvist/catcost/internal/pricing"
	"github.com/mlindqvist/catcost/internal/service"
	"github.com/mlindqvist/catcost/internal/trados"
)

func quoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote [files...]",
		Short: "Calculate the cost of a project or of analysis files",
		Long: `Price an imported project, or ad-hoc analysis files without importing them.

The rate table is resolved per category: a client-specific rate wins over the
translator's general rate; categories without any stored rate fall back to
the configured defaults with a warning.

Examples:
  # Quote an imported project
  catcost quote --project "Website relaunch"

  # Quote a report directly against a translator's rates
  catcost quote --translator "Maria Svensson" report.csv

  # Override the MT share and enforce a floor
  catcost quote --project "Manuals" --mt-percentage 50 --minimum-fee 45.00`,
		RunE: runQuote,
	}

	cmd.Flags().StringP("project", "p", "", "imported project to price")
	cmd.Flags().StringP("translator", "t", "", "translator whose rates apply (file mode)")
	cmd.Flags().StringP("client", "c", "", "client whose override rates apply")
	cmd.Flags().Int("mt-percentage", -1, "MT share of 100% matches (0-100, overrides project and config)")
	cmd.Flags().String("minimum-fee", "", "minimum fee floor, e.g. 45.00 (overrides stored rates)")
	cmd.Flags().Bool("per-file", false, "print one breakdown per file instead of the aggregate")

	return cmd
}

func runQuote(cmd *cobra.Command, args []string) error {
	projectName, _ := cmd.Flags().GetString("project")
	translatorName, _ := cmd.Flags().GetString("translator")
	clientName, _ := cmd.Flags().GetString("client")
	mtFlag, _ := cmd.Flags().GetInt("mt-percentage")
	minimumFeeFlag, _ := cmd.Flags().GetString("minimum-fee")
	perFile, _ := cmd.Flags().GetBool("per-file")

	if projectName == "" && len(args) == 0 {
		return fmt.Errorf("either --project or at least one analysis file is required")
	}

	ctx := cmd.Context()
	store, cfg, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	inputs, err := collectQuoteInputs(ctx, store, cfg, projectName, translatorName, clientName, args)
	if err != nil {
		return err
	}

	mtPercentage := inputs.mtPercentage
	if mtFlag >= 0 {
		mtPercentage = mtFlag
	}

	pair, err := store.GetOrCreateLanguagePair(ctx, inputs.sourceLanguage, inputs.targetLanguage)
	if err != nil {
		return err
	}

	rates, err := resolveRatesFor(ctx, store, inputs.translatorID, pair.ID, inputs.clientID)
	if err != nil {
		return err
	}

	minimumFee, err := resolveMinimumFee(minimumFeeFlag, rates)
	if err != nil {
		return err
	}

	engine := pricing.NewEngine(pricing.NewStaticRatesFrom(cfg.Pricing.DefaultRates))
	opts := pricing.Options{
		MTPercentage: mtPercentage,
		MinimumFee:   minimumFee,
		Currency:     cfg.Pricing.Currency,
	}

	targets := []*model.FileAnalysis{inputs.project.Analysis.Aggregate()}
	if perFile {
		targets = nil
		for i := range inputs.project.Analysis.Files {
			targets = append(targets, inputs.project.Analysis.Files[i])
		}
	}

	for _, fa := range targets {
		result := pricing.ValidateInputs(fa, rates, mtPercentage)
		if !result.Valid() {
			for _, msg := range result.Errors {
				fmt.Println(cli.FormatError(msg))
			}
			return fmt.Errorf("%w: cannot price %q", common.ErrNoRates, fa.Filename)
		}

		breakdown, err := engine.Calculate(fa, rates, opts)
		if err != nil {
			return err
		}
		cli.RenderBreakdown(os.Stdout, fmt.Sprintf("%s (%s)", fa.Filename, fa.LanguagePairCode()), breakdown)
		fmt.Println()
	}

	return nil
}

// quoteInputs is everything a calculation needs, however it was sourced.
type quoteInputs struct {
	project        *model.Project
	clientID       *int64
	sourceLanguage string
	targetLanguage string
	translatorID   int64
	mtPercentage   int
}

// collectQuoteInputs loads an imported project, or parses ad-hoc files into a
// transient one.
func collectQuoteInputs(ctx context.Context, store service.Storage, cfg *config.Config, projectName, translatorName, clientName string, files []string) (*quoteInputs, error) {
	client, err := requireClient(ctx, store, clientName)
	if err != nil {
		return nil, err
	}

	if projectName != "" {
		return loadProjectInputs(ctx, store, projectName, client)
	}

	if translatorName == "" {
		return nil, fmt.Errorf("--translator is required when quoting files directly")
	}
	translator, err := requireTranslator(ctx, store, translatorName)
	if err != nil {
		return nil, err
	}

	project := model.NewProject("ad-hoc quote", translator.ID)
	project.MTPercentage = cfg.Pricing.MTPercentage
	parser := trados.NewParser()

	for _, path := range files {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		analyses, err := parser.ParseFile(ctx, f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		for _, fa := range analyses {
			project.Analysis.AddFile(fa)
		}
	}

	return inputsFromProject(project, client)
}

func loadProjectInputs(ctx context.Context, store service.Storage, name string, client *model.Client) (*quoteInputs, error) {
	project, err := store.GetProjectByName(ctx, name)
	if err != nil {
		return nil, err
	}

	analyses, err := store.GetAnalyses(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	if len(analyses) == 0 {
		return nil, fmt.Errorf("project %q has no imported analyses", name)
	}

	project.Analysis = model.NewProjectAnalysis(project.Name)
	for i := range analyses {
		project.Analysis.AddFile(&analyses[i])
	}

	// A client flag overrides the one stored on the project.
	if client == nil && project.ClientID != nil {
		stored, err := store.GetClient(ctx, *project.ClientID)
		if err != nil {
			return nil, err
		}
		client = stored
	}
	return inputsFromProject(project, client)
}

func inputsFromProject(project *model.Project, client *model.Client) (*quoteInputs, error) {
	source, target := project.SourceLanguage, project.TargetLanguage
	if source == "" || target == "" {
		for _, fa := range project.Analysis.Files {
			if fa.SourceLanguage != "" && fa.TargetLanguage != "" {
				source, target = fa.SourceLanguage, fa.TargetLanguage
				break
			}
		}
	}
	if source == "" || target == "" {
		return nil, fmt.Errorf("%w: no language pair on project or analyses", common.ErrInvalidLanguagePair)
	}

	return &quoteInputs{
		project:        project,
		clientID:       clientIDOf(client),
		sourceLanguage: source,
		targetLanguage: target,
		translatorID:   project.TranslatorID,
		mtPercentage:   project.MTPercentage,
	}, nil
}

// resolveMinimumFee prefers the explicit flag, then the largest enabled
// minimum fee among the resolved rates.
func resolveMinimumFee(flag string, rates map[model.MatchCategory]model.Rate) (*decimal.Decimal, error) {
	if flag != "" {
		fee, err := decimal.NewFromString(flag)
		if err != nil || fee.IsNegative() {
			return nil, fmt.Errorf("invalid minimum fee %q", flag)
		}
		return &fee, nil
	}

	var fee *decimal.Decimal
	for _, rate := range rates {
		if !rate.MinimumFeeEnabled {
			continue
		}
		if fee == nil || rate.MinimumFee.GreaterThan(*fee) {
			v := rate.MinimumFee
			fee = &v
		}
	}
	return fee, nil
}
