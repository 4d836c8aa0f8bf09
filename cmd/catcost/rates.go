package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mlindqvist/catcost/internal/cli"
	"github.com/mlindqvist/catcost/internal/model"
	"github.com/mlindqvist/catcost/internal/service"
)

func ratesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Manage per-word rates",
		Long: `Manage the rate table used for quoting.

A rate is keyed by translator, language pair and match category, with an
optional client for client-specific overrides. Client rates win over general
ones when both exist.`,
	}

	cmd.AddCommand(ratesSetCmd())
	cmd.AddCommand(ratesListCmd())
	cmd.AddCommand(ratesDeleteCmd())

	return cmd
}

func ratesSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Create or update a rate",
		Long: `Create or update a rate for one match category.

Setting the same translator, pair, category and client again overwrites the
existing rate in place.

Examples:
  catcost rates set -t "Maria Svensson" --pair en>de --category "100%" --rate 0.05
  catcost rates set -t "Maria Svensson" --pair en>de --category "No Match" --rate 0.12 \
      --minimum-fee 40.00 --minimum-fee-enabled
  catcost rates set -t "Maria Svensson" --pair en>de --category "MT Match" --rate 0.02 \
      --client "Acme GmbH"`,
		RunE: runRatesSet,
	}

	cmd.Flags().StringP("translator", "t", "", "translator name (required)")
	cmd.Flags().String("pair", "", "language pair as source>target, e.g. en>de (required)")
	cmd.Flags().String("category", "", "match category name, e.g. \"95% - 99%\" (required)")
	cmd.Flags().String("rate", "", "per-word rate, e.g. 0.08 (required)")
	cmd.Flags().StringP("client", "c", "", "client for a client-specific override")
	cmd.Flags().String("currency", "", "currency code (defaults to the configured one)")
	cmd.Flags().String("minimum-fee", "", "minimum fee stored on this rate")
	cmd.Flags().Bool("minimum-fee-enabled", false, "apply the minimum fee when quoting")

	for _, name := range []string{"translator", "pair", "category", "rate"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func runRatesSet(cmd *cobra.Command, _ []string) error {
	translatorName, _ := cmd.Flags().GetString("translator")
	pairFlag, _ := cmd.Flags().GetString("pair")
	categoryName, _ := cmd.Flags().GetString("category")
	rateFlag, _ := cmd.Flags().GetString("rate")
	clientName, _ := cmd.Flags().GetString("client")
	currency, _ := cmd.Flags().GetString("currency")
	minimumFeeFlag, _ := cmd.Flags().GetString("minimum-fee")
	minimumFeeEnabled, _ := cmd.Flags().GetBool("minimum-fee-enabled")

	category, ok := model.CategoryFromName(categoryName)
	if !ok {
		return fmt.Errorf("unknown match category %q", categoryName)
	}
	ratePerWord, err := decimal.NewFromString(rateFlag)
	if err != nil || ratePerWord.IsNegative() {
		return fmt.Errorf("invalid rate %q", rateFlag)
	}

	ctx := cmd.Context()
	store, cfg, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	translator, err := requireTranslator(ctx, store, translatorName)
	if err != nil {
		return err
	}
	client, err := requireClient(ctx, store, clientName)
	if err != nil {
		return err
	}
	source, target, err := parsePairFlag(pairFlag)
	if err != nil {
		return err
	}
	pair, err := store.GetOrCreateLanguagePair(ctx, source, target)
	if err != nil {
		return err
	}
	categoryID, err := store.GetMatchCategoryID(ctx, category)
	if err != nil {
		return err
	}

	rate := &model.Rate{
		TranslatorID:      translator.ID,
		ClientID:          clientIDOf(client),
		LanguagePairID:    pair.ID,
		MatchCategoryID:   categoryID,
		RatePerWord:       ratePerWord,
		MinimumFeeEnabled: minimumFeeEnabled,
	}
	if currency != "" {
		rate.Currency = currency
	} else {
		rate.Currency = cfg.Pricing.Currency
	}
	if minimumFeeFlag != "" {
		fee, err := decimal.NewFromString(minimumFeeFlag)
		if err != nil || fee.IsNegative() {
			return fmt.Errorf("invalid minimum fee %q", minimumFeeFlag)
		}
		rate.MinimumFee = fee
	}

	saved, err := store.SaveRate(ctx, rate)
	if err != nil {
		return err
	}

	scope := "general"
	if client != nil {
		scope = fmt.Sprintf("client %q", client.Name)
	}
	fmt.Println(cli.FormatSuccess(fmt.Sprintf(
		"Set %s rate for %s, %s %s: %s %s/word",
		scope, translator.Name, pair.PairCode(), category,
		saved.RatePerWord.StringFixed(4), saved.Currency,
	)))
	return nil
}

func ratesListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored rates",
		RunE:  runRatesList,
	}

	cmd.Flags().StringP("translator", "t", "", "filter by translator")
	cmd.Flags().StringP("client", "c", "", "filter by client")
	cmd.Flags().String("pair", "", "filter by language pair, e.g. en>de")
	cmd.Flags().Int("limit", 0, "maximum number of rates to show")

	return cmd
}

func runRatesList(cmd *cobra.Command, _ []string) error {
	translatorName, _ := cmd.Flags().GetString("translator")
	clientName, _ := cmd.Flags().GetString("client")
	pairFlag, _ := cmd.Flags().GetString("pair")
	limit, _ := cmd.Flags().GetInt("limit")

	ctx := cmd.Context()
	store, _, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	filter := service.RateFilter{Limit: limit}
	if translatorName != "" {
		translator, err := requireTranslator(ctx, store, translatorName)
		if err != nil {
			return err
		}
		filter.TranslatorID = &translator.ID
	}
	if clientName != "" {
		client, err := requireClient(ctx, store, clientName)
		if err != nil {
			return err
		}
		filter.ClientID = clientIDOf(client)
	}
	if pairFlag != "" {
		source, target, err := parsePairFlag(pairFlag)
		if err != nil {
			return err
		}
		pair, err := store.GetOrCreateLanguagePair(ctx, source, target)
		if err != nil {
			return err
		}
		filter.LanguagePairID = &pair.ID
	}

	rates, err := store.ListRates(ctx, filter)
	if err != nil {
		return err
	}
	if len(rates) == 0 {
		fmt.Println(cli.SubtleStyle.Render("No rates stored."))
		return nil
	}

	allTranslators, err := store.ListTranslators(ctx)
	if err != nil {
		return err
	}
	translators := make(map[int64]string, len(allTranslators))
	for _, t := range allTranslators {
		translators[t.ID] = t.Name
	}
	allClients, err := store.ListClients(ctx)
	if err != nil {
		return err
	}
	clients := make(map[int64]string, len(allClients))
	for _, c := range allClients {
		clients[c.ID] = c.Name
	}
	pairs, err := store.ListLanguagePairs(ctx)
	if err != nil {
		return err
	}
	pairCodes := make(map[int64]string, len(pairs))
	for _, p := range pairs {
		pairCodes[p.ID] = p.PairCode()
	}
	categories, err := store.ListMatchCategories(ctx)
	if err != nil {
		return err
	}
	categoryNames := make(map[int64]string, len(categories))
	for category, id := range categories {
		categoryNames[id] = string(category)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, cli.TableHeaderStyle.Render("ID\tTRANSLATOR\tCLIENT\tPAIR\tCATEGORY\tRATE\tMIN FEE"))
	for _, rate := range rates {
		clientLabel := "-"
		if rate.ClientID != nil {
			clientLabel = clients[*rate.ClientID]
		}
		minFee := "-"
		if rate.MinimumFeeEnabled {
			minFee = rate.MinimumFee.StringFixed(2) + " " + rate.Currency
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s %s\t%s\n",
			rate.ID,
			translators[rate.TranslatorID],
			clientLabel,
			pairCodes[rate.LanguagePairID],
			categoryNames[rate.MatchCategoryID],
			rate.RatePerWord.StringFixed(4), rate.Currency,
			minFee,
		)
	}
	return w.Flush()
}

func ratesDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <rate-id>",
		Short: "Delete a rate by id",
		Args:  cobra.ExactArgs(1),
		RunE:  runRatesDelete,
	}
	return cmd
}

func runRatesDelete(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid rate id %q", args[0])
	}

	ctx := cmd.Context()
	store, _, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.DeleteRate(ctx, id); err != nil {
		return err
	}
	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted rate %d", id)))
	return nil
}
