package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/mlindqvist/catcost/internal/pricing"
)

// RenderBreakdown writes a cost breakdown as an aligned table with totals
// and any calculation warnings.
func RenderBreakdown(w io.Writer, title string, breakdown *pricing.CostBreakdown) {
	fmt.Fprintln(w, FormatTitle(title))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, BoldStyle.Render("Category")+"\t"+BoldStyle.Render("Words")+"\t"+BoldStyle.Render("Rate")+"\t"+BoldStyle.Render("Cost"))

	for _, line := range breakdown.Lines {
		marker := ""
		if line.UsedDefaultRate {
			marker = " *"
		}
		fmt.Fprintf(tw, "%s%s\t%d\t%s\t%s\n",
			line.Category, marker, line.Words,
			line.RatePerWord.StringFixed(4), line.Cost.StringFixed(2))

		if line.HasSplit {
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n",
				SubtleStyle.Render("  TM share"), line.TMWords,
				line.RatePerWord.StringFixed(4), line.TMCost.StringFixed(2))
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n",
				SubtleStyle.Render("  MT share"), line.MTWords,
				line.MTRatePerWord.StringFixed(4), line.MTCost.StringFixed(2))
		}
	}

	fmt.Fprintln(tw, "\t\t\t")
	fmt.Fprintf(tw, "Subtotal\t\t\t%s %s\n", breakdown.Subtotal.StringFixed(2), breakdown.Currency)
	if breakdown.MinimumFeeApplied {
		fmt.Fprintf(tw, "Minimum fee\t\t\t%s %s\n", breakdown.MinimumFee.StringFixed(2), breakdown.Currency)
	}
	fmt.Fprintf(tw, "%s\t\t\t%s\n", TotalStyle.Render("Total"),
		TotalStyle.Render(breakdown.Total.StringFixed(2)+" "+breakdown.Currency))
	_ = tw.Flush()

	for _, warning := range breakdown.Warnings {
		fmt.Fprintln(w, FormatWarning(warning))
	}
}
