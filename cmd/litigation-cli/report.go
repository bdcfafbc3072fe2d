package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"litigation_dashboard_go/services"

	"github.com/spf13/cobra"
)

type reportOptions struct {
	firm         string
	instance     string
	from         string
	to           string
	liability    string
	company      string
	limit        int
	minDecisions int
	asJSON       bool
}

func newReportCmd(a *app) *cobra.Command {
	var opts reportOptions

	cmd := &cobra.Command{
		Use:       "report <courts|divisions|adjudicators|timeline|companies>",
		Short:     "Print favorability statistics for a firm and instance",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"courts", "divisions", "adjudicators", "timeline", "companies"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			scope, err := a.scope(ctx, opts.firm, opts.instance)
			if err != nil {
				return err
			}
			filter, err := services.ParseFilter(services.FilterParams{
				From:      opts.from,
				To:        opts.to,
				Liability: opts.liability,
				Company:   opts.company,
			})
			if err != nil {
				return err
			}

			dashboard := services.NewDashboardService(a.db, a.logger.Named("dashboard"))
			ranking := opts.rankingOptions()

			var data interface{}
			switch args[0] {
			case "courts":
				data, err = dashboard.Courts(ctx, scope, filter)
			case "divisions":
				data, err = dashboard.TopDivisions(ctx, scope, filter, ranking)
			case "adjudicators":
				data, err = dashboard.TopAdjudicators(ctx, scope, filter, ranking)
			case "timeline":
				data, err = dashboard.Timeline(ctx, scope, filter)
			case "companies":
				data, err = dashboard.Companies(ctx, scope, filter)
			}
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), data, opts.asJSON)
		},
	}

	scopeFlags(cmd, &opts.firm, &opts.instance)
	cmd.Flags().StringVar(&opts.from, "from", "", "First decision date, YYYY-MM-DD")
	cmd.Flags().StringVar(&opts.to, "to", "", "Last decision date, YYYY-MM-DD")
	cmd.Flags().StringVar(&opts.liability, "responsabilidade", "", "solidaria or subsidiaria")
	cmd.Flags().StringVar(&opts.company, "empresa", "", "Only decisions for this company")
	cmd.Flags().IntVar(&opts.limit, "limit", 10, "Ranking size, 0 for all")
	cmd.Flags().IntVar(&opts.minDecisions, "min-decisoes", 0, "Leave out ranking entries with fewer decisions")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

// rankingOptions turns the flags into ranking options; --limit 0 lists every entry
func (o reportOptions) rankingOptions() services.RankingOptions {
	return services.RankingOptions{
		Limit:        o.limit,
		All:          o.limit == 0,
		MinDecisions: o.minDecisions,
	}
}

// writeReport prints one of the dashboard results as an aligned table, or as JSON
func writeReport(out io.Writer, data interface{}, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	switch rows := data.(type) {
	case []services.CourtSummary:
		fmt.Fprintln(w, "TRIBUNAL\tREGIAO\tTURMAS\tDECISOES\tFAVORAVEL\tDESFAVORAVEL")
		for _, r := range rows {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d%%\t%d%%\n", r.Name, r.Region, r.TotalDivisions, r.TotalDecisions, r.PercentFavorable, r.PercentUnfavorable)
		}
	case []services.RankingItem:
		fmt.Fprintln(w, "#\tNOME\tCONTEXTO\tDECISOES\tFAVORAVEL")
		for i, r := range rows {
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d%%\n", i+1, r.Name, r.ContextLabel, r.TotalDecisions, r.PercentFavorable)
		}
	case []services.TimelinePoint:
		fmt.Fprintln(w, "MES\tDECISOES\tFAVORAVEL\tDESFAVORAVEL")
		for _, r := range rows {
			fmt.Fprintf(w, "%04d-%02d\t%d\t%d%%\t%d%%\n", r.Year, r.Month, r.TotalDecisions, r.PercentFavorable, r.PercentUnfavorable)
		}
	case []services.CompanyStats:
		fmt.Fprintln(w, "EMPRESA\tDECISOES\tFAVORAVEL\tDESFAVORAVEL\tEM ANALISE")
		for _, r := range rows {
			fmt.Fprintf(w, "%s\t%d\t%d%%\t%d%%\t%d\n", r.Company, r.TotalDecisions, r.PercentFavorable, r.PercentUnfavorable, r.UnderReview)
		}
	default:
		return fmt.Errorf("unsupported report type %T", data)
	}
	return w.Flush()
}
