package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/TemirB/sales-dashboard/internal/dashboard"
	"github.com/TemirB/sales-dashboard/internal/domain"
	"github.com/TemirB/sales-dashboard/internal/present"
)

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Fetch sales pages",
		Long:  `Fetches one or more consecutive sales pages and prints them as a table or JSON.`,
		RunE:  runQuery,
	}

	cmd.Flags().String("start", "", "Start date, YYYY-MM-DD")
	cmd.Flags().String("end", "", "End date, YYYY-MM-DD")
	cmd.Flags().String("price-min", "", "Minimum price")
	cmd.Flags().String("email", "", "Customer email")
	cmd.Flags().String("phone", "", "Customer phone")
	cmd.Flags().String("sort", string(domain.SortByDate), "Sort field: date or price")
	cmd.Flags().String("order", string(domain.SortAsc), "Sort order: asc or desc")
	cmd.Flags().Int("pages", 1, "Number of pages to follow")
	cmd.Flags().BoolP("json", "j", false, "Output as JSON")
	return cmd
}

func runQuery(cmd *cobra.Command, _ []string) error {
	sort, err := sortFromFlags(cmd)
	if err != nil {
		return err
	}
	pages, _ := cmd.Flags().GetInt("pages")
	if pages < 1 {
		return errors.New("--pages must be at least 1")
	}

	app, logger, err := setup(cmd, dashboard.WithSort(sort))
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	ctx := commandContext(cmd)
	ctrl := app.Dashboard
	formatter := present.NewFormatter(language.English, time.Local)

	if err := ctrl.UpdateFilter(ctx, patchFromFlags(cmd)); err != nil {
		return describe(ctrl.View(), err)
	}

	result := []present.Page{present.Build(ctrl.View(), formatter)}
	for i := 1; i < pages && ctrl.View().HasNext; i++ {
		if err := ctrl.GoNext(ctx); err != nil {
			return describe(ctrl.View(), err)
		}
		result = append(result, present.Build(ctrl.View(), formatter))
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return PrintJSON(cmd.OutOrStdout(), result)
	}
	for _, p := range result {
		PrintPage(cmd.OutOrStdout(), p)
	}
	return nil
}

func sortFromFlags(cmd *cobra.Command) (domain.Sort, error) {
	rawField, _ := cmd.Flags().GetString("sort")
	field, err := domain.ParseSortField(rawField)
	if err != nil {
		return domain.Sort{}, err
	}

	rawOrder, _ := cmd.Flags().GetString("order")
	switch order := domain.SortOrder(strings.ToLower(rawOrder)); order {
	case domain.SortAsc, domain.SortDesc:
		return domain.Sort{Field: field, Order: order}, nil
	default:
		return domain.Sort{}, fmt.Errorf("unknown sort order %q", rawOrder)
	}
}

// patchFromFlags only touches filter fields whose flag was given, so the
// configured default dates survive.
func patchFromFlags(cmd *cobra.Command) domain.FilterPatch {
	get := func(name string) *string {
		if !cmd.Flags().Changed(name) {
			return nil
		}
		v, _ := cmd.Flags().GetString(name)
		return &v
	}
	return domain.FilterPatch{
		StartDate:     get("start"),
		EndDate:       get("end"),
		PriceMin:      get("price-min"),
		CustomerEmail: get("email"),
		CustomerPhone: get("phone"),
	}
}

// describe puts the user-facing message in front of err unless they match.
func describe(v dashboard.View, err error) error {
	if v.Error == "" || v.Error == err.Error() {
		return err
	}
	return fmt.Errorf("%s: %w", v.Error, err)
}
