package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/felixgeelhaar/ideas/adapter/tui"
	"github.com/felixgeelhaar/ideas/internal/ideas/domain"
)

var (
	listOpts  sourceOptions
	listPage  int
	listSize  int
	listSort  string
	listPlain bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print one page of ideas",
	Example: `  ideas list --page 2 --size 20
  ideas list --sort oldest --offline --plain`,
	RunE: runList,
}

func init() {
	listCmd.Flags().IntVar(&listPage, "page", 1, "page number")
	listCmd.Flags().IntVar(&listSize, "size", domain.DefaultPageSize, "page size (10, 20 or 50)")
	listCmd.Flags().StringVar(&listSort, "sort", string(domain.SortNewest), "sort order: newest or oldest")
	listCmd.Flags().BoolVar(&listPlain, "plain", false, "disable colors")
	listCmd.Flags().BoolVar(&listOpts.offline, "offline", false, "use generated sample data instead of the proxy")
	listCmd.Flags().StringVar(&listOpts.proxyURL, "proxy-url", "", "proxy base URL (default $IDEAS_PROXY_URL)")
	rootCmd.AddCommand(listCmd)
}

// listPagination validates the list flags.
func listPagination(page, size int, sort string) (domain.Pagination, error) {
	if page < 1 {
		return domain.Pagination{}, fmt.Errorf("page must be at least 1, got %d", page)
	}
	if !domain.ValidPageSize(size) {
		return domain.Pagination{}, fmt.Errorf("%w: %d (choose from %v)", domain.ErrInvalidPageSize, size, domain.PageSizeOptions)
	}
	order, err := domain.ParseSortOrder(sort)
	if err != nil {
		return domain.Pagination{}, err
	}
	return domain.Pagination{CurrentPage: page, PageSize: size, SortOrder: order}, nil
}

func runList(cmd *cobra.Command, args []string) error {
	if app == nil {
		return errors.New("application not initialized")
	}
	pagination, err := listPagination(listPage, listSize, listSort)
	if err != nil {
		return err
	}

	ctrl := app.newController(listOpts, pagination, app.Logger)
	if err := ctrl.Reload(cmd.Context()); err != nil {
		return fmt.Errorf("load ideas: %w", err)
	}

	styles := tui.DefaultStyles()
	if listPlain || !term.IsTerminal(int(os.Stdout.Fd())) {
		styles = tui.PlainStyles()
	}
	fmt.Fprint(cmd.OutOrStdout(), tui.Render(ctrl.View(), styles, tui.NoCursor))
	return nil
}
