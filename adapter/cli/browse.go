package cli

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/ideas/adapter/tui"
	"github.com/felixgeelhaar/ideas/internal/ideas/domain"
)

var browseOpts sourceOptions

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Open the interactive ideas listing",
	Long: `Open the interactive listing page.

Keys: ←/→ page, s sort, p page size, r reload, e edit mode,
↑/↓ select, a add, enter edit, d delete, q quit.
Edits are local and are discarded when edit mode is left.`,
	RunE: runBrowse,
}

func init() {
	browseCmd.Flags().BoolVar(&browseOpts.offline, "offline", false, "use generated sample data instead of the proxy")
	browseCmd.Flags().StringVar(&browseOpts.proxyURL, "proxy-url", "", "proxy base URL (default $IDEAS_PROXY_URL)")
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	if app == nil {
		return errors.New("application not initialized")
	}

	tuiLogger, closeLog, err := app.fileLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	ctx := cmd.Context()
	ctrl := app.newController(browseOpts, domain.NewPagination(), tuiLogger)

	p := tea.NewProgram(tui.New(ctx, ctrl), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}
