package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/angelmondragon/storefront-backend/internal/theme"
)

// NewThemeCommand creates the theme command group.
func NewThemeCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Show or change the light/dark preference",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the current theme",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				ws, err := opts.workspace(cmd.Context())
				if err != nil {
					return err
				}
				return printTheme(newPrinter(opts, cmd), ws.Theme.Mode())
			},
		},
		&cobra.Command{
			Use:   "toggle",
			Short: "Switch between light and dark",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				ws, err := opts.workspace(cmd.Context())
				if err != nil {
					return err
				}
				return printTheme(newPrinter(opts, cmd), ws.Theme.Toggle(cmd.Context()))
			},
		},
		&cobra.Command{
			Use:       "set <light|dark>",
			Short:     "Set the theme explicitly",
			Args:      cobra.ExactArgs(1),
			ValidArgs: []string{string(theme.Light), string(theme.Dark)},
			RunE: func(cmd *cobra.Command, args []string) error {
				mode, err := theme.ParseMode(args[0])
				if err != nil {
					return err
				}
				ws, err := opts.workspace(cmd.Context())
				if err != nil {
					return err
				}
				mode, err = ws.Theme.Set(cmd.Context(), mode)
				if err != nil {
					return err
				}
				return printTheme(newPrinter(opts, cmd), mode)
			},
		},
	)
	return cmd
}

func printTheme(p printer, mode theme.Mode) error {
	return p.emit(map[string]string{"mode": string(mode)}, nil, func(w io.Writer) {
		fmt.Fprintln(w, mode)
	})
}
