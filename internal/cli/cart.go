package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/angelmondragon/storefront-backend/internal/cart"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

// NewCartCommand creates the cart command group.
func NewCartCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Inspect and change the device cart",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show cart lines and totals",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				ws, err := opts.workspace(cmd.Context())
				if err != nil {
					return err
				}
				return printCart(newPrinter(opts, cmd), ws.Cart.Snapshot())
			},
		},
		&cobra.Command{
			Use:   "add <product-id>",
			Short: "Add one unit of a product",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				ws, err := opts.workspace(cmd.Context())
				if err != nil {
					return err
				}
				p := newPrinter(opts, cmd)
				res := ws.Catalog.Load(cmd.Context())
				p.notice(res.Notice)
				product, err := ws.Catalog.Get(id)
				if err != nil {
					return err
				}
				ws.Cart.Add(cmd.Context(), product)
				return printCart(p, ws.Cart.Snapshot())
			},
		},
		&cobra.Command{
			Use:   "remove <product-id>",
			Short: "Remove a product line entirely",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				ws, err := opts.workspace(cmd.Context())
				if err != nil {
					return err
				}
				if !ws.Cart.Remove(cmd.Context(), id) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
				}
				return printCart(newPrinter(opts, cmd), ws.Cart.Snapshot())
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Empty the cart",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				ws, err := opts.workspace(cmd.Context())
				if err != nil {
					return err
				}
				ws.Cart.Clear(cmd.Context())
				return printCart(newPrinter(opts, cmd), ws.Cart.Snapshot())
			},
		},
	)
	return cmd
}

func printCart(p printer, snap cart.Snapshot) error {
	return p.emit(snap, nil, func(w io.Writer) {
		if len(snap.Items) == 0 {
			fmt.Fprintln(w, "Your cart is empty")
			return
		}
		tw := newTable(w)
		fmt.Fprintln(tw, "ID\tTITLE\tQTY\tPRICE")
		for _, item := range snap.Items {
			fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", item.ID, item.Title, item.Quantity, item.Price.StringFixed(2))
		}
		_ = tw.Flush()
		fmt.Fprintf(w, "Items: %d\nTotal: $%s\n", snap.TotalItems, snap.TotalAmount.StringFixed(2))
	})
}
