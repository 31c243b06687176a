package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/internal/workspace"
	"github.com/angelmondragon/storefront-backend/pkg/types"
)

type productFlags struct {
	title       string
	price       string
	image       string
	description string
	category    string
}

func (f *productFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "product title")
	cmd.Flags().StringVar(&f.price, "price", "", "price, up to two decimals")
	cmd.Flags().StringVar(&f.image, "image", "", "image URL (placeholder when empty)")
	cmd.Flags().StringVar(&f.description, "description", "", "description")
	cmd.Flags().StringVar(&f.category, "category", "", "category (custom when empty)")
}

// merge starts from base and applies only the flags the user set.
func (f *productFlags) merge(cmd *cobra.Command, base catalog.Input) catalog.Input {
	changed := cmd.Flags().Changed
	if changed("title") {
		base.Title = f.title
	}
	if changed("price") {
		base.Price = catalog.PriceText(f.price)
	}
	if changed("image") {
		base.Image = f.image
	}
	if changed("description") {
		base.Description = f.description
	}
	if changed("category") {
		base.Category = f.category
	}
	return base
}

// NewProductsCommand creates the products command group.
func NewProductsCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Browse and manage the product catalog",
	}
	cmd.AddCommand(
		newProductsListCommand(opts),
		newProductsAddCommand(opts),
		newProductsEditCommand(opts),
		newProductsDeleteCommand(opts),
		newProductsDetailsCommand(opts),
	)
	return cmd
}

// loadCatalog loads the merged list and prints the failure notice, if any.
func loadCatalog(opts *RootOptions, cmd *cobra.Command) (*workspace.Workspace, printer, []catalog.Product, error) {
	p := newPrinter(opts, cmd)
	ws, err := opts.workspace(cmd.Context())
	if err != nil {
		return nil, p, nil, err
	}
	res := ws.Catalog.Load(cmd.Context())
	p.notice(res.Notice)
	return ws, p, res.Products, nil
}

func newProductsListCommand(opts *RootOptions) *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products, optionally filtered by title",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, p, list, err := loadCatalog(opts, cmd)
			if err != nil {
				return err
			}
			if query != "" {
				list = ws.Catalog.Search(query)
			}
			return printProducts(p, list, nil)
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "case-insensitive title search")
	return cmd
}

func newProductsAddCommand(opts *RootOptions) *cobra.Command {
	flags := &productFlags{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a custom product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, p, _, err := loadCatalog(opts, cmd)
			if err != nil {
				return err
			}
			product, notice, err := ws.Catalog.Add(cmd.Context(), flags.merge(cmd, catalog.Input{}))
			if err != nil {
				return err
			}
			return printProducts(p, []catalog.Product{product}, notice)
		},
	}
	flags.register(cmd)
	return cmd
}

func newProductsEditCommand(opts *RootOptions) *cobra.Command {
	flags := &productFlags{}
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a product; unset flags keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ws, p, _, err := loadCatalog(opts, cmd)
			if err != nil {
				return err
			}
			current, err := ws.Catalog.Get(id)
			if err != nil {
				return err
			}
			in := flags.merge(cmd, catalog.Input{
				Title:       current.Title,
				Price:       catalog.PriceText(current.Price.String()),
				Image:       current.Image,
				Description: current.Description,
				Category:    current.Category,
			})
			product, notice, err := ws.Catalog.Edit(cmd.Context(), id, in)
			if err != nil {
				return err
			}
			return printProducts(p, []catalog.Product{product}, notice)
		},
	}
	flags.register(cmd)
	return cmd
}

func newProductsDeleteCommand(opts *RootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product after confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ws, p, _, err := loadCatalog(opts, cmd)
			if err != nil {
				return err
			}
			notice, err := ws.Catalog.Delete(cmd.Context(), id, confirmer(cmd, yes))
			if isCancelled(err) {
				return p.cancelled()
			}
			if err != nil {
				return err
			}
			return p.emit(map[string]int64{"deleted": id}, notice, nil)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newProductsDetailsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "details <id>",
		Short: "Show a product's full description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ws, p, _, err := loadCatalog(opts, cmd)
			if err != nil {
				return err
			}
			product, err := ws.Catalog.Details(id)
			if err != nil {
				return err
			}
			return p.emit(product, nil, func(w io.Writer) {
				fmt.Fprintf(w, "%s\n$%s  %s\n\n%s\n", product.Title, product.Price.StringFixed(2), product.Category, product.Description)
			})
		},
	}
}

func printProducts(p printer, list []catalog.Product, notice *types.Notice) error {
	if list == nil {
		list = []catalog.Product{}
	}
	return p.emit(list, notice, func(w io.Writer) {
		if len(list) == 0 {
			fmt.Fprintln(w, "No products available.")
			return
		}
		tw := newTable(w)
		fmt.Fprintln(tw, "ID\tTITLE\tPRICE\tCATEGORY\tSOURCE")
		for _, product := range list {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", product.ID, product.Title, product.Price.StringFixed(2), product.Category, product.Source)
		}
		_ = tw.Flush()
	})
}
