package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/angelmondragon/storefront-backend/internal/clients"
	"github.com/angelmondragon/storefront-backend/pkg/types"
)

type clientFlags struct {
	name    string
	email   string
	phone   string
	address string
}

func (f *clientFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "client name")
	cmd.Flags().StringVar(&f.email, "email", "", "client email")
	cmd.Flags().StringVar(&f.phone, "phone", "", "client phone")
	cmd.Flags().StringVar(&f.address, "address", "", "client address")
}

func (f *clientFlags) merge(cmd *cobra.Command, base clients.Input) clients.Input {
	changed := cmd.Flags().Changed
	if changed("name") {
		base.Name = f.name
	}
	if changed("email") {
		base.Email = f.email
	}
	if changed("phone") {
		base.Phone = f.phone
	}
	if changed("address") {
		base.Address = f.address
	}
	return base
}

// NewClientsCommand creates the clients command group.
func NewClientsCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clients",
		Short: "Manage client records",
	}
	cmd.AddCommand(
		newClientsListCommand(opts),
		newClientsAddCommand(opts),
		newClientsUpdateCommand(opts),
		newClientsDeleteCommand(opts),
	)
	return cmd
}

func newClientsListCommand(opts *RootOptions) *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List one page of clients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := opts.workspace(cmd.Context())
			if err != nil {
				return err
			}
			return printClientsPage(newPrinter(opts, cmd), ws.Clients.Page(page))
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number (clamped to the available range)")
	return cmd
}

func newClientsAddCommand(opts *RootOptions) *cobra.Command {
	flags := &clientFlags{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := opts.workspace(cmd.Context())
			if err != nil {
				return err
			}
			client, notice, err := ws.Clients.Add(cmd.Context(), flags.merge(cmd, clients.Input{}))
			if err != nil {
				return err
			}
			return printClients(newPrinter(opts, cmd), []clients.Client{client}, notice)
		},
	}
	flags.register(cmd)
	return cmd
}

func newClientsUpdateCommand(opts *RootOptions) *cobra.Command {
	flags := &clientFlags{}
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a client; unset flags keep their current value",
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
			current, err := ws.Clients.Get(id)
			if err != nil {
				return err
			}
			in := flags.merge(cmd, clients.Input{
				Name:    current.Name,
				Email:   current.Email,
				Phone:   current.Phone,
				Address: current.Address,
			})
			client, notice, err := ws.Clients.Update(cmd.Context(), id, in)
			if err != nil {
				return err
			}
			return printClients(newPrinter(opts, cmd), []clients.Client{client}, notice)
		},
	}
	flags.register(cmd)
	return cmd
}

func newClientsDeleteCommand(opts *RootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a client after confirmation",
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
			notice, err := ws.Clients.Delete(cmd.Context(), id, confirmer(cmd, yes))
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

func printClientsPage(p printer, page clients.Page) error {
	if page.Clients == nil {
		page.Clients = []clients.Client{}
	}
	return p.emit(page, nil, func(w io.Writer) {
		writeClientsTable(w, page.Clients)
		fmt.Fprintf(w, "Page %d of %d (%d clients)\n", page.Window.Page, page.Window.TotalPages, page.Window.Total)
	})
}

func printClients(p printer, list []clients.Client, notice *types.Notice) error {
	return p.emit(list, notice, func(w io.Writer) {
		writeClientsTable(w, list)
	})
}

func writeClientsTable(w io.Writer, list []clients.Client) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No clients.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tPHONE\tADDRESS")
	for _, c := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Email, c.Phone, c.Address)
	}
	_ = tw.Flush()
}
