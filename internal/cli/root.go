package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/angelmondragon/storefront-backend/internal/bootstrap"
	"github.com/angelmondragon/storefront-backend/internal/workspace"
)

// OpenFunc builds the runtime the commands operate on.
type OpenFunc func(ctx context.Context) (*bootstrap.Runtime, error)

// RootOptions holds global flags and the lazily opened runtime.
type RootOptions struct {
	Device string
	Format string // "json" | "text"

	Open OpenFunc
	rt   *bootstrap.Runtime
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the shopctl root command.
func NewRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "shopctl",
		Short:         "Operate storefront workspaces from the terminal",
		Long:          "shopctl drives the same cart, catalog, client registry and theme as the HTTP API, over the configured storage.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if _, err := workspace.NormalizeDeviceID(opts.Device); err != nil {
				return fmt.Errorf("invalid --device %q", opts.Device)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Device, "device", workspace.DefaultDeviceID, "device workspace to operate on")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewCartCommand(opts))
	cmd.AddCommand(NewProductsCommand(opts))
	cmd.AddCommand(NewClientsCommand(opts))
	cmd.AddCommand(NewThemeCommand(opts))

	return cmd
}

// Close releases the runtime if a command opened one.
func (o *RootOptions) Close() error {
	if o.rt == nil {
		return nil
	}
	err := o.rt.Close()
	o.rt = nil
	return err
}

func (o *RootOptions) workspace(ctx context.Context) (*workspace.Workspace, error) {
	if o.rt == nil {
		if o.Open == nil {
			return nil, fmt.Errorf("no runtime configured")
		}
		rt, err := o.Open(ctx)
		if err != nil {
			return nil, err
		}
		o.rt = rt
	}
	return o.rt.Manager.Get(ctx, o.Device)
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
