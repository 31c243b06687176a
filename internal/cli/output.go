package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/angelmondragon/storefront-backend/pkg/confirm"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/types"
)

// Response is the JSON envelope written with --format json.
type Response struct {
	Status string        `json:"status"` // "ok" or "cancelled"
	Data   any           `json:"data,omitempty"`
	Notice *types.Notice `json:"notice,omitempty"`
}

type printer struct {
	format string
	out    io.Writer
}

func newPrinter(opts *RootOptions, cmd *cobra.Command) printer {
	return printer{format: opts.Format, out: cmd.OutOrStdout()}
}

// emit writes data as JSON, or calls text followed by the notice line.
func (p printer) emit(data any, notice *types.Notice, text func(w io.Writer)) error {
	if p.format == "json" {
		return json.NewEncoder(p.out).Encode(Response{Status: "ok", Data: data, Notice: notice})
	}
	if text != nil {
		text(p.out)
	}
	p.notice(notice)
	return nil
}

func (p printer) notice(n *types.Notice) {
	if n == nil || p.format == "json" {
		return
	}
	if n.Description != "" {
		fmt.Fprintf(p.out, "%s: %s\n", n.Message, n.Description)
		return
	}
	fmt.Fprintln(p.out, n.Message)
}

// cancelled reports a declined confirmation. It is not an error.
func (p printer) cancelled() error {
	if p.format == "json" {
		return json.NewEncoder(p.out).Encode(Response{Status: "cancelled"})
	}
	fmt.Fprintln(p.out, "cancelled")
	return nil
}

func confirmer(cmd *cobra.Command, yes bool) confirm.Confirmer {
	if yes {
		return confirm.Always(true)
	}
	return confirm.Prompt{In: cmd.InOrStdin(), Out: cmd.ErrOrStderr()}
}

func isCancelled(err error) bool {
	return pkgerrors.IsCode(err, pkgerrors.CodeConfirmation)
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

// FormatError renders err for the terminal, including validation field details.
func FormatError(err error) string {
	typed := pkgerrors.As(err)
	if typed == nil {
		return "Error: " + err.Error()
	}
	msg := fmt.Sprintf("Error [%s]: %s", typed.Code(), typed.Message())
	details := map[string]any{}
	switch d := typed.Details().(type) {
	case map[string]string:
		for k, v := range d {
			details[k] = v
		}
	case map[string]any:
		details = d
	}
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		msg += fmt.Sprintf("\n  %s: %v", k, details[k])
	}
	return msg
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}
