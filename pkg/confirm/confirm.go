// Package confirm abstracts the "are you sure?" step in front of destructive actions.
package confirm

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Confirmer answers a yes/no prompt.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// Always returns a fixed answer, e.g. from an HTTP confirm flag or --yes.
type Always bool

func (a Always) Confirm(context.Context, string) (bool, error) {
	return bool(a), nil
}

// Prompt asks on out and reads the answer from in. Only y/yes confirms.
type Prompt struct {
	In  io.Reader
	Out io.Writer
}

func (p Prompt) Confirm(ctx context.Context, prompt string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if _, err := fmt.Fprintf(p.Out, "%s [y/N]: ", prompt); err != nil {
		return false, err
	}
	line, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
