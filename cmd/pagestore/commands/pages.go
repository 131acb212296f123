package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dokzlo13/pagestore/internal/pages"
	"github.com/dokzlo13/pagestore/internal/storage/kv"
)

func newPagesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pages",
		Short: "List pages and the storage keys of their collections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Registries are only built, never hydrated, so nothing touches storage.
			probe := kv.NewMemoryBucket(opts.cfg.Storage.Bucket)
			out := cmd.OutOrStdout()
			for _, name := range pages.Names() {
				p, err := pages.Lookup(name)
				if err != nil {
					return err
				}
				r := p.New(probe)
				pageColor.Fprintln(out, name)
				for _, c := range r.Names() {
					fmt.Fprintf(out, "  %s\n", r.Key(c))
				}
			}
			return nil
		},
	}
}
