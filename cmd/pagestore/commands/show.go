package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dokzlo13/pagestore/internal/stores"
)

func newShowCmd(opts *rootOptions) *cobra.Command {
	var compact bool

	cmd := &cobra.Command{
		Use:   "show <page> [collection]",
		Short: "Print the persisted JSON of a page or one of its collections",
		Long: `Hydrates the page (seeding collections that are missing or corrupt) and prints
each collection indented, as encoded. With --compact the value under each
collection key is printed exactly as stored.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withPage(args[0], func(r *stores.Registry) error {
				out := cmd.OutOrStdout()
				if len(args) == 2 {
					c, err := r.Collection(args[1])
					if err != nil {
						return err
					}
					return printCollection(out, c, compact)
				}
				for _, c := range r.Collections() {
					printHeader(out, c.Key(), c.Len())
					if err := printCollection(out, c, compact); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&compact, "compact", false, "Print the stored value as is")
	return cmd
}

func printCollection(out io.Writer, c stores.Collection, compact bool) error {
	if compact {
		raw, _, err := c.Stored()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, raw)
		return err
	}
	blob, err := c.Encoded()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(blob), "", "  "); err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, buf.String())
	return err
}
