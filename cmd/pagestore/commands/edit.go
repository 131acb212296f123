package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/dokzlo13/pagestore/internal/stores"
)

func newAddCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <page> <collection> <json>",
		Short: "Append one entity to a collection",
		Long: `Appends a JSON object to a collection and prints its id.
An object without "id" gets a generated UUID.`,
		Example: `  pagestore add shop products '{"name":"Chargeur","price":19.9,"status":"active"}'`,
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withPage(args[0], func(r *stores.Registry) error {
				c, err := r.Collection(args[1])
				if err != nil {
					return err
				}
				id, err := c.Append([]byte(args[2]))
				if err != nil {
					return err
				}
				log.Info().Str("key", c.Key()).Str("id", id).Msg("Added entity")
				fmt.Fprintln(cmd.OutOrStdout(), id)
				return nil
			})
		},
	}
}

func newRemoveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <page> <collection> <id>",
		Short: "Remove an entity from a collection by id",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withPage(args[0], func(r *stores.Registry) error {
				c, err := r.Collection(args[1])
				if err != nil {
					return err
				}
				removed, err := c.Remove(args[2])
				if err != nil {
					return err
				}
				if !removed {
					return fmt.Errorf("%s/%s: %w", c.Key(), args[2], stores.ErrNotFound)
				}
				log.Info().Str("key", c.Key()).Str("id", args[2]).Msg("Removed entity")
				return nil
			})
		},
	}
}

func newResetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset <page> [collection]",
		Short: "Clear a page or one collection and reseed it",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withPage(args[0], func(r *stores.Registry) error {
				if len(args) == 1 {
					if err := r.Reset(); err != nil {
						return err
					}
					log.Info().Str("page", r.Page()).Msg("Reset page")
					return nil
				}
				c, err := r.Collection(args[1])
				if err != nil {
					return err
				}
				if err := c.Reset(); err != nil {
					return err
				}
				log.Info().Str("key", c.Key()).Msg("Reset collection")
				return nil
			})
		},
	}
}
