package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/musram/middleware-manager-sub002/config"
	"github.com/musram/middleware-manager-sub002/store"
)

func middlewaresCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "middlewares",
		Short: "Manage middleware definitions",
	}
	cmd.AddCommand(
		middlewaresListCmd(),
		middlewaresGetCmd(),
		middlewaresCreateCmd(),
		middlewaresUpdateCmd(),
		middlewaresDeleteCmd(),
		middlewaresTypesCmd(),
		middlewaresTemplateCmd(),
	)
	return cmd
}

func middlewaresListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List middleware definitions",
		RunE: func(_ *cobra.Command, _ []string) error {
			s, err := newStores()
			if err != nil {
				return err
			}
			if err := s.middlewares.FetchAll(context.Background()); err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tTYPE")
			for _, m := range s.middlewares.Middlewares() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", m.ID, m.Name, m.Type)
			}
			return w.Flush()
		},
	}
}

func middlewaresGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one middleware with its configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			s, err := newStores()
			if err != nil {
				return err
			}
			m, err := s.middlewares.FetchOne(context.Background(), args[0])
			if err != nil {
				return err
			}

			configJSON, err := m.ConfigJSON()
			if err != nil {
				return err
			}
			fmt.Printf("ID:     %s\nName:   %s\nType:   %s\nConfig: %s\n", m.ID, m.Name, m.Type, configJSON)
			return nil
		},
	}
}

func middlewaresCreateCmd() *cobra.Command {
	var configText string

	cmd := &cobra.Command{
		Use:   "create <name> <type>",
		Short: "Create a middleware",
		Long: `Creates a middleware of the given type. Without --config the
canonical default configuration for the type is used.`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			registry, err := config.NewTemplateRegistry()
			if err != nil {
				return err
			}

			if configText == "" {
				configText = registry.TemplateFor(config.MiddlewareKind, args[1])
			}
			cfg, err := store.ParseConfig(configText)
			if err != nil {
				return err
			}

			s, err := newStores()
			if err != nil {
				return err
			}
			created, err := s.middlewares.Create(context.Background(), store.MiddlewareInput{
				Name:   args[0],
				Type:   args[1],
				Config: cfg,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Created middleware %s (%s)\n", created.Name, created.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&configText, "config", "", "configuration JSON")
	return cmd
}

func middlewaresUpdateCmd() *cobra.Command {
	var configText string

	cmd := &cobra.Command{
		Use:   "update <id> <name>",
		Short: "Update a middleware's name and configuration",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			s, err := newStores()
			if err != nil {
				return err
			}

			current, err := s.middlewares.FetchOne(context.Background(), args[0])
			if err != nil {
				return err
			}

			cfg := current.Config
			if configText != "" {
				cfg, err = store.ParseConfig(configText)
				if err != nil {
					return err
				}
			}

			updated, err := s.middlewares.Update(context.Background(), args[0], store.MiddlewareInput{
				Name:   args[1],
				Type:   current.Type,
				Config: cfg,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Updated middleware %s (%s)\n", updated.Name, updated.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&configText, "config", "", "configuration JSON (unchanged when omitted)")
	return cmd
}

func middlewaresDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a middleware",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			s, err := newStores()
			if err != nil {
				return err
			}
			if err := s.middlewares.Delete(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted middleware %s\n", args[0])
			return nil
		},
	}
}

func middlewaresTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List supported middleware types",
		RunE: func(_ *cobra.Command, _ []string) error {
			registry, err := config.NewTemplateRegistry()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TYPE\tDESCRIPTION")
			for _, variant := range registry.Variants(config.MiddlewareKind) {
				info, _ := registry.DescribeVariant(config.MiddlewareKind, variant)
				fmt.Fprintf(w, "%s\t%s\n", variant, info.Description)
			}
			return w.Flush()
		},
	}
}

func middlewaresTemplateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "template <type>",
		Short: "Print the default configuration for a middleware type",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			registry, err := config.NewTemplateRegistry()
			if err != nil {
				return err
			}
			fmt.Println(registry.TemplateFor(config.MiddlewareKind, args[0]))
			return nil
		},
	}
}
