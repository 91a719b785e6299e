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

func servicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "services",
		Short: "Manage service definitions",
	}
	cmd.AddCommand(
		servicesListCmd(),
		servicesGetCmd(),
		servicesCreateCmd(),
		servicesUpdateCmd(),
		servicesDeleteCmd(),
		servicesTypesCmd(),
	)
	return cmd
}

func servicesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List service definitions",
		RunE: func(_ *cobra.Command, _ []string) error {
			s, err := newStores()
			if err != nil {
				return err
			}
			if err := s.services.FetchAll(context.Background()); err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tTYPE")
			for _, svc := range s.services.Services() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", svc.ID, svc.Name, svc.Type)
			}
			return w.Flush()
		},
	}
}

func servicesGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one service with its configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			s, err := newStores()
			if err != nil {
				return err
			}
			svc, err := s.services.FetchOne(context.Background(), args[0])
			if err != nil {
				return err
			}

			configJSON, err := svc.ConfigJSON()
			if err != nil {
				return err
			}
			fmt.Printf("ID:     %s\nName:   %s\nType:   %s\nConfig: %s\n", svc.ID, svc.Name, svc.Type, configJSON)

			if refs := svc.ReferencedServiceNames(); len(refs) > 0 {
				fmt.Println("References:")
				for _, ref := range refs {
					lookup := s.services.ResolveName(ref)
					fmt.Printf("  %s\n", lookup.DisplayName())
				}
			}
			return nil
		},
	}
}

func servicesCreateCmd() *cobra.Command {
	var configText string

	cmd := &cobra.Command{
		Use:   "create <name> <type>",
		Short: "Create a service",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			registry, err := config.NewTemplateRegistry()
			if err != nil {
				return err
			}

			if configText == "" {
				configText = registry.TemplateFor(config.ServiceKind, args[1])
			}
			cfg, err := store.ParseConfig(configText)
			if err != nil {
				return err
			}

			s, err := newStores()
			if err != nil {
				return err
			}
			created, err := s.services.Create(context.Background(), store.ServiceInput{
				Name:   args[0],
				Type:   args[1],
				Config: cfg,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Created service %s (%s)\n", created.Name, created.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&configText, "config", "", "configuration JSON")
	return cmd
}

func servicesUpdateCmd() *cobra.Command {
	var configText string

	cmd := &cobra.Command{
		Use:   "update <id> <name>",
		Short: "Update a service's name and configuration",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			s, err := newStores()
			if err != nil {
				return err
			}

			current, err := s.services.FetchOne(context.Background(), args[0])
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

			updated, err := s.services.Update(context.Background(), args[0], store.ServiceInput{
				Name:   args[1],
				Type:   current.Type,
				Config: cfg,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Updated service %s (%s)\n", updated.Name, updated.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&configText, "config", "", "configuration JSON (unchanged when omitted)")
	return cmd
}

func servicesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a service",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			s, err := newStores()
			if err != nil {
				return err
			}
			if err := s.services.Delete(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted service %s\n", args[0])
			return nil
		},
	}
}

func servicesTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List supported service types",
		RunE: func(_ *cobra.Command, _ []string) error {
			registry, err := config.NewTemplateRegistry()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TYPE\tDESCRIPTION")
			for _, variant := range registry.Variants(config.ServiceKind) {
				info, _ := registry.DescribeVariant(config.ServiceKind, variant)
				fmt.Fprintf(w, "%s\t%s\n", variant, info.Description)
			}
			return w.Flush()
		},
	}
}
