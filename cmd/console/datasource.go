package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/musram/middleware-manager-sub002/models"
)

func datasourceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "datasource",
		Short: "Manage backend data sources",
	}
	cmd.AddCommand(
		datasourceListCmd(),
		datasourceActivateCmd(),
		datasourceUpdateCmd(),
		datasourceTestCmd(),
	)
	return cmd
}

func datasourceListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured data sources",
		RunE: func(_ *cobra.Command, _ []string) error {
			s, err := newStores()
			if err != nil {
				return err
			}
			if err := s.datasources.FetchSources(context.Background()); err != nil {
				return err
			}

			active := s.datasources.ActiveSourceName()
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tTYPE\tURL\tACTIVE")
			for name, cfg := range s.datasources.Sources() {
				marker := ""
				if name == active {
					marker = "*"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", name, cfg.Type, cfg.URL, marker)
			}
			return w.Flush()
		},
	}
}

func datasourceActivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "activate <name>",
		Short: "Switch the active data source",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			s, err := newStores()
			if err != nil {
				return err
			}
			if err := s.datasources.SetActive(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Active data source is now %s\n", s.datasources.ActiveSourceName())
			return nil
		},
	}
}

func datasourceUpdateCmd() *cobra.Command {
	var (
		sourceType string
		sourceURL  string
		username   string
		password   string
	)

	cmd := &cobra.Command{
		Use:   "update <name>",
		Short: "Update a data source's connection settings",
		Long: `Updates the named data source. Fields left empty keep their stored
values; in particular the stored password is never overwritten unless a
new one is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			s, err := newStores()
			if err != nil {
				return err
			}
			ctx := context.Background()

			if err := s.datasources.FetchSources(ctx); err != nil {
				return err
			}
			cfg, ok := s.datasources.Sources()[args[0]]
			if !ok {
				return fmt.Errorf("unknown data source: %s", args[0])
			}

			if sourceType != "" {
				cfg.Type = models.DataSourceType(sourceType)
			}
			if sourceURL != "" {
				cfg.URL = sourceURL
			}
			if username != "" {
				cfg.BasicAuth.Username = username
			}
			if password != "" {
				cfg.BasicAuth.Password = password
			}

			if err := s.datasources.UpdateSource(ctx, args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("Updated data source %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&sourceType, "type", "", "source type (pangolin or traefik)")
	cmd.Flags().StringVar(&sourceURL, "url", "", "source API URL")
	cmd.Flags().StringVar(&username, "auth-username", "", "basic auth username")
	cmd.Flags().StringVar(&password, "auth-password", "", "basic auth password")
	return cmd
}

func datasourceTestCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "test [name]",
		Short: "Probe data source connectivity",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			s, err := newStores()
			if err != nil {
				return err
			}
			ctx := context.Background()

			if err := s.datasources.FetchSources(ctx); err != nil {
				return err
			}
			sources := s.datasources.Sources()

			if !all {
				if len(args) != 1 {
					return fmt.Errorf("a data source name is required without --all")
				}
				cfg, ok := sources[args[0]]
				if !ok {
					return fmt.Errorf("unknown data source: %s", args[0])
				}
				status := s.datasources.TestConnection(ctx, args[0], cfg)
				printStatus(args[0], status)
				return nil
			}

			s.datasources.TestAllConnections(ctx)
			for name := range sources {
				printStatus(name, s.datasources.Status(name))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "probe every configured source")
	return cmd
}

func printStatus(name string, status models.ConnectionStatus) {
	if status.Message != "" {
		fmt.Printf("%s: %s (%s)\n", name, status.State, status.Message)
		return
	}
	fmt.Printf("%s: %s\n", name, status.State)
}
