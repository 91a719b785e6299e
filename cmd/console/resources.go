package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/musram/middleware-manager-sub002/models"
	"github.com/musram/middleware-manager-sub002/store"
)

func resourcesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resources",
		Short: "Manage proxied resources",
	}
	cmd.AddCommand(
		resourcesListCmd(),
		resourcesGetCmd(),
		resourcesDeleteCmd(),
		resourcesAttachCmd(),
		resourcesDetachCmd(),
		resourcesChainCmd(),
		resourcesPriorityCmd(),
		resourcesServiceCmd(),
	)
	return cmd
}

func resourcesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List resources",
		RunE: func(_ *cobra.Command, _ []string) error {
			s, err := newStores()
			if err != nil {
				return err
			}
			if err := s.resources.FetchAll(context.Background()); err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tHOST\tSTATUS\tMIDDLEWARES")
			for _, r := range s.resources.Resources() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", r.ID, r.Host, r.Status, len(r.AssignedMiddlewares()))
			}
			return w.Flush()
		},
	}
}

func resourcesGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one resource with its middleware assignments",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			s, err := newStores()
			if err != nil {
				return err
			}

			r, err := s.resources.FetchOne(context.Background(), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("ID:          %s\nHost:        %s\nStatus:      %s\nEntrypoints: %s\nPriority:    %d\n",
				r.ID, r.Host, r.Status, r.Entrypoints, r.RouterPriority)

			assigned := r.AssignedMiddlewares()
			if len(assigned) == 0 {
				return nil
			}

			// Resolve names through the middleware collection so dangling
			// references show up as unknown instead of breaking the listing.
			if err := s.middlewares.FetchAll(context.Background()); err != nil {
				return err
			}

			fmt.Println("Middlewares:")
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			for _, a := range assigned {
				lookup := s.middlewares.Resolve(a.MiddlewareID)
				fmt.Fprintf(w, "  %s\t%s\tpriority=%d\n", a.MiddlewareID, lookup.DisplayName(), a.Priority)
			}
			return w.Flush()
		},
	}
}

func resourcesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a disabled resource",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			s, err := newStores()
			if err != nil {
				return err
			}
			if err := s.resources.Delete(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted resource %s\n", args[0])
			return nil
		},
	}
}

func resourcesAttachCmd() *cobra.Command {
	var priority int

	cmd := &cobra.Command{
		Use:   "attach <resource-id> <middleware-id>",
		Short: "Attach a middleware to a resource",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			s, err := newStores()
			if err != nil {
				return err
			}
			if err := s.resources.AssignMiddleware(context.Background(), args[0], args[1], priority); err != nil {
				return err
			}
			fmt.Printf("Attached middleware %s to resource %s\n", args[1], args[0])
			return nil
		},
	}

	cmd.Flags().IntVar(&priority, "priority", 100, "application priority")
	return cmd
}

func resourcesDetachCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detach <resource-id> <middleware-id>",
		Short: "Detach a middleware from a resource",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			s, err := newStores()
			if err != nil {
				return err
			}
			if err := s.resources.RemoveMiddleware(context.Background(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("Detached middleware %s from resource %s\n", args[1], args[0])
			return nil
		},
	}
}

func resourcesChainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chain <resource-id> <middleware-id>...",
		Short: "Replace a resource's middleware set, preserving existing order",
		Long: `Reconciles the resource's middleware assignments against the given
selection: middlewares already attached keep their relative order,
deselected ones are detached, newly selected ones are appended. Priorities
are reassigned by position.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			s, err := newStores()
			if err != nil {
				return err
			}
			ctx := context.Background()

			r, err := s.resources.FetchOne(ctx, args[0])
			if err != nil {
				return err
			}

			current := r.AssignedMiddlewares()
			currentOrder := make([]string, 0, len(current))
			for _, a := range current {
				currentOrder = append(currentOrder, a.MiddlewareID)
			}

			selection := args[1:]
			order := store.ApplySelectionDelta(currentOrder, selection)

			keep := make(map[string]bool, len(order))
			for _, id := range order {
				keep[id] = true
			}
			for _, a := range current {
				if !keep[a.MiddlewareID] {
					if err := s.resources.RemoveMiddleware(ctx, args[0], a.MiddlewareID); err != nil {
						return err
					}
				}
			}

			assignments := make([]models.ResourceMiddleware, 0, len(order))
			for i, id := range order {
				assignments = append(assignments, models.ResourceMiddleware{
					ResourceID:   args[0],
					MiddlewareID: id,
					Priority:     (i + 1) * 10,
				})
			}
			if len(assignments) > 0 {
				if err := s.resources.AssignMultipleMiddlewares(ctx, args[0], assignments); err != nil {
					return err
				}
			}

			fmt.Printf("Resource %s now has %d middlewares\n", args[0], len(assignments))
			return nil
		},
	}
}

func resourcesPriorityCmd() *cobra.Command {
	var priority int

	cmd := &cobra.Command{
		Use:   "priority <resource-id>",
		Short: "Set a resource's router priority",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			s, err := newStores()
			if err != nil {
				return err
			}
			if err := s.resources.UpdateRouterPriority(context.Background(), args[0], priority); err != nil {
				return err
			}
			fmt.Printf("Resource %s router priority set to %d\n", args[0], priority)
			return nil
		},
	}

	cmd.Flags().IntVar(&priority, "value", 100, "router priority")
	return cmd
}

func resourcesServiceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "service",
		Short: "Manage a resource's custom service binding",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get <resource-id>",
		Short: "Show the custom service bound to a resource",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			s, err := newStores()
			if err != nil {
				return err
			}
			binding, err := s.resources.FetchResourceService(context.Background(), args[0])
			if err != nil {
				return err
			}
			if binding == nil {
				fmt.Println("No custom service assigned")
				return nil
			}
			fmt.Printf("Resource %s uses service %s\n", binding.ResourceID, binding.ServiceID)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <resource-id> <service-id>",
		Short: "Bind a custom service to a resource",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			s, err := newStores()
			if err != nil {
				return err
			}
			if err := s.resources.AssignService(context.Background(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("Bound service %s to resource %s\n", args[1], args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "unset <resource-id>",
		Short: "Remove a resource's custom service binding",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			s, err := newStores()
			if err != nil {
				return err
			}
			if err := s.resources.RemoveService(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Removed custom service from resource %s\n", args[0])
			return nil
		},
	})

	return cmd
}
