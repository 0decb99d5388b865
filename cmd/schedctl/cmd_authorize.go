package main

import (
	"room-scheduler/internal/core/services"

	"github.com/spf13/cobra"
)

// authorizeResult is printed by the authorize command
type authorizeResult struct {
	Path       string `json:"path"`
	Outcome    string `json:"outcome"`
	RedirectTo string `json:"redirect_to,omitempty"`
	State      string `json:"state"`
	Purged     bool   `json:"purged"`
}

func newAuthorizeCmd(opts *globalOptions) *cobra.Command {
	var credential string

	cmd := &cobra.Command{
		Use:   "authorize <path>",
		Short: "Evaluate a dashboard navigation for a credential",
		Long: `Runs the dashboard route table against a credential, exactly as the
gateway does on every page load. Without --credential the navigation is
evaluated for a signed-out user.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			now, err := opts.clock()
			if err != nil {
				return err
			}

			authorizer := services.NewRouteAuthorizer(services.DefaultRoleHomes(), now, opts.logger())
			store := services.NewMemoryCredentialStore(credential)
			decision := authorizer.AuthorizePath(store, services.DashboardRoutes(), args[0])

			return printJSON(cmd.OutOrStdout(), authorizeResult{
				Path:       args[0],
				Outcome:    string(decision.Outcome),
				RedirectTo: decision.RedirectTo,
				State:      decision.State.String(),
				Purged:     decision.Purged,
			})
		},
	}
	cmd.Flags().StringVarP(&credential, "credential", "c", "", "bearer credential to evaluate")
	return cmd
}
