package main

import (
	"cmp"
	"fmt"
	"os"

	"survival-index/internal/common"
	"survival-index/internal/domain"
	"survival-index/internal/seed"

	"github.com/spf13/cobra"
)

func (c *cli) seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the sample projects and the admin account (ADMIN_EMAIL, ADMIN_PASSWORD, ADMIN_NAME)",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), c.cfg, false)
			if err != nil {
				return err
			}
			defer a.Close()

			admin := adminFromEnv()
			res, err := seed.Run(cmd.Context(), a.projects, a.auth, admin)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "🌱 %d projects created, %d already present\n", res.Created, res.Skipped)
			if res.AdminCreated {
				fmt.Fprintf(out, "👤 admin created: %s\n", admin.Email)
				if admin.Password == seed.DefaultAdmin.Password {
					fmt.Fprintln(out, "⚠️ default admin password in use, change it before going live")
				}
			}
			return nil
		},
	}
}

func adminFromEnv() seed.Admin {
	return seed.Admin{
		Email:    cmp.Or(os.Getenv("ADMIN_EMAIL"), seed.DefaultAdmin.Email),
		Password: cmp.Or(os.Getenv("ADMIN_PASSWORD"), seed.DefaultAdmin.Password),
		Name:     cmp.Or(os.Getenv("ADMIN_NAME"), seed.DefaultAdmin.Name),
	}
}

func (c *cli) createUserCmd() *cobra.Command {
	var email, password, role, name string

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a user account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" || password == "" {
				return common.InvalidInput("--email and --password are required")
			}
			a, err := newApp(cmd.Context(), c.cfg, false)
			if err != nil {
				return err
			}
			defer a.Close()

			u, err := a.auth.CreateUser(cmd.Context(), email, password, domain.Role(role), name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "👤 created %s user %s (id %d)\n", u.Role, u.Email, u.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "login password")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleUser), "user or admin")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	return cmd
}
