package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rodaworks/academy/internal/data"
	domainauth "github.com/rodaworks/academy/internal/domain/auth"
	"github.com/rodaworks/academy/internal/domain/model"
	"github.com/rodaworks/academy/internal/service"
)

func newUserCommand(logger *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts directly in the database",
	}

	cmd.AddCommand(
		newUserCreateCommand(logger),
		newUserListCommand(logger),
		newUserSetRoleCommand(logger),
		newUserSetPasswordCommand(logger),
		newUserDeactivateCommand(logger),
	)

	return cmd
}

// withUserService runs fn with a user service wired straight onto the database.
func withUserService(ctx context.Context, logger *slog.Logger, fn func(context.Context, *service.UserService) error) error {
	return withDB(ctx, logger, func(ctx context.Context, db *sql.DB) error {
		svc := service.NewUserService(service.UserServiceOptions{Users: data.NewUserRepo(db)})
		return fn(ctx, svc)
	})
}

func parseRoleFlag(value string) (domainauth.Role, error) {
	role, ok := domainauth.ParseRole(value)
	if !ok {
		return "", fmt.Errorf("unknown role %q (valid: admin, manager, instructor, student)", value)
	}
	return role, nil
}

func newUserCreateCommand(logger *slog.Logger) *cobra.Command {
	var (
		name     string
		email    string
		roleName string
		password string
		phone    string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account with an explicit role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			role, err := parseRoleFlag(roleName)
			if err != nil {
				return err
			}

			req := &model.CreateUserRequest{
				Name:     name,
				Email:    email,
				Role:     role,
				Password: password,
			}
			if phone != "" {
				req.Phone = &phone
			}

			return withUserService(cmd.Context(), logger, func(ctx context.Context, svc *service.UserService) error {
				user, err := svc.Create(ctx, req)
				if err != nil {
					return err
				}
				logger.InfoContext(ctx, "user created", "id", user.ID, "email", user.Email, "role", user.Role)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&roleName, "role", "student", "account role")
	cmd.Flags().StringVar(&password, "password", "", "initial password")
	cmd.Flags().StringVar(&phone, "phone", "", "contact phone (optional)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newUserListCommand(logger *slog.Logger) *cobra.Command {
	var (
		roleName   string
		activeOnly bool
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := model.UsersListOptions{Limit: limit}
			if roleName != "" {
				role, err := parseRoleFlag(roleName)
				if err != nil {
					return err
				}
				opts.Role = &role
			}
			if activeOnly {
				active := true
				opts.Active = &active
			}

			return withUserService(cmd.Context(), logger, func(ctx context.Context, svc *service.UserService) error {
				users, err := svc.List(ctx, opts)
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE\tACTIVE\tCREATED")
				for _, u := range users {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\t%s\n",
						u.ID, u.Name, u.Email, u.Role, u.Active, u.CreatedAt.Format("2006-01-02"))
				}
				return w.Flush()
			})
		},
	}

	cmd.Flags().StringVar(&roleName, "role", "", "filter by role")
	cmd.Flags().BoolVar(&activeOnly, "active", false, "only active accounts")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum rows")

	return cmd
}

func newUserSetRoleCommand(logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "set-role <user-id> <role>",
		Short: "Change an account's role",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := parseRoleFlag(args[1])
			if err != nil {
				return err
			}

			return withUserService(cmd.Context(), logger, func(ctx context.Context, svc *service.UserService) error {
				user, err := svc.Update(ctx, args[0], model.UpdateUserRequest{Role: &role})
				if err != nil {
					return err
				}
				logger.InfoContext(ctx, "role updated", "id", user.ID, "email", user.Email, "role", user.Role)
				return nil
			})
		},
	}
}

func newUserSetPasswordCommand(logger *slog.Logger) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "set-password <user-id>",
		Short: "Reset an account password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUserService(cmd.Context(), logger, func(ctx context.Context, svc *service.UserService) error {
				if err := svc.SetPassword(ctx, args[0], password); err != nil {
					return err
				}
				logger.InfoContext(ctx, "password updated", "id", args[0])
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "new password")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newUserDeactivateCommand(logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate <user-id>",
		Short: "Deactivate an account without deleting it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUserService(cmd.Context(), logger, func(ctx context.Context, svc *service.UserService) error {
				active := false
				user, err := svc.Update(ctx, args[0], model.UpdateUserRequest{Active: &active})
				if err != nil {
					return err
				}
				logger.InfoContext(ctx, "user deactivated", "id", user.ID, "email", user.Email)
				return nil
			})
		},
	}
}
