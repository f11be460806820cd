package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/briancappello/starter/internal/domain"
	usersvc "github.com/briancappello/starter/internal/service/user"
)

const listPageSize = 100

type userAdmin interface {
	Create(ctx context.Context, input usersvc.CreateInput, sendEmail bool) (*domain.User, error)
	Activate(ctx context.Context, email string) (*domain.User, error)
	Deactivate(ctx context.Context, email string) (*domain.User, error)
	Promote(ctx context.Context, email string) (*domain.User, error)
	Verify(ctx context.Context, email string, sendEmail bool) (*domain.User, error)
	SetPassword(ctx context.Context, email, password string, sendEmail bool) (*domain.User, error)
	Delete(ctx context.Context, email string, sendEmail bool) error
	List(ctx context.Context, limit, offset uint64) ([]*domain.User, int64, error)
}

func newUsersCommand(opts *RootOptions, d *deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage users",
	}

	// withUsers opens the user service for the duration of fn.
	withUsers := func(fn func(cmd *cobra.Command, svc userAdmin) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			svc, closeFn, err := d.users(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer closeFn()
			return fn(cmd, svc)
		}
	}

	cmd.AddCommand(
		newUsersCreateCommand(withUsers),
		newUsersFlagCommand(withUsers, "activate", "Activate a user", "Successfully activated user", userAdmin.Activate),
		newUsersFlagCommand(withUsers, "deactivate", "Deactivate a user", "Successfully deactivated user", userAdmin.Deactivate),
		newUsersFlagCommand(withUsers, "promote", "Grant superuser rights to a user", "Successfully promoted user", userAdmin.Promote),
		newUsersVerifyCommand(withUsers),
		newUsersSetPasswordCommand(withUsers),
		newUsersDeleteCommand(withUsers),
		newUsersListCommand(withUsers),
	)
	return cmd
}

type usersRunner func(fn func(cmd *cobra.Command, svc userAdmin) error) func(*cobra.Command, []string) error

func newUsersCreateCommand(withUsers usersRunner) *cobra.Command {
	var (
		in                  usersvc.CreateInput
		noVerify, sendEmail bool
		superuser           bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new user",
		Args:  cobra.NoArgs,
		RunE: withUsers(func(cmd *cobra.Command, svc userAdmin) error {
			p := newPrompter(cmd)
			for _, f := range []struct {
				v     *string
				label string
			}{
				{&in.Email, "Email"},
				{&in.FirstName, "First name"},
				{&in.LastName, "Last name"},
			} {
				if err := p.fill(f.v, f.label); err != nil {
					return err
				}
			}
			if err := p.password(&in.Password); err != nil {
				return err
			}
			if noVerify {
				in.IsVerified = false
			}
			in.IsSuperuser = superuser

			u, err := svc.Create(cmd.Context(), in, sendEmail)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Successfully created user: %s\n", u.Email)
			return nil
		}),
	}

	f := cmd.Flags()
	f.StringVarP(&in.Email, "email", "e", "", "the user's email")
	f.StringVarP(&in.FirstName, "first-name", "f", "", "the user's first name")
	f.StringVarP(&in.LastName, "last-name", "l", "", "the user's last name")
	f.StringVarP(&in.Password, "password", "p", "", "the user's password (prompted when omitted)")
	f.BoolVar(&in.IsVerified, "verify", true, "mark the user's email as verified")
	f.BoolVar(&noVerify, "no-verify", false, "leave the user's email unverified")
	f.BoolVar(&superuser, "superuser", false, "grant superuser rights")
	f.BoolVar(&sendEmail, "send-email", false, "send the welcome email")
	cmd.MarkFlagsMutuallyExclusive("verify", "no-verify")
	return cmd
}

func newUsersFlagCommand(
	withUsers usersRunner,
	use, short, done string,
	op func(svc userAdmin, ctx context.Context, email string) (*domain.User, error),
) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: withUsers(func(cmd *cobra.Command, svc userAdmin) error {
			u, err := op(svc, cmd.Context(), email)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", done, u.Email)
			return nil
		}),
	}
	emailFlag(cmd, &email)
	return cmd
}

func newUsersVerifyCommand(withUsers usersRunner) *cobra.Command {
	var (
		email     string
		sendEmail bool
	)
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Mark a user's email as verified",
		Args:  cobra.NoArgs,
		RunE: withUsers(func(cmd *cobra.Command, svc userAdmin) error {
			u, err := svc.Verify(cmd.Context(), email, sendEmail)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Successfully verified user: %s\n", u.Email)
			return nil
		}),
	}
	emailFlag(cmd, &email)
	cmd.Flags().BoolVar(&sendEmail, "send-email", false, "notify the user by email")
	return cmd
}

func newUsersSetPasswordCommand(withUsers usersRunner) *cobra.Command {
	var (
		email, password string
		sendEmail       bool
	)
	cmd := &cobra.Command{
		Use:   "set-password",
		Short: "Set a user's password",
		Args:  cobra.NoArgs,
		RunE: withUsers(func(cmd *cobra.Command, svc userAdmin) error {
			if err := newPrompter(cmd).password(&password); err != nil {
				return err
			}
			u, err := svc.SetPassword(cmd.Context(), email, password, sendEmail)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Successfully set password for user: %s\n", u.Email)
			return nil
		}),
	}
	emailFlag(cmd, &email)
	cmd.Flags().StringVarP(&password, "password", "p", "", "the new password (prompted when omitted)")
	cmd.Flags().BoolVar(&sendEmail, "send-email", false, "notify the user by email")
	return cmd
}

func newUsersDeleteCommand(withUsers usersRunner) *cobra.Command {
	var (
		email     string
		sendEmail bool
	)
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a user",
		Args:  cobra.NoArgs,
		RunE: withUsers(func(cmd *cobra.Command, svc userAdmin) error {
			if err := svc.Delete(cmd.Context(), email, sendEmail); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Successfully deleted user: %s\n", email)
			return nil
		}),
	}
	emailFlag(cmd, &email)
	cmd.Flags().BoolVar(&sendEmail, "send-email", false, "notify the user by email")
	return cmd
}

func newUsersListCommand(withUsers usersRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: withUsers(func(cmd *cobra.Command, svc userAdmin) error {
			var all []*domain.User
			for offset := uint64(0); ; offset += listPageSize {
				page, total, err := svc.List(cmd.Context(), listPageSize, offset)
				if err != nil {
					return err
				}
				all = append(all, page...)
				if len(page) < listPageSize || int64(len(all)) >= total {
					break
				}
			}
			return printUsers(cmd.OutOrStdout(), all)
		}),
	}
}

func printUsers(w io.Writer, users []*domain.User) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEmail\tFirst Name\tLast Name\tIs Active\tIs Verified\tIs Superuser")
	for _, u := range users {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%t\t%t\t%t\n",
			u.ID, u.Email, u.FirstName, u.LastName, u.IsActive, u.IsVerified, u.IsSuperuser)
	}
	return tw.Flush()
}

func emailFlag(cmd *cobra.Command, email *string) {
	cmd.Flags().StringVarP(email, "email", "e", "", "the user's email")
	_ = cmd.MarkFlagRequired("email")
}
