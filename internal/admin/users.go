package admin

import (
	"fmt"

	"github.com/dmitrijs2005/bizdir/internal/server/auth"
	"github.com/dmitrijs2005/bizdir/internal/server/models"
	"github.com/dmitrijs2005/bizdir/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/bizdir/internal/server/services"
	"github.com/dmitrijs2005/bizdir/internal/server/validation"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

func createAdminCmd(opts *options) *cobra.Command {
	var (
		name      string
		email     string
		cost      int
		fromStdin bool
	)

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		Long: `Create an administrator account directly in the database.

The HTTP API only lets an existing administrator grant the admin flag,
so the first administrator has to be created here.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := getPassword(cmd.InOrStdin(), cmd.ErrOrStderr(), fromStdin)
			if err != nil {
				return err
			}

			db, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			// Bootstrap never issues tokens.
			us, err := services.NewUserService(db, repomanager.NewPostgresRepositoryManager(), auth.NewHasher(cost), nil, validation.New())
			if err != nil {
				return err
			}

			u, err := us.Bootstrap(cmd.Context(), &models.NewUser{Name: name, Email: email, Password: password})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created administrator %s with id %d\n", u.Email, u.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().IntVar(&cost, "cost", bcrypt.DefaultCost, "bcrypt cost")
	cmd.Flags().BoolVar(&fromStdin, "password-stdin", false, "read the password from stdin")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func hashPasswordCmd() *cobra.Command {
	var (
		cost      int
		fromStdin bool
	)

	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Print the bcrypt hash of a password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := getPassword(cmd.InOrStdin(), cmd.ErrOrStderr(), fromStdin)
			if err != nil {
				return err
			}
			hash, err := auth.NewHasher(cost).Hash(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}

	cmd.Flags().IntVar(&cost, "cost", bcrypt.DefaultCost, "bcrypt cost")
	cmd.Flags().BoolVar(&fromStdin, "password-stdin", false, "read the password from stdin")

	return cmd
}
