package main

import (
	"context"

	"github.com/dmitrijs2005/parking/internal/common"
	"github.com/dmitrijs2005/parking/internal/server"
	"github.com/dmitrijs2005/parking/internal/server/services"
	"github.com/spf13/cobra"
)

// NewAdminCmd groups administrator maintenance commands.
func NewAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage administrator accounts",
	}
	cmd.AddCommand(NewAdminCreateCmd())
	return cmd
}

// NewAdminCreateCmd creates an administrator directly in the store. The
// password is read from the terminal.
func NewAdminCreateCmd() *cobra.Command {
	var in services.RegisterAdminInput

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an administrator account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pw, err := GetConfirmedPassword(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer common.WipeByteArray(pw)
			in.Password = string(pw)

			return withApp(cmd, func(ctx context.Context, app *server.App) error {
				if err := app.Prepare(ctx); err != nil {
					return err
				}
				p, err := app.CreateAdministrator(ctx, in)
				if err != nil {
					return err
				}
				cmd.Printf("administrator %s created (id %s)\n", p.Email, p.ID)
				return nil
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&in.FirstName, "nombre", "", "first name")
	f.StringVar(&in.LastName, "apellido", "", "last name")
	f.StringVar(&in.NationalID, "cedula", "", "national id number")
	f.StringVar(&in.Email, "email", "", "login e-mail")
	f.StringVar(&in.Phone, "telefono", "", "phone number")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}
