package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/partsdesk/app/models"
	"github.com/shashiranjanraj/partsdesk/app/services"
)

var (
	loginEmail    string
	loginPassword string

	regName     string
	regEmail    string
	regPassword string
	regConfirm  string
)

// partsdesk login — exchange credentials for a session token.
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := sessionStore()
		auth := services.NewAuthService(publicClient(), store)

		err := auth.Login(cmd.Context(), models.Credentials{
			Email:    loginEmail,
			Password: loginPassword,
		})
		if err != nil {
			return err
		}
		fmt.Println("Logged in.")
		return nil
	},
}

// partsdesk register — create an account, then log in separately.
var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		auth := services.NewAuthService(publicClient(), sessionStore())

		err := auth.Register(cmd.Context(), models.Registration{
			Name:                 regName,
			Email:                regEmail,
			Password:             regPassword,
			PasswordConfirmation: regConfirm,
		})
		if err != nil {
			return err
		}
		fmt.Println("Account created. Run `partsdesk login` to sign in.")
		return nil
	},
}

// partsdesk logout — forget the stored token.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := sessionStore().Clear(); err != nil {
			return err
		}
		fmt.Println("Logged out.")
		return nil
	},
}

// partsdesk status — report whether a session token is stored.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show authentication status",
	RunE: func(cmd *cobra.Command, args []string) error {
		if sessionStore().IsAuthenticated() {
			fmt.Println("Authenticated: a session token is stored.")
		} else {
			fmt.Println("Not authenticated. Run `partsdesk login`.")
		}
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "account password")
	loginCmd.MarkFlagRequired("email")    //nolint:errcheck
	loginCmd.MarkFlagRequired("password") //nolint:errcheck

	registerCmd.Flags().StringVar(&regName, "name", "", "display name")
	registerCmd.Flags().StringVar(&regEmail, "email", "", "account email")
	registerCmd.Flags().StringVar(&regPassword, "password", "", "account password")
	registerCmd.Flags().StringVar(&regConfirm, "confirm", "", "password confirmation")
	registerCmd.MarkFlagRequired("name")     //nolint:errcheck
	registerCmd.MarkFlagRequired("email")    //nolint:errcheck
	registerCmd.MarkFlagRequired("password") //nolint:errcheck
	registerCmd.MarkFlagRequired("confirm")  //nolint:errcheck
}
