package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/NaijaReels/naijareels-go/internal/domain/authz"
	"github.com/NaijaReels/naijareels-go/internal/domain/user"
)

var (
	loginUsername string
	loginPassword string

	registerEmail string
	registerPhone string
)

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)

	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Account username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Account password (prompted when omitted)")

	registerCmd.Flags().StringVarP(&registerEmail, "email", "e", "", "Account email")
	registerCmd.Flags().StringVar(&registerPhone, "phone", "", "Phone number")
	registerCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Account password (prompted when omitted)")
}

func promptPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and persist the session locally.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if loginUsername == "" {
			return fmt.Errorf("--username is required")
		}
		if loginPassword == "" {
			var err error
			if loginPassword, err = promptPassword(); err != nil {
				return err
			}
		}

		identity, err := app.AuthService.Login(rootCtx, user.LoginCredentials{
			Username: loginUsername,
			Password: loginPassword,
		})
		if err != nil {
			return err
		}

		if identity != nil {
			cmd.Printf("Signed in as %s (%s).\n", identity.Username, identity.Role)
		} else {
			cmd.Println("Signed in.")
		}
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register [username]",
	Short: "Create a customer account and sign in.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if registerEmail == "" {
			return fmt.Errorf("--email is required")
		}
		if loginPassword == "" {
			var err error
			if loginPassword, err = promptPassword(); err != nil {
				return err
			}
		}

		identity, err := app.AuthService.Register(rootCtx, user.Registration{
			Username: args[0],
			Email:    registerEmail,
			Password: loginPassword,
			Phone:    registerPhone,
		})
		if err != nil {
			return err
		}

		if identity != nil {
			cmd.Printf("Welcome, %s. You are signed in.\n", identity.Username)
		} else {
			cmd.Println("Account created and signed in.")
		}
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear the local session.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app.AuthService.Logout()
		cmd.Println("Signed out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := requireView(authz.ViewProfile); err != nil {
			return err
		}

		identity, err := app.AuthService.Profile(rootCtx)
		if err != nil {
			return err
		}

		cmd.Printf("Username: %s\n", identity.Username)
		cmd.Printf("Email:    %s\n", identity.Email)
		if identity.Phone != "" {
			cmd.Printf("Phone:    %s\n", identity.Phone)
		}
		cmd.Printf("Role:     %s\n", identity.Role)
		return nil
	},
}
