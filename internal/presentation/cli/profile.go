package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/NaijaReels/naijareels-go/internal/domain/authz"
	"github.com/NaijaReels/naijareels-go/internal/domain/user"
)

var (
	profileFirstName string
	profileLastName  string
	profilePhone     string

	oldPassword string
	newPassword string
)

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileUpdateCmd)
	profileCmd.AddCommand(changePasswordCmd)

	profileUpdateCmd.Flags().StringVar(&profileFirstName, "first-name", "", "First name")
	profileUpdateCmd.Flags().StringVar(&profileLastName, "last-name", "", "Last name")
	profileUpdateCmd.Flags().StringVar(&profilePhone, "phone", "", "Phone number")

	changePasswordCmd.Flags().StringVar(&oldPassword, "old", "", "Current password")
	changePasswordCmd.Flags().StringVar(&newPassword, "new", "", "New password")
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show your profile.",
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

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update your profile.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := requireView(authz.ViewProfile); err != nil {
			return err
		}
		if profileFirstName == "" && profileLastName == "" && profilePhone == "" {
			return fmt.Errorf("nothing to update: pass --first-name, --last-name, or --phone")
		}

		identity, err := app.AuthService.UpdateProfile(rootCtx, user.ProfileUpdate{
			FirstName: profileFirstName,
			LastName:  profileLastName,
			Phone:     profilePhone,
		})
		if err != nil {
			return err
		}
		cmd.Printf("Profile updated for %s.\n", identity.Username)
		return nil
	},
}

var changePasswordCmd = &cobra.Command{
	Use:   "change-password",
	Short: "Change your password.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := requireView(authz.ViewProfile); err != nil {
			return err
		}
		if oldPassword == "" || newPassword == "" {
			return fmt.Errorf("--old and --new are required")
		}

		err := app.AuthService.ChangePassword(rootCtx, user.PasswordChange{
			OldPassword: oldPassword,
			NewPassword: newPassword,
		})
		if err != nil {
			return err
		}
		cmd.Println("Password changed.")
		return nil
	},
}
