package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/NaijaReels/naijareels-go/internal/domain/authz"
	"github.com/NaijaReels/naijareels-go/internal/domain/user"
)

var usersPage int

func init() {
	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(customersCmd)
	rootCmd.AddCommand(analyticsCmd)
	usersCmd.AddCommand(usersSetRoleCmd)
	usersCmd.AddCommand(usersDeleteCmd)

	usersCmd.PersistentFlags().IntVar(&usersPage, "page", 1, "Result page")
	customersCmd.Flags().IntVar(&usersPage, "page", 1, "Result page")
}

func userIDArg(args []string) (int, error) {
	id, err := strconv.Atoi(args[0])
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid user id %q", args[0])
	}
	return id, nil
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List all accounts (admin).",
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := requireView(authz.ViewAdminUsers); err != nil {
			return err
		}

		result, err := app.AdminService.Users(rootCtx, usersPage)
		if err != nil {
			return err
		}

		rows := [][]string{{"ID", "USERNAME", "EMAIL", "ROLE"}}
		for _, u := range result.Results {
			rows = append(rows, []string{fmt.Sprint(u.ID), u.Username, u.Email, string(u.Role)})
		}
		table(rows)
		pageFooter(usersPage, len(result.Results), result.Count)
		return nil
	},
}

var usersSetRoleCmd = &cobra.Command{
	Use:   "set-role [user-id] [role]",
	Short: "Change an account's role (admin).",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireView(authz.ViewAdminUsers); err != nil {
			return err
		}
		id, err := userIDArg(args)
		if err != nil {
			return err
		}

		updated, err := app.AdminService.UpdateUserRole(rootCtx, id, user.Role(args[1]))
		if err != nil {
			return err
		}
		cmd.Printf("%s is now a %s.\n", updated.Username, updated.Role)
		return nil
	},
}

var usersDeleteCmd = &cobra.Command{
	Use:   "delete [user-id]",
	Short: "Delete an account (admin).",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireView(authz.ViewAdminUsers); err != nil {
			return err
		}
		id, err := userIDArg(args)
		if err != nil {
			return err
		}

		if err := app.AdminService.DeleteUser(rootCtx, id); err != nil {
			return err
		}
		cmd.Printf("Deleted user %d.\n", id)
		return nil
	},
}

var customersCmd = &cobra.Command{
	Use:   "customers",
	Short: "List customer accounts (vendor).",
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := requireView(authz.ViewCustomers); err != nil {
			return err
		}

		result, err := app.CustomerService.List(rootCtx, usersPage)
		if err != nil {
			return err
		}

		rows := [][]string{{"ID", "USERNAME", "EMAIL", "PHONE"}}
		for _, u := range result.Results {
			rows = append(rows, []string{fmt.Sprint(u.ID), u.Username, u.Email, u.Phone})
		}
		table(rows)
		pageFooter(usersPage, len(result.Results), result.Count)
		return nil
	},
}

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Show the system analytics rollup (admin).",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := requireView(authz.ViewAdminAnalytics); err != nil {
			return err
		}

		analytics, err := app.AdminService.Analytics(rootCtx)
		if err != nil {
			return err
		}

		cmd.Printf("Customers:      %d\n", analytics.TotalCustomers)
		cmd.Printf("Total rentals:  %d\n", analytics.TotalRentals)
		cmd.Printf("Active rentals: %d\n", analytics.ActiveRentals)
		cmd.Printf("Total revenue:  %s\n", analytics.TotalRevenue)

		if len(analytics.TopMovies) > 0 {
			cmd.Println("\nTop movies:")
			rows := [][]string{{"TITLE", "RENTALS"}}
			for _, top := range analytics.TopMovies {
				rows = append(rows, []string{top.MovieTitle, fmt.Sprint(top.Total)})
			}
			table(rows)
		}
		return nil
	},
}
