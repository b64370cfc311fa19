package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/NaijaReels/naijareels-go/internal/application/services"
	"github.com/NaijaReels/naijareels-go/internal/domain/authz"
)

var (
	rentalsPage int
	rentalsAll  bool
	returnMovie int
)

func init() {
	rootCmd.AddCommand(rentCmd)
	rootCmd.AddCommand(returnCmd)
	rootCmd.AddCommand(rentalsCmd)
	rootCmd.AddCommand(vendorRentalsCmd)

	rentalsCmd.Flags().IntVar(&rentalsPage, "page", 1, "Result page")
	rentalsCmd.Flags().BoolVar(&rentalsAll, "all", false,
		"List rentals across every customer (vendor or admin)")
	vendorRentalsCmd.Flags().IntVar(&rentalsPage, "page", 1, "Result page")
	returnCmd.Flags().IntVar(&returnMovie, "movie", 0,
		"Movie id of the rental, for immediate availability update")
}

var rentCmd = &cobra.Command{
	Use:   "rent [movie-id]",
	Short: "Rent one copy of a movie.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireView(authz.ViewMyRentals); err != nil {
			return err
		}
		id, err := strconv.Atoi(args[0])
		if err != nil || id < 1 {
			return fmt.Errorf("invalid movie id %q", args[0])
		}

		rental, err := app.RentalService.Rent(rootCtx, id)
		if err != nil {
			if errors.Is(err, services.ErrNoCopiesAvailable) {
				return fmt.Errorf("no copies of this movie are available right now")
			}
			return err
		}

		cmd.Printf("Rented %s (rental %d).\n", rental.MovieTitle, rental.ID)
		return nil
	},
}

var returnCmd = &cobra.Command{
	Use:   "return [rental-id]",
	Short: "Return a rented movie.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireView(authz.ViewMyRentals); err != nil {
			return err
		}
		id, err := strconv.Atoi(args[0])
		if err != nil || id < 1 {
			return fmt.Errorf("invalid rental id %q", args[0])
		}

		rental, err := app.RentalService.Return(rootCtx, id, returnMovie)
		if err != nil {
			return err
		}

		cmd.Printf("Returned %s (rental %d).\n", rental.MovieTitle, rental.ID)
		return nil
	},
}

var rentalsCmd = &cobra.Command{
	Use:   "rentals",
	Short: "List your rentals.",
	RunE: func(_ *cobra.Command, _ []string) error {
		if rentalsAll {
			if err := requireView(authz.ViewVendorRentals); err != nil {
				return err
			}
			result, err := app.RentalService.AllRentals(rootCtx, rentalsPage)
			if err != nil {
				return err
			}
			renderRentals(result, rentalsPage, true)
			return nil
		}

		if err := requireView(authz.ViewMyRentals); err != nil {
			return err
		}
		result, err := app.RentalService.MyRentals(rootCtx, rentalsPage)
		if err != nil {
			return err
		}
		renderRentals(result, rentalsPage, false)
		return nil
	},
}

var vendorRentalsCmd = &cobra.Command{
	Use:   "vendor-rentals",
	Short: "List rentals across all customers (vendor).",
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := requireView(authz.ViewVendorRentals); err != nil {
			return err
		}

		result, err := app.RentalService.VendorRentals(rootCtx, rentalsPage)
		if err != nil {
			return err
		}
		renderRentals(result, rentalsPage, true)
		return nil
	},
}
