package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/NaijaReels/naijareels-go/internal/domain/authz"
	"github.com/NaijaReels/naijareels-go/internal/domain/catalog"
)

var (
	moviesPage   int
	moviesSearch string
	moviesGenre  string

	movieTitle string
	movieYear  int
	movieRate  float64
	moviePrice float64
)

func init() {
	rootCmd.AddCommand(moviesCmd)
	moviesCmd.AddCommand(moviesShowCmd)
	moviesCmd.AddCommand(moviesAddCmd)
	moviesCmd.AddCommand(moviesUpdateCmd)
	moviesCmd.AddCommand(moviesDeleteCmd)

	moviesCmd.PersistentFlags().IntVar(&moviesPage, "page", 1, "Result page")
	moviesCmd.Flags().StringVarP(&moviesSearch, "search", "s", "", "Filter by title substring")
	moviesCmd.Flags().StringVarP(&moviesGenre, "genre", "g", "", "Filter by genre")

	for _, c := range []*cobra.Command{moviesAddCmd, moviesUpdateCmd} {
		c.Flags().StringVar(&movieTitle, "title", "", "Movie title")
		c.Flags().StringVarP(&moviesGenre, "genre", "g", "", "Movie genre")
		c.Flags().IntVar(&movieYear, "year", 0, "Release year")
		c.Flags().Float64Var(&movieRate, "rate", 0, "Daily rental rate")
		c.Flags().Float64Var(&moviePrice, "price", 0, "Purchase price")
	}
}

func movieIDArg(args []string) (int, error) {
	id, err := strconv.Atoi(args[0])
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid movie id %q", args[0])
	}
	return id, nil
}

// movieFormFromFlags builds a patch payload carrying only the flags that
// were set on cmd.
func movieFormFromFlags(cmd *cobra.Command) catalog.MovieForm {
	form := catalog.MovieForm{Title: movieTitle, Genre: moviesGenre}
	if cmd.Flags().Changed("year") {
		form.ReleaseYear = &movieYear
	}
	if cmd.Flags().Changed("rate") {
		form.DailyRate = &movieRate
	}
	if cmd.Flags().Changed("price") {
		form.Price = &moviePrice
	}
	return form
}

var moviesCmd = &cobra.Command{
	Use:   "movies",
	Short: "Browse the movie catalog.",
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := requireView(authz.ViewCatalog); err != nil {
			return err
		}

		result, err := app.MovieService.List(rootCtx, moviesPage, moviesSearch, moviesGenre)
		if err != nil {
			return err
		}
		renderMovies(result, moviesPage)
		return nil
	},
}

var moviesShowCmd = &cobra.Command{
	Use:   "show [movie-id]",
	Short: "Show one movie with its availability.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireView(authz.ViewMovieDetail); err != nil {
			return err
		}
		id, err := movieIDArg(args)
		if err != nil {
			return err
		}

		movie, err := app.MovieService.Get(rootCtx, id)
		if err != nil {
			return err
		}

		cmd.Printf("%s (%d)\n", movie.Title, movie.ReleaseYear)
		cmd.Printf("Genre:      %s\n", movie.Genre)
		cmd.Printf("Daily rate: %.2f\n", movie.DailyRate)

		// Availability comes from the inventory endpoint; absence just means
		// the vendor has not stocked this title yet.
		if inventory, err := app.InventoryService.ForMovie(rootCtx, id); err == nil && inventory != nil {
			cmd.Printf("Available:  %d of %d copies\n", inventory.AvailableCopies, inventory.TotalCopies)
		}
		return nil
	},
}

var moviesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a movie to the catalog (vendor).",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := requireView(authz.ViewVendor); err != nil {
			return err
		}
		if movieTitle == "" {
			return fmt.Errorf("--title is required")
		}

		movie, err := app.MovieService.Create(rootCtx, movieFormFromFlags(cmd))
		if err != nil {
			return err
		}
		cmd.Printf("Created movie %d: %s\n", movie.ID, movie.Title)
		return nil
	},
}

var moviesUpdateCmd = &cobra.Command{
	Use:   "update [movie-id]",
	Short: "Update a movie (vendor).",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireView(authz.ViewVendor); err != nil {
			return err
		}
		id, err := movieIDArg(args)
		if err != nil {
			return err
		}

		movie, err := app.MovieService.Update(rootCtx, id, movieFormFromFlags(cmd))
		if err != nil {
			return err
		}
		cmd.Printf("Updated movie %d: %s\n", movie.ID, movie.Title)
		return nil
	},
}

var moviesDeleteCmd = &cobra.Command{
	Use:   "delete [movie-id]",
	Short: "Remove a movie from the catalog (vendor).",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireView(authz.ViewVendor); err != nil {
			return err
		}
		id, err := movieIDArg(args)
		if err != nil {
			return err
		}

		if err := app.MovieService.Delete(rootCtx, id); err != nil {
			return err
		}
		cmd.Printf("Deleted movie %d.\n", id)
		return nil
	},
}
