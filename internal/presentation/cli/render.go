package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/NaijaReels/naijareels-go/internal/domain/catalog"
)

// table prints rows in aligned columns, the first row being the header.
func table(rows [][]string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, row := range rows {
		for i, cell := range row {
			if i > 0 {
				fmt.Fprint(w, "\t")
			}
			fmt.Fprint(w, cell)
		}
		fmt.Fprintln(w)
	}
	w.Flush()
}

// pageFooter prints the position within a paginated result set.
func pageFooter(page, shown, count int) {
	fmt.Printf("\nPage %d, showing %d of %d.\n", page, shown, count)
}

func renderMovies(result *catalog.Paginated[catalog.Movie], page int) {
	rows := [][]string{{"ID", "TITLE", "GENRE", "YEAR", "DAILY RATE"}}
	for _, m := range result.Results {
		rows = append(rows, []string{
			fmt.Sprint(m.ID), m.Title, m.Genre,
			fmt.Sprint(m.ReleaseYear), fmt.Sprintf("%.2f", m.DailyRate),
		})
	}
	table(rows)
	pageFooter(page, len(result.Results), result.Count)
}

func renderRentals(result *catalog.Paginated[catalog.Rental], page int, withUser bool) {
	header := []string{"ID", "MOVIE", "RENTED AT", "STATUS"}
	if withUser {
		header = []string{"ID", "MOVIE", "USER", "RENTED AT", "STATUS"}
	}
	rows := [][]string{header}
	for _, r := range result.Results {
		row := []string{fmt.Sprint(r.ID), r.MovieTitle, r.RentedAt, r.Status}
		if withUser {
			row = []string{fmt.Sprint(r.ID), r.MovieTitle, r.UserUsername, r.RentedAt, r.Status}
		}
		rows = append(rows, row)
	}
	table(rows)
	pageFooter(page, len(result.Results), result.Count)
}
