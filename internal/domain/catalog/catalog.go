// Package catalog defines the marketplace entities fetched from the
// NaijaReels backend: movies, per-movie inventory, rentals, and the
// admin analytics rollup.
package catalog

// Movie is a catalog record.
type Movie struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Genre       string  `json:"genre"`
	ReleaseYear int     `json:"release_year,omitempty"`
	DailyRate   float64 `json:"daily_rate"`
	Price       float64 `json:"price"`
}

// MovieForm is the create/update payload for a movie.
type MovieForm struct {
	Title       string   `json:"title"`
	Genre       string   `json:"genre"`
	ReleaseYear *int     `json:"release_year,omitempty"`
	DailyRate   *float64 `json:"daily_rate,omitempty"`
	Price       *float64 `json:"price,omitempty"`
}

// Inventory tracks copy counts for a single movie.
type Inventory struct {
	ID              int    `json:"id"`
	Movie           int    `json:"movie"`
	MovieTitle      string `json:"movie_title"`
	TotalCopies     int    `json:"total_copies"`
	AvailableCopies int    `json:"available_copies"`
	RentedOut       int    `json:"rented_out"`
}

// InventoryUpdate is the inventory PATCH payload.
type InventoryUpdate struct {
	TotalCopies     int `json:"total_copies"`
	AvailableCopies int `json:"available_copies"`
}

// Rental is a single rental record as seen by customer, vendor, or admin.
type Rental struct {
	ID           int    `json:"id"`
	MovieTitle   string `json:"movie_title"`
	UserUsername string `json:"user_username"`
	RentedAt     string `json:"rented_at"`
	Status       string `json:"status"`
}

// TopMovie is one row of the analytics top-movies breakdown.
type TopMovie struct {
	MovieTitle string `json:"movie__title"`
	Total      int    `json:"total"`
}

// SystemAnalytics is the admin-analytics/stats rollup.
type SystemAnalytics struct {
	TopMovies      []TopMovie `json:"top_movies"`
	TotalCustomers int        `json:"total_customers"`
	TotalRentals   int        `json:"total_rentals"`
	ActiveRentals  int        `json:"active_rentals"`
	TotalRevenue   string     `json:"total_revenue"`
}

// Paginated is the backend's list envelope.
type Paginated[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}
