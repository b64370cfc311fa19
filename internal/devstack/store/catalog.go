package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/NaijaReels/naijareels-go/internal/domain/catalog"
)

// ErrNoCopies raises the out-of-stock conflict the client maps to a 400.
var ErrNoCopies = errors.New("no copies available")

const movieColumns = "id, title, genre, release_year, daily_rate, price"

func scanMovie(row interface{ Scan(...any) error }) (*catalog.Movie, error) {
	var m catalog.Movie
	if err := row.Scan(&m.ID, &m.Title, &m.Genre, &m.ReleaseYear, &m.DailyRate, &m.Price); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan movie: %w", err)
	}
	return &m, nil
}

// Movies returns one page of the catalog, filtered by search and genre.
func (s *Store) Movies(page, pageSize int, search, genre string) ([]catalog.Movie, int, error) {
	var clauses []string
	var args []any
	if search != "" {
		clauses = append(clauses, "title LIKE ?")
		args = append(args, "%"+search+"%")
	}
	if genre != "" {
		clauses = append(clauses, "genre = ?")
		args = append(args, genre)
	}
	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}

	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM movies`+where, args...).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("failed to count movies: %w", err)
	}

	args = append(args, pageSize, (page-1)*pageSize)
	rows, err := s.db.Query(
		`SELECT `+movieColumns+` FROM movies`+where+` ORDER BY id LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list movies: %w", err)
	}
	defer rows.Close()

	movies := make([]catalog.Movie, 0, pageSize)
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, 0, err
		}
		movies = append(movies, *m)
	}
	return movies, count, rows.Err()
}

// Movie fetches one catalog record.
func (s *Store) Movie(id int) (*catalog.Movie, error) {
	row := s.db.QueryRow(`SELECT `+movieColumns+` FROM movies WHERE id = ?`, id)
	return scanMovie(row)
}

// CreateMovie inserts a catalog record with an empty inventory row.
func (s *Store) CreateMovie(form catalog.MovieForm) (*catalog.Movie, error) {
	year, rate, price := 0, 0.0, 0.0
	if form.ReleaseYear != nil {
		year = *form.ReleaseYear
	}
	if form.DailyRate != nil {
		rate = *form.DailyRate
	}
	if form.Price != nil {
		price = *form.Price
	}

	result, err := s.db.Exec(
		`INSERT INTO movies (title, genre, release_year, daily_rate, price) VALUES (?, ?, ?, ?, ?)`,
		form.Title, form.Genre, year, rate, price)
	if err != nil {
		return nil, fmt.Errorf("failed to insert movie: %w", err)
	}
	id, _ := result.LastInsertId()

	if _, err := s.db.Exec(`INSERT INTO inventories (movie_id) VALUES (?)`, id); err != nil {
		return nil, fmt.Errorf("failed to create inventory row: %w", err)
	}
	return s.Movie(int(id))
}

// UpdateMovie patches the provided fields of a catalog record.
func (s *Store) UpdateMovie(id int, form catalog.MovieForm) (*catalog.Movie, error) {
	current, err := s.Movie(id)
	if err != nil {
		return nil, err
	}

	if form.Title != "" {
		current.Title = form.Title
	}
	if form.Genre != "" {
		current.Genre = form.Genre
	}
	if form.ReleaseYear != nil {
		current.ReleaseYear = *form.ReleaseYear
	}
	if form.DailyRate != nil {
		current.DailyRate = *form.DailyRate
	}
	if form.Price != nil {
		current.Price = *form.Price
	}

	_, err = s.db.Exec(
		`UPDATE movies SET title = ?, genre = ?, release_year = ?, daily_rate = ?, price = ? WHERE id = ?`,
		current.Title, current.Genre, current.ReleaseYear, current.DailyRate, current.Price, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update movie: %w", err)
	}
	return current, nil
}

// DeleteMovie removes a catalog record and its inventory row.
func (s *Store) DeleteMovie(id int) error {
	result, err := s.db.Exec(`DELETE FROM movies WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete movie: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

const inventorySelect = `
	SELECT i.id, i.movie_id, m.title, i.total_copies, i.available_copies
	FROM inventories i JOIN movies m ON m.id = i.movie_id`

func scanInventory(row interface{ Scan(...any) error }) (*catalog.Inventory, error) {
	var inv catalog.Inventory
	err := row.Scan(&inv.ID, &inv.Movie, &inv.MovieTitle, &inv.TotalCopies, &inv.AvailableCopies)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan inventory: %w", err)
	}
	inv.RentedOut = inv.TotalCopies - inv.AvailableCopies
	return &inv, nil
}

// Inventories returns one page of inventory records, optionally scoped to a
// single movie.
func (s *Store) Inventories(page, pageSize, movieID int) ([]catalog.Inventory, int, error) {
	where, args := "", []any{}
	if movieID != 0 {
		where = " WHERE i.movie_id = ?"
		args = append(args, movieID)
	}

	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM inventories i`+where, args...).Scan(&count)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count inventories: %w", err)
	}

	args = append(args, pageSize, (page-1)*pageSize)
	rows, err := s.db.Query(inventorySelect+where+` ORDER BY i.id LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list inventories: %w", err)
	}
	defer rows.Close()

	records := make([]catalog.Inventory, 0, pageSize)
	for rows.Next() {
		inv, err := scanInventory(rows)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, *inv)
	}
	return records, count, rows.Err()
}

// UpdateInventory sets copy counts for an inventory record.
func (s *Store) UpdateInventory(id int, update catalog.InventoryUpdate) (*catalog.Inventory, error) {
	if update.AvailableCopies > update.TotalCopies {
		return nil, fmt.Errorf("available copies exceed total copies: %w", ErrDuplicate)
	}

	result, err := s.db.Exec(
		`UPDATE inventories SET total_copies = ?, available_copies = ? WHERE id = ?`,
		update.TotalCopies, update.AvailableCopies, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update inventory: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}

	row := s.db.QueryRow(inventorySelect+` WHERE i.id = ?`, id)
	return scanInventory(row)
}

const rentalSelect = `
	SELECT r.id, m.title, u.username, r.rented_at, r.status
	FROM rentals r
	JOIN movies m ON m.id = r.movie_id
	JOIN users u ON u.id = r.user_id`

// Rent creates a rental for one copy, decrementing availability atomically.
func (s *Store) Rent(userID, movieID int) (*catalog.Rental, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin rental: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`UPDATE inventories SET available_copies = available_copies - 1
		 WHERE movie_id = ? AND available_copies > 0`, movieID)
	if err != nil {
		return nil, fmt.Errorf("failed to claim copy: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		var exists bool
		if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM movies WHERE id = ?)`, movieID).Scan(&exists); err == nil && !exists {
			return nil, ErrNotFound
		}
		return nil, ErrNoCopies
	}

	inserted, err := tx.Exec(
		`INSERT INTO rentals (movie_id, user_id, rented_at, status) VALUES (?, ?, ?, 'active')`,
		movieID, userID, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("failed to insert rental: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit rental: %w", err)
	}

	id, _ := inserted.LastInsertId()
	return s.Rental(int(id))
}

// Return closes a rental and releases its copy. Vendors and admins may close
// any rental; customers only their own.
func (s *Store) Return(rentalID, userID int, anyOwner bool) (*catalog.Rental, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin return: %w", err)
	}
	defer tx.Rollback()

	var movieID, ownerID int
	var status string
	err = tx.QueryRow(`SELECT movie_id, user_id, status FROM rentals WHERE id = ?`, rentalID).
		Scan(&movieID, &ownerID, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up rental: %w", err)
	}
	if !anyOwner && ownerID != userID {
		return nil, ErrNotFound
	}
	if status != "active" {
		return nil, fmt.Errorf("rental already returned: %w", ErrDuplicate)
	}

	_, err = tx.Exec(
		`UPDATE rentals SET status = 'returned', returned_at = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339), rentalID)
	if err != nil {
		return nil, fmt.Errorf("failed to close rental: %w", err)
	}

	_, err = tx.Exec(
		`UPDATE inventories SET available_copies = MIN(available_copies + 1, total_copies)
		 WHERE movie_id = ?`, movieID)
	if err != nil {
		return nil, fmt.Errorf("failed to release copy: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit return: %w", err)
	}
	return s.Rental(rentalID)
}

// Rental fetches one rental record.
func (s *Store) Rental(id int) (*catalog.Rental, error) {
	row := s.db.QueryRow(rentalSelect+` WHERE r.id = ?`, id)
	var r catalog.Rental
	err := row.Scan(&r.ID, &r.MovieTitle, &r.UserUsername, &r.RentedAt, &r.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan rental: %w", err)
	}
	return &r, nil
}

// Rentals returns one page of rentals; userID 0 means all users.
func (s *Store) Rentals(page, pageSize, userID int) ([]catalog.Rental, int, error) {
	where, args := "", []any{}
	if userID != 0 {
		where = " WHERE r.user_id = ?"
		args = append(args, userID)
	}

	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM rentals r`+where, args...).Scan(&count)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count rentals: %w", err)
	}

	args = append(args, pageSize, (page-1)*pageSize)
	rows, err := s.db.Query(rentalSelect+where+` ORDER BY r.id DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list rentals: %w", err)
	}
	defer rows.Close()

	rentals := make([]catalog.Rental, 0, pageSize)
	for rows.Next() {
		var r catalog.Rental
		if err := rows.Scan(&r.ID, &r.MovieTitle, &r.UserUsername, &r.RentedAt, &r.Status); err != nil {
			return nil, 0, fmt.Errorf("failed to scan rental: %w", err)
		}
		rentals = append(rentals, r)
	}
	return rentals, count, rows.Err()
}

// Analytics computes the system rollup served to admins.
func (s *Store) Analytics() (*catalog.SystemAnalytics, error) {
	var out catalog.SystemAnalytics

	err := s.db.QueryRow(`SELECT COUNT(*) FROM users WHERE role = 'customer'`).Scan(&out.TotalCustomers)
	if err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM rentals`).Scan(&out.TotalRentals); err != nil {
		return nil, fmt.Errorf("failed to count rentals: %w", err)
	}
	err = s.db.QueryRow(`SELECT COUNT(*) FROM rentals WHERE status = 'active'`).Scan(&out.ActiveRentals)
	if err != nil {
		return nil, fmt.Errorf("failed to count active rentals: %w", err)
	}

	var revenue float64
	err = s.db.QueryRow(
		`SELECT COALESCE(SUM(m.daily_rate), 0) FROM rentals r JOIN movies m ON m.id = r.movie_id`).
		Scan(&revenue)
	if err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}
	out.TotalRevenue = fmt.Sprintf("%.2f", revenue)

	rows, err := s.db.Query(
		`SELECT m.title, COUNT(*) AS total
		 FROM rentals r JOIN movies m ON m.id = r.movie_id
		 GROUP BY m.title ORDER BY total DESC LIMIT 5`)
	if err != nil {
		return nil, fmt.Errorf("failed to rank movies: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var top catalog.TopMovie
		if err := rows.Scan(&top.MovieTitle, &top.Total); err != nil {
			return nil, fmt.Errorf("failed to scan top movie: %w", err)
		}
		out.TopMovies = append(out.TopMovies, top)
	}
	return &out, rows.Err()
}
