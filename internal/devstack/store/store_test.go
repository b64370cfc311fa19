package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NaijaReels/naijareels-go/internal/domain/catalog"
	"github.com/NaijaReels/naijareels-go/internal/domain/user"
	"github.com/NaijaReels/naijareels-go/internal/infrastructure/observability/logging"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "devstack.db"), logging.Silent())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func createMovie(t *testing.T, s *Store, title string, copies int) *catalog.Movie {
	t.Helper()
	movie, err := s.CreateMovie(catalog.MovieForm{Title: title, Genre: "drama"})
	require.NoError(t, err)
	if copies > 0 {
		inventories, _, err := s.Inventories(1, 10, movie.ID)
		require.NoError(t, err)
		require.Len(t, inventories, 1)
		_, err = s.UpdateInventory(inventories[0].ID, catalog.InventoryUpdate{
			TotalCopies:     copies,
			AvailableCopies: copies,
		})
		require.NoError(t, err)
	}
	return movie
}

func registerUser(t *testing.T, s *Store, username string) *user.Identity {
	t.Helper()
	identity, err := s.CreateUser(user.Registration{
		Username: username,
		Email:    username + "@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	return identity
}

func TestSeedAdminAuthenticates(t *testing.T) {
	s := newTestStore(t)

	identity, err := s.Authenticate("admin", "admin")
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, identity.Role)
	assert.True(t, identity.IsStaff)

	_, err = s.Authenticate("admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.Authenticate("nobody", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCreateUserRejectsDuplicates(t *testing.T) {
	s := newTestStore(t)
	identity := registerUser(t, s, "ade")
	assert.Equal(t, user.RoleCustomer, identity.Role)

	_, err := s.CreateUser(user.Registration{
		Username: "ade",
		Email:    "other@example.com",
		Password: "secret123",
	})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestRentClaimsCopyAtomically(t *testing.T) {
	s := newTestStore(t)
	customer := registerUser(t, s, "ade")
	movie := createMovie(t, s, "Jagun Jagun", 1)

	rental, err := s.Rent(customer.ID, movie.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jagun Jagun", rental.MovieTitle)
	assert.Equal(t, "active", rental.Status)

	_, err = s.Rent(customer.ID, movie.ID)
	assert.ErrorIs(t, err, ErrNoCopies, "the only copy is out")

	_, err = s.Rent(customer.ID, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	inventories, _, err := s.Inventories(1, 10, movie.ID)
	require.NoError(t, err)
	require.Len(t, inventories, 1)
	assert.Equal(t, 0, inventories[0].AvailableCopies)
	assert.Equal(t, 1, inventories[0].RentedOut)
}

func TestReturnEnforcesOwnership(t *testing.T) {
	s := newTestStore(t)
	owner := registerUser(t, s, "ade")
	other := registerUser(t, s, "bisi")
	movie := createMovie(t, s, "Anikulapo", 2)

	rental, err := s.Rent(owner.ID, movie.ID)
	require.NoError(t, err)

	_, err = s.Return(rental.ID, other.ID, false)
	assert.ErrorIs(t, err, ErrNotFound, "another customer cannot close the rental")

	returned, err := s.Return(rental.ID, other.ID, true)
	require.NoError(t, err, "vendors and admins may close any rental")
	assert.Equal(t, "returned", returned.Status)

	_, err = s.Return(rental.ID, owner.ID, false)
	assert.ErrorIs(t, err, ErrDuplicate, "a closed rental cannot be returned twice")

	inventories, _, err := s.Inventories(1, 10, movie.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, inventories[0].AvailableCopies)
}

func TestRentalsScopeByUser(t *testing.T) {
	s := newTestStore(t)
	ade := registerUser(t, s, "ade")
	bisi := registerUser(t, s, "bisi")
	movie := createMovie(t, s, "King of Boys", 5)

	_, err := s.Rent(ade.ID, movie.ID)
	require.NoError(t, err)
	_, err = s.Rent(bisi.ID, movie.ID)
	require.NoError(t, err)

	mine, count, err := s.Rentals(1, 10, ade.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	require.Len(t, mine, 1)
	assert.Equal(t, "ade", mine[0].UserUsername)

	all, count, err := s.Rentals(1, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Len(t, all, 2)
	assert.Equal(t, "bisi", all[0].UserUsername, "newest rental first")
}

func TestMoviesSearchAndPagination(t *testing.T) {
	s := newTestStore(t)
	createMovie(t, s, "The Wedding Party", 0)
	createMovie(t, s, "The Wedding Party 2", 0)
	createMovie(t, s, "Citation", 0)

	matches, count, err := s.Movies(1, 10, "wedding", "")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Len(t, matches, 2)

	firstPage, count, err := s.Movies(1, 2, "", "")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Len(t, firstPage, 2)

	secondPage, _, err := s.Movies(2, 2, "", "")
	require.NoError(t, err)
	assert.Len(t, secondPage, 1)
}

func TestUpdateProfileSkipsEmptyFields(t *testing.T) {
	s := newTestStore(t)
	identity := registerUser(t, s, "ade")

	updated, err := s.UpdateProfile(identity.ID, user.ProfileUpdate{Phone: "+2348012345678"})
	require.NoError(t, err)
	assert.Equal(t, "+2348012345678", updated.Phone)

	again, err := s.UpdateProfile(identity.ID, user.ProfileUpdate{FirstName: "Ade"})
	require.NoError(t, err)
	assert.Equal(t, "+2348012345678", again.Phone, "empty fields must not overwrite stored values")
}

func TestChangePasswordVerifiesOldPassword(t *testing.T) {
	s := newTestStore(t)
	identity := registerUser(t, s, "ade")

	err := s.ChangePassword(identity.ID, "wrong", "newsecret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, s.ChangePassword(identity.ID, "secret123", "newsecret1"))
	_, err = s.Authenticate("ade", "newsecret1")
	assert.NoError(t, err)
}

func TestDeleteMovieCascadesInventory(t *testing.T) {
	s := newTestStore(t)
	movie := createMovie(t, s, "Brotherhood", 3)

	require.NoError(t, s.DeleteMovie(movie.ID))
	assert.ErrorIs(t, s.DeleteMovie(movie.ID), ErrNotFound)

	inventories, count, err := s.Inventories(1, 10, movie.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, inventories)
}

func TestAnalyticsRollup(t *testing.T) {
	s := newTestStore(t)
	ade := registerUser(t, s, "ade")
	bisi := registerUser(t, s, "bisi")
	movie := createMovie(t, s, "Gangs of Lagos", 5)

	first, err := s.Rent(ade.ID, movie.ID)
	require.NoError(t, err)
	_, err = s.Rent(bisi.ID, movie.ID)
	require.NoError(t, err)
	_, err = s.Return(first.ID, ade.ID, false)
	require.NoError(t, err)

	stats, err := s.Analytics()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalCustomers)
	assert.Equal(t, 2, stats.TotalRentals)
	assert.Equal(t, 1, stats.ActiveRentals)
	require.NotEmpty(t, stats.TopMovies)
	assert.Equal(t, "Gangs of Lagos", stats.TopMovies[0].MovieTitle)
	assert.Equal(t, 2, stats.TopMovies[0].Total)
}
