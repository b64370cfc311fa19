package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/NaijaReels/naijareels-go/internal/domain/catalog"
	"github.com/NaijaReels/naijareels-go/internal/infrastructure/caching/manager"
	"github.com/NaijaReels/naijareels-go/internal/infrastructure/caching/types"
	"github.com/NaijaReels/naijareels-go/internal/infrastructure/transport"
)

// MovieService orchestrates catalog queries and vendor movie CRUD.
type MovieService struct {
	gateway *transport.Gateway
	cache   *manager.Manager
}

// NewMovieService creates a new movie application service.
func NewMovieService(gateway *transport.Gateway, cache *manager.Manager) *MovieService {
	return &MovieService{gateway: gateway, cache: cache}
}

// List returns one page of the catalog, cache-first. Each page/search/genre
// combination caches independently under the movies:list tag, with per-movie
// item tags derived from the results.
func (s *MovieService) List(ctx context.Context, page int, search, genre string) (*catalog.Paginated[catalog.Movie], error) {
	if page < 1 {
		page = 1
	}
	key := types.MoviesListKey(page, search, genre)

	return cacheRead(ctx, s.cache, key, []types.Tag{types.TagMoviesList},
		func(ctx context.Context) (*catalog.Paginated[catalog.Movie], []types.Tag, error) {
			query := url.Values{}
			query.Set("page", fmt.Sprint(page))
			if search != "" {
				query.Set("search", search)
			}
			if genre != "" {
				query.Set("genre", genre)
			}

			var result catalog.Paginated[catalog.Movie]
			err := s.gateway.DoJSON(ctx, transport.Spec{
				Method:       http.MethodGet,
				Path:         "movies/",
				Query:        query,
				RequiresAuth: true,
			}, &result)
			if err != nil {
				return nil, nil, err
			}

			itemTags := make([]types.Tag, 0, len(result.Results))
			for _, movie := range result.Results {
				itemTags = append(itemTags, types.MovieItemTag(movie.ID))
			}
			return &result, itemTags, nil
		})
}

// Get returns a single movie, cache-first.
func (s *MovieService) Get(ctx context.Context, movieID int) (*catalog.Movie, error) {
	return cacheRead(ctx, s.cache, types.MovieKey(movieID), []types.Tag{types.MovieItemTag(movieID)},
		func(ctx context.Context) (*catalog.Movie, []types.Tag, error) {
			var movie catalog.Movie
			err := s.gateway.DoJSON(ctx, transport.Spec{
				Method:       http.MethodGet,
				Path:         fmt.Sprintf("movies/%d/", movieID),
				RequiresAuth: true,
			}, &movie)
			if err != nil {
				return nil, nil, err
			}
			return &movie, nil, nil
		})
}

// Create adds a movie to the catalog and invalidates the list views before
// returning the created record.
func (s *MovieService) Create(ctx context.Context, form catalog.MovieForm) (*catalog.Movie, error) {
	var movie catalog.Movie
	err := s.gateway.DoJSON(ctx, transport.Spec{
		Method:       http.MethodPost,
		Path:         "movies/",
		Body:         form,
		RequiresAuth: true,
	}, &movie)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(MutationTags(MutationMovieCreate, movie.ID)...)
	return &movie, nil
}

// Update patches a movie and invalidates both the list views and the record.
func (s *MovieService) Update(ctx context.Context, movieID int, form catalog.MovieForm) (*catalog.Movie, error) {
	var movie catalog.Movie
	err := s.gateway.DoJSON(ctx, transport.Spec{
		Method:       http.MethodPatch,
		Path:         fmt.Sprintf("movies/%d/", movieID),
		Body:         form,
		RequiresAuth: true,
	}, &movie)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(MutationTags(MutationMovieUpdate, movieID)...)
	return &movie, nil
}

// Delete removes a movie and invalidates the views that showed it.
func (s *MovieService) Delete(ctx context.Context, movieID int) error {
	err := s.gateway.DoJSON(ctx, transport.Spec{
		Method:       http.MethodDelete,
		Path:         fmt.Sprintf("movies/%d/", movieID),
		RequiresAuth: true,
	}, nil)
	if err != nil {
		return err
	}

	s.cache.Invalidate(MutationTags(MutationMovieDelete, movieID)...)
	return nil
}
