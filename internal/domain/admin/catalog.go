package admin

import (
	"context"
	"errors"
	"fmt"

	"github.com/cinebook/cinebook-gateway/internal/domain/booking"
	"github.com/cinebook/cinebook-gateway/internal/pkg/backend"
	"github.com/cinebook/cinebook-gateway/internal/pkg/session"
	"github.com/cinebook/cinebook-gateway/internal/pkg/validator"
)

// Catalog is the backend's movie, theater, showtime and settings management.
type Catalog interface {
	ListMovies(ctx context.Context, token string) ([]backend.Movie, error)
	CreateMovie(ctx context.Context, token string, m backend.Movie) (*backend.Created, error)
	UpdateMovie(ctx context.Context, token string, id int64, m backend.Movie) error
	DeleteMovie(ctx context.Context, token string, id int64) error

	ListTheaters(ctx context.Context, token string) ([]backend.Theater, error)
	CreateTheater(ctx context.Context, token string, t backend.Theater) (*backend.Created, error)
	UpdateTheater(ctx context.Context, token string, id int64, t backend.Theater) error
	DeleteTheater(ctx context.Context, token string, id int64) error

	ListAdminShowtimes(ctx context.Context, token string) ([]backend.Showtime, error)
	CreateShowtime(ctx context.Context, token string, s backend.ShowtimeInput) (*backend.Created, error)
	UpdateShowtime(ctx context.Context, token string, id int64, s backend.ShowtimeInput) error
	DeleteShowtime(ctx context.Context, token string, id int64) error

	GetSettings(ctx context.Context, token string) (*backend.Settings, error)
	UpdateSettings(ctx context.Context, token string, s backend.Settings) error
	GetTheaterConfig(ctx context.Context, token string) (*backend.TheaterConfig, error)
	UpdateTheaterConfig(ctx context.Context, token string, tc backend.TheaterConfig) error
}

// CatalogService validates management input before it reaches the backend.
type CatalogService struct {
	*Service
	catalog Catalog
}

// NewCatalogService creates catalog service sharing auth handling with svc
func NewCatalogService(svc *Service, catalog Catalog) *CatalogService {
	return &CatalogService{Service: svc, catalog: catalog}
}

type none struct{}

func validateInput(req interface{}) error {
	if fields := validator.Validate(req); fields != nil {
		return &booking.ValidationError{Fields: fields}
	}
	return nil
}

// validateTheater checks the layout beyond per-field rules.
func validateTheater(req *TheaterRequest) error {
	if err := validateInput(req); err != nil {
		return err
	}
	layout := booking.Layout{Rows: req.Rows, LeftCols: req.LeftCols, RightCols: req.RightCols}
	if err := layout.Validate(); err != nil {
		var lerr *booking.LayoutError
		if errors.As(err, &lerr) {
			return layoutError(lerr.Field, lerr.Reason)
		}
		return err
	}
	for i, seat := range req.NonSelectableSeats {
		if !layout.Contains(seat) {
			return layoutError(fmt.Sprintf("non_selectable_seats[%d]", i), seat+" is outside the layout")
		}
	}
	return nil
}

func (c *CatalogService) ListMovies(ctx context.Context, sess *session.Session) ([]backend.Movie, error) {
	return call(ctx, c.Service, sess, func(token string) ([]backend.Movie, error) {
		return c.catalog.ListMovies(ctx, token)
	})
}

func (c *CatalogService) CreateMovie(ctx context.Context, sess *session.Session, req MovieRequest) (*backend.Created, error) {
	if err := validateInput(&req); err != nil {
		return nil, err
	}
	return call(ctx, c.Service, sess, func(token string) (*backend.Created, error) {
		return c.catalog.CreateMovie(ctx, token, req.toBackend())
	})
}

func (c *CatalogService) UpdateMovie(ctx context.Context, sess *session.Session, id int64, req MovieRequest) error {
	if err := validateInput(&req); err != nil {
		return err
	}
	_, err := call(ctx, c.Service, sess, func(token string) (none, error) {
		return none{}, c.catalog.UpdateMovie(ctx, token, id, req.toBackend())
	})
	return err
}

func (c *CatalogService) DeleteMovie(ctx context.Context, sess *session.Session, id int64) error {
	_, err := call(ctx, c.Service, sess, func(token string) (none, error) {
		return none{}, c.catalog.DeleteMovie(ctx, token, id)
	})
	return err
}

func (c *CatalogService) ListTheaters(ctx context.Context, sess *session.Session) ([]backend.Theater, error) {
	return call(ctx, c.Service, sess, func(token string) ([]backend.Theater, error) {
		return c.catalog.ListTheaters(ctx, token)
	})
}

func (c *CatalogService) CreateTheater(ctx context.Context, sess *session.Session, req TheaterRequest) (*backend.Created, error) {
	if err := validateTheater(&req); err != nil {
		return nil, err
	}
	return call(ctx, c.Service, sess, func(token string) (*backend.Created, error) {
		return c.catalog.CreateTheater(ctx, token, req.toBackend())
	})
}

func (c *CatalogService) UpdateTheater(ctx context.Context, sess *session.Session, id int64, req TheaterRequest) error {
	if err := validateTheater(&req); err != nil {
		return err
	}
	_, err := call(ctx, c.Service, sess, func(token string) (none, error) {
		return none{}, c.catalog.UpdateTheater(ctx, token, id, req.toBackend())
	})
	return err
}

func (c *CatalogService) DeleteTheater(ctx context.Context, sess *session.Session, id int64) error {
	_, err := call(ctx, c.Service, sess, func(token string) (none, error) {
		return none{}, c.catalog.DeleteTheater(ctx, token, id)
	})
	return err
}

func (c *CatalogService) ListShowtimes(ctx context.Context, sess *session.Session) ([]backend.Showtime, error) {
	return call(ctx, c.Service, sess, func(token string) ([]backend.Showtime, error) {
		return c.catalog.ListAdminShowtimes(ctx, token)
	})
}

func (c *CatalogService) CreateShowtime(ctx context.Context, sess *session.Session, req ShowtimeRequest) (*backend.Created, error) {
	if err := validateInput(&req); err != nil {
		return nil, err
	}
	return call(ctx, c.Service, sess, func(token string) (*backend.Created, error) {
		return c.catalog.CreateShowtime(ctx, token, req.toBackend())
	})
}

func (c *CatalogService) UpdateShowtime(ctx context.Context, sess *session.Session, id int64, req ShowtimeRequest) error {
	if err := validateInput(&req); err != nil {
		return err
	}
	_, err := call(ctx, c.Service, sess, func(token string) (none, error) {
		return none{}, c.catalog.UpdateShowtime(ctx, token, id, req.toBackend())
	})
	return err
}

func (c *CatalogService) DeleteShowtime(ctx context.Context, sess *session.Session, id int64) error {
	_, err := call(ctx, c.Service, sess, func(token string) (none, error) {
		return none{}, c.catalog.DeleteShowtime(ctx, token, id)
	})
	return err
}

func (c *CatalogService) GetSettings(ctx context.Context, sess *session.Session) (*backend.Settings, error) {
	return call(ctx, c.Service, sess, func(token string) (*backend.Settings, error) {
		return c.catalog.GetSettings(ctx, token)
	})
}

func (c *CatalogService) UpdateSettings(ctx context.Context, sess *session.Session, req SettingsRequest) error {
	if err := validateInput(&req); err != nil {
		return err
	}
	_, err := call(ctx, c.Service, sess, func(token string) (none, error) {
		return none{}, c.catalog.UpdateSettings(ctx, token, backend.Settings{
			AdminEmail:          req.AdminEmail,
			AdminName:           req.AdminName,
			NotificationEnabled: req.NotificationEnabled,
		})
	})
	return err
}

func (c *CatalogService) GetTheaterConfig(ctx context.Context, sess *session.Session) (*backend.TheaterConfig, error) {
	return call(ctx, c.Service, sess, func(token string) (*backend.TheaterConfig, error) {
		return c.catalog.GetTheaterConfig(ctx, token)
	})
}

func (c *CatalogService) UpdateTheaterConfig(ctx context.Context, sess *session.Session, req TheaterConfigRequest) error {
	if err := validateInput(&req); err != nil {
		return err
	}
	_, err := call(ctx, c.Service, sess, func(token string) (none, error) {
		return none{}, c.catalog.UpdateTheaterConfig(ctx, token, backend.TheaterConfig{
			MovieName:   req.MovieName,
			MoviePoster: req.MoviePoster,
			TheaterName: req.TheaterName,
			ShowDate:    req.ShowDate,
			Showtime:    req.Showtime,
			Price:       req.Price,
		})
	})
	return err
}
