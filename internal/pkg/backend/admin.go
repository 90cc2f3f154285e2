package backend

import (
	"context"
	"net/http"
	"strconv"
)

// Login exchanges admin credentials for a bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	var out LoginResult
	if err := c.do(ctx, http.MethodPost, "/api/admin/login", "", LoginRequest{Username: username, Password: password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout invalidates the token on the backend side.
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/api/admin/logout", token, nil, nil)
}

// Me is the token liveness check.
func (c *Client) Me(ctx context.Context, token string) (*AdminProfile, error) {
	var out AdminProfile
	if err := c.do(ctx, http.MethodGet, "/api/admin/me", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func itemPath(collection string, id int64) string {
	return "/admin/" + collection + "/" + strconv.FormatInt(id, 10)
}

// ListMovies lists catalog movies.
func (c *Client) ListMovies(ctx context.Context, token string) ([]Movie, error) {
	var out []Movie
	if err := c.do(ctx, http.MethodGet, "/admin/movies", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateMovie adds a movie.
func (c *Client) CreateMovie(ctx context.Context, token string, m Movie) (*Created, error) {
	var out Created
	if err := c.do(ctx, http.MethodPost, "/admin/movies", token, m, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateMovie replaces a movie.
func (c *Client) UpdateMovie(ctx context.Context, token string, id int64, m Movie) error {
	return c.do(ctx, http.MethodPut, itemPath("movies", id), token, m, nil)
}

// DeleteMovie removes a movie.
func (c *Client) DeleteMovie(ctx context.Context, token string, id int64) error {
	return c.do(ctx, http.MethodDelete, itemPath("movies", id), token, nil, nil)
}

// ListTheaters lists catalog theaters.
func (c *Client) ListTheaters(ctx context.Context, token string) ([]Theater, error) {
	var out []Theater
	if err := c.do(ctx, http.MethodGet, "/admin/theaters", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateTheater adds a theater.
func (c *Client) CreateTheater(ctx context.Context, token string, t Theater) (*Created, error) {
	var out Created
	if err := c.do(ctx, http.MethodPost, "/admin/theaters", token, t, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateTheater replaces a theater.
func (c *Client) UpdateTheater(ctx context.Context, token string, id int64, t Theater) error {
	return c.do(ctx, http.MethodPut, itemPath("theaters", id), token, t, nil)
}

// DeleteTheater removes a theater.
func (c *Client) DeleteTheater(ctx context.Context, token string, id int64) error {
	return c.do(ctx, http.MethodDelete, itemPath("theaters", id), token, nil, nil)
}

// ListAdminShowtimes lists all showtimes as admins see them.
func (c *Client) ListAdminShowtimes(ctx context.Context, token string) ([]Showtime, error) {
	var out []Showtime
	if err := c.do(ctx, http.MethodGet, "/admin/showtimes", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateShowtime schedules a showtime.
func (c *Client) CreateShowtime(ctx context.Context, token string, s ShowtimeInput) (*Created, error) {
	var out Created
	if err := c.do(ctx, http.MethodPost, "/admin/showtimes", token, s, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateShowtime replaces a showtime.
func (c *Client) UpdateShowtime(ctx context.Context, token string, id int64, s ShowtimeInput) error {
	return c.do(ctx, http.MethodPut, itemPath("showtimes", id), token, s, nil)
}

// DeleteShowtime removes a showtime.
func (c *Client) DeleteShowtime(ctx context.Context, token string, id int64) error {
	return c.do(ctx, http.MethodDelete, itemPath("showtimes", id), token, nil, nil)
}

// GetSettings reads the admin notification settings.
func (c *Client) GetSettings(ctx context.Context, token string) (*Settings, error) {
	var out Settings
	if err := c.do(ctx, http.MethodGet, "/admin/settings", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateSettings writes the admin notification settings.
func (c *Client) UpdateSettings(ctx context.Context, token string, s Settings) error {
	return c.do(ctx, http.MethodPut, "/admin/settings", token, s, nil)
}

// GetTheaterConfig reads the theater configuration record.
func (c *Client) GetTheaterConfig(ctx context.Context, token string) (*TheaterConfig, error) {
	var out TheaterConfig
	if err := c.do(ctx, http.MethodGet, "/admin/theater-config", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateTheaterConfig writes the theater configuration record.
func (c *Client) UpdateTheaterConfig(ctx context.Context, token string, tc TheaterConfig) error {
	return c.do(ctx, http.MethodPut, "/admin/theater-config", token, tc, nil)
}
