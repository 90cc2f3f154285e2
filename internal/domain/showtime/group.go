package showtime

import "github.com/cinebook/cinebook-gateway/internal/pkg/backend"

// Slot is one bookable screening inside a group.
type Slot struct {
	ID       int64   `json:"id"`
	Theater  string  `json:"theater"`
	Address  string  `json:"address"`
	ShowTime string  `json:"show_time"`
	Price    float64 `json:"price"`
}

// Group collects the screenings of one movie on one date.
type Group struct {
	MovieTitle string `json:"movie_title"`
	PosterURL  string `json:"poster_url"`
	ShowDate   string `json:"show_date"`
	Times      []Slot `json:"times"`
}

type groupKey struct {
	title, date string
}

// GroupByMovieDate groups showtimes by (movie title, show date). Groups keep
// the order in which their first showtime appears; slots keep input order.
func GroupByMovieDate(list []backend.Showtime) []Group {
	groups := make([]Group, 0)
	index := make(map[groupKey]int)

	for _, st := range list {
		k := groupKey{title: st.MovieTitle, date: st.ShowDate}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group{
				MovieTitle: st.MovieTitle,
				PosterURL:  st.PosterURL,
				ShowDate:   st.ShowDate,
			})
		}
		groups[i].Times = append(groups[i].Times, Slot{
			ID:       st.ID,
			Theater:  st.TheaterName,
			Address:  st.Address,
			ShowTime: st.ShowTime,
			Price:    st.Price,
		})
	}
	return groups
}
