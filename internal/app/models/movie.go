package models

// Movie is a row of the movies table
type Movie struct {
	ID           int64  `json:"id" form:"-" example:"1"`
	MovieName    string `json:"movieName" form:"movieName" binding:"required" example:"Avatar"`
	DirectorName string `json:"directorName" form:"directorName" binding:"required" example:"James Cameron"`
	ReleaseDate  string `json:"releaseDate" form:"releaseDate" binding:"required" example:"2009-12-18"`
}

// MovieKind describes Movie to the generic CRUD layers.
var MovieKind = &Kind[Movie]{
	Name:  "Movie",
	Route: "movie",
	Table: "movies",
	Key:   func(m *Movie) *int64 { return &m.ID },
	Columns: []Column[Movie]{
		{Name: "movie_name", Field: "MovieName", Value: func(m *Movie) any { return m.MovieName }, Ref: func(m *Movie) any { return &m.MovieName }},
		{Name: "director_name", Field: "DirectorName", Value: func(m *Movie) any { return m.DirectorName }, Ref: func(m *Movie) any { return &m.DirectorName }},
		{Name: "release_date", Field: "ReleaseDate", Value: func(m *Movie) any { return m.ReleaseDate }, Ref: func(m *Movie) any { return &m.ReleaseDate }},
	},
}
