package repositories

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ucsb-cs156/crudapi/internal/app/models"
)

// Repositories holds all the repository instances
type Repositories struct {
	Books    Repository[models.Book]
	Movies   Repository[models.Movie]
	Students Repository[models.Student]
	Vehicles Repository[models.Vehicle]
	Users    Repository[models.User]
}

// NewPostgresRepositories initializes all repositories on a PostgreSQL pool
func NewPostgresRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		Books:    NewPostgresRepository(db, models.BookKind),
		Movies:   NewPostgresRepository(db, models.MovieKind),
		Students: NewPostgresRepository(db, models.StudentKind),
		Vehicles: NewPostgresRepository(db, models.VehicleKind),
		Users:    NewPostgresRepository(db, models.UserKind),
	}
}

// NewSQLiteRepositories initializes all repositories on a SQLite database
func NewSQLiteRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		Books:    NewSQLiteRepository(db, models.BookKind),
		Movies:   NewSQLiteRepository(db, models.MovieKind),
		Students: NewSQLiteRepository(db, models.StudentKind),
		Vehicles: NewSQLiteRepository(db, models.VehicleKind),
		Users:    NewSQLiteRepository(db, models.UserKind),
	}
}

// NewMemoryRepositories initializes all repositories in process memory
func NewMemoryRepositories() (*Repositories, error) {
	books, err1 := NewMemoryRepository(models.BookKind)
	movies, err2 := NewMemoryRepository(models.MovieKind)
	students, err3 := NewMemoryRepository(models.StudentKind)
	vehicles, err4 := NewMemoryRepository(models.VehicleKind)
	users, err5 := NewMemoryRepository(models.UserKind)
	if err := errors.Join(err1, err2, err3, err4, err5); err != nil {
		return nil, err
	}
	return &Repositories{
		Books:    books,
		Movies:   movies,
		Students: students,
		Vehicles: vehicles,
		Users:    users,
	}, nil
}
