package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/headstoneworld/orders-api/internal/models"
)

// ErrUserNotFound indicates no user store row matched the credentials.
var ErrUserNotFound = errors.New("user not found")

// UserRepository looks up operator credentials in the tabular user store.
type UserRepository interface {
	FindByCredentials(username, password string) (models.User, error)
}

type xlsxUserRepository struct {
	path   string
	logger zerolog.Logger
}

// NewUserRepository constructs a repository over the xlsx user store at path.
// Expected columns: user, password, role.
func NewUserRepository(path string, logger zerolog.Logger) UserRepository {
	return &xlsxUserRepository{
		path:   path,
		logger: logger.With().Str("component", "user_repository").Logger(),
	}
}

func (r *xlsxUserRepository) FindByCredentials(username, password string) (models.User, error) {
	f, err := excelize.OpenFile(r.path)
	if err != nil {
		return models.User{}, fmt.Errorf("open user store: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return models.User{}, fmt.Errorf("read user store: %w", err)
	}
	if len(rows) == 0 {
		return models.User{}, ErrUserNotFound
	}

	cols := map[string]int{}
	for i, header := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(header))] = i
	}

	for _, row := range rows[1:] {
		user := models.User{
			Name:     cellValue(row, cols, "user"),
			Password: cellValue(row, cols, "password"),
			Role:     cellValue(row, cols, "role"),
		}
		if user.Name == username && user.Password == password {
			return user, nil
		}
	}
	return models.User{}, ErrUserNotFound
}

// cellValue trims whitespace; the store has rows with trailing tabs in the
// role column.
func cellValue(row []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
