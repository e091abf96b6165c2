package db

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	m "github.com/DanielMusau/WatchWave/models"
)

// DBService is the persistence surface the route handlers depend on.
// Route tests mock it; GormDBService is the real implementation.
type DBService interface {
	InsertNewUser(username, email, password string) (m.Account, error)
	ValidateUser(email, password string) (m.User, error)
	GetUserByID(userID uint) (m.User, error)
	AddToWatchlist(accountID uint, picture m.MotionPicture) (m.WatchlistEntry, error)
	UpdateWatchlist(accountID, entryID uint, watched bool) (m.WatchlistEntry, error)
	GetWatchlist(accountID uint, watchedFilter *bool) ([]m.MotionPicture, error)
	RemoveFromWatchlist(accountID, motionPictureID uint) error
}

type GormDBService struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewDBService connects to PostgreSQL and migrates the schema.
func NewDBService(dsn string, logger *logrus.Logger) (*GormDBService, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return NewDBServiceWithDB(gdb, logger)
}

// NewDBServiceWithDB wraps an already opened gorm handle. Tests use it
// with an in-memory SQLite database.
func NewDBServiceWithDB(gdb *gorm.DB, logger *logrus.Logger) (*GormDBService, error) {
	if logger == nil {
		logger = logrus.New()
	}
	if err := gdb.AutoMigrate(&m.User{}, &m.Account{}, &m.MotionPicture{}, &m.WatchlistEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return &GormDBService{db: gdb, logger: logger}, nil
}

// InsertNewUser creates the User and its Account in a single transaction.
// The Account copies the user's email and timestamps; a duplicate email on
// either table rolls the whole signup back.
func (s *GormDBService) InsertNewUser(username, email, password string) (m.Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return m.Account{}, err
	}

	var account m.Account
	err = s.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		user := m.User{
			UUID:         uuid.New(),
			Username:     username,
			Email:        email,
			PasswordHash: string(hash),
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		account = m.Account{
			UUID:      uuid.New(),
			Email:     user.Email,
			UserID:    user.ID,
			CreatedAt: user.CreatedAt,
			UpdatedAt: user.UpdatedAt,
		}
		return tx.Create(&account).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return m.Account{}, ErrDuplicateEmail
		}
		s.logger.WithError(err).Error("Failed to insert user")
		return m.Account{}, err
	}
	return account, nil
}

// ValidateUser checks the credentials and returns the user with its
// account loaded. Unknown email and bad password are indistinguishable to
// the caller.
func (s *GormDBService) ValidateUser(email, password string) (m.User, error) {
	var user m.User
	err := s.db.Preload("Account").Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return m.User{}, ErrInvalidCredentials
	}
	if err != nil {
		s.logger.WithError(err).Error("Failed to look up user by email")
		return m.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return m.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (s *GormDBService) GetUserByID(userID uint) (m.User, error) {
	var user m.User
	err := s.db.Preload("Account").First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return m.User{}, ErrNotFound
	}
	if err != nil {
		s.logger.WithError(err).Error("Failed to look up user by id")
		return m.User{}, err
	}
	return user, nil
}

// AddToWatchlist inserts the picture and the linking entry in one
// transaction. The picture is inserted unconditionally: a second add with
// the same external_id hits the unique constraint and the caller gets a
// conflict, matching the behavior of the original service.
func (s *GormDBService) AddToWatchlist(accountID uint, picture m.MotionPicture) (m.WatchlistEntry, error) {
	var entry m.WatchlistEntry
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var account m.Account
		if err := tx.First(&account, accountID).Error; err != nil {
			return err
		}

		if err := tx.Create(&picture).Error; err != nil {
			return err
		}

		entry = m.WatchlistEntry{
			AccountID:       account.ID,
			MotionPictureID: picture.ID,
			Watched:         false,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		entry.Account = account
		entry.MotionPicture = picture
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return m.WatchlistEntry{}, ErrDuplicateExternalID
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return m.WatchlistEntry{}, ErrNotFound
		}
		s.logger.WithError(err).Error("Failed to add to watchlist")
		return m.WatchlistEntry{}, err
	}
	return entry, nil
}

// UpdateWatchlist flips the watched flag on an entry owned by the account.
// Entries belonging to other accounts are reported as not found, never as
// a permission failure, so their existence does not leak.
func (s *GormDBService) UpdateWatchlist(accountID, entryID uint, watched bool) (m.WatchlistEntry, error) {
	var entry m.WatchlistEntry
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Preload("Account").Preload("MotionPicture").
			Where("id = ? AND account_id = ?", entryID, accountID).
			First(&entry).Error
		if err != nil {
			return err
		}

		entry.Watched = watched
		entry.UpdatedAt = time.Now().UTC()
		return tx.Save(&entry).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return m.WatchlistEntry{}, ErrNotFound
		}
		s.logger.WithError(err).Error("Failed to update watchlist entry")
		return m.WatchlistEntry{}, err
	}
	return entry, nil
}

// GetWatchlist returns the motion pictures on the account's watchlist:
// entries first, then a batch fetch of the referenced pictures. Order
// follows the underlying store.
func (s *GormDBService) GetWatchlist(accountID uint, watchedFilter *bool) ([]m.MotionPicture, error) {
	query := s.db.Model(&m.WatchlistEntry{}).Where("account_id = ?", accountID)
	if watchedFilter != nil {
		query = query.Where("watched = ?", *watchedFilter)
	}

	var pictureIDs []uint
	if err := query.Pluck("motion_picture_id", &pictureIDs).Error; err != nil {
		s.logger.WithError(err).Error("Failed to fetch watchlist entries")
		return nil, err
	}
	if len(pictureIDs) == 0 {
		return []m.MotionPicture{}, nil
	}

	var pictures []m.MotionPicture
	if err := s.db.Where("id IN ?", pictureIDs).Find(&pictures).Error; err != nil {
		s.logger.WithError(err).Error("Failed to fetch watchlist pictures")
		return nil, err
	}
	return pictures, nil
}

// RemoveFromWatchlist deletes the entry linking the account to the given
// motion picture. The picture row itself is never deleted.
func (s *GormDBService) RemoveFromWatchlist(accountID, motionPictureID uint) error {
	result := s.db.Where("account_id = ? AND motion_picture_id = ?", accountID, motionPictureID).
		Delete(&m.WatchlistEntry{})
	if result.Error != nil {
		s.logger.WithError(result.Error).Error("Failed to remove from watchlist")
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
