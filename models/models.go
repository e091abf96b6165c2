package models

import (
	"time"

	"github.com/google/uuid"
)

// MaxOverviewLength is the column size of motion_pictures.overview; longer
// overviews coming from the catalog are cut at construction time.
const MaxOverviewLength = 255

// Motion picture types accepted by the API.
const (
	TypeMovie  = "movie"
	TypeSeries = "series"
)

// User is the login credential record. Each user owns exactly one Account.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UUID         uuid.UUID `gorm:"type:uuid;not null" json:"uuid"`
	Username     string    `gorm:"size:255;not null" json:"username"`
	Email        string    `gorm:"size:255;not null;uniqueIndex:unique_email_users" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Account *Account `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string { return "users" }

// Account is the profile record the frontend works with. Its email is a
// copy of the owning user's email taken at signup; nothing re-syncs the
// two afterwards.
type Account struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UUID      uuid.UUID `gorm:"type:uuid;not null" json:"uuid"`
	Email     string    `gorm:"size:255;not null;uniqueIndex:unique_email_accounts" json:"email"`
	UserID    uint      `gorm:"not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Account) TableName() string { return "accounts" }

// MotionPicture is a movie or series known to the system. Rows are created
// lazily the first time any account adds the title to a watchlist and are
// shared across accounts; external_id is the catalog's natural key.
type MotionPicture struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UUID       uuid.UUID `gorm:"type:uuid;not null" json:"uuid"`
	Title      string    `gorm:"size:255;not null" json:"title"`
	ExternalID int       `gorm:"not null;uniqueIndex:unique_external_id" json:"external_id"`
	PosterPath string    `gorm:"size:255;not null" json:"poster_path"`
	Type       string    `gorm:"size:255;not null" json:"type"`
	Overview   string    `gorm:"size:255" json:"overview"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (MotionPicture) TableName() string { return "motion_pictures" }

// NewMotionPicture builds an unsaved MotionPicture, truncating the
// overview to the column size.
func NewMotionPicture(title string, externalID int, posterPath, pictureType, overview string) MotionPicture {
	if runes := []rune(overview); len(runes) > MaxOverviewLength {
		overview = string(runes[:MaxOverviewLength])
	}
	return MotionPicture{
		UUID:       uuid.New(),
		Title:      title,
		ExternalID: externalID,
		PosterPath: posterPath,
		Type:       pictureType,
		Overview:   overview,
	}
}

// WatchlistEntry links an Account to a MotionPicture. There is no
// uniqueness constraint on (account_id, motion_picture_id): the same
// picture can appear twice on a watchlist, as in the original schema.
type WatchlistEntry struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	AccountID       uint      `gorm:"not null" json:"-"`
	MotionPictureID uint      `gorm:"not null" json:"-"`
	Watched         bool      `gorm:"not null" json:"watched"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	Account       Account       `gorm:"foreignKey:AccountID" json:"account"`
	MotionPicture MotionPicture `gorm:"foreignKey:MotionPictureID" json:"motion_picture"`
}

func (WatchlistEntry) TableName() string { return "watch_list" }
