package app

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// PageSize is the number of apps per listing page.
const PageSize = 8

// MaxPage bounds Query.Page so the row offset fits a Postgres integer.
const MaxPage = math.MaxInt32/PageSize + 1

// App is an OAuth client registered by a user.
type App struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Description *string    `db:"description" json:"description"`
	UserID      uuid.UUID  `db:"user_id" json:"userId"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   *time.Time `db:"updated_at" json:"updatedAt"`
}

// Secret is the client secret of an app. An app holds exactly one.
type Secret struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	Value     string     `db:"secret" json:"secret"`
	AppID     uuid.UUID  `db:"app_id" json:"appId"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt *time.Time `db:"updated_at" json:"updatedAt"`
}

// RedirectURL is one entry of an app's redirect allowlist.
type RedirectURL struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	URL       string     `db:"url" json:"url"`
	AppID     uuid.UUID  `db:"app_id" json:"appId"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt *time.Time `db:"updated_at" json:"updatedAt"`
}

// Details is an app joined with its secret and allowlist.
type Details struct {
	App          App           `json:"app"`
	Secret       Secret        `json:"secret"`
	RedirectURLs []RedirectURL `json:"redirectUrls"`
}

// Input holds the editable app fields. An empty description clears it.
type Input struct {
	Title       string
	Description string
}

// Query selects a page of the caller's apps. Text filters title and
// description case-insensitively; Page starts at 1.
type Query struct {
	Text string
	Page int
}

// Listing is one page of apps. Count is set only when requested.
type Listing struct {
	Apps  []Details
	Count *int64
	Limit int
}

// LastPage is the 1-based number of the last page, at least 1.
func (l Listing) LastPage() int {
	if l.Count == nil || *l.Count == 0 || l.Limit <= 0 {
		return 1
	}
	return int((*l.Count + int64(l.Limit) - 1) / int64(l.Limit))
}
