package model

import "time"

type Platform string

const (
	PlatformAndroid Platform = "android"
	PlatformIOS     Platform = "ios"
)

// KnownPlatforms lists the platform identifiers accepted on create/update.
var KnownPlatforms = []Platform{PlatformAndroid, PlatformIOS}

// IsKnownPlatform reports whether p is one of KnownPlatforms.
func IsKnownPlatform(p string) bool {
	for _, k := range KnownPlatforms {
		if string(k) == p {
			return true
		}
	}
	return false
}

// Game is one app listing on one platform store. Every field except ID and
// the timestamps may be null.
type Game struct {
	ID          int64     `json:"id"`
	PublisherID *string   `json:"publisherId"`
	Name        *string   `json:"name"`
	Platform    *string   `json:"platform"`
	StoreID     *string   `json:"storeId"`
	BundleID    *string   `json:"bundleId"`
	AppVersion  *string   `json:"appVersion"`
	IsPublished *bool     `json:"isPublished"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// GameInput carries the seven user-editable fields. Create and Update both
// write all of them, so a nil field clears the column.
type GameInput struct {
	PublisherID *string `json:"publisherId" validate:"omitempty,max=255"`
	Name        *string `json:"name" validate:"omitempty,notblank,max=255"`
	Platform    *string `json:"platform" validate:"omitempty,platform"`
	StoreID     *string `json:"storeId" validate:"omitempty,max=255"`
	BundleID    *string `json:"bundleId" validate:"omitempty,max=255"`
	AppVersion  *string `json:"appVersion" validate:"omitempty,max=64"`
	IsPublished *bool   `json:"isPublished"`
}

// SearchInput is the body of POST /api/games/search.
type SearchInput struct {
	Name     string `json:"name" validate:"max=255"`
	Platform string `json:"platform" validate:"max=64"`
}
