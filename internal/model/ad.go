package model

import (
	"time"
)

// Ad is a single advertisement row. Only the field group matching AdType
// is populated; the other group's columns stay NULL.
type Ad struct {
	ID          int64   `db:"id" json:"id"`
	AdType      AdType  `db:"ad_type" json:"ad_type"`
	Title       string  `db:"title" json:"title"`
	Description *string `db:"description" json:"description"`

	ImageURL  *string `db:"image_url" json:"image_url,omitempty"`
	TargetURL *string `db:"target_url" json:"target_url,omitempty"`
	ShortURL  *string `db:"short_url" json:"short_url,omitempty"`

	EmbedSrc    *string `db:"embed_src" json:"embed_src,omitempty"`
	EmbedWidth  *int    `db:"embed_width" json:"embed_width,omitempty"`
	EmbedHeight *int    `db:"embed_height" json:"embed_height,omitempty"`

	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type CreateAdParams struct {
	AdType      AdType
	Title       string
	Description *string
	ImageURL    *string
	TargetURL   *string
	ShortURL    *string
	EmbedSrc    *string
	EmbedWidth  *int
	EmbedHeight *int
}

// AdUpdate holds the columns to overwrite. Nil fields are left untouched.
// ClearDescription sets description to NULL and wins over Description.
type AdUpdate struct {
	Title            *string
	Description      *string
	ClearDescription bool
	TargetURL        *string
	ShortURL         *string
	EmbedSrc         *string
	EmbedWidth       *int
	EmbedHeight      *int
}

func (u AdUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && !u.ClearDescription && u.TargetURL == nil && u.ShortURL == nil &&
		u.EmbedSrc == nil && u.EmbedWidth == nil && u.EmbedHeight == nil
}

// PublicAd is the view of an ad served to anonymous visitors.
type PublicAd struct {
	ID          int64   `json:"id"`
	AdType      AdType  `json:"ad_type"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url,omitempty"`
	TargetURL   *string `json:"target_url,omitempty"`
	ShortURL    *string `json:"short_url,omitempty"`
	EmbedSrc    *string `json:"embed_src,omitempty"`
	EmbedWidth  *int    `json:"embed_width,omitempty"`
	EmbedHeight *int    `json:"embed_height,omitempty"`
}

func (a *Ad) Public() PublicAd {
	return PublicAd{
		ID:          a.ID,
		AdType:      a.AdType,
		Title:       a.Title,
		Description: a.Description,
		ImageURL:    a.ImageURL,
		TargetURL:   a.TargetURL,
		ShortURL:    a.ShortURL,
		EmbedSrc:    a.EmbedSrc,
		EmbedWidth:  a.EmbedWidth,
		EmbedHeight: a.EmbedHeight,
	}
}
