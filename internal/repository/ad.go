package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/admanager/ad-server-go/internal/model"
)

const adColumns = `id, ad_type, title, description, image_url, target_url, short_url,
	embed_src, embed_width, embed_height, is_active, created_at, updated_at`

type AdRepository interface {
	Create(ctx context.Context, params model.CreateAdParams) (*model.Ad, error)
	FindActiveByID(ctx context.Context, id int64) (*model.Ad, error)
	Search(ctx context.Context, page, size int, keyword string) ([]model.Ad, int, error)
	Update(ctx context.Context, id int64, update model.AdUpdate) (*model.Ad, error)
	SoftDelete(ctx context.Context, id int64) error
	ListAllActive(ctx context.Context) ([]model.Ad, error)
	ListImageURLs(ctx context.Context) ([]string, error)
}

type adRepo struct {
	db *sqlx.DB
}

func NewAdRepository(db *sqlx.DB) AdRepository {
	return &adRepo{db: db}
}

func (r *adRepo) Create(ctx context.Context, params model.CreateAdParams) (*model.Ad, error) {
	var ad model.Ad
	err := r.db.GetContext(ctx, &ad, `
		INSERT INTO ads (ad_type, title, description, image_url, target_url, short_url,
			embed_src, embed_width, embed_height, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, TRUE)
		RETURNING `+adColumns,
		params.AdType, params.Title, params.Description, params.ImageURL, params.TargetURL, params.ShortURL,
		params.EmbedSrc, params.EmbedWidth, params.EmbedHeight)
	if err != nil {
		return nil, err
	}
	return &ad, nil
}

func (r *adRepo) FindActiveByID(ctx context.Context, id int64) (*model.Ad, error) {
	var ad model.Ad
	err := r.db.GetContext(ctx, &ad, `
		SELECT `+adColumns+`
		FROM ads
		WHERE id = $1 AND is_active = TRUE
	`, id)
	return HandleNotFound(&ad, err)
}

// Search returns one page of active ads, newest first, and the total number
// of active ads matching keyword. An empty keyword matches every active ad.
func (r *adRepo) Search(ctx context.Context, page, size int, keyword string) ([]model.Ad, int, error) {
	where := ` WHERE is_active = TRUE`
	args := []interface{}{}

	if keyword != "" {
		args = append(args, "%"+escapeLike(keyword)+"%")
		where += fmt.Sprintf(` AND (title LIKE $%d OR description LIKE $%d)`, len(args), len(args))
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM ads`+where, args...); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + adColumns + ` FROM ads` + where +
		fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, size, page*size)

	ads := []model.Ad{}
	if err := r.db.SelectContext(ctx, &ads, query, args...); err != nil {
		return nil, 0, err
	}

	return ads, total, nil
}

// Update overwrites the non-nil fields of update on an active ad and bumps
// updated_at. It returns nil when the ad does not exist or is inactive.
func (r *adRepo) Update(ctx context.Context, id int64, update model.AdUpdate) (*model.Ad, error) {
	sets := []string{}
	args := []interface{}{}
	set := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.Title != nil {
		set("title", *update.Title)
	}
	if update.ClearDescription {
		sets = append(sets, "description = NULL")
	} else if update.Description != nil {
		set("description", *update.Description)
	}
	if update.TargetURL != nil {
		set("target_url", *update.TargetURL)
	}
	if update.ShortURL != nil {
		set("short_url", *update.ShortURL)
	}
	if update.EmbedSrc != nil {
		set("embed_src", *update.EmbedSrc)
	}
	if update.EmbedWidth != nil {
		set("embed_width", *update.EmbedWidth)
	}
	if update.EmbedHeight != nil {
		set("embed_height", *update.EmbedHeight)
	}
	sets = append(sets, "updated_at = NOW()")

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE ads SET %s WHERE id = $%d AND is_active = TRUE RETURNING %s`,
		strings.Join(sets, ", "), len(args), adColumns)

	var ad model.Ad
	err := r.db.GetContext(ctx, &ad, query, args...)
	return HandleNotFound(&ad, err)
}

func (r *adRepo) SoftDelete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE ads SET is_active = FALSE, updated_at = NOW()
		WHERE id = $1
	`, id)
	return err
}

func (r *adRepo) ListAllActive(ctx context.Context) ([]model.Ad, error) {
	ads := []model.Ad{}
	err := r.db.SelectContext(ctx, &ads, `
		SELECT `+adColumns+`
		FROM ads
		WHERE is_active = TRUE
	`)
	if err != nil {
		return nil, err
	}
	return ads, nil
}

// ListImageURLs returns every stored image URL, including those of
// soft-deleted ads, whose rows still reference their files.
func (r *adRepo) ListImageURLs(ctx context.Context) ([]string, error) {
	urls := []string{}
	err := r.db.SelectContext(ctx, &urls, `SELECT image_url FROM ads WHERE image_url IS NOT NULL`)
	if err != nil {
		return nil, err
	}
	return urls, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
