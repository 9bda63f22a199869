package service

import (
	"context"
	"io"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/admanager/ad-server-go/internal/config"
	apperrors "github.com/admanager/ad-server-go/internal/errors"
	"github.com/admanager/ad-server-go/internal/model"
	"github.com/admanager/ad-server-go/internal/repository"
	"github.com/admanager/ad-server-go/internal/storage"
	"github.com/admanager/ad-server-go/internal/util"
)

// Shortener turns a long URL into a short one. *ShortLinkService
// implements it.
type Shortener interface {
	Shorten(ctx context.Context, longURL string) (string, error)
}

type ImageUpload struct {
	Filename    string
	ContentType string
	Body        io.Reader
	Size        int64
}

type CreateImageAdInput struct {
	Title       string
	Description *string
	TargetURL   string
	Image       ImageUpload
}

type CreateIframeAdInput struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	EmbedSrc    string  `json:"embed_src"`
	EmbedWidth  *int    `json:"embed_width"`
	EmbedHeight *int    `json:"embed_height"`
}

// AdPatch is a partial update request. Nil fields are left untouched, and
// fields that do not apply to the ad's type are ignored.
type AdPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	TargetURL   *string `json:"target_url"`
	EmbedSrc    *string `json:"embed_src"`
	EmbedWidth  *int    `json:"embed_width"`
	EmbedHeight *int    `json:"embed_height"`
}

type AdPage struct {
	Items         []model.Ad `json:"items"`
	Page          int        `json:"page"`
	Size          int        `json:"size"`
	TotalElements int        `json:"totalElements"`
	TotalPages    int        `json:"totalPages"`
}

type AdService struct {
	ads          repository.AdRepository
	shortener    Shortener
	images       storage.ImageStore
	allowedHosts []string
	now          func() time.Time
	pick         func(n int) int
}

func NewAdService(
	ads repository.AdRepository,
	shortener Shortener,
	images storage.ImageStore,
	allowedHosts []string,
) *AdService {
	return &AdService{
		ads:          ads,
		shortener:    shortener,
		images:       images,
		allowedHosts: allowedHosts,
		now:          time.Now,
		pick:         rand.Intn,
	}
}

func (s *AdService) CreateImageAd(ctx context.Context, input CreateImageAdInput) (*model.Ad, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.MissingRequired("title")
	}
	if input.Image.Body == nil || input.Image.Size <= 0 {
		return nil, apperrors.MissingRequired("image")
	}
	if ct := input.Image.ContentType; ct != "" && !strings.HasPrefix(ct, "image/") {
		return nil, apperrors.InvalidInput("image", "file must be an image")
	}

	targetURL := strings.TrimSpace(input.TargetURL)
	if targetURL != "" {
		if _, ok := util.HTTPURLHost(targetURL); !ok {
			return nil, apperrors.InvalidInput("target_url", "must be an http or https URL")
		}
	}

	name := storage.ImageName(s.now(), util.SanitizeFilename(input.Image.Filename))
	imageURL, err := s.images.Save(ctx, name, input.Image.Body, input.Image.Size, input.Image.ContentType)
	if err != nil {
		return nil, apperrors.Storage(err)
	}

	params := model.CreateAdParams{
		AdType:      model.AdTypeImage,
		Title:       title,
		Description: normalizeDescription(input.Description),
		ImageURL:    &imageURL,
	}
	if targetURL != "" {
		shortURL := s.shortLink(ctx, targetURL)
		params.TargetURL = &targetURL
		params.ShortURL = &shortURL
	}

	ad, err := s.ads.Create(ctx, params)
	if err != nil {
		if delErr := s.images.Delete(ctx, imageURL); delErr != nil {
			log.Warn().Err(delErr).Str("imageUrl", imageURL).Msg("failed to remove image after insert error")
		}
		return nil, apperrors.Database(err)
	}

	return ad, nil
}

func (s *AdService) CreateIframeAd(ctx context.Context, input CreateIframeAdInput) (*model.Ad, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.MissingRequired("title")
	}

	embedSrc := strings.TrimSpace(input.EmbedSrc)
	if embedSrc == "" {
		return nil, apperrors.MissingRequired("embed_src")
	}
	if err := s.checkEmbedSrc(embedSrc); err != nil {
		return nil, err
	}
	if err := checkDimensions(input.EmbedWidth, input.EmbedHeight); err != nil {
		return nil, err
	}

	ad, err := s.ads.Create(ctx, model.CreateAdParams{
		AdType:      model.AdTypeIframe,
		Title:       title,
		Description: normalizeDescription(input.Description),
		EmbedSrc:    &embedSrc,
		EmbedWidth:  input.EmbedWidth,
		EmbedHeight: input.EmbedHeight,
	})
	if err != nil {
		return nil, apperrors.Database(err)
	}

	return ad, nil
}

func (s *AdService) GetAd(ctx context.Context, id int64) (*model.Ad, error) {
	ad, err := s.ads.FindActiveByID(ctx, id)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if ad == nil {
		return nil, apperrors.NotFound("Ad")
	}
	return ad, nil
}

// UpdateAd applies the fields of patch that are valid for the ad's type.
// title and description apply to every ad; target_url only to IMAGE ads;
// embed_src and the embed dimensions only to IFRAME ads.
func (s *AdService) UpdateAd(ctx context.Context, id int64, patch AdPatch) (*model.Ad, error) {
	ad, err := s.GetAd(ctx, id)
	if err != nil {
		return nil, err
	}

	var update model.AdUpdate

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, apperrors.MissingRequired("title")
		}
		update.Title = &title
	}
	if patch.Description != nil {
		update.Description = normalizeDescription(patch.Description)
		update.ClearDescription = update.Description == nil
	}

	switch ad.AdType {
	case model.AdTypeImage:
		if patch.TargetURL != nil {
			targetURL := strings.TrimSpace(*patch.TargetURL)
			if _, ok := util.HTTPURLHost(targetURL); !ok {
				return nil, apperrors.InvalidInput("target_url", "must be an http or https URL")
			}
			if ad.TargetURL == nil || *ad.TargetURL != targetURL {
				shortURL := s.shortLink(ctx, targetURL)
				update.TargetURL = &targetURL
				update.ShortURL = &shortURL
			}
		}
	case model.AdTypeIframe:
		if patch.EmbedSrc != nil {
			embedSrc := strings.TrimSpace(*patch.EmbedSrc)
			if err := s.checkEmbedSrc(embedSrc); err != nil {
				return nil, err
			}
			update.EmbedSrc = &embedSrc
		}
		if err := checkDimensions(patch.EmbedWidth, patch.EmbedHeight); err != nil {
			return nil, err
		}
		update.EmbedWidth = patch.EmbedWidth
		update.EmbedHeight = patch.EmbedHeight
	}

	if update.IsEmpty() {
		return ad, nil
	}

	updated, err := s.ads.Update(ctx, id, update)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if updated == nil {
		return nil, apperrors.NotFound("Ad")
	}
	return updated, nil
}

func (s *AdService) DeleteAd(ctx context.Context, id int64) error {
	if _, err := s.GetAd(ctx, id); err != nil {
		return err
	}
	if err := s.ads.SoftDelete(ctx, id); err != nil {
		return apperrors.Database(err)
	}
	return nil
}

func (s *AdService) ListAds(ctx context.Context, page, size int, keyword string) (*AdPage, error) {
	if page < 0 {
		return nil, apperrors.ValidationError("page must be zero or greater")
	}
	if size <= 0 {
		return nil, apperrors.ValidationError("size must be greater than zero")
	}
	if size > config.MaxPageSize {
		size = config.MaxPageSize
	}
	if page > math.MaxInt/size {
		return nil, apperrors.ValidationError("page is out of range")
	}

	items, total, err := s.ads.Search(ctx, page, size, strings.TrimSpace(keyword))
	if err != nil {
		return nil, apperrors.Database(err)
	}

	return &AdPage{
		Items:         items,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    (total + size - 1) / size,
	}, nil
}

// RandomActiveAd picks one active ad uniformly at random.
func (s *AdService) RandomActiveAd(ctx context.Context) (*model.Ad, error) {
	ads, err := s.ads.ListAllActive(ctx)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if len(ads) == 0 {
		return nil, apperrors.NoActiveAd()
	}
	return &ads[s.pick(len(ads))], nil
}

// shortLink returns the short form of targetURL, or targetURL itself when
// the gateway fails for any reason.
func (s *AdService) shortLink(ctx context.Context, targetURL string) string {
	if s.shortener == nil {
		return targetURL
	}
	shortURL, err := s.shortener.Shorten(ctx, targetURL)
	if err != nil {
		log.Warn().Err(err).Str("targetUrl", targetURL).Msg("short link unavailable, using target url")
		return targetURL
	}
	return shortURL
}

func (s *AdService) checkEmbedSrc(embedSrc string) error {
	host, ok := util.HTTPURLHost(embedSrc)
	if !ok {
		return apperrors.InvalidInput("embed_src", "must be an http or https URL")
	}
	if !util.IsAllowedHost(host, s.allowedHosts) {
		return apperrors.ForbiddenDomain(host)
	}
	return nil
}

func checkDimensions(width, height *int) error {
	if width != nil && *width <= 0 {
		return apperrors.InvalidInput("embed_width", "must be positive")
	}
	if height != nil && *height <= 0 {
		return apperrors.InvalidInput("embed_height", "must be positive")
	}
	return nil
}

func normalizeDescription(description *string) *string {
	if description == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*description)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
