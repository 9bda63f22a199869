package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/admanager/ad-server-go/internal/audit"
	"github.com/admanager/ad-server-go/internal/storage"
)

const sweepTimeout = 2 * time.Minute

// ImageReferences lists every image URL still referenced by an ad row.
// repository.AdRepository implements it.
type ImageReferences interface {
	ListImageURLs(ctx context.Context) ([]string, error)
}

// OrphanImageJob removes stored images that no ad row references. Images
// younger than gracePeriod are kept so an upload whose insert is still in
// flight is never removed. Objects whose names were not produced by
// storage.ImageName are never touched.
type OrphanImageJob struct {
	refs        ImageReferences
	images      storage.ImageStore
	interval    time.Duration
	gracePeriod time.Duration
	now         func() time.Time
	done        chan struct{}
	stopped     chan struct{}
}

func NewOrphanImageJob(
	refs ImageReferences,
	images storage.ImageStore,
	interval, gracePeriod time.Duration,
) *OrphanImageJob {
	return &OrphanImageJob{
		refs:        refs,
		images:      images,
		interval:    interval,
		gracePeriod: gracePeriod,
		now:         time.Now,
		done:        make(chan struct{}),
		stopped:     make(chan struct{}),
	}
}

func (j *OrphanImageJob) Start() {
	go j.run()
	log.Info().Dur("interval", j.interval).Dur("gracePeriod", j.gracePeriod).Msg("orphan image job started")
}

// Stop signals the job and waits for an in-progress sweep to finish.
func (j *OrphanImageJob) Stop() {
	close(j.done)
	<-j.stopped
	log.Info().Msg("orphan image job stopped")
}

func (j *OrphanImageJob) run() {
	defer close(j.stopped)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-j.done:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
			j.Sweep(ctx)
			cancel()
		}
	}
}

// Sweep runs one pass and returns the number of images deleted.
func (j *OrphanImageJob) Sweep(ctx context.Context) int {
	urls, err := j.refs.ListImageURLs(ctx)
	if err != nil {
		log.Error().Err(err).Msg("orphan sweep: failed to list referenced images")
		return 0
	}
	// Match on object name so a changed URL prefix never orphans a live image.
	referenced := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		if name := storage.ObjectName(u); name != "" {
			referenced[name] = struct{}{}
		}
	}

	stored, err := j.images.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("orphan sweep: failed to list stored images")
		return 0
	}

	cutoff := j.now().Add(-j.gracePeriod)
	deleted := 0
	for _, img := range stored {
		if !storage.IsImageName(img.Name) {
			continue
		}
		if _, ok := referenced[img.Name]; ok {
			continue
		}
		if img.ModifiedAt.After(cutoff) {
			continue
		}
		if err := j.images.Delete(ctx, img.URL); err != nil {
			log.Error().Err(err).Str("url", img.URL).Msg("orphan sweep: failed to delete image")
			continue
		}
		deleted++
	}

	if deleted > 0 {
		audit.Log(ctx, audit.Event{
			Type:    audit.EventImageSweep,
			Details: map[string]interface{}{"deleted": deleted},
		})
	}

	return deleted
}
