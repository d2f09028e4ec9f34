package service

import (
	"context"
	"time"

	"github.com/Elias-Front-end/management-system/internal/access"
	"github.com/Elias-Front-end/management-system/internal/eligibility"
	"github.com/Elias-Front-end/management-system/internal/model"
	"github.com/Elias-Front-end/management-system/internal/repository"
	"github.com/Elias-Front-end/management-system/internal/storage"

	"github.com/rs/zerolog"
)

// ResourceView is a resource as seen by one viewer on one day.
type ResourceView struct {
	model.Resource
	// CanAccess is the eligibility decision for the viewer.
	CanAccess bool
	// FileURL is a presigned download URL, set only when CanAccess holds.
	FileURL *string
}

// Files presigns and removes stored resource files.
type Files struct {
	store  storage.FileStore
	logger zerolog.Logger
}

func NewFiles(store storage.FileStore, logger zerolog.Logger) Files {
	return Files{store: store, logger: logger.With().Str("component", "files").Logger()}
}

func (f Files) views(ctx context.Context, viewer access.Actor, resources []model.Resource, today time.Time) []ResourceView {
	views := make([]ResourceView, 0, len(resources))
	for _, r := range resources {
		v := ResourceView{Resource: r, CanAccess: eligibility.IsVisible(r, viewer, today)}
		if v.CanAccess && r.FileKey != "" {
			url, err := f.store.PresignDownload(ctx, r.FileKey)
			if err != nil {
				f.logger.Error().Err(err).Str("resource_id", r.ID).Msg("Failed to presign download URL")
			} else {
				v.FileURL = &url
			}
		}
		views = append(views, v)
	}
	return views
}

// remove deletes files after their rows are gone. Failures only leave orphaned objects.
func (f Files) remove(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := f.store.Delete(ctx, keys...); err != nil {
		f.logger.Warn().Err(err).Strs("keys", keys).Msg("Failed to delete stored files")
	}
}

// keysOf collects the stored file keys of every resource matching filter.
func keysOf(ctx context.Context, repo repository.ResourceRepository, filter repository.ResourceFilter) ([]string, error) {
	resources, _, err := repo.ListResources(ctx, filter, repository.Page{})
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(resources))
	for _, r := range resources {
		if r.FileKey != "" {
			keys = append(keys, r.FileKey)
		}
	}
	return keys, nil
}
