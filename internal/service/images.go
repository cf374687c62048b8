// Package service holds the orchestrators that tie validation, object
// storage and the metadata store together.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/placepix/placepix/internal/repository"
	"github.com/placepix/placepix/internal/storage"
	"github.com/placepix/placepix/internal/validate"
	"github.com/placepix/placepix/models"
)

// ErrNotFound marks absent users or images; handlers translate it to 404.
var ErrNotFound = errors.New("not found")

// ObjectStore is the slice of the bucket client the orchestrators need.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, key string) (bool, error)
}

// MetadataStore is the slice of the repository the orchestrators need.
type MetadataStore interface {
	GetOrCreateUser(ctx context.Context, userUUID string) (*models.User, error)
	CreateImage(ctx context.Context, image *models.Image) error
	ListImages(ctx context.Context) ([]models.Image, error)
	ListImagesByUser(ctx context.Context, userUUID string) ([]models.Image, error)
	FindImageByUUID(ctx context.Context, imageUUID string) (*models.Image, error)
	DeleteImage(ctx context.Context, image *models.Image) error
	ListTags(ctx context.Context) ([]models.Tag, error)
}

// ItemError reports one rejected batch item.
type ItemError struct {
	UUID    string `json:"uuid"`
	Message string `json:"message"`
}

// Summary is the per-owner listing shape.
type Summary struct {
	UUID     string            `json:"uuid"`
	ImageURL string            `json:"imageURL"`
	Author   string            `json:"author"`
	Tags     models.StringList `json:"tags"`
}

type Images struct {
	objects ObjectStore
	repo    MetadataStore
}

func NewImages(objects ObjectStore, repo MetadataStore) *Images {
	return &Images{objects: objects, repo: repo}
}

// staged is a batch item that passed validation and is ready to commit.
type staged struct {
	sub  *validate.Submission
	data []byte
	mime string
	ext  string
}

// Ingest runs a batch through the two-phase pipeline.
//
// Phase one validates every item. If any item fails, the full error list is
// returned in submission order and nothing is written: one bad image blocks
// the whole batch.
//
// Phase two commits the accepted items sequentially, each as object-store
// write, then owner upsert, then metadata row. A failure on any item aborts
// the rest of the batch but does not undo items already committed.
func (s *Images) Ingest(ctx context.Context, userUUID string, items []json.RawMessage) ([]ItemError, error) {
	var accepted []staged
	var itemErrs []ItemError
	for _, raw := range items {
		st, err := validateItem(raw)
		if err != nil {
			itemErrs = append(itemErrs, ItemError{
				UUID:    validate.PeekUUID(raw),
				Message: err.Error(),
			})
			continue
		}
		accepted = append(accepted, *st)
	}
	if len(itemErrs) > 0 {
		return itemErrs, nil
	}

	for _, st := range accepted {
		key := storage.Key(st.sub.UUID, st.ext)
		imageURL, err := s.objects.Put(ctx, key, st.mime, st.data)
		if err != nil {
			return nil, fmt.Errorf("upload image %s: %w", st.sub.UUID, err)
		}

		user, err := s.repo.GetOrCreateUser(ctx, userUUID)
		if err != nil {
			return nil, fmt.Errorf("get or create user %s: %w", userUUID, err)
		}

		image := models.Image{
			UUID:        st.sub.UUID,
			ImageURL:    imageURL,
			Location:    st.sub.Location,
			Description: st.sub.Description,
			Tags:        st.sub.Tags,
			UserUUID:    user.UserUUID,
		}
		if err := s.repo.CreateImage(ctx, &image); err != nil {
			return nil, fmt.Errorf("save image %s: %w", st.sub.UUID, err)
		}
	}
	return nil, nil
}

func validateItem(raw json.RawMessage) (*staged, error) {
	sub, err := validate.ParseSubmission(raw)
	if err != nil {
		return nil, err
	}
	data, err := validate.DecodeImage(sub.Image)
	if err != nil {
		return nil, err
	}
	mime, ext, err := validate.SniffContent(data)
	if err != nil {
		return nil, err
	}
	return &staged{sub: sub, data: data, mime: mime, ext: ext}, nil
}

// ListAll returns every image row.
func (s *Images) ListAll(ctx context.Context) ([]models.Image, error) {
	return s.repo.ListImages(ctx)
}

// ListByOwner returns the owner's images, or ErrNotFound when there are
// none. An owner with zero images is indistinguishable from one that never
// existed.
func (s *Images) ListByOwner(ctx context.Context, userUUID string) ([]Summary, error) {
	images, err := s.repo.ListImagesByUser(ctx, userUUID)
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, ErrNotFound
	}
	summaries := make([]Summary, 0, len(images))
	for _, img := range images {
		summaries = append(summaries, Summary{
			UUID:     img.UUID,
			ImageURL: img.ImageURL,
			Author:   userUUID,
			Tags:     img.Tags,
		})
	}
	return summaries, nil
}

// Delete removes an image: stored object first, then the metadata row. A
// transport failure deleting the object fails the whole operation and
// leaves the metadata row in place; an already-absent object does not.
func (s *Images) Delete(ctx context.Context, imageUUID string) error {
	image, err := s.repo.FindImageByUUID(ctx, imageUUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	key := storage.KeyFromURL(image.ImageURL)
	if _, err := s.objects.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete object for image %s: %w", imageUUID, err)
	}

	if err := s.repo.DeleteImage(ctx, image); err != nil {
		return fmt.Errorf("delete image %s: %w", imageUUID, err)
	}
	return nil
}

// ListTags returns every known tag.
func (s *Images) ListTags(ctx context.Context) ([]models.Tag, error) {
	return s.repo.ListTags(ctx)
}
