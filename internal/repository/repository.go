// Package repository is the metadata store: Users, Images and Tags in
// Postgres through gorm.
package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/placepix/placepix/models"
)

// ErrNotFound is returned when a looked-up record does not exist.
var ErrNotFound = errors.New("record not found")

type Repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetOrCreateUser lazily creates the owner row on first upload. The insert
// is an upsert on the unique identity column, so two concurrent first
// uploads for the same owner cannot produce two rows.
func (r *Repository) GetOrCreateUser(ctx context.Context, userUUID string) (*models.User, error) {
	user := models.User{UserUUID: userUUID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateImage writes the metadata row and records any previously unseen
// tags. Both happen in one database transaction; the preceding object-store
// write is outside it and stays non-transactional.
func (r *Repository) CreateImage(ctx context.Context, image *models.Image) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(image).Error; err != nil {
			return err
		}
		for _, name := range image.Tags {
			tag := models.Tag{Name: name}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&tag).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *Repository) ListImages(ctx context.Context) ([]models.Image, error) {
	var images []models.Image
	if err := r.db.WithContext(ctx).Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

func (r *Repository) ListImagesByUser(ctx context.Context, userUUID string) ([]models.Image, error) {
	var images []models.Image
	err := r.db.WithContext(ctx).
		Where("user_uuid = ?", userUUID).
		Find(&images).Error
	if err != nil {
		return nil, err
	}
	return images, nil
}

func (r *Repository) FindImageByUUID(ctx context.Context, imageUUID string) (*models.Image, error) {
	var image models.Image
	err := r.db.WithContext(ctx).Where("uuid = ?", imageUUID).First(&image).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &image, nil
}

func (r *Repository) DeleteImage(ctx context.Context, image *models.Image) error {
	return r.db.WithContext(ctx).Delete(image).Error
}

func (r *Repository) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := r.db.WithContext(ctx).Order("name").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}
