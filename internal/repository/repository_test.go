package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/placepix/placepix/models"
)

func setup(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return New(db), mock
}

func TestGetOrCreateUserUpserts(t *testing.T) {
	repo, mock := setup(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "users" (.+) ON CONFLICT DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	user, err := repo.GetOrCreateUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.UserUUID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrCreateUserExisting(t *testing.T) {
	repo, mock := setup(t)

	// Conflict on the identity column: no row written, no error either.
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "users" (.+) ON CONFLICT DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	user, err := repo.GetOrCreateUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.UserUUID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateImageWritesRowAndTags(t *testing.T) {
	repo, mock := setup(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "images"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(`INSERT INTO "tags" (.+) ON CONFLICT DO NOTHING`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(`INSERT INTO "tags" (.+) ON CONFLICT DO NOTHING`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectCommit()

	image := &models.Image{
		UUID:        "img1",
		ImageURL:    "https://host/bucket/img1.png",
		Location:    "Paris",
		Description: "tower",
		Tags:        models.StringList{"travel", "europe"},
		UserUUID:    "u1",
	}
	require.NoError(t, repo.CreateImage(context.Background(), image))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindImageByUUID(t *testing.T) {
	repo, mock := setup(t)

	rows := sqlmock.NewRows([]string{"id", "uuid", "image_url", "tags", "user_uuid"}).
		AddRow(1, "img1", "https://host/bucket/img1.png", "travel,europe", "u1")
	mock.ExpectQuery(`SELECT (.+) FROM "images" WHERE uuid =`).WillReturnRows(rows)

	image, err := repo.FindImageByUUID(context.Background(), "img1")
	require.NoError(t, err)
	assert.Equal(t, "img1", image.UUID)
	assert.Equal(t, models.StringList{"travel", "europe"}, image.Tags)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindImageByUUIDNotFound(t *testing.T) {
	repo, mock := setup(t)

	mock.ExpectQuery(`SELECT (.+) FROM "images" WHERE uuid =`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindImageByUUID(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteImage(t *testing.T) {
	repo, mock := setup(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "images"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.DeleteImage(context.Background(), &models.Image{ID: 1, UUID: "img1"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListImagesByUser(t *testing.T) {
	repo, mock := setup(t)

	rows := sqlmock.NewRows([]string{"id", "uuid", "image_url", "user_uuid"}).
		AddRow(1, "img1", "https://host/bucket/img1.png", "u1").
		AddRow(2, "img2", "https://host/bucket/img2.gif", "u1")
	mock.ExpectQuery(`SELECT (.+) FROM "images" WHERE user_uuid =`).WillReturnRows(rows)

	images, err := repo.ListImagesByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, "img2", images[1].UUID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListImagesByUserEmpty(t *testing.T) {
	repo, mock := setup(t)

	mock.ExpectQuery(`SELECT (.+) FROM "images" WHERE user_uuid =`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	images, err := repo.ListImagesByUser(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, images)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListTags(t *testing.T) {
	repo, mock := setup(t)

	rows := sqlmock.NewRows([]string{"id", "name"}).
		AddRow(1, "europe").
		AddRow(2, "travel")
	mock.ExpectQuery(`SELECT (.+) FROM "tags" ORDER BY name`).WillReturnRows(rows)

	tags, err := repo.ListTags(context.Background())
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "europe", tags[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
