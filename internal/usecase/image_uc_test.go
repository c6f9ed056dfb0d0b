package usecase

import (
	"context"
	"testing"

	"github.com/muhammadegaa/easyhome/internal/domain"
	"github.com/muhammadegaa/easyhome/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type imageFixture struct {
	uc      *ImageUsecase
	props   *fakePropertyRepo
	images  *fakeImageRepo
	storage *fakeStorage
	cache   *fakeCache
	owner   *domain.User
	listing *domain.Property
}

func newImageFixture() *imageFixture {
	users := newFakeUserRepo()
	f := &imageFixture{
		props:   newFakePropertyRepo(),
		images:  newFakeImageRepo(),
		storage: &fakeStorage{},
		cache:   newFakeCache(),
	}
	f.uc = NewImageUsecase(f.props, f.images, f.storage, f.cache, logger.NewLogger())
	f.owner = users.add("Made Putra", "made@example.com", domain.RoleSeller)
	f.listing = f.props.add(f.owner.ID, "Sunny family house in Sanur")
	return f
}

func uploadBatch(names ...string) []UploadFile {
	files := make([]UploadFile, len(names))
	for i, name := range names {
		files[i] = UploadFile{FileName: name, ContentType: "image/jpeg", Data: []byte("jpeg-bytes")}
	}
	return files
}

func TestImageUploadAppendsAfterExistingOrder(t *testing.T) {
	f := newImageFixture()
	ctx := context.Background()

	first, err := f.uc.Upload(ctx, f.owner.ID, f.owner.Role, f.listing.ID, uploadBatch("a.jpg", "b.jpg"), "exterior")
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, 0, first[0].Order)
	assert.Equal(t, 1, first[1].Order)
	assert.Equal(t, "exterior", first[0].Category)

	second, err := f.uc.Upload(ctx, f.owner.ID, f.owner.Role, f.listing.ID, uploadBatch("c.jpg"), "")
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, 2, second[0].Order, "new entries append after the current highest order")

	gallery, err := f.uc.List(ctx, f.listing.ID)
	require.NoError(t, err)
	assert.Len(t, gallery, 3)
}

func TestImageUploadValidation(t *testing.T) {
	f := newImageFixture()
	ctx := context.Background()

	_, err := f.uc.Upload(ctx, f.owner.ID, f.owner.Role, f.listing.ID, nil, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	names := make([]string, maxImagesPerUpload+1)
	for i := range names {
		names[i] = "x.jpg"
	}
	_, err = f.uc.Upload(ctx, f.owner.ID, f.owner.Role, f.listing.ID, uploadBatch(names...), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Upload(ctx, "stranger", domain.RoleBuyer, f.listing.ID, uploadBatch("a.jpg"), "")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.uc.Upload(ctx, f.owner.ID, f.owner.Role, "missing", uploadBatch("a.jpg"), "")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Empty(t, f.storage.uploads, "rejected batches never reach storage")
}

func TestImageUploadCompensatesWhenRowInsertFails(t *testing.T) {
	f := newImageFixture()
	f.images.failCreateBatch = true

	_, err := f.uc.Upload(context.Background(), f.owner.ID, f.owner.Role, f.listing.ID, uploadBatch("a.jpg", "b.jpg"), "")
	require.Error(t, err)

	assert.Len(t, f.storage.uploads, 2)
	assert.ElementsMatch(t, f.storage.uploads, f.storage.deleted, "all uploaded blobs are cleaned up")
	gallery, _ := f.images.FindByProperty(context.Background(), f.listing.ID)
	assert.Empty(t, gallery)
}

func TestImageUploadCompensatesWhenABlobFails(t *testing.T) {
	f := newImageFixture()
	f.storage.failUploadAt = 3

	_, err := f.uc.Upload(context.Background(), f.owner.ID, f.owner.Role, f.listing.ID, uploadBatch("a.jpg", "b.jpg", "c.jpg"), "")
	require.Error(t, err)

	assert.Len(t, f.storage.uploads, 2, "the third upload failed")
	assert.ElementsMatch(t, f.storage.uploads, f.storage.deleted, "the two stored blobs are cleaned up")
}

func TestImageReorderAppliesPermutation(t *testing.T) {
	f := newImageFixture()
	ctx := context.Background()

	images, err := f.uc.Upload(ctx, f.owner.ID, f.owner.Role, f.listing.ID, uploadBatch("a.jpg", "b.jpg", "c.jpg"), "")
	require.NoError(t, err)

	other := f.props.add("someone-else", "Another listing elsewhere")
	foreign, err := f.uc.Upload(ctx, "someone-else", domain.RoleSeller, other.ID, uploadBatch("z.jpg"), "")
	require.NoError(t, err)

	err = f.uc.Reorder(ctx, f.owner.ID, f.owner.Role, f.listing.ID, []domain.ImageOrder{
		{ImageID: images[0].ID, Order: 3},
		{ImageID: images[1].ID, Order: 1},
		{ImageID: images[2].ID, Order: 2},
		{ImageID: "missing-image", Order: 0},
		{ImageID: foreign[0].ID, Order: 0},
	})
	require.NoError(t, err, "unknown and foreign entries are skipped, not fatal")

	gallery, err := f.uc.List(ctx, f.listing.ID)
	require.NoError(t, err)
	require.Len(t, gallery, 3)
	assert.Equal(t, images[1].ID, gallery[0].ID)
	assert.Equal(t, images[2].ID, gallery[1].ID)
	assert.Equal(t, images[0].ID, gallery[2].ID)

	foreignGallery, err := f.uc.List(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, foreignGallery[0].Order, "the foreign gallery is untouched")

	err = f.uc.Reorder(ctx, f.owner.ID, f.owner.Role, f.listing.ID, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = f.uc.Reorder(ctx, "stranger", domain.RoleBuyer, f.listing.ID, []domain.ImageOrder{{ImageID: images[0].ID, Order: 0}})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestImageDelete(t *testing.T) {
	f := newImageFixture()
	ctx := context.Background()

	images, err := f.uc.Upload(ctx, f.owner.ID, f.owner.Role, f.listing.ID, uploadBatch("a.jpg", "b.jpg"), "")
	require.NoError(t, err)

	err = f.uc.Delete(ctx, "stranger", domain.RoleBuyer, images[0].ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, f.uc.Delete(ctx, f.owner.ID, f.owner.Role, images[0].ID))

	gallery, err := f.uc.List(ctx, f.listing.ID)
	require.NoError(t, err)
	require.Len(t, gallery, 1)
	assert.Equal(t, images[1].ID, gallery[0].ID)
	assert.Contains(t, f.storage.deleted, images[0].URL)

	err = f.uc.Delete(ctx, f.owner.ID, f.owner.Role, "missing-image")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestImageUpdateCaptionAndCategory(t *testing.T) {
	f := newImageFixture()
	ctx := context.Background()

	images, err := f.uc.Upload(ctx, f.owner.ID, f.owner.Role, f.listing.ID, uploadBatch("a.jpg"), "exterior")
	require.NoError(t, err)

	updated, err := f.uc.UpdateImage(ctx, f.owner.ID, f.owner.Role, images[0].ID, UpdateImageInput{
		Caption:  strPtr("  Front view  "),
		Category: strPtr("facade"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Front view", updated.Caption)
	assert.Equal(t, "facade", updated.Category)

	_, err = f.uc.UpdateImage(ctx, "stranger", domain.RoleBuyer, images[0].ID, UpdateImageInput{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
