package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/muhammadegaa/easyhome/internal/domain"
)

// In-memory fakes for the repository, storage, cache, mail and event ports.

type fakeUserRepo struct {
	users  map[string]*domain.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (f *fakeUserRepo) add(name, email string, role domain.Role) *domain.User {
	u := &domain.User{Email: email, Name: name, Role: role, PasswordHash: "x"}
	_ = f.Create(context.Background(), u)
	return u
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	f.nextID++
	user.ID = fmt.Sprintf("user-%d", f.nextID)
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) FindByVerificationToken(_ context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrNotFound
	}
	for _, u := range f.users {
		if u.VerificationToken == token {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) FindSummaries(_ context.Context, ids []string) (map[string]domain.OwnerSummary, error) {
	out := map[string]domain.OwnerSummary{}
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out[id] = u.Summary()
		}
	}
	return out, nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return domain.ErrNotFound
	}
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) SetVerificationToken(_ context.Context, id, token string) error {
	u, ok := f.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.VerificationToken = token
	return nil
}

func (f *fakeUserRepo) MarkVerified(_ context.Context, id string) error {
	u, ok := f.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.IsVerified = true
	u.VerificationToken = ""
	return nil
}

type fakePropertyRepo struct {
	properties map[string]*domain.Property
	nextID     int
}

func newFakePropertyRepo() *fakePropertyRepo {
	return &fakePropertyRepo{properties: map[string]*domain.Property{}}
}

func (f *fakePropertyRepo) add(ownerID, title string) *domain.Property {
	p := &domain.Property{
		OwnerID:      ownerID,
		Title:        title,
		Description:  strings.Repeat("description ", 5),
		PropertyType: domain.TypeHouse,
		ListingType:  domain.ListingSale,
		Price:        100,
		Address:      "Jl. Raya 1",
		City:         "Denpasar",
		Province:     "Bali",
		Status:       domain.StatusAvailable,
	}
	_ = f.Create(context.Background(), p)
	return p
}

func (f *fakePropertyRepo) Create(_ context.Context, property *domain.Property) error {
	f.nextID++
	property.ID = fmt.Sprintf("prop-%d", f.nextID)
	property.CreatedAt = time.Now().UTC()
	property.UpdatedAt = property.CreatedAt
	clone := *property
	f.properties[property.ID] = &clone
	return nil
}

func (f *fakePropertyRepo) FindByID(_ context.Context, id string) (*domain.Property, error) {
	p, ok := f.properties[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (f *fakePropertyRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.Property, error) {
	var out []*domain.Property
	for _, id := range ids {
		if p, ok := f.properties[id]; ok {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakePropertyRepo) FindByFilter(_ context.Context, filter domain.PropertyFilter) ([]*domain.Property, int64, error) {
	var matched []*domain.Property
	for _, p := range f.properties {
		if filter.OwnerID != "" && p.OwnerID != filter.OwnerID {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(p.Title), strings.ToLower(filter.Search)) {
			continue
		}
		clone := *p
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	start := filter.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filter.Limit
	if filter.Limit <= 0 || end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (f *fakePropertyRepo) Update(_ context.Context, property *domain.Property) error {
	if _, ok := f.properties[property.ID]; !ok {
		return domain.ErrNotFound
	}
	clone := *property
	f.properties[property.ID] = &clone
	return nil
}

func (f *fakePropertyRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.properties[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.properties, id)
	return nil
}

func (f *fakePropertyRepo) IncrementViewCount(_ context.Context, id string) error {
	p, ok := f.properties[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.ViewCount++
	return nil
}

type fakeImageRepo struct {
	images          map[string]*domain.PropertyImage
	nextID          int
	failCreateBatch bool
}

func newFakeImageRepo() *fakeImageRepo {
	return &fakeImageRepo{images: map[string]*domain.PropertyImage{}}
}

func (f *fakeImageRepo) CreateBatch(_ context.Context, images []*domain.PropertyImage) error {
	if f.failCreateBatch {
		return errors.New("insert failed")
	}
	for _, img := range images {
		f.nextID++
		img.ID = fmt.Sprintf("img-%d", f.nextID)
		img.CreatedAt = time.Now().UTC()
		clone := *img
		f.images[img.ID] = &clone
	}
	return nil
}

func (f *fakeImageRepo) FindByID(_ context.Context, id string) (*domain.PropertyImage, error) {
	img, ok := f.images[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *img
	return &clone, nil
}

func (f *fakeImageRepo) FindByProperty(_ context.Context, propertyID string) ([]*domain.PropertyImage, error) {
	var out []*domain.PropertyImage
	for _, img := range f.images {
		if img.PropertyID == propertyID {
			clone := *img
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (f *fakeImageRepo) LeadImages(ctx context.Context, propertyIDs []string) (map[string]*domain.PropertyImage, error) {
	lead := map[string]*domain.PropertyImage{}
	for _, id := range propertyIDs {
		gallery, _ := f.FindByProperty(ctx, id)
		if len(gallery) > 0 {
			lead[id] = gallery[0]
		}
	}
	return lead, nil
}

func (f *fakeImageRepo) MaxOrder(ctx context.Context, propertyID string) (int, error) {
	gallery, _ := f.FindByProperty(ctx, propertyID)
	if len(gallery) == 0 {
		return -1, nil
	}
	return gallery[len(gallery)-1].Order, nil
}

func (f *fakeImageRepo) Update(_ context.Context, image *domain.PropertyImage) error {
	if _, ok := f.images[image.ID]; !ok {
		return domain.ErrNotFound
	}
	clone := *image
	f.images[image.ID] = &clone
	return nil
}

func (f *fakeImageRepo) SetOrder(_ context.Context, id string, order int) error {
	img, ok := f.images[id]
	if !ok {
		return domain.ErrNotFound
	}
	img.Order = order
	return nil
}

func (f *fakeImageRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.images[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.images, id)
	return nil
}

func (f *fakeImageRepo) DeleteByProperty(_ context.Context, propertyID string) ([]string, error) {
	var urls []string
	for id, img := range f.images {
		if img.PropertyID == propertyID {
			urls = append(urls, img.URL)
			delete(f.images, id)
		}
	}
	return urls, nil
}

type fakeFavoriteRepo struct {
	pairs      []domain.Favorite
	properties *fakePropertyRepo
}

func newFakeFavoriteRepo(properties *fakePropertyRepo) *fakeFavoriteRepo {
	return &fakeFavoriteRepo{properties: properties}
}

func (f *fakeFavoriteRepo) Toggle(_ context.Context, userID, propertyID string) (bool, error) {
	for i, fav := range f.pairs {
		if fav.UserID == userID && fav.PropertyID == propertyID {
			f.pairs = append(f.pairs[:i], f.pairs[i+1:]...)
			if p, ok := f.properties.properties[propertyID]; ok {
				p.FavoriteCount--
			}
			return false, nil
		}
	}
	f.pairs = append(f.pairs, domain.Favorite{UserID: userID, PropertyID: propertyID, CreatedAt: time.Now().UTC()})
	if p, ok := f.properties.properties[propertyID]; ok {
		p.FavoriteCount++
	}
	return true, nil
}

func (f *fakeFavoriteRepo) ListByUser(_ context.Context, userID string, page, limit int) ([]string, int64, error) {
	var ids []string
	for i := len(f.pairs) - 1; i >= 0; i-- { // most recent first
		if f.pairs[i].UserID == userID {
			ids = append(ids, f.pairs[i].PropertyID)
		}
	}
	total := int64(len(ids))
	start := (page - 1) * limit
	if start > len(ids) {
		start = len(ids)
	}
	end := start + limit
	if limit <= 0 || end > len(ids) {
		end = len(ids)
	}
	return ids[start:end], total, nil
}

func (f *fakeFavoriteRepo) IsFavorited(_ context.Context, userID, propertyID string) (bool, error) {
	for _, fav := range f.pairs {
		if fav.UserID == userID && fav.PropertyID == propertyID {
			return true, nil
		}
	}
	return false, nil
}

type fakeStorage struct {
	uploads      []string
	deleted      []string
	failUploadAt int // 1-based index of the upload call that fails; 0 = never
	uploadCalls  int
}

func (f *fakeStorage) Upload(_ context.Context, fileName string, _ []byte, _ string) (string, error) {
	f.uploadCalls++
	if f.failUploadAt > 0 && f.uploadCalls >= f.failUploadAt {
		return "", errors.New("upload failed")
	}
	url := fmt.Sprintf("mem://blob/%d-%s", f.uploadCalls, fileName)
	f.uploads = append(f.uploads, url)
	return url, nil
}

func (f *fakeStorage) Delete(_ context.Context, fileURL string) error {
	f.deleted = append(f.deleted, fileURL)
	return nil
}

type fakeCache struct {
	entries map[string]*domain.Property
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]*domain.Property{}}
}

func (f *fakeCache) GetProperty(_ context.Context, id string) (*domain.Property, error) {
	if p, ok := f.entries[id]; ok {
		clone := *p
		return &clone, nil
	}
	return nil, nil
}

func (f *fakeCache) SetProperty(_ context.Context, property *domain.Property) error {
	clone := *property
	f.entries[property.ID] = &clone
	return nil
}

func (f *fakeCache) DeleteProperty(_ context.Context, id string) error {
	delete(f.entries, id)
	return nil
}

type fakePublisher struct {
	subjects []string
}

func (f *fakePublisher) Publish(_ context.Context, subject string, _ interface{}) error {
	f.subjects = append(f.subjects, subject)
	return nil
}

type fakeMailer struct {
	sent []string // recipient emails
	fail bool
}

func (f *fakeMailer) SendVerificationEmail(toEmail, _, _ string) error {
	if f.fail {
		return errors.New("smtp unavailable")
	}
	f.sent = append(f.sent, toEmail)
	return nil
}
