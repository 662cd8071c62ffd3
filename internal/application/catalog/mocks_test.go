package catalog

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// fakeUnitOfWork runs fn directly, with no transaction
type fakeUnitOfWork struct{}

func (fakeUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// MockEventRecorder is a mock implementation of shared.EventRecorder
type MockEventRecorder struct {
	mock.Mock
}

func (m *MockEventRecorder) Record(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// eventTypes lists the types of every recorded event in call order
func (m *MockEventRecorder) eventTypes() []string {
	var out []string
	for _, call := range m.Calls {
		for _, ev := range call.Arguments.Get(1).([]shared.DomainEvent) {
			out = append(out, ev.EventType())
		}
	}
	return out
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) CountOrderItems(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

// MockCollectionRepository is a mock implementation of catalog.CollectionRepository
type MockCollectionRepository struct {
	mock.Mock
}

func (m *MockCollectionRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Collection, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Collection), args.Error(1)
}

func (m *MockCollectionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Collection, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Collection), args.Error(1)
}

func (m *MockCollectionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCollectionRepository) Save(ctx context.Context, collection *catalog.Collection) error {
	args := m.Called(ctx, collection)
	return args.Error(0)
}

func (m *MockCollectionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCollectionRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockPromotionRepository is a mock implementation of catalog.PromotionRepository
type MockPromotionRepository struct {
	mock.Mock
}

func (m *MockPromotionRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Promotion, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Promotion), args.Error(1)
}

func (m *MockPromotionRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Promotion, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Promotion), args.Error(1)
}

func (m *MockPromotionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Promotion, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Promotion), args.Error(1)
}

func (m *MockPromotionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPromotionRepository) Save(ctx context.Context, promotion *catalog.Promotion) error {
	args := m.Called(ctx, promotion)
	return args.Error(0)
}

func (m *MockPromotionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTagRepository is a mock implementation of catalog.TagRepository
type MockTagRepository struct {
	mock.Mock
}

func (m *MockTagRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Tag, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Tag), args.Error(1)
}

func (m *MockTagRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Tag, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Tag), args.Error(1)
}

func (m *MockTagRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTagRepository) Save(ctx context.Context, tag *catalog.Tag) error {
	args := m.Called(ctx, tag)
	return args.Error(0)
}

func (m *MockTagRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTagRepository) FindForObject(ctx context.Context, contentType string, objectID uuid.UUID) ([]catalog.Tag, error) {
	args := m.Called(ctx, contentType, objectID)
	return args.Get(0).([]catalog.Tag), args.Error(1)
}

func (m *MockTagRepository) FindForObjects(ctx context.Context, contentType string, objectIDs []uuid.UUID) (map[uuid.UUID][]catalog.Tag, error) {
	args := m.Called(ctx, contentType, objectIDs)
	return args.Get(0).(map[uuid.UUID][]catalog.Tag), args.Error(1)
}

func (m *MockTagRepository) Attach(ctx context.Context, item *catalog.TaggedItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockTagRepository) Detach(ctx context.Context, tagID uuid.UUID, contentType string, objectID uuid.UUID) error {
	args := m.Called(ctx, tagID, contentType, objectID)
	return args.Error(0)
}

// MockImageRepository is a mock implementation of catalog.ProductImageRepository
type MockImageRepository struct {
	mock.Mock
}

func (m *MockImageRepository) FindByID(ctx context.Context, productID, id uuid.UUID) (*catalog.ProductImage, error) {
	args := m.Called(ctx, productID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ProductImage), args.Error(1)
}

func (m *MockImageRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]catalog.ProductImage, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]catalog.ProductImage), args.Error(1)
}

func (m *MockImageRepository) Save(ctx context.Context, image *catalog.ProductImage) error {
	args := m.Called(ctx, image)
	return args.Error(0)
}

func (m *MockImageRepository) Delete(ctx context.Context, productID, id uuid.UUID) error {
	args := m.Called(ctx, productID, id)
	return args.Error(0)
}

// MockObjectStorage is a mock implementation of ObjectStorage
type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, key, body, size, contentType)
	return args.Error(0)
}

func (m *MockObjectStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockObjectStorage) URL(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}
