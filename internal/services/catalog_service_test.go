package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"shopapi/internal/models"
	"shopapi/internal/repositories"
	"shopapi/internal/services"
)

// MockCategoryRepository is a mock implementation of repositories.CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) GetAll() ([]models.Category, error) {
	args := m.Called()
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockCategoryRepository) GetByID(id uint) (*models.Category, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryRepository) Create(category *models.Category) error {
	args := m.Called(category)
	return args.Error(0)
}

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) List(q repositories.ProductQuery) ([]models.Product, int64, error) {
	args := m.Called(q)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) GetActiveByID(id uint) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Create(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func TestCatalogService_ListCategories(t *testing.T) {
	categoryRepo := new(MockCategoryRepository)
	productRepo := new(MockProductRepository)
	service := services.NewCatalogService(categoryRepo, productRepo)

	expected := []models.Category{
		{ID: 1, Name: "Shoes", Slug: "shoes", IsActive: true},
		{ID: 2, Name: "Bags", Slug: "bags", IsActive: true},
	}
	categoryRepo.On("GetAll").Return(expected, nil).Once()

	categories, err := service.ListCategories()
	assert.NoError(t, err)
	assert.Equal(t, expected, categories)
	categoryRepo.AssertExpectations(t)
}

func TestCatalogService_GetCategory(t *testing.T) {
	categoryRepo := new(MockCategoryRepository)
	productRepo := new(MockProductRepository)
	service := services.NewCatalogService(categoryRepo, productRepo)

	expected := &models.Category{ID: 1, Name: "Shoes", Slug: "shoes", IsActive: true}
	categoryRepo.On("GetByID", uint(1)).Return(expected, nil).Once()
	category, err := service.GetCategory(1)
	assert.NoError(t, err)
	assert.Equal(t, expected, category)

	categoryRepo.On("GetByID", uint(99)).Return(nil, repositories.ErrNotFound).Once()
	_, err = service.GetCategory(99)
	assert.ErrorIs(t, err, services.ErrNotFound)
	categoryRepo.AssertExpectations(t)
}

func TestCatalogService_ListProducts(t *testing.T) {
	categoryRepo := new(MockCategoryRepository)
	productRepo := new(MockProductRepository)
	service := services.NewCatalogService(categoryRepo, productRepo)

	query := repositories.ProductQuery{Search: "shoe", Ordering: "-price", Page: 1}
	expected := []models.Product{
		{ID: 1, Name: "Running Shoes", Price: 79.99, IsActive: true},
	}
	productRepo.On("List", query).Return(expected, int64(1), nil).Once()

	products, total, err := service.ListProducts(query)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, expected, products)
	productRepo.AssertExpectations(t)
}

func TestCatalogService_GetProduct(t *testing.T) {
	categoryRepo := new(MockCategoryRepository)
	productRepo := new(MockProductRepository)
	service := services.NewCatalogService(categoryRepo, productRepo)

	expected := &models.Product{ID: 1, Name: "Running Shoes", Price: 79.99, IsActive: true}
	productRepo.On("GetActiveByID", uint(1)).Return(expected, nil).Once()
	product, err := service.GetProduct(1)
	assert.NoError(t, err)
	assert.Equal(t, expected, product)

	// Inactive and missing products look the same to callers.
	productRepo.On("GetActiveByID", uint(3)).Return(nil, repositories.ErrNotFound).Once()
	_, err = service.GetProduct(3)
	assert.ErrorIs(t, err, services.ErrNotFound)
	productRepo.AssertExpectations(t)
}
