package repositories_test

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"shopapi/internal/models"
	"shopapi/internal/repositories"
)

var dbCounter int64

// openTestDB opens a fresh in-memory SQLite database. A unique name keeps
// parallel tests from sharing state while cache=shared keeps every pooled
// connection on the same database.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repo_test_%d?mode=memory&cache=shared", atomic.AddInt64(&dbCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Category{}, &models.Product{}))
	return db
}

func strptr(v string) *string { return &v }

func TestGORMUserRepository_CreateAndDuplicate(t *testing.T) {
	db := openTestDB(t)
	repo := repositories.NewGORMUserRepository(db)

	user := &models.User{
		Username: strptr("testuser"),
		Email:    strptr("test@example.com"),
		Password: "hashed",
		IsActive: true,
	}
	require.NoError(t, repo.Create(user))
	assert.NotZero(t, user.ID)

	dup := &models.User{
		Username: strptr("testuser"),
		Email:    strptr("other@example.com"),
		Password: "hashed",
	}
	err := repo.Create(dup)
	var dupErr *repositories.DuplicateError
	assert.ErrorAs(t, err, &dupErr)
	assert.Equal(t, repositories.FieldUsername, dupErr.Field)
}

func TestGORMUserRepository_NullIdentifiersDoNotCollide(t *testing.T) {
	db := openTestDB(t)
	repo := repositories.NewGORMUserRepository(db)

	// Two users without emails must both insert; NULLs are not unique-equal.
	require.NoError(t, repo.Create(&models.User{Username: strptr("a"), PhoneNumber: strptr("+15550000001"), Password: "x"}))
	require.NoError(t, repo.Create(&models.User{Username: strptr("b"), PhoneNumber: strptr("+15550000002"), Password: "x"}))
}

func TestGORMUserRepository_FindByIdentifier(t *testing.T) {
	db := openTestDB(t)
	repo := repositories.NewGORMUserRepository(db)

	user := &models.User{
		Username:    strptr("testuser"),
		Email:       strptr("test@example.com"),
		PhoneNumber: strptr("+15555555555"),
		Password:    "hashed",
		IsActive:    true,
	}
	require.NoError(t, repo.Create(user))

	for _, identifier := range []string{"testuser", "test@example.com", "+15555555555"} {
		found, err := repo.FindByIdentifier(identifier)
		assert.NoError(t, err, identifier)
		assert.Equal(t, user.ID, found.ID, identifier)
	}

	_, err := repo.FindByIdentifier("nobody")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestGORMUserRepository_FindByIdentifierPrecedence(t *testing.T) {
	db := openTestDB(t)
	repo := repositories.NewGORMUserRepository(db)

	// One user's email equals another user's username. A lookup on that
	// value must resolve the username match first.
	byUsername := &models.User{Username: strptr("shared@example.com"), PhoneNumber: strptr("+15550000003"), Password: "x"}
	byEmail := &models.User{Username: strptr("otheruser"), Email: strptr("shared@example.com"), Password: "x"}
	require.NoError(t, repo.Create(byUsername))
	require.NoError(t, repo.Create(byEmail))

	found, err := repo.FindByIdentifier("shared@example.com")
	require.NoError(t, err)
	assert.Equal(t, byUsername.ID, found.ID)
}

func TestGORMUserRepository_Exists(t *testing.T) {
	db := openTestDB(t)
	repo := repositories.NewGORMUserRepository(db)

	require.NoError(t, repo.Create(&models.User{Username: strptr("taken"), Email: strptr("taken@example.com"), Password: "x"}))

	taken, err := repo.Exists(repositories.FieldUsername, "taken")
	assert.NoError(t, err)
	assert.True(t, taken)

	free, err := repo.Exists(repositories.FieldEmail, "free@example.com")
	assert.NoError(t, err)
	assert.False(t, free)

	_, err = repo.Exists("password", "anything")
	assert.Error(t, err)
}

func TestGORMProductRepository_ListActiveOnly(t *testing.T) {
	db := openTestDB(t)
	categories := repositories.NewGORMCategoryRepository(db)
	products := repositories.NewGORMProductRepository(db)

	shoes := &models.Category{Name: "Shoes", IsActive: true}
	require.NoError(t, categories.Create(shoes))
	assert.Equal(t, "shoes", shoes.Slug)

	require.NoError(t, products.Create(&models.Product{Name: "Running Shoes", Price: 79.99, Stock: 10, CategoryID: &shoes.ID, IsActive: true}))
	require.NoError(t, products.Create(&models.Product{Name: "Old Shoes", Price: 50, Stock: 0, CategoryID: &shoes.ID, IsActive: false}))

	items, total, err := products.List(repositories.ProductQuery{Page: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "Running Shoes", items[0].Name)
	require.NotNil(t, items[0].Category)
	assert.Equal(t, "Shoes", items[0].Category.Name)

	_, err = products.GetActiveByID(2)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestGORMProductRepository_SearchAndOrdering(t *testing.T) {
	db := openTestDB(t)
	products := repositories.NewGORMProductRepository(db)

	require.NoError(t, products.Create(&models.Product{Name: "Leather Bag", Description: "Stylish bag", Price: 149.99, IsActive: true}))
	require.NoError(t, products.Create(&models.Product{Name: "Running Shoes", Description: "Comfortable shoes", Price: 79.99, IsActive: true}))
	require.NoError(t, products.Create(&models.Product{Name: "Trail Boots", Description: "Waterproof boots", Price: 119.99, IsActive: true}))

	// Case-insensitive substring search over name and description.
	items, total, err := products.List(repositories.ProductQuery{Search: "SHOES", Page: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "Running Shoes", items[0].Name)

	items, _, err = products.List(repositories.ProductQuery{Ordering: "-price", Page: 1})
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []float64{149.99, 119.99, 79.99}, []float64{items[0].Price, items[1].Price, items[2].Price})

	items, _, err = products.List(repositories.ProductQuery{Ordering: "name", Page: 1})
	require.NoError(t, err)
	assert.Equal(t, "Leather Bag", items[0].Name)

	// Unknown ordering keys fall back to newest first rather than erroring.
	_, _, err = products.List(repositories.ProductQuery{Ordering: "price; DROP TABLE products", Page: 1})
	assert.NoError(t, err)
}

func TestGORMProductRepository_Pagination(t *testing.T) {
	db := openTestDB(t)
	products := repositories.NewGORMProductRepository(db)

	for i := 0; i < 15; i++ {
		require.NoError(t, products.Create(&models.Product{
			Name:     fmt.Sprintf("Extra%d", i),
			Price:    10 + float64(i),
			Stock:    5,
			IsActive: true,
		}))
	}

	page1, total, err := products.List(repositories.ProductQuery{Page: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(15), total)
	assert.Len(t, page1, repositories.PageSize)

	page2, total, err := products.List(repositories.ProductQuery{Page: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(15), total)
	assert.Len(t, page2, 5)
}
