package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mrbebidas/catalog-backend/pkg/db"
	"github.com/mrbebidas/catalog-backend/pkg/db/models"
	pkgerrors "github.com/mrbebidas/catalog-backend/pkg/errors"
)

func openRepoDB(t *testing.T, migrated bool) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=private"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	if migrated {
		require.NoError(t, conn.AutoMigrate(&models.Category{}, &models.Product{}))
	}
	return conn
}

func seedCategoryWithProducts(t *testing.T, conn *gorm.DB, name string, productNames ...string) models.Category {
	t.Helper()
	category := models.Category{ID: uuid.New(), Name: name}
	require.NoError(t, conn.Create(&category).Error)
	for _, productName := range productNames {
		product := models.Product{
			ID:         uuid.New(),
			CategoryID: category.ID,
			Name:       productName,
			Price:      "R$ 10,00",
		}
		require.NoError(t, conn.Create(&product).Error)
	}
	return category
}

func TestListCategoriesWithProductsOrdering(t *testing.T) {
	conn := openRepoDB(t, true)
	repo := NewRepository(conn)

	seedCategoryWithProducts(t, conn, "Vinhos", "Malbec", "Cabernet")
	seedCategoryWithProducts(t, conn, "Cervejas", "Pilsen")

	categories, err := repo.ListCategoriesWithProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)

	assert.Equal(t, "Cervejas", categories[0].Name)
	assert.Equal(t, "Vinhos", categories[1].Name)

	require.Len(t, categories[1].Products, 2)
	assert.Equal(t, "Cabernet", categories[1].Products[0].Name)
	assert.Equal(t, "Malbec", categories[1].Products[1].Name)
}

func TestListCategoriesWithProductsSchemaMissing(t *testing.T) {
	conn := openRepoDB(t, false)
	repo := NewRepository(conn)

	_, err := repo.ListCategoriesWithProducts(context.Background())
	require.ErrorIs(t, err, db.ErrSchemaMissing)
}

func TestFindProductByID(t *testing.T) {
	conn := openRepoDB(t, true)
	repo := NewRepository(conn)

	category := seedCategoryWithProducts(t, conn, "Destilados", "Gin")
	var stored models.Product
	require.NoError(t, conn.First(&stored, "category_id = ?", category.ID).Error)

	product, err := repo.FindProductByID(context.Background(), stored.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gin", product.Name)
}

func TestFindProductByIDNotFound(t *testing.T) {
	conn := openRepoDB(t, true)
	repo := NewRepository(conn)

	_, err := repo.FindProductByID(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestFindProductByIDSchemaMissing(t *testing.T) {
	conn := openRepoDB(t, false)
	repo := NewRepository(conn)

	_, err := repo.FindProductByID(context.Background(), uuid.New())
	require.ErrorIs(t, err, db.ErrSchemaMissing)
}
