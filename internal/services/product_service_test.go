package services

import (
	"fmt"
	"testing"

	"kiosco_pos_backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCreateProduct_FieldValidation(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateProductRequest
		wantErr error
	}{
		{
			"missing name",
			CreateProductRequest{SKU: "BEB001", Name: "  ", Price: price("10")},
			ErrMissingName,
		},
		{
			"zero price",
			CreateProductRequest{SKU: "BEB001", Name: "Coca Cola", Price: decimal.Zero},
			ErrNonPositivePrice,
		},
		{
			"negative price",
			CreateProductRequest{SKU: "BEB001", Name: "Coca Cola", Price: price("-1")},
			ErrNonPositivePrice,
		},
		{
			"negative quantity",
			CreateProductRequest{SKU: "BEB001", Name: "Coca Cola", Price: price("10"), Quantity: -1},
			ErrNegativeQuantity,
		},
		{
			"blank sku",
			CreateProductRequest{SKU: "   ", Name: "Coca Cola", Price: price("10")},
			ErrValidation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewProductService(newFakeProductRepo(), newFakeCategoryRepo(), nil)
			_, err := svc.CreateProduct(tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateProduct_UppercasesSKU(t *testing.T) {
	svc := NewProductService(newFakeProductRepo(), newFakeCategoryRepo(), nil)

	product, err := svc.CreateProduct(CreateProductRequest{SKU: "beb001", Name: "Coca Cola", Price: price("10"), Quantity: 5})
	require.NoError(t, err)
	assert.Equal(t, "BEB001", product.SKU)
}

func TestCreateProduct_DuplicateSKU(t *testing.T) {
	repo := newFakeProductRepo()
	svc := NewProductService(repo, newFakeCategoryRepo(), nil)

	_, err := svc.CreateProduct(CreateProductRequest{SKU: "BEB001", Name: "Coca Cola", Price: price("10")})
	require.NoError(t, err)

	_, err = svc.CreateProduct(CreateProductRequest{SKU: "beb001", Name: "Pepsi", Price: price("9")})
	assert.ErrorIs(t, err, ErrDuplicateSKU)
}

func TestUpdateProduct_SKUIsImmutable(t *testing.T) {
	repo := newFakeProductRepo()
	svc := NewProductService(repo, newFakeCategoryRepo(), nil)

	created, err := svc.CreateProduct(CreateProductRequest{SKU: "BEB001", Name: "Coca Cola", Price: price("10")})
	require.NoError(t, err)

	updated, err := svc.UpdateProduct(created.ID, UpdateProductRequest{Name: "Coca Cola 2L", Price: price("15"), Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, "BEB001", updated.SKU)
	assert.Equal(t, "Coca Cola 2L", updated.Name)
}

func TestSearch_ShortTermsReturnEmpty(t *testing.T) {
	repo := newFakeProductRepo()
	repo.add(models.Product{SKU: "BEB001", Name: "Coca Cola", Price: price("10")})
	svc := NewProductService(repo, newFakeCategoryRepo(), nil)

	for _, term := range []string{"", "c", " c ", "  "} {
		results, err := svc.Search(term)
		require.NoError(t, err)
		assert.Empty(t, results, "term %q should not hit the repository", term)
	}
}

func TestSearch_FindsByNameAndSKU(t *testing.T) {
	repo := newFakeProductRepo()
	repo.add(models.Product{SKU: "BEB001", Name: "Coca Cola", Price: price("10")})
	repo.add(models.Product{SKU: "GOL001", Name: "Chupetin", Price: price("2")})
	svc := NewProductService(repo, newFakeCategoryRepo(), nil)

	results, err := svc.Search("coca")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "BEB001", results[0].SKU)

	results, err = svc.Search("GOL")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Chupetin", results[0].Name)
}

func TestSuggestSKU_SequentialAndPadded(t *testing.T) {
	categoryRepo := newFakeCategoryRepo()
	category := categoryRepo.add(models.Category{Name: "BEBIDAS", Prefix: "BEB", IsActive: true})

	productRepo := newFakeProductRepo()
	svc := NewProductService(productRepo, categoryRepo, nil)

	sku, err := svc.SuggestSKU(category.ID)
	require.NoError(t, err)
	assert.Equal(t, "BEB001", sku)

	for i := 0; i < 12; i++ {
		productRepo.add(models.Product{SKU: fmt.Sprintf("BEB%03d", i+1), Name: fmt.Sprintf("p%d", i), Price: price("1")})
	}

	sku, err = svc.SuggestSKU(category.ID)
	require.NoError(t, err)
	assert.Equal(t, "BEB013", sku)
}

func TestSuggestSKU_CategoryNotFound(t *testing.T) {
	svc := NewProductService(newFakeProductRepo(), newFakeCategoryRepo(), nil)
	_, err := svc.SuggestSKU(404)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestGetLowStockProducts(t *testing.T) {
	repo := newFakeProductRepo()
	repo.add(models.Product{SKU: "BEB001", Name: "Coca Cola", Price: price("10"), Quantity: 2, MinStock: 5})
	repo.add(models.Product{SKU: "BEB002", Name: "Pepsi", Price: price("9"), Quantity: 5, MinStock: 5})
	repo.add(models.Product{SKU: "BEB003", Name: "Sprite", Price: price("8"), Quantity: 6, MinStock: 5})
	svc := NewProductService(repo, newFakeCategoryRepo(), nil)

	low, err := svc.GetLowStockProducts()
	require.NoError(t, err)
	// At or below the floor counts as low.
	assert.Len(t, low, 2)
}

func TestCountProductsInCategory_UnknownCategoryCountsZero(t *testing.T) {
	svc := NewProductService(newFakeProductRepo(), newFakeCategoryRepo(), nil)

	count, err := svc.CountProductsInCategory("NO-SUCH")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDeleteProduct_NotFound(t *testing.T) {
	svc := NewProductService(newFakeProductRepo(), newFakeCategoryRepo(), nil)
	assert.ErrorIs(t, svc.DeleteProduct(1), ErrProductNotFound)
}
