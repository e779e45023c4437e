package services

import (
	"strings"
	"time"

	"kiosco_pos_backend/internal/models"
	"kiosco_pos_backend/internal/repositories"

	"github.com/shopspring/decimal"
)

// In-memory repository fakes. The SQLExecutor argument is ignored; the
// services only hand it through, so a nil *sql.DB is safe in tests that never
// reach a real transaction.

type fakeCategoryRepo struct {
	categories map[int64]*models.Category
	nextID     int64
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: make(map[int64]*models.Category), nextID: 1}
}

func (f *fakeCategoryRepo) add(c models.Category) *models.Category {
	c.ID = f.nextID
	f.nextID++
	f.categories[c.ID] = &c
	return &c
}

func (f *fakeCategoryRepo) Create(_ repositories.SQLExecutor, category *models.Category) (int64, error) {
	created := f.add(*category)
	category.ID = created.ID
	return created.ID, nil
}

func (f *fakeCategoryRepo) GetByID(id int64) (*models.Category, error) {
	if c, ok := f.categories[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeCategoryRepo) GetByName(name string) (*models.Category, error) {
	for _, c := range f.categories {
		if strings.EqualFold(c.Name, name) {
			copied := *c
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeCategoryRepo) GetByPrefix(prefix string) (*models.Category, error) {
	for _, c := range f.categories {
		if strings.EqualFold(c.Prefix, prefix) {
			copied := *c
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeCategoryRepo) GetAll(onlyActive bool) ([]models.Category, error) {
	var out []models.Category
	for _, c := range f.categories {
		if onlyActive && !c.IsActive {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCategoryRepo) Update(_ repositories.SQLExecutor, category *models.Category) error {
	if _, ok := f.categories[category.ID]; !ok {
		return repositories.ErrNotFound
	}
	copied := *category
	f.categories[category.ID] = &copied
	return nil
}

func (f *fakeCategoryRepo) Deactivate(_ repositories.SQLExecutor, id int64) error {
	c, ok := f.categories[id]
	if !ok {
		return repositories.ErrNotFound
	}
	c.IsActive = false
	return nil
}

type fakeProductRepo struct {
	products map[int64]*models.Product
	nextID   int64
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[int64]*models.Product), nextID: 1}
}

func (f *fakeProductRepo) add(p models.Product) *models.Product {
	p.ID = f.nextID
	f.nextID++
	f.products[p.ID] = &p
	return &p
}

func (f *fakeProductRepo) Create(_ repositories.SQLExecutor, product *models.Product) (int64, error) {
	for _, p := range f.products {
		if strings.EqualFold(p.SKU, product.SKU) {
			return 0, repositories.ErrDuplicateKey
		}
	}
	created := f.add(*product)
	product.ID = created.ID
	return created.ID, nil
}

func (f *fakeProductRepo) GetByID(id int64) (*models.Product, error) {
	if p, ok := f.products[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeProductRepo) GetBySKU(sku string) (*models.Product, error) {
	for _, p := range f.products {
		if strings.EqualFold(p.SKU, sku) {
			copied := *p
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeProductRepo) GetAll() ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.products {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeProductRepo) GetLowStock() ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.products {
		if p.IsLowStock() {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) SearchForSale(term string, limit int) ([]models.Product, error) {
	var out []models.Product
	lower := strings.ToLower(term)
	for _, p := range f.products {
		if strings.Contains(strings.ToLower(p.Name), lower) || strings.Contains(strings.ToLower(p.SKU), lower) {
			out = append(out, *p)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeProductRepo) CountBySKUPrefix(prefix string) (int, error) {
	count := 0
	for _, p := range f.products {
		if strings.HasPrefix(strings.ToUpper(p.SKU), strings.ToUpper(prefix)) {
			count++
		}
	}
	return count, nil
}

func (f *fakeProductRepo) CountByCategoryLabel(categoryName string) (int, error) {
	count := 0
	for _, p := range f.products {
		if strings.EqualFold(p.CategoryLabel, categoryName) {
			count++
		}
	}
	return count, nil
}

func (f *fakeProductRepo) Update(_ repositories.SQLExecutor, product *models.Product) error {
	if _, ok := f.products[product.ID]; !ok {
		return repositories.ErrNotFound
	}
	copied := *product
	f.products[product.ID] = &copied
	return nil
}

func (f *fakeProductRepo) Delete(_ repositories.SQLExecutor, id int64) (int64, error) {
	if _, ok := f.products[id]; !ok {
		return 0, repositories.ErrNotFound
	}
	delete(f.products, id)
	return 1, nil
}

func (f *fakeProductRepo) DecrementStock(_ repositories.SQLExecutor, productID int64, quantity int) (bool, error) {
	p, ok := f.products[productID]
	if !ok || p.Quantity < quantity {
		return false, nil
	}
	p.Quantity -= quantity
	return true, nil
}

type fakeSaleRepo struct {
	sales     map[int64]*models.Sale
	lineItems map[int64][]models.SaleLineItem
	nextID    int64
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{
		sales:     make(map[int64]*models.Sale),
		lineItems: make(map[int64][]models.SaleLineItem),
		nextID:    1,
	}
}

func (f *fakeSaleRepo) CreateSale(_ repositories.SQLExecutor, sale *models.Sale) (int64, error) {
	copied := *sale
	copied.ID = f.nextID
	f.nextID++
	f.sales[copied.ID] = &copied
	sale.ID = copied.ID
	return copied.ID, nil
}

func (f *fakeSaleRepo) CreateLineItem(_ repositories.SQLExecutor, item *models.SaleLineItem) (int64, error) {
	item.ID = int64(len(f.lineItems[item.SaleID]) + 1)
	f.lineItems[item.SaleID] = append(f.lineItems[item.SaleID], *item)
	return item.ID, nil
}

func (f *fakeSaleRepo) GetSaleByID(saleID int64) (*models.Sale, error) {
	if s, ok := f.sales[saleID]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeSaleRepo) GetLineItemsBySaleID(saleID int64) ([]models.SaleLineItem, error) {
	return append([]models.SaleLineItem(nil), f.lineItems[saleID]...), nil
}

func (f *fakeSaleRepo) GetSalesForDay(day time.Time) ([]models.Sale, error) {
	var out []models.Sale
	for _, s := range f.sales {
		if sameDay(s.CreatedAt, day) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSaleRepo) TotalSalesForDay(day time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, s := range f.sales {
		if sameDay(s.CreatedAt, day) {
			total = total.Add(s.Total)
		}
	}
	return total, nil
}

type fakeCashRepo struct {
	movements []models.CashMovement
	nextID    int64
}

func newFakeCashRepo() *fakeCashRepo {
	return &fakeCashRepo{nextID: 1}
}

func (f *fakeCashRepo) Create(_ repositories.SQLExecutor, movement *models.CashMovement) (int64, error) {
	movement.ID = f.nextID
	f.nextID++
	if movement.CreatedAt.IsZero() {
		movement.CreatedAt = time.Now()
	}
	f.movements = append(f.movements, *movement)
	return movement.ID, nil
}

func (f *fakeCashRepo) GetForDay(day time.Time, kind string) ([]models.CashMovement, error) {
	var out []models.CashMovement
	for _, m := range f.movements {
		if m.Kind == kind && sameDay(m.CreatedAt, day) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeCashRepo) TotalForDay(day time.Time, kind string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, m := range f.movements {
		if m.Kind == kind && sameDay(m.CreatedAt, day) {
			total = total.Add(m.Amount)
		}
	}
	return total, nil
}

type fakeAuthRepo struct {
	operators map[int64]*models.Operator
	hashes    map[int64]string
	nextID    int64
}

func newFakeAuthRepo() *fakeAuthRepo {
	return &fakeAuthRepo{
		operators: make(map[int64]*models.Operator),
		hashes:    make(map[int64]string),
		nextID:    1,
	}
}

func (f *fakeAuthRepo) CreateOperator(_ repositories.SQLExecutor, operator *models.Operator, hashedPassword string) (int64, error) {
	for _, o := range f.operators {
		if o.Username == operator.Username {
			return 0, repositories.ErrDuplicateKey
		}
	}
	copied := *operator
	copied.ID = f.nextID
	f.nextID++
	f.operators[copied.ID] = &copied
	f.hashes[copied.ID] = hashedPassword
	return copied.ID, nil
}

func (f *fakeAuthRepo) FindOperatorByUsername(username string) (*models.Operator, string, error) {
	for id, o := range f.operators {
		if o.Username == username {
			copied := *o
			return &copied, f.hashes[id], nil
		}
	}
	return nil, "", repositories.ErrNotFound
}

func (f *fakeAuthRepo) FindOperatorByID(operatorID int64) (*models.Operator, error) {
	if o, ok := f.operators[operatorID]; ok {
		copied := *o
		return &copied, nil
	}
	return nil, repositories.ErrNotFound
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
