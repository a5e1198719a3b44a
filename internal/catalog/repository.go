package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/cardapiohub/cardapio-backend/pkg/db/models"
	"github.com/cardapiohub/cardapio-backend/pkg/enums"
	pkgerrors "github.com/cardapiohub/cardapio-backend/pkg/errors"
)

// Repository reads catalog rows through GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repository to the provided DB handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type optionRow struct {
	ID          uuid.UUID        `gorm:"column:id"`
	Kind        enums.OptionKind `gorm:"column:kind"`
	Name        string           `gorm:"column:name"`
	Description *string          `gorm:"column:description"`
	FlavorType  *string          `gorm:"column:flavor_type"`
	IsPremium   bool             `gorm:"column:is_premium"`
	Price       decimal.Decimal  `gorm:"column:price"`
	Surcharge   decimal.Decimal  `gorm:"column:surcharge"`
}

func (r *Repository) FetchCategory(ctx context.Context, storeID, categoryID uuid.UUID) (*Category, error) {
	var row models.Category
	err := r.db.WithContext(ctx).
		Where("id = ? AND store_id = ?", categoryID, storeID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	category := categoryFromModel(row)
	return &category, nil
}

func (r *Repository) FetchSize(ctx context.Context, categoryID, sizeID uuid.UUID) (*Size, error) {
	var row models.ProductSize
	err := r.db.WithContext(ctx).
		Where("id = ? AND category_id = ?", sizeID, categoryID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "size not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load size")
	}
	size := sizeFromModel(row)
	return &size, nil
}

func (r *Repository) FetchSizes(ctx context.Context, categoryID uuid.UUID) ([]Size, error) {
	var rows []models.ProductSize
	if err := r.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Order("display_order ASC, name ASC").
		Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sizes")
	}
	sizes := make([]Size, 0, len(rows))
	for _, row := range rows {
		sizes = append(sizes, sizeFromModel(row))
	}
	return sizes, nil
}

// FetchOptionsForSize lists active options of kind that carry a price row for
// sizeID. Options without a row for the size are left out entirely.
func (r *Repository) FetchOptionsForSize(ctx context.Context, categoryID, sizeID uuid.UUID, kind enums.OptionKind) ([]PriceableOption, error) {
	var rows []optionRow
	err := r.db.WithContext(ctx).
		Table("attribute_options AS o").
		Select("o.id, o.kind, o.name, o.description, o.flavor_type, o.is_premium, p.price, p.surcharge").
		Joins("JOIN attribute_prices AS p ON p.option_id = o.id AND p.size_id = ?", sizeID).
		Where("o.category_id = ? AND o.kind = ? AND o.is_active = ?", categoryID, kind, true).
		Order("o.display_order ASC, o.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list options for size").
			WithDetails(map[string]any{"kind": kind})
	}

	options := make([]PriceableOption, 0, len(rows))
	for _, row := range rows {
		opt := PriceableOption{
			ID:          row.ID,
			Kind:        row.Kind,
			Name:        row.Name,
			Description: row.Description,
			IsPremium:   row.IsPremium,
			Price:       row.Price,
			Surcharge:   row.Surcharge,
		}
		if row.FlavorType != nil {
			opt.FlavorType = *row.FlavorType
		}
		options = append(options, opt)
	}
	return options, nil
}

func (r *Repository) FetchAdditionals(ctx context.Context, categoryID uuid.UUID) ([]Additional, error) {
	var rows []models.Additional
	if err := r.db.WithContext(ctx).
		Where("category_id = ? AND is_active = ?", categoryID, true).
		Order("group_name ASC, display_order ASC, name ASC").
		Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list additionals")
	}
	items := make([]Additional, 0, len(rows))
	for _, row := range rows {
		items = append(items, additionalFromModel(row))
	}
	return items, nil
}

// FetchDrinkOptions lists the products of the drink category linked to categoryID.
func (r *Repository) FetchDrinkOptions(ctx context.Context, storeID, categoryID uuid.UUID) ([]Product, error) {
	category, err := r.FetchCategory(ctx, storeID, categoryID)
	if err != nil {
		return nil, err
	}
	if category.DrinkCategoryID == nil {
		return []Product{}, nil
	}
	return r.FetchProducts(ctx, storeID, *category.DrinkCategoryID, 0)
}

// FetchProducts lists active products of a category; limit <= 0 means no limit.
func (r *Repository) FetchProducts(ctx context.Context, storeID, categoryID uuid.UUID, limit int) ([]Product, error) {
	query := r.db.WithContext(ctx).
		Where("store_id = ? AND category_id = ? AND is_active = ?", storeID, categoryID, true).
		Order("display_order ASC, name ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var rows []models.Product
	if err := query.Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	products := make([]Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, productFromModel(row))
	}
	return products, nil
}
