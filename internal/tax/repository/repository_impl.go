package repository

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	taxdomain "github.com/mizanlabs/mizan/internal/tax/domain"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) taxdomain.Repository {
	return &repository{db: db}
}

func (r *repository) CreateFiling(ctx context.Context, filing *taxdomain.TaxFiling) error {
	return r.db.WithContext(ctx).Create(filing).Error
}

func (r *repository) FindFilingByID(ctx context.Context, id snowflake.ID) (*taxdomain.TaxFiling, error) {
	var filing taxdomain.TaxFiling
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&filing).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, taxdomain.ErrNotFound
		}
		return nil, err
	}
	return &filing, nil
}

func (r *repository) ListFilings(ctx context.Context, filter taxdomain.ListFilingsRequest) ([]taxdomain.TaxFiling, error) {
	stmt := r.db.WithContext(ctx).Model(&taxdomain.TaxFiling{})

	if filter.Kind != "" {
		stmt = stmt.Where("kind = ?", filter.Kind)
	}

	sortBy := "period_end"
	switch strings.ToLower(filter.SortBy) {
	case "", "period_end":
	case "created_at":
		sortBy = "created_at"
	}
	order := "DESC"
	if strings.EqualFold(filter.OrderBy, "asc") {
		order = "ASC"
	}
	stmt = stmt.Order(sortBy + " " + order)

	var filings []taxdomain.TaxFiling
	if err := stmt.Find(&filings).Error; err != nil {
		return nil, err
	}
	return filings, nil
}
