package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	compliancedomain "github.com/mizanlabs/mizan/internal/compliance/domain"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) compliancedomain.Repository {
	return &repository{db: db}
}

// Create inserts a document row. There is deliberately no update path:
// documents are append-only, amendments insert a new row referencing the
// prior one via amends_document_id.
func (r *repository) Create(ctx context.Context, record *compliancedomain.DocumentRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*compliancedomain.DocumentRecord, error) {
	var record compliancedomain.DocumentRecord
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, compliancedomain.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *repository) FindLatestByInvoiceID(ctx context.Context, invoiceID snowflake.ID) (*compliancedomain.DocumentRecord, error) {
	var record compliancedomain.DocumentRecord
	err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("id DESC").
		First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, compliancedomain.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}
