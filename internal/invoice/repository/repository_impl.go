package repository

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	invoicedomain "github.com/mizanlabs/mizan/internal/invoice/domain"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) invoicedomain.Repository {
	return &repository{db: db}
}

func (r *repository) FindInvoiceByID(ctx context.Context, id snowflake.ID) (*invoicedomain.InvoiceRecord, error) {
	var record invoicedomain.InvoiceRecord
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, invoicedomain.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *repository) FindInvoiceByNumber(ctx context.Context, number string) (*invoicedomain.InvoiceRecord, error) {
	var record invoicedomain.InvoiceRecord
	err := r.db.WithContext(ctx).
		Where("invoice_number = ?", number).
		First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, invoicedomain.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *repository) FindLinesByInvoiceID(ctx context.Context, invoiceID snowflake.ID) ([]invoicedomain.InvoiceLineRecord, error) {
	var lines []invoicedomain.InvoiceLineRecord
	err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("id ASC").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *repository) ListInvoices(ctx context.Context, opts invoicedomain.ListOptions) ([]invoicedomain.InvoiceRecord, error) {
	stmt := r.db.WithContext(ctx).Model(&invoicedomain.InvoiceRecord{})

	if opts.Status != "" {
		stmt = stmt.Where("status = ?", opts.Status)
	}

	sortBy := "issue_date"
	switch strings.ToLower(opts.SortBy) {
	case "", "issue_date":
	case "created_at":
		sortBy = "created_at"
	case "invoice_number":
		sortBy = "invoice_number"
	}
	order := "DESC"
	if strings.EqualFold(opts.SortOrder, "asc") {
		order = "ASC"
	}
	stmt = stmt.Order(sortBy + " " + order)

	if opts.Limit > 0 {
		stmt = stmt.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		stmt = stmt.Offset(opts.Offset)
	}

	var records []invoicedomain.InvoiceRecord
	if err := stmt.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) NextSequence(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&invoicedomain.InvoiceRecord{}).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count + 1, nil
}
