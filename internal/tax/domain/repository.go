package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type ListFilingsRequest struct {
	Kind    FilingKind
	SortBy  string
	OrderBy string
}

type Repository interface {
	CreateFiling(ctx context.Context, filing *TaxFiling) error
	FindFilingByID(ctx context.Context, id snowflake.ID) (*TaxFiling, error)
	ListFilings(ctx context.Context, filter ListFilingsRequest) ([]TaxFiling, error)
}
