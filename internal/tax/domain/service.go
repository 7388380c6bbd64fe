package domain

import "context"

type Service interface {
	CalculateCIT(ctx context.Context, req CITRequest) (*CITResult, error)
	CalculateVAT(ctx context.Context, req VATRequest) (*VATResult, error)
	ListFilings(ctx context.Context, filter ListFilingsRequest) ([]TaxFiling, error)
}
