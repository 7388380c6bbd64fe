package domain

import (
	"errors"
	"regexp"
)

var (
	ErrNotFound        = errors.New("not_found")
	ErrInvalidInvoice  = errors.New("invalid_invoice")
	ErrAlreadyFinal    = errors.New("invoice_already_final")
	ErrInvalidDocument = errors.New("invalid_document")
)

var trnPattern = regexp.MustCompile(`^\d{15}$`)

// ValidTRN reports whether s is a well-formed 15-digit TRN.
func ValidTRN(s string) bool {
	return trnPattern.MatchString(s)
}
