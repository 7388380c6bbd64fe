package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInvoiceNumber(t *testing.T) {
	issued := time.Date(2024, time.January, 15, 10, 30, 0, 0, time.UTC)

	out, err := InvoiceNumber(DefaultInvoiceNumberTemplate, issued, 42)
	assert.NoError(t, err)
	assert.Equal(t, "INV-20240115-000042", out)

	out, err = InvoiceNumber("{YY}/{MM}-{SEQ}", issued, 7)
	assert.NoError(t, err)
	assert.Equal(t, "24/01-7", out)
}

func TestInvoiceNumber_Errors(t *testing.T) {
	issued := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

	_, err := InvoiceNumber("", issued, 1)
	assert.Error(t, err)

	_, err = InvoiceNumber(DefaultInvoiceNumberTemplate, issued, 0)
	assert.Error(t, err)

	_, err = InvoiceNumber("INV-{NOPE}", issued, 1)
	assert.Error(t, err)
}
