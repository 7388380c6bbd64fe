package pdf

import (
	"bytes"
	"context"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type TaxInvoiceData struct {
	InvoiceNumber string
	IssueDate     string
	DueDate       string
	Currency      string

	SupplierName    string
	SupplierTRN     string
	SupplierAddress string
	CustomerName    string
	CustomerTRN     string
	CustomerAddress string

	Items []TaxInvoiceItem

	VATBreakdown []VATBreakdownRow

	Subtotal string
	TotalVAT string
	Total    string

	QRPayload string
}

type TaxInvoiceItem struct {
	Description string
	Qty         string
	UnitPrice   string
	VATRate     string
	VATAmount   string
	Amount      string
}

type VATBreakdownRow struct {
	Category string
	Rate     string
	Taxable  string
	Tax      string
}

type PDFProvider struct{}

func New() Provider {
	return &PDFProvider{}
}

func (p *PDFProvider) GenerateTaxInvoice(ctx context.Context, invoice TaxInvoiceData) (io.Reader, error) {
	_ = ctx

	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(8, "Tax Invoice", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
		col.New(4),
	)

	// Invoice meta and QR. The QR carries the TLV compliance payload, so
	// a scan yields the same fields a submission client would transmit.
	m.AddRow(30,
		col.New(6).Add(
			text.New("Invoice number: "+invoice.InvoiceNumber, props.Text{Top: 0}),
			text.New("Date of issue: "+invoice.IssueDate, props.Text{Top: 4}),
			text.New("Date due: "+invoice.DueDate, props.Text{Top: 8}),
			text.New("Currency: "+invoice.Currency, props.Text{Top: 12}),
		),
		col.New(3),
		code.NewQrCol(3, invoice.QRPayload, props.Rect{
			Center:  true,
			Percent: 90,
		}),
	)

	// Parties
	m.AddRow(35,
		col.New(6).Add(
			text.New("Supplier", props.Text{Style: fontstyle.Bold}),
			text.New(invoice.SupplierName, props.Text{Top: 5}),
			text.New("TRN: "+invoice.SupplierTRN, props.Text{Top: 9}),
			text.New(invoice.SupplierAddress, props.Text{Top: 13}),
		),
		col.New(6).Add(
			text.New("Customer", props.Text{Style: fontstyle.Bold}),
			text.New(invoice.CustomerName, props.Text{Top: 5}),
			text.New(customerTRNLine(invoice.CustomerTRN), props.Text{Top: 9}),
			text.New(invoice.CustomerAddress, props.Text{Top: 13}),
		),
	)

	// Table header
	m.AddRow(10,
		text.NewCol(5, "Description", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(1, "Qty", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Unit price", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(1, "VAT %", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(1, "VAT", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	for _, item := range invoice.Items {
		m.AddRow(12,
			text.NewCol(5, item.Description, props.Text{Size: 9}),
			text.NewCol(1, item.Qty, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, item.UnitPrice, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(1, item.VATRate, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(1, item.VATAmount, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, item.Amount, props.Text{Size: 9, Align: align.Right}),
		)
	}

	// VAT breakdown by category
	m.AddRow(10,
		text.NewCol(12, "VAT summary", props.Text{Style: fontstyle.Bold, Size: 9, Top: 3}),
	)
	for _, row := range invoice.VATBreakdown {
		m.AddRow(8,
			text.NewCol(4, row.Category, props.Text{Size: 9}),
			text.NewCol(2, row.Rate, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(3, row.Taxable, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(3, row.Tax, props.Text{Size: 9, Align: align.Right}),
		)
	}

	// Totals
	m.AddRow(10,
		col.New(8),
		text.NewCol(2, "Subtotal", props.Text{Size: 9}),
		text.NewCol(2, invoice.Subtotal, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(10,
		col.New(8),
		text.NewCol(2, "Total VAT", props.Text{Size: 9}),
		text.NewCol(2, invoice.TotalVAT, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(10,
		col.New(8),
		text.NewCol(2, "Total due", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, invoice.Total, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}

func customerTRNLine(trn string) string {
	if trn == "" {
		return "TRN: -"
	}
	return "TRN: " + trn
}
