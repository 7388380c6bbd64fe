package server

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	invoicedomain "github.com/mizanlabs/mizan/internal/invoice/domain"
	"github.com/mizanlabs/mizan/internal/providers/pdf"
)

func (s *Server) FinalizeInvoice(c *gin.Context) {
	var req invoicedomain.BuildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, issues, err := s.invoiceSvc.Finalize(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if len(issues) > 0 {
		AbortWithError(c, issuesError(issues))
		return
	}

	payable, _ := result.Invoice.Payable.Float64()
	s.metrics.RecordInvoiceFinalized(string(result.Invoice.Status), result.Invoice.CurrencyCode, payable)
	s.metrics.RecordDocument(true)

	c.JSON(http.StatusCreated, gin.H{"data": result})
}

func (s *Server) AmendInvoice(c *gin.Context) {
	id, err := parseInvoiceID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req invoicedomain.BuildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, issues, err := s.invoiceSvc.Amend(c.Request.Context(), id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if len(issues) > 0 {
		AbortWithError(c, issuesError(issues))
		return
	}

	s.metrics.RecordInvoiceFinalized(string(invoicedomain.InvoiceStatusAmended), result.Invoice.CurrencyCode, 0)
	s.metrics.RecordDocument(true)

	c.JSON(http.StatusOK, gin.H{"data": result})
}

func (s *Server) ListInvoices(c *gin.Context) {
	var query struct {
		Status    string `form:"status"`
		SortBy    string `form:"sort_by"`
		SortOrder string `form:"sort_order"`
		Limit     string `form:"limit"`
		Offset    string `form:"offset"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	limit, err := parseOptionalInt(query.Limit)
	if err != nil {
		AbortWithError(c, newValidationError("limit", "invalid_limit", "invalid limit"))
		return
	}
	offset, err := parseOptionalInt(query.Offset)
	if err != nil {
		AbortWithError(c, newValidationError("offset", "invalid_offset", "invalid offset"))
		return
	}

	records, err := s.invoiceSvc.ListInvoices(c.Request.Context(), invoicedomain.ListOptions{
		Status:    invoicedomain.InvoiceStatus(strings.ToUpper(strings.TrimSpace(query.Status))),
		SortBy:    strings.TrimSpace(query.SortBy),
		SortOrder: strings.TrimSpace(query.SortOrder),
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": records})
}

func (s *Server) GetInvoiceByID(c *gin.Context) {
	id, err := parseInvoiceID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	invoice, lines, err := s.invoiceSvc.GetInvoice(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"invoice": invoice,
		"lines":   lines,
	}})
}

func (s *Server) GetInvoiceDocument(c *gin.Context) {
	id, err := parseInvoiceID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	record, err := s.documents.FindLatestByInvoiceID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": record})
}

func (s *Server) GetInvoiceDocumentXML(c *gin.Context) {
	id, err := parseInvoiceID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	record, err := s.documents.FindLatestByInvoiceID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("X-Document-Hash", record.XMLHash)
	c.Data(http.StatusOK, "application/xml; charset=utf-8", record.XML)
}

func (s *Server) RenderInvoicePDF(c *gin.Context) {
	id, err := parseInvoiceID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	invoice, lines, err := s.invoiceSvc.GetInvoice(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	record, err := s.documents.FindLatestByInvoiceID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	reader, err := s.pdf.GenerateTaxInvoice(c.Request.Context(), taxInvoicePDFData(invoice, lines, record.QRPayload))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	doc, err := io.ReadAll(reader)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+invoice.InvoiceNumber+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", doc)
}

func taxInvoicePDFData(invoice *invoicedomain.InvoiceRecord, lines []invoicedomain.InvoiceLineRecord, qrPayload string) pdf.TaxInvoiceData {
	hundred := decimal.NewFromInt(100)

	items := make([]pdf.TaxInvoiceItem, 0, len(lines))
	type vatGroup struct {
		category invoicedomain.VATCategory
		rate     decimal.Decimal
		taxable  decimal.Decimal
		tax      decimal.Decimal
	}
	groups := make(map[string]*vatGroup)
	order := make([]string, 0)

	for _, line := range lines {
		items = append(items, pdf.TaxInvoiceItem{
			Description: line.Description,
			Qty:         line.Quantity.String(),
			UnitPrice:   line.UnitPrice.StringFixed(2),
			VATRate:     line.VATRate.Mul(hundred).StringFixed(0) + "%",
			VATAmount:   line.LineVAT.StringFixed(2),
			Amount:      line.LineTotal.StringFixed(2),
		})

		key := string(line.VATCategory) + "|" + line.VATRate.String()
		group, ok := groups[key]
		if !ok {
			group = &vatGroup{category: line.VATCategory, rate: line.VATRate}
			groups[key] = group
			order = append(order, key)
		}
		group.taxable = group.taxable.Add(line.LineTotal)
		group.tax = group.tax.Add(line.LineVAT)
	}

	rows := make([]pdf.VATBreakdownRow, 0, len(order))
	for _, key := range order {
		group := groups[key]
		rows = append(rows, pdf.VATBreakdownRow{
			Category: categoryName(group.category),
			Rate:     group.rate.Mul(hundred).StringFixed(0) + "%",
			Taxable:  group.taxable.StringFixed(2),
			Tax:      group.tax.StringFixed(2),
		})
	}

	dueDate := ""
	if invoice.DueDate != nil {
		dueDate = invoice.DueDate.Format("2006-01-02")
	}

	return pdf.TaxInvoiceData{
		InvoiceNumber:   invoice.InvoiceNumber,
		IssueDate:       invoice.IssueDate.Format("2006-01-02"),
		DueDate:         dueDate,
		Currency:        invoice.CurrencyCode,
		SupplierName:    invoice.SupplierName,
		SupplierTRN:     invoice.SupplierTRN,
		SupplierAddress: invoice.SupplierAddress,
		CustomerName:    invoice.CustomerName,
		CustomerTRN:     invoice.CustomerTRN,
		CustomerAddress: invoice.CustomerAddress,
		Items:           items,
		VATBreakdown:    rows,
		Subtotal:        invoice.TaxExclusive.StringFixed(2),
		TotalVAT:        invoice.TaxInclusive.Sub(invoice.TaxExclusive).StringFixed(2),
		Total:           invoice.Payable.StringFixed(2),
		QRPayload:       qrPayload,
	}
}

func categoryName(category invoicedomain.VATCategory) string {
	switch category {
	case invoicedomain.VATCategoryStandard:
		return "Standard rated"
	case invoicedomain.VATCategoryZeroRated:
		return "Zero rated"
	case invoicedomain.VATCategoryExempt:
		return "Exempt"
	case invoicedomain.VATCategoryOutOfScope:
		return "Out of scope"
	default:
		return string(category)
	}
}

func parseInvoiceID(c *gin.Context) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		return 0, newValidationError("id", "invalid_id", "invalid id")
	}
	return id, nil
}

func parseOptionalInt(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	return strconv.Atoi(value)
}
