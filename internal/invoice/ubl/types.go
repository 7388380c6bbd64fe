package ubl

import "encoding/xml"

// Element order follows the UBL 2.1 Invoice schema: header, parties,
// tax totals, monetary totals, lines. encoding/xml emits struct fields
// in declaration order, which is what makes the output canonical.

type xmlInvoice struct {
	XMLName          xml.Name         `xml:"Invoice"`
	Xmlns            string           `xml:"xmlns,attr"`
	Cac              string           `xml:"xmlns:cac,attr"`
	Cbc              string           `xml:"xmlns:cbc,attr"`
	ProfileID        string           `xml:"cbc:ProfileID"`
	ID               string           `xml:"cbc:ID"`
	IssueDate        string           `xml:"cbc:IssueDate"`
	DueDate          string           `xml:"cbc:DueDate,omitempty"`
	InvoiceTypeCode  string           `xml:"cbc:InvoiceTypeCode"`
	DocumentCurrency string           `xml:"cbc:DocumentCurrencyCode"`
	SupplierParty    xmlSupplierParty `xml:"cac:AccountingSupplierParty"`
	CustomerParty    xmlCustomerParty `xml:"cac:AccountingCustomerParty"`
	TaxTotal         xmlTaxTotal      `xml:"cac:TaxTotal"`
	MonetaryTotal    xmlMonetaryTotal `xml:"cac:LegalMonetaryTotal"`
	InvoiceLines     []xmlInvoiceLine `xml:"cac:InvoiceLine"`
}

type xmlSupplierParty struct {
	Party xmlParty `xml:"cac:Party"`
}

type xmlCustomerParty struct {
	Party xmlParty `xml:"cac:Party"`
}

type xmlParty struct {
	PartyName        string             `xml:"cac:PartyName>cbc:Name"`
	PostalAddress    xmlPostalAddress   `xml:"cac:PostalAddress"`
	PartyTaxScheme   *xmlPartyTaxScheme `xml:"cac:PartyTaxScheme,omitempty"`
	RegistrationName string             `xml:"cac:PartyLegalEntity>cbc:RegistrationName"`
}

type xmlPostalAddress struct {
	StreetName string     `xml:"cbc:StreetName,omitempty"`
	Country    xmlCountry `xml:"cac:Country"`
}

type xmlCountry struct {
	IdentificationCode string `xml:"cbc:IdentificationCode"`
}

type xmlPartyTaxScheme struct {
	CompanyID string       `xml:"cbc:CompanyID"`
	TaxScheme xmlTaxScheme `xml:"cac:TaxScheme"`
}

type xmlTaxScheme struct {
	ID string `xml:"cbc:ID"`
}

type xmlTaxTotal struct {
	TaxAmount   xmlAmount        `xml:"cbc:TaxAmount"`
	TaxSubtotal []xmlTaxSubtotal `xml:"cac:TaxSubtotal"`
}

type xmlTaxSubtotal struct {
	TaxableAmount xmlAmount      `xml:"cbc:TaxableAmount"`
	TaxAmount     xmlAmount      `xml:"cbc:TaxAmount"`
	TaxCategory   xmlTaxCategory `xml:"cac:TaxCategory"`
}

type xmlTaxCategory struct {
	ID        string       `xml:"cbc:ID"`
	Percent   string       `xml:"cbc:Percent"`
	TaxScheme xmlTaxScheme `xml:"cac:TaxScheme"`
}

type xmlMonetaryTotal struct {
	LineExtensionAmount xmlAmount `xml:"cbc:LineExtensionAmount"`
	TaxExclusiveAmount  xmlAmount `xml:"cbc:TaxExclusiveAmount"`
	TaxInclusiveAmount  xmlAmount `xml:"cbc:TaxInclusiveAmount"`
	PayableAmount       xmlAmount `xml:"cbc:PayableAmount"`
}

// xmlAmount carries a pre-formatted value so the serializer fully controls
// the numeric representation (2 decimal places, '.' separator).
type xmlAmount struct {
	Value      string `xml:",chardata"`
	CurrencyID string `xml:"currencyID,attr"`
}

type xmlQuantity struct {
	Value    string `xml:",chardata"`
	UnitCode string `xml:"unitCode,attr"`
}

type xmlInvoiceLine struct {
	ID                  string      `xml:"cbc:ID"`
	InvoicedQuantity    xmlQuantity `xml:"cbc:InvoicedQuantity"`
	LineExtensionAmount xmlAmount   `xml:"cbc:LineExtensionAmount"`
	Item                xmlItem     `xml:"cac:Item"`
	Price               xmlPrice    `xml:"cac:Price"`
}

type xmlItem struct {
	Name                  string         `xml:"cbc:Name"`
	ClassifiedTaxCategory xmlTaxCategory `xml:"cac:ClassifiedTaxCategory"`
}

type xmlPrice struct {
	PriceAmount xmlAmount `xml:"cbc:PriceAmount"`
}
