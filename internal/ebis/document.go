// Package ebis maps normalized invoice records onto the standardized
// commercial-invoice XML document consumed downstream.
//
// The document layout is fixed: element order follows struct field order,
// the primary namespace covers the invoice body and the secondary adl:
// namespace carries the additional reference and date extensions. Numeric
// fields follow a strict per-field decimal-place contract; downstream
// consumers compare output bit-for-bit.
package ebis

import "encoding/xml"

const (
	// NamespaceInvoice is the primary namespace of the target schema.
	NamespaceInvoice = "urn:ebis:invoice:3.01"

	// NamespaceAdditional is the secondary namespace carrying the additional
	// reference and date extensions.
	NamespaceAdditional = "urn:ebis:invoice:additional:1.0"

	// SchemaVersion is written into the document head.
	SchemaVersion = "3.01"

	// invoiceTypeCode marks the document as a commercial invoice.
	invoiceTypeCode = "INV"
)

// Document is the root of the target invoice document. Field order is the
// serialization order and must not be rearranged.
type Document struct {
	XMLName xml.Name `xml:"Invoice"`
	Xmlns   string   `xml:"xmlns,attr"`
	XmlnsA  string   `xml:"xmlns:adl,attr"`

	Head          Head            `xml:"InvoiceHead"`
	References    References      `xml:"References"`
	AdditionalRef []AdditionalRef `xml:"adl:AdditionalReference"`
	AdditionalDt  []AdditionalDt  `xml:"adl:AdditionalDate"`
	InvoiceDate   string          `xml:"InvoiceDate"`
	Supplier      Party           `xml:"Supplier"`
	Buyer         Party           `xml:"Buyer"`
	InvoiceTo     Party           `xml:"InvoiceTo"`
	Lines         []Line          `xml:"InvoiceLine"`
	Settlement    Settlement      `xml:"Settlement"`
	TaxSubTotals  []TaxSubTotal   `xml:"TaxSubTotal"`
	Total         InvoiceTotal    `xml:"InvoiceTotal"`
}

// Head carries schema/locale parameters, the invoice type, the document
// currency and the reproducibility checksum.
type Head struct {
	SchemaVersion string     `xml:"SchemaVersion"`
	Parameters    Parameters `xml:"Parameters"`
	InvoiceType   CodedValue `xml:"InvoiceType"`
	Currency      Currency   `xml:"InvoiceCurrency"`
	Checksum      uint32     `xml:"Checksum"`
}

// Parameters holds the locale parameters of the document.
type Parameters struct {
	Language         string `xml:"Language"`
	DecimalSeparator string `xml:"DecimalSeparator"`
}

// CodedValue is a text value qualified by a code attribute.
type CodedValue struct {
	Code  string `xml:"Code,attr"`
	Value string `xml:",chardata"`
}

// Currency is the document currency code plus its display name.
type Currency struct {
	Code string `xml:"Code"`
	Name string `xml:"Name"`
}

// References holds the primary document references.
type References struct {
	BuyersOrderNumber      string `xml:"BuyersOrderNumber"`
	SuppliersInvoiceNumber string `xml:"SuppliersInvoiceNumber"`
	DeliveryNoteNumber     string `xml:"DeliveryNoteNumber"`
}

// AdditionalRef is an extension reference qualified by a reference-type code.
type AdditionalRef struct {
	TypeCode string `xml:"RefTypeCode,attr"`
	Value    string `xml:",chardata"`
}

// AdditionalDt is an extension date qualified by a date-type name.
type AdditionalDt struct {
	Type  string `xml:"Type,attr"`
	Value string `xml:",chardata"`
}

// Party is one of the Supplier, Buyer or InvoiceTo blocks.
type Party struct {
	Name          string  `xml:"Name"`
	TaxNumber     string  `xml:"TaxNumber,omitempty"`
	CompanyRegNo  string  `xml:"CompanyRegistrationNumber,omitempty"`
	AccountCode   string  `xml:"AccountCode,omitempty"`
	ContactName   string  `xml:"Contact,omitempty"`
	Address       Address `xml:"Address"`
}

// Address is a fixed-order postal address block.
type Address struct {
	Lines    []string `xml:"AddressLine"`
	PostCode string   `xml:"PostCode"`
	Country  Country  `xml:"Country"`
}

// Country is the coded country of an address.
type Country struct {
	Code string `xml:"Code,attr"`
	Name string `xml:",chardata"`
}

// Line is one invoice line, re-numbered sequentially from 1 regardless of
// source item numbers.
type Line struct {
	LineNumber int      `xml:"LineNumber"`
	Product    Product  `xml:"Product"`
	Quantity   Quantity `xml:"Quantity"`
	UnitPrice  string   `xml:"Price>UnitPrice"`
	Tax        LineTax  `xml:"Tax"`
	LineTotal  string   `xml:"LineTotal"`
}

// Product identifies the goods or service on a line.
type Product struct {
	SuppliersProductCode string `xml:"SuppliersProductCode,omitempty"`
	Description          string `xml:"Description"`
}

// Quantity is an amount qualified by a unit-of-measure code.
type Quantity struct {
	UnitOfMeasure string `xml:"UOMCode,attr,omitempty"`
	Amount        string `xml:"Amount"`
}

// LineTax is the tax treatment of a single line.
type LineTax struct {
	Code  string `xml:"Code,attr"`
	Rate  string `xml:"TaxRate"`
	Value string `xml:"TaxValue"`
}

// Settlement carries payment terms and the early-settlement discount.
type Settlement struct {
	PaymentDueDays  int    `xml:"Terms>PaymentDays"`
	DiscountPercent string `xml:"Discount>Percentage"`
}

// TaxSubTotal is one tax-rate bracket; source VAT summary order is preserved.
type TaxSubTotal struct {
	Code         string `xml:"TaxCode,attr"`
	Description  string `xml:"TaxDescription,omitempty"`
	Rate         string `xml:"TaxRate"`
	TaxableValue string `xml:"TaxableValue"`
	TaxValue     string `xml:"TaxValue"`
}

// InvoiceTotal is the closing totals block.
type InvoiceTotal struct {
	NumberOfLines int    `xml:"NumberOfLines"`
	NetValue      string `xml:"NetValue"`
	TaxValue      string `xml:"TaxValue"`
	GrossValue    string `xml:"GrossValue"`
}
