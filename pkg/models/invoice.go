package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AddressInfo is a normalized postal address. Lines holds up to six non-blank
// address lines in source order; blank lines are dropped during normalization.
type AddressInfo struct {
	Lines       []string // street / locality lines, max 6
	PostCode    string
	CountryCode string // ISO 3166-1 alpha-2
	CountryName string
	Contact     string // optional contact name
}

// LineItem is one invoice line. Synthetic charge lines (carriage, packing,
// document fees) carry IsCharge=true and a generated item number; they are
// folded into the same sequence as ordinary order lines.
type LineItem struct {
	ItemNumber  int
	ProductCode string
	Description string
	Quantity    decimal.Decimal
	UnitOfSale  string // unit of measure code (EA, KG, ...)
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
	VatCode     string
	VatRate     decimal.Decimal
	VatValue    decimal.Decimal
	IsCharge    bool
}

// VatGroup is one tax-rate bracket from the source VAT summary. Order of
// appearance in the source list is preserved into the output tax subtotals.
type VatGroup struct {
	Code        string
	Description string
	Rate        decimal.Decimal
	Taxable     decimal.Decimal // principal (goods) value taxed at Rate
	Tax         decimal.Decimal
}

// InvoiceRecord is the fully-defaulted intermediate form of one
// SalesInvoicePrint document. It is built once per input file by the
// normalizer, consumed once by the transformation engine, and never persisted.
// Every field is already defaulted: downstream code never sees a missing
// value, only an empty string, a zero decimal, or the processing date.
type InvoiceRecord struct {
	// Supplier identity
	CompanyName  string
	VatRegNumber string
	CompanyRegNo string
	CompanyAddr  AddressInfo

	// Invoice identifiers
	InvoiceNumber    string
	CustomerOrderRef string // buyer's order reference
	InternalRef      string // supplier's own reference
	SalesOrderNumber string
	DespatchNumber   string

	// Dates, each normalized to a calendar date. Unparsable or absent source
	// dates fall back to the processing date.
	InvoiceDate  time.Time
	OrderDate    time.Time
	DespatchDate time.Time

	// Customer / ship-to
	CustomerCode string
	CustomerName string
	CustomerAddr AddressInfo
	DeliveryName string
	DeliveryAddr AddressInfo

	// Currency and terms
	CurrencyCode    string
	CurrencyName    string
	DaysDue         int
	EarlyDiscountPc decimal.Decimal // early-payment discount percent

	// Totals as printed on the source document. Invariant:
	// GrossTotal == NetTotal + VatTotal within formatting rounding.
	NetTotal   decimal.Decimal
	VatTotal   decimal.Decimal
	GrossTotal decimal.Decimal

	Lines     []LineItem
	VatGroups []VatGroup
}
