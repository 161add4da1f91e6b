package salesinvoice

import "encoding/xml"

// RootElement is the local name the input document's root element must carry.
// Anything else is rejected before field extraction begins.
const RootElement = "SalesInvoicePrint"

// The source document is the proprietary invoice-print export. Decimals are
// culture-invariant numeric strings held in attributes; dates are dd/mm/yyyy.
// Every element and attribute is optional as far as decoding is concerned:
// a missing section simply leaves its struct zero-valued and the normalizer
// defaults the corresponding record fields.

type sourceDocument struct {
	XMLName    xml.Name
	Company    sourceCompany   `xml:"Company"`
	Invoice    sourceInvoice   `xml:"Invoice"`
	Customer   sourceCustomer  `xml:"Customer"`
	Delivery   sourceDelivery  `xml:"Delivery"`
	Despatches []sourceDesp    `xml:"Despatch"`
	Charges    []sourceCharge  `xml:"Charges>Charge"`
	VatSummary []sourceVatItem `xml:"VatSummary>VatDetail"`
}

type sourceCompany struct {
	Name     string        `xml:"Name"`
	VatRegNo string        `xml:"VatRegNo"`
	RegNo    string        `xml:"RegNo"`
	Address  sourceAddress `xml:"Address"`
}

type sourceAddress struct {
	Lines       []string `xml:"Line"`
	PostCode    string   `xml:"PostCode"`
	CountryCode string   `xml:"CountryCode"`
	Country     string   `xml:"Country"`
	Contact     string   `xml:"Contact"`
}

type sourceInvoice struct {
	Number       string `xml:"Number,attr"`
	Date         string `xml:"Date,attr"`
	Currency     string `xml:"Currency,attr"`
	CurrencyName string `xml:"CurrencyName,attr"`

	CustomerOrderRef string       `xml:"CustomerOrderRef"`
	OurRef           string       `xml:"OurRef"`
	Terms            sourceTerms  `xml:"Terms"`
	Totals           sourceTotals `xml:"Totals"`
}

type sourceTerms struct {
	DaysDue       string `xml:"DaysDue,attr"`
	EarlyDiscount string `xml:"EarlyDiscount,attr"`
}

type sourceTotals struct {
	Net   string `xml:"Net,attr"`
	Vat   string `xml:"Vat,attr"`
	Gross string `xml:"Gross,attr"`
}

type sourceCustomer struct {
	Code    string        `xml:"Code,attr"`
	Name    string        `xml:"Name"`
	Address sourceAddress `xml:"Address"`
}

type sourceDelivery struct {
	Name    string        `xml:"Name"`
	Address sourceAddress `xml:"Address"`
}

// sourceDesp is one despatch group carrying the sales order it fulfilled.
type sourceDesp struct {
	Number string           `xml:"Number,attr"`
	Date   string           `xml:"Date,attr"`
	Orders []sourceSalesOrd `xml:"SalesOrder"`
}

type sourceSalesOrd struct {
	Number string       `xml:"Number,attr"`
	Date   string       `xml:"Date,attr"`
	Items  []sourceItem `xml:"Item"`
}

type sourceItem struct {
	Number      string `xml:"Number,attr"`
	ProductCode string `xml:"ProductCode,attr"`
	Qty         string `xml:"Qty,attr"`
	Uom         string `xml:"Uom,attr"`
	UnitPrice   string `xml:"UnitPrice,attr"`
	Total       string `xml:"Total,attr"`
	VatCode     string `xml:"VatCode,attr"`
	VatRate     string `xml:"VatRate,attr"`
	VatValue    string `xml:"VatValue,attr"`
	Description string `xml:"Description"`
}

type sourceCharge struct {
	Description string `xml:"Description,attr"`
	Value       string `xml:"Value,attr"`
	VatCode     string `xml:"VatCode,attr"`
	VatRate     string `xml:"VatRate,attr"`
	VatValue    string `xml:"VatValue,attr"`
}

type sourceVatItem struct {
	Code        string `xml:"Code,attr"`
	Rate        string `xml:"Rate,attr"`
	Goods       string `xml:"Goods,attr"`
	Tax         string `xml:"Tax,attr"`
	Description string `xml:"Description"`
}
