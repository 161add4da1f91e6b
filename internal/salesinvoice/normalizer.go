// Package salesinvoice parses proprietary SalesInvoicePrint XML exports into
// fully-defaulted InvoiceRecord values.
//
// The only structural check performed is the root element's local name; there
// is no schema validation. Beyond that check the extraction is deliberately
// error-tolerant: an absent optional element or attribute yields an empty
// string or zero, a date that does not match dd/mm/yyyy yields the processing
// date, and an unparsable decimal yields zero. A partial or malformed section
// therefore produces a partial record, never an error.
package salesinvoice

import (
	"encoding/xml"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"invoice-transformer/pkg/models"
)

// sourceDateFormat is the one strict date layout the export uses.
const sourceDateFormat = "02/01/2006"

// maxAddressLines caps the address lines carried into the record.
const maxAddressLines = 6

// chargeItemBase numbers synthetic charge lines 9001, 9002, ... so that
// multiple charges on one invoice stay distinguishable.
const chargeItemBase = 9000

// Normalize parses raw SalesInvoicePrint XML into an InvoiceRecord.
//
// now is the processing timestamp; it supplies the fallback for absent or
// unparsable dates. The returned record is fully defaulted: every consumer
// sees only required, already-defaulted fields.
//
// The error, when non-nil, is always a *FormatError: either the input is not
// well-formed XML or the root element is not SalesInvoicePrint.
func Normalize(data []byte, now time.Time) (*models.InvoiceRecord, error) {
	var doc sourceDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, NewFormatError("Normalize", ErrNotWellFormed, err.Error())
	}
	if doc.XMLName.Local != RootElement {
		return nil, NewFormatError("Normalize", ErrWrongRootElement,
			"got <"+doc.XMLName.Local+">, want <"+RootElement+">")
	}

	rec := &models.InvoiceRecord{
		CompanyName:  strings.TrimSpace(doc.Company.Name),
		VatRegNumber: strings.TrimSpace(doc.Company.VatRegNo),
		CompanyRegNo: strings.TrimSpace(doc.Company.RegNo),
		CompanyAddr:  normalizeAddress(doc.Company.Address),

		InvoiceNumber:    strings.TrimSpace(doc.Invoice.Number),
		CustomerOrderRef: strings.TrimSpace(doc.Invoice.CustomerOrderRef),
		InternalRef:      strings.TrimSpace(doc.Invoice.OurRef),

		InvoiceDate: parseDate(doc.Invoice.Date, now),

		CustomerCode: strings.TrimSpace(doc.Customer.Code),
		CustomerName: strings.TrimSpace(doc.Customer.Name),
		CustomerAddr: normalizeAddress(doc.Customer.Address),
		DeliveryName: strings.TrimSpace(doc.Delivery.Name),
		DeliveryAddr: normalizeAddress(doc.Delivery.Address),

		CurrencyCode:    strings.TrimSpace(doc.Invoice.Currency),
		CurrencyName:    strings.TrimSpace(doc.Invoice.CurrencyName),
		DaysDue:         parseInt(doc.Invoice.Terms.DaysDue),
		EarlyDiscountPc: parseDecimal(doc.Invoice.Terms.EarlyDiscount),

		NetTotal:   parseDecimal(doc.Invoice.Totals.Net),
		VatTotal:   parseDecimal(doc.Invoice.Totals.Vat),
		GrossTotal: parseDecimal(doc.Invoice.Totals.Gross),

		// The despatch/order dates default to the processing date even when
		// the despatch section is absent entirely.
		OrderDate:    now,
		DespatchDate: now,
	}

	collectDespatches(rec, doc.Despatches, now)
	collectCharges(rec, doc.Charges)

	for _, v := range doc.VatSummary {
		rec.VatGroups = append(rec.VatGroups, models.VatGroup{
			Code:        strings.TrimSpace(v.Code),
			Description: strings.TrimSpace(v.Description),
			Rate:        parseDecimal(v.Rate),
			Taxable:     parseDecimal(v.Goods),
			Tax:         parseDecimal(v.Tax),
		})
	}

	return rec, nil
}

// collectDespatches flattens the despatch → sales-order → item groups into
// the record's line sequence. The first despatch and first order seen supply
// the record-level despatch/order identifiers and dates.
func collectDespatches(rec *models.InvoiceRecord, desps []sourceDesp, now time.Time) {
	for di, d := range desps {
		if di == 0 {
			rec.DespatchNumber = strings.TrimSpace(d.Number)
			rec.DespatchDate = parseDate(d.Date, now)
		}
		for oi, o := range d.Orders {
			if di == 0 && oi == 0 {
				rec.SalesOrderNumber = strings.TrimSpace(o.Number)
				rec.OrderDate = parseDate(o.Date, now)
			}
			for _, it := range o.Items {
				rec.Lines = append(rec.Lines, models.LineItem{
					ItemNumber:  parseInt(it.Number),
					ProductCode: strings.TrimSpace(it.ProductCode),
					Description: strings.TrimSpace(it.Description),
					Quantity:    parseDecimal(it.Qty),
					UnitOfSale:  strings.TrimSpace(it.Uom),
					UnitPrice:   parseDecimal(it.UnitPrice),
					LineTotal:   parseDecimal(it.Total),
					VatCode:     strings.TrimSpace(it.VatCode),
					VatRate:     parseDecimal(it.VatRate),
					VatValue:    parseDecimal(it.VatValue),
				})
			}
		}
	}
}

// collectCharges folds qualifying charge entries (value > 0) into the line
// sequence as synthetic single-quantity lines. Zero and negative charges are
// dropped. Each charge gets its own item number above chargeItemBase.
func collectCharges(rec *models.InvoiceRecord, charges []sourceCharge) {
	n := 0
	for _, c := range charges {
		value := parseDecimal(c.Value)
		if !value.IsPositive() {
			continue
		}
		n++
		rec.Lines = append(rec.Lines, models.LineItem{
			ItemNumber:  chargeItemBase + n,
			Description: strings.TrimSpace(c.Description),
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   value,
			LineTotal:   value,
			VatCode:     strings.TrimSpace(c.VatCode),
			VatRate:     parseDecimal(c.VatRate),
			VatValue:    parseDecimal(c.VatValue),
			IsCharge:    true,
		})
	}
}

func normalizeAddress(a sourceAddress) models.AddressInfo {
	addr := models.AddressInfo{
		PostCode:    strings.TrimSpace(a.PostCode),
		CountryCode: strings.TrimSpace(a.CountryCode),
		CountryName: strings.TrimSpace(a.Country),
		Contact:     strings.TrimSpace(a.Contact),
	}
	for _, line := range a.Lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		addr.Lines = append(addr.Lines, line)
		if len(addr.Lines) == maxAddressLines {
			break
		}
	}
	return addr
}

// parseDate parses the strict dd/mm/yyyy source format. Anything else,
// including an empty value, degrades to the processing date. The fallback is
// preserved source behavior, not assumed to be correct business data.
func parseDate(s string, now time.Time) time.Time {
	t, err := time.Parse(sourceDateFormat, strings.TrimSpace(s))
	if err != nil {
		return now
	}
	return t
}

// parseDecimal parses an invariant (dot-separated) decimal attribute.
// Unparsable values default to zero.
func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parseInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
