package ebis

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"hash/fnv"

	"invoice-transformer/pkg/models"
)

// isoDate is the date layout used throughout the target document.
const isoDate = "2006-01-02"

// referenceTypeSalesOrder qualifies the additional reference carrying the
// supplier's sales-order number.
const referenceTypeSalesOrder = "SO"

// Per-field decimal-place contract. These values are fixed by the consuming
// system and must not change: output is compared bit-for-bit downstream.
const (
	dpQuantity     = 0
	dpUnitPrice    = 3
	dpLineTotal    = 3
	dpTaxRate      = 2
	dpTaxable      = 2
	dpTaxValue     = 2
	dpInvoiceTotal = 2
	dpDiscount     = 2
)

// Transform maps a normalized InvoiceRecord onto the target document.
//
// The mapping is a pure function of the record: transforming the same record
// twice yields identical documents (the wall-clock dependence of date
// defaulting lives in the normalizer, not here, and the checksum is a fixed
// FNV-1a so it is stable across runs and platforms).
func Transform(rec *models.InvoiceRecord) *Document {
	gross := rec.GrossTotal.StringFixed(dpInvoiceTotal)

	doc := &Document{
		Xmlns:  NamespaceInvoice,
		XmlnsA: NamespaceAdditional,
		Head: Head{
			SchemaVersion: SchemaVersion,
			Parameters: Parameters{
				Language:         "en",
				DecimalSeparator: ".",
			},
			InvoiceType: CodedValue{Code: invoiceTypeCode, Value: "Commercial Invoice"},
			Currency:    Currency{Code: rec.CurrencyCode, Name: rec.CurrencyName},
			Checksum:    Checksum(rec.InvoiceNumber, gross),
		},
		References: References{
			BuyersOrderNumber:      rec.CustomerOrderRef,
			SuppliersInvoiceNumber: rec.InvoiceNumber,
			DeliveryNoteNumber:     rec.DespatchNumber,
		},
		AdditionalRef: []AdditionalRef{
			{TypeCode: referenceTypeSalesOrder, Value: rec.SalesOrderNumber},
		},
		AdditionalDt: []AdditionalDt{
			{Type: "Order", Value: rec.OrderDate.Format(isoDate)},
			{Type: "Delivery", Value: rec.DespatchDate.Format(isoDate)},
		},
		InvoiceDate: rec.InvoiceDate.Format(isoDate),
		Supplier: Party{
			Name:         rec.CompanyName,
			TaxNumber:    rec.VatRegNumber,
			CompanyRegNo: rec.CompanyRegNo,
			Address:      mapAddress(rec.CompanyAddr),
		},
		Buyer: Party{
			Name:        rec.DeliveryName,
			ContactName: rec.DeliveryAddr.Contact,
			Address:     mapAddress(rec.DeliveryAddr),
		},
		InvoiceTo: Party{
			Name:        rec.CustomerName,
			AccountCode: rec.CustomerCode,
			ContactName: rec.CustomerAddr.Contact,
			Address:     mapAddress(rec.CustomerAddr),
		},
		Settlement: Settlement{
			PaymentDueDays:  rec.DaysDue,
			DiscountPercent: rec.EarlyDiscountPc.StringFixed(dpDiscount),
		},
		Total: InvoiceTotal{
			NumberOfLines: len(rec.Lines),
			NetValue:      rec.NetTotal.StringFixed(dpInvoiceTotal),
			TaxValue:      rec.VatTotal.StringFixed(dpInvoiceTotal),
			GrossValue:    gross,
		},
	}

	// Lines are re-numbered 1..N in record order; source item numbers
	// (including synthetic charge numbers) do not survive into the output.
	for i, l := range rec.Lines {
		doc.Lines = append(doc.Lines, Line{
			LineNumber: i + 1,
			Product: Product{
				SuppliersProductCode: l.ProductCode,
				Description:          l.Description,
			},
			Quantity: Quantity{
				UnitOfMeasure: l.UnitOfSale,
				Amount:        l.Quantity.StringFixed(dpQuantity),
			},
			UnitPrice: l.UnitPrice.StringFixed(dpUnitPrice),
			Tax: LineTax{
				Code:  l.VatCode,
				Rate:  l.VatRate.StringFixed(dpTaxRate),
				Value: l.VatValue.StringFixed(dpTaxValue),
			},
			LineTotal: l.LineTotal.StringFixed(dpLineTotal),
		})
	}

	for _, v := range rec.VatGroups {
		doc.TaxSubTotals = append(doc.TaxSubTotals, TaxSubTotal{
			Code:         v.Code,
			Description:  v.Description,
			Rate:         v.Rate.StringFixed(dpTaxRate),
			TaxableValue: v.Taxable.StringFixed(dpTaxable),
			TaxValue:     v.Tax.StringFixed(dpTaxValue),
		})
	}

	return doc
}

func mapAddress(a models.AddressInfo) Address {
	return Address{
		Lines:    a.Lines,
		PostCode: a.PostCode,
		Country:  Country{Code: a.CountryCode, Name: a.CountryName},
	}
}

// Checksum is FNV-1a 32-bit over the invoice number concatenated with the
// formatted gross total, reduced modulo 100000. The original system used the
// platform string hash here, which is not stable across processes; FNV-1a
// keeps the field's presence and 0..99999 range while making output
// reproducible.
func Checksum(invoiceNumber, grossText string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(invoiceNumber))
	h.Write([]byte(grossText))
	return h.Sum32() % 100000
}

// Marshal serializes the document as indented, UTF-8-declared XML.
func (d *Document) Marshal() ([]byte, error) {
	body, err := xml.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal invoice document: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.Write(body)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
