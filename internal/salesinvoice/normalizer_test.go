package salesinvoice

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

var testClock = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

const fullInvoice = `<?xml version="1.0" encoding="UTF-8"?>
<SalesInvoicePrint>
  <Company>
    <Name>Acme Components Ltd</Name>
    <VatRegNo>GB123456789</VatRegNo>
    <RegNo>01234567</RegNo>
    <Address>
      <Line>Unit 4, Riverside Park</Line>
      <Line>Mill Lane</Line>
      <PostCode>LS1 4AB</PostCode>
      <CountryCode>GB</CountryCode>
      <Country>United Kingdom</Country>
    </Address>
  </Company>
  <Invoice Number="INV-10042" Date="12/03/2024" Currency="GBP" CurrencyName="Pound Sterling">
    <CustomerOrderRef>PO-7781</CustomerOrderRef>
    <OurRef>ACME-2024-118</OurRef>
    <Terms DaysDue="30" EarlyDiscount="2.50"/>
    <Totals Net="125.00" Vat="25.00" Gross="150.00"/>
  </Invoice>
  <Customer Code="C0042">
    <Name>Northern Retail plc</Name>
    <Address>
      <Line>1 High Street</Line>
      <PostCode>M1 1AA</PostCode>
      <CountryCode>GB</CountryCode>
      <Country>United Kingdom</Country>
      <Contact>J. Smith</Contact>
    </Address>
  </Customer>
  <Delivery>
    <Name>Northern Retail Warehouse</Name>
    <Address>
      <Line>Depot 9</Line>
      <PostCode>M2 2BB</PostCode>
      <CountryCode>GB</CountryCode>
      <Country>United Kingdom</Country>
    </Address>
  </Delivery>
  <Despatch Number="DSP-555" Date="11/03/2024">
    <SalesOrder Number="SO-9001" Date="01/03/2024">
      <Item Number="1" ProductCode="WID-100" Qty="10" Uom="EA" UnitPrice="10.000" Total="100.000" VatCode="S" VatRate="20.00" VatValue="20.00">
        <Description>Widget, standard</Description>
      </Item>
      <Item Number="2" ProductCode="WID-200" Qty="2" Uom="EA" UnitPrice="10.000" Total="20.000" VatCode="S" VatRate="20.00" VatValue="4.00">
        <Description>Widget, heavy duty</Description>
      </Item>
    </SalesOrder>
  </Despatch>
  <Charges>
    <Charge Description="Carriage" Value="5.00" VatCode="S" VatRate="20.00" VatValue="1.00"/>
    <Charge Description="Waived fee" Value="0.00" VatCode="S" VatRate="20.00" VatValue="0.00"/>
    <Charge Description="Credit adjustment" Value="-2.00" VatCode="S" VatRate="20.00" VatValue="-0.40"/>
    <Charge Description="Documentation" Value="1.50" VatCode="S" VatRate="20.00" VatValue="0.30"/>
  </Charges>
  <VatSummary>
    <VatDetail Code="S" Rate="20.00" Goods="125.00" Tax="25.00">
      <Description>Standard rate</Description>
    </VatDetail>
  </VatSummary>
</SalesInvoicePrint>`

func TestNormalize_FullDocument(t *testing.T) {
	rec, err := Normalize([]byte(fullInvoice), testClock)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}

	if rec.InvoiceNumber != "INV-10042" {
		t.Errorf("invoice number: got %q", rec.InvoiceNumber)
	}
	if got := rec.InvoiceDate.Format("2006-01-02"); got != "2024-03-12" {
		t.Errorf("invoice date: got %s", got)
	}
	if rec.SalesOrderNumber != "SO-9001" {
		t.Errorf("sales order number: got %q", rec.SalesOrderNumber)
	}
	if rec.DespatchNumber != "DSP-555" {
		t.Errorf("despatch number: got %q", rec.DespatchNumber)
	}
	if got := rec.OrderDate.Format("2006-01-02"); got != "2024-03-01" {
		t.Errorf("order date: got %s", got)
	}
	if rec.DaysDue != 30 {
		t.Errorf("days due: got %d", rec.DaysDue)
	}
	if !rec.EarlyDiscountPc.Equal(decimal.RequireFromString("2.50")) {
		t.Errorf("early discount: got %s", rec.EarlyDiscountPc)
	}
	if !rec.GrossTotal.Equal(rec.NetTotal.Add(rec.VatTotal)) {
		t.Errorf("gross != net + vat: %s != %s + %s", rec.GrossTotal, rec.NetTotal, rec.VatTotal)
	}
	if len(rec.VatGroups) != 1 || rec.VatGroups[0].Code != "S" {
		t.Fatalf("vat groups: got %+v", rec.VatGroups)
	}
}

func TestNormalize_ChargesFoldedAsLines(t *testing.T) {
	rec, err := Normalize([]byte(fullInvoice), testClock)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}

	// 2 order items + 2 qualifying charges (zero and negative dropped).
	if len(rec.Lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(rec.Lines))
	}

	var charges []int
	for _, l := range rec.Lines {
		if l.IsCharge {
			charges = append(charges, l.ItemNumber)
			if !l.Quantity.Equal(decimal.NewFromInt(1)) {
				t.Errorf("charge quantity: got %s, want 1", l.Quantity)
			}
		}
	}
	if len(charges) != 2 {
		t.Fatalf("expected 2 charge lines, got %d", len(charges))
	}
	// Each synthetic charge line gets a distinct item number.
	if charges[0] == charges[1] {
		t.Errorf("charge item numbers collide: %v", charges)
	}
	if charges[0] != 9001 || charges[1] != 9002 {
		t.Errorf("charge item numbers: got %v, want [9001 9002]", charges)
	}
}

func TestNormalize_WrongRootElement(t *testing.T) {
	_, err := Normalize([]byte(`<PurchaseOrderPrint></PurchaseOrderPrint>`), testClock)
	if err == nil {
		t.Fatal("expected error for wrong root element")
	}
	if !errors.Is(err, ErrWrongRootElement) {
		t.Errorf("expected ErrWrongRootElement, got %v", err)
	}
	if !IsFormatError(err) {
		t.Errorf("expected a FormatError, got %T", err)
	}
}

func TestNormalize_MalformedXML(t *testing.T) {
	_, err := Normalize([]byte(`<SalesInvoicePrint><unclosed>`), testClock)
	if err == nil {
		t.Fatal("expected error for malformed XML")
	}
	if !errors.Is(err, ErrNotWellFormed) {
		t.Errorf("expected ErrNotWellFormed, got %v", err)
	}
	if !IsFormatError(err) {
		t.Errorf("expected a FormatError, got %T", err)
	}
}

func TestNormalize_EmptyDocumentDefaults(t *testing.T) {
	rec, err := Normalize([]byte(`<SalesInvoicePrint/>`), testClock)
	if err != nil {
		t.Fatalf("minimal document must not fail: %v", err)
	}

	if len(rec.Lines) != 0 {
		t.Errorf("expected no lines, got %d", len(rec.Lines))
	}
	if len(rec.VatGroups) != 0 {
		t.Errorf("expected no vat groups, got %d", len(rec.VatGroups))
	}
	if !rec.NetTotal.IsZero() || !rec.VatTotal.IsZero() || !rec.GrossTotal.IsZero() {
		t.Errorf("totals must default to zero: %s %s %s", rec.NetTotal, rec.VatTotal, rec.GrossTotal)
	}
	// Every date defaults to the processing date.
	for name, d := range map[string]string{
		"invoice":  rec.InvoiceDate.Format("2006-01-02"),
		"order":    rec.OrderDate.Format("2006-01-02"),
		"despatch": rec.DespatchDate.Format("2006-01-02"),
	} {
		if d != "2024-03-15" {
			t.Errorf("%s date: got %s, want processing date", name, d)
		}
	}
}

func TestNormalize_BadValuesDefault(t *testing.T) {
	doc := `<SalesInvoicePrint>
  <Invoice Number="INV-1" Date="2024-03-12">
    <Terms DaysDue="thirty" EarlyDiscount="two"/>
    <Totals Net="abc" Vat="" Gross="12,50"/>
  </Invoice>
</SalesInvoicePrint>`

	rec, err := Normalize([]byte(doc), testClock)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	// ISO-formatted date does not match dd/mm/yyyy and falls back.
	if got := rec.InvoiceDate.Format("2006-01-02"); got != "2024-03-15" {
		t.Errorf("invoice date fallback: got %s", got)
	}
	if rec.DaysDue != 0 {
		t.Errorf("days due: got %d, want 0", rec.DaysDue)
	}
	if !rec.NetTotal.IsZero() || !rec.VatTotal.IsZero() || !rec.GrossTotal.IsZero() {
		t.Errorf("unparsable totals must default to zero")
	}
}

func TestNormalize_AddressLines(t *testing.T) {
	doc := `<SalesInvoicePrint>
  <Company>
    <Address>
      <Line>One</Line>
      <Line>  </Line>
      <Line>Two</Line>
      <Line>Three</Line>
      <Line>Four</Line>
      <Line>Five</Line>
      <Line>Six</Line>
      <Line>Seven</Line>
    </Address>
  </Company>
</SalesInvoicePrint>`

	rec, err := Normalize([]byte(doc), testClock)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	want := []string{"One", "Two", "Three", "Four", "Five", "Six"}
	if len(rec.CompanyAddr.Lines) != len(want) {
		t.Fatalf("address lines: got %v", rec.CompanyAddr.Lines)
	}
	for i, line := range want {
		if rec.CompanyAddr.Lines[i] != line {
			t.Errorf("line %d: got %q, want %q", i, rec.CompanyAddr.Lines[i], line)
		}
	}
}
