// Package upi builds UPI deep links and QR codes for the bill-payment demo.
// It is a pure formatting utility: nothing here is persisted or charged.
package upi

import (
	"fmt"
	"net/url"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

const (
	DefaultPayeeName = "Citizen Services"

	// UPI transaction notes are capped at 80 characters.
	maxNoteLength = 80
)

type BillField struct {
	Key   string
	Label string
}

type BillType struct {
	Key    string
	Name   string
	Fields []BillField
}

// Catalog is the demo set of payable bill types and the identifiers each one
// needs.
var Catalog = []BillType{
	{Key: "electricity", Name: "Electricity", Fields: []BillField{{Key: "ca_number", Label: "CA Number"}}},
	{Key: "water", Name: "Water", Fields: []BillField{{Key: "consumer_id", Label: "Consumer ID"}}},
	{Key: "property", Name: "Property Tax", Fields: []BillField{{Key: "ward_no", Label: "Ward No."}, {Key: "property_id", Label: "Property ID"}}},
	{Key: "gas", Name: "Gas", Fields: []BillField{{Key: "customer_no", Label: "Customer No."}}},
	{Key: "phone", Name: "Phone/Mobile", Fields: []BillField{{Key: "number", Label: "Phone Number"}}},
}

// FindBillType looks a bill type up by key.
func FindBillType(key string) (BillType, bool) {
	for _, b := range Catalog {
		if b.Key == key {
			return b, true
		}
	}
	return BillType{}, false
}

// FilterCatalog returns the bill types whose name contains the query,
// case-insensitively. An empty query returns the full catalog.
func FilterCatalog(q string) []BillType {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return Catalog
	}
	var out []BillType
	for _, b := range Catalog {
		if strings.Contains(strings.ToLower(b.Name), q) {
			out = append(out, b)
		}
	}
	return out
}

// Extra is one bill identifier (e.g. consumer id) carried in the note tail.
// A slice keeps the rendering order deterministic.
type Extra struct {
	Key   string
	Value string
}

type Payment struct {
	Bill      BillType
	PayeeVPA  string
	PayeeName string
	Amount    string
	Note      string
	Extras    []Extra
}

// Link renders the upi://pay deep link for the payment. The note defaults to
// "<bill name> bill" and, with any extra identifiers appended, is truncated
// to the UPI note limit.
func (p Payment) Link() (string, error) {
	if p.PayeeVPA == "" {
		return "", fmt.Errorf("payee VPA is required")
	}

	name := p.PayeeName
	if name == "" {
		name = DefaultPayeeName
	}
	amount := p.Amount
	if amount == "" {
		amount = "0"
	}
	note := p.Note
	if note == "" {
		note = p.Bill.Name + " bill"
	}
	note = truncate(note, maxNoteLength)

	var idParts []string
	for _, e := range p.Extras {
		if v := strings.TrimSpace(e.Value); v != "" {
			idParts = append(idParts, e.Key+":"+v)
		}
	}
	if len(idParts) > 0 {
		note = truncate(note+" | "+strings.Join(idParts, ", "), maxNoteLength)
	}

	params := url.Values{}
	params.Set("pa", p.PayeeVPA)
	params.Set("pn", name)
	params.Set("am", amount)
	params.Set("cu", "INR")
	params.Set("tn", note)

	return "upi://pay?" + params.Encode(), nil
}

// QRCodePNG renders the payment link as a PNG image with the given edge size
// in pixels.
func QRCodePNG(link string, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	png, err := qrcode.Encode(link, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
