// Package analyzer turns raw document-AI output into the canonical parsed
// form the rest of the pipeline consumes. Providers sometimes echo the
// extraction JSON schema back with every leaf nested under
// properties.<field>.const instead of returning a plain object; both shapes
// are accepted here and the ambiguity never leaks past this package.
package analyzer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"billmunshi/internal/money"
)

const dateLayout = "2006-01-02"

// ParsedLineItem is one normalized line from the analyzer output.
type ParsedLineItem struct {
	Description string
	Category    string
	Quantity    int
	Price       decimal.Decimal
	Amount      decimal.Decimal
}

// ParsedBill is the canonical record produced from either raw shape.
// Missing numeric fields are zero, missing strings empty, and an
// unparsable date stays nil; no field failure aborts the whole document.
type ParsedBill struct {
	BillNumber  string
	DateIssued  *time.Time
	FromName    string
	FromAddress string
	ToName      string
	ToAddress   string
	Items       []ParsedLineItem
	Total       decimal.Decimal
	IGST        decimal.Decimal
	CGST        decimal.Decimal
	SGST        decimal.Decimal
}

// Normalize converts raw analyzer JSON into a ParsedBill. Detection rule:
// a top-level "properties" key selects the schema-wrapped extraction path,
// anything else is treated as a flat object.
func Normalize(raw json.RawMessage) (*ParsedBill, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var doc map[string]interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding analyzer output: %w", err)
	}

	if _, wrapped := doc["properties"]; wrapped {
		doc = unwrapSchema(doc)
	}

	bill := &ParsedBill{
		BillNumber:  stringField(doc, "billNumber"),
		FromName:    nestedString(doc, "from", "name"),
		FromAddress: nestedString(doc, "from", "address"),
		ToName:      nestedString(doc, "to", "name"),
		ToAddress:   nestedString(doc, "to", "address"),
		Total:       decimalField(doc, "total"),
		IGST:        decimalField(doc, "igst"),
		CGST:        decimalField(doc, "cgst"),
		SGST:        decimalField(doc, "sgst"),
	}

	if dateStr := stringField(doc, "dateIssued"); dateStr != "" {
		if t, err := time.Parse(dateLayout, dateStr); err == nil {
			bill.DateIssued = &t
		}
	}

	bill.Items = normalizeItems(doc)
	return bill, nil
}

// unwrapSchema flattens a JSON-Schema-with-const document into the flat
// shape, field by field. A malformed leaf degrades to absent rather than
// failing the document.
func unwrapSchema(doc map[string]interface{}) map[string]interface{} {
	props, ok := doc["properties"].(map[string]interface{})
	if !ok {
		return map[string]interface{}{}
	}

	flat := map[string]interface{}{}
	for key, v := range props {
		leaf, ok := v.(map[string]interface{})
		if !ok {
			continue
		}
		if c, ok := leaf["const"]; ok {
			flat[key] = c
			continue
		}
		if nested, ok := leaf["properties"].(map[string]interface{}); ok {
			flat[key] = unwrapSchema(map[string]interface{}{"properties": nested})
			continue
		}
		if items, ok := leaf["items"].([]interface{}); ok {
			flat[key] = unwrapItems(items)
		}
	}
	return flat
}

func unwrapItems(items []interface{}) []interface{} {
	out := make([]interface{}, 0, len(items))
	for _, it := range items {
		obj, ok := it.(map[string]interface{})
		if !ok {
			continue
		}
		flat := map[string]interface{}{}
		for k, v := range obj {
			if leaf, ok := v.(map[string]interface{}); ok {
				if c, ok := leaf["const"]; ok {
					flat[k] = c
				}
				continue
			}
			flat[k] = v
		}
		out = append(out, flat)
	}
	return out
}

// normalizeItems reads "items" (vendor bills: quantity x price) or
// "expenses" (expense bills: flat amounts). Only rows present in the input
// become line items; nothing is fabricated.
func normalizeItems(doc map[string]interface{}) []ParsedLineItem {
	rows, ok := doc["items"].([]interface{})
	if !ok {
		rows, _ = doc["expenses"].([]interface{})
	}

	items := make([]ParsedLineItem, 0, len(rows))
	for _, r := range rows {
		row, ok := r.(map[string]interface{})
		if !ok {
			continue
		}
		item := ParsedLineItem{
			Description: stringField(row, "description"),
			Category:    stringField(row, "category"),
			Quantity:    intField(row, "quantity"),
			Price:       decimalField(row, "price"),
			Amount:      decimalField(row, "amount"),
		}
		if item.Amount.IsZero() && item.Quantity > 0 && item.Price.IsPositive() {
			item.Amount = money.Round2(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
		if item.Amount.IsNegative() {
			item.Amount = decimal.Zero
		}
		items = append(items, item)
	}
	return items
}

func stringField(m map[string]interface{}, key string) string {
	if s, ok := m[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

func nestedString(m map[string]interface{}, outer, inner string) string {
	if nested, ok := m[outer].(map[string]interface{}); ok {
		return stringField(nested, inner)
	}
	return ""
}

func decimalField(m map[string]interface{}, key string) decimal.Decimal {
	switch v := m[key].(type) {
	case json.Number:
		if d, err := decimal.NewFromString(v.String()); err == nil {
			return d
		}
	case string:
		if d, err := money.Parse(v); err == nil {
			return d
		}
	case float64:
		return decimal.NewFromFloat(v)
	}
	return decimal.Zero
}

func intField(m map[string]interface{}, key string) int {
	switch v := m[key].(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
		if f, err := v.Float64(); err == nil {
			return int(f)
		}
	case float64:
		return int(v)
	}
	return 0
}
