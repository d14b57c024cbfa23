package analyzer

import "billmunshi/internal/domain"

// BuildPrompt returns the extraction prompt for the given bill kind. The
// schema mirrors what the normalizer accepts; providers that echo the schema
// back with const-wrapped leaves are handled by Normalize.
func BuildPrompt(kind domain.BillKind) string {
	if kind == domain.BillKindExpense {
		return `Extract the expense bill data from the provided image in JSON format using this schema:
{
  "billNumber": "",
  "dateIssued": "YYYY-MM-DD",
  "from": {"name": "", "address": ""},
  "to": {"name": "", "address": ""},
  "expenses": [
    {"description": "", "category": "", "amount": 0}
  ],
  "total": 0,
  "igst": 0,
  "cgst": 0,
  "sgst": 0
}
Extract every expense line visible on the document. Use 0 for amounts that are not present.
Return ONLY valid JSON with no markdown formatting and no explanation.`
	}

	return `Extract the vendor invoice data from the provided image in JSON format using this schema:
{
  "billNumber": "",
  "dateIssued": "YYYY-MM-DD",
  "from": {"name": "", "address": ""},
  "to": {"name": "", "address": ""},
  "items": [
    {"description": "", "quantity": 0, "price": 0, "amount": 0}
  ],
  "total": 0,
  "igst": 0,
  "cgst": 0,
  "sgst": 0
}
Extract every line item visible on the invoice. IGST applies to inter-state supply, CGST and SGST to intra-state supply; report the amounts exactly as printed and use 0 for absent values.
Return ONLY valid JSON with no markdown formatting and no explanation.`
}
