package shared

import (
	"net/url"
	"strconv"

	"github.com/rasika1205/FinCoachAI/internal/fincoach"
)

// Form field parsers for the repeated-row inputs used by the signup and
// profile update pages. Rows arrive as parallel value slices; a row missing
// its key column is dropped.

// AccountRows reads bank/balance pairs from the given field names.
func AccountRows(form url.Values, bankField, balanceField string) []fincoach.Document {
	banks := form[bankField]
	balances := form[balanceField]
	rows := []fincoach.Document{}
	for i, bank := range banks {
		if bank == "" || i >= len(balances) || balances[i] == "" {
			continue
		}
		rows = append(rows, fincoach.Document{
			"bank_name": bank,
			"balance":   ParseFloat(balances[i]),
		})
	}
	return rows
}

// LoanRows reads loan_type/loan_amount/loan_emi triples.
func LoanRows(form url.Values) []fincoach.Document {
	types := form["loan_type"]
	amounts := form["loan_amount"]
	emis := form["loan_emi"]
	rows := []fincoach.Document{}
	for i, typ := range types {
		if typ == "" || i >= len(amounts) || amounts[i] == "" {
			continue
		}
		row := fincoach.Document{
			"type":   typ,
			"amount": ParseFloat(amounts[i]),
		}
		if i < len(emis) {
			row["emi"] = ParseFloat(emis[i])
		}
		rows = append(rows, row)
	}
	return rows
}

// AssetRows reads asset_type/asset_value pairs.
func AssetRows(form url.Values) []fincoach.Document {
	types := form["asset_type"]
	values := form["asset_value"]
	rows := []fincoach.Document{}
	for i, typ := range types {
		if typ == "" || i >= len(values) || values[i] == "" {
			continue
		}
		rows = append(rows, fincoach.Document{
			"type":  typ,
			"value": ParseFloat(values[i]),
		})
	}
	return rows
}

// InvestmentRows reads investment_stock/investment_quantity/investment_value
// triples.
func InvestmentRows(form url.Values) []fincoach.Document {
	stocks := form["investment_stock"]
	quantities := form["investment_quantity"]
	values := form["investment_value"]
	rows := []fincoach.Document{}
	for i, stock := range stocks {
		if stock == "" || i >= len(quantities) || quantities[i] == "" {
			continue
		}
		row := fincoach.Document{
			"stock":    stock,
			"quantity": ParseFloat(quantities[i]),
		}
		if i < len(values) {
			row["value"] = ParseFloat(values[i])
		}
		rows = append(rows, row)
	}
	return rows
}

// ParseFloat parses a form value, treating blanks and garbage as zero.
func ParseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
