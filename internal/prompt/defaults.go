package prompt

import (
	"fmt"

	"github.com/credyukti/syndata-go/internal/models"
)

// SystemPrompt is the fixed system message for every completion call.
const SystemPrompt = "You generate synthetic loan and risk data."

// rowTemplateText asks for a single JSON object per company.
const rowTemplateText = `You are a financial risk expert responsible for evaluating a company's loan risk based on their financial data. Your task is to generate a "Risk Score" that ranges from 0 to 100, where:

- A Risk Score of 0 represents minimum risk and indicates a financially stable company.
- A Risk Score of 100 represents maximum risk and indicates a financially unstable company.

Positive indicators (reduce risk): Net Profit Margin, Return on Equity, Return on Assets, Asset Turnover Ratio, Current Ratio, Interest Coverage Ratio. Higher values of these mean the company is efficient and liquid, so the risk score goes down.
Negative indicators (increase risk): Total Debt, Current Liabilities, Interest Expense, Debt Equity Ratio, Debt To Asset Ratio. Higher values of these mean heavier leverage, so the risk score goes up.

Consider:
- If collateral exceeds the loan value, the risk score should fall in 0-10.
- If the loan is small relative to Total Revenue and Total Assets, the risk score should fall in 0-10.
- Otherwise increase risk appropriately.

Generate the loan and risk details based on these features:
- Loan Value (Rs): {{loan_min}} to {{loan_max}}
- Collateral Value (Rs): {{collateral_min}} to {{collateral_max}}
- Loan Tenure (Months): {{tenure_min}} to {{tenure_max}}
- Credit Score: {{credit_min}} to {{credit_max}}
- Risk Score: 0 to 100

Respond ONLY with JSON in the following format:

{
"Loan Value": 10000000,
"Collateral Value": 15000000,
"Loan Tenure (Months)": 120,
"Credit Score": 750,
"Risk Score": 20,
"Explanation": "Strong profitability and low debt leads to low risk."
}

No extra text.

Company financial details:
{{financials}}`

// batchTemplateText asks for one pipe-separated row per company.
const batchTemplateText = `You are a financial risk expert responsible for evaluating each company's loan risk based on their financial data. Generate a "Risk Score" from 0 (minimum risk, financially stable) to 100 (maximum risk, financially unstable) for every row.

Positive indicators (reduce risk): Net Profit Margin, Return on Equity, Return on Assets, Asset Turnover Ratio, Current Ratio, Interest Coverage Ratio.
Negative indicators (increase risk): Total Debt, Current Liabilities, Interest Expense, Debt Equity Ratio, Debt To Asset Ratio.

Generate the loan and risk details within these ranges:
- Loan Value (Rs): {{loan_min}} to {{loan_max}}
- Collateral Value (Rs): {{collateral_min}} to {{collateral_max}}
- Loan Tenure (Months): {{tenure_min}} to {{tenure_max}}
- Credit Score: {{credit_min}} to {{credit_max}}
- Risk Score: 0 to 100

Introduce reasonable variation across companies. Where collateral exceeds the loan value the risk score should be low (0-10), and vice versa.

Instructions:
- Output exactly one line per input row, in the same order as the input.
- Output only the new columns, in this order: Loan Value | Collateral Value | Loan Tenure | Credit Score | Risk Score
- Use '|' as the separator.
- No additional explanation or commentary. Just the data table.

Example format:
Loan Value|Collateral Value|Loan Tenure|Credit Score|Risk Score
50000000|70000000|120|850|8
70000000|50000000|60|400|90

Here is the dataset for which you must generate the synthetic columns:
{{table}}`

var boundSlots = []string{
	"loan_min", "loan_max",
	"collateral_min", "collateral_max",
	"tenure_min", "tenure_max",
	"credit_min", "credit_max",
}

// RowTemplate builds the per-row instructional template.
func RowTemplate() (*Template, error) {
	return NewTemplate(rowTemplateText, append([]string{"financials"}, boundSlots...)...)
}

// BatchTemplate builds the per-batch instructional template.
func BatchTemplate() (*Template, error) {
	return NewTemplate(batchTemplateText, append([]string{"table"}, boundSlots...)...)
}

func boundValues(b models.Bounds) map[string]string {
	return map[string]string{
		"loan_min":       fmt.Sprintf("%.0f", b.LoanMin),
		"loan_max":       fmt.Sprintf("%.0f", b.LoanMax),
		"collateral_min": fmt.Sprintf("%.0f", b.CollateralMin),
		"collateral_max": fmt.Sprintf("%.0f", b.CollateralMax),
		"tenure_min":     fmt.Sprintf("%d", b.TenureMin),
		"tenure_max":     fmt.Sprintf("%d", b.TenureMax),
		"credit_min":     fmt.Sprintf("%d", b.CreditMin),
		"credit_max":     fmt.Sprintf("%d", b.CreditMax),
	}
}

// BuildRowPrompt renders the per-row prompt for one record.
func BuildRowPrompt(tmpl *Template, rec models.FinancialRecord, bounds models.Bounds) (string, error) {
	payload, err := RowPayload(rec)
	if err != nil {
		return "", err
	}
	values := boundValues(bounds)
	values["financials"] = payload
	return tmpl.Render(values)
}

// BuildBatchPrompt renders the per-batch prompt for a slice of records.
func BuildBatchPrompt(tmpl *Template, records []models.FinancialRecord, bounds models.Bounds) (string, error) {
	payload, err := TablePayload(records)
	if err != nil {
		return "", err
	}
	values := boundValues(bounds)
	values["table"] = payload
	return tmpl.Render(values)
}
