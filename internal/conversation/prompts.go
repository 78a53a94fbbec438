package conversation

import (
	"encoding/json"
	"strings"

	"github.com/quotelane/salesagent/internal/catalog"
)

const discoveryPrompt = `You are a helpful B2B sales assistant in discovery mode. Your goal is to understand the customer's needs better.

Customer Message: {message}
Found Products: {products}
Current Requirements: {requirements}

If products were found, present them briefly and ask clarifying questions to better understand their needs.
If no products were found, ask for more specific details about what they're looking for.

Keep responses friendly, professional, and focused on gathering requirements.
Ask 1-2 specific questions to move the conversation forward.`

const quotePrompt = `You are a B2B sales assistant ready to provide quotes. The customer has shown interest in products and is ready for pricing.

Selected Products: {selected_products}
Customer Requirements: {requirements}
Customer Message: {message}

Provide a clear, professional quote including:
- Product recommendations that match their needs
- Brief explanation of why these products fit
- Next steps for ordering

Be confident and helpful in closing the sale.`

// formatPrompt substitutes {name} placeholders in a template.
func formatPrompt(template string, vars map[string]string) string {
	for k, v := range vars {
		template = strings.ReplaceAll(template, "{"+k+"}", v)
	}
	return template
}

func renderProducts(products []catalog.Document) string {
	if len(products) == 0 {
		return "[]"
	}
	data, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return "[]"
	}
	return string(data)
}

func renderRequirements(reqs map[string]string) string {
	if len(reqs) == 0 {
		return "{}"
	}
	data, err := json.MarshalIndent(reqs, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}
