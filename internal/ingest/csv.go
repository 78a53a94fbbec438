package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/quotelane/salesagent/internal/catalog"
)

// Canonical field aliases: source data names its name/description columns
// inconsistently, so the first non-empty alias wins.
var (
	nameAliases = []string{"name", "product", "title", "product_name", "model", "item"}
	descAliases = []string{"description", "details", "specs", "long_description", "info"}
)

// typeInferenceSample is how many rows column type inference looks at.
const typeInferenceSample = 20

// ParseCSV reads tabular product data into documents. Rows missing both a
// name and a description are dropped; invalid or non-positive prices are
// cleared here so query time never sees them.
func ParseCSV(r io.Reader, defaultCategory string) ([]catalog.Product, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(rows)+2, err)
		}

		fields := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				fields[col] = strings.TrimSpace(record[i])
			}
		}
		rows = append(rows, fields)
	}

	types := inferColumnTypes(rows)

	var docs []catalog.Product
	for _, fields := range rows {
		doc, ok := buildProduct(fields, types, defaultCategory)
		if !ok {
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// inferColumnTypes classifies each column as float or text by sampling rows:
// a column is float only when every non-empty sample parses.
func inferColumnTypes(rows []map[string]string) map[string]string {
	types := make(map[string]string)
	if len(rows) == 0 {
		return types
	}

	sample := rows
	if len(sample) > typeInferenceSample {
		sample = sample[:typeInferenceSample]
	}

	for col := range rows[0] {
		colType := "text"
		sawValue := false
		allFloat := true
		for _, row := range sample {
			v := row[col]
			if v == "" {
				continue
			}
			sawValue = true
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				allFloat = false
				break
			}
		}
		if sawValue && allFloat {
			colType = "float"
		}
		types[col] = colType
	}
	return types
}

func buildProduct(fields map[string]string, types map[string]string, defaultCategory string) (catalog.Product, bool) {
	name := firstNonEmpty(fields, nameAliases)
	description := firstNonEmpty(fields, descAliases)
	if name == "" && description == "" {
		return catalog.Product{}, false
	}
	if name == "" {
		name = description
	}

	doc := catalog.Product{
		Document: catalog.Document{
			ID:          catalog.ResolveID(fields),
			Name:        name,
			Description: description,
			Category:    strings.ToLower(firstNonEmpty(fields, []string{"category"})),
		},
	}
	if doc.Category == "" {
		doc.Category = defaultCategory
	}

	if raw := fields["price"]; raw != "" {
		if price, err := strconv.ParseFloat(raw, 64); err == nil && price > 0 {
			doc.Price = price
		}
	}

	doc.Attrs = passthroughAttrs(fields, types)
	return doc, true
}

// passthroughAttrs collects the extra catalog columns that flow through to
// display, converting inferred-float columns to numbers.
func passthroughAttrs(fields map[string]string, types map[string]string) map[string]any {
	reserved := map[string]struct{}{
		"id": {}, "product_id": {}, "price": {}, "category": {},
	}
	for _, a := range nameAliases {
		reserved[a] = struct{}{}
	}
	for _, a := range descAliases {
		reserved[a] = struct{}{}
	}

	attrs := make(map[string]any)
	for col, v := range fields {
		if v == "" {
			continue
		}
		if _, skip := reserved[col]; skip {
			continue
		}
		if types[col] == "float" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				attrs[col] = f
				continue
			}
		}
		attrs[col] = v
	}
	if len(attrs) == 0 {
		return nil
	}
	return attrs
}

func firstNonEmpty(fields map[string]string, aliases []string) string {
	for _, alias := range aliases {
		if v := fields[alias]; v != "" {
			return v
		}
	}
	return ""
}
