package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"ezelectronics/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// CSVImporter reads catalog CSV files with the columns
// model,category,sellingPrice,quantity,arrivalDate,details and upserts products.
type CSVImporter struct {
	reader      *csv.Reader
	productRepo ProductWriter
}

func NewCSVImporter(r io.Reader, repo ProductWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:      csvr,
		productRepo: repo,
	}
}

type csvRow struct {
	Line        int
	Model       string
	Category    string
	Price       string
	Quantity    string
	ArrivalDate string
	Details     []string
}

// Run parses CSV rows and upserts one product per model. A row without a
// model continues the details of the product above it.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index["model"]; !ok {
		return 0, errors.New("read headers: missing model column")
	}

	var (
		current  *csvRow
		imported int
		line     = 1
	)

	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}
		line++

		row := parseRow(record, index)
		if row == nil {
			continue
		}
		row.Line = line

		if row.Model != "" {
			if current != nil {
				if err := i.save(ctx, current); err != nil {
					return imported, err
				}
				imported++
			}
			current = row
			continue
		}

		if current != nil {
			current.Details = append(current.Details, row.Details...)
		}
	}

	if current != nil {
		if err := i.save(ctx, current); err != nil {
			return imported, err
		}
		imported++
	}

	return imported, nil
}

func (i *CSVImporter) save(ctx context.Context, row *csvRow) error {
	p, err := row.toProduct()
	if err != nil {
		return fmt.Errorf("line %d: %w", row.Line, err)
	}
	if _, err := i.productRepo.Upsert(ctx, p); err != nil {
		return fmt.Errorf("upsert product %q: %w", row.Model, err)
	}
	return nil
}

func (r *csvRow) toProduct() (domain.Product, error) {
	category := domain.Category(r.Category)
	if !category.Valid() {
		return domain.Product{}, fmt.Errorf("model %q: unknown category %q", r.Model, r.Category)
	}
	price, err := domain.ParseMoney(r.Price)
	if err != nil || !price.IsPositive() {
		return domain.Product{}, fmt.Errorf("model %q: invalid selling price %q", r.Model, r.Price)
	}
	qty := 0
	if r.Quantity != "" {
		qty, err = strconv.Atoi(r.Quantity)
		if err != nil || qty < 0 {
			return domain.Product{}, fmt.Errorf("model %q: invalid quantity %q", r.Model, r.Quantity)
		}
	}
	if r.ArrivalDate != "" {
		if _, err := time.Parse(domain.DateLayout, r.ArrivalDate); err != nil {
			return domain.Product{}, fmt.Errorf("model %q: invalid arrival date %q", r.Model, r.ArrivalDate)
		}
	}
	return domain.Product{
		Model:        r.Model,
		Category:     category,
		SellingPrice: price,
		Quantity:     qty,
		ArrivalDate:  r.ArrivalDate,
		Details:      strings.Join(r.Details, "\n"),
	}, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) *csvRow {
	model := pick(record, index, "model")
	details := pick(record, index, "details")
	if model == "" && details == "" {
		return nil
	}

	row := &csvRow{
		Model:       model,
		Category:    pick(record, index, "category"),
		Price:       pick(record, index, "sellingPrice"),
		Quantity:    pick(record, index, "quantity"),
		ArrivalDate: pick(record, index, "arrivalDate"),
	}
	if details != "" {
		row.Details = []string{details}
	}
	return row
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
