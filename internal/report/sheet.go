// Package report выгружает сравнение цен поставщиков в Excel
// и читает обратно файлы с новыми ценами.
package report

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Spok95/storekeeper/internal/domain/catalog"
	"github.com/Spok95/storekeeper/internal/domain/dealers"
	"github.com/Spok95/storekeeper/internal/domain/prices"
)

var header = []interface{}{
	"product_name",
	"brand",
	"item",
	"pack",
	"first_name",
	"middle_name",
	"last_name",
	"country_code",
	"phone_number",
	"price",
	"recorded_at",
}

// колонка price, считая с нуля
const priceCol = 9

var ErrBadSheet = errors.New("report: malformed price sheet")

// QuoteRow: строка файла с ценой, готовая к записи в журнал.
type QuoteRow struct {
	Line    int
	Product catalog.ProductKey
	Dealer  dealers.DealerKey
	Price   int64
}

// WriteComparison пишет в w xlsx со свежими ценами поставщиков на товар.
// Тот же файл можно поправить в колонке price и загрузить через ReadQuotes.
func WriteComparison(w io.Writer, product catalog.ProductKey, quotes []prices.Quote) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := 2
	for _, q := range quotes {
		dk := q.Dealer.Key()
		middle := ""
		if dk.MiddleName != nil {
			middle = *dk.MiddleName
		}
		excelRow := []interface{}{
			product.Name,
			product.Brand,
			product.Item,
			product.Pack,
			dk.FirstName,
			middle,
			dk.LastName,
			dk.CountryCode,
			dk.PhoneNumber,
			q.Price,
			q.RecordedAt.UTC().Format(time.RFC3339),
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &excelRow); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}
		row++
	}

	return f.Write(w)
}

// ReadQuotes разбирает xlsx в формате WriteComparison.
// Строки с пустой ценой пропускаются.
func ReadQuotes(r io.Reader) ([]QuoteRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadSheet, err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadSheet, err)
	}
	if len(rows) == 0 || len(rows[0]) <= priceCol {
		return nil, fmt.Errorf("%w: expected at least %d columns (product_name ... price)", ErrBadSheet, priceCol+1)
	}

	var out []QuoteRow
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if len(row) <= priceCol {
			continue
		}
		priceStr := strings.TrimSpace(row[priceCol])
		if priceStr == "" {
			continue
		}
		price, err := strconv.ParseInt(priceStr, 10, 64)
		if err != nil || price < 0 {
			return nil, fmt.Errorf("%w: line %d: price %q is not a non-negative integer", ErrBadSheet, i+1, priceStr)
		}

		q := QuoteRow{
			Line: i + 1,
			Product: catalog.ProductKey{
				Name:  strings.TrimSpace(row[0]),
				Brand: strings.TrimSpace(row[1]),
				Item:  strings.TrimSpace(row[2]),
				Pack:  strings.TrimSpace(row[3]),
			},
			Dealer: dealers.DealerKey{
				FirstName:   strings.TrimSpace(row[4]),
				LastName:    strings.TrimSpace(row[6]),
				CountryCode: strings.TrimSpace(row[7]),
				PhoneNumber: strings.TrimSpace(row[8]),
			},
			Price: price,
		}
		if middle := strings.TrimSpace(row[5]); middle != "" {
			q.Dealer.MiddleName = &middle
		}
		out = append(out, q)
	}
	return out, nil
}
