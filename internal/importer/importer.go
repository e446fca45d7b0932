// Package importer turns order spreadsheets into order drafts.
//
// The first row is a header naming the fields (orderNumber, customerName,
// customerPhone, secondaryPhone, address, pincode, amountToCollect, productName);
// matching is case-insensitive and unknown columns are ignored. Fully blank rows
// are skipped.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"riderDeliveryPortal/internal/apperr"
	"riderDeliveryPortal/models"
)

type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// Mode controls how incomplete rows are treated.
type Mode int

const (
	// Lenient fills missing text with "" and missing or unparsable amounts with 0.
	Lenient Mode = iota
	// Strict rejects the whole file when any row lacks an order number, customer
	// name or address, or carries an unparsable amount.
	Strict
)

const op = "importer.parse"

// FormatFromFilename picks the format from the file extension.
func FormatFromFilename(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx":
		return FormatXLSX, nil
	case ".csv":
		return FormatCSV, nil
	}
	return "", apperr.Errorf(apperr.ValidationFailure, op, "unsupported file type %q", filepath.Ext(name))
}

// Parse reads all order rows from r.
func Parse(r io.Reader, format Format, mode Mode) ([]models.OrderDraft, error) {
	var rows [][]string
	var err error
	switch format {
	case FormatXLSX:
		rows, err = readXLSX(r)
	case FormatCSV:
		rows, err = readCSV(r)
	default:
		return nil, apperr.Errorf(apperr.ValidationFailure, op, "unsupported format %q", format)
	}
	if err != nil {
		return nil, apperr.New(apperr.ValidationFailure, op, "unreadable "+string(format)+" file", err)
	}
	return rowsToDrafts(rows, mode)
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	return f.GetRows(sheets[0])
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return cr.ReadAll()
}

type column int

const (
	colOrderNumber column = iota
	colCustomerName
	colCustomerPhone
	colSecondaryPhone
	colAddress
	colPincode
	colAmount
	colProductName
	numColumns
)

var headerNames = map[string]column{
	"ordernumber":     colOrderNumber,
	"customername":    colCustomerName,
	"customerphone":   colCustomerPhone,
	"secondaryphone":  colSecondaryPhone,
	"address":         colAddress,
	"pincode":         colPincode,
	"amounttocollect": colAmount,
	"productname":     colProductName,
}

func normalizeHeader(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s)
}

func rowsToDrafts(rows [][]string, mode Mode) ([]models.OrderDraft, error) {
	if len(rows) == 0 {
		return nil, apperr.Errorf(apperr.ValidationFailure, op, "file is empty")
	}
	index := [numColumns]int{}
	for i := range index {
		index[i] = -1
	}
	known := 0
	for i, h := range rows[0] {
		if c, ok := headerNames[normalizeHeader(h)]; ok && index[c] < 0 {
			index[c] = i
			known++
		}
	}
	if known == 0 {
		return nil, apperr.Errorf(apperr.ValidationFailure, op, "header row has no recognizable columns")
	}

	var drafts []models.OrderDraft
	var bad []string
	for n, row := range rows[1:] {
		if blank(row) {
			continue
		}
		line := n + 2
		cell := func(c column) string {
			i := index[c]
			if i < 0 || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		d := models.OrderDraft{
			OrderNumber:    cell(colOrderNumber),
			CustomerName:   cell(colCustomerName),
			CustomerPhone:  cell(colCustomerPhone),
			SecondaryPhone: cell(colSecondaryPhone),
			Address:        cell(colAddress),
			Pincode:        cell(colPincode),
			ProductName:    cell(colProductName),
		}
		amount, amountErr := parseAmount(cell(colAmount))
		d.AmountToCollect = amount
		if mode == Strict {
			var missing []string
			if d.OrderNumber == "" {
				missing = append(missing, "orderNumber")
			}
			if d.CustomerName == "" {
				missing = append(missing, "customerName")
			}
			if d.Address == "" {
				missing = append(missing, "address")
			}
			if amountErr != nil {
				missing = append(missing, "amountToCollect")
			}
			if len(missing) > 0 {
				bad = append(bad, fmt.Sprintf("row %d (%s)", line, strings.Join(missing, ", ")))
				continue
			}
		}
		drafts = append(drafts, d)
	}
	if len(bad) > 0 {
		return nil, apperr.Errorf(apperr.ValidationFailure, op, "invalid rows: %s", strings.Join(bad, "; "))
	}
	return drafts, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parseAmount returns 0 for an empty cell. Thousands separators and a leading
// currency sign are accepted.
func parseAmount(s string) (float64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	s = strings.TrimLeft(s, "\u20b9$ ")
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("amount %q is not a finite number", s)
	}
	return v, nil
}
