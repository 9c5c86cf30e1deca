package catalog

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/findosh/fundsim/internal/models"
	"github.com/phuslu/log"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownFormat = errors.New("unknown catalog format")
	ErrEmptyFile     = errors.New("catalog file is empty")
	ErrNoData        = errors.New("no valid funds found")
)

// Format is the encoding of a catalog file
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath guesses the encoding from a file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// Record is one source row keyed by folded column name (see models.Fold)
type Record map[string]string

// Get returns the first non-empty value among keys
func (r Record) Get(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(r[k]); v != "" {
			return v
		}
	}
	return ""
}

// RecordParser maps rows of one catalog layout to funds
type RecordParser interface {
	// Detect checks if this parser handles rows with the given folded keys
	Detect(keys []string) bool

	// ParseRecord converts a row into a fund. Validation happens afterwards.
	ParseRecord(rec Record) (models.Fund, error)

	// Name returns the parser name
	Name() string
}

// ParseResult contains the result of parsing a catalog
type ParseResult struct {
	Funds  []models.Fund
	Source string
	Errors []string // Rows that were skipped, with the reason
}

// Service parses catalog files
type Service struct {
	parsers []RecordParser
}

// NewService creates a catalog service with every known layout
func NewService() *Service {
	return &Service{
		parsers: []RecordParser{
			NewNativeParser(),
			NewASFIMParser(),
		},
	}
}

// LoadFile parses the catalog file at path
func (s *Service) LoadFile(path string) (*ParseResult, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	result, err := s.Parse(f, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return result, nil
}

// Parse reads a catalog, detects its layout and returns the valid funds
func (s *Service) Parse(reader io.Reader, format Format) (*ParseResult, error) {
	var records []Record
	var err error

	switch format {
	case FormatCSV:
		records, err = readCSV(reader)
	case FormatJSON:
		records, err = readJSON(reader)
	case FormatYAML:
		records, err = readYAML(reader)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}

	keys := make([]string, 0, len(records[0]))
	for k := range records[0] {
		keys = append(keys, k)
	}

	var parser RecordParser
	for _, p := range s.parsers {
		if p.Detect(keys) {
			parser = p
			break
		}
	}
	if parser == nil {
		return nil, ErrUnknownFormat
	}

	result := &ParseResult{Source: parser.Name()}
	seen := make(map[string]bool, len(records))

	for i, rec := range records {
		row := i + 1
		fund, err := parser.ParseRecord(rec)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", row, err))
			continue
		}
		if err := models.ValidateFund(&fund); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", row, err))
			continue
		}
		if seen[fund.ID] {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: duplicate fund id %q", row, fund.ID))
			continue
		}
		seen[fund.ID] = true
		result.Funds = append(result.Funds, fund)
	}

	log.Info().
		Str("source", result.Source).
		Int("funds", len(result.Funds)).
		Int("skipped", len(result.Errors)).
		Msg("Catalog parsed")

	if len(result.Funds) == 0 {
		return result, ErrNoData
	}
	return result, nil
}

func readCSV(reader io.Reader) ([]Record, error) {
	csvReader := csv.NewReader(reader)
	csvReader.FieldsPerRecord = -1 // Allow variable fields
	csvReader.TrimLeadingSpace = true

	rows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(rows) < 2 {
		return nil, ErrEmptyFile
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = models.Fold(strings.TrimPrefix(h, "\ufeff"))
	}

	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		rec := make(Record, len(header))
		for i, key := range header {
			if i < len(row) {
				rec[key] = row[i]
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func readJSON(reader io.Reader) ([]Record, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyFile
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}
	return toRecords(doc)
}

func readYAML(reader io.Reader) ([]Record, error) {
	var doc any
	if err := yaml.NewDecoder(reader).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyFile
		}
		return nil, fmt.Errorf("failed to decode YAML: %w", err)
	}
	return toRecords(doc)
}

// toRecords accepts either a list of objects or an object with a "funds" list
func toRecords(doc any) ([]Record, error) {
	if obj, ok := doc.(map[string]any); ok {
		doc = obj["funds"]
	}
	list, ok := doc.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected a list of funds", ErrUnknownFormat)
	}

	records := make([]Record, 0, len(list))
	for i, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("entry %d is not an object", i+1)
		}
		rec := make(Record, len(obj))
		for k, v := range obj {
			rec[models.Fold(k)] = scalarString(v)
		}
		records = append(records, rec)
	}
	return records, nil
}

func scalarString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	default:
		return fmt.Sprint(val)
	}
}

// parseNumber reads numbers written either way round ("12.5", "12,5",
// "1 200 000,50", "1.200.000,50", "3.5%"). An empty value reports ok=false.
func parseNumber(s string) (value float64, percent bool, ok bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "null") || s == "-" {
		return 0, false, false, nil
	}
	if strings.HasSuffix(s, "%") {
		percent = true
		s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	}
	s = strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "").Replace(s)
	s = normalizeSeparators(s)

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, false, fmt.Errorf("invalid number %q", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false, false, fmt.Errorf("non-finite number %q", s)
	}
	return v, percent, true, nil
}

// normalizeSeparators rewrites s with "." as the only decimal mark. When
// both separators appear the last one is the decimal mark. A single kind
// repeated more than once groups thousands.
func normalizeSeparators(s string) string {
	comma, dot := strings.LastIndex(s, ","), strings.LastIndex(s, ".")
	switch {
	case comma >= 0 && dot >= 0:
		if comma > dot {
			s = strings.ReplaceAll(s, ".", "") // 1.200.000,50
			return strings.Replace(s, ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "") // 1,200.50
	case comma >= 0:
		if strings.Count(s, ",") > 1 {
			return strings.ReplaceAll(s, ",", "") // 1,200,000
		}
		return strings.Replace(s, ",", ".", 1) // 12,5
	case strings.Count(s, ".") > 1:
		return strings.ReplaceAll(s, ".", "") // 1.200.000
	}
	return s
}

func parseFloat(rec Record, keys ...string) (float64, error) {
	v, _, _, err := parseNumber(rec.Get(keys...))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", keys[0], err)
	}
	return v, nil
}

func parseDecimal(rec Record, keys ...string) (decimal.Decimal, error) {
	v, err := parseFloat(rec, keys...)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromFloat(v), nil
}

func hasAll(keys []string, want ...string) bool {
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	for _, w := range want {
		if !set[w] {
			return false
		}
	}
	return true
}

func hasAny(keys []string, want ...string) bool {
	for _, w := range want {
		if hasAll(keys, w) {
			return true
		}
	}
	return false
}
