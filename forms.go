package edgar

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// FormsCatalogPath is where the bundled form table lives in the source tree
const FormsCatalogPath = "info/sec_forms.csv"

//go:embed info/sec_forms.csv
var bundledFormsCatalog []byte

// FormCode is one row of the form reference table
type FormCode struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// FormsCatalog is the form reference table in file order
type FormsCatalog []FormCode

// Lookup returns the description for a form code
func (fc FormsCatalog) Lookup(code string) (string, bool) {
	for _, f := range fc {
		if f.Code == code {
			return f.Description, true
		}
	}
	return "", false
}

// LoadFormsCatalog returns the bundled form table.
// On failure it logs and returns an empty catalog.
func LoadFormsCatalog(logger *slog.Logger) FormsCatalog {
	catalog, err := ParseFormsCatalog(bytes.NewReader(bundledFormsCatalog))
	if err != nil {
		loggerOrDefault(logger).Error("error reading the forms catalog", "path", FormsCatalogPath, "error", err)
		return FormsCatalog{}
	}
	return catalog
}

// LoadFormsCatalogFile reads a form table from disk.
// On failure it logs and returns an empty catalog.
func LoadFormsCatalogFile(path string, logger *slog.Logger) FormsCatalog {
	f, err := os.Open(path)
	if err != nil {
		loggerOrDefault(logger).Error("error reading the forms catalog", "path", path, "error", err)
		return FormsCatalog{}
	}
	defer f.Close()

	catalog, err := ParseFormsCatalog(f)
	if err != nil {
		loggerOrDefault(logger).Error("error reading the forms catalog", "path", path, "error", err)
		return FormsCatalog{}
	}
	return catalog
}

// ParseFormsCatalog reads a CSV with a header row whose first two columns
// are the form code and its description.
func ParseFormsCatalog(r io.Reader) (FormsCatalog, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("forms catalog is empty")
		}
		return nil, fmt.Errorf("failed to read forms catalog header: %w", err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("forms catalog needs at least 2 columns, got %d", len(header))
	}

	catalog := FormsCatalog{}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse forms catalog: %w", err)
		}
		catalog = append(catalog, FormCode{
			Code:        strings.TrimSpace(row[0]),
			Description: strings.TrimSpace(row[1]),
		})
	}

	return catalog, nil
}

func loggerOrDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
