package experiment

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/a003558/dyadic/internal/ir"
)

// CSVDialect specifies the CSV format variant.
type CSVDialect string

const (
	// DialectStandard uses RFC 4180 CSV.
	DialectStandard CSVDialect = "standard"

	// DialectTSV uses tab-separated values.
	DialectTSV CSVDialect = "tsv"
)

// CSVConfig specifies options for level export.
type CSVConfig struct {
	// Dialect specifies the CSV format variant.
	// Default: DialectStandard
	Dialect CSVDialect

	// IncludeHeader writes column headers as the first row.
	// Default: true
	IncludeHeader bool

	// NAString stands in for prime_base and phi when they do not apply.
	// Default: "NA" (read as missing by R and pandas)
	NAString string
}

// DefaultCSVConfig returns the standard configuration.
func DefaultCSVConfig() *CSVConfig {
	return &CSVConfig{
		Dialect:       DialectStandard,
		IncludeHeader: true,
		NAString:      "NA",
	}
}

// csvHeaders is the column order of every exported row.
var csvHeaders = []string{"n", "m", "l", "staircase", "bound", "prime_base", "phi"}

// CSVWriter writes levels as rows for plotting tools.
type CSVWriter struct {
	config      *CSVConfig
	writer      *csv.Writer
	headerDone  bool
	rowsWritten int
}

// NewCSVWriter creates a CSVWriter on w. A nil config means DefaultCSVConfig().
func NewCSVWriter(w io.Writer, config *CSVConfig) *CSVWriter {
	if config == nil {
		config = DefaultCSVConfig()
	}
	csvWriter := csv.NewWriter(w)
	if config.Dialect == DialectTSV {
		csvWriter.Comma = '\t'
	}
	return &CSVWriter{config: config, writer: csvWriter}
}

// WriteHeader writes the header row once.
func (cw *CSVWriter) WriteHeader() error {
	if cw.headerDone {
		return nil
	}
	if err := cw.writer.Write(csvHeaders); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	cw.headerDone = true
	return nil
}

// Write writes one level. The header goes first when configured.
func (cw *CSVWriter) Write(lv ir.Level) error {
	if cw.config.IncludeHeader && !cw.headerDone {
		if err := cw.WriteHeader(); err != nil {
			return err
		}
	}
	if err := cw.writer.Write(cw.formatLevel(lv)); err != nil {
		return fmt.Errorf("failed to write CSV row: %w", err)
	}
	cw.rowsWritten++
	return nil
}

// WriteAll writes every level and flushes.
func (cw *CSVWriter) WriteAll(levels []ir.Level) error {
	for _, lv := range levels {
		if err := cw.Write(lv); err != nil {
			return err
		}
	}
	return cw.Flush()
}

// Flush flushes buffered rows to the underlying writer.
func (cw *CSVWriter) Flush() error {
	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV writer: %w", err)
	}
	return nil
}

// RowsWritten returns the number of data rows written (excluding header).
func (cw *CSVWriter) RowsWritten() int {
	return cw.rowsWritten
}

func (cw *CSVWriter) formatLevel(lv ir.Level) []string {
	return []string{
		strconv.FormatInt(lv.N, 10),
		strconv.FormatInt(lv.M, 10),
		strconv.FormatInt(lv.L, 10),
		strconv.FormatInt(lv.Staircase, 10),
		strconv.FormatBool(lv.Bound),
		cw.optional(lv.PrimeBase),
		cw.optional(lv.Phi),
	}
}

func (cw *CSVWriter) optional(v int64) string {
	if v == 0 {
		return cw.config.NAString
	}
	return strconv.FormatInt(v, 10)
}
