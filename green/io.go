package green

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// PairParseOptions lets callers choose which columns hold the reference and
// candidate reports. Values are column names or 1-based "#N" indices.
type PairParseOptions struct {
	ReferenceColumn  string
	PredictionColumn string
}

var (
	referenceColumnCandidates  = []string{"reference", "ref", "ground_truth", "gt_report"}
	predictionColumnCandidates = []string{"prediction", "predictions", "candidate", "hypothesis", "hyp", "generated"}
)

// ReadReportPairs reads equal-length reference and candidate report lists
// from a CSV or TSV file. Columns are resolved from the header using common
// candidates unless explicit options are given.
func ReadReportPairs(path string, opts PairParseOptions) ([]string, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		reader.Comma = '\t'
	}
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if len(rows) == 0 {
		return nil, nil, errors.New("empty report file")
	}
	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = cleanCell(cell)
	}

	refCol, err := resolveColumn(header, opts.ReferenceColumn, referenceColumnCandidates)
	if err != nil {
		return nil, nil, fmt.Errorf("reference column: %w", err)
	}
	predCol, err := resolveColumn(header, opts.PredictionColumn, predictionColumnCandidates)
	if err != nil {
		return nil, nil, fmt.Errorf("prediction column: %w", err)
	}

	refs := make([]string, 0, len(rows)-1)
	preds := make([]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if refCol >= len(row) || predCol >= len(row) {
			continue
		}
		refs = append(refs, cleanCell(row[refCol]))
		preds = append(preds, cleanCell(row[predCol]))
	}
	if len(refs) == 0 {
		return nil, nil, fmt.Errorf("no report pairs found in %s", path)
	}
	return refs, preds, nil
}

// resolveColumn maps an explicit column selector, or the first matching
// candidate name, to a header index.
func resolveColumn(header []string, explicit string, candidates []string) (int, error) {
	explicit = strings.TrimSpace(explicit)
	if explicit != "" {
		for i, col := range header {
			if strings.EqualFold(col, explicit) {
				return i, nil
			}
		}
		if strings.HasPrefix(explicit, "#") {
			idx, err := strconv.Atoi(strings.TrimPrefix(explicit, "#"))
			if err != nil || idx <= 0 {
				return -1, fmt.Errorf("invalid column index %q", explicit)
			}
			if idx > len(header) {
				return -1, fmt.Errorf("column index %s is out of range", explicit)
			}
			return idx - 1, nil
		}
		return -1, fmt.Errorf("column %q not found", explicit)
	}
	for i, col := range header {
		for _, cand := range candidates {
			if strings.EqualFold(col, cand) {
				return i, nil
			}
		}
	}
	return -1, fmt.Errorf("no column matching %s", strings.Join(candidates, "/"))
}

func cleanCell(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "\ufeff")
	return v
}

// ResultsPath names the results file for a model under the output directory.
// Path separators in model identifiers are flattened so hub-style names like
// "org/model" stay a single file.
func ResultsPath(outputDir, model string) string {
	name := strings.NewReplacer("/", "_", "\\", "_").Replace(model)
	return filepath.Join(outputDir, fmt.Sprintf("results_%s.csv", name))
}

// WriteResults persists the evaluation table as CSV. One row per input pair:
// reference, prediction, critique, score, six subcategory counts and the
// matched-findings count. Undefined scores render as empty cells.
func WriteResults(path string, rows []ResultRow) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create result file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	header := []string{"reference", "prediction", "evaluation", "green"}
	for _, sub := range SubCategories {
		header = append(header, sub.String())
	}
	header = append(header, string(CategoryMatched))
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range rows {
		record := []string{row.Reference, row.Prediction, row.Critique, row.Score.String()}
		for _, n := range row.Sub {
			record = append(record, strconv.Itoa(n))
		}
		record = append(record, strconv.Itoa(row.Matched))
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush results: %w", err)
	}
	return nil
}
