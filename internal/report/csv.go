package report

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"rarorac-lab/internal/model"
	"rarorac-lab/internal/scenario"
)

// WriteComparisonCSV writes the table with column keys as the header and
// raw values, so the file can be loaded back programmatically.
func WriteComparisonCSV(w io.Writer, tbl scenario.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(tbl.Keys()); err != nil {
		return err
	}
	for _, row := range tbl.Rows {
		rec := make([]string, len(row))
		for i, v := range row {
			rec[i] = Raw(v)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePointsCSV writes sampled portfolio points.
func WritePointsCSV(w io.Writer, points []model.PortfolioPoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"index", "risk_score", "return_ratio"}); err != nil {
		return err
	}
	for i, p := range points {
		row := []string{
			strconv.Itoa(i),
			fmtFloat(p.RiskScore),
			fmtFloat(p.ReturnRatio),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile creates path (and its directory) and hands it to write.
func WriteFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
