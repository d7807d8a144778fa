// Package report turns a collection session into an Excel workbook with the
// cumulative z-score of the ones count, charted per sample.
package report

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"math/bits"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"megarng/host/naming"
)

const (
	SheetName = "Zscore"

	samplesHeader = "samples"
	timeHeader    = "time"
)

// Row is one batch with its running statistics.
type Row struct {
	Label          string
	Ones           int
	CumulativeMean float64
	ZScore         float64
}

// ReadBin splits r into blocks of blockBits bits and counts the ones in each.
// A short final block would be scored against the full block size, so it is
// dropped.
func ReadBin(r io.Reader, blockBits int) ([]Row, error) {
	if blockBits <= 0 || blockBits%8 != 0 {
		return nil, errors.New("block size must be a positive multiple of 8 bits for .bin files")
	}
	br := bufio.NewReader(r)
	buf := make([]byte, blockBits/8)
	var rows []Row
	for block := 1; ; block++ {
		n, err := io.ReadFull(br, buf)
		if n == len(buf) {
			count := 0
			for _, b := range buf {
				count += bits.OnesCount8(b)
			}
			rows = append(rows, Row{Label: strconv.Itoa(block), Ones: count})
		}
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// ReadCSV reads "timestamp,ones" rows, labelling each with its time of day.
func ReadCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		if len(rec) < 2 {
			continue
		}
		onesStr := strings.TrimSpace(rec[1])
		ones, err := strconv.Atoi(onesStr)
		if err != nil {
			return nil, fmt.Errorf("invalid ones value %q: %w", onesStr, err)
		}
		rows = append(rows, Row{Label: timeLabel(strings.TrimSpace(rec[0])), Ones: ones})
	}
	return rows, nil
}

var timeLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"20060102T15:04:05",
	"15:04:05",
}

func timeLabel(s string) string {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04:05")
		}
	}
	return s
}

// ZTest fills in the cumulative mean and z-score of rows in place, for blocks
// of blockBits fair coin flips:
//
//	z_i = (mean_i - n/2) / (sqrt(n/4) / sqrt(i))
func ZTest(rows []Row, blockBits int) []Row {
	expectedMean := 0.5 * float64(blockBits)
	expectedStdDev := math.Sqrt(float64(blockBits) * 0.25)
	if expectedStdDev == 0 {
		return rows
	}
	sum := 0
	for i := range rows {
		sum += rows[i].Ones
		n := float64(i + 1)
		mean := float64(sum) / n
		rows[i].CumulativeMean = mean
		rows[i].ZScore = (mean - expectedMean) / (expectedStdDev / math.Sqrt(n))
	}
	return rows
}

// Workbook describes the chart labels of a report.
type Workbook struct {
	Title           string
	FirstHeader     string
	BlockBits       int
	IntervalSeconds int
}

// Write saves rows to path as a workbook with a line chart of the z-score.
func (w Workbook) Write(rows []Row, path string) error {
	if len(rows) == 0 {
		return errors.New("no data to write")
	}
	f := excelize.NewFile()
	defer f.Close()

	if def := f.GetSheetName(0); def != SheetName {
		if _, err := f.NewSheet(SheetName); err != nil {
			return err
		}
		if err := f.DeleteSheet(def); err != nil {
			return err
		}
		if idx, err := f.GetSheetIndex(SheetName); err == nil {
			f.SetActiveSheet(idx)
		}
	}

	headers := []string{w.FirstHeader, "ones", "cumulative_mean", "z_test"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellStr(SheetName, cell, h); err != nil {
			return err
		}
	}
	for i, r := range rows {
		row := i + 2
		if err := f.SetCellStr(SheetName, "A"+strconv.Itoa(row), r.Label); err != nil {
			return err
		}
		if err := f.SetCellInt(SheetName, "B"+strconv.Itoa(row), r.Ones); err != nil {
			return err
		}
		if err := f.SetCellFloat(SheetName, "C"+strconv.Itoa(row), r.CumulativeMean, 6, 64); err != nil {
			return err
		}
		if err := f.SetCellFloat(SheetName, "D"+strconv.Itoa(row), r.ZScore, 6, 64); err != nil {
			return err
		}
	}

	end := len(rows) + 1
	chart := &excelize.Chart{
		Type: excelize.Line,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("%s!$D$1", SheetName),
			Categories: fmt.Sprintf("%s!$A$2:$A$%d", SheetName, end),
			Values:     fmt.Sprintf("%s!$D$2:$D$%d", SheetName, end),
		}},
		Title:  []excelize.RichTextRun{{Text: w.Title}},
		Legend: excelize.ChartLegend{Position: "none"},
		XAxis: excelize.ChartAxis{Title: []excelize.RichTextRun{{
			Text: fmt.Sprintf("Number of Samples - one sample every %d second(s)", w.IntervalSeconds),
		}}},
		YAxis: excelize.ChartAxis{
			Title:          []excelize.RichTextRun{{Text: fmt.Sprintf("Z-score - Sample Size = %d bits", w.BlockBits)}},
			MajorGridLines: true,
		},
	}
	if err := f.AddChart(SheetName, "F2", chart); err != nil {
		return err
	}
	return f.SaveAs(path)
}

// Build reads a .bin or .csv session file, whose name carries the block size
// and interval, and writes the workbook next to it. It returns the workbook path.
func Build(path string) (string, error) {
	params, err := naming.ParsePath(path)
	if err != nil {
		return "", err
	}

	in, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer in.Close()

	var rows []Row
	header := samplesHeader
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bin":
		rows, err = ReadBin(in, params.Bits)
	case ".csv":
		rows, err = ReadCSV(in)
		header = timeHeader
	default:
		return "", fmt.Errorf("unsupported file type: %s", filepath.Ext(path))
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	out := naming.WithExt(strings.TrimSuffix(path, filepath.Ext(path)), "xlsx")
	wb := Workbook{
		Title:           filepath.Base(path),
		FirstHeader:     header,
		BlockBits:       params.Bits,
		IntervalSeconds: params.IntervalSeconds,
	}
	if err := wb.Write(ZTest(rows, params.Bits), out); err != nil {
		return "", fmt.Errorf("writing %s: %w", out, err)
	}
	return out, nil
}
