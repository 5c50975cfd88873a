package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"ledger-reconciler/core/reconcile"
	"ledger-reconciler/feature/ingest"
	"ledger-reconciler/feature/output"

	"github.com/olekukonko/tablewriter"
)

// Output file names.
const (
	ReportFile = "report.md"
	ChartFile  = "exceptions_by_type.png"
)

// DefaultSampleSize is the number of exceptions listed in the report.
const DefaultSampleSize = 10

// sampleColumns are the exception fields shown in the report.
var sampleColumns = []string{"txn_id", "external_id", "amount_p", "amount_l", "currency_p", "currency_l", "reason"}

// Options controls report generation.
type Options struct {
	// OutDir holds the run files and receives the report.
	OutDir string
	// SampleSize caps the listed exceptions. Zero means DefaultSampleSize.
	SampleSize int
}

// Result lists the files written by Generate.
type Result struct {
	ReportPath string
	// ChartPath is empty when the run had no exceptions.
	ChartPath string
}

// Generate writes report.md, and the chart when there are exceptions.
func Generate(opts Options) (*Result, error) {
	doc, err := output.ReadDocument(filepath.Join(opts.OutDir, output.SummaryFile))
	if err != nil {
		return nil, err
	}

	sample, err := readSample(filepath.Join(opts.OutDir, output.TableExceptions+".csv"), opts.SampleSize)
	if err != nil {
		return nil, err
	}

	res := &Result{ReportPath: filepath.Join(opts.OutDir, ReportFile)}
	counts := SortedCounts(doc.ExceptionsByType)
	if total(counts) > 0 {
		res.ChartPath = filepath.Join(opts.OutDir, ChartFile)
		if err := WriteChart(res.ChartPath, counts); err != nil {
			return nil, err
		}
	}

	md := Markdown(doc, counts, sample, res.ChartPath != "")
	if err := os.WriteFile(res.ReportPath, []byte(md), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}
	return res, nil
}

// Count is the number of exceptions for one reason.
type Count struct {
	Reason reconcile.ReasonCode
	Count  int
}

// SortedCounts orders exception counts by reason code order; unknown reasons
// follow alphabetically.
func SortedCounts(byType map[reconcile.ReasonCode]int) []Count {
	rank := make(map[reconcile.ReasonCode]int, len(reconcile.ReasonCodes))
	for i, r := range reconcile.ReasonCodes {
		rank[r] = i
	}

	counts := make([]Count, 0, len(byType))
	for reason, n := range byType {
		counts = append(counts, Count{Reason: reason, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		ri, iKnown := rank[counts[i].Reason]
		rj, jKnown := rank[counts[j].Reason]
		switch {
		case iKnown && jKnown:
			return ri < rj
		case iKnown != jKnown:
			return iKnown
		default:
			return counts[i].Reason < counts[j].Reason
		}
	})
	return counts
}

// Markdown renders the report body.
func Markdown(doc *output.Document, counts []Count, sample [][]string, withChart bool) string {
	var b bytes.Buffer

	b.WriteString("# Payments Reconciliation Report\n\n")
	if doc.RunID != "" {
		fmt.Fprintf(&b, "Run `%s`, generated %s.\n\n", doc.RunID, doc.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	}

	b.WriteString("## Summary Metrics\n\n")
	writeTable(&b, []string{"Metric", "Value"}, [][]string{
		{"Processor rows", strconv.Itoa(doc.TotalProcessorRows)},
		{"Ledger rows", strconv.Itoa(doc.TotalLedgerRows)},
		{"Matched rows", strconv.Itoa(doc.MatchedRows)},
		{"Match rate", fmt.Sprintf("%.2f%%", doc.MatchRatePct)},
		{"Exceptions", strconv.Itoa(doc.ExceptionRows)},
		{"Amount tolerance", doc.AmountTolerance},
		{"Date window (days)", strconv.Itoa(doc.DateWindowDays)},
	})

	b.WriteString("\n## Exceptions Breakdown\n\n")
	if len(counts) > 0 {
		rows := make([][]string, 0, len(counts))
		for _, c := range counts {
			rows = append(rows, []string{string(c.Reason), strconv.Itoa(c.Count)})
		}
		writeTable(&b, []string{"Reason", "Count"}, rows)
		b.WriteString("\n")
	}
	if withChart {
		fmt.Fprintf(&b, "![Exceptions by type](%s)\n", ChartFile)
	} else {
		b.WriteString("No exception chart generated.\n")
	}

	if len(sample) > 0 {
		fmt.Fprintf(&b, "\n## Sample Exceptions (first %d)\n\n", len(sample))
		writeTable(&b, sampleColumns, sample)
	}

	b.WriteString("\n## Notes\n\n")
	b.WriteString("Processor transactions are reconciled against ledger postings within the tolerances above. ")
	b.WriteString("Exceptions are listed by their first failed check.\n")
	return b.String()
}

func writeTable(b *bytes.Buffer, header []string, rows [][]string) {
	table := tablewriter.NewWriter(b)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	table.SetCenterSeparator("|")
	table.AppendBulk(rows)
	table.Render()
}

func readSample(path string, size int) ([][]string, error) {
	if size <= 0 {
		size = DefaultSampleSize
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open exceptions: %w", err)
	}
	defer f.Close()

	rows, err := ingest.ReadRows(f, sampleColumns)
	if err != nil {
		return nil, fmt.Errorf("failed to read exceptions: %w", err)
	}
	if len(rows) > size {
		rows = rows[:size]
	}

	sample := make([][]string, 0, len(rows))
	for _, row := range rows {
		record := make([]string, len(sampleColumns))
		for i, c := range sampleColumns {
			record[i] = row[c]
		}
		sample = append(sample, record)
	}
	return sample, nil
}

func total(counts []Count) int {
	n := 0
	for _, c := range counts {
		n += c.Count
	}
	return n
}
