package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ginjaninja78/purchase-analyzer/internal/aggregate"
	"github.com/ginjaninja78/purchase-analyzer/internal/analyzer"
	"github.com/ginjaninja78/purchase-analyzer/internal/purchase"
	"github.com/ginjaninja78/purchase-analyzer/internal/scanner"
)

const sampleInput = "2025-09-01;food;Milk;1.20;2\n" +
	"2025-09-01;food;Bread;0.85\n" +
	"2025-09-02;transport;Bus;abc;4\n" +
	"2025-09-03;food;Cheese;3.75;1\n"

// writeWorkspace creates an input file and a config pointing at it.
func writeWorkspace(t *testing.T, input string, createInput bool) (configPath, inputPath, reportPath string) {
	t.Helper()
	dir := t.TempDir()
	inputPath = filepath.Join(dir, "purchases.txt")
	reportPath = filepath.Join(dir, "report.txt")
	configPath = filepath.Join(dir, "config.yaml")

	if createInput {
		if err := os.WriteFile(inputPath, []byte(input), 0o644); err != nil {
			t.Fatalf("write input: %v", err)
		}
	}
	content := fmt.Sprintf("input_file: %s\nreport_file: %s\nlog_level: error\n", inputPath, reportPath)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return configPath, inputPath, reportPath
}

func TestExecuteAnalyze(t *testing.T) {
	configPath, _, reportPath := writeWorkspace(t, sampleInput, true)

	var stdout, stderr bytes.Buffer
	if code := execute([]string{"--config", configPath}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, stderr.String())
	}

	out := stdout.String()
	for _, fragment := range []string{
		"Valid purchases found: 2\n",
		"Lines with errors: 2\n",
		"Total spent: 6.15 EUR\n",
		"  food                6.15 EUR\n",
		"1. Cheese                 3.75 EUR\n",
		"Report saved to " + reportPath,
	} {
		if !strings.Contains(out, fragment) {
			t.Errorf("stdout missing %q:\n%s", fragment, out)
		}
	}

	if _, err := os.Stat(reportPath); err != nil {
		t.Errorf("report not written: %v", err)
	}
}

func TestExecuteMissingInput(t *testing.T) {
	configPath, inputPath, reportPath := writeWorkspace(t, "", false)

	var stdout, stderr bytes.Buffer
	if code := execute([]string{"analyze", "--config", configPath}, &stdout, &stderr); code != 1 {
		t.Fatalf("exit code: got %d, want 1", code)
	}

	want := fmt.Sprintf("Error: file %s not found!", inputPath)
	if !strings.Contains(stderr.String(), want) {
		t.Errorf("stderr missing %q:\n%s", want, stderr.String())
	}
	if _, err := os.Stat(reportPath); !os.IsNotExist(err) {
		t.Errorf("report should not exist")
	}
}

func TestExecuteValidate(t *testing.T) {
	configPath, _, reportPath := writeWorkspace(t, sampleInput, true)

	var stdout, stderr bytes.Buffer
	if code := execute([]string{"validate", "--config", configPath}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, stderr.String())
	}

	out := stdout.String()
	for _, fragment := range []string{
		"line 2: line: wrong number of fields (value: 'got 4, want 5')\n",
		"line 3: price: price is not a number (value: 'abc')\n",
		"2 of 4 lines rejected\n",
	} {
		if !strings.Contains(out, fragment) {
			t.Errorf("stdout missing %q:\n%s", fragment, out)
		}
	}
	if _, err := os.Stat(reportPath); !os.IsNotExist(err) {
		t.Errorf("validate must not write the report")
	}
}

func TestExecuteConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "generated.yaml")

	var stdout, stderr bytes.Buffer
	if code := execute([]string{"config", "init", path}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, stderr.String())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if !strings.Contains(string(data), "input_file: purchases.txt") {
		t.Errorf("unexpected config:\n%s", data)
	}
}

func TestErrorMessage(t *testing.T) {
	notFound := fmt.Errorf("failed to read purchases: %w",
		&scanner.FileAccessError{Path: "purchases.txt", Err: fs.ErrNotExist})
	denied := fmt.Errorf("failed to read purchases: %w",
		&scanner.FileAccessError{Path: "purchases.txt", Err: fs.ErrPermission})

	cases := []struct {
		err  error
		want string
	}{
		{&processingError{err: notFound}, "Error: file purchases.txt not found!"},
		{&processingError{err: denied}, "Error processing file: " + denied.Error()},
		{&processingError{err: errors.New("disk full")}, "Error processing file: disk full"},
		{errors.New("unknown flag: --nope"), "Error: unknown flag: --nope"},
	}

	for _, tc := range cases {
		if got := errorMessage(tc.err); got != tc.want {
			t.Errorf("errorMessage(%v): got %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestPrintSummary(t *testing.T) {
	records := []purchase.Record{
		{Date: "2025-09-01", Category: "food", Name: "Milk", Price: 1.25, Quantity: 2},
		{Date: "2025-09-02", Category: "transport", Name: "Bus", Price: 1.5, Quantity: 4},
	}
	result := &analyzer.Result{
		ReportFile:   "report.txt",
		WorkbookFile: "report.xlsx",
		Summary:      aggregate.Summarize(records, 1, 5),
	}

	var buf bytes.Buffer
	printSummary(&buf, result, 5)

	want := strings.Join([]string{
		"Valid purchases found: 2",
		"Lines with errors: 1",
		"Total spent: 8.50 EUR",
		"",
		"Spending by category:",
		"  food                2.50 EUR",
		"  transport           6.00 EUR",
		"",
		"Top 5 most expensive purchases:",
		"1. Bus                    6.00 EUR",
		"2. Milk                   2.50 EUR",
		"",
		"Report saved to report.txt",
		"Workbook saved to report.xlsx",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Errorf("summary mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}
