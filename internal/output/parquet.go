package output

import (
	"fmt"
	"os"
	"strconv"

	"github.com/parquet-go/parquet-go"

	"github.com/thep200/repo-profiler/internal/model"
)

// baseColumns is the number of leading non style columns of a log row
const baseColumns = 11

// ProfileRow is one log row in parquet form
type ProfileRow struct {
	Repo           string  `parquet:"repo,snappy"`
	NPyFiles       int64   `parquet:"n_pyfiles,snappy"`
	CodeLines      int64   `parquet:"code_lines,snappy"`
	CommentLines   int64   `parquet:"comment_lines,snappy"`
	DocstringLines int64   `parquet:"docstring_lines,snappy"`
	TestLines      int64   `parquet:"test_lines,snappy"`
	ReadmeLines    int64   `parquet:"readme_lines,snappy"`
	NCommits       int64   `parquet:"n_commits,snappy"`
	CommitsPerTime float64 `parquet:"commits_per_time,snappy"`
	NStars         int64   `parquet:"n_stars,snappy"`
	NForks         int64   `parquet:"n_forks,snappy"`

	E1 int64 `parquet:"E1,snappy"`
	E2 int64 `parquet:"E2,snappy"`
	E3 int64 `parquet:"E3,snappy"`
	E4 int64 `parquet:"E4,snappy"`
	E5 int64 `parquet:"E5,snappy"`
	E7 int64 `parquet:"E7,snappy"`
	E9 int64 `parquet:"E9,snappy"`
	W1 int64 `parquet:"W1,snappy"`
	W2 int64 `parquet:"W2,snappy"`
	W3 int64 `parquet:"W3,snappy"`
	W5 int64 `parquet:"W5,snappy"`
	W6 int64 `parquet:"W6,snappy"`
}

// styleFields maps each code of model.StyleCodes to its column
func (r *ProfileRow) styleFields() []*int64 {
	return []*int64{&r.E1, &r.E2, &r.E3, &r.E4, &r.E5, &r.E7, &r.E9, &r.W1, &r.W2, &r.W3, &r.W5, &r.W6}
}

// NewProfileRow flattens p into its log row
func NewProfileRow(p *model.Profile) ProfileRow {
	row := ProfileRow{
		Repo:           p.URL,
		NPyFiles:       int64(p.NPyFiles),
		CodeLines:      int64(p.CodeLines),
		CommentLines:   int64(p.CommentLines),
		DocstringLines: int64(p.DocstringLines),
		TestLines:      int64(p.TestLines),
		ReadmeLines:    int64(p.ReadmeLines),
		NCommits:       int64(p.NCommits),
		CommitsPerTime: p.CommitsPerTime,
		NStars:         int64(p.NStars),
		NForks:         int64(p.NForks),
	}
	for i, dst := range row.styleFields() {
		*dst = int64(p.StyleErrors[model.StyleCodes[i]])
	}
	return row
}

// ParseRow reads a log record in model.Header order. Missing style columns stay zero.
func ParseRow(record []string) (ProfileRow, error) {
	row := ProfileRow{}
	if len(record) < baseColumns {
		return row, fmt.Errorf("expected at least %d columns, got %d", baseColumns, len(record))
	}

	row.Repo = record[0]
	ints := []*int64{
		&row.NPyFiles, &row.CodeLines, &row.CommentLines, &row.DocstringLines,
		&row.TestLines, &row.ReadmeLines, &row.NCommits,
	}
	for i, dst := range ints {
		if err := parseInt(record[1+i], dst); err != nil {
			return row, err
		}
	}

	perTime, err := strconv.ParseFloat(record[8], 64)
	if err != nil {
		return row, fmt.Errorf("commits_per_time %q: %w", record[8], err)
	}
	row.CommitsPerTime = perTime

	if err := parseInt(record[9], &row.NStars); err != nil {
		return row, err
	}
	if err := parseInt(record[10], &row.NForks); err != nil {
		return row, err
	}

	styles := row.styleFields()
	for i, value := range record[baseColumns:] {
		if i >= len(styles) {
			break
		}
		if err := parseInt(value, styles[i]); err != nil {
			return row, err
		}
	}
	return row, nil
}

func parseInt(s string, dst *int64) error {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("column value %q: %w", s, err)
	}
	*dst = n
	return nil
}

// ReadRows parses every row of the CSV log at path
func ReadRows(path string) ([]ProfileRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", path, err)
	}
	defer f.Close()

	var rows []ProfileRow
	line := 0
	err = eachRecord(f, func(record []string) error {
		line++
		row, err := ParseRow(record)
		if err != nil {
			return fmt.Errorf("row %d: %w", line, err)
		}
		rows = append(rows, row)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	return rows, nil
}

// WriteParquet writes rows to a new parquet file at outputPath
func WriteParquet(rows []ProfileRow, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[ProfileRow](file)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}

// Export converts the CSV log at csvPath into a parquet file and returns the row count
func Export(csvPath, parquetPath string) (int, error) {
	rows, err := ReadRows(csvPath)
	if err != nil {
		return 0, err
	}
	if err := WriteParquet(rows, parquetPath); err != nil {
		return 0, err
	}
	return len(rows), nil
}
