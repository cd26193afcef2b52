package tsreader

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/KasumiMercury/edf-hull-analysis/internal/domain"
)

// ReadText parses a delimited task-set stream.
//
// The first record is "n,eps"; it is followed by n records "period,deadline[,phase]",
// one per line. Fields are separated by commas or whitespace, blank lines are
// skipped and '#' starts a comment that runs to the end of the line.
func ReadText(r io.Reader, policy domain.HyperperiodPolicy) (*domain.TaskSet, error) {
	records, err := readRecords(r)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: missing header record", domain.ErrInvalidTaskStream)
	}

	header := records[0]
	if len(header.fields) != 2 {
		return nil, header.errorf("expected header \"n,eps\", got %d fields", len(header.fields))
	}
	n, err := strconv.Atoi(header.fields[0])
	if err != nil || n < 0 {
		return nil, header.errorf("invalid task count %q", header.fields[0])
	}
	eps, err := strconv.ParseFloat(header.fields[1], 64)
	if err != nil {
		return nil, header.errorf("invalid eps %q", header.fields[1])
	}

	if len(records)-1 != n {
		return nil, header.errorf("header declares %d tasks, stream has %d", n, len(records)-1)
	}

	tasks := make([]domain.Task, 0, n)
	for _, rec := range records[1:] {
		task, err := rec.task()
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	return domain.NewTaskSet(tasks, eps, policy)
}

type record struct {
	line   int
	fields []string
}

func (r record) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", domain.ErrInvalidTaskStream, r.line, fmt.Sprintf(format, args...))
}

func (r record) task() (domain.Task, error) {
	if len(r.fields) != 2 && len(r.fields) != 3 {
		return domain.Task{}, r.errorf("expected \"period,deadline[,phase]\", got %d fields", len(r.fields))
	}

	values := make([]float64, 3)
	for i, f := range r.fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return domain.Task{}, r.errorf("invalid number %q", f)
		}
		values[i] = v
	}

	return domain.NewTask(values[0], values[1], values[2]), nil
}

func readRecords(r io.Reader) ([]record, error) {
	var records []record

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++

		text := scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}

		fields := strings.FieldsFunc(text, func(c rune) bool {
			return c == ',' || unicode.IsSpace(c)
		})
		if len(fields) == 0 {
			continue
		}

		records = append(records, record{line: line, fields: fields})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidTaskStream, err)
	}

	return records, nil
}
