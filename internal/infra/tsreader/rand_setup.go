package tsreader

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/KasumiMercury/edf-hull-analysis/internal/domain"
)

const randSetupFields = 8

// ReadRandSetup parses "seed,num_tasks,per_min,per_max,phasing,dl_avg,dl_var,eps".
// A non-zero phasing field turns phasing on.
func ReadRandSetup(r io.Reader) (domain.RandSetup, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return domain.RandSetup{}, fmt.Errorf("%w: %w", domain.ErrInvalidRandSetup, err)
	}

	fields := strings.Split(strings.TrimSpace(string(b)), ",")
	if len(fields) < randSetupFields {
		return domain.RandSetup{}, fmt.Errorf("%w: expected %d fields, got %d",
			domain.ErrInvalidRandSetup, randSetupFields, len(fields))
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	p := fieldParser{fields: fields}
	setup := domain.RandSetup{
		Seed:               p.parseUint(0, "seed"),
		NumTasks:           p.parseInt(1, "num_tasks"),
		PeriodDistribution: domain.PeriodUniform,
		PeriodMin:          p.parseFloat(2, "per_min"),
		PeriodMax:          p.parseFloat(3, "per_max"),
		Phasing:            p.parseInt(4, "phasing") != 0,
		DeadlineAvg:        p.parseFloat(5, "dl_avg"),
		DeadlineVar:        p.parseFloat(6, "dl_var"),
		Eps:                p.parseFloat(7, "eps"),
	}
	if p.err != nil {
		return domain.RandSetup{}, p.err
	}

	if err := setup.Validate(); err != nil {
		return domain.RandSetup{}, err
	}
	return setup, nil
}

// fieldParser keeps the first parse error.
type fieldParser struct {
	fields []string
	err    error
}

func (p *fieldParser) fail(name, value string) {
	if p.err == nil {
		p.err = fmt.Errorf("%w: invalid %s %q", domain.ErrInvalidRandSetup, name, value)
	}
}

func (p *fieldParser) parseUint(i int, name string) uint64 {
	v, err := strconv.ParseUint(p.fields[i], 10, 64)
	if err != nil {
		p.fail(name, p.fields[i])
	}
	return v
}

func (p *fieldParser) parseInt(i int, name string) int {
	v, err := strconv.Atoi(p.fields[i])
	if err != nil {
		p.fail(name, p.fields[i])
	}
	return v
}

func (p *fieldParser) parseFloat(i int, name string) float64 {
	v, err := strconv.ParseFloat(p.fields[i], 64)
	if err != nil {
		p.fail(name, p.fields[i])
	}
	return v
}
