package tsreader

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/KasumiMercury/edf-hull-analysis/internal/domain"
)

type yamlTaskSet struct {
	Eps   *float64   `yaml:"eps"`
	Tasks []yamlTask `yaml:"tasks"`
}

type yamlTask struct {
	Period   float64 `yaml:"period"`
	Deadline float64 `yaml:"deadline"`
	Phase    float64 `yaml:"phase"`
}

// DefaultEps is used when a YAML task set omits eps.
const DefaultEps = 1e-6

// ReadYAML decodes a task set document:
//
//	eps: 1e-6
//	tasks:
//	  - {period: 4, deadline: 3}
//	  - {period: 6, deadline: 6, phase: 1}
func ReadYAML(r io.Reader, policy domain.HyperperiodPolicy) (*domain.TaskSet, error) {
	var dto yamlTaskSet

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&dto); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", domain.ErrInvalidTaskStream)
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidTaskStream, err)
	}

	eps := DefaultEps
	if dto.Eps != nil {
		eps = *dto.Eps
	}

	tasks := make([]domain.Task, 0, len(dto.Tasks))
	for _, t := range dto.Tasks {
		tasks = append(tasks, domain.NewTask(t.Period, t.Deadline, t.Phase))
	}

	return domain.NewTaskSet(tasks, eps, policy)
}

func LoadYAMLFile(path string, policy domain.HyperperiodPolicy) (*domain.TaskSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open task set file: %w", err)
	}
	defer f.Close()

	return ReadYAML(f, policy)
}
