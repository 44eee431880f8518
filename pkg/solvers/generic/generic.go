package generic

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/leapfea/pkg/core"
	"github.com/leapstack-labs/leapfea/pkg/solver"
)

const (
	// Name is the registered solver name.
	Name = "generic"
	// DefaultExe is run when no executable is configured.
	DefaultExe = "leapfea-solve"
	// DeckVersion is the input deck format version.
	DeckVersion = 1

	inputExt   = ".yaml"
	resultsExt = "-results.csv"
)

// Solver implements solver.Solver with file based exchange.
type Solver struct {
	logger *slog.Logger
}

// New creates a generic solver. A nil logger discards output.
func New(logger *slog.Logger) *Solver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Solver{logger: logger}
}

// Name returns the registered solver name.
func (s *Solver) Name() string { return Name }

// InputFile returns the deck written for model.
func InputFile(model core.Model) string { return solver.File(model, inputExt) }

// ResultsFile returns the result table read for model.
func ResultsFile(model core.Model) string { return solver.File(model, resultsExt) }

// Deck is the input file format. Steps are listed in analysis order.
type Deck struct {
	Version           int                                `yaml:"version"`
	Name              string                             `yaml:"name"`
	Tol               int                                `yaml:"tol"`
	Fields            []string                           `yaml:"fields,omitempty"`
	Nodes             map[int]*core.Node                 `yaml:"nodes"`
	Elements          map[int]*core.Element              `yaml:"elements"`
	Sets              map[string]*core.Set               `yaml:"sets,omitempty"`
	Materials         map[string]*core.Material          `yaml:"materials,omitempty"`
	Sections          map[string]*core.Section           `yaml:"sections,omitempty"`
	ElementProperties map[string]*core.ElementProperties `yaml:"element_properties,omitempty"`
	Displacements     map[string]*core.Displacement      `yaml:"displacements,omitempty"`
	Loads             map[string]*core.Load              `yaml:"loads,omitempty"`
	Steps             []*core.Step                       `yaml:"steps"`
	Constraints       map[string]*core.Record            `yaml:"constraints,omitempty"`
	Interactions      map[string]*core.Record            `yaml:"interactions,omitempty"`
	Misc              map[string]*core.Record            `yaml:"misc,omitempty"`
}

// BuildDeck assembles the input deck of model.
func BuildDeck(model core.Model, fields core.Fields) (*Deck, error) {
	steps := make([]*core.Step, 0, len(model.StepsOrder()))
	for _, name := range model.StepsOrder() {
		st, ok := model.Steps()[name]
		if !ok {
			return nil, fmt.Errorf("step %q: %w", name, core.ErrUnknownStep)
		}
		steps = append(steps, st)
	}
	return &Deck{
		Version:           DeckVersion,
		Name:              model.Name(),
		Tol:               model.Tolerance(),
		Fields:            fields.Names(),
		Nodes:             model.Nodes(),
		Elements:          model.Elements(),
		Sets:              model.Sets(),
		Materials:         model.Materials(),
		Sections:          model.Sections(),
		ElementProperties: model.ElementProperties(),
		Displacements:     model.Displacements(),
		Loads:             model.Loads(),
		Steps:             steps,
		Constraints:       model.Constraints(),
		Interactions:      model.Interactions(),
		Misc:              model.Misc(),
	}, nil
}

// Translate writes path/name.yaml.
func (s *Solver) Translate(_ context.Context, model core.Model, fields core.Fields) (string, error) {
	deck, err := BuildDeck(model, fields)
	if err != nil {
		return "", err
	}
	data, err := yaml.Marshal(deck)
	if err != nil {
		return "", fmt.Errorf("encode input deck: %w", err)
	}
	if err := os.MkdirAll(model.Path(), 0o755); err != nil {
		return "", fmt.Errorf("create model directory: %w", err)
	}
	file := InputFile(model)
	if err := os.WriteFile(file, data, 0o644); err != nil {
		return "", fmt.Errorf("write input deck: %w", err)
	}
	s.logger.Info("wrote input deck", "file", file, "steps", len(deck.Steps), "fields", deck.Fields)
	return file, nil
}

// Run executes the solver program on the input deck as
// "<exe> <input> <output>", or job.Command through the shell.
func (s *Solver) Run(ctx context.Context, model core.Model, exec solver.Executor, job solver.Job) (*solver.Outcome, error) {
	input := InputFile(model)
	if _, err := os.Stat(input); err != nil {
		return nil, fmt.Errorf("input deck: %w", err)
	}
	exe := job.Exe
	if exe == "" {
		exe = DefaultExe
	}
	cpus := job.CPUs
	if cpus < 1 {
		cpus = 1
	}
	cmd := solver.Command{
		Name:  exe,
		Args:  []string{input, ResultsFile(model)},
		Shell: job.Command,
		Dir:   model.Path(),
		Env: []string{
			"LEAPFEA_CPUS=" + strconv.Itoa(cpus),
			"OMP_NUM_THREADS=" + strconv.Itoa(cpus),
			"LEAPFEA_LICENSE=" + string(job.License),
		},
	}
	if job.Cleanup {
		cmd.Scratch = []string{model.Name() + ".log", model.Name() + ".tmp*", "*.scratch"}
	}
	s.logger.Info("running solver", "command", cmd.String(), "cpus", cpus, "license", job.License)
	return exec.Execute(ctx, cmd)
}
