package generic

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/leapfea/internal/structure"
	"github.com/leapstack-labs/leapfea/internal/testutil"
	"github.com/leapstack-labs/leapfea/pkg/core"
	"github.com/leapstack-labs/leapfea/pkg/solver"
)

type recordingExecutor struct {
	cmds []solver.Command
	err  error
}

func (r *recordingExecutor) Execute(_ context.Context, cmd solver.Command) (*solver.Outcome, error) {
	r.cmds = append(r.cmds, cmd)
	if r.err != nil {
		return nil, r.err
	}
	return &solver.Outcome{}, nil
}

func newModel(t *testing.T) *structure.Structure {
	t.Helper()
	s := structure.New(t.TempDir(), "cantilever", structure.Options{Logger: testutil.NewTestLogger(t)})
	s.AddNodes([][3]float64{{0, 0, 0}, {1, 0, 0}})
	_, err := s.AddElement([]int{0, 1}, core.BeamElement)
	require.NoError(t, err)
	require.NoError(t, s.AddDisplacement(core.NewFixedDisplacement("fix", core.Keys(0))))
	require.NoError(t, s.AddLoad(core.NewPointLoad("tip", core.Keys(1), nil, nil, core.Value(-10), nil, nil, nil)))
	require.NoError(t, s.AddSteps(
		core.NewGeneralStep("b", nil, []string{"tip"}),
		core.NewGeneralStep("a", []string{"fix"}, nil),
	))
	s.SetStepsOrder([]string{"a", "b"})
	return s
}

func TestRegistered(t *testing.T) {
	assert.True(t, solver.IsRegistered(Name))
	s, err := solver.New(Name, nil)
	require.NoError(t, err)
	assert.Equal(t, Name, s.Name())
}

func TestTranslate_StepsInOrder(t *testing.T) {
	model := newModel(t)
	g := New(testutil.NewTestLogger(t))

	file, err := g.Translate(context.Background(), model, core.FieldsFromList([]string{"u", "rf"}))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(model.Path(), "cantilever.yaml"), file)

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	var deck Deck
	require.NoError(t, yaml.Unmarshal(data, &deck))

	assert.Equal(t, DeckVersion, deck.Version)
	require.Len(t, deck.Steps, 2)
	assert.Equal(t, "a", deck.Steps[0].Name)
	assert.Equal(t, "b", deck.Steps[1].Name)
	assert.Equal(t, []string{"rf", "u"}, deck.Fields)
	assert.Len(t, deck.Nodes, 2)
	assert.Contains(t, deck.Displacements, "fix")
}

func TestTranslate_UnknownStep(t *testing.T) {
	model := newModel(t)
	model.SetStepsOrder([]string{"a", "ghost"})

	_, err := New(nil).Translate(context.Background(), model, nil)
	assert.ErrorIs(t, err, core.ErrUnknownStep)
	assert.NoFileExists(t, InputFile(model))
}

func TestRun(t *testing.T) {
	model := newModel(t)
	g := New(nil)

	t.Run("needs input deck", func(t *testing.T) {
		exec := &recordingExecutor{}
		_, err := g.Run(context.Background(), model, exec, solver.Job{})
		assert.ErrorIs(t, err, os.ErrNotExist)
		assert.Empty(t, exec.cmds)
	})

	_, err := g.Translate(context.Background(), model, nil)
	require.NoError(t, err)

	tests := []struct {
		name  string
		job   solver.Job
		check func(t *testing.T, cmd solver.Command)
	}{
		{
			name: "default invocation",
			job:  solver.Job{CPUs: 4, License: core.LicenseResearch},
			check: func(t *testing.T, cmd solver.Command) {
				assert.Equal(t, DefaultExe, cmd.Name)
				assert.Equal(t, []string{InputFile(model), ResultsFile(model)}, cmd.Args)
				assert.Contains(t, cmd.Env, "OMP_NUM_THREADS=4")
				assert.Empty(t, cmd.Shell)
				assert.Empty(t, cmd.Scratch)
			},
		},
		{
			name: "configured exe and cleanup",
			job:  solver.Job{Exe: "/opt/fea/bin/solve", Cleanup: true},
			check: func(t *testing.T, cmd solver.Command) {
				assert.Equal(t, "/opt/fea/bin/solve", cmd.Name)
				assert.Contains(t, cmd.Env, "LEAPFEA_CPUS=1")
				assert.Contains(t, cmd.Scratch, "cantilever.log")
			},
		},
		{
			name: "override command",
			job:  solver.Job{Command: "make solve"},
			check: func(t *testing.T, cmd solver.Command) {
				assert.Equal(t, "make solve", cmd.Shell)
				assert.Equal(t, model.Path(), cmd.Dir)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &recordingExecutor{}
			_, err := g.Run(context.Background(), model, exec, tt.job)
			require.NoError(t, err)
			require.Len(t, exec.cmds, 1)
			tt.check(t, exec.cmds[0])
		})
	}

	t.Run("executor failure", func(t *testing.T) {
		boom := errors.New("exit status 3")
		_, err := g.Run(context.Background(), model, &recordingExecutor{err: boom}, solver.Job{})
		assert.ErrorIs(t, err, boom)
	})
}

const resultsCSV = `step,category,field,key,value
a,nodal,ux,0,0
a,nodal,ux,1,0.5
b,nodal,ux,0,0
b,nodal,ux,1,1.5
b,nodal,rfz,0,10
b,element,sf1,0,-3.25
`

func TestExtract(t *testing.T) {
	tests := []struct {
		name   string
		fields []string
		steps  []string
		check  func(t *testing.T, r core.Results)
	}{
		{
			name:   "last step by default",
			fields: []string{"u"},
			check: func(t *testing.T, r core.Results) {
				assert.Equal(t, []string{"b"}, r.Steps())
				assert.Equal(t, map[int]float64{0: 0, 1: 1.5}, r["b"].Nodal["ux"])
				assert.NotContains(t, r["b"].Nodal, "rfz")
			},
		},
		{
			name:   "all steps",
			fields: []string{"u"},
			steps:  []string{"all"},
			check: func(t *testing.T, r core.Results) {
				assert.Equal(t, []string{"a", "b"}, r.Steps())
			},
		},
		{
			name:   "element field",
			fields: []string{"sf"},
			steps:  []string{"b"},
			check: func(t *testing.T, r core.Results) {
				assert.Equal(t, -3.25, r["b"].Element["sf1"][0])
				assert.Empty(t, r["b"].Nodal)
			},
		},
		{
			name:  "no fields means everything",
			steps: []string{"b"},
			check: func(t *testing.T, r core.Results) {
				assert.Len(t, r["b"].Nodal, 2)
				assert.Len(t, r["b"].Element, 1)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := newModel(t)
			require.NoError(t, os.WriteFile(ResultsFile(model), []byte(resultsCSV), 0o644))

			err := New(nil).Extract(context.Background(), model, model.Results(),
				core.FieldsFromList(tt.fields), solver.ExtractOptions{Steps: tt.steps})
			require.NoError(t, err)
			tt.check(t, model.Results())
		})
	}
}

func TestExtract_Errors(t *testing.T) {
	model := newModel(t)
	g := New(nil)

	err := g.Extract(context.Background(), model, model.Results(), nil, solver.ExtractOptions{})
	assert.ErrorIs(t, err, os.ErrNotExist)

	err = g.Extract(context.Background(), model, model.Results(), nil, solver.ExtractOptions{Steps: []string{"zz"}})
	assert.ErrorIs(t, err, core.ErrUnknownStep)
}

func TestReadResults_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"empty", "", "read header"},
		{"bad header", "step,kind,field,key,value\n", "header column 2"},
		{"bad category", "step,category,field,key,value\na,global,ux,0,1\n", "unknown category"},
		{"bad key", "step,category,field,key,value\na,nodal,ux,x,1\n", "key"},
		{"bad value", "step,category,field,key,value\na,nodal,ux,0,NaNish\n", "value"},
		{"short row", "step,category,field,key,value\na,nodal,ux,0\n", "wrong number of fields"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadResults(context.Background(), strings.NewReader(tt.data), core.Results{}, Filter{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
