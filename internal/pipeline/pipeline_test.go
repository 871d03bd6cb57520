package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/caselens/internal/model"
)

func TestPipeline_ExtractSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loan.txt")
	require.NoError(t, os.WriteFile(path, []byte(loanJudgment), 0o644))

	ai := &fakeAI{}
	p := NewPipeline(NewLoader(nil, nil, 0), newController(ai), nil)

	res, err := p.ExtractSource(context.Background(), path, model.ExtractionOptions{EnableAI: model.Bool(false)})
	require.NoError(t, err)

	assert.Equal(t, "loan", res.Document.Name)
	assert.Equal(t, "民间借贷纠纷", res.Response.Data.CaseType)
	assert.Equal(t, 0, ai.Calls())
}

func TestPipeline_ExtractSourceErrors(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(empty, []byte("  \n"), 0o644))

	p := NewPipeline(NewLoader(nil, nil, 0), newController(nil), nil)

	_, err := p.ExtractSource(context.Background(), filepath.Join(dir, "missing.txt"), model.ExtractionOptions{})
	assert.Error(t, err)

	_, err = p.ExtractSource(context.Background(), empty, model.ExtractionOptions{})
	assert.Error(t, err)
}
