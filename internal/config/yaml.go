package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/caselens/internal/model"
)

// ErrExists is returned by WriteDefault when the target file is present.
var ErrExists = errors.New("config file already exists")

const fileHeader = `# caselens configuration
#
# Priority (highest first):
#   1. CLI flags
#   2. Environment variables (CASELENS_<SECTION>_<FIELD>, e.g. CASELENS_LLM_PROVIDER)
#   3. This file
#   4. Built-in defaults

`

const fileFooter = `
# API keys are best kept in the environment:
#   export OPENAI_API_KEY=sk-...
#   export ANTHROPIC_API_KEY=sk-ant-...
#   export OLLAMA_BASE_URL=http://localhost:11434
`

// Marshal renders cfg as YAML with the API key redacted.
func Marshal(cfg *model.Config) ([]byte, error) {
	out := *cfg
	if out.LLM.APIKey != "" {
		out.LLM.APIKey = "<redacted>"
	}
	data, err := yaml.Marshal(&out)
	if err != nil {
		return nil, fmt.Errorf("config: marshal: %w", err)
	}
	return data, nil
}

// WriteDefault writes the documented default configuration to path,
// creating parent directories. It refuses to overwrite.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", ErrExists, path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config: stat %q: %w", path, err)
	}

	body, err := Marshal(model.DefaultConfig())
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	buf.WriteString(fileHeader)
	buf.Write(body)
	buf.WriteString(fileFooter)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("config: write %q: %w", path, err)
	}
	return nil
}
