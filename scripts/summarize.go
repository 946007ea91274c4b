package scripts

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
)

// Summarize feeds text to the abstractive summarizer script and returns the
// generated summary. Callers must check SummarizerAvailable first.
func (r *ScriptRunner) Summarize(ctx context.Context, text string, minWords, maxWords int) (string, error) {
	const op = "ScriptRunner.Summarize"

	if !r.summarizerAvailable {
		return "", fmt.Errorf("%s: summarizer script not available", op)
	}

	script := filepath.Join(r.config.ScriptsPath, "summarize.py")
	output, err := r.run(ctx, r.config.PythonPath,
		script,
		"--min-length", strconv.Itoa(minWords),
		"--max-length", strconv.Itoa(maxWords),
		"--text", text,
	)
	if err != nil {
		return "", errors.Wrapf(err, "%s: summarization script failed", op)
	}

	var result SummaryResult
	if err := unmarshalResult(output, &result); err != nil {
		return "", errors.Wrapf(err, "%s: parse summarizer output", op)
	}
	if result.Error != "" {
		return "", fmt.Errorf("%s: %s", op, result.Error)
	}

	return result.Summary, nil
}
