package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

var errEmptyCommand = errors.New("predictor script command is empty")

// ScriptPredictor runs a local model script. The JSON payload is appended as
// the last argument and the result is read from stdout.
type ScriptPredictor struct {
	command []string
}

func NewScriptPredictor(command []string) (*ScriptPredictor, error) {
	if len(command) == 0 || strings.TrimSpace(command[0]) == "" {
		return nil, errEmptyCommand
	}
	return &ScriptPredictor{command: command}, nil
}

// ParseScriptCommand splits a configured command line on whitespace.
func ParseScriptCommand(commandLine string) []string {
	return strings.Fields(commandLine)
}

func (predictor *ScriptPredictor) Predict(ctx context.Context, payload Payload) (Result, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Result{}, fmt.Errorf("encode payload: %w", err)
	}

	args := append(append([]string{}, predictor.command[1:]...), string(body))
	cmd := exec.CommandContext(ctx, predictor.command[0], args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return Result{}, fmt.Errorf("run predictor script: %w (stderr: %s)", err, truncate(stderr.Bytes(), 200))
	}

	return decodeResult(lastNonEmptyLine(stdout.Bytes()))
}

func lastNonEmptyLine(output []byte) []byte {
	lines := bytes.Split(bytes.TrimSpace(output), []byte("\n"))
	for index := len(lines) - 1; index >= 0; index-- {
		if line := bytes.TrimSpace(lines[index]); len(line) > 0 {
			return line
		}
	}
	return nil
}
