// Package actionoutput writes step outputs, job summaries and workflow
// annotations for GitHub Actions.
package actionoutput

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Adapter implements ports.OutputPort. Outputs are appended to the file
// named by GITHUB_OUTPUT, summaries to GITHUB_STEP_SUMMARY. Empty paths
// turn the respective writes into no-ops so the tool runs outside Actions.
type Adapter struct {
	outputPath  string
	summaryPath string
	console     io.Writer
}

// New creates an output adapter writing annotations to console.
func New(outputPath, summaryPath string, console io.Writer) *Adapter {
	return &Adapter{
		outputPath:  outputPath,
		summaryPath: summaryPath,
		console:     console,
	}
}

// FromEnv creates an adapter from the standard Actions environment.
func FromEnv() *Adapter {
	return New(os.Getenv("GITHUB_OUTPUT"), os.Getenv("GITHUB_STEP_SUMMARY"), os.Stdout)
}

// SetOutput appends key=value, using the heredoc form for multiline values.
func (a *Adapter) SetOutput(key, value string) error {
	if a.outputPath == "" {
		fmt.Fprintf(a.console, "output %s=%q\n", key, value)
		return nil
	}
	return appendFile(a.outputPath, formatOutput(key, value))
}

// AppendSummary appends markdown to the job summary.
func (a *Adapter) AppendSummary(markdown string) error {
	if a.summaryPath == "" {
		return nil
	}
	return appendFile(a.summaryPath, markdown)
}

// Fail emits an error annotation. The caller still owns the exit code.
func (a *Adapter) Fail(message string) {
	fmt.Fprintf(a.console, "::error::%s\n", escapeData(message))
}

// Warning emits a warning annotation.
func (a *Adapter) Warning(message string) {
	fmt.Fprintf(a.console, "::warning::%s\n", escapeData(message))
}

func formatOutput(key, value string) string {
	if !strings.Contains(value, "\n") {
		return key + "=" + value + "\n"
	}
	delimiter := "EOF"
	for strings.Contains(value, delimiter) {
		delimiter += "_"
	}
	return key + "<<" + delimiter + "\n" + value + "\n" + delimiter + "\n"
}

// escapeData applies the workflow command escaping for message data.
func escapeData(s string) string {
	r := strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A")
	return r.Replace(s)
}

func appendFile(path, content string) error {
	//nolint:gosec // G302,G304: path is provided by the Actions runner
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	if _, err := f.WriteString(content); err != nil {
		//nolint:errcheck // Best effort close on error path
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
