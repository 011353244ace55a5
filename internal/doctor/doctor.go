// Package doctor provides environment preflight checks for kittentts.
package doctor

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// PassMark and FailMark are the prefix symbols printed for each check result.
const (
	PassMark = "✓"
	FailMark = "✗"
)

// ProbeFunc reports a component description or an error if it is unavailable.
type ProbeFunc func() (string, error)

// Config holds injectable dependencies for each doctor check.
type Config struct {
	// ESpeak probes the espeak-ng shared library.
	ESpeak ProbeFunc
	// ONNXRuntime probes the ONNX Runtime shared library.
	ONNXRuntime ProbeFunc
	// ModelDir is the local model asset directory to verify; empty skips the check.
	ModelDir string
	// AssetFiles lists additional files that must exist on disk.
	AssetFiles []string
}

// Result collects the outcome of all checks.
type Result struct {
	failures []string
}

// Failed returns true if any check failed.
func (r *Result) Failed() bool { return len(r.failures) > 0 }

// Failures returns the list of failure messages.
func (r *Result) Failures() []string { return append([]string(nil), r.failures...) }

// AddFailure appends an external failure message to the result.
func (r *Result) AddFailure(msg string) { r.failures = append(r.failures, msg) }

func (r *Result) fail(msg string) { r.failures = append(r.failures, msg) }

// Run executes all configured checks and writes human-readable output to w.
// Each check line is prefixed with PassMark or FailMark.
func Run(cfg Config, w io.Writer) Result {
	var res Result

	runProbe(&res, w, "espeak-ng library", cfg.ESpeak)
	runProbe(&res, w, "onnxruntime library", cfg.ONNXRuntime)

	if cfg.ModelDir != "" {
		cfgPath := filepath.Join(cfg.ModelDir, "config.json")
		if _, err := os.Stat(cfgPath); err != nil {
			res.fail(fmt.Sprintf("model directory %q: missing config.json", cfg.ModelDir))
			fmt.Fprintf(w, "%s model directory %s: missing config.json\n", FailMark, cfg.ModelDir)
		} else {
			fmt.Fprintf(w, "%s model directory: %s\n", PassMark, cfg.ModelDir)
		}
	}

	for _, path := range cfg.AssetFiles {
		if _, err := os.Stat(path); err != nil {
			res.fail(fmt.Sprintf("asset file %q: %v", path, err))
			fmt.Fprintf(w, "%s asset file %s: not found\n", FailMark, path)
		} else {
			fmt.Fprintf(w, "%s asset file: %s\n", PassMark, path)
		}
	}

	return res
}

func runProbe(res *Result, w io.Writer, name string, probe ProbeFunc) {
	if probe == nil {
		fmt.Fprintf(w, "%s %s: skipped\n", PassMark, name)
		return
	}
	desc, err := probe()
	if err != nil {
		res.fail(fmt.Sprintf("%s: %v", name, err))
		fmt.Fprintf(w, "%s %s: not found (%v)\n", FailMark, name, err)
		return
	}
	fmt.Fprintf(w, "%s %s: %s\n", PassMark, name, desc)
}
