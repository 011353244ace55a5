// Package testutil provides shared skip helpers for integration tests.
//
// Each helper calls t.Skip with a clear human-readable reason when the named
// prerequisite is absent, so integration tests remain runnable in partial
// environments without failing noisily.
//
// Typical usage:
//
//	func TestMyIntegration(t *testing.T) {
//	    testutil.RequireESpeak(t)
//	    testutil.RequireModelAssets(t)
//	    ...
//	}
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// RequireESpeak skips the test if no espeak-ng shared library can be
// located. It checks the KITTENTTS_ESPEAK_LIB env var first, then common
// system library paths for the current platform.
func RequireESpeak(tb testing.TB) {
	tb.Helper()

	if p := os.Getenv("KITTENTTS_ESPEAK_LIB"); p != "" {
		_, err := os.Stat(p)
		if err == nil {
			return
		}

		tb.Skipf("espeak-ng library not found at KITTENTTS_ESPEAK_LIB=%q", p)
	}

	var candidates []string
	if runtime.GOOS == "darwin" {
		candidates = []string{
			"/opt/homebrew/lib/libespeak-ng.dylib",
			"/usr/local/lib/libespeak-ng.dylib",
		}
	} else {
		candidates = []string{
			"/usr/lib/libespeak-ng.so.1",
			"/usr/lib/x86_64-linux-gnu/libespeak-ng.so.1",
			"/usr/lib/aarch64-linux-gnu/libespeak-ng.so.1",
			"/usr/local/lib/libespeak-ng.so.1",
		}
	}

	for _, p := range candidates {
		_, err := os.Stat(p)
		if err == nil {
			return
		}
	}

	tb.Skip("espeak-ng shared library not found; set KITTENTTS_ESPEAK_LIB")
}

// RequireONNXRuntime skips the test if no ONNX Runtime shared library can be
// located. It checks (in order): the ORT_LIBRARY_PATH env var, then the
// KITTENTTS_ORT_LIB env var, then common system library paths.
func RequireONNXRuntime(tb testing.TB) {
	tb.Helper()

	for _, env := range []string{"ORT_LIBRARY_PATH", "KITTENTTS_ORT_LIB"} {
		if p := os.Getenv(env); p != "" {
			_, err := os.Stat(p)
			if err == nil {
				return
			}

			tb.Skipf("ONNX Runtime library not found at %s=%q", env, p)
		}
	}
	// Fall back to common system locations.
	candidates := []string{
		"/usr/lib/libonnxruntime.so",
		"/usr/local/lib/libonnxruntime.so",
		"/usr/lib/x86_64-linux-gnu/libonnxruntime.so",
	}
	for _, p := range candidates {
		_, err := os.Stat(p)
		if err == nil {
			return
		}
	}

	tb.Skip("ONNX Runtime shared library not found; set ORT_LIBRARY_PATH or KITTENTTS_ORT_LIB")
}

// RequireModelAssets skips the test unless KITTENTTS_MODEL_DIR points to a
// downloaded model directory containing config.json. It returns the directory
// path for convenience.
func RequireModelAssets(tb testing.TB) string {
	tb.Helper()

	dir := os.Getenv("KITTENTTS_MODEL_DIR")
	if dir == "" {
		tb.Skip("model assets not available; set KITTENTTS_MODEL_DIR to a downloaded model directory")
	}

	_, err := os.Stat(filepath.Join(dir, "config.json"))
	if err != nil {
		tb.Skipf("model config not found in KITTENTTS_MODEL_DIR=%q: %v", dir, err)
	}

	return dir
}
