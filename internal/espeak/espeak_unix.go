//go:build !windows

package espeak

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"unsafe"

	"github.com/ebitengine/purego"
)

// Bound C functions. espeak_TextToPhonemes takes an in/out cursor that the
// engine advances past each translated clause, setting it to NULL once the
// whole input is consumed, and returns a borrowed buffer that is only valid
// until the next call.
var (
	espeakInitializePath func(path *byte)
	espeakInitialize     func(context unsafe.Pointer) int32
	espeakSetVoiceByName func(name string) int32
	espeakTextToPhonemes func(textptr *unsafe.Pointer, textmode int32, phonememode int32) *byte
)

// libraryCandidates returns the shared-library names to try, most specific
// first. An explicit SetLibraryPath or KITTENTTS_ESPEAK_LIB wins; otherwise
// the platform's default search path resolves the bare soname.
func libraryCandidates() []string {
	if libraryPath != "" {
		return []string{libraryPath}
	}
	if p := os.Getenv("KITTENTTS_ESPEAK_LIB"); p != "" {
		return []string{p}
	}
	if runtime.GOOS == "darwin" {
		return []string{
			"libespeak-ng.dylib",
			"/opt/homebrew/lib/libespeak-ng.dylib",
			"/usr/local/lib/libespeak-ng.dylib",
		}
	}
	return []string{
		"libespeak-ng.so.1",
		"libespeak-ng.so",
		"/usr/lib/x86_64-linux-gnu/libespeak-ng.so.1",
		"/usr/lib/libespeak-ng.so.1",
	}
}

func openLibrary() error {
	var errs []string
	for _, candidate := range libraryCandidates() {
		lib, err := purego.Dlopen(candidate, purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", candidate, err))
			continue
		}

		purego.RegisterLibFunc(&espeakInitializePath, lib, "espeak_ng_InitializePath")
		purego.RegisterLibFunc(&espeakInitialize, lib, "espeak_ng_Initialize")
		purego.RegisterLibFunc(&espeakSetVoiceByName, lib, "espeak_ng_SetVoiceByName")
		purego.RegisterLibFunc(&espeakTextToPhonemes, lib, "espeak_TextToPhonemes")

		return nil
	}
	return fmt.Errorf("espeak-ng library not found (set KITTENTTS_ESPEAK_LIB): %s", strings.Join(errs, "; "))
}

// doInit runs under mu, exactly once per process.
func doInit() {
	if err := openLibrary(); err != nil {
		initErr = err
		return
	}

	var pathPtr *byte
	if dataPath != "" {
		buf := append([]byte(dataPath), 0)
		pathPtr = &buf[0]
	}
	espeakInitializePath(pathPtr)

	if status := espeakInitialize(nil); status != 0 {
		initErr = &EngineError{Op: "initialize", Status: status}
		return
	}
	if status := espeakSetVoiceByName(voiceName); status != 0 {
		initErr = &EngineError{Op: "set voice " + voiceName, Status: status}
		return
	}
}

// goString copies a NUL-terminated C string into Go memory.
func goString(p *byte) string {
	if p == nil {
		return ""
	}
	n := 0
	for *(*byte)(unsafe.Add(unsafe.Pointer(p), n)) != 0 {
		n++
	}
	return string(unsafe.Slice(p, n))
}

func phonemizeLocked(text string) (string, error) {
	// The engine reads the input buffer incrementally across calls, so the
	// buffer must stay fixed until the cursor reaches NULL.
	buf := append([]byte(text), 0)
	cursor := unsafe.Pointer(&buf[0])

	var parts []string
	for cursor != nil {
		out := espeakTextToPhonemes(&cursor, charsUTF8, phonemesIPA)
		if out == nil {
			// Empty clause (e.g. leading whitespace); keep consuming.
			continue
		}
		// Copy before the next call reuses the engine's buffer.
		if chunk := strings.TrimSpace(goString(out)); chunk != "" {
			parts = append(parts, chunk)
		}
	}
	runtime.KeepAlive(buf)

	return strings.Join(parts, " "), nil
}
