// Package espeak is the gateway to the espeak-ng C library, which converts
// normalized text into IPA phoneme strings.
//
// espeak-ng keeps process-global state and is not safe for concurrent use, so
// the library handle never leaves this package: every entry point serializes
// on one package lock, and initialization runs exactly once with its outcome
// memoized for the process lifetime.
package espeak

import (
	"fmt"
	"sync"
)

// Voice selected at initialization. The acoustic model was trained on
// espeak-ng's en-us phoneme inventory; other voices produce symbols the
// tokenizer vocabulary does not cover.
const voiceName = "en-us"

const (
	// charsUTF8 is the textmode value for UTF-8 input.
	charsUTF8 = 1
	// phonemesIPA is the phonememode bit requesting IPA output.
	phonemesIPA = 0x02
)

// EngineError reports a failed espeak-ng call together with the status code
// the engine returned.
type EngineError struct {
	Op     string
	Status int32
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("espeak-ng: %s failed (status %#x)", e.Op, e.Status)
}

var (
	// mu serializes every call into the espeak-ng library, and is held for
	// the full clause loop of a single Phonemize call so concurrent requests
	// cannot interleave mid-translation.
	mu sync.Mutex

	initOnce sync.Once
	initErr  error

	// dataPath optionally points at the espeak-ng-data directory. Empty means
	// the library's compiled-in default.
	dataPath string

	// libraryPath optionally overrides shared-library discovery.
	libraryPath string
)

// SetDataPath records the espeak-ng-data directory to use. It must be called
// before the first Phonemize call; afterwards it is a no-op because the
// library has already initialized against whichever path was set first.
func SetDataPath(path string) {
	mu.Lock()
	defer mu.Unlock()
	dataPath = path
}

// SetLibraryPath overrides the shared-library search. Like SetDataPath it
// only has an effect before first use.
func SetLibraryPath(path string) {
	mu.Lock()
	defer mu.Unlock()
	libraryPath = path
}

// Available reports whether espeak-ng initializes successfully.
func Available() bool {
	mu.Lock()
	defer mu.Unlock()
	initOnce.Do(doInit)
	return initErr == nil
}

// Phonemize converts text to an IPA phoneme string using the en-us voice,
// producing the same output as `espeak-ng --ipa -q -v en-us`.
//
// The engine translates one clause per call; the clause outputs are trimmed
// and joined with single spaces. Empty input yields empty output.
func Phonemize(text string) (string, error) {
	mu.Lock()
	defer mu.Unlock()

	initOnce.Do(doInit)
	if initErr != nil {
		return "", initErr
	}

	if text == "" {
		return "", nil
	}

	return phonemizeLocked(text)
}
