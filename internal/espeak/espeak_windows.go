//go:build windows

package espeak

import "errors"

// Phonemization via libespeak-ng is unavailable in windows builds; use the
// IPA-driven generation path with pre-computed phonemes instead.

func doInit() {
	initErr = errors.New("espeak-ng phonemization is unavailable on windows")
}

func phonemizeLocked(string) (string, error) {
	return "", initErr
}
