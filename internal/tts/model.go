package tts

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/example/go-kitten-tts/internal/espeak"
	"github.com/example/go-kitten-tts/internal/onnx"
	"github.com/example/go-kitten-tts/internal/text"
	"github.com/example/go-kitten-tts/internal/tokenizer"
)

// SampleRate is the audio sample rate produced by the model, in Hz.
const SampleRate = 24000

// tailTrim is the number of samples removed from the end of every generated
// waveform. The model emits a fixed stretch of trailing silence.
const tailTrim = 5000

// ErrUnknownVoice reports a voice name that resolves to no embedding in the
// loaded voices file.
var ErrUnknownVoice = errors.New("unknown voice")

// Model is the synthesis handle: one ONNX session plus the voice embeddings
// and per-voice tuning that a model repository ships alongside it.
// All methods are safe for concurrent use.
type Model struct {
	mu     sync.Mutex
	engine Engine

	voices      map[string]*Voice
	available   []string
	speedPriors map[string]float32
	aliases     map[string]string

	normalizer *text.Normalizer
	phonemize  func(string) (string, error)
}

// NewModel assembles a model from an engine and already-loaded voice data.
// priors and aliases may be nil.
func NewModel(engine Engine, voices map[string]*Voice, available []string, priors map[string]float32, aliases map[string]string) *Model {
	return &Model{
		engine:      engine,
		voices:      voices,
		available:   append([]string(nil), available...),
		speedPriors: priors,
		aliases:     aliases,
		normalizer:  text.NewNormalizer(),
		phonemize:   espeak.Phonemize,
	}
}

// Load opens the ONNX model and voices NPZ at the given paths.
func Load(modelPath, voicesPath string, priors map[string]float32, aliases map[string]string, sess onnx.SessionConfig) (*Model, error) {
	session, err := onnx.NewSession(modelPath, sess)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", modelPath, err)
	}

	voices, names, err := LoadVoices(voicesPath)
	if err != nil {
		session.Close()
		return nil, err
	}

	return NewModel(session, voices, names, priors, aliases), nil
}

// Close releases the underlying engine.
func (m *Model) Close() {
	m.engine.Close()
}

// AvailableVoices returns the voice keys present in the voices file, sorted.
// Aliases are not included.
func (m *Model) AvailableVoices() []string {
	return append([]string(nil), m.available...)
}

// resolveVoice maps a friendly alias to its embedding key. Unaliased names
// pass through unchanged.
func (m *Model) resolveVoice(voice string) string {
	if key, ok := m.aliases[voice]; ok {
		return key
	}

	return voice
}

// effectiveSpeed folds the per-voice speed prior into the requested speed.
func (m *Model) effectiveSpeed(voiceKey string, speed float32) float32 {
	prior, ok := m.speedPriors[voiceKey]
	if !ok {
		prior = 1.0
	}

	return speed * prior
}

// inferIPA runs one inference step: IPA string to trimmed audio samples.
// styleIdx selects the embedding row and is clamped to the matrix bounds.
func (m *Model) inferIPA(ctx context.Context, ipa string, styleIdx int, voiceKey string, effectiveSpeed float32) ([]float32, error) {
	voice, ok := m.voices[voiceKey]
	if !ok {
		return nil, fmt.Errorf("%w %q, available: %v", ErrUnknownVoice, voiceKey, m.available)
	}

	ids := tokenizer.IPAToIDs(ipa)
	style := voice.StyleRow(styleIdx)

	m.mu.Lock()
	samples, err := m.engine.Infer(ctx, ids, style, effectiveSpeed)
	m.mu.Unlock()

	if err != nil {
		return nil, fmt.Errorf("inference: %w", err)
	}

	if len(samples) <= tailTrim {
		return nil, nil
	}

	return samples[:len(samples)-tailTrim], nil
}

// GenerateChunk phonemizes one already-chunked piece of text and runs
// inference on it.
func (m *Model) GenerateChunk(ctx context.Context, chunk, voice string, speed float32) ([]float32, error) {
	voiceKey := m.resolveVoice(voice)

	ipa, err := m.phonemize(chunk)
	if err != nil {
		return nil, fmt.Errorf("phonemize %q: %w", chunk, err)
	}

	return m.inferIPA(ctx, ipa, len(chunk), voiceKey, m.effectiveSpeed(voiceKey, speed))
}

// GenerateStream synthesizes audio for text chunk by chunk, calling emit with
// each chunk's samples as soon as its inference finishes. Chunks that trim to
// silence are skipped. An error from emit aborts the remaining chunks.
func (m *Model) GenerateStream(ctx context.Context, input, voice string, speed float32, cleanText bool, emit func(samples []float32) error) error {
	voiceKey := m.resolveVoice(voice)
	if _, ok := m.voices[voiceKey]; !ok {
		return fmt.Errorf("%w %q, available: %v", ErrUnknownVoice, voice, m.available)
	}

	processed := input
	if cleanText {
		processed = m.normalizer.Normalize(input)
	}

	for _, chunk := range text.ChunkText(processed, text.ChunkMaxChars) {
		samples, err := m.GenerateChunk(ctx, chunk, voice, speed)
		if err != nil {
			return err
		}
		if len(samples) == 0 {
			continue
		}

		if err := emit(samples); err != nil {
			return err
		}
	}

	return nil
}

// Generate synthesizes audio for text, splitting it into sentence-level
// chunks. When cleanText is set the text normalizer runs first. The returned
// samples are mono float32 at SampleRate Hz.
func (m *Model) Generate(ctx context.Context, input, voice string, speed float32, cleanText bool) ([]float32, error) {
	var audio []float32
	err := m.GenerateStream(ctx, input, voice, speed, cleanText, func(samples []float32) error {
		audio = append(audio, samples...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return audio, nil
}

// GenerateFromIPA runs inference directly from a pre-computed IPA phoneme
// string, skipping normalization and phonemization. styleIdx selects the
// style-embedding row; pass the character length of the original text when
// available, or len(ipa) otherwise.
func (m *Model) GenerateFromIPA(ctx context.Context, ipa, voice string, speed float32, styleIdx int) ([]float32, error) {
	voiceKey := m.resolveVoice(voice)
	return m.inferIPA(ctx, ipa, styleIdx, voiceKey, m.effectiveSpeed(voiceKey, speed))
}

// GenerateFromIPAChunks runs inference on multiple pre-phonemized IPA chunks
// and concatenates the audio.
func (m *Model) GenerateFromIPAChunks(ctx context.Context, chunks []string, voice string, speed float32) ([]float32, error) {
	voiceKey := m.resolveVoice(voice)
	if _, ok := m.voices[voiceKey]; !ok {
		return nil, fmt.Errorf("%w %q, available: %v", ErrUnknownVoice, voice, m.available)
	}

	var audio []float32
	for _, ipa := range chunks {
		samples, err := m.inferIPA(ctx, ipa, len(ipa), voiceKey, m.effectiveSpeed(voiceKey, speed))
		if err != nil {
			return nil, err
		}

		audio = append(audio, samples...)
	}

	return audio, nil
}
