package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/example/go-kitten-tts/internal/audio"
	"github.com/example/go-kitten-tts/internal/config"
	"github.com/example/go-kitten-tts/internal/espeak"
	"github.com/example/go-kitten-tts/internal/tts"
)

// ParseLogLevel converts a case-insensitive level string to slog.Level.
// An empty string returns slog.LevelInfo. Unknown strings return an error.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (want debug|info|warn|error)", s)
	}
}

// Synthesizer produces audio samples from text. GenerateStream delivers each
// chunk's samples through emit as soon as inference finishes; Generate returns
// the full waveform at once.
type Synthesizer interface {
	Generate(ctx context.Context, text, voice string, speed float32, cleanText bool) ([]float32, error)
	GenerateStream(ctx context.Context, text, voice string, speed float32, cleanText bool, emit func(samples []float32) error) error
	AvailableVoices() []string
}

// Phonemizer converts text to an IPA phoneme string.
type Phonemizer func(text string) (string, error)

// ---------------------------------------------------------------------------
// Functional options
// ---------------------------------------------------------------------------

type options struct {
	maxTextBytes   int
	workers        int
	requestTimeout time.Duration
	defaultVoice   string
	defaultSpeed   float32
	cleanText      bool
	phonemizer     Phonemizer
	logger         *slog.Logger
}

func defaultOptions() options {
	return options{
		maxTextBytes:   4096,
		workers:        2,
		requestTimeout: 60 * time.Second,
		defaultVoice:   "expr-voice-2-m",
		defaultSpeed:   1.0,
		cleanText:      true,
		phonemizer:     espeak.Phonemize,
		logger:         slog.Default(),
	}
}

// Option configures the HTTP handler.
type Option func(*options)

// WithMaxTextBytes sets the maximum allowed text length in bytes for POST /tts.
func WithMaxTextBytes(n int) Option {
	return func(o *options) { o.maxTextBytes = n }
}

// WithWorkers sets the maximum number of concurrent synthesis calls.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithRequestTimeout sets the per-request synthesis deadline.
func WithRequestTimeout(d time.Duration) Option {
	return func(o *options) { o.requestTimeout = d }
}

// WithDefaultVoice sets the voice used when a request omits one.
func WithDefaultVoice(voice string) Option {
	return func(o *options) { o.defaultVoice = voice }
}

// WithDefaultSpeed sets the speed used when a request omits one.
func WithDefaultSpeed(speed float32) Option {
	return func(o *options) { o.defaultSpeed = speed }
}

// WithCleanText controls whether the text normalizer runs before synthesis.
func WithCleanText(clean bool) Option {
	return func(o *options) { o.cleanText = clean }
}

// WithPhonemizer overrides the phonemizer used by POST /phonemize.
func WithPhonemizer(p Phonemizer) Option {
	return func(o *options) { o.phonemizer = p }
}

// WithLogger sets the slog.Logger used for request logging.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// ---------------------------------------------------------------------------
// handler
// ---------------------------------------------------------------------------

// handler holds the dependencies needed to serve HTTP requests.
type handler struct {
	synth Synthesizer
	opts  options
	sem   chan struct{} // semaphore for worker pool
	log   *slog.Logger
}

// NewHandler returns an http.Handler serving /healthz, /voices, POST /tts,
// and POST /phonemize.
func NewHandler(synth Synthesizer, optFns ...Option) http.Handler {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	h := &handler{
		synth: synth,
		opts:  opts,
		log:   opts.logger,
	}
	if opts.workers > 0 {
		h.sem = make(chan struct{}, opts.workers)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", h.handleHealth)
	mux.HandleFunc("/voices", h.handleVoices)
	mux.HandleFunc("/tts", h.handleTTS)
	mux.HandleFunc("/phonemize", h.handlePhonemize)
	return mux
}

func buildVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildVersion(),
	})
}

func (h *handler) handleVoices(w http.ResponseWriter, _ *http.Request) {
	voices := h.synth.AvailableVoices()
	if voices == nil {
		voices = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"voices": voices})
}

type ttsRequest struct {
	Text   string   `json:"text"`
	Voice  string   `json:"voice"`
	Speed  *float32 `json:"speed"`
	Stream bool     `json:"stream"`
}

func (h *handler) handleTTS(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if r.Body == nil {
		writeError(w, http.StatusBadRequest, "request body is required")
		return
	}

	var req ttsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text field is required")
		return
	}

	if len(req.Text) > h.opts.maxTextBytes {
		writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("text exceeds maximum size of %d bytes", h.opts.maxTextBytes))
		return
	}

	voice := req.Voice
	if voice == "" {
		voice = h.opts.defaultVoice
	}

	speed := h.opts.defaultSpeed
	if req.Speed != nil {
		speed = *req.Speed
	}
	if speed <= 0 {
		writeError(w, http.StatusBadRequest, "speed must be positive")
		return
	}

	// Acquire a worker slot, honouring context cancellation while waiting.
	if h.sem != nil {
		select {
		case h.sem <- struct{}{}:
			// slot acquired
		case <-r.Context().Done():
			writeError(w, http.StatusServiceUnavailable, "request cancelled while waiting for worker")
			return
		}
		defer func() { <-h.sem }()
	}

	// Apply per-request timeout.
	ctx, cancel := context.WithTimeout(r.Context(), h.opts.requestTimeout)
	defer cancel()

	if req.Stream {
		h.handleTTSStream(ctx, w, r, req, voice, speed)
		return
	}

	start := time.Now()
	samples, err := h.synth.Generate(ctx, req.Text, voice, speed, h.opts.cleanText)
	durationMS := time.Since(start).Milliseconds()

	if err != nil {
		if errors.Is(err, tts.ErrUnknownVoice) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			h.log.WarnContext(r.Context(), "synthesis timed out",
				slog.String("voice", voice),
				slog.Int("text_len", len(req.Text)),
				slog.Int64("duration_ms", durationMS),
				slog.String("error", err.Error()),
			)
			writeError(w, http.StatusGatewayTimeout, "synthesis timed out")
			return
		}
		h.log.ErrorContext(r.Context(), "synthesis failed",
			slog.String("voice", voice),
			slog.Int("text_len", len(req.Text)),
			slog.Int64("duration_ms", durationMS),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	wav, err := audio.EncodeWAV(samples)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "encode WAV: "+err.Error())
		return
	}

	h.log.InfoContext(r.Context(), "synthesis complete",
		slog.String("voice", voice),
		slog.Int("text_len", len(req.Text)),
		slog.Int64("duration_ms", durationMS),
		slog.Int("wav_bytes", len(wav)),
	)

	w.Header().Set("Content-Type", "audio/wav")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(wav)
}

// handleTTSStream writes a WAV response incrementally: a streaming header
// (unknown-length markers) followed by each chunk's PCM16 samples as soon as
// inference produces them. The header is written lazily on the first chunk so
// pre-synthesis failures still map to proper JSON error statuses; once audio
// bytes are on the wire, a failure can only be logged and the stream cut.
func (h *handler) handleTTSStream(ctx context.Context, w http.ResponseWriter, r *http.Request, req ttsRequest, voice string, speed float32) {
	flusher, _ := w.(http.Flusher)

	start := time.Now()
	headerWritten := false
	streamedBytes := 0

	err := h.synth.GenerateStream(ctx, req.Text, voice, speed, h.opts.cleanText, func(samples []float32) error {
		if !headerWritten {
			w.Header().Set("Content-Type", "audio/wav")
			w.WriteHeader(http.StatusOK)
			n, err := audio.WriteWAVHeaderStreaming(w)
			if err != nil {
				return err
			}
			streamedBytes += n
			headerWritten = true
		}

		n, err := audio.WritePCM16Samples(w, samples)
		streamedBytes += n
		if err != nil {
			return err
		}
		if flusher != nil {
			flusher.Flush()
		}
		return nil
	})
	durationMS := time.Since(start).Milliseconds()

	if err != nil {
		if headerWritten {
			// Audio bytes already sent; the client sees a truncated stream.
			h.log.ErrorContext(r.Context(), "streaming synthesis aborted",
				slog.String("voice", voice),
				slog.Int("text_len", len(req.Text)),
				slog.Int64("duration_ms", durationMS),
				slog.Int("streamed_bytes", streamedBytes),
				slog.String("error", err.Error()),
			)
			return
		}
		if errors.Is(err, tts.ErrUnknownVoice) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			writeError(w, http.StatusGatewayTimeout, "synthesis timed out")
			return
		}
		h.log.ErrorContext(r.Context(), "synthesis failed",
			slog.String("voice", voice),
			slog.Int("text_len", len(req.Text)),
			slog.Int64("duration_ms", durationMS),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if !headerWritten {
		// Every chunk trimmed to silence; send a valid empty WAV stream.
		w.Header().Set("Content-Type", "audio/wav")
		w.WriteHeader(http.StatusOK)
		if n, err := audio.WriteWAVHeaderStreaming(w); err == nil {
			streamedBytes += n
		}
	}

	h.log.InfoContext(r.Context(), "streaming synthesis complete",
		slog.String("voice", voice),
		slog.Int("text_len", len(req.Text)),
		slog.Int64("duration_ms", durationMS),
		slog.Int("streamed_bytes", streamedBytes),
	)
}

type phonemizeRequest struct {
	Text string `json:"text"`
}

func (h *handler) handlePhonemize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req phonemizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text field is required")
		return
	}

	if len(req.Text) > h.opts.maxTextBytes {
		writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("text exceeds maximum size of %d bytes", h.opts.maxTextBytes))
		return
	}

	ipa, err := h.opts.phonemizer(req.Text)
	if err != nil {
		h.log.ErrorContext(r.Context(), "phonemization failed",
			slog.Int("text_len", len(req.Text)),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"ipa": ipa})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// ---------------------------------------------------------------------------
// Server — wires handler into net/http.Server with graceful shutdown
// ---------------------------------------------------------------------------

// Server wires the HTTP handler into a net/http.Server with graceful shutdown.
type Server struct {
	cfg             config.Config
	model           *tts.Model
	shutdownTimeout time.Duration
}

func New(cfg config.Config, model *tts.Model) *Server {
	timeout := time.Duration(cfg.Server.ShutdownTimeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Server{
		cfg:             cfg,
		model:           model,
		shutdownTimeout: timeout,
	}
}

// WithShutdownTimeout overrides the graceful-shutdown drain period.
func (s *Server) WithShutdownTimeout(d time.Duration) *Server {
	s.shutdownTimeout = d
	return s
}

func (s *Server) Start(ctx context.Context) error {
	h := NewHandler(s.model,
		WithWorkers(s.cfg.Server.Workers),
		WithDefaultVoice(s.cfg.TTS.Voice),
		WithDefaultSpeed(float32(s.cfg.TTS.Speed)),
		WithCleanText(s.cfg.TTS.CleanText),
	)

	httpServer := &http.Server{
		Addr:              s.cfg.Server.ListenAddr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return fmt.Errorf("http listen: %w", err)
	}
}

func ProbeHTTP(addr string) error {
	resp, err := http.Get("http://" + addr + "/healthz") //nolint:noctx
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected health status: %s", resp.Status)
	}
	return nil
}
