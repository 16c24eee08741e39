package oas

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	apperrors "oascore.io/oascore/internal/pkg/errors"
	"oascore.io/oascore/internal/pkg/logger"
)

// DefaultMaxBytes caps the size of a loaded document.
const DefaultMaxBytes = 10 << 20 // 10 MiB

// Loader reads an OpenAPI document from a file path, an http(s) URL, or raw
// bytes and decodes it into the evaluation model. JSON input parses fine
// through the YAML decoder.
//
// The loader additionally runs the document through kin-openapi as a
// meta-schema validation pass. In strict mode a validation failure aborts the
// load; otherwise it is logged and scoring proceeds, because the rule engine
// is expected to grade imperfect documents (dangling references included)
// rather than refuse them.
type Loader struct {
	// MaxBytes caps document size; 0 means DefaultMaxBytes.
	MaxBytes int64

	// Strict makes meta-schema validation failures fatal.
	Strict bool

	// Client is the HTTP client for URL sources.
	Client *http.Client
}

// NewLoader returns a loader with default limits.
func NewLoader() *Loader {
	return &Loader{
		MaxBytes: DefaultMaxBytes,
		Client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Load reads the document from a file path or an http(s) URL.
func (l *Loader) Load(ctx context.Context, source string) (*Document, error) {
	data, err := l.read(ctx, source)
	if err != nil {
		return nil, err
	}
	return l.LoadBytes(ctx, data)
}

// LoadBytes decodes and validates an in-memory document.
func (l *Loader) LoadBytes(ctx context.Context, data []byte) (*Document, error) {
	if int64(len(data)) > l.maxBytes() {
		return nil, apperrors.TooLarge(apperrors.CodeSpecTooLarge,
			fmt.Sprintf("document exceeds the %d byte limit", l.maxBytes()))
	}
	if len(data) == 0 {
		return nil, apperrors.BadRequest(apperrors.CodeSpecBodyMissing, "document body is empty")
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeSpecInvalid,
			"document is not parseable YAML or JSON", http.StatusUnprocessableEntity)
	}
	if !strings.HasPrefix(doc.OpenAPI, "3.") {
		return nil, apperrors.Unprocessable(apperrors.CodeSpecUnsupported,
			fmt.Sprintf("unsupported openapi version %q, want 3.x", doc.OpenAPI))
	}

	if err := l.metaValidate(ctx, data); err != nil {
		return nil, err
	}
	l.preflightRefs(data, &doc)

	return &doc, nil
}

func (l *Loader) maxBytes() int64 {
	if l.MaxBytes > 0 {
		return l.MaxBytes
	}
	return DefaultMaxBytes
}

func (l *Loader) read(ctx context.Context, source string) ([]byte, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return l.fetch(ctx, source)
	}

	info, err := os.Stat(source)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeSpecLoadFailed,
			fmt.Sprintf("cannot read %s", source), http.StatusNotFound)
	}
	if info.Size() > l.maxBytes() {
		return nil, apperrors.TooLarge(apperrors.CodeSpecTooLarge,
			fmt.Sprintf("%s exceeds the %d byte limit", source, l.maxBytes()))
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeSpecLoadFailed,
			fmt.Sprintf("cannot read %s", source), http.StatusInternalServerError)
	}
	return data, nil
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	client := l.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeSpecSourceInvalid,
			fmt.Sprintf("invalid source URL %s", url), http.StatusBadRequest)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeSpecURLUnreached,
			fmt.Sprintf("cannot fetch %s", url), http.StatusBadGateway)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.BadGateway(apperrors.CodeSpecURLUnreached,
			fmt.Sprintf("fetch %s: unexpected status %d", url, resp.StatusCode))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, l.maxBytes()+1))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeSpecURLUnreached,
			fmt.Sprintf("read body of %s", url), http.StatusBadGateway)
	}
	if int64(len(data)) > l.maxBytes() {
		return nil, apperrors.TooLarge(apperrors.CodeSpecTooLarge,
			fmt.Sprintf("%s exceeds the %d byte limit", url, l.maxBytes()))
	}
	return data, nil
}

// metaValidate runs the kin-openapi structural validation pass.
func (l *Loader) metaValidate(ctx context.Context, data []byte) error {
	kl := openapi3.NewLoader()
	kl.IsExternalRefsAllowed = false

	t, err := kl.LoadFromData(data)
	if err == nil {
		err = t.Validate(ctx)
	}
	if err == nil {
		return nil
	}
	if l.Strict {
		return apperrors.Wrap(err, apperrors.CodeSpecInvalid,
			"document fails OpenAPI 3 validation", http.StatusUnprocessableEntity)
	}
	logger.Warn("document fails OpenAPI 3 validation, scoring anyway", zap.Error(err))
	return nil
}

// preflightRefs resolves every local reference against the raw document tree
// and reports dangling ones at debug level. The rules re-detect and score
// these; the log line exists for operators diagnosing a low schema score.
func (l *Loader) preflightRefs(data []byte, doc *Document) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return
	}
	dangling := 0
	for _, ref := range CollectRefs(doc) {
		if !strings.HasPrefix(ref, "#/") {
			continue
		}
		if _, ok := ResolvePointer(raw, ref); !ok {
			dangling++
		}
	}
	if dangling > 0 {
		logger.Debug("document carries unresolvable local references",
			zap.Int("count", dangling))
	}
}
