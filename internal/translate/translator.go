package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/2beens/newsroom/internal/telemetry/tracing"
)

const DefaultBaseURL = "https://translate.googleapis.com/translate_a/single"

// Translator translates texts through the public gtx endpoint. It never fails:
// when anything goes wrong the input text is returned as is.
type Translator struct {
	baseURL    string
	httpClient *http.Client
	cache      *Cache
}

func NewTranslator(baseURL string, httpClient *http.Client, cache *Cache) *Translator {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Translator{
		baseURL:    baseURL,
		httpClient: httpClient,
		cache:      cache,
	}
}

func (t *Translator) Translate(ctx context.Context, text string, source, target Language) string {
	if strings.TrimSpace(text) == "" || source == target {
		return text
	}

	ctx, span := tracing.GlobalTracer.Start(ctx, "translate.translate")
	defer span.End()
	span.SetAttributes(
		attribute.String("source", string(source)),
		attribute.String("target", string(target)),
		attribute.Int("text.length", len(text)),
	)

	key := cacheKey(source, target, text)
	if t.cache != nil {
		if cached, ok := t.cache.Get(ctx, key); ok {
			span.SetStatus(codes.Ok, "cached")
			return cached
		}
	}

	protected, placeholders := protectTags(text)
	translated, err := t.fetch(ctx, protected, source, target)
	if err != nil {
		log.Warnf("translate %s -> %s failed, returning original text: %s", source, target, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return text
	}
	translated = restoreTags(translated, placeholders)

	if t.cache != nil {
		t.cache.Set(ctx, key, translated)
	}
	span.SetStatus(codes.Ok, "translated")
	return translated
}

// Localize returns the field in lang, translating the first available fallback when it is missing.
func (t *Translator) Localize(ctx context.Context, fields Fields, lang Language) string {
	text, from, ok := fields.Pick(lang)
	if !ok {
		return ""
	}
	if from == lang {
		return text
	}
	return t.Translate(ctx, text, from, lang)
}

func (t *Translator) fetch(ctx context.Context, text string, source, target Language) (string, error) {
	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", source.Code())
	params.Set("tl", target.Code())
	params.Set("dt", "t")
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, "GET", t.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	translated, err := parseGtxResponse(respBytes)
	if err != nil {
		return "", err
	}
	if translated == "" {
		return text, nil
	}
	return translated, nil
}

// parseGtxResponse joins the first element of every chunk in the first array:
// [[["Muraho","Hello",...],[...]],null,"en",...]
func parseGtxResponse(data []byte) (string, error) {
	var payload []json.RawMessage
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(payload) == 0 {
		return "", nil
	}

	// null when there is nothing to translate
	var chunks [][]any
	if err := json.Unmarshal(payload[0], &chunks); err != nil {
		return "", fmt.Errorf("unmarshal chunks: %w", err)
	}

	var sb strings.Builder
	for _, chunk := range chunks {
		if len(chunk) == 0 {
			continue
		}
		if s, ok := chunk[0].(string); ok {
			sb.WriteString(s)
		}
	}
	return sb.String(), nil
}
