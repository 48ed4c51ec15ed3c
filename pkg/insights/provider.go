package insights

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// NewModel builds an OpenAI-compatible chat model for cfg. It returns a nil
// model and no error when cfg has no API key, which leaves the generator in
// fallback-only mode.
func NewModel(cfg Config) (llms.Model, error) {
	if cfg.APIKey == "" {
		return nil, nil
	}
	cfg = cfg.withDefaults()

	llm, err := openai.New(
		openai.WithToken(cfg.APIKey),
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithModel(cfg.Model),
		openai.WithHTTPClient(&http.Client{
			Timeout:   cfg.Timeout,
			Transport: &samplingTransport{base: http.DefaultTransport, topK: cfg.TopK, topP: cfg.TopP},
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AI client: %w", err)
	}

	return llm, nil
}

// samplingTransport adds top_k and top_p to chat completion request bodies.
// The langchaingo openai client only serializes temperature and max tokens.
// Keys already present in the body are left alone.
type samplingTransport struct {
	base http.RoundTripper
	topK int
	topP float64
}

func (t *samplingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodPost || req.Body == nil || req.Body == http.NoBody {
		return t.base.RoundTrip(req)
	}

	raw, err := io.ReadAll(req.Body)
	req.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read AI request body: %w", err)
	}

	body, err := withSampling(raw, t.topK, t.topP)
	if err != nil {
		// Not a JSON object; send it unchanged.
		body = raw
	}

	out := req.Clone(req.Context())
	out.Body = io.NopCloser(bytes.NewReader(body))
	out.ContentLength = int64(len(body))
	out.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(body)), nil
	}
	return t.base.RoundTrip(out)
}

func withSampling(raw []byte, topK int, topP float64) ([]byte, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, fmt.Errorf("request body is not a JSON object")
	}

	if _, ok := fields["top_p"]; !ok && topP > 0 {
		v, err := json.Marshal(topP)
		if err != nil {
			return nil, err
		}
		fields["top_p"] = v
	}
	if _, ok := fields["top_k"]; !ok && topK > 0 {
		v, err := json.Marshal(topK)
		if err != nil {
			return nil, err
		}
		fields["top_k"] = v
	}
	return json.Marshal(fields)
}
