package advice

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/cbudget/internal/budget"
	"github.com/theirongolddev/cbudget/internal/config"
	"github.com/theirongolddev/cbudget/internal/logging"
	"github.com/theirongolddev/cbudget/internal/store"

	"golang.org/x/sync/singleflight"
)

// Service renders prompts, answers repeated prompts from the cache and
// collapses identical in-flight requests. It implements budget.Advisor.
type Service struct {
	completer Completer
	cache     *store.Cache // nil disables caching
	group     singleflight.Group
	log       *logging.Logger
}

// NewService wraps completer. cache and log may be nil.
func NewService(completer Completer, cache *store.Cache, log *logging.Logger) *Service {
	if log == nil {
		log = logging.Discard()
	}
	return &Service{completer: completer, cache: cache, log: log}
}

// Advise implements budget.Advisor.
func (s *Service) Advise(ctx context.Context, req budget.AdviceRequest) (string, error) {
	prompt := RenderPrompt(req)
	key := requestKey(s.completer.Name(), prompt)

	if s.cache != nil {
		e, ok, err := s.cache.Get(key)
		if err != nil {
			s.log.Warn("advice cache read failed", "err", err)
		} else if ok {
			s.log.Debug("advice cache hit", "backend", s.completer.Name())
			return e.Response, nil
		}
	}

	v, err, shared := s.group.Do(key, func() (any, error) {
		start := time.Now()
		text, err := s.completer.Complete(ctx, prompt)
		if err != nil {
			return "", err
		}
		s.log.Info("advice fetched", "backend", s.completer.Name(), "elapsed", time.Since(start).Round(time.Millisecond))
		s.store(key, prompt, text)
		return text, nil
	})
	if err != nil {
		return "", err
	}
	if shared {
		s.log.Debug("advice request shared", "backend", s.completer.Name())
	}
	return v.(string), nil
}

func (s *Service) store(key, prompt, text string) {
	if s.cache == nil {
		return
	}
	provider, model, _ := strings.Cut(s.completer.Name(), "/")
	err := s.cache.Put(store.Entry{
		Key:      key,
		Provider: provider,
		Model:    model,
		Prompt:   prompt,
		Response: text,
	})
	if err != nil {
		s.log.Warn("advice cache write failed", "err", err)
	}
}

func requestKey(backend, prompt string) string {
	h := sha256.New()
	h.Write([]byte(backend))
	h.Write([]byte{0})
	h.Write([]byte(prompt))
	return hex.EncodeToString(h.Sum(nil))
}

// Disabled is the advisor used when no backend is configured.
type Disabled struct {
	Reason string
}

// Advise always fails with ErrNotConfigured.
func (d Disabled) Advise(context.Context, budget.AdviceRequest) (string, error) {
	if d.Reason == "" {
		return "", ErrNotConfigured
	}
	return "", fmt.Errorf("%w: %s", ErrNotConfigured, d.Reason)
}

// New builds the advisor described by cfg. apiKey is resolved by the caller
// so credentials never pass through the budgeting core.
func New(cfg config.AdviceConfig, apiKey string, cache *store.Cache, log *logging.Logger) budget.Advisor {
	if !cfg.Enabled {
		return Disabled{Reason: "advice is disabled"}
	}
	timeout := time.Duration(cfg.TimeoutSec) * time.Second

	var c Completer
	switch cfg.Provider {
	case config.ProviderOllama:
		c = NewOllamaClient(cfg.BaseURL, cfg.Model, cfg.MaxTokens, timeout)
	case config.ProviderOpenAI:
		oc := NewOpenAIClient(apiKey, cfg.BaseURL, cfg.Model, cfg.MaxTokens, timeout)
		if oc == nil {
			return Disabled{Reason: "set CBUDGET_API_KEY or OPENAI_API_KEY, or run `cbudget setup`"}
		}
		c = oc
	default:
		return Disabled{Reason: fmt.Sprintf("unknown provider %q", cfg.Provider)}
	}
	return NewService(c, cache, log)
}
