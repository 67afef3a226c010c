package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/RW04/recipe-service/internal/core/ai/cache"
	"github.com/RW04/recipe-service/internal/core/ai/provider"
	"github.com/RW04/recipe-service/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	content string
	err     error
	calls   int
}

func (f *fakeProvider) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &provider.Response{Content: f.content}, nil
}

func (f *fakeProvider) GetModel() string          { return "fake-model" }
func (f *fakeProvider) GetTimeout() time.Duration { return time.Second }
func (f *fakeProvider) Close() error              { return nil }

func testConfig() *config.Config {
	return &config.Config{
		Cache: config.CacheConfig{
			Enabled:         true,
			MaxSize:         100,
			TTL:             time.Hour,
			CleanupInterval: time.Minute,
		},
	}
}

func newTestService(t *testing.T, prov provider.Provider) *Service {
	t.Helper()
	cfg := testConfig()

	cacheManager := cache.NewManager(cfg)
	require.NotNil(t, cacheManager)
	t.Cleanup(func() { _ = cacheManager.Close() })

	service, err := NewService(cfg, prov, cacheManager)
	require.NoError(t, err)
	return service
}

func TestNewServiceRequiresProvider(t *testing.T) {
	_, err := NewService(testConfig(), nil, nil)
	assert.Error(t, err)
}

func TestProcessRequestPassesThrough(t *testing.T) {
	prov := &fakeProvider{content: "hello"}
	service := newTestService(t, prov)

	resp, err := service.ProcessRequest(context.Background(), &Request{Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "hello", resp.Content)
	assert.False(t, resp.CacheHit)
}

func TestProcessRequestProviderError(t *testing.T) {
	prov := &fakeProvider{err: errors.New("boom")}
	service := newTestService(t, prov)

	_, err := service.ProcessRequest(context.Background(), &Request{Prompt: "hi"})
	assert.Error(t, err)
}

func TestProcessRequestCacheable(t *testing.T) {
	prov := &fakeProvider{content: "answer"}
	service := newTestService(t, prov)
	ctx := context.Background()

	first, err := service.ProcessRequest(ctx, &Request{Prompt: "classify this", Cacheable: true})
	require.NoError(t, err)
	assert.False(t, first.CacheHit)

	second, err := service.ProcessRequest(ctx, &Request{Prompt: "classify this", Cacheable: true})
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.Equal(t, "answer", second.Content)
	assert.Equal(t, 1, prov.calls)
}

func TestProcessRequestCacheKeyIgnoresWhitespace(t *testing.T) {
	prov := &fakeProvider{content: "answer"}
	service := newTestService(t, prov)
	ctx := context.Background()

	_, err := service.ProcessRequest(ctx, &Request{Prompt: "classify   this", Cacheable: true})
	require.NoError(t, err)

	second, err := service.ProcessRequest(ctx, &Request{Prompt: " classify this ", Cacheable: true})
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.Equal(t, 1, prov.calls)
}

func TestProcessRequestNotCacheable(t *testing.T) {
	prov := &fakeProvider{content: "creative output"}
	service := newTestService(t, prov)
	ctx := context.Background()

	_, err := service.ProcessRequest(ctx, &Request{Prompt: "generate", Temperature: 1.0})
	require.NoError(t, err)
	_, err = service.ProcessRequest(ctx, &Request{Prompt: "generate", Temperature: 1.0})
	require.NoError(t, err)

	assert.Equal(t, 2, prov.calls, "creative generation must not be served from the cache")
}
