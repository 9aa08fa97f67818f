package fixture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/redis/go-redis/v9"
)

type Fetcher interface {
	FetchRaw(ctx context.Context) ([]byte, error)
}

// HTTPFetcher 通过一次 GET 请求获取 fixture，不做重试
type HTTPFetcher struct {
	client *resty.Client
	url    string
}

func NewHTTPFetcher(url string, timeout time.Duration) *HTTPFetcher {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &HTTPFetcher{
		client: client,
		url:    url,
	}
}

func (f *HTTPFetcher) FetchRaw(ctx context.Context) ([]byte, error) {
	resp, err := f.client.R().SetContext(ctx).Get(f.url)
	if err != nil {
		return nil, fmt.Errorf("获取排班数据失败: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("获取排班数据失败: %d", resp.StatusCode())
	}
	return resp.Body(), nil
}

// CachedFetcher 将 fixture 原文缓存在 redis 中，redis 出错时直接回退到下层 Fetcher
type CachedFetcher struct {
	next   Fetcher
	rdb    redis.Cmdable
	key    string
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedFetcher(next Fetcher, rdb redis.Cmdable, key string, ttl time.Duration, logger *slog.Logger) *CachedFetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedFetcher{
		next:   next,
		rdb:    rdb,
		key:    key,
		ttl:    ttl,
		logger: logger,
	}
}

func (f *CachedFetcher) FetchRaw(ctx context.Context) ([]byte, error) {
	data, err := f.rdb.Get(ctx, f.key).Bytes()
	switch {
	case err == nil:
		return data, nil
	case errors.Is(err, redis.Nil):
		// 缓存未命中
	default:
		f.logger.Warn("读取排班数据缓存失败", "key", f.key, "error", err)
	}

	data, err = f.next.FetchRaw(ctx)
	if err != nil {
		return nil, err
	}

	if err := f.rdb.Set(ctx, f.key, data, f.ttl).Err(); err != nil {
		f.logger.Warn("写入排班数据缓存失败", "key", f.key, "error", err)
	}
	return data, nil
}

func (f *CachedFetcher) Invalidate(ctx context.Context) error {
	return f.rdb.Del(ctx, f.key).Err()
}
