package definition

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// maxResponseBytes 限制单次读取的响应体大小
const maxResponseBytes = 1 << 20

// Fetcher 从外部释义服务获取原始响应
type Fetcher interface {
	Fetch(ctx context.Context, term string) ([]byte, error)
}

// Client 是Urban Dictionary风格释义接口的HTTP客户端
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient 创建一个客户端。limiter为nil时不限速。
func NewClient(baseURL string, timeout time.Duration, limiter *rate.Limiter) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
	}
}

// Fetch 请求 /v0/define?term=，返回原始JSON响应体
func (c *Client) Fetch(ctx context.Context, term string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("释义服务限流等待失败: %w", err)
		}
	}

	endpoint := fmt.Sprintf("%s/v0/define?term=%s", c.baseURL, url.QueryEscape(term))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("无法构造释义请求: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("释义请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("释义服务返回状态码 %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("读取释义响应失败: %w", err)
	}
	return body, nil
}
