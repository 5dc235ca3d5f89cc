package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/storefront-next/internal/gateway"
)

// ErrSessionIDMissing 创建结账会话的响应中没有任何会话标识
var ErrSessionIDMissing = errors.New("checkout session response missing session id")

// Client 后端 REST 客户端，每个写操作成功后按资源路径失效缓存
type Client struct {
	gw *gateway.Gateway
}

// New 创建客户端
func New(gw *gateway.Gateway) *Client {
	return &Client{gw: gw}
}

// Gateway 返回底层网关
func (c *Client) Gateway() *gateway.Gateway {
	return c.gw
}

func (c *Client) get(ctx context.Context, path, token string, out interface{}) error {
	return c.gw.Request(ctx, http.MethodGet, path, token, nil, out)
}

// mutate 发送写请求，成功后失效 prefixes
func (c *Client) mutate(ctx context.Context, method, path, token string, body, out interface{}, prefixes ...string) error {
	if err := c.gw.Request(ctx, method, path, token, body, out); err != nil {
		return err
	}
	if len(prefixes) > 0 {
		c.gw.Invalidate(ctx, prefixes...)
	}
	return nil
}

// join 拼接路径段，每段做转义
func join(segments ...string) string {
	var b strings.Builder
	for _, seg := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(seg))
	}
	return b.String()
}

func withEnabled(path string, enabled bool) string {
	return path + "?enabled=" + strconv.FormatBool(enabled)
}

func customerPath(customerID string, rest ...string) string {
	return join(append([]string{"customers", customerID}, rest...)...)
}

func orderPath(orderID string, rest ...string) string {
	return join(append([]string{"orders", orderID}, rest...)...)
}

func adminOrderPath(orderID string, rest ...string) string {
	return join(append([]string{"admin", "orders", orderID}, rest...)...)
}

func sessionPath(sessionID string, rest ...string) string {
	return join(append([]string{"checkout", "sessions", sessionID}, rest...)...)
}
