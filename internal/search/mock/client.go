package mock

import (
	"context"
	"sync"
	"time"

	"github.com/kitbuilder587/breachsearch/internal/search"
)

type Client struct {
	Result search.Result
	Error  error
	Delay  time.Duration

	CallCount  int
	LastQuery  string
	AllQueries []string

	mu sync.Mutex
}

func New() *Client {
	return &Client{}
}

func (c *Client) WithResult(result search.Result) *Client {
	c.Result = result
	return c
}

func (c *Client) WithError(err error) *Client {
	c.Error = err
	return c
}

func (c *Client) WithDelay(delay time.Duration) *Client {
	c.Delay = delay
	return c
}

func (c *Client) Search(ctx context.Context, query string) (search.Result, error) {
	c.mu.Lock()
	c.CallCount++
	c.LastQuery = query
	c.AllQueries = append(c.AllQueries, query)
	delay := c.Delay
	err := c.Error
	result := c.Result
	c.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return search.Result{}, ctx.Err()
		case <-time.After(delay):
		}
	}

	if err != nil {
		return search.Result{}, err
	}
	return result, nil
}

func (c *Client) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.CallCount
}

func (c *Client) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.CallCount = 0
	c.LastQuery = ""
	c.AllQueries = nil
}
