package camunda

import (
	"context"
	"fmt"
	"time"

	"lead-qualifier/internal/common/config"
	"lead-qualifier/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

var DefaultRetryConfig = RetryConfig{
	MaxRetries: 5,
	BaseDelay:  1 * time.Second,
	MaxDelay:   10 * time.Second,
}

type Client struct {
	zeebe zbc.Client
}

// NewClient dials the gateway and waits for a topology response, retrying
// with exponential backoff.
func NewClient(ctx context.Context, cfg config.CamundaConfig, retry RetryConfig, log logger.Logger) (*Client, error) {
	if cfg.BrokerAddress == "" {
		return nil, fmt.Errorf("camunda.broker_address is required")
	}

	zeebeClient, err := zbc.NewClient(&zbc.ClientConfig{
		GatewayAddress:         cfg.BrokerAddress,
		UsePlaintextConnection: cfg.Plaintext,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Zeebe client: %w", err)
	}

	delay := retry.BaseDelay
	for attempt := 1; ; attempt++ {
		reqCtx, cancel := context.WithTimeout(ctx, config.GetDuration(cfg.RequestTimeout))
		_, err = zeebeClient.NewTopologyCommand().Send(reqCtx)
		cancel()
		if err == nil {
			return &Client{zeebe: zeebeClient}, nil
		}
		if attempt >= retry.MaxRetries {
			break
		}

		log.Warn("zeebe gateway not ready, retrying", map[string]interface{}{
			"gateway": cfg.BrokerAddress,
			"attempt": attempt,
			"delay":   delay.String(),
			"error":   err.Error(),
		})
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			_ = zeebeClient.Close()
			return nil, ctx.Err()
		}
		delay *= 2
		if delay > retry.MaxDelay {
			delay = retry.MaxDelay
		}
	}

	_ = zeebeClient.Close()
	return nil, fmt.Errorf("failed to connect to Zeebe gateway at %s: %w", cfg.BrokerAddress, err)
}

func (c *Client) Zeebe() zbc.Client {
	return c.zeebe
}

func (c *Client) Close() error {
	return c.zeebe.Close()
}
