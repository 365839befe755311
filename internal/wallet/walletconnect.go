package wallet

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/megayours/megadata-studio/internal/domain"
)

// WCConfig holds WalletConnect relay configuration
type WCConfig struct {
	RelayURL         string
	ChainFamily      domain.ChainFamily
	HandshakeTimeout time.Duration
}

// WCProvider speaks to a remote wallet through a WalletConnect-style relay
// session over a WebSocket. Connect performs the session proposal round-trip
// and returns the first authorized account; signing round-trips one request
// per message. The relay answers one request at a time, matching the
// sequential signing model.
type WCProvider struct {
	config WCConfig

	mu      sync.Mutex
	conn    *websocket.Conn
	nextID  uint64
	account string
}

type wcRequest struct {
	ID     uint64         `json:"id"`
	Method string         `json:"method"`
	Params map[string]any `json:"params,omitempty"`
}

type wcResponse struct {
	ID     uint64 `json:"id"`
	Result struct {
		Accounts  []string `json:"accounts,omitempty"`
		Signature string   `json:"signature,omitempty"`
	} `json:"result"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewWCProvider creates a WalletConnect relay provider
func NewWCProvider(cfg WCConfig) *WCProvider {
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = 30 * time.Second
	}
	return &WCProvider{config: cfg}
}

func (p *WCProvider) Kind() domain.WalletKind {
	return domain.WalletKindWalletConnect
}

func (p *WCProvider) ChainFamily() domain.ChainFamily {
	return p.config.ChainFamily
}

// roundTrip sends one relay request and waits for its response.
// The caller must hold p.mu.
func (p *WCProvider) roundTrip(ctx context.Context, method string, params map[string]any) (*wcResponse, error) {
	if p.conn == nil {
		return nil, fmt.Errorf("no relay session")
	}

	p.nextID++
	req := wcRequest{ID: p.nextID, Method: method, Params: params}

	deadline := time.Now().Add(p.config.HandshakeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = p.conn.SetWriteDeadline(deadline)
	_ = p.conn.SetReadDeadline(deadline)

	if err := p.conn.WriteJSON(req); err != nil {
		return nil, fmt.Errorf("relay write failed: %w", err)
	}

	for {
		var resp wcResponse
		if err := p.conn.ReadJSON(&resp); err != nil {
			return nil, fmt.Errorf("relay read failed: %w", err)
		}
		if resp.ID != req.ID {
			// Stale response from an abandoned request
			continue
		}
		if resp.Error != nil {
			if strings.Contains(strings.ToLower(resp.Error.Message), "reject") {
				return nil, domain.ErrUserRejected
			}
			return nil, fmt.Errorf("relay error: %s", resp.Error.Message)
		}
		return &resp, nil
	}
}

func (p *WCProvider) Connect(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil {
		dialer := websocket.Dialer{HandshakeTimeout: p.config.HandshakeTimeout}
		conn, _, err := dialer.DialContext(ctx, p.config.RelayURL, nil)
		if err != nil {
			return "", fmt.Errorf("%w: relay unreachable: %v", domain.ErrWalletNotFound, err)
		}
		p.conn = conn
	}

	resp, err := p.roundTrip(ctx, "session_propose", map[string]any{
		"chains": []string{string(p.config.ChainFamily)},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Result.Accounts) == 0 {
		return "", fmt.Errorf("relay session approved without accounts")
	}

	p.account = resp.Result.Accounts[0]
	return p.account, nil
}

func (p *WCProvider) SignMessage(ctx context.Context, address, message string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	resp, err := p.roundTrip(ctx, "personal_sign", map[string]any{
		"address": address,
		"message": message,
	})
	if err != nil {
		return "", err
	}
	if resp.Result.Signature == "" {
		return "", fmt.Errorf("relay returned empty signature")
	}
	return resp.Result.Signature, nil
}

// Disconnect tears the relay session down
func (p *WCProvider) Disconnect(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil {
		return nil
	}
	_, rtErr := p.roundTrip(ctx, "session_delete", nil)
	closeErr := p.conn.Close()
	p.conn = nil
	p.account = ""

	if rtErr != nil {
		return rtErr
	}
	return closeErr
}
