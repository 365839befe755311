package wallet

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/megayours/megadata-studio/internal/domain"
	"github.com/megayours/megadata-studio/internal/logger"
)

// Provider is the uniform surface over heterogeneous wallet backends. Every
// other component stays provider-agnostic behind these three calls.
//
//go:generate mockgen -source=wallet.go -destination=../mocks/wallet.go -package=mocks -mock_names=Provider=MockWalletProvider
type Provider interface {
	// Kind returns which wallet implementation this provider is
	Kind() domain.WalletKind

	// ChainFamily returns the signature-curve family of the provider's accounts
	ChainFamily() domain.ChainFamily

	// Connect requests account access and returns the authorized address
	Connect(ctx context.Context) (string, error)

	// SignMessage signs a short human-readable message with the key behind
	// the given address. No verification happens client-side; the trust
	// boundary is the external verifier.
	SignMessage(ctx context.Context, address, message string) (string, error)

	// Disconnect tears the connection down. Best-effort: some backends only
	// revoke cached permission.
	Disconnect(ctx context.Context) error
}

// Approver models the user-facing permission prompt a wallet shows before
// connecting or signing. A nil Approver approves everything.
type Approver func(ctx context.Context, action, detail string) bool

// expectedFamily returns the chain family an injected slot must carry.
// WalletConnect slots serve either family and return the empty value.
func expectedFamily(kind domain.WalletKind) domain.ChainFamily {
	switch kind {
	case domain.WalletKindMetaMask:
		return domain.ChainFamilyEVM
	case domain.WalletKindPhantom:
		return domain.ChainFamilySolana
	default:
		return ""
	}
}

// Registry maps wallet-kind slots to injected providers, mirroring the
// browser's injected-provider slots where an imposter extension can occupy
// a slot it does not implement.
type Registry struct {
	providers map[domain.WalletKind]Provider
}

// NewRegistry creates a registry over the given providers
func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[domain.WalletKind]Provider, len(providers))}
	for _, p := range providers {
		r.providers[p.Kind()] = p
	}
	return r
}

// Resolve returns the provider occupying a slot, enforcing that it belongs
// to the chain family the slot promises.
func (r *Registry) Resolve(family domain.ChainFamily, kind domain.WalletKind) (Provider, error) {
	p, ok := r.providers[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrWalletNotFound, kind)
	}
	want := expectedFamily(kind)
	if want == "" {
		want = family
	}
	if p.ChainFamily() != want {
		return nil, fmt.Errorf("%w: slot %s holds a %s provider", domain.ErrWrongProvider, kind, p.ChainFamily())
	}
	return p, nil
}

// Connect resolves a slot and requests account access from its provider
func (r *Registry) Connect(ctx context.Context, family domain.ChainFamily, kind domain.WalletKind) (Provider, string, error) {
	p, err := r.Resolve(family, kind)
	if err != nil {
		return nil, "", err
	}
	address, err := p.Connect(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("connect %s: %w", kind, err)
	}
	return p, address, nil
}

// Disconnect is best-effort: failures are surfaced as warnings, never fatal
func (r *Registry) Disconnect(ctx context.Context, family domain.ChainFamily, kind domain.WalletKind) {
	p, err := r.Resolve(family, kind)
	if err != nil {
		logger.Warn("disconnect skipped", zap.String("wallet", string(kind)), zap.Error(err))
		return
	}
	if err := p.Disconnect(ctx); err != nil {
		logger.Warn("wallet disconnect failed", zap.String("wallet", string(kind)), zap.Error(err))
	}
}
