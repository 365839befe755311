package wallet

import (
	"context"
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/megayours/megadata-studio/internal/domain"
)

// SolanaProvider signs with an ed25519 key. The address is the base58-encoded
// public key, the convention Solana wallets use.
type SolanaProvider struct {
	kind      domain.WalletKind
	key       ed25519.PrivateKey
	approver  Approver
	connected bool
}

// NewSolanaProvider creates a Solana wallet provider over an ed25519 private key
func NewSolanaProvider(kind domain.WalletKind, key ed25519.PrivateKey, approver Approver) *SolanaProvider {
	return &SolanaProvider{kind: kind, key: key, approver: approver}
}

func (p *SolanaProvider) Kind() domain.WalletKind {
	return p.kind
}

func (p *SolanaProvider) ChainFamily() domain.ChainFamily {
	return domain.ChainFamilySolana
}

func (p *SolanaProvider) publicKey() (string, error) {
	if len(p.key) != ed25519.PrivateKeySize {
		return "", fmt.Errorf("no resolvable public key")
	}
	pub, ok := p.key.Public().(ed25519.PublicKey)
	if !ok {
		return "", fmt.Errorf("no resolvable public key")
	}
	return base58.Encode(pub), nil
}

func (p *SolanaProvider) Connect(ctx context.Context) (string, error) {
	address, err := p.publicKey()
	if err != nil {
		return "", err
	}
	if p.approver != nil && !p.approver(ctx, "connect", address) {
		return "", domain.ErrUserRejected
	}
	p.connected = true
	return address, nil
}

func (p *SolanaProvider) SignMessage(ctx context.Context, address, message string) (string, error) {
	own, err := p.publicKey()
	if err != nil {
		return "", err
	}
	if address != own {
		return "", fmt.Errorf("address %s is not held by this wallet", address)
	}
	if p.approver != nil && !p.approver(ctx, "sign", message) {
		return "", domain.ErrUserRejected
	}

	sig := ed25519.Sign(p.key, []byte(message))
	return base58.Encode(sig), nil
}

func (p *SolanaProvider) Disconnect(_ context.Context) error {
	p.connected = false
	return nil
}
