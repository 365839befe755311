package wallet

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/megayours/megadata-studio/internal/domain"
)

// EVMProvider signs with a secp256k1 key using the personal-sign digest, the
// same scheme browser EVM wallets apply to short text messages.
type EVMProvider struct {
	kind      domain.WalletKind
	key       *ecdsa.PrivateKey
	address   string
	approver  Approver
	connected bool
}

// NewEVMProvider creates an EVM wallet provider over a secp256k1 private key
func NewEVMProvider(kind domain.WalletKind, key *ecdsa.PrivateKey, approver Approver) *EVMProvider {
	return &EVMProvider{
		kind:     kind,
		key:      key,
		address:  crypto.PubkeyToAddress(key.PublicKey).Hex(),
		approver: approver,
	}
}

func (p *EVMProvider) Kind() domain.WalletKind {
	return p.kind
}

func (p *EVMProvider) ChainFamily() domain.ChainFamily {
	return domain.ChainFamilyEVM
}

func (p *EVMProvider) Connect(ctx context.Context) (string, error) {
	if p.approver != nil && !p.approver(ctx, "connect", p.address) {
		return "", domain.ErrUserRejected
	}
	p.connected = true
	return p.address, nil
}

func (p *EVMProvider) SignMessage(ctx context.Context, address, message string) (string, error) {
	if !strings.EqualFold(address, p.address) {
		return "", fmt.Errorf("address %s is not held by this wallet", address)
	}
	if p.approver != nil && !p.approver(ctx, "sign", message) {
		return "", domain.ErrUserRejected
	}

	digest := accounts.TextHash([]byte(message))
	sig, err := crypto.Sign(digest, p.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign message: %w", err)
	}
	// Wallets report the recovery id with the legacy 27 offset
	sig[crypto.RecoveryIDOffset] += 27

	return hexutil.Encode(sig), nil
}

// Disconnect only drops the cached permission; injected EVM wallets have no
// true programmatic disconnect.
func (p *EVMProvider) Disconnect(_ context.Context) error {
	p.connected = false
	return nil
}
