package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/megayours/megadata-studio/internal/adapter"
	"github.com/megayours/megadata-studio/internal/clients/query"
	"github.com/megayours/megadata-studio/internal/clients/sociallogin"
	"github.com/megayours/megadata-studio/internal/domain"
	"github.com/megayours/megadata-studio/internal/logger"
	"github.com/megayours/megadata-studio/internal/store"
	"github.com/megayours/megadata-studio/internal/wallet"
)

// sessionKey is the KV key the persisted session record lives under
const sessionKey = "megadata_session"

// State is the session lifecycle state
type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateAuthenticating  State = "authenticating"
	StateAuthenticated   State = "authenticated"
)

// AuthMethod distinguishes how the primary identity authenticated
type AuthMethod string

const (
	AuthMethodSocial AuthMethod = "social"
	AuthMethodWallet AuthMethod = "wallet"
)

// Snapshot is the consumer-facing view of the session. Account, AccountType
// and WalletType are set together or not at all; no partial session is ever
// exposed.
type Snapshot struct {
	State       State              `json:"state"`
	Account     string             `json:"account,omitempty"`
	AccountType domain.ChainFamily `json:"accountType,omitempty"`
	WalletType  domain.WalletKind  `json:"walletType,omitempty"`
	AuthMethod  AuthMethod         `json:"authMethod,omitempty"`
	Links       []domain.AccountLink `json:"links"`
}

// persistedSession is the JSON record written to the key-value store so a
// restart can resume without re-authentication.
type persistedSession struct {
	Method      AuthMethod         `json:"method"`
	Account     string             `json:"account"`
	AccountType domain.ChainFamily `json:"accountType"`
	WalletType  domain.WalletKind  `json:"walletType,omitempty"`
	Token       string             `json:"token,omitempty"`
	ExpiresAt   time.Time          `json:"expiresAt,omitempty"`
}

// Manager is the single source of truth for who is acting, independent of
// how they authenticated.
//
//go:generate mockgen -source=session.go -destination=../mocks/session.go -package=mocks -mock_names=Signer=MockSessionSigner
type Manager struct {
	social  sociallogin.Client
	query   query.Client
	wallets *wallet.Registry
	kv      store.KVStore
	clock   adapter.Clock
	json    adapter.JSON

	mu          sync.Mutex
	state       State
	method      AuthMethod
	account     string
	accountType domain.ChainFamily
	walletType  domain.WalletKind
	identity    *sociallogin.Identity
	provider    wallet.Provider
	links       []domain.AccountLink
}

// Signer is the minimal signing surface other components need from a session
type Signer interface {
	// Account returns the primary account, or ErrNoPrimaryAccount
	Account() (string, domain.ChainFamily, error)

	// SignMessage signs with whichever mechanism backs the session
	SignMessage(ctx context.Context, message string) (string, error)
}

// NewManager creates a session manager
func NewManager(social sociallogin.Client, queryClient query.Client, wallets *wallet.Registry, kv store.KVStore, clock adapter.Clock, json adapter.JSON) *Manager {
	return &Manager{
		social:  social,
		query:   queryClient,
		wallets: wallets,
		kv:      kv,
		clock:   clock,
		json:    json,
		state:   StateUnauthenticated,
	}
}

// familyOf derives the chain family of an address from its shape
func familyOf(address string) domain.ChainFamily {
	if strings.HasPrefix(address, "0x") {
		return domain.ChainFamilyEVM
	}
	return domain.ChainFamilySolana
}

// Init restores a persisted session if one exists and is still valid, else
// attempts a silent reconnect through the social-login provider.
func (m *Manager) Init(ctx context.Context) {
	raw, ok, err := m.kv.Get(ctx, sessionKey)
	if err != nil {
		logger.Warn("failed to read persisted session", zap.Error(err))
	}

	if ok {
		var rec persistedSession
		if err := m.json.Unmarshal([]byte(raw), &rec); err == nil {
			if m.restore(ctx, rec) {
				return
			}
		}
		// Stale or invalid persisted record
		_ = m.kv.Delete(ctx, sessionKey)
	}

	identity, err := m.social.SilentLogin(ctx)
	if err != nil || identity == nil {
		return
	}
	m.adoptSocial(ctx, identity)
}

// restore resumes a persisted session. A wallet-backed record is only kept
// when a live reconnect yields the same address; anything else is discarded.
func (m *Manager) restore(ctx context.Context, rec persistedSession) bool {
	switch rec.Method {
	case AuthMethodSocial:
		if rec.Token == "" || !rec.ExpiresAt.After(m.clock.Now()) {
			return false
		}
		m.adoptSocial(ctx, &sociallogin.Identity{
			Address:   rec.Account,
			Token:     rec.Token,
			ExpiresAt: rec.ExpiresAt,
		})
		return true

	case AuthMethodWallet:
		provider, address, err := m.wallets.Connect(ctx, rec.AccountType, rec.WalletType)
		if err != nil || !strings.EqualFold(address, rec.Account) {
			return false
		}
		m.adoptWallet(ctx, provider, address, rec.WalletType)
		return true
	}
	return false
}

func (m *Manager) adoptSocial(ctx context.Context, identity *sociallogin.Identity) {
	m.mu.Lock()
	m.state = StateAuthenticated
	m.method = AuthMethodSocial
	m.account = identity.Address
	m.accountType = familyOf(identity.Address)
	m.walletType = ""
	m.identity = identity
	m.provider = nil
	m.mu.Unlock()

	m.persist(ctx)
	m.RefreshLinks(ctx)
}

func (m *Manager) adoptWallet(ctx context.Context, provider wallet.Provider, address string, kind domain.WalletKind) {
	m.mu.Lock()
	m.state = StateAuthenticated
	m.method = AuthMethodWallet
	m.account = address
	m.accountType = provider.ChainFamily()
	m.walletType = kind
	m.identity = nil
	m.provider = provider
	m.mu.Unlock()

	m.persist(ctx)
	m.RefreshLinks(ctx)
}

func (m *Manager) persist(ctx context.Context) {
	m.mu.Lock()
	rec := persistedSession{
		Method:      m.method,
		Account:     m.account,
		AccountType: m.accountType,
		WalletType:  m.walletType,
	}
	if m.identity != nil {
		rec.Token = m.identity.Token
		rec.ExpiresAt = m.identity.ExpiresAt
	}
	m.mu.Unlock()

	data, err := m.json.Marshal(rec)
	if err != nil {
		logger.Warn("failed to encode session record", zap.Error(err))
		return
	}
	if err := m.kv.Set(ctx, sessionKey, string(data)); err != nil {
		logger.Warn("failed to persist session", zap.Error(err))
	}
}

// Login runs the social-login provider flow and adopts the resulting identity
func (m *Manager) Login(ctx context.Context) (*Snapshot, error) {
	m.mu.Lock()
	if m.state == StateAuthenticating {
		m.mu.Unlock()
		return nil, fmt.Errorf("authentication already in progress")
	}
	m.state = StateAuthenticating
	m.mu.Unlock()

	identity, err := m.social.Login(ctx)
	if err != nil {
		m.mu.Lock()
		m.state = StateUnauthenticated
		m.mu.Unlock()
		return nil, err
	}

	m.adoptSocial(ctx, identity)
	snap := m.Snapshot()
	return &snap, nil
}

// ConnectWallet authenticates by connecting a wallet directly
func (m *Manager) ConnectWallet(ctx context.Context, family domain.ChainFamily, kind domain.WalletKind) (*Snapshot, error) {
	m.mu.Lock()
	m.state = StateAuthenticating
	m.mu.Unlock()

	provider, address, err := m.wallets.Connect(ctx, family, kind)
	if err != nil {
		m.mu.Lock()
		m.state = StateUnauthenticated
		m.mu.Unlock()
		return nil, err
	}

	m.adoptWallet(ctx, provider, address, kind)
	snap := m.Snapshot()
	return &snap, nil
}

// Logout clears in-memory state and the persisted token
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	provider := m.provider
	m.state = StateUnauthenticated
	m.method = ""
	m.account = ""
	m.accountType = ""
	m.walletType = ""
	m.identity = nil
	m.provider = nil
	m.links = nil
	m.mu.Unlock()

	if err := m.kv.Delete(ctx, sessionKey); err != nil {
		logger.Warn("failed to clear persisted session", zap.Error(err))
	}
	if provider != nil {
		if err := provider.Disconnect(ctx); err != nil {
			logger.Warn("wallet disconnect failed", zap.Error(err))
		}
	}
}

// expire drops a session whose identity token lapsed
func (m *Manager) expire(ctx context.Context) {
	logger.Info("session expired")
	m.Logout(ctx)
}

// Account returns the primary account and its chain family
func (m *Manager) Account() (string, domain.ChainFamily, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateAuthenticated {
		return "", "", domain.ErrNoPrimaryAccount
	}
	return m.account, m.accountType, nil
}

// SignMessage signs using whichever mechanism backs the current session.
// Callers never need to know which.
func (m *Manager) SignMessage(ctx context.Context, message string) (string, error) {
	m.mu.Lock()
	if m.state != StateAuthenticated {
		m.mu.Unlock()
		return "", domain.ErrNoPrimaryAccount
	}
	method := m.method
	account := m.account
	identity := m.identity
	provider := m.provider
	m.mu.Unlock()

	switch method {
	case AuthMethodSocial:
		if !identity.ExpiresAt.After(m.clock.Now()) {
			m.expire(ctx)
			return "", domain.ErrSessionExpired
		}
		return m.social.Sign(ctx, identity.Token, message)
	case AuthMethodWallet:
		return provider.SignMessage(ctx, account, message)
	}
	return "", domain.ErrNoPrimaryAccount
}

// RefreshLinks re-fetches the account links for the current address from the
// linking-query service. Runs whenever the resolved address changes.
func (m *Manager) RefreshLinks(ctx context.Context) {
	m.mu.Lock()
	account := m.account
	authenticated := m.state == StateAuthenticated
	m.mu.Unlock()

	if !authenticated {
		return
	}

	links, err := m.query.ListLinks(ctx, account)
	if err != nil {
		logger.Warn("failed to refresh account links", zap.String("account", account), zap.Error(err))
		return
	}

	m.mu.Lock()
	m.links = links
	m.mu.Unlock()
}

// Links returns the cached account links
func (m *Manager) Links() []domain.AccountLink {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.AccountLink, len(m.links))
	copy(out, m.links)
	return out
}

// Snapshot returns the consumer-facing session view
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := Snapshot{
		State: m.state,
		Links: make([]domain.AccountLink, len(m.links)),
	}
	copy(snap.Links, m.links)
	if m.state == StateAuthenticated {
		snap.Account = m.account
		snap.AccountType = m.accountType
		snap.WalletType = m.walletType
		snap.AuthMethod = m.method
	}
	return snap
}
