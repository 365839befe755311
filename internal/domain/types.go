package domain

import (
	"fmt"
	"strings"
)

// ChainFamily represents the signature-curve family of an account
type ChainFamily string

const (
	ChainFamilyEVM    ChainFamily = "evm"
	ChainFamilySolana ChainFamily = "solana"
)

// IsValidChainFamily checks if a chain family is valid
func IsValidChainFamily(f ChainFamily) bool {
	return f == ChainFamilyEVM || f == ChainFamilySolana
}

// WalletKind identifies which wallet implementation backs a connection
type WalletKind string

const (
	WalletKindMetaMask      WalletKind = "metamask"
	WalletKindPhantom       WalletKind = "phantom"
	WalletKindWalletConnect WalletKind = "walletconnect"
)

// IsValidWalletKind checks if a wallet kind is valid
func IsValidWalletKind(k WalletKind) bool {
	return k == WalletKindMetaMask || k == WalletKindPhantom || k == WalletKindWalletConnect
}

// ActionTag names the action a signed message authorizes.
// The verifier reconstructs the message from the tag, address and timestamp,
// so tags must match the server side exactly.
type ActionTag string

const (
	ActionLinkAccount       ActionTag = "link_account"
	ActionPublishCollection ActionTag = "publish_collection"
	ActionSaveQuery         ActionTag = "save_query"
	ActionRegisterContract  ActionTag = "register_contract"
)

// ActionMessage builds the human-readable message a wallet signs for a given
// action. It embeds the acting address and an epoch-millisecond timestamp so
// the verifier can bind the signature to one action within a time window.
func ActionMessage(tag ActionTag, address string, timestampMillis int64) string {
	return fmt.Sprintf("MegaYours %s: %s at %d", tag, address, timestampMillis)
}

// SignatureData carries one signature collected from one account.
// Two SignatureData records submitted together in a linking operation must
// share the same Timestamp.
type SignatureData struct {
	Type      ChainFamily `json:"type"`
	Timestamp int64       `json:"timestamp"` // epoch millis
	Account   string      `json:"account"`
	Signature string      `json:"signature"`
}

// AccountLink associates a secondary account with the primary account it is
// linked to. Links are created by the linking verifier and only trusted once
// read back from it.
type AccountLink struct {
	Account string `json:"account"`
	Link    string `json:"link"`
}

// Provenance marks where a collection record is authoritative
type Provenance string

const (
	ProvenanceLocalDraft      Provenance = "local-draft"
	ProvenanceRemotePublished Provenance = "remote-published"
)

// Collection is a named group of token metadata items. While unpublished its
// id is a locally generated opaque string; publishing replaces it with the
// remote identifier and freezes the collection.
type Collection struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Published      bool           `json:"published"`
	NumTokens      int            `json:"numTokens"`
	StartingIndex  int            `json:"startingIndex"`
	ModuleSettings map[string]any `json:"moduleSettings,omitempty"`
}

// IsLocalID reports whether a collection id is a locally generated draft id
func IsLocalID(id string) bool {
	return strings.HasPrefix(id, "local_")
}

// Item is one token metadata document inside a collection
type Item struct {
	Collection   string         `json:"collection"`
	TokenID      string         `json:"tokenId"`
	Properties   map[string]any `json:"properties"`
	LastModified int64          `json:"lastModified"` // epoch millis
}

// StoreExport is the whole-store backup document produced by Export and
// consumed by Import. Import replaces the store, it never merges.
type StoreExport struct {
	Collections []Collection      `json:"collections"`
	Items       map[string][]Item `json:"items"`
}

// AssetFilter is a minimum-balance condition on one asset of one source chain
type AssetFilter struct {
	Source   string `json:"source"`
	Asset    string `json:"asset"`
	Requires uint64 `json:"requires"`
}

// AssetGroup is an ordered, named set of asset filters owned by one account,
// used to compute eligible-account query results.
type AssetGroup struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Owner   string        `json:"owner"`
	Filters []AssetFilter `json:"filters"`
}
