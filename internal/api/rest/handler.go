package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/megayours/megadata-studio/internal/adapter"
	"github.com/megayours/megadata-studio/internal/cache"
	"github.com/megayours/megadata-studio/internal/clients/forwarder"
	"github.com/megayours/megadata-studio/internal/clients/megadata"
	"github.com/megayours/megadata-studio/internal/clients/query"
	"github.com/megayours/megadata-studio/internal/domain"
	"github.com/megayours/megadata-studio/internal/draftstore"
	"github.com/megayours/megadata-studio/internal/linking"
	"github.com/megayours/megadata-studio/internal/logger"
	"github.com/megayours/megadata-studio/internal/publish"
	"github.com/megayours/megadata-studio/internal/session"
)

// Handler defines the interface for REST API handlers
//
//go:generate mockgen -source=handler.go -destination=../../mocks/api_handler.go -package=mocks -mock_names=Handler=MockAPIHandler
type Handler interface {
	// GetSession returns the current session snapshot
	// GET /api/v1/session
	GetSession(c *gin.Context)

	// Login runs the social-login flow
	// POST /api/v1/session/login
	Login(c *gin.Context)

	// ConnectWallet authenticates by connecting a wallet directly
	// POST /api/v1/session/connect
	ConnectWallet(c *gin.Context)

	// Logout clears the session
	// POST /api/v1/session/logout
	Logout(c *gin.Context)

	// ListLinks returns the cached account links
	// GET /api/v1/links
	ListLinks(c *gin.Context)

	// CreateLink runs the account-linking protocol with a second wallet
	// POST /api/v1/links
	CreateLink(c *gin.Context)

	// DeleteLink unlinks an account
	// DELETE /api/v1/links/:account
	DeleteLink(c *gin.Context)

	// ListCollections returns the merged collection list with provenance
	// GET /api/v1/collections
	ListCollections(c *gin.Context)

	// CreateCollection creates a draft collection
	// POST /api/v1/collections
	CreateCollection(c *gin.Context)

	// GetCollection returns one collection and its items
	// GET /api/v1/collections/:id
	GetCollection(c *gin.Context)

	// DeleteCollection removes an unpublished draft
	// DELETE /api/v1/collections/:id
	DeleteCollection(c *gin.Context)

	// SaveItem upserts one item; ?autosave=true queues a debounced write
	// PUT /api/v1/collections/:id/items/:tokenId
	SaveItem(c *gin.Context)

	// DeleteItem removes one item
	// DELETE /api/v1/collections/:id/items/:tokenId
	DeleteItem(c *gin.Context)

	// PublishCollection runs the publish workflow
	// POST /api/v1/collections/:id/publish
	PublishCollection(c *gin.Context)

	// ExportStore returns the whole local store as one document
	// GET /api/v1/store/export
	ExportStore(c *gin.Context)

	// ImportStore replaces the whole local store
	// POST /api/v1/store/import
	ImportStore(c *gin.Context)

	// ListAssetGroups returns the caller's asset groups
	// GET /api/v1/asset-groups
	ListAssetGroups(c *gin.Context)

	// SaveAssetGroup submits a signed asset-group save
	// POST /api/v1/asset-groups
	SaveAssetGroup(c *gin.Context)

	// EligibleAccounts returns the accounts matching a group's filters
	// GET /api/v1/asset-groups/:id/accounts
	EligibleAccounts(c *gin.Context)

	// RegisterContract submits a signed contract registration
	// POST /api/v1/contracts
	RegisterContract(c *gin.Context)

	// ListContracts returns the indexed contracts for a source
	// GET /api/v1/contracts
	ListContracts(c *gin.Context)

	// ListModules returns the platform's metadata modules
	// GET /api/v1/modules
	ListModules(c *gin.Context)

	// ValidateModule checks a payload against one module's schema
	// POST /api/v1/modules/:name/validate
	ValidateModule(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	sessions    *session.Manager
	links       *linking.Orchestrator
	drafts      draftstore.Store
	autosaver   *draftstore.Autosaver
	publisher   *publish.Workflow
	collections *cache.Collections
	forwarder   forwarder.Client
	query       query.Client
	megadata    megadata.Client
	clock       adapter.Clock
	json        adapter.JSON
}

// NewHandler creates a new REST API handler
func NewHandler(
	sessions *session.Manager,
	links *linking.Orchestrator,
	drafts draftstore.Store,
	autosaver *draftstore.Autosaver,
	publisher *publish.Workflow,
	collections *cache.Collections,
	fwd forwarder.Client,
	qry query.Client,
	md megadata.Client,
	clock adapter.Clock,
	json adapter.JSON,
) Handler {
	return &handler{
		sessions:    sessions,
		links:       links,
		drafts:      drafts,
		autosaver:   autosaver,
		publisher:   publisher,
		collections: collections,
		forwarder:   fwd,
		query:       qry,
		megadata:    md,
		clock:       clock,
		json:        json,
	}
}

func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *handler) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, h.sessions.Snapshot())
}

func (h *handler) Login(c *gin.Context) {
	snap, err := h.sessions.Login(c.Request.Context())
	if err != nil {
		respondOperationError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

type connectWalletRequest struct {
	AccountType domain.ChainFamily `json:"accountType" binding:"required"`
	WalletType  domain.WalletKind  `json:"walletType" binding:"required"`
}

func (h *handler) ConnectWallet(c *gin.Context) {
	var req connectWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body", err.Error())
		return
	}
	if !domain.IsValidChainFamily(req.AccountType) || !domain.IsValidWalletKind(req.WalletType) {
		respondBadRequest(c, "unknown account or wallet type")
		return
	}

	snap, err := h.sessions.ConnectWallet(c.Request.Context(), req.AccountType, req.WalletType)
	if err != nil {
		respondOperationError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *handler) Logout(c *gin.Context) {
	h.sessions.Logout(c.Request.Context())
	c.Status(http.StatusNoContent)
}

func (h *handler) ListLinks(c *gin.Context) {
	c.JSON(http.StatusOK, h.sessions.Links())
}

type createLinkRequest struct {
	AccountType domain.ChainFamily `json:"accountType" binding:"required"`
	WalletType  domain.WalletKind  `json:"walletType" binding:"required"`
}

func (h *handler) CreateLink(c *gin.Context) {
	var req createLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body", err.Error())
		return
	}
	if !domain.IsValidChainFamily(req.AccountType) || !domain.IsValidWalletKind(req.WalletType) {
		respondBadRequest(c, "unknown account or wallet type")
		return
	}

	linked, err := h.links.Link(c.Request.Context(), req.AccountType, req.WalletType)
	if err != nil {
		respondOperationError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"account": linked})
}

func (h *handler) DeleteLink(c *gin.Context) {
	account := c.Param("account")
	if account == "" {
		respondBadRequest(c, "account is required")
		return
	}
	if err := h.links.Unlink(c.Request.Context(), account); err != nil {
		respondOperationError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) ListCollections(c *gin.Context) {
	account, _, err := h.sessions.Account()
	if err != nil {
		respondOperationError(c, err)
		return
	}
	views, err := h.collections.List(c.Request.Context(), account)
	if err != nil {
		respondOperationError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

type createCollectionRequest struct {
	Name           string         `json:"name" binding:"required"`
	NumTokens      int            `json:"numTokens"`
	StartingIndex  int            `json:"startingIndex"`
	ModuleSettings map[string]any `json:"moduleSettings"`
}

func (h *handler) CreateCollection(c *gin.Context) {
	var req createCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body", err.Error())
		return
	}
	if req.NumTokens < 0 || req.StartingIndex < 0 {
		respondBadRequest(c, "numTokens and startingIndex must be non-negative")
		return
	}

	col, err := h.drafts.CreateCollection(c.Request.Context(), req.Name, req.NumTokens, req.StartingIndex, req.ModuleSettings)
	if err != nil {
		respondOperationError(c, err)
		return
	}

	if account, _, err := h.sessions.Account(); err == nil {
		h.collections.Invalidate(c.Request.Context(), account)
	}
	c.JSON(http.StatusCreated, col)
}

func (h *handler) GetCollection(c *gin.Context) {
	id := c.Param("id")
	col, err := h.drafts.GetCollection(c.Request.Context(), id)
	if err != nil {
		respondOperationError(c, err)
		return
	}
	if col == nil {
		respondNotFound(c, "collection not found")
		return
	}

	items, err := h.drafts.GetItems(c.Request.Context(), id)
	if err != nil {
		respondOperationError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"collection": col, "items": items})
}

func (h *handler) DeleteCollection(c *gin.Context) {
	id := c.Param("id")
	ok, err := h.drafts.DeleteCollection(c.Request.Context(), id)
	if err != nil {
		respondOperationError(c, err)
		return
	}
	if !ok {
		respondWithError(c, http.StatusConflict, errCodePublished, "collection is missing or published")
		return
	}

	if account, _, err := h.sessions.Account(); err == nil {
		h.collections.Invalidate(c.Request.Context(), account)
	}
	c.Status(http.StatusNoContent)
}

type saveItemRequest struct {
	Properties map[string]any `json:"properties" binding:"required"`
}

func (h *handler) SaveItem(c *gin.Context) {
	var req saveItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body", err.Error())
		return
	}

	item := domain.Item{
		Collection: c.Param("id"),
		TokenID:    c.Param("tokenId"),
		Properties: req.Properties,
	}

	// Autosaved edits coalesce in the debouncer instead of writing through
	if c.Query("autosave") == "true" {
		h.autosaver.Queue(item)
		c.JSON(http.StatusAccepted, gin.H{"queued": true})
		return
	}

	saved, err := h.drafts.SaveItem(c.Request.Context(), item)
	if err != nil {
		respondOperationError(c, err)
		return
	}
	if !saved {
		respondWithError(c, http.StatusConflict, errCodePublished, "collection is missing or published")
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": true})
}

func (h *handler) DeleteItem(c *gin.Context) {
	deleted, err := h.drafts.DeleteItem(c.Request.Context(), c.Param("id"), c.Param("tokenId"))
	if err != nil {
		respondOperationError(c, err)
		return
	}
	if !deleted {
		respondWithError(c, http.StatusConflict, errCodePublished, "item missing, or collection published")
		return
	}
	c.Status(http.StatusNoContent)
}

type publishRequest struct {
	Confirm bool `json:"confirm"`
}

func (h *handler) PublishCollection(c *gin.Context) {
	var req publishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body", err.Error())
		return
	}

	// Pending autosaves must land before the batch is read
	h.autosaver.Flush()

	result, err := h.publisher.Run(c.Request.Context(), c.Param("id"), req.Confirm)
	if err != nil {
		respondOperationError(c, err)
		return
	}

	if account, _, err := h.sessions.Account(); err == nil {
		h.collections.Invalidate(c.Request.Context(), account)
	}

	logger.Info("collection published",
		zap.String("collection", c.Param("id")),
		zap.String("remote_id", result.RemoteID))
	c.JSON(http.StatusOK, result)
}

func (h *handler) ExportStore(c *gin.Context) {
	h.autosaver.Flush()

	doc, err := h.drafts.Export(c.Request.Context())
	if err != nil {
		respondOperationError(c, err)
		return
	}

	data, err := h.json.MarshalIndent(doc)
	if err != nil {
		respondInternalError(c, err, "failed to serialize backup")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="megadata-backup.json"`)
	c.Data(http.StatusOK, "application/json", data)
}

func (h *handler) ImportStore(c *gin.Context) {
	var doc domain.StoreExport
	if err := c.ShouldBindJSON(&doc); err != nil {
		respondBadRequest(c, "invalid backup document", err.Error())
		return
	}

	if err := h.drafts.Import(c.Request.Context(), &doc); err != nil {
		respondOperationError(c, err)
		return
	}

	if account, _, err := h.sessions.Account(); err == nil {
		h.collections.Invalidate(c.Request.Context(), account)
	}
	c.JSON(http.StatusOK, gin.H{"imported": len(doc.Collections)})
}

func (h *handler) ListAssetGroups(c *gin.Context) {
	account, _, err := h.sessions.Account()
	if err != nil {
		respondOperationError(c, err)
		return
	}
	groups, err := h.query.ListAssetGroups(c.Request.Context(), account)
	if err != nil {
		respondOperationError(c, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

type saveAssetGroupRequest struct {
	Group domain.AssetGroup `json:"group" binding:"required"`
}

func (h *handler) SaveAssetGroup(c *gin.Context) {
	var req saveAssetGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body", err.Error())
		return
	}

	auth, err := h.signAction(c, domain.ActionSaveQuery)
	if err != nil {
		respondOperationError(c, err)
		return
	}

	req.Group.Owner = auth.Account
	if err := h.forwarder.SaveQuery(c.Request.Context(), forwarder.SaveQueryRequest{
		Auth:  *auth,
		Group: req.Group,
	}); err != nil {
		respondOperationError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"saved": true})
}

func (h *handler) EligibleAccounts(c *gin.Context) {
	accounts, err := h.query.EligibleAccounts(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondOperationError(c, err)
		return
	}
	c.JSON(http.StatusOK, accounts)
}

type registerContractRequest struct {
	Source   string `json:"source" binding:"required"`
	Contract string `json:"contract" binding:"required"`
	Type     string `json:"type" binding:"required"`
}

func (h *handler) RegisterContract(c *gin.Context) {
	var req registerContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body", err.Error())
		return
	}

	auth, err := h.signAction(c, domain.ActionRegisterContract)
	if err != nil {
		respondOperationError(c, err)
		return
	}

	if err := h.forwarder.RegisterContract(c.Request.Context(), forwarder.RegisterContractRequest{
		Auth:     *auth,
		Source:   req.Source,
		Contract: req.Contract,
		Type:     req.Type,
	}); err != nil {
		respondOperationError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"registered": true})
}

func (h *handler) ListContracts(c *gin.Context) {
	contracts, err := h.query.ListContracts(c.Request.Context(), c.Query("source"))
	if err != nil {
		respondOperationError(c, err)
		return
	}
	c.JSON(http.StatusOK, contracts)
}

func (h *handler) ListModules(c *gin.Context) {
	modules, err := h.megadata.ListModules(c.Request.Context())
	if err != nil {
		respondOperationError(c, err)
		return
	}
	c.JSON(http.StatusOK, modules)
}

func (h *handler) ValidateModule(c *gin.Context) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "invalid module payload", err.Error())
		return
	}

	if err := h.megadata.ValidateModule(c.Request.Context(), c.Param("name"), payload); err != nil {
		respondOperationError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true})
}

// signAction builds one action-tagged SignatureData from the primary session
func (h *handler) signAction(c *gin.Context, tag domain.ActionTag) (*domain.SignatureData, error) {
	account, family, err := h.sessions.Account()
	if err != nil {
		return nil, err
	}

	timestamp := h.clock.NowMillis()
	message := domain.ActionMessage(tag, account, timestamp)
	signature, err := h.sessions.SignMessage(c.Request.Context(), message)
	if err != nil {
		return nil, err
	}

	return &domain.SignatureData{
		Type:      family,
		Timestamp: timestamp,
		Account:   account,
		Signature: signature,
	}, nil
}
