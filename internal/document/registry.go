package document

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"docchat/internal/api"
	"docchat/internal/debug"
	"docchat/internal/events"
	"docchat/internal/pubsub"
)

// ErrNotFound is returned when a registry operation references a document
// that is no longer present.
var ErrNotFound = errors.New("document not found")

// Registry is the client-side mirror of the server's document list plus
// the selected chat scope. The server list is authoritative: Refresh
// replaces it rather than merging. Locally created placeholders that the
// server has not acknowledged yet (no remote key) are carried across a
// refresh so an in-flight or failed upload never silently vanishes.
type Registry struct {
	client *api.Client
	cache  *Cache
	hub    *pubsub.Hub

	mu     sync.RWMutex
	docs   []*Document
	scope  string
	userID string
}

// NewRegistry creates a registry over the given collaborators. cache may
// be nil when no local database is available.
func NewRegistry(client *api.Client, cache *Cache, hub *pubsub.Hub) *Registry {
	return &Registry{
		client: client,
		cache:  cache,
		hub:    hub,
		scope:  ScopeAll,
	}
}

// SetUser binds the registry to a user identity. Any previous state is
// dropped; cached documents for the new user are loaded for instant
// render until the first refresh.
func (r *Registry) SetUser(ctx context.Context, userID string) {
	r.mu.Lock()
	r.userID = userID
	r.docs = nil
	r.scope = ScopeAll
	r.mu.Unlock()

	if r.cache == nil || userID == "" {
		return
	}

	cached, err := r.cache.Load(ctx, userID)
	if err != nil {
		debug.Error("document", err, "loading cache")
		return
	}
	if len(cached) == 0 {
		return
	}

	r.mu.Lock()
	if r.userID == userID && r.docs == nil {
		r.docs = cached
	}
	r.mu.Unlock()
	r.publishRefreshed(userID, len(cached))
}

// Reset clears all registry state, for logout. The cached listing for
// the signed-out user is dropped with it; a signed-out account leaves no
// document names on disk.
func (r *Registry) Reset(ctx context.Context) {
	r.mu.Lock()
	userID := r.userID
	r.userID = ""
	r.docs = nil
	r.scope = ScopeAll
	r.mu.Unlock()

	if r.cache != nil && userID != "" {
		if err := r.cache.Clear(ctx, userID); err != nil {
			debug.Error("document", err, "clearing cache")
		}
	}
}

// Refresh fetches the authoritative list and replaces local state. Local
// identifiers are kept stable for entries matched by remote key, so UI
// selection survives. A selected scope that no longer exists resets to
// ScopeAll.
func (r *Registry) Refresh(ctx context.Context) error {
	r.mu.RLock()
	userID := r.userID
	r.mu.RUnlock()
	if userID == "" {
		return nil
	}

	infos, err := r.client.Documents(ctx)
	if err != nil {
		return fmt.Errorf("refreshing documents: %w", err)
	}

	// Newest first.
	sort.SliceStable(infos, func(i, j int) bool {
		return infos[i].LastModified > infos[j].LastModified
	})

	r.mu.Lock()
	if r.userID != userID {
		// User changed while the request was outstanding; drop the result.
		r.mu.Unlock()
		return nil
	}

	byKey := make(map[string]*Document, len(r.docs))
	var pending []*Document
	for _, doc := range r.docs {
		if doc.Remote() {
			byKey[doc.RemoteKey] = doc
		} else {
			pending = append(pending, doc)
		}
	}

	fresh := make([]*Document, 0, len(infos)+len(pending))
	fresh = append(fresh, pending...)
	present := make(map[string]bool, len(infos))
	for i := range infos {
		info := &infos[i]
		key := info.S3Key
		if key == "" {
			key = info.ID
		}
		present[key] = true

		id := uuid.New().String()
		if prev, ok := byKey[key]; ok {
			id = prev.ID
		}

		fresh = append(fresh, &Document{
			ID:           id,
			Name:         info.Name,
			Size:         info.Size,
			SizeReadable: info.SizeReadable,
			Status:       StatusCompleted,
			RemoteKey:    key,
			SourceURI:    info.SourceURI,
			LastModified: info.LastModified,
		})
	}
	r.docs = fresh

	if r.scope != ScopeAll && !present[r.scope] {
		r.scope = ScopeAll
	}
	scope := r.scope
	docs := r.snapshotLocked()
	r.mu.Unlock()

	if r.cache != nil {
		if err := r.cache.Replace(ctx, userID, docs); err != nil {
			debug.Error("document", err, "replacing cache")
		}
	}

	r.publishRefreshed(userID, len(docs))
	debug.Event("document", "refresh", fmt.Sprintf("count=%d scope=%s", len(docs), scope))
	return nil
}

// Select sets the chat scope. A reference to a document that does not
// exist falls back to ScopeAll with a warning instead of failing.
func (r *Registry) Select(scope string) {
	r.mu.Lock()
	userID := r.userID
	if scope == ScopeAll || r.hasKeyLocked(scope) {
		r.scope = scope
	} else {
		r.scope = ScopeAll
		scope = ScopeAll
		r.mu.Unlock()
		r.notify(events.NoticeWarning, "Selected document is no longer available")
		r.publishScope(userID, scope)
		return
	}
	r.mu.Unlock()

	r.publishScope(userID, scope)
}

// SelectedScope returns ScopeAll or the remote key of the focused document.
func (r *Registry) SelectedScope() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.scope
}

// Remove deletes a document on the server. The entry is marked deleting
// optimistically; on failure its previous status is restored and the
// entry stays visible. Entries the server never acknowledged (failed
// uploads) only exist locally and are dropped without a server call.
// The caller is responsible for user confirmation.
func (r *Registry) Remove(ctx context.Context, reference string) error {
	r.mu.Lock()
	userID := r.userID
	doc := r.findLocked(reference)
	if doc == nil {
		r.mu.Unlock()
		return ErrNotFound
	}
	if !doc.Remote() {
		name := doc.Name
		for i, d := range r.docs {
			if d.ID == doc.ID {
				r.docs = append(r.docs[:i], r.docs[i+1:]...)
				break
			}
		}
		r.mu.Unlock()

		r.publishEvent(events.NewDocumentDeletedEvent(userID, "", name))
		r.notify(events.NoticeSuccess, "File removed")
		return nil
	}
	prev := doc.Status
	doc.Status = StatusDeleting
	key, name := doc.RemoteKey, doc.Name
	r.mu.Unlock()

	if err := r.client.Delete(ctx, key, name); err != nil {
		r.mu.Lock()
		// Re-resolve: the entry may have been replaced by a refresh while
		// the request was outstanding.
		if cur := r.findLocked(reference); cur != nil && cur.Status == StatusDeleting {
			cur.Status = prev
		}
		r.mu.Unlock()

		r.publishEvent(events.NewDeleteFailedEvent(userID, key, name, err))
		r.notify(events.NoticeError, fmt.Sprintf("Delete failed: %v", err))
		return fmt.Errorf("deleting %s: %w", name, err)
	}

	r.mu.Lock()
	for i, d := range r.docs {
		if d.RemoteKey == key && key != "" || d.ID == reference {
			r.docs = append(r.docs[:i], r.docs[i+1:]...)
			break
		}
	}
	if r.scope == key {
		r.scope = ScopeAll
	}
	r.mu.Unlock()

	r.publishEvent(events.NewDocumentDeletedEvent(userID, key, name))
	r.notify(events.NoticeSuccess, "File deleted")
	return nil
}

// ResolveName looks up a document's display name by local identifier,
// remote key, or URI suffix. Returns empty when nothing matches.
func (r *Registry) ResolveName(reference string) string {
	if reference == "" || reference == ScopeAll {
		return ""
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, doc := range r.docs {
		if doc.ID == reference || (doc.RemoteKey != "" && doc.RemoteKey == reference) {
			return doc.Name
		}
	}
	for _, doc := range r.docs {
		if doc.SourceURI != "" && strings.HasSuffix(doc.SourceURI, reference) {
			return doc.Name
		}
		if doc.RemoteKey != "" && strings.HasSuffix(reference, doc.RemoteKey) {
			return doc.Name
		}
	}
	return ""
}

// Documents returns a snapshot of the current list, newest first with
// pending placeholders at the top.
func (r *Registry) Documents() []*Document {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshotLocked()
}

// AddPlaceholder inserts a locally created placeholder at the head of the
// list, used by the upload coordinator before the server acknowledges.
func (r *Registry) AddPlaceholder(doc *Document) {
	r.mu.Lock()
	r.docs = append([]*Document{doc}, r.docs...)
	r.mu.Unlock()
}

// UpdatePlaceholder applies fn to the placeholder with the given local ID,
// if it still exists. Returns false when it was superseded (for example by
// a logout that cleared the registry): a late completion must be ignorable.
func (r *Registry) UpdatePlaceholder(id string, fn func(*Document)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, doc := range r.docs {
		if doc.ID == id {
			fn(doc)
			return true
		}
	}
	return false
}

// UserID returns the bound user identity.
func (r *Registry) UserID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.userID
}

func (r *Registry) snapshotLocked() []*Document {
	out := make([]*Document, len(r.docs))
	for i, doc := range r.docs {
		copied := *doc
		out[i] = &copied
	}
	return out
}

func (r *Registry) findLocked(reference string) *Document {
	for _, doc := range r.docs {
		if doc.ID == reference || (doc.RemoteKey != "" && doc.RemoteKey == reference) {
			return doc
		}
	}
	return nil
}

func (r *Registry) hasKeyLocked(key string) bool {
	for _, doc := range r.docs {
		if doc.RemoteKey != "" && doc.RemoteKey == key {
			return true
		}
	}
	return false
}

func (r *Registry) publishRefreshed(userID string, count int) {
	r.publishEvent(events.NewDocumentsRefreshedEvent(userID, count))
}

func (r *Registry) publishScope(userID, scope string) {
	r.publishEvent(events.NewScopeChangedEvent(userID, scope))
}

func (r *Registry) publishEvent(ev events.DocumentEvent) {
	if r.hub != nil {
		r.hub.Document.Publish(pubsub.EventUpdated, ev)
	}
}

func (r *Registry) notify(level events.NoticeLevel, msg string) {
	if r.hub != nil {
		r.hub.Notice.Publish(pubsub.EventCreated, events.NewNotice(level, msg))
	}
}
