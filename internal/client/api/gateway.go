// Package api implements the request gateway: the single choke point for
// all backend calls. It attaches the session token, classifies outcomes,
// mirrors successful responses into the local record store, and falls back
// to the durable sync queue for mutations attempted while offline.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dukaanly/possync/internal/client/models"
	"github.com/dukaanly/possync/internal/client/repositories/records"
	"github.com/dukaanly/possync/internal/client/repositories/syncqueue"
	"github.com/dukaanly/possync/internal/client/session"
	"github.com/dukaanly/possync/internal/common"
	"github.com/dukaanly/possync/internal/logging"
)

// MutationResult reports the outcome of a mutating call. Deferred means the
// call was queued for sync instead of rejected; callers must treat that as
// a pending success, not an error. Record is the mirrored (or placeholder)
// entity, nil for deletes.
type MutationResult struct {
	Deferred bool
	Record   *models.Record
}

type Gateway struct {
	baseURL string
	http    *http.Client
	session *session.Session
	online  func() bool
	records records.Repository
	queue   syncqueue.Repository
	log     logging.Logger
}

// New builds a Gateway. online is the connectivity monitor's current-state
// accessor; timeout bounds every network attempt so a hung connection is
// indistinguishable from a failed one.
func New(baseURL string, timeout time.Duration, sess *session.Session, online func() bool,
	recordsRepo records.Repository, queueRepo syncqueue.Repository, log logging.Logger) *Gateway {
	return &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		session: sess,
		online:  online,
		records: recordsRepo,
		queue:   queueRepo,
		log:     log,
	}
}

// isAuthEndpoint reports whether a 401 from this endpoint means rejected
// credentials rather than an expired session.
func isAuthEndpoint(endpoint string) bool {
	return strings.HasPrefix(endpoint, "/auth/login") || strings.HasPrefix(endpoint, "/auth/register")
}

// do performs one network attempt and classifies the response. On 401 from
// a protected endpoint it clears the session before reporting
// common.ErrAuthRequired.
func (g *Gateway) do(ctx context.Context, method, endpoint string, headers map[string]string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if token := g.session.Token(); token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	resp, err := g.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return respBody, nil

	case resp.StatusCode == http.StatusUnauthorized:
		apiErr := parseAPIError(resp.StatusCode, respBody)
		if isAuthEndpoint(endpoint) {
			// credentials rejected, the existing session stays untouched
			return nil, apiErr
		}
		if err := g.session.Clear(ctx); err != nil {
			g.log.Error(ctx, "failed to clear session after 401", "error", err)
		}
		return nil, fmt.Errorf("%w: %s", common.ErrAuthRequired, apiErr.Error())

	default:
		return nil, parseAPIError(resp.StatusCode, respBody)
	}
}

// Ping probes backend reachability. Used by the connectivity monitor. The
// probe bypasses do and its auth guard: the health endpoint needs no token,
// and a stray 401 from an intercepting proxy must never invalidate the
// session.
func (g *Gateway) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/healthz", nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := g.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("health endpoint returned status %d", resp.StatusCode)
	}
	return nil
}

// Login authenticates with form-encoded credentials (the one endpoint that
// is not JSON) and stores the returned bearer token in the session.
func (g *Gateway) Login(ctx context.Context, username, password string) error {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	respBody, err := g.do(ctx, http.MethodPost, "/auth/login",
		map[string]string{"Content-Type": "application/x-www-form-urlencoded"},
		[]byte(form.Encode()))
	if err != nil {
		return err
	}

	var tok models.TokenResponse
	if err := json.Unmarshal(respBody, &tok); err != nil {
		return fmt.Errorf("failed to decode token response: %w", err)
	}
	if tok.AccessToken == "" {
		return errors.New("login response carried no access token")
	}

	return g.session.SetToken(ctx, tok.AccessToken)
}

// Register creates a new account. Like login, a 401/422 here never touches
// the session.
func (g *Gateway) Register(ctx context.Context, req models.RegisterRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal register request: %w", err)
	}
	_, err = g.do(ctx, http.MethodPost, "/auth/register",
		map[string]string{"Content-Type": "application/json"}, body)
	return err
}

// Me fetches the authenticated user.
func (g *Gateway) Me(ctx context.Context) (*models.UserInfo, error) {
	respBody, err := g.do(ctx, http.MethodGet, "/auth/me", nil, nil)
	if err != nil {
		return nil, err
	}
	var user models.UserInfo
	if err := json.Unmarshal(respBody, &user); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}
	return &user, nil
}

// Mutate issues a POST/PUT/DELETE for one entity. recordID names the local
// mirror row the call concerns (empty for creates).
//
// Offline, the exact request is queued and, for creates, an optimistic
// placeholder record is persisted; the result comes back Deferred. Online,
// a 2xx response is mirrored into the record store before returning.
func (g *Gateway) Mutate(ctx context.Context, entity models.EntityType, method, endpoint, recordID string, payload any) (*MutationResult, error) {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal payload: %w", err)
		}
	}

	if !g.online() {
		return g.queueMutation(ctx, entity, method, endpoint, recordID, body)
	}

	respBody, err := g.do(ctx, method, endpoint,
		map[string]string{"Content-Type": "application/json"}, body)
	if err != nil {
		return nil, err
	}

	rec, err := g.mirror(ctx, entity, method, recordID, respBody)
	if err != nil {
		// the server accepted the write; a failed mirror only degrades
		// offline reads until the next successful fetch
		g.log.Warn(ctx, "failed to mirror response", "entity", entity, "error", err)
	}
	return &MutationResult{Record: rec}, nil
}

// queueMutation persists the request for later replay instead of attempting it.
func (g *Gateway) queueMutation(ctx context.Context, entity models.EntityType, method, endpoint, recordID string, body []byte) (*MutationResult, error) {
	var placeholder *models.Record

	if method == http.MethodPost {
		localID := models.NewLocalID()
		stamped, err := models.WithID(body, localID)
		if err != nil {
			return nil, fmt.Errorf("failed to stamp placeholder id: %w", err)
		}
		placeholder = &models.Record{ID: localID, Payload: stamped, Pending: true}
		if err := g.records.Put(ctx, entity, placeholder); err != nil {
			return nil, fmt.Errorf("failed to persist optimistic record: %w", err)
		}
		recordID = localID
	}

	item := &models.QueueItem{
		Endpoint:   endpoint,
		Method:     method,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       body,
		EntityType: entity,
		RecordID:   recordID,
		CreatedAt:  time.Now(),
	}
	if _, err := g.queue.Enqueue(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to enqueue mutation: %w", err)
	}

	g.log.Info(ctx, "mutation queued for sync",
		"method", method, "endpoint", endpoint, "queue_id", item.ID)
	return &MutationResult{Deferred: true, Record: placeholder}, nil
}

// mirror applies a successful mutation response to the local store.
func (g *Gateway) mirror(ctx context.Context, entity models.EntityType, method, recordID string, respBody []byte) (*models.Record, error) {
	if method == http.MethodDelete {
		if recordID == "" {
			return nil, nil
		}
		return nil, g.records.Delete(ctx, entity, recordID)
	}

	id, ok := models.ExtractID(respBody)
	if !ok {
		return nil, fmt.Errorf("response carried no entity id")
	}
	rec := &models.Record{ID: id, Payload: respBody, Pending: false}
	if err := g.records.Put(ctx, entity, rec); err != nil {
		return rec, err
	}
	return rec, nil
}

// Replay re-issues a queued mutation. Online path only: it never consults
// the connectivity signal and never re-queues; the replayer decides what a
// failure means. On success the store is reconciled — for creates the
// placeholder record is atomically replaced by the server-issued one.
func (g *Gateway) Replay(ctx context.Context, item *models.QueueItem) (*models.Record, error) {
	respBody, err := g.do(ctx, item.Method, item.Endpoint, item.Headers, item.Body)
	if err != nil {
		return nil, err
	}

	switch {
	case item.Method == http.MethodDelete:
		if err := g.records.Delete(ctx, item.EntityType, item.RecordID); err != nil {
			return nil, err
		}
		return nil, nil

	case item.IsCreate():
		id, ok := models.ExtractID(respBody)
		if !ok {
			return nil, fmt.Errorf("replayed create returned no entity id")
		}
		rec := &models.Record{ID: id, Payload: respBody, Pending: false}
		if err := g.records.Replace(ctx, item.EntityType, item.RecordID, rec); err != nil {
			return nil, err
		}
		return rec, nil

	default:
		rec, err := g.mirror(ctx, item.EntityType, item.Method, item.RecordID, respBody)
		if err != nil {
			return nil, err
		}
		return rec, nil
	}
}

// FetchAll reads an entity collection. Online, the response refreshes the
// local mirror and is returned; on any failure (or while offline) the
// current mirror contents are returned instead, so reads degrade
// gracefully while writes degrade explicitly.
func (g *Gateway) FetchAll(ctx context.Context, entity models.EntityType, endpoint string) ([]models.Record, error) {
	if g.online() {
		respBody, err := g.do(ctx, http.MethodGet, endpoint, nil, nil)
		if err == nil {
			err = g.mirrorCollection(ctx, entity, respBody)
		}
		if err != nil {
			g.log.Warn(ctx, "read fell back to local mirror", "entity", entity, "error", err)
		}
	}

	// the mirror now holds server records plus any pending offline creates
	return g.records.GetAll(ctx, entity)
}

func (g *Gateway) mirrorCollection(ctx context.Context, entity models.EntityType, respBody []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(respBody, &items); err != nil {
		return fmt.Errorf("failed to decode collection: %w", err)
	}

	for _, item := range items {
		id, ok := models.ExtractID(item)
		if !ok {
			continue
		}
		if err := g.records.Put(ctx, entity, &models.Record{ID: id, Payload: item, Pending: false}); err != nil {
			return err
		}
	}
	return nil
}
