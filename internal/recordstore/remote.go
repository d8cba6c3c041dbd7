package recordstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/campus-suite/registry-service/internal/cache"
)

// RemoteConfig holds the connection settings for the hosted record store.
// Constructed from environment by internal/config and injected; nothing in
// the codebase reaches for an ambient client.
type RemoteConfig struct {
	Endpoint  string
	ProjectID string
	APIKey    string
	Timeout   time.Duration
}

// RemoteGateway talks to the hosted record store over its JSON batch
// protocol. Reads of single records go through an optional Redis
// read-through cache; mutations invalidate the affected entry.
type RemoteGateway struct {
	config RemoteConfig
	client *http.Client
	cache  *cache.CacheHelper
	logger *slog.Logger

	cacheTTL time.Duration
}

func NewRemoteGateway(config RemoteConfig, redisClient *redis.Client, logger *slog.Logger) *RemoteGateway {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &RemoteGateway{
		config:   config,
		client:   &http.Client{Timeout: timeout},
		cache:    cache.NewCacheHelper(redisClient, "record:"),
		logger:   logger,
		cacheTTL: 5 * time.Minute,
	}
}

// ===== WIRE TYPES =====

type orderBy struct {
	FieldName string `json:"fieldName"`
	SortType  string `json:"sorttype"`
}

type pagingInfo struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

type whereClause struct {
	FieldName string `json:"FieldName"`
	Operator  string `json:"Operator"`
	Values    []any  `json:"Values"`
}

type fetchParams struct {
	OrderBy    []orderBy     `json:"orderBy,omitempty"`
	PagingInfo *pagingInfo   `json:"pagingInfo,omitempty"`
	Where      []whereClause `json:"where,omitempty"`
}

type mutateParams struct {
	Records []Record `json:"records"`
}

type deleteParams struct {
	RecordIDs []int `json:"RecordIds"`
}

type fieldError struct {
	FieldLabel string `json:"fieldLabel"`
	Message    string `json:"message"`
}

type recordResult struct {
	Success bool         `json:"success"`
	Data    Record       `json:"data"`
	Errors  []fieldError `json:"errors"`
	Message string       `json:"message"`
}

// envelope is the store's response shape for every operation. Callers must
// check the top-level success flag and then each per-record result.
type envelope struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    json.RawMessage `json:"data"`
	Results []recordResult `json:"results"`
}

// ===== TRANSPORT =====

func (g *RemoteGateway) call(ctx context.Context, method, path string, body any) (*envelope, error) {
	var buf io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		buf = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.config.Endpoint+path, buf)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Project-Id", g.config.ProjectID)
	req.Header.Set("Authorization", "Bearer "+g.config.APIKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("%w: status %d", ErrRemoteFailure, resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrRemoteFailure, err)
	}
	return &env, nil
}

// firstResult validates a batch response and returns the data of its first
// record. When the record failed, the first field error wins; the remainder
// are logged rather than aggregated.
func (g *RemoteGateway) firstResult(table string, env *envelope) (Record, error) {
	if !env.Success {
		return nil, fmt.Errorf("%w: %s", ErrRemoteFailure, env.Message)
	}
	if len(env.Results) == 0 {
		return nil, fmt.Errorf("%w: empty batch result", ErrRemoteFailure)
	}

	res := env.Results[0]
	if res.Success {
		return res.Data, nil
	}

	if len(res.Errors) > 0 {
		for _, extra := range res.Errors[1:] {
			g.logger.Warn("additional field error suppressed",
				"table", table, "field", extra.FieldLabel, "message", extra.Message)
		}
		return nil, &FieldValidationError{
			Table:   table,
			Field:   res.Errors[0].FieldLabel,
			Message: res.Errors[0].Message,
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrRemoteFailure, res.Message)
}

// ===== GATEWAY OPERATIONS =====

func (g *RemoteGateway) List(ctx context.Context, table string, opts ListOptions) ([]Record, error) {
	params := fetchParams{}
	if opts.OrderBy != "" {
		sortType := "ASC"
		if opts.Descending {
			sortType = "DESC"
		}
		params.OrderBy = []orderBy{{FieldName: opts.OrderBy, SortType: sortType}}
	}
	if opts.Limit > 0 || opts.Offset > 0 {
		params.PagingInfo = &pagingInfo{Limit: opts.Limit, Offset: opts.Offset}
	}
	for _, c := range opts.Where {
		params.Where = append(params.Where, whereClause{
			FieldName: c.Field,
			Operator:  "EqualTo",
			Values:    []any{c.Equals},
		})
	}

	env, err := g.call(ctx, http.MethodPost, "/api/records/"+table+"/fetch", params)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, fmt.Errorf("%w: %s", ErrRemoteFailure, env.Message)
	}

	// No rows is an empty sequence, not an error.
	var recs []Record
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &recs); err != nil {
			return nil, fmt.Errorf("%w: decode records: %v", ErrRemoteFailure, err)
		}
	}
	if recs == nil {
		recs = []Record{}
	}
	return recs, nil
}

func (g *RemoteGateway) GetByID(ctx context.Context, table string, id any) (Record, error) {
	n, err := CoerceID(id)
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("%s:%d", table, n)
	var cached Record
	if err := g.cache.Get(ctx, cacheKey, &cached); err == nil && cached != nil {
		return cached, nil
	}

	env, err := g.call(ctx, http.MethodGet, fmt.Sprintf("/api/records/%s/%d", table, n), nil)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, fmt.Errorf("%w: %s", ErrRemoteFailure, env.Message)
	}

	var rec Record
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &rec); err != nil {
			return nil, fmt.Errorf("%w: decode record: %v", ErrRemoteFailure, err)
		}
	}
	if rec == nil {
		return nil, fmt.Errorf("%s id %d: %w", table, n, ErrNotFound)
	}

	if err := g.cache.Set(ctx, cacheKey, rec, g.cacheTTL); err != nil {
		g.logger.Warn("record cache set failed", "table", table, "id", n, "error", err)
	}
	return rec, nil
}

// Create submits the record as a single-element batch and returns the
// persisted record including its assigned identity.
func (g *RemoteGateway) Create(ctx context.Context, table string, rec Record) (Record, error) {
	env, err := g.call(ctx, http.MethodPost, "/api/records/"+table, mutateParams{Records: []Record{rec}})
	if err != nil {
		return nil, err
	}
	return g.firstResult(table, env)
}

// Update submits the record, which must include its immutable identity,
// with the same batch semantics as Create.
func (g *RemoteGateway) Update(ctx context.Context, table string, id any, rec Record) (Record, error) {
	n, err := CoerceID(id)
	if err != nil {
		return nil, err
	}

	payload := rec.Clone()
	payload["Id"] = n

	env, err := g.call(ctx, http.MethodPut, "/api/records/"+table, mutateParams{Records: []Record{payload}})
	if err != nil {
		return nil, err
	}
	updated, err := g.firstResult(table, env)
	if err != nil {
		return nil, err
	}

	if err := g.cache.Delete(ctx, fmt.Sprintf("%s:%d", table, n)); err != nil {
		g.logger.Warn("record cache invalidation failed", "table", table, "id", n, "error", err)
	}
	return updated, nil
}

// Delete reports true iff at least one record was deleted. "Not found" is a
// false return, never an error; only transport or backend failures error.
func (g *RemoteGateway) Delete(ctx context.Context, table string, id any) (bool, error) {
	n, err := CoerceID(id)
	if err != nil {
		return false, err
	}

	env, err := g.call(ctx, http.MethodDelete, "/api/records/"+table, deleteParams{RecordIDs: []int{n}})
	if err != nil {
		return false, err
	}
	if !env.Success {
		return false, fmt.Errorf("%w: %s", ErrRemoteFailure, env.Message)
	}

	deleted := false
	for _, res := range env.Results {
		if res.Success {
			deleted = true
		} else if res.Message != "" {
			g.logger.Warn("record delete rejected", "table", table, "id", n, "message", res.Message)
		}
	}
	if deleted {
		if err := g.cache.Delete(ctx, fmt.Sprintf("%s:%d", table, n)); err != nil {
			g.logger.Warn("record cache invalidation failed", "table", table, "id", n, "error", err)
		}
	}
	return deleted, nil
}

func (g *RemoteGateway) Ping(ctx context.Context) error {
	env, err := g.call(ctx, http.MethodGet, "/api/health", nil)
	if err != nil {
		return err
	}
	if !env.Success {
		return fmt.Errorf("%w: %s", ErrRemoteFailure, env.Message)
	}
	return nil
}

func (g *RemoteGateway) Close() error {
	g.client.CloseIdleConnections()
	return nil
}

var _ Gateway = (*RemoteGateway)(nil)
