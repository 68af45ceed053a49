// Package elastic implements db.Engine on an Elasticsearch cluster.
package elastic

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	es "github.com/olivere/elastic/v7"

	"github.com/kailas-cloud/searchable/internal/db"
)

// Compile-time check: Engine implements db.Engine.
var _ db.Engine = (*Engine)(nil)

// DefaultTimeout bounds a single HTTP round trip when the caller sets none.
const DefaultTimeout = 30 * time.Second

// Config holds cluster connection settings.
type Config struct {
	Hosts    []string // default http://127.0.0.1:9200
	Username string
	Password string
	Sniff    bool
	Timeout  time.Duration

	// HTTPClient overrides the transport (tests).
	HTTPClient *http.Client
}

// Engine talks to Elasticsearch through olivere/elastic.
// Requests carry the caller's context; there are no retries.
type Engine struct {
	client *es.Client
	hosts  []string
}

// NewEngine creates a client. It does not contact the cluster; use Ping.
func NewEngine(cfg Config) (*Engine, error) {
	hosts := normalizeHosts(cfg.Hosts)

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	opts := []es.ClientOptionFunc{
		es.SetURL(hosts...),
		es.SetSniff(cfg.Sniff),
		es.SetHealthcheck(false),
		es.SetHttpClient(httpClient),
		es.SetRetrier(es.NewStopRetrier()),
	}
	if cfg.Username != "" {
		opts = append(opts, es.SetBasicAuth(cfg.Username, cfg.Password))
	}

	client, err := es.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}
	return &Engine{client: client, hosts: hosts}, nil
}

func normalizeHosts(hosts []string) []string {
	out := make([]string, 0, len(hosts))
	for _, h := range hosts {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if !strings.Contains(h, "://") {
			h = "http://" + h
		}
		out = append(out, strings.TrimSuffix(h, "/"))
	}
	if len(out) == 0 {
		out = append(out, es.DefaultURL)
	}
	return out
}

// Ping checks that the first host answers.
func (e *Engine) Ping(ctx context.Context) error {
	_, code, err := e.client.Ping(e.hosts[0]).Do(ctx)
	if err != nil {
		return classify(db.OpPing, err)
	}
	if code >= http.StatusBadRequest {
		return db.Unavailable(db.OpPing, fmt.Errorf("status %d", code))
	}
	return nil
}

// Search runs {index, type, size, query} and returns hits in engine order.
func (e *Engine) Search(ctx context.Context, req *db.SearchRequest) (*db.SearchResponse, error) {
	if req.Query == nil {
		return nil, db.Rejected(db.OpSearch, errors.New("query is required"))
	}

	svc := e.client.Search(req.Index).Query(req.Query)
	if req.Type != "" {
		svc = svc.Type(req.Type)
	}
	if req.Size != nil {
		svc = svc.Size(*req.Size)
	}

	res, err := svc.Do(ctx)
	if err != nil {
		return nil, classify(db.OpSearch, err)
	}

	out := &db.SearchResponse{}
	if res.Hits == nil {
		return out, nil
	}
	if res.Hits.TotalHits != nil {
		out.Total = res.Hits.TotalHits.Value
	}
	out.Hits = make([]db.SearchHit, 0, len(res.Hits.Hits))
	for _, h := range res.Hits.Hits {
		var score float64
		if h.Score != nil {
			score = *h.Score
		}
		out.Hits = append(out.Hits, db.SearchHit{ID: h.Id, Score: score})
	}
	return out, nil
}

// Index writes {index, type, id, body}.
func (e *Engine) Index(ctx context.Context, req *db.IndexRequest) error {
	svc := e.client.Index().Index(req.Index).Id(req.ID).BodyJson(req.Body)
	if req.Type != "" {
		svc = svc.Type(req.Type)
	}
	if _, err := svc.Do(ctx); err != nil {
		return classify(db.OpIndex, err)
	}
	return nil
}

// Delete removes {index, type, id}. A missing document is not an error.
func (e *Engine) Delete(ctx context.Context, index, typ, id string) error {
	svc := e.client.Delete().Index(index).Id(id)
	if typ != "" {
		svc = svc.Type(typ)
	}
	if _, err := svc.Do(ctx); err != nil {
		if es.IsNotFound(err) {
			return nil
		}
		return classify(db.OpDelete, err)
	}
	return nil
}

// DeleteAll removes every document of {index, type}. Mapping deletion no
// longer exists in Elasticsearch, a match_all delete-by-query replaces it.
func (e *Engine) DeleteAll(ctx context.Context, index, typ string) error {
	svc := e.client.DeleteByQuery(index).
		Query(es.NewMatchAllQuery()).
		ProceedOnVersionConflict()
	if typ != "" {
		svc = svc.Type(typ)
	}
	if _, err := svc.Do(ctx); err != nil {
		if es.IsNotFound(err) {
			return nil
		}
		return classify(db.OpDeleteAll, err)
	}
	return nil
}

// Close stops background client goroutines.
func (e *Engine) Close() error {
	e.client.Stop()
	return nil
}

// classify maps client errors onto db.ErrRejected (4xx except timeouts and
// throttling) or db.ErrUnavailable (everything else).
func classify(op string, err error) error {
	var ee *es.Error
	if errors.As(err, &ee) {
		switch {
		case ee.Status == http.StatusRequestTimeout, ee.Status == http.StatusTooManyRequests:
			return db.Unavailable(op, err)
		case ee.Status >= http.StatusBadRequest && ee.Status < http.StatusInternalServerError:
			return db.Rejected(op, err)
		}
	}
	return db.Unavailable(op, err)
}
