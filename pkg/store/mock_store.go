package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/adfharrison1/go-catalog/pkg/domain"
)

// ErrUnreachable is the transport error MockStore returns while SetUnreachable(true).
var ErrUnreachable = errors.New("dial tcp 127.0.0.1:9200: connect: connection refused")

// BulkItemError is an item failure MockStore injects into a bulk response
type BulkItemError struct {
	Type   string
	Reason string
	Status int
}

type mockCollection struct {
	ids     []string
	docs    map[string]domain.Document
	mapping interface{}
	deleted int
}

// MockStore is an in-memory domain.Store answering with the same response
// shapes as Elasticsearch. It backs the core and handler tests and can run a
// server without a cluster.
type MockStore struct {
	mu          sync.RWMutex
	collections map[string]*mockCollection
	nextID      int
	unreachable bool

	deleteCollectionFailures map[string]int
	bulkFailures             map[int]BulkItemError

	ops []string
}

// NewMockStore creates an empty mock store
func NewMockStore() *MockStore {
	return &MockStore{
		collections:              make(map[string]*mockCollection),
		deleteCollectionFailures: make(map[string]int),
		bulkFailures:             make(map[int]BulkItemError),
	}
}

// SetUnreachable makes every call fail with ErrUnreachable
func (m *MockStore) SetUnreachable(unreachable bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unreachable = unreachable
}

// FailCollectionDelete makes DeleteCollection(collection) answer with status
func (m *MockStore) FailCollectionDelete(collection string, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteCollectionFailures[collection] = status
}

// FailBulkItem rejects the item at position in every following bulk call
func (m *MockStore) FailBulkItem(position int, itemErr BulkItemError) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bulkFailures[position] = itemErr
}

// Put stores doc under id, creating the collection if needed
func (m *MockStore) Put(collection, id string, doc domain.Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.ensureCollection(collection)
	c.put(id, doc)
}

// AddCollection creates an empty collection without going through the op log
func (m *MockStore) AddCollection(collection string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureCollection(collection)
}

// RemoveCollection drops a collection without going through the op log
func (m *MockStore) RemoveCollection(collection string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.collections, collection)
}

// HasCollection reports whether collection exists
func (m *MockStore) HasCollection(collection string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.collections[collection]
	return ok
}

// Document returns a copy of a stored document
func (m *MockStore) Document(collection, id string) (domain.Document, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.collections[collection]
	if !ok {
		return nil, false
	}
	doc, ok := c.docs[id]
	if !ok {
		return nil, false
	}
	return copyDocument(doc), true
}

// DocumentCount returns the number of documents in collection
func (m *MockStore) DocumentCount(collection string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.collections[collection]
	if !ok {
		return 0
	}
	return len(c.ids)
}

// Operations returns the log of calls as "op target" strings, oldest first
func (m *MockStore) Operations() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.ops))
	copy(out, m.ops)
	return out
}

// ResetOperations clears the call log
func (m *MockStore) ResetOperations() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ops = nil
}

func (m *MockStore) record(op, target string) error {
	m.ops = append(m.ops, op+" "+target)
	if m.unreachable {
		return ErrUnreachable
	}
	return nil
}

func (m *MockStore) ensureCollection(name string) *mockCollection {
	c, ok := m.collections[name]
	if !ok {
		c = &mockCollection{docs: make(map[string]domain.Document)}
		m.collections[name] = c
	}
	return c
}

func (m *MockStore) newID() string {
	m.nextID++
	return fmt.Sprintf("doc-%d", m.nextID)
}

func (c *mockCollection) put(id string, doc domain.Document) {
	if _, exists := c.docs[id]; !exists {
		c.ids = append(c.ids, id)
	}
	c.docs[id] = doc
}

func (c *mockCollection) remove(id string) bool {
	if _, exists := c.docs[id]; !exists {
		return false
	}
	delete(c.docs, id)
	for i, existing := range c.ids {
		if existing == id {
			c.ids = append(c.ids[:i], c.ids[i+1:]...)
			break
		}
	}
	c.deleted++
	return true
}

// Index stores a single document under a generated id
func (m *MockStore) Index(ctx context.Context, collection string, doc interface{}) (*domain.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("index", collection); err != nil {
		return nil, err
	}
	document, err := toDocument(doc)
	if err != nil {
		return errorResponse(http.StatusBadRequest, "mapper_parsing_exception", err.Error()), nil
	}
	id := m.newID()
	m.ensureCollection(collection).put(id, document)
	return jsonResponse(http.StatusCreated, map[string]interface{}{
		"_index": collection,
		"_id":    id,
		"result": "created",
	}), nil
}

// Create stores doc under id, answering 409 when the id already exists
func (m *MockStore) Create(ctx context.Context, collection, id string, doc interface{}) (*domain.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("create", collection+"/"+id); err != nil {
		return nil, err
	}
	document, err := toDocument(doc)
	if err != nil {
		return errorResponse(http.StatusBadRequest, "mapper_parsing_exception", err.Error()), nil
	}
	c := m.ensureCollection(collection)
	if _, exists := c.docs[id]; exists {
		return errorResponse(http.StatusConflict, "version_conflict_engine_exception", "["+id+"]: version conflict, document already exists"), nil
	}
	c.put(id, document)
	return jsonResponse(http.StatusCreated, map[string]interface{}{
		"_index": collection,
		"_id":    id,
		"result": "created",
	}), nil
}

// Get returns the filtered source of one document
func (m *MockStore) Get(ctx context.Context, collection, id string, fields []string) (*domain.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("get", collection+"/"+id); err != nil {
		return nil, err
	}
	c, ok := m.collections[collection]
	if !ok {
		return indexNotFound(collection), nil
	}
	doc, ok := c.docs[id]
	if !ok {
		return errorResponse(http.StatusNotFound, "resource_not_found_exception", "Document not found ["+collection+"]/["+id+"]"), nil
	}
	return jsonResponse(http.StatusOK, filterSource(doc, fields)), nil
}

// Update merges the patch into a stored document
func (m *MockStore) Update(ctx context.Context, collection, id string, patch interface{}) (*domain.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("update", collection+"/"+id); err != nil {
		return nil, err
	}
	fields, err := toDocument(patch)
	if err != nil {
		return errorResponse(http.StatusBadRequest, "x_content_parse_exception", err.Error()), nil
	}
	c, ok := m.collections[collection]
	if !ok {
		return indexNotFound(collection), nil
	}
	doc, ok := c.docs[id]
	if !ok {
		return errorResponse(http.StatusNotFound, "document_missing_exception", "["+id+"]: document missing"), nil
	}
	for k, v := range fields {
		doc[k] = v
	}
	return jsonResponse(http.StatusOK, map[string]interface{}{"_id": id, "result": "updated"}), nil
}

func (m *MockStore) Delete(ctx context.Context, collection, id string) (*domain.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("delete", collection+"/"+id); err != nil {
		return nil, err
	}
	c, ok := m.collections[collection]
	if !ok {
		return indexNotFound(collection), nil
	}
	if !c.remove(id) {
		return jsonResponse(http.StatusNotFound, map[string]interface{}{"_id": id, "result": "not_found"}), nil
	}
	return jsonResponse(http.StatusOK, map[string]interface{}{"_id": id, "result": "deleted"}), nil
}

// Bulk indexes every doc, honouring injected item failures
func (m *MockStore) Bulk(ctx context.Context, collection string, docs []interface{}) (*domain.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("bulk", collection); err != nil {
		return nil, err
	}
	c := m.ensureCollection(collection)
	items := make([]interface{}, 0, len(docs))
	hasErrors := false
	for i, raw := range docs {
		if failure, ok := m.bulkFailures[i]; ok {
			hasErrors = true
			items = append(items, map[string]interface{}{"index": map[string]interface{}{
				"_index": collection,
				"status": failure.Status,
				"error":  map[string]interface{}{"type": failure.Type, "reason": failure.Reason},
			}})
			continue
		}
		doc, err := toDocument(raw)
		if err != nil {
			hasErrors = true
			items = append(items, map[string]interface{}{"index": map[string]interface{}{
				"_index": collection,
				"status": http.StatusBadRequest,
				"error":  map[string]interface{}{"type": "mapper_parsing_exception", "reason": err.Error()},
			}})
			continue
		}
		id := m.newID()
		c.put(id, doc)
		items = append(items, map[string]interface{}{"index": map[string]interface{}{
			"_index": collection,
			"_id":    id,
			"result": "created",
			"status": http.StatusCreated,
		}})
	}
	return jsonResponse(http.StatusOK, map[string]interface{}{
		"took":   1,
		"errors": hasErrors,
		"items":  items,
	}), nil
}

// Search evaluates match_all and query_string bodies over one collection or a
// trailing-wildcard pattern.
func (m *MockStore) Search(ctx context.Context, collection string, body interface{}, from, size int) (*domain.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("search", collection); err != nil {
		return nil, err
	}
	names, ok := m.match(collection)
	if !ok {
		return indexNotFound(collection), nil
	}
	var req struct {
		Source struct {
			Includes []string `json:"includes"`
		} `json:"_source"`
		Query struct {
			MatchAll    *struct{} `json:"match_all"`
			QueryString *struct {
				Query  string   `json:"query"`
				Fields []string `json:"fields"`
			} `json:"query_string"`
		} `json:"query"`
	}
	data, err := json.Marshal(body)
	if err == nil {
		err = json.Unmarshal(data, &req)
	}
	if err != nil {
		return errorResponse(http.StatusBadRequest, "parsing_exception", err.Error()), nil
	}

	hits := make([]interface{}, 0)
	for _, name := range names {
		c := m.collections[name]
		for _, id := range c.ids {
			doc := c.docs[id]
			if req.Query.QueryString != nil && !matchesQueryString(doc, req.Query.QueryString.Query, req.Query.QueryString.Fields) {
				continue
			}
			hits = append(hits, map[string]interface{}{
				"_index":  name,
				"_id":     id,
				"_score":  1.0,
				"_source": filterSource(doc, req.Source.Includes),
			})
		}
	}
	total := len(hits)
	page := make([]interface{}, 0)
	if from < total {
		end := from + size
		if end > total {
			end = total
		}
		page = hits[from:end]
	}
	return jsonResponse(http.StatusOK, map[string]interface{}{
		"took":      1,
		"timed_out": false,
		"hits": map[string]interface{}{
			"total": map[string]interface{}{"value": total, "relation": "eq"},
			"hits":  page,
		},
	}), nil
}

func (m *MockStore) CollectionExists(ctx context.Context, collection string) (*domain.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("exists", collection); err != nil {
		return nil, err
	}
	if _, ok := m.collections[collection]; !ok {
		return &domain.Response{StatusCode: http.StatusNotFound}, nil
	}
	return &domain.Response{StatusCode: http.StatusOK}, nil
}

// CollectionStats returns cat-indices style rows for pattern
func (m *MockStore) CollectionStats(ctx context.Context, pattern string) (*domain.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("stats", pattern); err != nil {
		return nil, err
	}
	names, ok := m.match(pattern)
	if !ok {
		return indexNotFound(pattern), nil
	}
	rows := make([]map[string]string, 0, len(names))
	for _, name := range names {
		c := m.collections[name]
		rows = append(rows, map[string]string{
			"health":         "yellow",
			"status":         "open",
			"index":          name,
			"docs.count":     strconv.Itoa(len(c.ids)),
			"docs.deleted":   strconv.Itoa(c.deleted),
			"pri.store.size": fmt.Sprintf("%dkb", len(c.ids)+1),
		})
	}
	return jsonResponse(http.StatusOK, rows), nil
}

func (m *MockStore) CreateCollection(ctx context.Context, collection string, body interface{}) (*domain.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("create_collection", collection); err != nil {
		return nil, err
	}
	if _, ok := m.collections[collection]; ok {
		return errorResponse(http.StatusBadRequest, "resource_already_exists_exception", "index ["+collection+"] already exists"), nil
	}
	m.ensureCollection(collection).mapping = body
	return jsonResponse(http.StatusOK, map[string]interface{}{"acknowledged": true, "index": collection}), nil
}

func (m *MockStore) DeleteCollection(ctx context.Context, collection string) (*domain.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("delete_collection", collection); err != nil {
		return nil, err
	}
	if status, ok := m.deleteCollectionFailures[collection]; ok {
		return errorResponse(status, "cluster_block_exception", "index ["+collection+"] blocked"), nil
	}
	if _, ok := m.collections[collection]; !ok {
		return indexNotFound(collection), nil
	}
	delete(m.collections, collection)
	return jsonResponse(http.StatusOK, map[string]interface{}{"acknowledged": true}), nil
}

// match resolves a collection name or trailing-wildcard pattern. A concrete
// name that does not exist reports false; a pattern matching nothing does not.
func (m *MockStore) match(pattern string) ([]string, bool) {
	var names []string
	if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
		for name := range m.collections {
			if strings.HasPrefix(name, prefix) {
				names = append(names, name)
			}
		}
		sort.Strings(names)
		return names, true
	}
	if _, ok := m.collections[pattern]; !ok {
		return nil, false
	}
	return []string{pattern}, true
}

// matchesQueryString is a small stand-in for query_string: a quoted query is a
// case-insensitive phrase, otherwise any whitespace token (optionally ending in
// '*' for prefix) must match a word of a searched field.
func matchesQueryString(doc domain.Document, query string, fields []string) bool {
	values := searchableValues(doc, fields)
	query = strings.TrimSpace(query)
	if len(query) >= 2 && strings.HasPrefix(query, `"`) && strings.HasSuffix(query, `"`) {
		phrase := strings.ToLower(strings.Trim(query, `"`))
		for _, v := range values {
			if strings.Contains(strings.ToLower(v), phrase) {
				return true
			}
		}
		return false
	}
	for _, token := range strings.Fields(strings.ToLower(query)) {
		prefix, wildcard := strings.CutSuffix(token, "*")
		if prefix == "" {
			continue
		}
		for _, v := range values {
			for _, word := range strings.Fields(strings.ToLower(v)) {
				if word == prefix || (wildcard && strings.HasPrefix(word, prefix)) {
					return true
				}
			}
		}
	}
	return false
}

func searchableValues(doc domain.Document, fields []string) []string {
	var values []string
	collect := func(v interface{}) {
		switch val := v.(type) {
		case string:
			values = append(values, val)
		case []interface{}:
			for _, item := range val {
				if s, ok := item.(string); ok {
					values = append(values, s)
				}
			}
		}
	}
	if len(fields) == 0 {
		for _, v := range doc {
			collect(v)
		}
		return values
	}
	for _, f := range fields {
		collect(doc[f])
	}
	return values
}

// filterSource applies _source includes: empty or "*" keeps everything, a
// trailing '*' keeps a prefix, anything else is an exact field name.
func filterSource(doc domain.Document, includes []string) domain.Document {
	if len(includes) == 0 {
		return copyDocument(doc)
	}
	out := domain.Document{}
	for _, inc := range includes {
		inc = strings.TrimSpace(inc)
		if inc == "*" {
			return copyDocument(doc)
		}
		prefix, wildcard := strings.CutSuffix(inc, "*")
		for k, v := range doc {
			if k == inc || (wildcard && strings.HasPrefix(k, prefix)) {
				out[k] = v
			}
		}
	}
	return out
}

func copyDocument(doc domain.Document) domain.Document {
	out := make(domain.Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}

func toDocument(v interface{}) (domain.Document, error) {
	var data []byte
	switch val := v.(type) {
	case json.RawMessage:
		data = val
	default:
		var err error
		if data, err = json.Marshal(v); err != nil {
			return nil, err
		}
	}
	var doc domain.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, errors.New("document must be a JSON object")
	}
	return doc, nil
}

func jsonResponse(status int, body interface{}) *domain.Response {
	data, _ := json.Marshal(body)
	return &domain.Response{StatusCode: status, Body: data}
}

func errorResponse(status int, errType, reason string) *domain.Response {
	return jsonResponse(status, map[string]interface{}{
		"error":  map[string]interface{}{"type": errType, "reason": reason},
		"status": status,
	})
}

func indexNotFound(collection string) *domain.Response {
	return errorResponse(http.StatusNotFound, "index_not_found_exception", "no such index ["+collection+"]")
}
