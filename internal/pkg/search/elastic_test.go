package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/placement/internal/app/models"
)

type fakeCluster struct {
	mu      sync.Mutex
	indices map[string]bool
	docs    map[string]string
	calls   []string
	search  string
}

func newFakeCluster() *fakeCluster {
	return &fakeCluster{indices: map[string]bool{}, docs: map[string]string{}}
}

func (f *fakeCluster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	f.calls = append(f.calls, r.Method+" "+r.URL.Path)

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	switch {
	case r.Method == http.MethodHead && len(parts) == 1:
		if !f.indices[parts[0]] {
			w.WriteHeader(http.StatusNotFound)
		}
	case r.Method == http.MethodPut && len(parts) == 1:
		f.indices[parts[0]] = true
		_, _ = io.WriteString(w, `{"acknowledged":true}`)
	case (r.Method == http.MethodPut || r.Method == http.MethodPost) && len(parts) == 3 && parts[1] == "_doc":
		body, _ := io.ReadAll(r.Body)
		f.docs[parts[2]] = string(body)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"result":"created"}`)
	case r.Method == http.MethodDelete && len(parts) == 3:
		if _, ok := f.docs[parts[2]]; !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"result":"not_found"}`)
			return
		}
		delete(f.docs, parts[2])
		_, _ = io.WriteString(w, `{"result":"deleted"}`)
	case len(parts) == 2 && parts[1] == "_search":
		body, _ := io.ReadAll(r.Body)
		f.search = string(body)
		var hits []map[string]string
		for id := range f.docs {
			hits = append(hits, map[string]string{"_id": id})
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"hits": map[string]interface{}{"hits": hits}})
	default:
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"unexpected request"}`)
	}
}

func newTestIndex(t *testing.T) (*ElasticIndex, *fakeCluster) {
	t.Helper()
	cluster := newFakeCluster()
	srv := httptest.NewServer(cluster)
	t.Cleanup(srv.Close)

	idx, err := NewElasticIndex([]string{srv.URL}, "drives_test")
	require.NoError(t, err)
	return idx, cluster
}

func TestEnsureIndexCreatesOnce(t *testing.T) {
	idx, cluster := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.EnsureIndex(ctx))
	require.NoError(t, idx.EnsureIndex(ctx))

	creates := 0
	for _, c := range cluster.calls {
		if c == "PUT /drives_test" {
			creates++
		}
	}
	assert.Equal(t, 1, creates)
}

func TestIndexSearchDelete(t *testing.T) {
	idx, cluster := newTestIndex(t)
	ctx := context.Background()

	drive := &models.Drive{ID: 7, CompanyName: "Acme", JobRole: "SDE", Location: "Pune", Status: models.DriveStatusActive, UpdatedAt: time.Now()}
	require.NoError(t, idx.IndexDrive(ctx, drive))
	assert.Contains(t, cluster.docs["7"], `"company_name":"Acme"`)

	ids, err := idx.Search(ctx, "acme", 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, ids)

	require.NoError(t, idx.DeleteDrive(ctx, 7))
	require.NoError(t, idx.DeleteDrive(ctx, 7), "missing document is ignored")
}

func TestNoopIndex(t *testing.T) {
	var idx DriveIndex = NoopIndex{}
	assert.NoError(t, idx.IndexDrive(context.Background(), &models.Drive{}))
	_, err := idx.Search(context.Background(), "x", 5)
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestSearchMatchesCompanyAndRoleOnly(t *testing.T) {
	idx, cluster := newTestIndex(t)

	_, err := idx.Search(context.Background(), " Acme ", 10)
	require.NoError(t, err)

	var sent struct {
		Query struct {
			Bool struct {
				Should []map[string]map[string]struct {
					Value           string `json:"value"`
					CaseInsensitive bool   `json:"case_insensitive"`
				} `json:"should"`
			} `json:"bool"`
		} `json:"query"`
	}
	require.NoError(t, json.Unmarshal([]byte(cluster.search), &sent))

	fields := map[string]string{}
	for _, clause := range sent.Query.Bool.Should {
		for field, opts := range clause["wildcard"] {
			assert.True(t, opts.CaseInsensitive)
			fields[field] = opts.Value
		}
	}
	assert.Equal(t, map[string]string{"company_name.raw": "*Acme*", "job_role.raw": "*Acme*"}, fields)
	assert.NotContains(t, cluster.search, "location")
	assert.NotContains(t, cluster.search, "fuzziness")
}

func TestSearchEscapesWildcards(t *testing.T) {
	q := buildSearchQuery(`c*?\`)
	body, err := json.Marshal(q)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"value":"*c\\*\\?\\\\*"`)
}
