package rules_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tayloree/cookr/internal/ingredient"
	"github.com/tayloree/cookr/internal/rules"
)

func ruleEntry(id, contains, categoryID string) map[string]any {
	return map[string]any{
		"sys": map[string]any{"id": id, "type": "Entry"},
		"fields": map[string]any{
			"contains": contains,
			"category": map[string]any{"sys": map[string]any{"id": categoryID, "type": "Link", "linkType": "Entry"}},
		},
	}
}

func categoryEntry(id, name string) map[string]any {
	return map[string]any{
		"sys":    map[string]any{"id": id, "type": "Entry"},
		"fields": map[string]any{"name": name},
	}
}

// newContentfulServer serves items in pages of pageLen, mimicking the
// skip/limit/total contract of the Delivery API.
func newContentfulServer(t *testing.T, items []map[string]any, includes []map[string]any, pageLen int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/spaces/space1/environments/master/entries", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		q := r.URL.Query()
		assert.Equal(t, "ingredientCategoryMatchingRule", q.Get("content_type"))
		assert.Equal(t, "pl", q.Get("locale"))
		assert.Equal(t, "1", q.Get("include"))

		skip, _ := strconv.Atoi(q.Get("skip"))
		end := min(skip+pageLen, len(items))
		page := items[min(skip, len(items)):end]

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"total":    len(items),
			"skip":     skip,
			"limit":    pageLen,
			"items":    page,
			"includes": map[string]any{"Entry": includes},
		})
	}))
}

func TestContentfulClient_Load(t *testing.T) {
	items := []map[string]any{
		ruleEntry("r1", "pomidor", "veg"),
		ruleEntry("r2", "mleko", "dairy"),
	}
	includes := []map[string]any{categoryEntry("veg", "Warzywa"), categoryEntry("dairy", "Nabiał")}

	srv := newContentfulServer(t, items, includes, 100)
	defer srv.Close()

	client := rules.NewClientWithBaseURL(srv.URL, "space1", "secret")
	got, err := client.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []ingredient.MatchingRule{
		{ID: "r1", Contains: "pomidor", Category: ingredient.Category{ID: "veg", Name: "Warzywa"}},
		{ID: "r2", Contains: "mleko", Category: ingredient.Category{ID: "dairy", Name: "Nabiał"}},
	}, got)
}

func TestContentfulClient_Paginates(t *testing.T) {
	var items []map[string]any
	for i := 0; i < 5; i++ {
		items = append(items, ruleEntry(fmt.Sprintf("r%d", i), fmt.Sprintf("p%d", i), "veg"))
	}

	srv := newContentfulServer(t, items, []map[string]any{categoryEntry("veg", "Warzywa")}, 2)
	defer srv.Close()

	got, err := rules.NewClientWithBaseURL(srv.URL, "space1", "secret").Load(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 5)
	for i, r := range got {
		assert.Equal(t, fmt.Sprintf("r%d", i), r.ID)
	}
}

func TestContentfulClient_SkipsUnresolvedCategories(t *testing.T) {
	items := []map[string]any{
		ruleEntry("r1", "pomidor", "veg"),
		ruleEntry("r2", "mleko", "missing"),
	}

	srv := newContentfulServer(t, items, []map[string]any{categoryEntry("veg", "Warzywa")}, 100)
	defer srv.Close()

	got, err := rules.NewClientWithBaseURL(srv.URL, "space1", "secret").Load(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "r1", got[0].ID)
}

func TestContentfulClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := rules.NewClientWithBaseURL(srv.URL, "space1", "secret").Load(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestContentfulClient_TrailingJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"total":0,"items":[]}{"extra":true}`))
	}))
	defer srv.Close()

	_, err := rules.NewClientWithBaseURL(srv.URL, "space1", "secret").Load(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "trailing JSON content")
}

func TestContentfulClient_Name(t *testing.T) {
	assert.Equal(t, "contentful:space1", rules.NewClientWithBaseURL("http://x", "space1", "t").Name())
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestFileSource_YAML(t *testing.T) {
	path := writeFile(t, "rules.yaml", `
rules:
  - id: tomato
    contains: pomidor
    category: {id: veg, name: Warzywa}
  - contains: mleko
    category:
      name: Nabiał
`)

	got, err := rules.FileSource{Path: path}.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []ingredient.MatchingRule{
		{ID: "tomato", Contains: "pomidor", Category: ingredient.Category{ID: "veg", Name: "Warzywa"}},
		{ID: "rule-2", Contains: "mleko", Category: ingredient.Category{ID: "Nabiał", Name: "Nabiał"}},
	}, got)
}

func TestFileSource_JSONBareList(t *testing.T) {
	path := writeFile(t, "rules.json", `[{"id":"a","contains":"ser","category":{"id":"d","name":"Nabiał"}}]`)

	got, err := rules.FileSource{Path: path}.Load(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ser", got[0].Contains)
}

func TestFileSource_EmptyFile(t *testing.T) {
	path := writeFile(t, "rules.yaml", "")

	got, err := rules.FileSource{Path: path}.Load(context.Background())

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFileSource_MissingCategory(t *testing.T) {
	path := writeFile(t, "rules.yaml", "rules:\n  - contains: ser\n")

	_, err := rules.FileSource{Path: path}.Load(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "rule-1")
}

func TestFileSource_NotFound(t *testing.T) {
	_, err := rules.FileSource{Path: filepath.Join(t.TempDir(), "nope.yaml")}.Load(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParse_RejectsScalar(t *testing.T) {
	_, err := rules.Parse([]byte("just a string"))
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	cf := rules.ContentfulOptions{SpaceID: "s", AccessToken: "t"}

	tests := []struct {
		name     string
		settings rules.Settings
		wantName string
		wantErr  error
	}{
		{"auto prefers file", rules.Settings{File: "r.yaml", Contentful: cf}, "file:r.yaml", nil},
		{"auto contentful", rules.Settings{Kind: "auto", Contentful: cf}, "contentful:s", nil},
		{"auto nothing", rules.Settings{}, "static", nil},
		{"explicit none", rules.Settings{Kind: "none", File: "r.yaml"}, "static", nil},
		{"file without path", rules.Settings{Kind: "file"}, "", rules.ErrNoSource},
		{"contentful without token", rules.Settings{Kind: "contentful", Contentful: rules.ContentfulOptions{SpaceID: "s"}}, "", rules.ErrNoSource},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := rules.Open(tt.settings)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, src.Name())
		})
	}
}

func TestOpen_UnknownKind(t *testing.T) {
	_, err := rules.Open(rules.Settings{Kind: "ftp"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ftp")
}

func TestStatic_LoadReturnsCopy(t *testing.T) {
	src := rules.Static{{ID: "a", Contains: "x", Category: ingredient.Category{Name: "X"}}}

	got, err := src.Load(context.Background())
	require.NoError(t, err)
	got[0].Contains = "changed"

	assert.Equal(t, "x", src[0].Contains)
}
