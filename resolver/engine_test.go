package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-newsnet/cache"
	"github.com/goliatone/go-newsnet/store"
)

type gatewayCall struct {
	kind  string
	query string
	args  []any
}

// scriptedGateway answers queries with the first rule whose fragment the
// statement contains and records every call.
type scriptedGateway struct {
	mu     sync.Mutex
	calls  []gatewayCall
	rules  []rule
	counts map[string]int64
	err    error
}

type rule struct {
	fragment string
	rows     []store.Row
}

func newScriptedGateway() *scriptedGateway {
	return &scriptedGateway{counts: map[string]int64{}}
}

func (g *scriptedGateway) on(fragment string, rows ...store.Row) *scriptedGateway {
	g.rules = append(g.rules, rule{fragment: fragment, rows: rows})
	return g
}

func (g *scriptedGateway) Query(ctx context.Context, query string, args ...any) ([]store.Row, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, gatewayCall{kind: "query", query: query, args: args})
	if g.err != nil {
		return nil, g.err
	}
	for _, r := range g.rules {
		if strings.Contains(query, r.fragment) {
			return r.rows, nil
		}
	}
	return nil, nil
}

func (g *scriptedGateway) Count(ctx context.Context, query string, args ...any) (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, gatewayCall{kind: "count", query: query, args: args})
	if g.err != nil {
		return 0, g.err
	}
	for fragment, n := range g.counts {
		if strings.Contains(query, fragment) {
			return n, nil
		}
	}
	return 0, nil
}

func (g *scriptedGateway) Increment(ctx context.Context, inc store.Increment) error {
	return errors.New("unexpected increment")
}

func (g *scriptedGateway) recorded() []gatewayCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]gatewayCall(nil), g.calls...)
}

func (g *scriptedGateway) queriesOf(kind string) int {
	n := 0
	for _, c := range g.recorded() {
		if c.kind == kind {
			n++
		}
	}
	return n
}

type recordingViews struct {
	mu    sync.Mutex
	codes []string
}

func (r *recordingViews) Record(code string) {
	r.mu.Lock()
	r.codes = append(r.codes, code)
	r.mu.Unlock()
}

func (r *recordingViews) recorded() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.codes...)
}

type countingFallbacks struct {
	mu  sync.Mutex
	ops []string
}

func (c *countingFallbacks) Fallback(op string) {
	c.mu.Lock()
	c.ops = append(c.ops, op)
	c.mu.Unlock()
}

func (c *countingFallbacks) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.ops)
}

var malang = Tenant{ID: 2, Slug: "malang"}

func newTestEngine(t *testing.T, gw store.Gateway, opts ...Option) *Engine {
	t.Helper()

	cfg := cache.DefaultConfig()
	svc, err := cache.NewCacheService(cfg)
	if err != nil {
		t.Fatalf("failed to create cache service: %v", err)
	}
	rt := cache.NewReadThrough(svc, cfg.TTLPolicy(), nil)
	return New(gw, rt, DefaultConfig(), opts...)
}

func articleRow(id int64, code, title string) store.Row {
	return store.Row{
		"id":            id,
		"is_code":       code,
		"title":         title,
		"datepub":       time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		"views":         int64(10),
		"category_slug": "politik",
		"category_name": "Politik",
		"author":        "Rina",
	}
}

func TestListing_PrimaryResultSkipsFallback(t *testing.T) {
	gw := newScriptedGateway().on("network_kanal", articleRow(1, "ABC123", "Breaking"))
	fb := &countingFallbacks{}
	e := newTestEngine(t, gw, WithFallbackObserver(fb))

	items, err := e.Listing(context.Background(), malang, 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].Code != "ABC123" {
		t.Fatalf("unexpected items: %+v", items)
	}
	if items[0].URL != "/news/politik/ABC123/breaking" {
		t.Errorf("unexpected url %q", items[0].URL)
	}
	if n := gw.queriesOf("query"); n != 1 {
		t.Errorf("expected 1 query, got %d", n)
	}
	if fb.count() != 0 {
		t.Errorf("expected no fallback, got %d", fb.count())
	}

	args := gw.recorded()[0].args
	want := []any{int64(2), statusPublished, int64(2), int64(2), 10, 0}
	if len(args) != len(want) {
		t.Fatalf("expected args %v, got %v", want, args)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("arg %d: expected %v, got %v", i, want[i], args[i])
		}
	}
}

func TestListing_EmptyPrimaryFallsBackExactlyOnce(t *testing.T) {
	gw := newScriptedGateway().
		on("network_kanal").
		on("FROM news n", articleRow(5, "JTM001", "Harga Cabai"))
	fb := &countingFallbacks{}
	e := newTestEngine(t, gw, WithFallbackObserver(fb))

	items, err := e.Listing(context.Background(), Tenant{ID: 3, Slug: "jatim"}, 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].Code != "JTM001" {
		t.Fatalf("unexpected items: %+v", items)
	}

	calls := gw.recorded()
	if len(calls) != 2 {
		t.Fatalf("expected 2 queries, got %d", len(calls))
	}
	if strings.Contains(calls[1].query, "network_kanal") {
		t.Errorf("fallback should not require category membership: %s", calls[1].query)
	}
	if fb.count() != 1 {
		t.Errorf("expected 1 fallback, got %d", fb.count())
	}
}

func TestListing_AllStepsEmpty(t *testing.T) {
	gw := newScriptedGateway()
	e := newTestEngine(t, gw)

	items, err := e.Listing(context.Background(), Tenant{ID: 4, Slug: "sepi"}, 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", items)
	}
	if n := gw.queriesOf("query"); n != 2 {
		t.Errorf("expected 2 queries, got %d", n)
	}
}

func TestListing_CachedResultIsReused(t *testing.T) {
	gw := newScriptedGateway().on("network_kanal", articleRow(1, "ABC123", "Breaking"))
	e := newTestEngine(t, gw)
	ctx := context.Background()

	first, err := e.Listing(ctx, malang, 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := e.Listing(ctx, malang, 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first) != len(second) || first[0] != second[0] {
		t.Errorf("expected identical results, got %+v and %+v", first, second)
	}
	if n := gw.queriesOf("query"); n != 1 {
		t.Errorf("expected 1 query, got %d", n)
	}

	// a different page is a different key
	if _, err := e.Listing(ctx, malang, 2, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := gw.queriesOf("query"); n != 2 {
		t.Errorf("expected 2 queries, got %d", n)
	}
}

func TestListing_StoreErrorStopsCascade(t *testing.T) {
	gw := newScriptedGateway()
	gw.err = &store.Error{Op: "query", Err: errors.New("connection refused")}
	fb := &countingFallbacks{}
	e := newTestEngine(t, gw, WithFallbackObserver(fb))
	ctx := context.Background()

	_, err := e.Listing(ctx, malang, 1, 10)
	if err == nil {
		t.Fatal("expected error")
	}
	var se *store.Error
	if !errors.As(err, &se) {
		t.Fatalf("expected store error, got %T: %v", err, err)
	}
	if fb.count() != 0 {
		t.Errorf("an error must not trigger a fallback")
	}
	if n := gw.queriesOf("query"); n != 1 {
		t.Errorf("expected 1 query, got %d", n)
	}

	// errors are not cached
	_, _ = e.Listing(ctx, malang, 1, 10)
	if n := gw.queriesOf("query"); n != 2 {
		t.Errorf("expected the failed read to be retried, got %d queries", n)
	}
}

func TestPaging_Validation(t *testing.T) {
	e := newTestEngine(t, newScriptedGateway())
	ctx := context.Background()

	tests := []struct {
		name  string
		page  int
		limit int
	}{
		{name: "zero page", page: 0, limit: 10},
		{name: "negative page", page: -1, limit: 10},
		{name: "zero limit", page: 1, limit: 0},
		{name: "limit above max", page: 1, limit: 101},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Listing(ctx, malang, tt.page, tt.limit)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if ve.Op != OpListing {
				t.Errorf("expected op %q, got %q", OpListing, ve.Op)
			}
		})
	}
}

func TestHeadline_PrimaryRequiresTenantCategory(t *testing.T) {
	gw := newScriptedGateway().
		on("network_kanal").
		on("is_headline", articleRow(6, "JTM002", "Persebaya Juara"))
	e := newTestEngine(t, gw)

	items, err := e.Headline(context.Background(), Tenant{ID: 3, Slug: "jatim"}, 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].Code != "JTM002" {
		t.Fatalf("unexpected items: %+v", items)
	}

	calls := gw.recorded()
	if len(calls) != 2 {
		t.Fatalf("expected 2 queries, got %d", len(calls))
	}
	for _, c := range calls {
		if !strings.Contains(c.query, "n.is_headline = ?") {
			t.Errorf("every step must filter headlines: %s", c.query)
		}
	}
}

func TestPopular_WindowAndCategory(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	gw := newScriptedGateway().on("n.datepub >= ?", articleRow(2, "DEF456", "Debat"))
	e := newTestEngine(t, gw, WithClock(func() time.Time { return now }))

	cat := int64(7)
	items, err := e.Popular(context.Background(), malang, 1, 5, &cat)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}

	call := gw.recorded()[0]
	if !strings.Contains(call.query, "ORDER BY "+byPopular) {
		t.Errorf("expected popular ordering: %s", call.query)
	}
	want := []any{int64(2), statusPublished, int64(2), now.Add(-30 * 24 * time.Hour), int64(7), 5, 0}
	if len(call.args) != len(want) {
		t.Fatalf("expected args %v, got %v", want, call.args)
	}
	for i := range want {
		if wt, ok := want[i].(time.Time); ok {
			got, ok := call.args[i].(time.Time)
			if !ok || !got.Equal(wt) {
				t.Errorf("arg %d: expected %v, got %v", i, wt, call.args[i])
			}
			continue
		}
		if call.args[i] != want[i] {
			t.Errorf("arg %d: expected %v, got %v", i, want[i], call.args[i])
		}
	}
}

func TestPopular_AllCategoriesAndSpecificAreDistinctKeys(t *testing.T) {
	gw := newScriptedGateway().on("FROM news n", articleRow(2, "DEF456", "Debat"))
	e := newTestEngine(t, gw)
	ctx := context.Background()

	cat := int64(7)
	if _, err := e.Popular(ctx, malang, 1, 5, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := e.Popular(ctx, malang, 1, 5, &cat); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := gw.queriesOf("query"); n != 2 {
		t.Errorf("expected 2 queries, got %d", n)
	}
}

func TestByCategory_EmptyCategoryHasNoFallback(t *testing.T) {
	gw := newScriptedGateway()
	fb := &countingFallbacks{}
	e := newTestEngine(t, gw, WithFallbackObserver(fb))

	page, err := e.ByCategory(context.Background(), malang, 5, 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Data == nil || len(page.Data) != 0 {
		t.Errorf("expected empty data, got %#v", page.Data)
	}
	if page.Meta.Total != 0 || page.Meta.LastPage != 0 || page.Meta.Page != 1 || page.Meta.Limit != 10 {
		t.Errorf("unexpected meta: %+v", page.Meta)
	}
	if n := gw.queriesOf("count"); n != 1 {
		t.Errorf("expected 1 count, got %d", n)
	}
	if n := gw.queriesOf("query"); n != 0 {
		t.Errorf("expected no page query, got %d", n)
	}
	if fb.count() != 0 {
		t.Errorf("expected no fallback")
	}
}

func TestByCategory_CountsThenPages(t *testing.T) {
	gw := newScriptedGateway().on("n.cat_id = ?", articleRow(1, "ABC123", "Breaking"))
	gw.counts["COUNT"] = 21
	e := newTestEngine(t, gw)

	page, err := e.ByCategory(context.Background(), malang, 6, 2, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Meta.Total != 21 || page.Meta.LastPage != 3 || page.Meta.Page != 2 {
		t.Errorf("unexpected meta: %+v", page.Meta)
	}

	calls := gw.recorded()
	if len(calls) != 2 || calls[0].kind != "count" || calls[1].kind != "query" {
		t.Fatalf("expected count then query, got %+v", calls)
	}
	last := calls[1].args
	if last[len(last)-2] != 10 || last[len(last)-1] != 10 {
		t.Errorf("expected LIMIT 10 OFFSET 10, got %v", last[len(last)-2:])
	}
}

func TestByFocus_InvalidID(t *testing.T) {
	gw := newScriptedGateway()
	e := newTestEngine(t, gw)

	_, err := e.ByFocus(context.Background(), malang, 0, 1, 10)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(gw.recorded()) != 0 {
		t.Errorf("expected no store calls")
	}
}

func TestSearch_BlankQueryNeverReachesStore(t *testing.T) {
	gw := newScriptedGateway()
	e := newTestEngine(t, gw)

	for _, q := range []string{"", "   ", "\t"} {
		page, err := e.Search(context.Background(), malang, q, 3, 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(page.Data) != 0 || page.Meta.Total != 0 || page.Meta.Page != 3 {
			t.Errorf("unexpected page for %q: %+v", q, page)
		}
	}
	if len(gw.recorded()) != 0 {
		t.Errorf("expected no store calls, got %d", len(gw.recorded()))
	}
}

func TestSearch_EscapesWildcards(t *testing.T) {
	gw := newScriptedGateway().on("LIKE", articleRow(1, "ABC123", "Breaking"))
	gw.counts["COUNT"] = 1
	e := newTestEngine(t, gw)

	if _, err := e.Search(context.Background(), malang, "  50%_OFF ", 1, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	calls := gw.recorded()
	if len(calls) != 2 {
		t.Fatalf("expected count and query, got %d calls", len(calls))
	}
	pattern := calls[0].args[2]
	if pattern != "%50!%!_off%" {
		t.Errorf("unexpected pattern %v", pattern)
	}
}

func TestDetail_RecordsOneViewPerRead(t *testing.T) {
	gw := newScriptedGateway().on("n.is_code = ?", store.Row{
		"id":            int64(1),
		"is_code":       "ABC123",
		"title":         "Breaking: New Policy!",
		"category_slug": "politik",
		"category_id":   int64(6),
		"author":        "Rina",
		"content":       "<p>body</p>",
	})
	views := &recordingViews{}
	e := newTestEngine(t, gw, WithViews(views))
	ctx := context.Background()

	d, err := e.Detail(ctx, "ABC123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d == nil || d.URL != "/news/politik/ABC123/breaking-new-policy" || d.WriterName != "Rina" {
		t.Fatalf("unexpected detail: %+v", d)
	}
	if got := views.recorded(); len(got) != 1 || got[0] != "ABC123" {
		t.Fatalf("expected one view for ABC123, got %v", got)
	}

	// cached read still counts as a view
	d.Title = "mutated"
	again, err := e.Detail(ctx, "ABC123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.Title != "Breaking: New Policy!" {
		t.Errorf("cached detail was mutated through a returned pointer")
	}
	if n := gw.queriesOf("query"); n != 1 {
		t.Errorf("expected 1 query, got %d", n)
	}
	if got := views.recorded(); len(got) != 2 {
		t.Errorf("expected 2 views, got %v", got)
	}
}

func TestDetail_MissingArticle(t *testing.T) {
	gw := newScriptedGateway()
	views := &recordingViews{}
	e := newTestEngine(t, gw, WithViews(views))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		d, err := e.Detail(ctx, "NOPE00")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if d != nil {
			t.Fatalf("expected nil, got %+v", d)
		}
	}
	if n := gw.queriesOf("query"); n != 2 {
		t.Errorf("absent articles must not be cached, got %d queries", n)
	}
	if len(views.recorded()) != 0 {
		t.Errorf("expected no views")
	}
}

func TestTenant_LookupBySlug(t *testing.T) {
	gw := newScriptedGateway().on("FROM network", store.Row{
		"id": int64(2), "name": "Times Malang", "slug": "malang", "title": "Berita Malang", "domain": "malang.times.co.id",
	})
	e := newTestEngine(t, gw)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		tn, err := e.Tenant(ctx, "malang")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tn == nil || tn.ID != 2 || tn.Domain != "malang.times.co.id" {
			t.Fatalf("unexpected tenant: %+v", tn)
		}
	}
	if n := gw.queriesOf("query"); n != 1 {
		t.Errorf("expected 1 query, got %d", n)
	}
}

func TestCategories_FallBackToAllPublished(t *testing.T) {
	gw := newScriptedGateway().
		on("FROM network_kanal").
		on("FROM news_cat nc", store.Row{"id": int64(5), "slug": "ekonomi", "name": "Ekonomi"})
	fb := &countingFallbacks{}
	e := newTestEngine(t, gw, WithFallbackObserver(fb))

	cats, err := e.Categories(context.Background(), Tenant{ID: 4, Slug: "sepi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cats) != 1 || cats[0].URL != "https://sepi.times.co.id/kanal/ekonomi" {
		t.Fatalf("unexpected categories: %+v", cats)
	}
	if fb.count() != 1 {
		t.Errorf("expected 1 fallback, got %d", fb.count())
	}
}

func TestCategoryTree_WithNews(t *testing.T) {
	gw := newScriptedGateway().
		on("FROM network_kanal",
			store.Row{"id": int64(6), "slug": "politik", "name": "Politik"},
			store.Row{"id": int64(7), "slug": "pilkada", "name": "Pilkada", "parent_id": int64(6)},
			store.Row{"id": int64(8), "slug": "olahraga", "name": "Olahraga"},
		).
		on("FROM news n", articleRow(1, "ABC123", "Breaking"))
	e := newTestEngine(t, gw)

	roots, err := e.CategoryTree(context.Background(), malang, 3, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(roots) != 2 || roots[0].ID != 6 || roots[1].ID != 8 {
		t.Fatalf("unexpected roots: %+v", roots)
	}
	if len(roots[0].Children) != 1 || roots[0].Children[0].ID != 7 {
		t.Fatalf("expected pilkada under politik, got %+v", roots[0].Children)
	}
	if len(roots[0].Children[0].News) != 1 {
		t.Errorf("expected news on child node")
	}
	// one category query plus one news query per node
	if n := gw.queriesOf("query"); n != 4 {
		t.Errorf("expected 4 queries, got %d", n)
	}
}

func TestCategoryTree_WithoutNewsIgnoresLimit(t *testing.T) {
	gw := newScriptedGateway().on("FROM network_kanal", store.Row{"id": int64(6), "slug": "politik", "name": "Politik"})
	e := newTestEngine(t, gw)

	roots, err := e.CategoryTree(context.Background(), malang, 0, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(roots) != 1 || roots[0].News != nil {
		t.Fatalf("unexpected tree: %+v", roots)
	}
	if n := gw.queriesOf("query"); n != 1 {
		t.Errorf("expected 1 query, got %d", n)
	}
}

func TestFocuses_AndDetail(t *testing.T) {
	focus := store.Row{"id": int64(3), "name": "Pemilu 2024", "status": "1", "img_mobile": "pemilu.jpg"}
	gw := newScriptedGateway().
		on("FROM network_fokus", focus).
		on("WHERE f.id = ?", focus)
	e := newTestEngine(t, gw)
	ctx := context.Background()

	list, err := e.Focuses(ctx, malang)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 || list[0].URL != "/fokus/3/pemilu-2024" {
		t.Fatalf("unexpected focuses: %+v", list)
	}

	f, err := e.FocusDetail(ctx, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f == nil || f.ImgMobile != "pemilu.jpg" {
		t.Fatalf("unexpected focus: %+v", f)
	}
}

func TestPurge_DropsOnlyTenantEntries(t *testing.T) {
	gw := newScriptedGateway().on("FROM news n", articleRow(1, "ABC123", "Breaking"))
	e := newTestEngine(t, gw)
	ctx := context.Background()
	jatim := Tenant{ID: 3, Slug: "jatim"}

	mustList := func(tn Tenant) {
		t.Helper()
		if _, err := e.Listing(ctx, tn, 1, 10); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	mustList(malang)
	if _, err := e.Headline(ctx, malang, 1, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mustList(jatim)
	before := gw.queriesOf("query")

	if err := e.Purge(ctx, malang.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mustList(jatim)
	if got := gw.queriesOf("query"); got != before {
		t.Errorf("other tenant's entries should survive, got %d new queries", got-before)
	}
	mustList(malang)
	if got := gw.queriesOf("query"); got != before+1 {
		t.Errorf("purged tenant should be refetched, got %d new queries", got-before)
	}
}

func TestPurge_ClearsManyDistinctSearches(t *testing.T) {
	gw := newScriptedGateway()
	e := newTestEngine(t, gw)
	ctx := context.Background()
	jatim := Tenant{ID: 3, Slug: "jatim"}

	const searches = 200
	search := func(tn Tenant, i int) {
		t.Helper()
		if _, err := e.Search(ctx, tn, fmt.Sprintf("term %d", i), 1, 10); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	for i := 0; i < searches; i++ {
		search(malang, i)
	}
	search(jatim, 0)
	if got := gw.queriesOf("count"); got != searches+1 {
		t.Fatalf("expected %d counts, got %d", searches+1, got)
	}

	if err := e.Purge(ctx, malang.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	search(jatim, 0)
	for i := 0; i < searches; i++ {
		search(malang, i)
	}
	if got := gw.queriesOf("count"); got != 2*searches+1 {
		t.Errorf("expected every purged search to be recounted and jatim to stay cached, got %d counts", got)
	}
}

func TestPurge_ClearsKeysEndingInTenant(t *testing.T) {
	focus := store.Row{"id": int64(3), "name": "Pemilu", "status": "1"}
	gw := newScriptedGateway().on("FROM network_fokus", focus)
	e := newTestEngine(t, gw)
	ctx := context.Background()

	if _, err := e.Focuses(ctx, malang); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := e.Purge(ctx, malang.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := e.Focuses(ctx, malang); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := gw.queriesOf("query"); got != 2 {
		t.Errorf("expected focus list to be refetched after purge, got %d queries", got)
	}
}
