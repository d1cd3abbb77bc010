package resolver

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-newsnet/cache"
	"github.com/goliatone/go-newsnet/content"
	"github.com/goliatone/go-newsnet/projection"
	"go.uber.org/zap"
)

// Operation names. They prefix every cache key and label metrics.
const (
	OpListing      = "news_all"
	OpHeadline     = "news_headline"
	OpPopular      = "news_popular"
	OpByCategory   = "news_by_cat"
	OpByFocus      = "news_by_fokus"
	OpSearch       = "news_search"
	OpDetail       = "news_detail"
	OpTenant       = "network"
	OpCategories   = "kanal_list"
	OpCategory     = "kanal_detail"
	OpCategoryTree = "kanal_tree"
	OpFocuses      = "fokus_list"
	OpFocus        = "fokus_detail"
)

// Listing returns the tenant's latest published articles. Articles whose
// category or focus topic belongs to the tenant are preferred; when there
// are none, any article published to the tenant is returned.
func (e *Engine) Listing(ctx context.Context, t Tenant, page, limit int) ([]content.Item, error) {
	if err := validatePaging(OpListing, page, limit, e.cfg.MaxLimit); err != nil {
		return nil, err
	}

	key := e.keys.SerializeKey(OpListing, cache.Tenant(t.ID), cache.Page(page), cache.Limit(limit))

	primary, primaryArgs := newItemQuery(t.ID).
		and("("+inTenantKanal+" OR "+inTenantFokus+")", t.ID, t.ID).
		page(page, limit)
	fallback, fallbackArgs := newItemQuery(t.ID).page(page, limit)

	return e.items(ctx, OpListing, key,
		step{primary, primaryArgs},
		step{fallback, fallbackArgs},
	)
}

// Headline is Listing restricted to headline articles; the primary query
// requires the article's category to belong to the tenant.
func (e *Engine) Headline(ctx context.Context, t Tenant, page, limit int) ([]content.Item, error) {
	if err := validatePaging(OpHeadline, page, limit, e.cfg.MaxLimit); err != nil {
		return nil, err
	}

	key := e.keys.SerializeKey(OpHeadline, cache.Tenant(t.ID), cache.Page(page), cache.Limit(limit))

	primary, primaryArgs := newItemQuery(t.ID).
		and("n.is_headline = ?", headlineFlag).
		and(inTenantKanal, t.ID).
		page(page, limit)
	fallback, fallbackArgs := newItemQuery(t.ID).
		and("n.is_headline = ?", headlineFlag).
		page(page, limit)

	return e.items(ctx, OpHeadline, key,
		step{primary, primaryArgs},
		step{fallback, fallbackArgs},
	)
}

// Popular returns the most viewed articles. The primary query looks at
// articles in the tenant's categories published within the popular window;
// the fallback drops both the window and the category membership. A
// non-nil categoryID narrows both steps.
func (e *Engine) Popular(ctx context.Context, t Tenant, page, limit int, categoryID *int64) ([]content.Item, error) {
	if err := validatePaging(OpPopular, page, limit, e.cfg.MaxLimit); err != nil {
		return nil, err
	}
	if categoryID != nil {
		if err := validateID(OpPopular, "category", *categoryID); err != nil {
			return nil, err
		}
	}

	key := e.keys.SerializeKey(OpPopular,
		cache.Tenant(t.ID), cache.Page(page), cache.Limit(limit), cache.OptionalInt("cat", categoryID))

	since := e.now().Add(-e.cfg.PopularWindow).UTC().Truncate(time.Second)

	primary := newItemQuery(t.ID).
		and(inTenantKanal, t.ID).
		and("n.datepub >= ?", since).
		orderBy(byPopular)
	fallback := newItemQuery(t.ID).orderBy(byPopular)
	if categoryID != nil {
		primary.and("n.cat_id = ?", *categoryID)
		fallback.and("n.cat_id = ?", *categoryID)
	}

	primaryQuery, primaryArgs := primary.page(page, limit)
	fallbackQuery, fallbackArgs := fallback.page(page, limit)

	return e.items(ctx, OpPopular, key,
		step{primaryQuery, primaryArgs},
		step{fallbackQuery, fallbackArgs},
	)
}

// ByCategory returns one page of a category's articles for the tenant with
// an exact total. An empty category is the answer; there is no fallback.
func (e *Engine) ByCategory(ctx context.Context, t Tenant, categoryID int64, page, limit int) (content.Paginated, error) {
	if err := validatePaging(OpByCategory, page, limit, e.cfg.MaxLimit); err != nil {
		return content.Paginated{}, err
	}
	if err := validateID(OpByCategory, "category", categoryID); err != nil {
		return content.Paginated{}, err
	}

	key := e.keys.SerializeKey(OpByCategory,
		cache.Tenant(t.ID), cache.Page(page), cache.Limit(limit), cache.Int("cat", categoryID))

	return e.paginated(ctx, OpByCategory, key, t.ID, page, limit,
		newItemQuery(t.ID).and("n.cat_id = ?", categoryID))
}

// ByFocus is ByCategory for a focus topic.
func (e *Engine) ByFocus(ctx context.Context, t Tenant, focusID int64, page, limit int) (content.Paginated, error) {
	if err := validatePaging(OpByFocus, page, limit, e.cfg.MaxLimit); err != nil {
		return content.Paginated{}, err
	}
	if err := validateID(OpByFocus, "focus", focusID); err != nil {
		return content.Paginated{}, err
	}

	key := e.keys.SerializeKey(OpByFocus,
		cache.Tenant(t.ID), cache.Page(page), cache.Limit(limit), cache.Int("fok", focusID))

	return e.paginated(ctx, OpByFocus, key, t.ID, page, limit,
		newItemQuery(t.ID).and("n.fokus_id = ?", focusID))
}

// Search matches the query, case-insensitively, as a substring of the title,
// the description or the author name. A blank query matches nothing and
// never reaches the store.
func (e *Engine) Search(ctx context.Context, t Tenant, query string, page, limit int) (content.Paginated, error) {
	if err := validatePaging(OpSearch, page, limit, e.cfg.MaxLimit); err != nil {
		return content.Paginated{}, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return content.EmptyPage(page, limit), nil
	}

	key := e.keys.SerializeKey(OpSearch,
		cache.Tenant(t.ID), cache.Page(page), cache.Limit(limit), cache.Text("q", query))

	pattern := containsPattern(query)
	return e.paginated(ctx, OpSearch, key, t.ID, page, limit,
		newItemQuery(t.ID).and(searchClause, pattern, pattern, pattern))
}

// Detail returns the published article with the given code, or nil when
// there is none. Every article returned, cached or not, is handed to the
// view recorder exactly once. Absent articles are not cached.
func (e *Engine) Detail(ctx context.Context, code string) (*content.Detail, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, nil
	}

	key := e.keys.SerializeKey(OpDetail, cache.Text("", code))

	if cached, ok := e.cache.Lookup(ctx, OpDetail, key); ok {
		if d, ok := cached.(*content.Detail); ok && d != nil {
			e.views.Record(d.Code)
			out := *d
			return &out, nil
		}
	}

	rows, err := e.query(ctx, OpDetail, detailQuery, code, statusPublished)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	d := projection.Detail(rows[0])
	stored := d
	e.cache.Store(ctx, OpDetail, key, &stored)
	e.views.Record(d.Code)
	return &d, nil
}

// items reads a cascade of article queries through the cache.
func (e *Engine) items(ctx context.Context, op, key string, steps ...step) ([]content.Item, error) {
	return cache.GetOrFetch(ctx, e.cache, op, key, func(ctx context.Context) ([]content.Item, error) {
		rows, err := e.cascade(ctx, op, steps...)
		if err != nil {
			return nil, err
		}
		return projection.Items(rows), nil
	})
}

// paginated counts first and only fetches the page when something matched.
func (e *Engine) paginated(ctx context.Context, op, key string, tenantID int64, page, limit int, q *itemQuery) (content.Paginated, error) {
	return cache.GetOrFetch(ctx, e.cache, op, key, func(ctx context.Context) (content.Paginated, error) {
		countQuery, countArgs := q.count()
		total, err := e.count(ctx, op, countQuery, countArgs...)
		if err != nil {
			return content.Paginated{}, err
		}
		if total == 0 {
			e.logger.Debug("no matching articles", zap.String("op", op), zap.Int64("tenant_id", tenantID))
			return content.EmptyPage(page, limit), nil
		}

		pageQuery, pageArgs := q.page(page, limit)
		rows, err := e.query(ctx, op, pageQuery, pageArgs...)
		if err != nil {
			return content.Paginated{}, err
		}
		return content.Paginated{
			Data: projection.Items(rows),
			Meta: content.NewMeta(total, page, limit),
		}, nil
	})
}
