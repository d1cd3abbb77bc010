package resolver

import (
	"context"
	"strings"

	"github.com/goliatone/go-newsnet/cache"
	"github.com/goliatone/go-newsnet/content"
	"github.com/goliatone/go-newsnet/projection"
	"golang.org/x/sync/errgroup"
)

// Tenant looks a network up by slug. It returns nil when no network has the
// slug; misses are not cached.
func (e *Engine) Tenant(ctx context.Context, slug string) (*content.Tenant, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, nil
	}

	key := e.keys.SerializeKey(OpTenant, cache.Text("", slug))
	if cached, ok := e.cache.Lookup(ctx, OpTenant, key); ok {
		if t, ok := cached.(*content.Tenant); ok && t != nil {
			out := *t
			return &out, nil
		}
	}

	rows, err := e.query(ctx, OpTenant, tenantQuery, slug)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	t := projection.Tenant(rows[0])
	stored := t
	e.cache.Store(ctx, OpTenant, key, &stored)
	return &t, nil
}

// Categories lists the tenant's categories in junction order, or every
// published category when the tenant has none joined.
func (e *Engine) Categories(ctx context.Context, t Tenant) ([]content.Category, error) {
	key := e.keys.SerializeKey(OpCategories, cache.Tenant(t.ID), cache.Text("s", t.Slug))

	return cache.GetOrFetch(ctx, e.cache, OpCategories, key, func(ctx context.Context) ([]content.Category, error) {
		rows, err := e.cascade(ctx, OpCategories,
			step{tenantCategoriesQuery, []any{t.ID, statusPublished}},
			step{allCategoriesQuery, []any{statusPublished}},
		)
		if err != nil {
			return nil, err
		}
		return projection.Categories(rows, e.site(t)), nil
	})
}

// CategoryBySlug returns the published category with the slug, its URL
// rendered for the tenant, or nil.
func (e *Engine) CategoryBySlug(ctx context.Context, t Tenant, slug string) (*content.Category, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, nil
	}

	key := e.keys.SerializeKey(OpCategory, cache.Tenant(t.ID), cache.Text("s", t.Slug), cache.Text("c", slug))

	if cached, ok := e.cache.Lookup(ctx, OpCategory, key); ok {
		if c, ok := cached.(*content.Category); ok && c != nil {
			out := *c
			return &out, nil
		}
	}

	rows, err := e.query(ctx, OpCategory, categoryBySlugQuery, slug, statusPublished)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	c := projection.Category(rows[0], e.site(t))
	stored := c
	e.cache.Store(ctx, OpCategory, key, &stored)
	return &c, nil
}

// CategoryTree arranges the categories joined to the tenant into a tree in
// junction order. With withNews every node carries its limit latest
// articles, fetched concurrently. The returned nodes are shared with the
// cache and must not be modified.
func (e *Engine) CategoryTree(ctx context.Context, t Tenant, limit int, withNews bool) ([]*content.CategoryNode, error) {
	segments := []cache.Segment{cache.Tenant(t.ID), cache.Text("s", t.Slug), cache.Bool("news", withNews)}
	if withNews {
		if err := validatePaging(OpCategoryTree, 1, limit, e.cfg.MaxLimit); err != nil {
			return nil, err
		}
		segments = append(segments, cache.Limit(limit))
	}

	key := e.keys.SerializeKey(OpCategoryTree, segments...)

	return cache.GetOrFetch(ctx, e.cache, OpCategoryTree, key, func(ctx context.Context) ([]*content.CategoryNode, error) {
		rows, err := e.query(ctx, OpCategoryTree, tenantCategoriesQuery, t.ID, statusPublished)
		if err != nil {
			return nil, err
		}

		roots := projection.BuildTree(rows, e.site(t))
		if !withNews {
			return roots, nil
		}

		var nodes []*content.CategoryNode
		projection.Walk(roots, func(n *content.CategoryNode) { nodes = append(nodes, n) })

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(e.cfg.TreeConcurrency)
		for _, n := range nodes {
			g.Go(func() error {
				q, args := newItemQuery(t.ID).and("n.cat_id = ?", n.ID).page(1, limit)
				rows, err := e.query(gctx, OpCategoryTree, q, args...)
				if err != nil {
					return err
				}
				n.News = projection.Items(rows)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return roots, nil
	})
}

// Focuses lists the tenant's focus topics in junction order, or every
// published topic when the tenant has none joined.
func (e *Engine) Focuses(ctx context.Context, t Tenant) ([]content.Focus, error) {
	key := e.keys.SerializeKey(OpFocuses, cache.Tenant(t.ID))

	return cache.GetOrFetch(ctx, e.cache, OpFocuses, key, func(ctx context.Context) ([]content.Focus, error) {
		rows, err := e.cascade(ctx, OpFocuses,
			step{tenantFocusesQuery, []any{t.ID, statusPublished}},
			step{allFocusesQuery, []any{statusPublished}},
		)
		if err != nil {
			return nil, err
		}
		return projection.Focuses(rows), nil
	})
}

// FocusDetail returns a published focus topic, or nil.
func (e *Engine) FocusDetail(ctx context.Context, id int64) (*content.Focus, error) {
	if err := validateID(OpFocus, "focus", id); err != nil {
		return nil, err
	}

	key := e.keys.SerializeKey(OpFocus, cache.Int("fok", id))
	if cached, ok := e.cache.Lookup(ctx, OpFocus, key); ok {
		if f, ok := cached.(*content.Focus); ok && f != nil {
			out := *f
			return &out, nil
		}
	}

	rows, err := e.query(ctx, OpFocus, focusByIDQuery, id, statusPublished)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	f := projection.Focus(rows[0])
	stored := f
	e.cache.Store(ctx, OpFocus, key, &stored)
	return &f, nil
}
