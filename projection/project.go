package projection

import (
	"github.com/goliatone/go-newsnet/content"
	"github.com/goliatone/go-newsnet/store"
)

// Site identifies the tenant a category URL is rendered for.
type Site struct {
	TenantSlug string
	Domain     string
}

// Tenant projects a network row.
func Tenant(r store.Row) content.Tenant {
	return content.Tenant{
		ID:     r.Int64("id"),
		Name:   r.String("name"),
		Slug:   r.String("slug"),
		Title:  r.String("title"),
		Domain: r.String("domain"),
	}
}

// Item projects a listing row. The row is expected to carry the joined
// category_name, category_slug and author columns.
func Item(r store.Row) content.Item {
	code := r.String("is_code")
	regional := r.String("title_regional")
	title := r.String("title")

	return content.Item{
		ID:            r.Int64("id"),
		Code:          code,
		Image:         r.String("image"),
		Caption:       r.String("caption"),
		Published:     r.Time("datepub"),
		Title:         title,
		TitleRegional: regional,
		CategoryName:  r.String("category_name"),
		Author:        r.String("author"),
		Views:         r.Int64("views"),
		Description:   r.String("description"),
		URL:           ItemURL(r.String("category_slug"), code, Slug(regional, title)),
	}
}

// Items projects rows in order. The result is never nil.
func Items(rows []store.Row) []content.Item {
	items := make([]content.Item, 0, len(rows))
	for _, r := range rows {
		items = append(items, Item(r))
	}
	return items
}

// Detail projects a single article row including its body.
func Detail(r store.Row) content.Detail {
	code := r.String("is_code")
	regional := r.String("title_regional")
	title := r.String("title")
	categorySlug := r.String("category_slug")

	return content.Detail{
		ID:            r.Int64("id"),
		Code:          code,
		Image:         r.String("image"),
		Caption:       r.String("caption"),
		Published:     r.Time("datepub"),
		Title:         title,
		TitleRegional: regional,
		WriterName:    r.String("author"),
		CategoryID:    r.Int64("category_id"),
		CategoryName:  r.String("category_name"),
		CategorySlug:  categorySlug,
		Locus:         r.String("locus"),
		Views:         r.Int64("views"),
		Tag:           r.String("tag"),
		Description:   r.String("description"),
		Content:       r.String("content"),
		URL:           ItemURL(categorySlug, code, Slug(regional, title)),
	}
}

// Category projects a news_cat row for the given site.
func Category(r store.Row, site Site) content.Category {
	slug := r.String("slug")
	return content.Category{
		ID:   r.Int64("id"),
		Slug: slug,
		Name: r.String("name"),
		URL:  CategoryURL(site.TenantSlug, site.Domain, slug),
	}
}

// Categories projects rows in order. The result is never nil.
func Categories(rows []store.Row, site Site) []content.Category {
	out := make([]content.Category, 0, len(rows))
	for _, r := range rows {
		out = append(out, Category(r, site))
	}
	return out
}

// Focus projects a news_fokus row.
func Focus(r store.Row) content.Focus {
	id := r.Int64("id")
	name := r.String("name")

	return content.Focus{
		ID:             id,
		Name:           name,
		Description:    r.String("description"),
		Keyword:        r.String("keyword"),
		Status:         r.String("status"),
		ImgDesktopList: r.String("img_desktop_list"),
		ImgDesktopNews: r.String("img_desktop_news"),
		ImgMobile:      r.String("img_mobile"),
		URL:            FocusURL(id, name),
	}
}

// Focuses projects rows in order. The result is never nil.
func Focuses(rows []store.Row) []content.Focus {
	out := make([]content.Focus, 0, len(rows))
	for _, r := range rows {
		out = append(out, Focus(r))
	}
	return out
}
