package resolver

import (
	"strings"
)

const (
	statusPublished = "1"
	headlineFlag    = 1
)

const itemColumns = `n.id, n.is_code, n.title, n.title_regional, n.description, n.caption, n.image,
	n.datepub, n.views, nc.name AS category_name, nc.slug AS category_slug, w.name AS author`

const itemFrom = `FROM news n
	INNER JOIN news_network nn ON nn.news_id = n.id
	LEFT JOIN news_cat nc ON nc.id = n.cat_id
	LEFT JOIN writers w ON w.id = n.writer_id`

const (
	inTenantKanal = "n.cat_id IN (SELECT nk.id_kanal FROM network_kanal nk WHERE nk.id_network = ?)"
	inTenantFokus = "n.fokus_id IN (SELECT nf.id_fokus FROM network_fokus nf WHERE nf.id_network = ?)"

	byNewest  = "n.datepub DESC, n.id DESC"
	byPopular = "n.views DESC, n.datepub DESC, n.id DESC"
)

// itemQuery assembles the article statements. Every value goes through a
// placeholder; only fixed fragments from this file are concatenated.
type itemQuery struct {
	where []string
	args  []any
	order string
}

// newItemQuery starts from published articles joined to the tenant.
func newItemQuery(tenantID int64) *itemQuery {
	return &itemQuery{
		where: []string{"nn.net_id = ?", "n.status = ?"},
		args:  []any{tenantID, statusPublished},
		order: byNewest,
	}
}

func (q *itemQuery) and(clause string, args ...any) *itemQuery {
	q.where = append(q.where, clause)
	q.args = append(q.args, args...)
	return q
}

func (q *itemQuery) orderBy(order string) *itemQuery {
	q.order = order
	return q
}

func (q *itemQuery) whereClause() string {
	return "WHERE " + strings.Join(q.where, " AND ")
}

// page renders the row query for one page.
func (q *itemQuery) page(page, limit int) (string, []any) {
	query := "SELECT " + itemColumns + " " + itemFrom + " " + q.whereClause() +
		" ORDER BY " + q.order + " LIMIT ? OFFSET ?"

	args := make([]any, 0, len(q.args)+2)
	args = append(args, q.args...)
	args = append(args, limit, offset(page, limit))
	return query, args
}

// count renders the matching-row count.
func (q *itemQuery) count() (string, []any) {
	query := "SELECT COUNT(n.id) AS total " + itemFrom + " " + q.whereClause()
	return query, append([]any(nil), q.args...)
}

func offset(page, limit int) int {
	return (page - 1) * limit
}

const detailQuery = `SELECT n.id, n.is_code, n.title, n.title_regional, n.description, n.caption,
	n.content, n.image, n.datepub, n.views, n.tag, n.locus, n.cat_id AS category_id,
	nc.name AS category_name, nc.slug AS category_slug, w.name AS author
	FROM news n
	LEFT JOIN news_cat nc ON nc.id = n.cat_id
	LEFT JOIN writers w ON w.id = n.writer_id
	WHERE n.is_code = ? AND n.status = ?
	LIMIT 1`

const tenantQuery = `SELECT id, name, slug, title, domain FROM network WHERE slug = ? LIMIT 1`

const (
	tenantCategoriesQuery = `SELECT nc.id, nc.slug, nc.name, nc.parent_id
	FROM network_kanal nk
	INNER JOIN news_cat nc ON nc.id = nk.id_kanal
	WHERE nk.id_network = ? AND nc.status = ?
	ORDER BY nk.sequence ASC, nc.id ASC`

	allCategoriesQuery = `SELECT nc.id, nc.slug, nc.name, nc.parent_id
	FROM news_cat nc
	WHERE nc.status = ?
	ORDER BY nc.created_at DESC, nc.id ASC`

	categoryBySlugQuery = `SELECT nc.id, nc.slug, nc.name, nc.parent_id
	FROM news_cat nc
	WHERE nc.slug = ? AND nc.status = ?
	LIMIT 1`
)

const focusColumns = `f.id, f.name, f.description, f.keyword, f.status,
	f.img_desktop_list, f.img_desktop_news, f.img_mobile`

const (
	tenantFocusesQuery = `SELECT ` + focusColumns + `
	FROM network_fokus nf
	INNER JOIN news_fokus f ON f.id = nf.id_fokus
	WHERE nf.id_network = ? AND f.status = ?
	ORDER BY nf.sequence ASC, f.id ASC`

	allFocusesQuery = `SELECT ` + focusColumns + `
	FROM news_fokus f
	WHERE f.status = ?
	ORDER BY f.id ASC`

	focusByIDQuery = `SELECT ` + focusColumns + `
	FROM news_fokus f
	WHERE f.id = ? AND f.status = ?
	LIMIT 1`
)

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsPattern turns free text into a case-insensitive LIKE operand used
// with ESCAPE '!'.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

const searchClause = `(LOWER(n.title) LIKE ? ESCAPE '!'
	OR LOWER(n.description) LIKE ? ESCAPE '!'
	OR LOWER(w.name) LIKE ? ESCAPE '!')`
