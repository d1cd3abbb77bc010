package testsupport

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-newsnet/internal/storeinfra"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

//go:embed schema.sql
var schemaSQL string

// OpenSQLite opens an isolated in-memory database with the content schema
// applied. The database is closed when the test finishes.
func OpenSQLite(t testing.TB) *bun.DB {
	t.Helper()

	cfg := storeinfra.DefaultConfig()
	cfg.Driver = storeinfra.DriverSQLite
	cfg.DSN = fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	// a single connection keeps the shared in-memory database free of table locks
	cfg.MaxOpenConns = 1
	cfg.MaxIdleConns = 1
	cfg.ConnMaxIdleTime = 0
	cfg.ConnMaxLifetime = 0

	db, err := storeinfra.Open(cfg)
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	for _, stmt := range strings.Split(schemaSQL, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			t.Fatalf("failed to apply schema: %v\n%s", err, stmt)
		}
	}

	return db
}

// Network is a tenant row.
type Network struct {
	ID     int64
	Name   string
	Slug   string
	Title  string
	Domain string
}

// Category is a news_cat row.
type Category struct {
	ID       int64
	Slug     string
	Name     string
	Status   string
	ParentID *int64
}

// Focus is a news_fokus row.
type Focus struct {
	ID          int64
	Name        string
	Description string
	Keyword     string
	Status      string
	ImageMobile string
}

// Writer is a writers row.
type Writer struct {
	ID   int64
	Name string
}

// Article is a news row together with the networks it is published to.
type Article struct {
	ID            int64
	Code          string
	Title         string
	TitleRegional string
	Description   string
	Content       string
	Image         string
	Published     time.Time
	Views         int64
	Status        string
	CategoryID    int64
	FocusID       *int64
	WriterID      int64
	Headline      bool
	Networks      []int64
}

// Membership links a network to a category or focus topic.
type Membership struct {
	NetworkID int64
	ID        int64
	Sequence  int
}

// Dataset is a complete content store snapshot.
type Dataset struct {
	Networks       []Network
	Writers        []Writer
	Categories     []Category
	Focuses        []Focus
	Articles       []Article
	NetworkKanal   []Membership
	NetworkFocuses []Membership
}

// Seed inserts every row of the dataset.
func Seed(t testing.TB, db *bun.DB, ds Dataset) {
	t.Helper()

	ctx := context.Background()
	exec := func(query string, args ...any) {
		t.Helper()
		if _, err := db.ExecContext(ctx, query, args...); err != nil {
			t.Fatalf("seed failed: %v\n%s", err, query)
		}
	}

	for _, n := range ds.Networks {
		exec("INSERT INTO network (id, name, slug, title, domain) VALUES (?, ?, ?, ?, ?)",
			n.ID, n.Name, n.Slug, n.Title, n.Domain)
	}
	for _, w := range ds.Writers {
		exec("INSERT INTO writers (id, name) VALUES (?, ?)", w.ID, w.Name)
	}
	for _, c := range ds.Categories {
		exec("INSERT INTO news_cat (id, slug, name, status, parent_id) VALUES (?, ?, ?, ?, ?)",
			c.ID, c.Slug, c.Name, c.Status, c.ParentID)
	}
	for _, f := range ds.Focuses {
		exec("INSERT INTO news_fokus (id, name, description, keyword, status, img_mobile) VALUES (?, ?, ?, ?, ?, ?)",
			f.ID, f.Name, f.Description, f.Keyword, f.Status, f.ImageMobile)
	}
	for _, a := range ds.Articles {
		headline := 0
		if a.Headline {
			headline = 1
		}
		exec(`INSERT INTO news (id, is_code, title, title_regional, description, content, image,
			datepub, views, status, cat_id, fokus_id, writer_id, is_headline)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			a.ID, a.Code, a.Title, a.TitleRegional, a.Description, a.Content, a.Image,
			a.Published.UTC(), a.Views, a.Status, a.CategoryID, a.FocusID, a.WriterID, headline)
		for _, net := range a.Networks {
			exec("INSERT INTO news_network (news_id, net_id) VALUES (?, ?)", a.ID, net)
		}
	}
	for _, m := range ds.NetworkKanal {
		exec("INSERT INTO network_kanal (id_network, id_kanal, sequence) VALUES (?, ?, ?)",
			m.NetworkID, m.ID, m.Sequence)
	}
	for _, m := range ds.NetworkFocuses {
		exec("INSERT INTO network_fokus (id_network, id_fokus, sequence) VALUES (?, ?, ?)",
			m.NetworkID, m.ID, m.Sequence)
	}
}

func ptr(n int64) *int64 { return &n }

// Newsroom returns the reference dataset used by integration tests, with
// publish times relative to now:
//
//   - network 2 "malang" joins categories 6, 7, 8 and 5 and focus 3;
//     category 5 has no published articles for it.
//   - network 3 "jatim" has articles but no category or focus membership.
//   - network 4 "sepi" has nothing at all.
func Newsroom(now time.Time) Dataset {
	return Dataset{
		Networks: []Network{
			{ID: 2, Name: "Times Malang", Slug: "malang", Title: "Berita Malang", Domain: "malang.times.co.id"},
			{ID: 3, Name: "Times Jatim", Slug: "jatim", Title: "Berita Jatim", Domain: "jatim.times.co.id"},
			{ID: 4, Name: "Times Sepi", Slug: "sepi", Title: "Berita Sepi", Domain: "sepi.times.co.id"},
		},
		Writers: []Writer{
			{ID: 1, Name: "Rina Wulandari"},
			{ID: 2, Name: "Budi Santoso"},
		},
		Categories: []Category{
			{ID: 5, Slug: "ekonomi", Name: "Ekonomi", Status: "1"},
			{ID: 6, Slug: "politik", Name: "Politik", Status: "1"},
			{ID: 7, Slug: "pilkada", Name: "Pilkada", Status: "1", ParentID: ptr(6)},
			{ID: 8, Slug: "olahraga", Name: "Olahraga", Status: "1"},
			{ID: 9, Slug: "arsip", Name: "Arsip", Status: "0"},
		},
		Focuses: []Focus{
			{ID: 3, Name: "Pemilu 2024", Description: "Liputan pemilu", Keyword: "pemilu", Status: "1", ImageMobile: "pemilu.jpg"},
			{ID: 4, Name: "Banjir Kota", Description: "Liputan banjir", Keyword: "banjir", Status: "1"},
		},
		Articles: []Article{
			{ID: 1, Code: "ABC123", Title: "Breaking: New Policy!", Description: "Policy update for the city",
				Content: "<p>body</p>", Image: "policy.jpg", Published: now.Add(-1 * time.Hour), Views: 100,
				Status: "1", CategoryID: 6, FocusID: ptr(3), WriterID: 1, Headline: true, Networks: []int64{2}},
			{ID: 2, Code: "DEF456", Title: "Calon Walikota Debat", TitleRegional: "Debat Calon Wali Kota",
				Description: "Debat publik", Image: "debat.jpg", Published: now.Add(-2 * time.Hour), Views: 500,
				Status: "1", CategoryID: 7, WriterID: 2, Networks: []int64{2}},
			{ID: 3, Code: "GHI789", Title: "Arema Menang Tandang", Description: "Liga 1",
				Image: "arema.jpg", Published: now.Add(-40 * 24 * time.Hour), Views: 900,
				Status: "1", CategoryID: 8, WriterID: 1, Networks: []int64{2}},
			{ID: 4, Code: "UNPUB1", Title: "Draft Article", Published: now.Add(-30 * time.Minute),
				Status: "0", CategoryID: 6, WriterID: 1, Headline: true, Networks: []int64{2}},
			{ID: 5, Code: "JTM001", Title: "Harga Cabai Naik", Description: "Pasar induk",
				Published: now.Add(-3 * time.Hour), Views: 40, Status: "1", CategoryID: 5, WriterID: 2, Networks: []int64{3}},
			{ID: 6, Code: "JTM002", Title: "Persebaya Juara", Description: "Derby Jatim",
				Published: now.Add(-5 * time.Hour), Views: 70, Status: "1", CategoryID: 8, WriterID: 2,
				Headline: true, Networks: []int64{3}},
		},
		NetworkKanal: []Membership{
			{NetworkID: 2, ID: 6, Sequence: 1},
			{NetworkID: 2, ID: 7, Sequence: 2},
			{NetworkID: 2, ID: 8, Sequence: 3},
			{NetworkID: 2, ID: 5, Sequence: 4},
		},
		NetworkFocuses: []Membership{
			{NetworkID: 2, ID: 3, Sequence: 1},
		},
	}
}
