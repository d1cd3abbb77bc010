// Package content holds the externally visible shapes produced by the
// resolver. Only the fields declared here ever leave the service.
package content

import (
	"math"
	"time"
)

// Tenant is a branded network site.
type Tenant struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Slug   string `json:"slug"`
	Title  string `json:"title"`
	Domain string `json:"domain"`
}

// Item is an article as it appears in listings.
type Item struct {
	ID            int64     `json:"id"`
	Code          string    `json:"is_code"`
	Image         string    `json:"image"`
	Caption       string    `json:"caption"`
	Published     time.Time `json:"datepub"`
	Title         string    `json:"title"`
	TitleRegional string    `json:"title_regional"`
	CategoryName  string    `json:"category_name"`
	Author        string    `json:"author"`
	Views         int64     `json:"views"`
	Description   string    `json:"description"`
	URL           string    `json:"url"`
}

// Detail is a single article with its body.
type Detail struct {
	ID            int64     `json:"id"`
	Code          string    `json:"is_code"`
	Image         string    `json:"image"`
	Caption       string    `json:"caption"`
	Published     time.Time `json:"datepub"`
	Title         string    `json:"title"`
	TitleRegional string    `json:"title_regional"`
	WriterName    string    `json:"writer_name"`
	CategoryID    int64     `json:"category_id"`
	CategoryName  string    `json:"category_name"`
	CategorySlug  string    `json:"category_slug"`
	Locus         string    `json:"locus"`
	Views         int64     `json:"views"`
	Tag           string    `json:"tag"`
	Description   string    `json:"description"`
	Content       string    `json:"content"`
	URL           string    `json:"url"`
}

// Category is a news channel ("kanal").
type Category struct {
	ID   int64  `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// CategoryNode is a category placed in the tenant's category tree.
// Children is never nil. News is only set when the caller asked for it.
type CategoryNode struct {
	Category
	ParentID *int64          `json:"parent_id"`
	Children []*CategoryNode `json:"children"`
	News     []Item          `json:"news,omitempty"`
}

// Focus is a focus topic ("fokus").
type Focus struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	Keyword        string `json:"keyword"`
	Status         string `json:"status"`
	ImgDesktopList string `json:"img_desktop_list"`
	ImgDesktopNews string `json:"img_desktop_news"`
	ImgMobile      string `json:"img_mobile"`
	URL            string `json:"url"`
}

// Meta describes one page of a paginated result.
type Meta struct {
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	Limit    int   `json:"limit"`
	LastPage int   `json:"lastPage"`
}

// Paginated is a page of items together with its metadata.
type Paginated struct {
	Data []Item `json:"data"`
	Meta Meta   `json:"meta"`
}

// NewMeta computes pagination metadata; LastPage is ceil(total/limit).
func NewMeta(total int64, page, limit int) Meta {
	last := 0
	if total > 0 && limit > 0 {
		last = int(math.Ceil(float64(total) / float64(limit)))
	}
	return Meta{Total: total, Page: page, Limit: limit, LastPage: last}
}

// EmptyPage is the result for a query that matched nothing.
func EmptyPage(page, limit int) Paginated {
	return Paginated{Data: []Item{}, Meta: NewMeta(0, page, limit)}
}
