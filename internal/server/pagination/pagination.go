// Package pagination computes page bounds and navigation links for
// collection endpoints.
package pagination

import (
	"fmt"
	"strconv"
	"strings"
)

// PageSize is the number of records per page on every collection.
const PageSize = 10

type Links struct {
	NextPage  string `json:"nextPage,omitempty"`
	LastPage  string `json:"lastPage,omitempty"`
	PrevPage  string `json:"prevPage,omitempty"`
	FirstPage string `json:"firstPage,omitempty"`
}

type Page struct {
	PageNumber int   `json:"pageNumber"`
	PageSize   int   `json:"pageSize"`
	TotalCount int64 `json:"totalCount"`
	TotalPages int   `json:"totalPages"`
	Links      Links `json:"links"`
}

// Offset is the number of records preceding this page.
func (p Page) Offset() int {
	return (p.PageNumber - 1) * p.PageSize
}

// ParsePage reads a ?page= value. Anything that is not a positive integer
// yields 1. There is no upper bound.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Paginate builds the descriptor for page out of totalCount records.
// Links are basePath with a page query parameter; forward links appear
// only before the last page and backward links only after the first.
func Paginate(page int, totalCount int64, pageSize int, basePath string) Page {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = PageSize
	}
	if totalCount < 0 {
		totalCount = 0
	}

	totalPages := int((totalCount + int64(pageSize) - 1) / int64(pageSize))

	p := Page{
		PageNumber: page,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}
	if page < totalPages {
		p.Links.NextPage = link(basePath, page+1)
		p.Links.LastPage = link(basePath, totalPages)
	}
	if page > 1 {
		p.Links.PrevPage = link(basePath, page-1)
		p.Links.FirstPage = link(basePath, 1)
	}
	return p
}

func link(basePath string, page int) string {
	sep := "?"
	if strings.Contains(basePath, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%spage=%d", basePath, sep, page)
}
