package helper

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 25
	MaxPerPage     = 200
)

type PageParams struct {
	Page    int
	PerPage int
	SortBy  string
	Sort    string // asc|desc
}

func (p PageParams) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// ParsePage membaca ?page=&per_page=&sort_by=&sort= dengan guard batas atas.
// sortBy divalidasi terhadap whitelist kolom dari pemanggil.
func ParsePage(c *fiber.Ctx, defaultSortBy string, allowedSortBy ...string) PageParams {
	page := atoiDefault(c.Query("page"), DefaultPage)
	if page < 1 {
		page = DefaultPage
	}

	per := atoiDefault(firstNonEmpty(c.Query("per_page"), c.Query("limit")), DefaultPerPage)
	if per < 1 {
		per = DefaultPerPage
	}
	if per > MaxPerPage {
		per = MaxPerPage
	}

	sortBy := strings.TrimSpace(c.Query("sort_by"))
	ok := false
	for _, a := range allowedSortBy {
		if strings.EqualFold(sortBy, a) {
			sortBy = a
			ok = true
			break
		}
	}
	if !ok {
		sortBy = defaultSortBy
	}

	sort := strings.ToLower(strings.TrimSpace(c.Query("sort")))
	if sort != "asc" && sort != "desc" {
		sort = "desc"
	}

	return PageParams{Page: page, PerPage: per, SortBy: sortBy, Sort: sort}
}

// Meta pagination untuk response list
func PageMeta(p PageParams, total int64) fiber.Map {
	return fiber.Map{
		"page":     p.Page,
		"per_page": p.PerPage,
		"total":    total,
	}
}

func atoiDefault(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
