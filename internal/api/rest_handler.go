package api

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/querygate-io/querygate/internal/query"
)

// handleList answers GET /api/v1/:table with a filtered, ordered,
// paginated read. Unique-key lookups and aggregates return a bare
// object instead of a list.
func (s *Server) handleList(c fiber.Ctx) error {
	model, ok := s.models[c.Params("table")]
	if !ok {
		return SendError(c, fiber.StatusNotFound, fmt.Sprintf("unknown collection %q", c.Params("table")))
	}

	principal := PrincipalFromCtx(c)
	rawQuery := string(c.Request().URI().QueryString())

	result, err := s.transformer.ConstructQuery(c.Context(), model, rawQuery, principal)
	if err != nil {
		if isQueryError(err) {
			return SendError(c, fiber.StatusBadRequest, err.Error())
		}
		log.Error().Err(err).Str("table", model.Table).Msg("Query execution failed")
		return SendError(c, fiber.StatusInternalServerError, "query execution failed")
	}

	if result.Item != nil {
		return c.JSON(result.Item)
	}

	setPaginationHeaders(c, result.Page)
	return c.JSON(result.Page.Items)
}

// paginationMeta is the numeric pagination metadata exposed in the
// X-Pagination header. Absent transitions are null.
type paginationMeta struct {
	Current  int  `json:"current"`
	First    int  `json:"first"`
	Last     int  `json:"last"`
	Next     *int `json:"next"`
	Previous *int `json:"previous"`
	PerPage  int  `json:"per_page"`
	Total    int  `json:"total"`
}

func setPaginationHeaders(c fiber.Ctx, page *query.Page) {
	meta := paginationMeta{
		Current: page.Current,
		First:   1,
		Last:    page.LastPage(),
		PerPage: page.PerPage,
		Total:   page.Total,
	}
	if n, ok := page.NextPage(); ok {
		meta.Next = &n
	}
	if p, ok := page.PrevPage(); ok {
		meta.Previous = &p
	}
	if encoded, err := json.Marshal(meta); err == nil {
		c.Set("X-Pagination", string(encoded))
	}
	if link := linkHeader(requestURL(c), page); link != "" {
		c.Set("Link", link)
	}
}

// linkHeader renders first/prev/next/last entries, each the request URL
// with the $page parameter rewritten. Unavailable transitions are
// omitted.
func linkHeader(base *url.URL, page *query.Page) string {
	if base == nil {
		return ""
	}
	entries := []string{
		linkEntry(base, 1, "first"),
	}
	if p, ok := page.PrevPage(); ok {
		entries = append(entries, linkEntry(base, p, "prev"))
	}
	if n, ok := page.NextPage(); ok {
		entries = append(entries, linkEntry(base, n, "next"))
	}
	entries = append(entries, linkEntry(base, page.LastPage(), "last"))
	return strings.Join(entries, ", ")
}

func linkEntry(base *url.URL, page int, rel string) string {
	u := *base
	q := u.Query()
	q.Set("$page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return fmt.Sprintf("<%s>; rel=%q", u.String(), rel)
}

func requestURL(c fiber.Ctx) *url.URL {
	raw := c.BaseURL() + string(c.Request().URI().RequestURI())
	u, err := url.Parse(raw)
	if err != nil {
		return nil
	}
	return u
}
