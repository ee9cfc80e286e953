package handlers

import (
	"strconv"

	"foodgram/internal/domain"

	"github.com/gofiber/fiber/v2"
)

// Paginator reads page/limit query parameters and builds list envelopes.
type Paginator struct {
	DefaultLimit int
	MaxLimit     int
}

// Page reads ?page= and ?limit=, falling back to defaults on bad input.
func (p Paginator) Page(c *fiber.Ctx) domain.Page {
	number := c.QueryInt("page", 1)
	if number < 1 {
		number = 1
	}
	limit := c.QueryInt("limit", p.DefaultLimit)
	if limit < 1 {
		limit = p.DefaultLimit
	}
	if p.MaxLimit > 0 && limit > p.MaxLimit {
		limit = p.MaxLimit
	}
	return domain.Page{Number: number, Limit: limit}
}

// Envelope wraps one page of results with the total count and neighbour links.
func (p Paginator) Envelope(c *fiber.Ctx, page domain.Page, count int64, results any) fiber.Map {
	var next, previous any
	if int64(page.Number*page.Limit) < count {
		next = pageURL(c, page.Number+1)
	}
	if page.Number > 1 {
		previous = pageURL(c, page.Number-1)
	}
	return fiber.Map{
		"count":    count,
		"next":     next,
		"previous": previous,
		"results":  results,
	}
}

func pageURL(c *fiber.Ctx, number int) string {
	args := fiber.AcquireArgs()
	defer fiber.ReleaseArgs(args)
	c.Request().URI().QueryArgs().CopyTo(args)
	if number == 1 {
		args.Del("page")
	} else {
		args.Set("page", strconv.Itoa(number))
	}
	url := c.BaseURL() + c.Path()
	if args.Len() > 0 {
		url += "?" + args.String()
	}
	return url
}
