// Package listview owns the authoritative in-memory copy of one entity
// collection and derives the filtered, paginated view a list page renders.
package listview

import (
	"context"
	"math"
	"strings"

	"github.com/campus-suite/registry-service/internal/recordstore"
	"github.com/campus-suite/registry-service/internal/schema"
)

// reloadLimit bounds how many records one reload pulls from the gateway.
// Collections past the cap are truncated to the newest reloadLimit records;
// the admin data sets this serves stay far below it.
const reloadLimit = 1000

// Controller holds one entity collection in display shape. Each instance
// owns its collection exclusively; it is not safe for concurrent mutation.
type Controller struct {
	table   schema.Table
	gateway recordstore.Gateway

	items    []map[string]any
	filtered []map[string]any
	term     string
}

func NewController(table schema.Table, gateway recordstore.Gateway) *Controller {
	return &Controller{table: table, gateway: gateway}
}

// Reload replaces the collection from the gateway, newest first and capped
// at reloadLimit, and reapplies the current search term. Must be called
// after every mutation: the view has to reflect server-assigned identities,
// so no optimistic local patching.
func (c *Controller) Reload(ctx context.Context) error {
	recs, err := c.gateway.List(ctx, c.table.Name, recordstore.ListOptions{
		OrderBy:    "CreatedOn",
		Descending: true,
		Limit:      reloadLimit,
	})
	if err != nil {
		return err
	}

	items := make([]map[string]any, 0, len(recs))
	for _, rec := range recs {
		items = append(items, c.table.ToDisplay(rec))
	}
	c.items = items
	c.applyFilter()
	return nil
}

// SetSearchTerm resets paging to the first page and recomputes the filtered
// view. A blank or whitespace-only term restores the full collection.
func (c *Controller) SetSearchTerm(term string) {
	c.term = term
	c.applyFilter()
}

func (c *Controller) applyFilter() {
	needle := strings.ToLower(strings.TrimSpace(c.term))
	if needle == "" {
		c.filtered = c.items
		return
	}

	filtered := make([]map[string]any, 0, len(c.items))
	for _, item := range c.items {
		for _, field := range c.table.Searchable {
			if strings.Contains(schema.SearchText(item[field]), needle) {
				filtered = append(filtered, item)
				break
			}
		}
	}
	c.filtered = filtered
}

// PageResult is one deterministic slice of the filtered collection.
type PageResult struct {
	Items      []map[string]any `json:"items"`
	TotalItems int              `json:"total_items"`
	TotalPages int              `json:"total_pages"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	StartIndex int              `json:"start_index"`
	EndIndex   int              `json:"end_index"`
}

// Page slices the filtered view. Pages are 1-based; a page beyond range
// yields an empty item list without error, clamping is the caller's choice.
func (c *Controller) Page(page, size int) PageResult {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}

	total := len(c.filtered)
	totalPages := int(math.Ceil(float64(total) / float64(size)))

	start := (page - 1) * size
	end := start + size
	if start >= total {
		return PageResult{
			Items:      []map[string]any{},
			TotalItems: total,
			TotalPages: totalPages,
			Page:       page,
			PageSize:   size,
			StartIndex: total,
			EndIndex:   total,
		}
	}
	if end > total {
		end = total
	}

	items := make([]map[string]any, end-start)
	copy(items, c.filtered[start:end])
	return PageResult{
		Items:      items,
		TotalItems: total,
		TotalPages: totalPages,
		Page:       page,
		PageSize:   size,
		StartIndex: start,
		EndIndex:   end,
	}
}

// Len reports the size of the filtered view.
func (c *Controller) Len() int { return len(c.filtered) }

// SearchTerm reports the active filter text.
func (c *Controller) SearchTerm() string { return c.term }
