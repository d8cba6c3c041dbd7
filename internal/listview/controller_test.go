package listview

import (
	"context"
	"fmt"
	"testing"

	"github.com/campus-suite/registry-service/internal/recordstore"
	"github.com/campus-suite/registry-service/internal/schema"
)

func seededController(t *testing.T, n int) *Controller {
	t.Helper()
	g := recordstore.NewMemoryGateway()
	for i := 1; i <= n; i++ {
		recs := []recordstore.Record{{
			"first_name_c": fmt.Sprintf("Student%02d", i),
			"last_name_c":  "Test",
			"email_c":      fmt.Sprintf("s%02d@example.edu", i),
			"major_c":      "Mathematics",
		}}
		if i%5 == 0 {
			recs[0]["major_c"] = "Physics"
		}
		g.Seed("student_c", recs)
	}

	c := NewController(schema.Students, g)
	if err := c.Reload(context.Background()); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	return c
}

func TestReloadNewestFirst(t *testing.T) {
	c := seededController(t, 3)

	page := c.Page(1, 10)
	if page.TotalItems != 3 {
		t.Fatalf("TotalItems = %d, want 3", page.TotalItems)
	}
	if page.Items[0]["Id"] != 3 {
		t.Errorf("first item Id = %v, want newest (3)", page.Items[0]["Id"])
	}
}

func TestPaginationIsDeterministicAndDisjoint(t *testing.T) {
	c := seededController(t, 23)

	seen := map[any]bool{}
	for page := 1; page <= 3; page++ {
		result := c.Page(page, 10)
		if result.TotalItems != 23 {
			t.Errorf("page %d TotalItems = %d", page, result.TotalItems)
		}
		if result.TotalPages != 3 {
			t.Errorf("page %d TotalPages = %d, want 3", page, result.TotalPages)
		}
		for _, item := range result.Items {
			if seen[item["Id"]] {
				t.Errorf("item %v appears on more than one page", item["Id"])
			}
			seen[item["Id"]] = true
		}
	}
	if len(seen) != 23 {
		t.Errorf("pages covered %d items, want 23", len(seen))
	}

	last := c.Page(3, 10)
	if len(last.Items) != 3 {
		t.Errorf("last page len = %d, want 3", len(last.Items))
	}
	if last.StartIndex != 20 || last.EndIndex != 23 {
		t.Errorf("last page bounds = [%d,%d), want [20,23)", last.StartIndex, last.EndIndex)
	}
}

func TestPageBeyondRangeIsEmpty(t *testing.T) {
	c := seededController(t, 5)

	result := c.Page(4, 10)
	if len(result.Items) != 0 {
		t.Errorf("beyond-range page has %d items", len(result.Items))
	}
	if result.TotalItems != 5 || result.TotalPages != 1 {
		t.Errorf("totals = %d/%d, want 5/1", result.TotalItems, result.TotalPages)
	}
}

func TestSearchFiltersAcrossSearchableFields(t *testing.T) {
	c := seededController(t, 20)

	// Case-insensitive match on major.
	c.SetSearchTerm("PHYSICS")
	if c.Len() != 4 {
		t.Errorf("physics matches = %d, want 4", c.Len())
	}

	// Narrowing the term cannot grow the result set.
	broad := c.Len()
	c.SetSearchTerm("physics x")
	if c.Len() > broad {
		t.Errorf("narrower term grew results: %d > %d", c.Len(), broad)
	}

	// Blank restores everything.
	c.SetSearchTerm("   ")
	if c.Len() != 20 {
		t.Errorf("blank term len = %d, want 20", c.Len())
	}
}

func TestReloadReappliesSearchTerm(t *testing.T) {
	g := recordstore.NewMemoryGateway()
	g.Seed("student_c", []recordstore.Record{
		{"first_name_c": "Ada", "major_c": "Math"},
	})
	c := NewController(schema.Students, g)
	ctx := context.Background()

	if err := c.Reload(ctx); err != nil {
		t.Fatal(err)
	}
	c.SetSearchTerm("ada")
	if c.Len() != 1 {
		t.Fatalf("len = %d", c.Len())
	}

	g.Seed("student_c", []recordstore.Record{
		{"first_name_c": "Adalyn", "major_c": "Math"},
		{"first_name_c": "Grace", "major_c": "CS"},
	})
	if err := c.Reload(ctx); err != nil {
		t.Fatal(err)
	}

	if c.SearchTerm() != "ada" {
		t.Errorf("search term lost on reload: %q", c.SearchTerm())
	}
	if c.Len() != 2 {
		t.Errorf("len after reload = %d, want 2 (Ada, Adalyn)", c.Len())
	}
}
