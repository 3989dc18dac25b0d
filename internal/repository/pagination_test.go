package repository

import (
	"fmt"
	"testing"

	"github.com/AgnesMuita/asset-maintenance-api/internal/domain"
)

func TestNormalizePageRequest(t *testing.T) {
	cases := []struct {
		in   PageRequest
		want PageRequest
	}{
		{PageRequest{}, PageRequest{Page: 1, PageSize: 20}},
		{PageRequest{Page: -3, PageSize: 0}, PageRequest{Page: 1, PageSize: 20}},
		{PageRequest{Page: 2, PageSize: 500}, PageRequest{Page: 2, PageSize: 100}},
		{PageRequest{Page: 3, PageSize: 10}, PageRequest{Page: 3, PageSize: 10}},
	}
	for _, c := range cases {
		if got := normalizePageRequest(c.in); got != c.want {
			t.Fatalf("normalize(%+v)=%+v want %+v", c.in, got, c.want)
		}
	}
}

func TestCalcTotalPages(t *testing.T) {
	if got := calcTotalPages(0, 20); got != 0 {
		t.Fatalf("empty total pages = %d", got)
	}
	if got := calcTotalPages(41, 20); got != 3 {
		t.Fatalf("41/20 pages = %d", got)
	}
	if got := calcTotalPages(40, 20); got != 2 {
		t.Fatalf("40/20 pages = %d", got)
	}
}

func TestListPagedWindowsResults(t *testing.T) {
	db := newTestDB(t, &domain.Case{})
	repo := NewCaseRepository(db)

	for i := 0; i < 25; i++ {
		c := &domain.Case{
			Number:     fmt.Sprintf("CASE-%03d", i),
			Title:      fmt.Sprintf("case %d", i),
			ReporterID: 1,
		}
		if err := repo.Create(c); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	page, err := repo.ListPaged(PageRequest{Page: 2, PageSize: 10})
	if err != nil {
		t.Fatalf("list paged: %v", err)
	}
	if page.Total != 25 || page.TotalPages != 3 {
		t.Fatalf("unexpected totals: %+v", page)
	}
	if len(page.Items) != 10 {
		t.Fatalf("expected 10 items on page 2, got %d", len(page.Items))
	}
}
