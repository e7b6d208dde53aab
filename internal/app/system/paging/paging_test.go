package paging_test

import (
	"net/http/httptest"
	"testing"

	"github.com/agorahub/agorahub/internal/app/system/paging"
)

func TestParseStart_Default(t *testing.T) {
	r := httptest.NewRequest("GET", "/groups", nil)
	if got := paging.ParseStart(r); got != 1 {
		t.Errorf("ParseStart: got %d, want 1", got)
	}
}

func TestParseStart_Valid(t *testing.T) {
	r := httptest.NewRequest("GET", "/groups?start=51", nil)
	if got := paging.ParseStart(r); got != 51 {
		t.Errorf("ParseStart: got %d, want 51", got)
	}
}

func TestParseStart_Invalid(t *testing.T) {
	for _, q := range []string{"start=0", "start=-5", "start=abc"} {
		r := httptest.NewRequest("GET", "/groups?"+q, nil)
		if got := paging.ParseStart(r); got != 1 {
			t.Errorf("ParseStart(%q): got %d, want 1", q, got)
		}
	}
}

func TestTrimPage_FullPagePlusOne(t *testing.T) {
	rows := make([]int, paging.PageSize+1)
	res := paging.TrimPage(&rows, 1)
	if len(rows) != paging.PageSize {
		t.Errorf("len: got %d, want %d", len(rows), paging.PageSize)
	}
	if !res.HasNext {
		t.Error("expected HasNext")
	}
	if res.HasPrev {
		t.Error("did not expect HasPrev on first page")
	}
}

func TestTrimPage_PartialPage(t *testing.T) {
	rows := make([]int, 7)
	res := paging.TrimPage(&rows, paging.PageSize+1)
	if len(rows) != 7 {
		t.Errorf("len: got %d, want 7", len(rows))
	}
	if res.HasNext {
		t.Error("did not expect HasNext")
	}
	if !res.HasPrev {
		t.Error("expected HasPrev past first page")
	}
}

func TestComputeRange_Empty(t *testing.T) {
	r := paging.ComputeRange(1, 0)
	if r.Start != 0 || r.End != 0 {
		t.Errorf("got %+v, want zero Start/End", r)
	}
}

func TestComputeRange_SecondPage(t *testing.T) {
	start := paging.PageSize + 1
	r := paging.ComputeRange(start, paging.PageSize)
	if r.Start != start {
		t.Errorf("Start: got %d, want %d", r.Start, start)
	}
	if r.End != start+paging.PageSize-1 {
		t.Errorf("End: got %d, want %d", r.End, start+paging.PageSize-1)
	}
	if r.PrevStart != 1 {
		t.Errorf("PrevStart: got %d, want 1", r.PrevStart)
	}
	if r.NextStart != start+paging.PageSize {
		t.Errorf("NextStart: got %d, want %d", r.NextStart, start+paging.PageSize)
	}
}
