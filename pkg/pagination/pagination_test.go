package pagination

import (
	"net/http/httptest"
	"testing"
)

func TestNormalizeLimit(t *testing.T) {
	cases := []struct {
		name string
		in   int
		want int
	}{
		{name: "zero uses default", in: 0, want: DefaultLimit},
		{name: "negative uses default", in: -3, want: DefaultLimit},
		{name: "within bounds", in: 40, want: 40},
		{name: "above max clamps", in: 500, want: MaxLimit},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeLimit(tc.in); got != tc.want {
				t.Fatalf("NormalizeLimit(%d) = %d, want %d", tc.in, got, tc.want)
			}
		})
	}
}

func TestParamsNormalize(t *testing.T) {
	p := Params{Limit: -1, Offset: -10}.Normalize()
	if p.Limit != DefaultLimit {
		t.Fatalf("limit = %d, want %d", p.Limit, DefaultLimit)
	}
	if p.Offset != 0 {
		t.Fatalf("offset = %d, want 0", p.Offset)
	}
}

func TestFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/admin/products?limit=30&offset=60", nil)
	p := FromRequest(r)
	if p.Limit != 30 || p.Offset != 60 {
		t.Fatalf("params = %+v, want limit 30 offset 60", p)
	}

	r = httptest.NewRequest("GET", "/admin/products?limit=abc", nil)
	p = FromRequest(r)
	if p.Limit != DefaultLimit || p.Offset != 0 {
		t.Fatalf("params = %+v, want defaults", p)
	}
}
