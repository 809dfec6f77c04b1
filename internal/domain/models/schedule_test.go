package models

import "testing"

func TestSplitRoute(t *testing.T) {
	cases := []struct {
		route string
		from  string
		to    string
	}{
		{"Mumbai - Pune", "Mumbai", "Pune"},
		{"Navi Mumbai - Pune Station", "Navi Mumbai", "Pune Station"},
		{"A - B - C", "A", "B - C"},
		{"CityLoop", "CityLoop", "CityLoop"},
		{"Mumbai-Pune", "Mumbai-Pune", "Mumbai-Pune"},
	}
	for _, tc := range cases {
		from, to := SplitRoute(tc.route)
		if from != tc.from || to != tc.to {
			t.Errorf("SplitRoute(%q) = (%q, %q), want (%q, %q)", tc.route, from, to, tc.from, tc.to)
		}
	}
}
