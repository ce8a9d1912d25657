package roster

import (
	"testing"

	"github.com/spigell/intervu/internal/interview"
)

func testRoster() *Roster {
	return New([]*interview.Session{
		{ID: "a", Name: "Alice Smith", Email: "alice@example.com", TotalScore: 30},
		{ID: "b", Name: "Bob Jones", Email: "bob@corp.example.com", TotalScore: 42},
		{ID: "c", Name: "Carol White", Email: "carol@example.com", TotalScore: 12},
	})
}

func TestParseSort(t *testing.T) {
	cases := []struct {
		input    string
		expected Sort
		wantErr  bool
	}{
		{"", SortByScore, false},
		{"score", SortByScore, false},
		{"name", SortByName, false},
		{"  Name ", SortByName, false},
		{"date", "", true},
	}

	for _, tc := range cases {
		got, err := ParseSort(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseSort(%q): expected an error", tc.input)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseSort(%q): unexpected error: %v", tc.input, err)
		}
		if got != tc.expected {
			t.Fatalf("ParseSort(%q) = %s, expected %s", tc.input, got, tc.expected)
		}
	}
}

func TestQueryDefaultSortsByScoreDescending(t *testing.T) {
	result := testRoster().Query("", SortByScore)

	if len(result) != 3 {
		t.Fatalf("expected all 3 candidates, got %d", len(result))
	}
	for i, id := range []string{"b", "a", "c"} {
		if result[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, result[i].ID)
		}
	}
}

func TestQuerySortsByName(t *testing.T) {
	result := testRoster().Query("", SortByName)

	for i, name := range []string{"Alice Smith", "Bob Jones", "Carol White"} {
		if result[i].Name != name {
			t.Fatalf("position %d: expected %q, got %q", i, name, result[i].Name)
		}
	}
}

func TestQuerySearchIsCaseInsensitive(t *testing.T) {
	r := testRoster()

	byName := r.Query("ALICE", SortByScore)
	if len(byName) != 1 || byName[0].ID != "a" {
		t.Fatalf("name search failed: %+v", byName)
	}

	byEmail := r.Query("corp.example", SortByScore)
	if len(byEmail) != 1 || byEmail[0].ID != "b" {
		t.Fatalf("email search failed: %+v", byEmail)
	}

	none := r.Query("zelda", SortByScore)
	if len(none) != 0 {
		t.Fatalf("expected no matches, got %d", len(none))
	}
}

func TestFindByID(t *testing.T) {
	r := testRoster()

	if s := r.FindByID("b"); s == nil || s.Name != "Bob Jones" {
		t.Fatalf("unexpected lookup result: %+v", s)
	}
	if s := r.FindByID("missing"); s != nil {
		t.Fatalf("expected nil for an unknown id, got %+v", s)
	}
}

func TestAppend(t *testing.T) {
	r := New(nil)
	if r.Len() != 0 {
		t.Fatalf("expected an empty roster, got %d", r.Len())
	}

	r.Append(&interview.Session{ID: "x", Name: "Xavier"})
	if r.Len() != 1 {
		t.Fatalf("expected 1 session, got %d", r.Len())
	}

	sessions := r.Sessions()
	sessions[0] = nil
	if r.Sessions()[0] == nil {
		t.Fatalf("Sessions must return a copy of the backing slice")
	}
}
