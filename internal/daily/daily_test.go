package daily

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/robalobadob/mastermind/assets"
)

func TestDateKey(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	ts := time.Date(2026, 3, 2, 5, 0, 0, 0, loc)
	if got := DateKey(ts); got != "2026-03-01" {
		t.Fatalf("DateKey() = %q, want 2026-03-01", got)
	}
}

func TestCodeIsDeterministic(t *testing.T) {
	a := Code("2026-10-14", "salt", 5)
	b := Code("2026-10-14", "salt", 5)
	if len(a) != 5 || a.String() != b.String() {
		t.Fatalf("Code() not stable: %v vs %v", a, b)
	}
	if Seed("2026-10-14", "salt") == Seed("2026-10-15", "salt") {
		t.Fatalf("seed did not change across dates")
	}
	if Seed("2026-10-14", "salt") == Seed("2026-10-14", "pepper") {
		t.Fatalf("seed did not change across salts")
	}
	for _, c := range a {
		if !c.Valid() {
			t.Fatalf("code has out-of-palette color %v", c)
		}
	}
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	ms, err := assets.Migrations()
	if err != nil {
		t.Fatal(err)
	}
	for _, m := range ms {
		if _, err := db.Exec(m.SQL); err != nil {
			t.Fatalf("apply %s: %v", m.Name, err)
		}
	}
	return db
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	st := NewStore(openTestDB(t))
	date := "2026-10-14"

	played, err := st.AlreadyPlayed(ctx, "ann", date)
	if err != nil || played {
		t.Fatalf("AlreadyPlayed() = %v, %v", played, err)
	}

	results := []Result{
		{Player: "ann", Date: date, Pegs: 4, Guesses: 5, Won: true, ElapsedMs: 9000},
		{Player: "bob", Date: date, Pegs: 4, Guesses: 3, Won: true, ElapsedMs: 20000},
		{Player: "cy", Date: date, Pegs: 4, Guesses: 5, Won: true, ElapsedMs: 4000},
		{Player: "dee", Date: date, Pegs: 4, Guesses: 10, Won: false, ElapsedMs: 1000},
		{Player: "ann", Date: "2026-10-13", Pegs: 4, Guesses: 1, Won: true, ElapsedMs: 1},
		// duplicate for the same day is ignored
		{Player: "ann", Date: date, Pegs: 4, Guesses: 1, Won: true, ElapsedMs: 1},
	}
	for _, r := range results {
		if err := st.InsertResult(ctx, r); err != nil {
			t.Fatal(err)
		}
	}

	if played, _ := st.AlreadyPlayed(ctx, "dee", date); !played {
		t.Fatalf("dee should have played")
	}

	rows, err := st.Leaderboard(ctx, date, 0)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"bob", "cy", "ann"}
	if len(rows) != len(want) {
		t.Fatalf("leaderboard = %+v", rows)
	}
	for i, p := range want {
		if rows[i].Player != p {
			t.Fatalf("leaderboard[%d] = %s, want %s (%+v)", i, rows[i].Player, p, rows)
		}
	}
	if rows[2].Guesses != 5 {
		t.Fatalf("duplicate insert overwrote ann's result: %+v", rows[2])
	}
}
