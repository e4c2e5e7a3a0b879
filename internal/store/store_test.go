package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/typetest/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "typetest.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestAccounts(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	joined := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	alice := model.Account{ID: "a1", Username: "alice", Email: "alice@example.com", Credential: "hash", JoinedAt: joined}

	if err := st.InsertAccount(ctx, alice); err != nil {
		t.Fatalf("insert account: %v", err)
	}

	t.Run("lookup by each key", func(t *testing.T) {
		for name, lookup := range map[string]func() (model.Account, bool, error){
			"id":       func() (model.Account, bool, error) { return st.AccountByID(ctx, "a1") },
			"username": func() (model.Account, bool, error) { return st.AccountByUsername(ctx, "alice") },
			"email":    func() (model.Account, bool, error) { return st.AccountByEmail(ctx, "alice@example.com") },
		} {
			got, ok, err := lookup()
			if err != nil || !ok {
				t.Fatalf("%s lookup: ok=%v err=%v", name, ok, err)
			}
			if !sameAccount(got, alice) {
				t.Fatalf("%s lookup: expected %+v, got %+v", name, alice, got)
			}
		}
	})

	t.Run("username lookup is case-sensitive", func(t *testing.T) {
		_, ok, err := st.AccountByUsername(ctx, "Alice")
		if err != nil {
			t.Fatalf("lookup: %v", err)
		}
		if ok {
			t.Fatalf("expected no match for different case")
		}
	})

	t.Run("unique constraints", func(t *testing.T) {
		err := st.InsertAccount(ctx, model.Account{ID: "a2", Username: "alice", Email: "other@example.com", Credential: "x", JoinedAt: joined})
		if !errors.Is(err, ErrUsernameTaken) {
			t.Fatalf("expected ErrUsernameTaken, got %v", err)
		}
		err = st.InsertAccount(ctx, model.Account{ID: "a3", Username: "bob", Email: "alice@example.com", Credential: "x", JoinedAt: joined})
		if !errors.Is(err, ErrEmailTaken) {
			t.Fatalf("expected ErrEmailTaken, got %v", err)
		}
	})

	t.Run("list keeps creation order", func(t *testing.T) {
		bob := model.Account{ID: "b1", Username: "bob", Email: "bob@example.com", Credential: "x", JoinedAt: joined}
		if err := st.InsertAccount(ctx, bob); err != nil {
			t.Fatalf("insert bob: %v", err)
		}
		accounts, err := st.ListAccounts(ctx)
		if err != nil {
			t.Fatalf("list accounts: %v", err)
		}
		if len(accounts) != 2 || accounts[0].ID != "a1" || accounts[1].ID != "b1" {
			t.Fatalf("unexpected accounts: %+v", accounts)
		}
	})
}

func TestScores(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Unix(0, 0).UTC()
	inputs := []model.ScoreRecord{
		{ID: "s1", UserID: "u1", WPM: 40, Accuracy: 90, RecordedAt: base},
		{ID: "s2", UserID: model.GuestID, WPM: 55, Accuracy: 100, RecordedAt: base.Add(time.Minute)},
		{ID: "s3", UserID: "u1", WPM: 75, Accuracy: 88, RecordedAt: base.Add(2 * time.Minute)},
	}
	for _, rec := range inputs {
		if err := st.InsertScore(ctx, rec); err != nil {
			t.Fatalf("insert score: %v", err)
		}
	}

	all, err := st.ListScores(ctx, "")
	if err != nil {
		t.Fatalf("list scores: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 records, got %d", len(all))
	}
	for i := range inputs {
		if !sameScore(all[i], inputs[i]) {
			t.Fatalf("record %d: expected %+v, got %+v", i, inputs[i], all[i])
		}
	}

	mine, err := st.ListScores(ctx, "u1")
	if err != nil {
		t.Fatalf("list user scores: %v", err)
	}
	if len(mine) != 2 || mine[0].ID != "s1" || mine[1].ID != "s3" {
		t.Fatalf("unexpected user scores: %+v", mine)
	}

	if err := st.InsertScore(ctx, model.ScoreRecord{ID: "s4", UserID: "u1", WPM: 10, Accuracy: 101, RecordedAt: base}); err == nil {
		t.Fatalf("expected accuracy check constraint to reject 101")
	}
}

func TestSettings(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	if _, ok, err := st.Setting(ctx, "current_user"); err != nil || ok {
		t.Fatalf("expected missing setting, ok=%v err=%v", ok, err)
	}
	if err := st.SetSetting(ctx, "current_user", "a1"); err != nil {
		t.Fatalf("set setting: %v", err)
	}
	if err := st.SetSetting(ctx, "current_user", "b1"); err != nil {
		t.Fatalf("replace setting: %v", err)
	}
	value, ok, err := st.Setting(ctx, "current_user")
	if err != nil || !ok || value != "b1" {
		t.Fatalf("unexpected setting: %q ok=%v err=%v", value, ok, err)
	}
	if err := st.DeleteSetting(ctx, "current_user"); err != nil {
		t.Fatalf("delete setting: %v", err)
	}
	if _, ok, _ := st.Setting(ctx, "current_user"); ok {
		t.Fatalf("expected setting to be removed")
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typetest.db")
	ctx := context.Background()
	st, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := st.InsertScore(ctx, model.ScoreRecord{ID: "s1", UserID: "u1", WPM: 30, Accuracy: 95, RecordedAt: time.Now()}); err != nil {
		t.Fatalf("insert score: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	st, err = Open(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	records, err := st.ListScores(ctx, "u1")
	if err != nil {
		t.Fatalf("list scores: %v", err)
	}
	if len(records) != 1 || records[0].WPM != 30 {
		t.Fatalf("unexpected records after reopen: %+v", records)
	}
}

func sameAccount(a, b model.Account) bool {
	return a.ID == b.ID && a.Username == b.Username && a.Email == b.Email &&
		a.Credential == b.Credential && a.JoinedAt.Equal(b.JoinedAt)
}

func sameScore(a, b model.ScoreRecord) bool {
	return a.ID == b.ID && a.UserID == b.UserID && a.WPM == b.WPM &&
		a.Accuracy == b.Accuracy && a.RecordedAt.Equal(b.RecordedAt)
}
