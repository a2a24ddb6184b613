package credstore

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/me/yogastudio/internal/auth"
	"github.com/me/yogastudio/pkg/model"
)

const testServer = "http://localhost:8080"

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testStore(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := NewSQLiteStore(":memory:", quietLogger())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := st.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{Subject: "yoga@studio.com", IssuedAt: jwt.NewNumericDate(exp.Add(-time.Hour))}
	if !exp.IsZero() {
		claims.ExpiresAt = jwt.NewNumericDate(exp)
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

func adminInfo(token string) *model.SessionInformation {
	return &model.SessionInformation{
		Token: token, Type: "Bearer", ID: 1, Username: "yoga@studio.com",
		FirstName: "Admin", LastName: "Admin", Admin: true,
	}
}

func TestSaveLoad(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	exp := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)
	info := adminInfo(signedToken(t, exp))

	if err := st.Save(ctx, testServer, info); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := st.Load(ctx, testServer)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got == nil {
		t.Fatal("expected a credential")
	}
	if got.Info != *info {
		t.Errorf("info = %+v, want %+v", got.Info, *info)
	}
	if !got.ExpiresAt.Equal(exp) {
		t.Errorf("ExpiresAt = %v, want %v", got.ExpiresAt, exp)
	}
	if got.SavedAt.IsZero() {
		t.Error("SavedAt not set")
	}
}

func TestSave_Upserts(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	st.Save(ctx, testServer, adminInfo("first"))
	second := adminInfo("second")
	second.Admin = false
	if err := st.Save(ctx, testServer, second); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, _ := st.Load(ctx, testServer)
	if got.Info.Token != "second" || got.Info.Admin {
		t.Errorf("expected the second save to win, got %+v", got.Info)
	}
	all, _ := st.List(ctx)
	if len(all) != 1 {
		t.Errorf("expected one row per server, got %d", len(all))
	}
}

func TestSave_OpaqueTokenHasNoExpiry(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	info := adminInfo("not-a-jwt")
	info.Type = ""

	st.Save(ctx, testServer, info)
	got, _ := st.Load(ctx, testServer)
	if !got.ExpiresAt.IsZero() {
		t.Errorf("ExpiresAt = %v, want zero", got.ExpiresAt)
	}
	if got.Info.Type != "Bearer" {
		t.Errorf("Type = %q, want default Bearer", got.Info.Type)
	}
}

func TestSave_Nil(t *testing.T) {
	st := testStore(t)
	if err := st.Save(context.Background(), testServer, nil); err == nil {
		t.Error("expected error saving nil")
	}
}

func TestLoad_Missing(t *testing.T) {
	st := testStore(t)
	got, err := st.Load(context.Background(), "http://nowhere")
	if err != nil || got != nil {
		t.Errorf("Load missing = %+v, %v; want nil, nil", got, err)
	}
}

func TestDelete(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	st.Save(ctx, testServer, adminInfo("tok"))
	st.Save(ctx, "https://studio.example.com", adminInfo("tok2"))

	if err := st.Delete(ctx, testServer); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got, _ := st.Load(ctx, testServer); got != nil {
		t.Error("credential should be gone")
	}
	if err := st.Delete(ctx, testServer); err != nil {
		t.Errorf("second delete: %v", err)
	}

	all, _ := st.List(ctx)
	if len(all) != 1 || all[0].Server != "https://studio.example.com" {
		t.Errorf("other server's credential should remain, got %+v", all)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	st := testStore(t)
	if err := st.Migrate(context.Background()); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	ok, err := columnExists(context.Background(), st.db, "credentials", "expires_at")
	if err != nil || !ok {
		t.Errorf("expires_at column missing: %v", err)
	}
}

func TestMigrate_NoSecondaryIndexes(t *testing.T) {
	st := testStore(t)
	var n int
	err := st.db.QueryRowContext(context.Background(),
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND tbl_name = 'credentials' AND sql IS NOT NULL").Scan(&n)
	if err != nil {
		t.Fatalf("query indexes: %v", err)
	}
	if n != 0 {
		t.Errorf("credentials has %d explicit indexes, want 0", n)
	}
}

func TestPersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "yoga.db")
	ctx := context.Background()

	st, err := NewSQLiteStore(path, quietLogger())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	st.Migrate(ctx)
	st.Save(ctx, testServer, adminInfo("persisted"))
	st.Close()

	st2, err := NewSQLiteStore(path, quietLogger())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer st2.Close()
	st2.Migrate(ctx)

	got, err := st2.Load(ctx, testServer)
	if err != nil || got == nil || got.Info.Token != "persisted" {
		t.Errorf("Load after reopen = %+v, %v", got, err)
	}
}

func TestBind_RestoresSavedLogin(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	info := adminInfo(signedToken(t, time.Now().Add(time.Hour)))
	st.Save(ctx, testServer, info)

	state := auth.NewState(nil)
	cancel, err := Bind(ctx, st, state, testServer, nil)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	defer cancel()

	if !state.IsLogged() {
		t.Fatal("state should be logged in after bind")
	}
	if got := state.Information(); got.Token != info.Token || got.ID != 1 || !got.Admin {
		t.Errorf("restored info = %+v", got)
	}
}

func TestBind_DropsExpiredLogin(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	st.Save(ctx, testServer, adminInfo(signedToken(t, time.Now().Add(-time.Minute))))

	state := auth.NewState(nil)
	cancel, err := Bind(ctx, st, state, testServer, nil)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	defer cancel()

	if state.IsLogged() {
		t.Error("expired credential should not log in")
	}
	if got, _ := st.Load(ctx, testServer); got != nil {
		t.Error("expired credential should be deleted")
	}
}

func TestBind_FollowsState(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	state := auth.NewState(nil)

	cancel, err := Bind(ctx, st, state, testServer, nil)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}

	if got, _ := st.Load(ctx, testServer); got != nil {
		t.Fatal("bind on a logged-out state must not save")
	}

	state.LogIn(adminInfo("logged-in"))
	got, _ := st.Load(ctx, testServer)
	if got == nil || got.Info.Token != "logged-in" {
		t.Fatalf("LogIn should save, got %+v", got)
	}

	state.LogOut()
	if got, _ := st.Load(ctx, testServer); got != nil {
		t.Error("LogOut should delete")
	}

	cancel()
	state.LogIn(adminInfo("after-cancel"))
	if got, _ := st.Load(ctx, testServer); got != nil {
		t.Error("cancelled binding should not save")
	}
}

func TestBind_RestoreIsNotResaved(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	st.Save(ctx, testServer, adminInfo("tok"))
	before, _ := st.Load(ctx, testServer)

	st.now = func() time.Time { return before.SavedAt.Add(time.Hour) }
	cancel, err := Bind(ctx, st, auth.NewState(nil), testServer, nil)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	defer cancel()

	after, _ := st.Load(ctx, testServer)
	if !after.SavedAt.Equal(before.SavedAt) {
		t.Errorf("restored login was saved again: %v -> %v", before.SavedAt, after.SavedAt)
	}
}

// countingStore records Save calls made with a nil snapshot.
type countingStore struct {
	*SQLiteStore
	nilSaves int
}

func (c *countingStore) Save(ctx context.Context, server string, info *model.SessionInformation) error {
	if info == nil {
		c.nilSaves++
	}
	return c.SQLiteStore.Save(ctx, server, info)
}

func TestBind_LoginClearedByEarlierListener(t *testing.T) {
	st := &countingStore{SQLiteStore: testStore(t)}
	ctx := context.Background()
	state := auth.NewState(nil)

	// Registered before Bind, so it runs first and logs out inside the LogIn emission.
	stop := state.Subscribe(func(logged bool) {
		if logged {
			state.LogOut()
		}
	})
	defer stop()

	cancel, err := Bind(ctx, st, state, testServer, nil)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	defer cancel()

	state.LogIn(adminInfo("short-lived"))

	if st.nilSaves != 0 {
		t.Errorf("Save called %d times with no session information", st.nilSaves)
	}
	if got, _ := st.Load(ctx, testServer); got != nil {
		t.Errorf("credential saved although the state ended logged out: %+v", got.Info)
	}
	if state.IsLogged() {
		t.Error("state should end logged out")
	}
}
