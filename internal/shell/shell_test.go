package shell_test

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vitotech/contact-admin/internal/api"
	"github.com/vitotech/contact-admin/internal/model"
	"github.com/vitotech/contact-admin/internal/notification"
	"github.com/vitotech/contact-admin/internal/session"
	"github.com/vitotech/contact-admin/internal/shell"
	"github.com/vitotech/contact-admin/tests/testutil"
)

func newShell(t *testing.T) (shell.Shell, *testutil.Backend, *session.MemoryStore) {
	t.Helper()

	backend := testutil.NewBackend(t)
	sess := session.NewMemoryStore()
	pair := session.TokenPair{Access: testutil.TestAccessToken}
	if err := sess.SetTokens(pair); err != nil {
		t.Fatalf("SetTokens: %v", err)
	}
	svc := notification.NewService(api.NewClient(backend.URL(), sess))
	return shell.New(svc), backend, sess
}

// run executes a command synchronously and returns its message.
func run(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("command is nil")
	}
	return cmd()
}

// loadInto runs a full load cycle and applies the result.
func loadInto(t *testing.T, s shell.Shell) shell.Shell {
	t.Helper()

	s, cmd := s.Load()
	msg, ok := run(t, cmd).(shell.LoadedMsg)
	if !ok {
		t.Fatal("Load command did not produce a LoadedMsg")
	}
	return s.HandleLoaded(msg)
}

func checkStatsSum(t *testing.T, stats model.Stats) {
	t.Helper()
	if stats.Read+stats.Unread != stats.Total {
		t.Errorf("stats %+v: read + unread != total", stats)
	}
}

func TestLoadPopulatesMessagesAndStats(t *testing.T) {
	s, backend, _ := newShell(t)
	backend.Seed(model.Notification{Name: "A", Email: "a@x.com", Phone: "1", Message: "m"})
	backend.Seed(model.Notification{Name: "B", Email: "b@x.com", Phone: "2", Message: "m", IsRead: true})

	s = loadInto(t, s)

	if !s.Loaded() {
		t.Error("Loaded() = false after successful load")
	}
	if s.Loading() {
		t.Error("Loading() = true after load completed")
	}
	if got := len(s.Messages()); got != 2 {
		t.Fatalf("len(Messages()) = %d, want 2", got)
	}
	want := model.Stats{Total: 2, Read: 1, Unread: 1}
	if s.Stats() != want {
		t.Errorf("Stats() = %+v, want %+v", s.Stats(), want)
	}
	checkStatsSum(t, s.Stats())
}

func TestLoadFailureKeepsPreviousState(t *testing.T) {
	s, backend, sess := newShell(t)
	backend.Seed(model.Notification{Name: "A", Email: "a@x.com", Phone: "1", Message: "m"})

	s = loadInto(t, s)
	if len(s.Messages()) != 1 {
		t.Fatalf("first load: %d messages, want 1", len(s.Messages()))
	}

	// Invalidate the credential so the refresh fails.
	if err := sess.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	s = loadInto(t, s)

	if s.Err() == "" {
		t.Error("Err() empty after failed load")
	}
	if got := len(s.Messages()); got != 1 {
		t.Errorf("failed load replaced the list: %d messages, want 1", got)
	}
	if !s.Loaded() {
		t.Error("Loaded() = false, want the earlier success remembered")
	}
}

func TestStaleLoadIsDiscarded(t *testing.T) {
	s, backend, _ := newShell(t)
	backend.Seed(model.Notification{Name: "A", Email: "a@x.com", Phone: "1", Message: "m"})

	s, firstCmd := s.Load()
	firstMsg := run(t, firstCmd).(shell.LoadedMsg)

	backend.Seed(model.Notification{Name: "B", Email: "b@x.com", Phone: "2", Message: "m"})
	s, secondCmd := s.Load()
	secondMsg := run(t, secondCmd).(shell.LoadedMsg)

	// The newer result lands first; the older one must then be dropped.
	s = s.HandleLoaded(secondMsg)
	s = s.HandleLoaded(firstMsg)

	if got := len(s.Messages()); got != 2 {
		t.Errorf("stale result overwrote newer state: %d messages, want 2", got)
	}
}

func TestToggleTwiceRestoresOriginal(t *testing.T) {
	s, backend, _ := newShell(t)
	seeded := backend.Seed(model.Notification{
		Name: "A", Email: "a@x.com", Phone: "1", Message: "m",
	})
	s = loadInto(t, s)
	before, _ := s.Find(seeded.ID)
	statsBefore := s.Stats()

	msg := run(t, s.ToggleStatus(seeded.ID)).(shell.ToggledMsg)
	s = s.HandleToggled(msg)

	flipped, _ := s.Find(seeded.ID)
	if flipped.Status != model.StatusRead {
		t.Fatalf("status after first toggle = %q, want read", flipped.Status)
	}
	if s.Stats().Total != statsBefore.Total {
		t.Errorf("Total changed on toggle: %d -> %d", statsBefore.Total, s.Stats().Total)
	}
	checkStatsSum(t, s.Stats())

	msg = run(t, s.ToggleStatus(seeded.ID)).(shell.ToggledMsg)
	s = s.HandleToggled(msg)

	after, _ := s.Find(seeded.ID)
	if after.Status != before.Status {
		t.Errorf("status after double toggle = %q, want %q", after.Status, before.Status)
	}
	if s.Stats() != statsBefore {
		t.Errorf("stats after double toggle = %+v, want %+v", s.Stats(), statsBefore)
	}
}

func TestToggleFailureLeavesStateUntouched(t *testing.T) {
	s, backend, _ := newShell(t)
	seeded := backend.Seed(model.Notification{
		Name: "A", Email: "a@x.com", Phone: "1", Message: "m",
	})
	s = loadInto(t, s)
	backend.FailMarkIDs[seeded.ID] = true

	msg := run(t, s.ToggleStatus(seeded.ID)).(shell.ToggledMsg)
	if msg.Err == nil {
		t.Fatal("toggle against a failing backend reported no error")
	}
	s = s.HandleToggled(msg)

	got, _ := s.Find(seeded.ID)
	if got.Status != model.StatusUnread {
		t.Errorf("status changed despite backend failure: %q", got.Status)
	}
	if s.Err() == "" {
		t.Error("Err() empty after failed toggle")
	}
}

func TestToggleUnknownIDReturnsNil(t *testing.T) {
	s, _, _ := newShell(t)
	s = loadInto(t, s)

	if cmd := s.ToggleStatus(42); cmd != nil {
		t.Error("ToggleStatus for an unknown id returned a command")
	}
}

func TestMarkAllReadNoUnreadIsNoOp(t *testing.T) {
	s, backend, _ := newShell(t)
	backend.Seed(model.Notification{
		Name: "A", Email: "a@x.com", Phone: "1", Message: "m", IsRead: true,
	})
	s = loadInto(t, s)

	if cmd := s.MarkAllRead(); cmd != nil {
		t.Error("MarkAllRead with zero unread returned a command, want nil")
	}
}

func TestMarkAllReadAppliesEveryConfirmedID(t *testing.T) {
	s, backend, _ := newShell(t)
	backend.Seed(model.Notification{Name: "A", Email: "a@x.com", Phone: "1", Message: "m"})
	backend.Seed(model.Notification{Name: "B", Email: "b@x.com", Phone: "2", Message: "m"})
	backend.Seed(model.Notification{Name: "C", Email: "c@x.com", Phone: "3", Message: "m", IsRead: true})
	s = loadInto(t, s)

	msg := run(t, s.MarkAllRead()).(shell.AllReadMsg)
	if len(msg.FailedIDs) != 0 {
		t.Fatalf("FailedIDs = %v, want none", msg.FailedIDs)
	}
	s = s.HandleAllRead(msg)

	if ids := s.UnreadIDs(); len(ids) != 0 {
		t.Errorf("UnreadIDs() = %v after mark all read", ids)
	}
	want := model.Stats{Total: 3, Read: 3, Unread: 0}
	if s.Stats() != want {
		t.Errorf("Stats() = %+v, want %+v", s.Stats(), want)
	}
	if s.Err() != "" {
		t.Errorf("Err() = %q, want empty", s.Err())
	}
}

func TestMarkAllReadPartialFailure(t *testing.T) {
	s, backend, _ := newShell(t)
	ok1 := backend.Seed(model.Notification{Name: "A", Email: "a@x.com", Phone: "1", Message: "m"})
	bad := backend.Seed(model.Notification{Name: "B", Email: "b@x.com", Phone: "2", Message: "m"})
	ok2 := backend.Seed(model.Notification{Name: "C", Email: "c@x.com", Phone: "3", Message: "m"})
	s = loadInto(t, s)
	backend.FailMarkIDs[bad.ID] = true

	msg := run(t, s.MarkAllRead()).(shell.AllReadMsg)
	if len(msg.SucceededIDs) != 2 || len(msg.FailedIDs) != 1 {
		t.Fatalf("outcomes = %d ok / %d failed, want 2/1",
			len(msg.SucceededIDs), len(msg.FailedIDs))
	}
	s = s.HandleAllRead(msg)

	for _, id := range []int{ok1.ID, ok2.ID} {
		got, _ := s.Find(id)
		if got.Status != model.StatusRead {
			t.Errorf("message %d not marked read", id)
		}
	}
	got, _ := s.Find(bad.ID)
	if got.Status != model.StatusUnread {
		t.Errorf("failed message %d marked read locally", bad.ID)
	}
	if s.Err() == "" {
		t.Error("Err() empty after partial failure")
	}
	checkStatsSum(t, s.Stats())
	if s.Stats().Unread != 1 {
		t.Errorf("Stats().Unread = %d, want 1", s.Stats().Unread)
	}
}

func TestResetDropsState(t *testing.T) {
	s, backend, _ := newShell(t)
	backend.Seed(model.Notification{Name: "A", Email: "a@x.com", Phone: "1", Message: "m"})
	s = loadInto(t, s)

	s = s.Reset()

	if s.Loaded() {
		t.Error("Loaded() = true after Reset")
	}
	if len(s.Messages()) != 0 {
		t.Errorf("Messages() = %d entries after Reset", len(s.Messages()))
	}
	if s.Stats() != (model.Stats{}) {
		t.Errorf("Stats() = %+v after Reset", s.Stats())
	}
}
