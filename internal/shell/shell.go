// Package shell owns the admin console's shared state: the contact
// message list and the stats shadow. Views receive the state read-only
// plus the shell's mutator commands; nothing else writes it. All
// mutations are confirmed by the backend before they are applied, so the
// local state never runs ahead of server truth.
package shell

import (
	"context"
	"fmt"
	gosync "sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vitotech/contact-admin/internal/model"
	"github.com/vitotech/contact-admin/internal/notification"
)

// User-visible failure messages. Raw error payloads are never shown.
const (
	loadErrMessage   = "Failed to load messages. Please try again in a moment."
	toggleErrMessage = "Failed to update the message status. Please try again."
)

// LoadedMsg carries the result of a full list+stats load. Seq identifies
// which load issued it; stale results are discarded.
type LoadedMsg struct {
	Seq      int
	Messages []model.ContactMessage
	Stats    model.Stats
	Err      error
}

// ToggledMsg carries the result of a single status toggle.
type ToggledMsg struct {
	ID     int
	Status model.MessageStatus
	Err    error
}

// AllReadMsg carries the per-id outcomes of a mark-all-read batch.
type AllReadMsg struct {
	SucceededIDs []int
	FailedIDs    []int
}

// Shell is the state holder. It is copied by value through the Bubble
// Tea update loop like any other model.
type Shell struct {
	svc *notification.Service

	messages []model.ContactMessage
	stats    model.Stats
	loading  bool
	loaded   bool
	errMsg   string

	// loadSeq stamps each load; a LoadedMsg with an older seq lost the
	// race to a newer refresh and is dropped.
	loadSeq int
}

// New creates a shell over the notification service.
func New(svc *notification.Service) Shell {
	return Shell{svc: svc}
}

// Messages returns the current message list, newest first.
func (s Shell) Messages() []model.ContactMessage { return s.messages }

// Stats returns the shadow stats. read + unread == total holds after
// every applied mutation.
func (s Shell) Stats() model.Stats { return s.stats }

// Loading reports whether a load is in flight.
func (s Shell) Loading() bool { return s.loading }

// Loaded reports whether at least one load has completed successfully.
func (s Shell) Loaded() bool { return s.loaded }

// Err returns the current user-visible error message, or "".
func (s Shell) Err() string { return s.errMsg }

// ClearError clears the user-visible error message.
func (s Shell) ClearError() Shell {
	s.errMsg = ""
	return s
}

// Find returns the message with the given id.
func (s Shell) Find(id int) (model.ContactMessage, bool) {
	for _, m := range s.messages {
		if m.ID == id {
			return m, true
		}
	}
	return model.ContactMessage{}, false
}

// UnreadIDs returns the ids of all currently unread messages.
func (s Shell) UnreadIDs() []int {
	var ids []int
	for _, m := range s.messages {
		if m.Status == model.StatusUnread {
			ids = append(ids, m.ID)
		}
	}
	return ids
}

// Reset drops all loaded state. Called on logout so a navigation back
// into the console cannot show stale admin data.
func (s Shell) Reset() Shell {
	return Shell{svc: s.svc}
}

// Load starts a full refresh: list and stats fetched concurrently, both
// required before the state is replaced. The returned command yields one
// LoadedMsg; if either call fails the previous state stays untouched.
func (s Shell) Load() (Shell, tea.Cmd) {
	s.loading = true
	s.errMsg = ""
	s.loadSeq++

	seq := s.loadSeq
	svc := s.svc
	return s, func() tea.Msg {
		var (
			wg            gosync.WaitGroup
			notifications []model.Notification
			stats         *model.Stats
			listErr       error
			statsErr      error
		)

		wg.Add(2)
		go func() {
			defer wg.Done()
			notifications, listErr = svc.List(
				context.Background(), notification.ListOptions{},
			)
		}()
		go func() {
			defer wg.Done()
			stats, statsErr = svc.Stats(context.Background())
		}()
		wg.Wait()

		if listErr != nil {
			return LoadedMsg{Seq: seq, Err: listErr}
		}
		if statsErr != nil {
			return LoadedMsg{Seq: seq, Err: statsErr}
		}

		messages := make([]model.ContactMessage, len(notifications))
		for i, n := range notifications {
			messages[i] = n.ToMessage()
		}
		return LoadedMsg{Seq: seq, Messages: messages, Stats: *stats}
	}
}

// HandleLoaded applies a completed load. Results of superseded loads are
// dropped so an old response cannot overwrite newer state.
func (s Shell) HandleLoaded(msg LoadedMsg) Shell {
	if msg.Seq != s.loadSeq {
		return s
	}

	s.loading = false
	if msg.Err != nil {
		s.errMsg = loadErrMessage
		return s
	}

	s.messages = msg.Messages
	s.stats = msg.Stats
	s.loaded = true
	s.errMsg = ""
	return s
}

// ToggleStatus flips the read status of one message via the matching
// mark endpoint. No optimistic update: the local record changes only
// after the backend confirms.
func (s Shell) ToggleStatus(id int) tea.Cmd {
	target, ok := s.Find(id)
	if !ok {
		return nil
	}

	next := model.StatusRead
	if target.Status == model.StatusRead {
		next = model.StatusUnread
	}

	svc := s.svc
	return func() tea.Msg {
		var err error
		if next == model.StatusRead {
			_, err = svc.MarkRead(context.Background(), id)
		} else {
			_, err = svc.MarkUnread(context.Background(), id)
		}
		return ToggledMsg{ID: id, Status: next, Err: err}
	}
}

// HandleToggled applies a confirmed toggle: the one record is patched
// and the stats shadow adjusted by one on each counter, total unchanged.
// On failure the state is left as it was.
func (s Shell) HandleToggled(msg ToggledMsg) Shell {
	if msg.Err != nil {
		s.errMsg = toggleErrMessage
		return s
	}

	patched := make([]model.ContactMessage, len(s.messages))
	copy(patched, s.messages)
	found := false
	for i := range patched {
		if patched[i].ID == msg.ID {
			if patched[i].Status == msg.Status {
				// Already in the target state; nothing to adjust.
				return s
			}
			patched[i].Status = msg.Status
			found = true
		}
	}
	if !found {
		// The record vanished in a refresh that landed mid-toggle.
		return s
	}
	s.messages = patched

	if msg.Status == model.StatusRead {
		s.stats.Read++
		s.stats.Unread--
	} else {
		s.stats.Read--
		s.stats.Unread++
	}
	if s.stats.Unread < 0 {
		s.stats.Unread = 0
		s.stats.Read = s.stats.Total
	}
	if s.stats.Read < 0 {
		s.stats.Read = 0
		s.stats.Unread = s.stats.Total
	}

	s.errMsg = ""
	return s
}

// MarkAllRead issues one mark-read call per unread message, collecting
// per-id outcomes. Returns nil when nothing is unread, so no network
// call happens at all.
func (s Shell) MarkAllRead() tea.Cmd {
	ids := s.UnreadIDs()
	if len(ids) == 0 {
		return nil
	}

	svc := s.svc
	return func() tea.Msg {
		type outcome struct {
			id  int
			err error
		}

		results := make(chan outcome, len(ids))
		for _, id := range ids {
			go func(id int) {
				_, err := svc.MarkRead(context.Background(), id)
				results <- outcome{id: id, err: err}
			}(id)
		}

		msg := AllReadMsg{}
		for range ids {
			r := <-results
			if r.err != nil {
				msg.FailedIDs = append(msg.FailedIDs, r.id)
			} else {
				msg.SucceededIDs = append(msg.SucceededIDs, r.id)
			}
		}
		return msg
	}
}

// HandleAllRead applies the batch outcome: every confirmed id flips to
// read, the stats are recomputed from the list so read + unread == total
// survives partial failure, and failures are reported by count.
func (s Shell) HandleAllRead(msg AllReadMsg) Shell {
	if len(msg.SucceededIDs) > 0 {
		succeeded := make(map[int]bool, len(msg.SucceededIDs))
		for _, id := range msg.SucceededIDs {
			succeeded[id] = true
		}

		patched := make([]model.ContactMessage, len(s.messages))
		copy(patched, s.messages)
		for i := range patched {
			if succeeded[patched[i].ID] {
				patched[i].Status = model.StatusRead
			}
		}
		s.messages = patched
		s.stats = recountStats(patched, s.stats.Total)
	}

	if len(msg.FailedIDs) > 0 {
		s.errMsg = fmt.Sprintf(
			"Failed to mark %d message(s) as read. Please try again.",
			len(msg.FailedIDs),
		)
	} else {
		s.errMsg = ""
	}
	return s
}

// recountStats derives the stats shadow from the local list. Total comes
// from the backend's last answer; messages not present locally count as
// read, keeping the sum intact.
func recountStats(messages []model.ContactMessage, total int) model.Stats {
	unread := 0
	for _, m := range messages {
		if m.Status == model.StatusUnread {
			unread++
		}
	}
	if unread > total {
		total = unread
	}
	return model.Stats{
		Total:  total,
		Read:   total - unread,
		Unread: unread,
	}
}
