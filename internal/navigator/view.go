package navigator

import (
	"context"
	"fmt"

	"par/internal/artist"
)

// View is a snapshot of what the session would display.
type View struct {
	InitializationRequired bool
	// Index is the 0-based cursor position.
	Index     int
	Total     int
	Reviewed  int
	Remaining int
	Title     string
	// Record is nil when nothing is on display.
	Record     *artist.Record
	Images     artist.Images
	JumpTarget int
}

// View returns a copy of the current display state.
func (s *Session) View() View {
	v := View{
		InitializationRequired: s.initRequired,
		Index:                  s.current,
		Title:                  s.title,
		Images:                 s.images,
		JumpTarget:             s.jumpTarget,
	}
	if s.queue != nil {
		v.Total = s.queue.Len()
		v.Reviewed, v.Remaining = s.queue.Counts()
	}
	if s.hasRecord {
		rec := s.record
		v.Record = &rec
	}
	return v
}

// QueueEntries returns the queue in order, or nil when none is loaded.
func (s *Session) QueueEntries() []QueueEntry {
	if s.queue == nil {
		return nil
	}
	entries := s.queue.Entries()
	out := make([]QueueEntry, len(entries))
	for i, e := range entries {
		out[i] = QueueEntry{Index: i, ArtistID: e.ArtistID, Reviewed: e.Reviewed}
	}
	return out
}

// QueueEntry is one row of QueueEntries.
type QueueEntry struct {
	Index    int
	ArtistID uint32
	Reviewed bool
}

// SetJumpTarget stages a 1-based jump target. 0 clears it.
func (s *Session) SetJumpTarget(target int) {
	if target < 0 {
		target = 0
	}
	s.jumpTarget = target
}

// JumpToTarget jumps to the staged target.
func (s *Session) JumpToTarget(ctx context.Context) error {
	return s.Jump(ctx, s.jumpTarget)
}

// JumpNotice describes what jumping to the 1-based target would do to the
// reviewed flags, for confirmation before Jump runs.
func (s *Session) JumpNotice(target int) string {
	total := 0
	if s.queue != nil {
		total = s.queue.Len()
	}
	from := s.current + 1
	switch {
	case target < 1 || target > total:
		return fmt.Sprintf("Artist %d does not exist; pick a number from 1 to %d.", target, total)
	case target > from:
		return fmt.Sprintf("Jumping from artist %d to artist %d marks every artist before %d as reviewed.", from, target, target)
	case target < from:
		return fmt.Sprintf("Jumping from artist %d to artist %d marks every artist after %d as not reviewed.", from, target, target)
	default:
		return fmt.Sprintf("Artist %d is already on display; nothing will change.", target)
	}
}
