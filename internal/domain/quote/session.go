package quote

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"escher-cotizador/go_backend/internal/domain/attachment"
)

var (
	ErrNotEditing     = errors.New("quote is not in edit mode")
	ErrSaveInProgress = errors.New("a save is already in flight for this quote")
)

// State of an edit session. Exactly one holds at any instant.
type State string

const (
	StateViewing State = "viewing"
	StateEditing State = "editing"
)

// Store is the slice of the document store a session needs.
type Store interface {
	CreateQuote(ctx context.Context, rec Record) (string, error)
	UpdateQuote(ctx context.Context, id string, rec Record) error
	GetQuote(ctx context.Context, id string) (Record, error)
}

// Identity resolves the acting user for provenance stamping. Failure blocks
// any commit.
type Identity interface {
	CurrentUserID(ctx context.Context) (string, error)
}

// Session wraps a quote in an editable draft with explicit save/revert
// semantics. Mutations are rejected while Viewing; at most one save may be
// in flight at a time.
type Session struct {
	store    Store
	identity Identity

	mu        sync.Mutex
	id        string
	state     State
	committed Record
	draft     *Draft
	saving    bool
}

// NewSession starts the creation flow: an empty draft, already in Editing
// since there is nothing committed to view yet.
func NewSession(store Store, identity Identity) *Session {
	return &Session{
		store:    store,
		identity: identity,
		state:    StateEditing,
		draft:    NewDraft(),
	}
}

// OpenSession starts the edit flow on a persisted quote: the draft is
// hydrated from the stored record and the session begins in Viewing.
func OpenSession(ctx context.Context, store Store, identity Identity, id string) (*Session, error) {
	rec, err := store.GetQuote(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("open quote %s: %w", id, err)
	}
	rec.ID = id
	return &Session{
		store:     store,
		identity:  identity,
		id:        id,
		state:     StateViewing,
		committed: rec,
		draft:     draftFromRecord(rec),
	}, nil
}

func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Quote returns the last committed record.
func (s *Session) Quote() Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.committed
}

func (s *Session) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Total()
}

func (s *Session) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Items()
}

func (s *Session) Attachments() []attachment.Attachment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Attachments()
}

// Edit flips Viewing to Editing. The draft already holds the current
// values, so there are no other side effects.
func (s *Session) Edit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateEditing
}

func (s *Session) editable() error {
	if s.state != StateEditing {
		return ErrNotEditing
	}
	return nil
}

func (s *Session) AddItem() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return err
	}
	s.draft.AddItem()
	return nil
}

func (s *Session) RemoveItem(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return err
	}
	return s.draft.RemoveItem(i)
}

func (s *Session) UpdateItem(i int, field, raw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return err
	}
	return s.draft.UpdateItem(i, field, raw)
}

func (s *Session) SetStatus(status Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return err
	}
	s.draft.Status = status
	return nil
}

func (s *Session) SetNotes(notes string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return err
	}
	s.draft.Notes = notes
	return nil
}

// BindCustomer points the draft at a customer record.
func (s *Session) BindCustomer(customerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return err
	}
	s.draft.CustomerRef = customerID
	return nil
}

func (s *Session) ClearCustomer() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return err
	}
	s.draft.CustomerRef = ""
	return nil
}

func (s *Session) AddAttachments(as ...attachment.Attachment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return err
	}
	s.draft.AddAttachments(as...)
	return nil
}

func (s *Session) RemoveAttachment(url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return err
	}
	s.draft.RemoveAttachment(url)
	return nil
}

// Save validates the draft, persists it and transitions to Viewing. On any
// validation or store failure the session stays in Editing with the draft
// untouched. The committed snapshot is replaced only after the store
// accepted the write, so a later Cancel reverts to what was saved.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	if err := s.editable(); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.saving {
		s.mu.Unlock()
		return ErrSaveInProgress
	}
	rec, err := s.draft.ToRecord()
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.saving = true
	id := s.id
	createdBy := s.committed.CreatedBy
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.saving = false
		s.mu.Unlock()
	}()

	uid, err := s.identity.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	rec.UpdatedBy = uid

	if id == "" {
		rec.CreatedBy = uid
		newID, err := s.store.CreateQuote(ctx, rec)
		if err != nil {
			return err
		}
		id = newID
	} else {
		rec.CreatedBy = createdBy
		if err := s.store.UpdateQuote(ctx, id, rec); err != nil {
			return err
		}
	}
	rec.ID = id

	s.mu.Lock()
	s.id = id
	s.committed = rec
	s.draft = draftFromRecord(rec)
	s.state = StateViewing
	s.mu.Unlock()
	return nil
}

// Cancel discards draft mutations by re-hydrating from the last committed
// snapshot, without touching the store. It is synchronous and cannot fail.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.id == "" && s.committed.ClienteID == "" {
		s.draft = NewDraft()
		return
	}
	s.draft = draftFromRecord(s.committed)
	s.state = StateViewing
}
