package dashboard

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/vid2blog/internal/client/api"
	"github.com/dmitrijs2005/vid2blog/internal/client/session"
	"github.com/dmitrijs2005/vid2blog/internal/common"
)

type Tab int

const (
	TabUpload Tab = iota
	TabHistory
	TabSettings
)

var tabNames = [...]string{"upload", "history", "settings"}

func (t Tab) String() string {
	if t < 0 || int(t) >= len(tabNames) {
		return fmt.Sprintf("Tab(%d)", int(t))
	}
	return tabNames[t]
}

// Next cycles Upload → History → Settings → Upload.
func (t Tab) Next() Tab { return (t + 1) % Tab(len(tabNames)) }

type Credential int

const (
	Hashnode Credential = iota
	Groq
)

func (c Credential) String() string {
	if c == Groq {
		return "groq"
	}
	return "hashnode"
}

func ParseCredential(s string) (Credential, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hashnode", "pat":
		return Hashnode, nil
	case "groq", "groq-api-key":
		return Groq, nil
	}
	return 0, fmt.Errorf("unknown credential %q", s)
}

const (
	MsgEnterHashnode   = "Please enter your Hashnode PAT"
	MsgEnterGroq       = "Please enter your GROQ API Key"
	MsgHashnodeSaved   = "Hashnode PAT saved successfully!"
	MsgGroqSaved       = "GROQ API Key saved successfully!"
	MsgHashnodeFailed  = "Failed to save PAT. Please try again."
	MsgGroqFailed      = "Failed to save GROQ API Key. Please try again."
	MsgHashnodeMissing = "Please save your Hashnode PAT first"
	MsgGroqMissing     = "Please save your GROQ API Key first"
	MsgSelectVideo     = "Please select a video file"
	MsgTooLarge        = "File size exceeds 500MB limit"
	MsgBusy            = "A video is already being processed"
	MsgLimitReached    = "Monthly limit reached. Uploads are disabled until your quota resets."
	MsgConverted       = "Video converted and published successfully!"
	MsgConvertFailed   = "Conversion failed. Please try again."
	MsgHistoryFailed   = "Failed to load history"
)

var (
	ErrEmptyCredential = errors.New("credential is empty")
	ErrHashnodeMissing = errors.New(MsgHashnodeMissing)
	ErrGroqMissing     = errors.New(MsgGroqMissing)
	ErrNoFile          = errors.New("no video selected")
	ErrNotVideo        = errors.New(MsgSelectVideo)
	ErrFileTooLarge    = errors.New(MsgTooLarge)
	ErrBusy            = errors.New(MsgBusy)
	ErrLimitReached    = errors.New(MsgLimitReached)
)

// State is the dashboard model shared by both front ends. It is safe for
// concurrent use.
type State struct {
	mu sync.Mutex

	now func() time.Time
	ttl time.Duration

	tab           Tab
	hashnodeSaved bool
	groqSaved     bool
	saving        [2]bool

	pending    *PendingFile
	processing bool
	step       int

	usage          Usage
	history        []api.HistoryEntry
	historyLoading bool

	notice *Notice
}

// NewState seeds the credential flags from the session. A nil now uses
// time.Now; ttl bounds how long a notice stays visible.
func NewState(flags session.Flags, now func() time.Time, ttl time.Duration) *State {
	if now == nil {
		now = time.Now
	}
	return &State{
		now:           now,
		ttl:           ttl,
		hashnodeSaved: flags.HasHashnode,
		groqSaved:     flags.HasGroqAPIKey,
		usage:         Usage{MonthlyLimit: DefaultMonthlyLimit},
	}
}

// View is a read-only copy of the state for rendering.
type View struct {
	Tab            Tab
	HashnodeSaved  bool
	GroqSaved      bool
	Pending        *PendingFile
	Processing     bool
	Step           int
	Usage          Usage
	History        []api.HistoryEntry
	HistoryLoading bool
	Notice         *Notice
	CanUpload      bool
}

func (s *State) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		Tab:            s.tab,
		HashnodeSaved:  s.hashnodeSaved,
		GroqSaved:      s.groqSaved,
		Processing:     s.processing,
		Step:           s.step,
		Usage:          s.usage,
		History:        append([]api.HistoryEntry(nil), s.history...),
		HistoryLoading: s.historyLoading,
		CanUpload:      s.uploadErrLocked() == nil,
	}
	if s.pending != nil {
		p := *s.pending
		v.Pending = &p
	}
	if n := s.noticeLocked(); n != nil {
		c := *n
		v.Notice = &c
	}
	return v
}

func (s *State) Flags() session.Flags {
	s.mu.Lock()
	defer s.mu.Unlock()
	return session.Flags{HasHashnode: s.hashnodeSaved, HasGroqAPIKey: s.groqSaved}
}

func (s *State) Tab() Tab {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tab
}

// SetTab activates t. It reports true when t is History and was not active
// before, meaning history must be fetched once.
func (s *State) SetTab(t Tab) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	activated := t == TabHistory && s.tab != TabHistory
	s.tab = t
	return activated
}

// Notify replaces the notice line.
func (s *State) Notify(kind NoticeKind, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifyLocked(kind, text)
}

// Notice returns the current notice, or nil once it has expired.
func (s *State) Notice() *Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.noticeLocked()
}

func (s *State) notifyLocked(kind NoticeKind, text string) {
	s.notice = &Notice{Kind: kind, Text: text, At: s.now()}
}

func (s *State) noticeLocked() *Notice {
	if s.notice == nil || s.notice.Expired(s.now(), s.ttl) {
		return nil
	}
	return s.notice
}

// BeginSaveCredential checks that value is non-empty and marks the save as
// in flight. It returns the trimmed secret to send.
func (s *State) BeginSaveCredential(kind Credential, value string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value = strings.TrimSpace(value)
	if value == "" {
		if kind == Hashnode {
			s.notifyLocked(NoticeWarning, MsgEnterHashnode)
		} else {
			s.notifyLocked(NoticeWarning, MsgEnterGroq)
		}
		return "", ErrEmptyCredential
	}
	if s.saving[kind] {
		return "", ErrBusy
	}
	s.saving[kind] = true
	return value, nil
}

// ApplyCredentialSaved folds in the result of a credential save. It reports
// whether the profile should be refreshed.
func (s *State) ApplyCredentialSaved(kind Credential, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.saving[kind] = false
	if err != nil {
		fallback := MsgHashnodeFailed
		if kind == Groq {
			fallback = MsgGroqFailed
		}
		s.notifyLocked(NoticeError, api.Message(err, fallback))
		return false
	}

	if kind == Hashnode {
		s.hashnodeSaved = true
		s.notifyLocked(NoticeSuccess, MsgHashnodeSaved)
		return true
	}
	s.groqSaved = true
	s.notifyLocked(NoticeSuccess, MsgGroqSaved)
	return false
}

// Reconnect shows the input form for kind again.
func (s *State) Reconnect(kind Credential) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if kind == Hashnode {
		s.hashnodeSaved = false
	} else {
		s.groqSaved = false
	}
}

// Saving reports whether a save for kind is in flight.
func (s *State) Saving(kind Credential) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saving[kind]
}

// SelectFile validates the file at path and makes it the pending upload.
// A rejected file leaves the previous selection in place.
func (s *State) SelectFile(path string) (PendingFile, error) {
	pf, err := inspectFile(path)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.notifyLocked(NoticeWarning, MsgSelectVideo)
		return PendingFile{}, fmt.Errorf("%w: %v", ErrNotVideo, err)
	}
	if !strings.HasPrefix(pf.ContentType, "video/") {
		s.notifyLocked(NoticeWarning, MsgSelectVideo)
		return PendingFile{}, ErrNotVideo
	}
	if pf.Size > common.MaxVideoSize {
		s.notifyLocked(NoticeError, MsgTooLarge)
		return PendingFile{}, ErrFileTooLarge
	}

	s.pending = &pf
	s.notifyLocked(NoticeInfo, fmt.Sprintf("%q selected for upload", pf.Name))
	return pf, nil
}

// ClearFile drops the pending upload.
func (s *State) ClearFile() {
	s.mu.Lock()
	s.pending = nil
	s.mu.Unlock()
}

func (s *State) uploadErrLocked() error {
	switch {
	case !s.hashnodeSaved:
		return ErrHashnodeMissing
	case !s.groqSaved:
		return ErrGroqMissing
	case s.pending == nil:
		return ErrNoFile
	case s.processing:
		return ErrBusy
	case s.usage.Level() == LevelBlocked:
		return ErrLimitReached
	}
	return nil
}

// BeginUpload checks every precondition, in order, and on success marks the
// dashboard as processing at step 0.
func (s *State) BeginUpload() (api.Upload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.uploadErrLocked(); err != nil {
		switch {
		case errors.Is(err, ErrNoFile):
			s.notifyLocked(NoticeWarning, MsgSelectVideo)
		case errors.Is(err, ErrLimitReached):
			s.notifyLocked(NoticeError, MsgLimitReached)
		default:
			s.notifyLocked(NoticeWarning, err.Error())
		}
		return api.Upload{}, err
	}

	s.processing = true
	s.step = 0
	return s.pending.Upload(), nil
}

// SetStep records the simulated progress stage. Ignored when idle.
func (s *State) SetStep(step int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.processing {
		s.step = step
	}
}

func (s *State) Processing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.processing
}

// ApplyUploaded settles a conversion. Processing is reset either way. On
// success the History tab becomes active and true is returned: the caller
// fetches history and profile exactly once.
func (s *State) ApplyUploaded(err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.processing = false
	s.step = 0

	if err != nil {
		s.notifyLocked(NoticeError, api.Message(err, MsgConvertFailed))
		return false
	}

	s.pending = nil
	s.tab = TabHistory
	s.notifyLocked(NoticeSuccess, MsgConverted)
	return true
}

// BeginHistory marks a history fetch as running.
func (s *State) BeginHistory() {
	s.mu.Lock()
	s.historyLoading = true
	s.mu.Unlock()
}

// ApplyHistory replaces the list, or raises a transient error notice.
func (s *State) ApplyHistory(entries []api.HistoryEntry, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.historyLoading = false
	if err != nil {
		s.notifyLocked(NoticeError, MsgHistoryFailed)
		return
	}
	s.history = entries
}

// ApplyProfile updates usage and turns on any credential flag the backend
// reports. A failed fetch leaves everything as it was.
func (s *State) ApplyProfile(p api.Profile, err error) {
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.HasHashnode {
		s.hashnodeSaved = true
	}
	if p.HasGroqAPIKey {
		s.groqSaved = true
	}
	s.usage = UsageFromProfile(p)
}
