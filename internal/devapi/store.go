package devapi

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/vid2blog/internal/common"
	"github.com/dmitrijs2005/vid2blog/internal/cryptox"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrAlreadyExists    = errors.New("already exists")
	ErrInvalidPassword  = errors.New("invalid login/password")
	ErrInvalidOTP       = errors.New("invalid or expired otp")
	ErrMissingHashnode  = errors.New("hashnode token missing")
	ErrMissingGroq      = errors.New("groq api key missing")
	ErrMonthlyLimit     = errors.New("monthly limit reached")
	ErrRateLimited      = errors.New("rate limited")
	ErrCredentialVault  = errors.New("credential vault error")
	ErrEmptyCredentials = errors.New("empty credential")
)

type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	Hashnode     *cryptox.Sealed
	GroqAPIKey   *cryptox.Sealed
	CreatedAt    time.Time
}

type Conversion struct {
	ID              string    `json:"_id"`
	UserID          string    `json:"-"`
	ArticleTitle    string    `json:"articleTitle"`
	VideoName       string    `json:"videoName"`
	CreatedAt       time.Time `json:"createdAt"`
	HashnodeDraftID string    `json:"hashnodeDraftId,omitempty"`
	DraftURL        string    `json:"draftUrl,omitempty"`
	Minutes         float64   `json:"minutesCharged"`
}

type pendingOTP struct {
	code     string
	expires  time.Time
	attempts int
}

// Usage is the per-user quota snapshot served by /user/me.
type Usage struct {
	MonthlyMinutesUsed float64
	MonthlyLimit       float64
	DailyCount         int
}

// Store keeps every record in memory. It is safe for concurrent use.
type Store struct {
	mu sync.Mutex

	now          func() time.Time
	vaultKey     []byte
	otpTTL       time.Duration
	otpAttempts  int
	monthlyLimit float64
	perHour      int

	usersByID    map[string]*User
	usersByEmail map[string]*User
	otps         map[string]*pendingOTP
	conversions  []*Conversion
}

type StoreOptions struct {
	Now                func() time.Time
	VaultKey           []byte
	OTPValidity        time.Duration
	OTPMaxAttempts     int
	MonthlyLimit       float64
	ConversionsPerHour int
}

func NewStore(opt StoreOptions) *Store {
	if opt.Now == nil {
		opt.Now = time.Now
	}
	if opt.OTPMaxAttempts <= 0 {
		opt.OTPMaxAttempts = 5
	}
	return &Store{
		now:          opt.Now,
		vaultKey:     opt.VaultKey,
		otpTTL:       opt.OTPValidity,
		otpAttempts:  opt.OTPMaxAttempts,
		monthlyLimit: opt.MonthlyLimit,
		perHour:      opt.ConversionsPerHour,
		usersByID:    make(map[string]*User),
		usersByEmail: make(map[string]*User),
		otps:         make(map[string]*pendingOTP),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Store) createLocked(email string) *User {
	u := &User{ID: uuid.NewString(), Email: email, CreatedAt: s.now()}
	s.usersByID[u.ID] = u
	s.usersByEmail[email] = u
	return u
}

// Register creates a password account.
func (s *Store) Register(email, password string) (*User, error) {
	email = normalizeEmail(email)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if u, ok := s.usersByEmail[email]; ok {
		if u.PasswordHash != nil {
			return nil, ErrAlreadyExists
		}
		// an OTP-only account gains a password
		u.PasswordHash = hash
		return u, nil
	}
	u := s.createLocked(email)
	u.PasswordHash = hash
	return u, nil
}

// Authenticate checks a password login.
func (s *Store) Authenticate(email, password string) (*User, error) {
	s.mu.Lock()
	u, ok := s.usersByEmail[normalizeEmail(email)]
	var hash []byte
	if ok {
		hash = u.PasswordHash
	}
	s.mu.Unlock()

	if hash == nil {
		return nil, ErrInvalidPassword
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return nil, ErrInvalidPassword
	}
	return u, nil
}

// IssueOTP replaces any outstanding code for email with a fresh one.
func (s *Store) IssueOTP(email string) string {
	code := common.GenerateDigits(common.OTPLength)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.otps[normalizeEmail(email)] = &pendingOTP{code: code, expires: s.now().Add(s.otpTTL)}
	return code
}

// VerifyOTP consumes a matching code and returns the account for email,
// creating it on first sign-in.
func (s *Store) VerifyOTP(email, code string) (*User, error) {
	email = normalizeEmail(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.otps[email]
	if !ok {
		return nil, ErrInvalidOTP
	}
	if s.now().After(p.expires) {
		delete(s.otps, email)
		return nil, ErrInvalidOTP
	}
	if subtle.ConstantTimeCompare([]byte(p.code), []byte(code)) != 1 {
		p.attempts++
		if p.attempts >= s.otpAttempts {
			delete(s.otps, email)
		}
		return nil, ErrInvalidOTP
	}
	delete(s.otps, email)

	if u, ok := s.usersByEmail[email]; ok {
		return u, nil
	}
	return s.createLocked(email), nil
}

func (s *Store) User(id string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.usersByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

// Flags reports which credentials are stored for the user.
func (s *Store) Flags(id string) (hasHashnode, hasGroq bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.usersByID[id]
	if !ok {
		return false, false, ErrNotFound
	}
	return u.Hashnode != nil, u.GroqAPIKey != nil, nil
}

// SaveHashnode seals and stores the publishing token.
func (s *Store) SaveHashnode(id, token string) error {
	return s.saveSecret(id, token, func(u *User, sealed *cryptox.Sealed) { u.Hashnode = sealed })
}

// SaveGroqAPIKey seals and stores the AI-processing key.
func (s *Store) SaveGroqAPIKey(id, key string) error {
	return s.saveSecret(id, key, func(u *User, sealed *cryptox.Sealed) { u.GroqAPIKey = sealed })
}

func (s *Store) saveSecret(id, secret string, set func(*User, *cryptox.Sealed)) error {
	if strings.TrimSpace(secret) == "" {
		return ErrEmptyCredentials
	}
	sealed, err := cryptox.Seal(secret, s.vaultKey)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCredentialVault, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.usersByID[id]
	if !ok {
		return ErrNotFound
	}
	set(u, &sealed)
	return nil
}

// Credentials opens both stored secrets for the user.
func (s *Store) Credentials(id string) (hashnode, groq string, err error) {
	s.mu.Lock()
	u, ok := s.usersByID[id]
	var hn, gq *cryptox.Sealed
	if ok {
		hn, gq = u.Hashnode, u.GroqAPIKey
	}
	s.mu.Unlock()

	switch {
	case !ok:
		return "", "", ErrNotFound
	case hn == nil:
		return "", "", ErrMissingHashnode
	case gq == nil:
		return "", "", ErrMissingGroq
	}

	if err := cryptox.Open(*hn, s.vaultKey, &hashnode); err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrCredentialVault, err)
	}
	if err := cryptox.Open(*gq, s.vaultKey, &groq); err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrCredentialVault, err)
	}
	return hashnode, groq, nil
}

// Usage aggregates the user's conversions for the current month and day.
func (s *Store) Usage(id string) Usage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.usageLocked(id)
}

func (s *Store) usageLocked(id string) Usage {
	now := s.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	u := Usage{MonthlyLimit: s.monthlyLimit}
	for _, c := range s.conversions {
		if c.UserID != id {
			continue
		}
		if !c.CreatedAt.Before(monthStart) {
			u.MonthlyMinutesUsed += c.Minutes
		}
		if !c.CreatedAt.Before(dayStart) {
			u.DailyCount++
		}
	}
	return u
}

// Admit checks the monthly quota and hourly rate before a conversion.
func (s *Store) Admit(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u := s.usageLocked(id); s.monthlyLimit > 0 && u.MonthlyMinutesUsed >= s.monthlyLimit {
		return ErrMonthlyLimit
	}

	if s.perHour > 0 {
		since := s.now().Add(-time.Hour)
		n := 0
		for _, c := range s.conversions {
			if c.UserID == id && c.CreatedAt.After(since) {
				n++
			}
		}
		if n >= s.perHour {
			return ErrRateLimited
		}
	}
	return nil
}

// Record appends a finished conversion to the user's history.
func (s *Store) Record(c *Conversion) *Conversion {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}
	s.conversions = append(s.conversions, c)
	return c
}

// History returns the user's conversions, newest first.
func (s *Store) History(id string) []Conversion {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Conversion, 0)
	for _, c := range s.conversions {
		if c.UserID == id {
			out = append(out, *c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}
