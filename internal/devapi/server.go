// Package devapi is an in-memory implementation of the vid2blog backend API.
// It backs local development of the client and the client's end-to-end
// tests; it performs no transcription or publishing of its own.
package devapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/vid2blog/internal/common"
	"github.com/dmitrijs2005/vid2blog/internal/devapi/auth"
	"github.com/dmitrijs2005/vid2blog/internal/logging"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// Options configures a Server.
type Options struct {
	SecretKey       []byte
	TokenValidity   time.Duration
	DevMode         bool
	ProcessingDelay time.Duration
	Logger          logging.Logger
}

type Server struct {
	store  *Store
	opt    Options
	logger logging.Logger
}

func NewServer(store *Store, opt Options) *Server {
	l := opt.Logger
	if l == nil {
		l = logging.Nop()
	}
	if opt.TokenValidity == 0 {
		opt.TokenValidity = 24 * time.Hour
	}
	return &Server{store: store, opt: opt, logger: l.With("module", "devapi")}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.requestLogger)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	r.HandleFunc("/auth/signup", s.handleSignup).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/auth/send-otp", s.handleSendOTP).Methods(http.MethodPost)
	r.HandleFunc("/auth/verify-otp", s.handleVerifyOTP).Methods(http.MethodPost)

	private := r.NewRoute().Subrouter()
	private.Use(s.requireSession)
	private.HandleFunc("/user/me", s.handleMe).Methods(http.MethodGet)
	private.HandleFunc("/user/hashnode", s.handleSaveHashnode).Methods(http.MethodPost)
	private.HandleFunc("/user/groq-api-key", s.handleSaveGroq).Methods(http.MethodPost)
	private.HandleFunc("/convert", s.handleConvert).Methods(http.MethodPost)
	private.HandleFunc("/history", s.handleHistory).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rid := r.Header.Get(common.RequestIDHeaderName)
		if rid == "" {
			rid = uuid.NewString()
		}
		w.Header().Set(common.RequestIDHeaderName, rid)
		r = r.WithContext(logging.ContextWithRequestID(r.Context(), rid))

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		s.logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := r.Header.Get(common.AuthorizationHeaderName)
		token, ok := strings.CutPrefix(h, common.BearerPrefix)
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "No token provided")
			return
		}

		userID, err := auth.GetUserIDFromToken(token, s.opt.SecretKey)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		if _, err := s.store.User(userID); err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	return dec.Decode(v)
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeBody(r, &req); err != nil || req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Email and password are required"})
		return
	}

	if _, err := s.store.Register(req.Email, req.Password); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			writeJSON(w, http.StatusConflict, map[string]string{"message": "User already exists"})
			return
		}
		s.logger.Error(r.Context(), "signup failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Signup failed"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "User created"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	u, err := s.store.Authenticate(req.Email, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	s.issueSession(w, r, u.ID, false)
}

func (s *Server) handleSendOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeBody(r, &req); err != nil || !strings.Contains(req.Email, "@") {
		writeError(w, http.StatusBadRequest, "Valid email is required")
		return
	}

	code := s.store.IssueOTP(req.Email)
	resp := map[string]string{"message": "OTP sent to your email"}
	if s.opt.DevMode {
		resp["otp"] = code
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := decodeBody(r, &req); err != nil || req.Email == "" || len(req.OTP) != common.OTPLength {
		writeError(w, http.StatusBadRequest, "Email and 6-digit OTP are required")
		return
	}

	u, err := s.store.VerifyOTP(req.Email, req.OTP)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid or expired OTP")
		return
	}
	s.issueSession(w, r, u.ID, true)
}

func (s *Server) issueSession(w http.ResponseWriter, r *http.Request, id string, withFlags bool) {
	token, err := auth.GenerateToken(id, s.opt.SecretKey, s.opt.TokenValidity)
	if err != nil {
		s.logger.Error(r.Context(), "token generation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !withFlags {
		writeJSON(w, http.StatusOK, map[string]any{"token": token})
		return
	}

	hn, gq, _ := s.store.Flags(id)
	writeJSON(w, http.StatusOK, map[string]any{
		"token":         token,
		"hasHashnode":   hn,
		"hasGroqApiKey": gq,
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	id := userID(r.Context())
	u, err := s.store.User(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	hn, gq, _ := s.store.Flags(id)
	usage := s.store.Usage(id)

	writeJSON(w, http.StatusOK, map[string]any{
		"email":              u.Email,
		"hasHashnode":        hn,
		"hasGroqApiKey":      gq,
		"monthlyMinutesUsed": usage.MonthlyMinutesUsed,
		"monthlyLimit":       usage.MonthlyLimit,
		"dailyCount":         usage.DailyCount,
	})
}

func (s *Server) handleSaveHashnode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := decodeBody(r, &req); err != nil || strings.TrimSpace(req.Token) == "" {
		writeError(w, http.StatusBadRequest, "Hashnode token is required")
		return
	}
	if err := s.store.SaveHashnode(userID(r.Context()), req.Token); err != nil {
		s.logger.Error(r.Context(), "saving hashnode token failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to save Hashnode token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Hashnode token saved"})
}

func (s *Server) handleSaveGroq(w http.ResponseWriter, r *http.Request) {
	var req struct {
		APIKey string `json:"apiKey"`
	}
	if err := decodeBody(r, &req); err != nil || strings.TrimSpace(req.APIKey) == "" {
		writeError(w, http.StatusBadRequest, "GROQ API key is required")
		return
	}
	if err := s.store.SaveGroqAPIKey(userID(r.Context()), req.APIKey); err != nil {
		s.logger.Error(r.Context(), "saving groq key failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to save GROQ API key")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "GROQ API key saved"})
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := userID(ctx)

	if _, _, err := s.store.Credentials(id); err != nil {
		switch {
		case errors.Is(err, ErrMissingHashnode):
			writeError(w, http.StatusBadRequest, "Please connect your Hashnode account first")
		case errors.Is(err, ErrMissingGroq):
			writeError(w, http.StatusBadRequest, "Please add your GROQ API Key first")
		default:
			s.logger.Error(ctx, "opening credentials failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Conversion failed")
		}
		return
	}

	if err := s.store.Admit(id); err != nil {
		if errors.Is(err, ErrMonthlyLimit) {
			writeError(w, http.StatusForbidden, "Monthly limit reached")
		} else {
			writeError(w, http.StatusTooManyRequests, "Rate limit exceeded. Try again later.")
		}
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, common.MaxVideoSize+(1<<20))
	file, hdr, err := r.FormFile("video")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, "File size exceeds 500MB limit")
			return
		}
		writeError(w, http.StatusBadRequest, "No video file uploaded")
		return
	}
	defer file.Close()
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}

	ct := hdr.Header.Get("Content-Type")
	if mt, _, err := mime.ParseMediaType(ct); err != nil || !strings.HasPrefix(mt, "video/") {
		writeError(w, http.StatusBadRequest, "Only video files are allowed")
		return
	}

	size, err := io.Copy(io.Discard, file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Upload interrupted")
		return
	}
	if size > common.MaxVideoSize {
		writeError(w, http.StatusRequestEntityTooLarge, "File size exceeds 500MB limit")
		return
	}

	if d := s.opt.ProcessingDelay; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return
		}
	}

	draftID, draftURL := newDraft()
	c := s.store.Record(&Conversion{
		UserID:          id,
		ArticleTitle:    articleTitle(hdr.Filename),
		VideoName:       hdr.Filename,
		HashnodeDraftID: draftID,
		DraftURL:        draftURL,
		Minutes:         chargeMinutes(size),
	})

	s.logger.Info(ctx, "conversion recorded", "id", c.ID, "minutes", c.Minutes)
	writeJSON(w, http.StatusOK, map[string]any{
		"message":         "Video converted and draft created",
		"_id":             c.ID,
		"articleTitle":    c.ArticleTitle,
		"videoName":       c.VideoName,
		"hashnodeDraftId": c.HashnodeDraftID,
		"draftUrl":        c.DraftURL,
		"minutesCharged":  c.Minutes,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.History(userID(r.Context())))
}
