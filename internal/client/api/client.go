package api

import (
	"context"
	"time"
)

// Client covers every backend endpoint used by the front ends.
//
// Contract:
//   - Signup, Login, SendOTP and VerifyOTP are anonymous; all other calls
//     carry the session bearer token.
//   - Backend failures are returned as *Error; transport failures wrap
//     ErrUnavailable; a 401 on a bearer call matches ErrUnauthorized.
type Client interface {
	Signup(ctx context.Context, email, password string) error
	Login(ctx context.Context, email, password string) (string, error)
	SendOTP(ctx context.Context, email string) (SendOTPResult, error)
	VerifyOTP(ctx context.Context, email, code string) (VerifyResult, error)
	Me(ctx context.Context) (Profile, error)
	SaveHashnodeToken(ctx context.Context, token string) error
	SaveGroqAPIKey(ctx context.Context, key string) error
	Convert(ctx context.Context, up Upload) (ConversionResult, error)
	History(ctx context.Context) ([]HistoryEntry, error)
}

type SendOTPResult struct {
	Message string `json:"message,omitempty"`
	// OTP is only echoed by backends running in development mode.
	OTP string `json:"otp,omitempty"`
}

type VerifyResult struct {
	Token         string `json:"token"`
	HasHashnode   bool   `json:"hasHashnode"`
	HasGroqAPIKey bool   `json:"hasGroqApiKey"`
}

// Profile is the /user/me snapshot.
type Profile struct {
	HasHashnode        bool    `json:"hasHashnode"`
	HasGroqAPIKey      bool    `json:"hasGroqApiKey"`
	MonthlyMinutesUsed float64 `json:"monthlyMinutesUsed"`
	MonthlyLimit       float64 `json:"monthlyLimit"`
	DailyCount         int     `json:"dailyCount"`
}

// Upload describes a local video to be sent to /convert.
type Upload struct {
	Path        string
	Name        string
	ContentType string
	Size        int64
}

type ConversionResult struct {
	ID              string  `json:"_id"`
	ArticleTitle    string  `json:"articleTitle"`
	VideoName       string  `json:"videoName"`
	HashnodeDraftID string  `json:"hashnodeDraftId,omitempty"`
	DraftURL        string  `json:"draftUrl,omitempty"`
	MinutesCharged  float64 `json:"minutesCharged,omitempty"`
	Message         string  `json:"message,omitempty"`
}

type HistoryEntry struct {
	ID              string    `json:"_id"`
	ArticleTitle    string    `json:"articleTitle"`
	VideoName       string    `json:"videoName"`
	CreatedAt       time.Time `json:"createdAt"`
	HashnodeDraftID string    `json:"hashnodeDraftId,omitempty"`
	DraftURL        string    `json:"draftUrl,omitempty"`
}
