package dashboard

import "time"

type NoticeKind int

const (
	NoticeInfo NoticeKind = iota
	NoticeSuccess
	NoticeWarning
	NoticeError
)

func (k NoticeKind) String() string {
	switch k {
	case NoticeSuccess:
		return "success"
	case NoticeWarning:
		return "warning"
	case NoticeError:
		return "error"
	}
	return "info"
}

type Notice struct {
	Kind NoticeKind
	Text string
	At   time.Time
}

// Expired reports whether n is older than ttl. A non-positive ttl never expires.
func (n Notice) Expired(now time.Time, ttl time.Duration) bool {
	return ttl > 0 && now.Sub(n.At) >= ttl
}
