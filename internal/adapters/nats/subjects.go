package natsadapter

import (
	"strings"
	"time"

	"github.com/nats-io/nats.go"
)

// Subjects carrying domain events.
const (
	SubjectPOISubmitted    = "kamertour.pois.submitted"
	SubjectPOIStatusPrefix = "kamertour.pois.status."
	SubjectCommentReported = "kamertour.comments.reported"
	SubjectRouteEstimated  = "kamertour.routes.estimated"
	SubjectNotifyPrefix    = "kamertour.notifications."
)

// Streams returns the JetStream configuration the publisher ensures on start.
// Notifications travel over core NATS and are not persisted.
func Streams() []nats.StreamConfig {
	return []nats.StreamConfig{
		{
			Name:      "KAMERTOUR_POIS",
			Subjects:  []string{"kamertour.pois.>"},
			Retention: nats.LimitsPolicy,
			MaxAge:    7 * 24 * time.Hour,
			Storage:   nats.FileStorage,
		},
		{
			Name:      "KAMERTOUR_COMMENTS",
			Subjects:  []string{"kamertour.comments.>"},
			Retention: nats.LimitsPolicy,
			MaxAge:    7 * 24 * time.Hour,
			Storage:   nats.FileStorage,
		},
		{
			Name:      "KAMERTOUR_ROUTES",
			Subjects:  []string{"kamertour.routes.>"},
			Retention: nats.LimitsPolicy,
			MaxAge:    24 * time.Hour,
			Storage:   nats.FileStorage,
		},
	}
}

// token makes s safe to use as a single subject token.
func token(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "_"
	}
	return strings.NewReplacer(".", "_", "*", "_", ">", "_", " ", "_").Replace(s)
}

// StatusSubject is the subject for status changes of one POI.
func StatusSubject(poiID string) string {
	return SubjectPOIStatusPrefix + token(poiID)
}

// NotifySubject is the subject for notifications to one recipient.
func NotifySubject(recipient string) string {
	return SubjectNotifyPrefix + token(recipient)
}

func connect(url, name string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name(name),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return connect(url, "kamertour-relay")
}
