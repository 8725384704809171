package natsadapter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"

	"github.com/socat/omegeo/internal/core/domain"
)

const (
	// RegionStream holds every drawn search region for a day.
	RegionStream = "SEARCH_REGIONS"
	// RegionSubjects matches the subject of every region event.
	RegionSubjects = "search.region.>"

	regionSubjectPrefix = "search.region."
	defaultSource       = "map"
)

// RegionSubject returns the subject a region from source is published on.
// Characters that would split or wildcard the subject are replaced.
func RegionSubject(source string) string {
	source = strings.TrimSpace(source)
	if source == "" {
		source = defaultSource
	}
	clean := strings.Map(func(r rune) rune {
		switch r {
		case '.', '*', '>', ' ', '\t':
			return '_'
		}
		return r
	}, source)
	return regionSubjectPrefix + clean
}

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and enables JetStream.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	cfg := nats.StreamConfig{
		Name:       RegionStream,
		Subjects:   []string{RegionSubjects},
		Retention:  nats.LimitsPolicy,
		MaxAge:     24 * time.Hour,
		Storage:    nats.FileStorage,
		Duplicates: 2 * time.Minute,
	}
	if _, err := js.AddStream(&cfg); err != nil {
		// Stream may already exist, try update
		if _, err := js.UpdateStream(&cfg); err != nil {
			return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

// PublishRegion publishes a drawn region. The region ID doubles as the
// JetStream message ID so retries are deduplicated.
func (p *Publisher) PublishRegion(ctx context.Context, region *domain.SearchRegion) error {
	data, err := json.Marshal(region)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(RegionSubject(region.Source), data,
		nats.Context(ctx),
		nats.MsgId(region.ID),
	)
	return err
}

// Conn exposes the underlying connection for readiness checks.
func (p *Publisher) Conn() *nats.Conn {
	return p.conn
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
