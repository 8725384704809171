package http

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/websocket/v2"
	"github.com/nats-io/nats.go"

	natsadapter "github.com/socat/omegeo/internal/adapters/nats"
	"github.com/socat/omegeo/internal/pkg/metrics"
)

const wsPingInterval = 30 * time.Second

// wsMessage is sent by clients to change which regions they receive.
type wsMessage struct {
	Action string `json:"action"` // "subscribe" | "unsubscribe"
	Source string `json:"source"` // region source filter, "" = all sources
}

// wsReply acknowledges a client message.
type wsReply struct {
	Status  string `json:"status,omitempty"`
	Subject string `json:"subject,omitempty"`
	Error   string `json:"error,omitempty"`
}

// regionSubjectFor maps a client source filter to a NATS subject.
func regionSubjectFor(source string) string {
	if source == "" {
		return natsadapter.RegionSubjects
	}
	return natsadapter.RegionSubject(source)
}

// overlappingSubjects returns the subscribed subjects that would deliver
// the same regions as subject: the catch-all overlaps every source filter
// and every source filter overlaps the catch-all.
func overlappingSubjects(subscribed []string, subject string) []string {
	var out []string
	for _, have := range subscribed {
		if have == subject {
			continue
		}
		if have == natsadapter.RegionSubjects || subject == natsadapter.RegionSubjects {
			out = append(out, have)
		}
	}
	sort.Strings(out)
	return out
}

// wsSession is one connected map client and its NATS subscriptions.
// Writes from NATS callbacks, the pinger and the read loop share mu.
type wsSession struct {
	conn *websocket.Conn
	nc   *nats.Conn
	log  *slog.Logger

	mu   sync.Mutex
	subs map[string]*nats.Subscription // subject -> subscription
}

func (s *wsSession) write(messageType int, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteMessage(messageType, data)
}

func (s *wsSession) reply(r wsReply) {
	data, err := json.Marshal(r)
	if err != nil {
		return
	}
	_ = s.write(websocket.TextMessage, data)
}

// relay forwards region events verbatim; they are already JSON.
func (s *wsSession) relay(msg *nats.Msg) {
	_ = s.write(websocket.TextMessage, msg.Data)
}

func (s *wsSession) subscribe(subject string) error {
	if _, ok := s.subs[subject]; ok {
		return nil
	}
	sub, err := s.nc.Subscribe(subject, s.relay)
	if err != nil {
		return err
	}
	s.subs[subject] = sub
	return nil
}

// dropOverlapping unsubscribes everything that overlaps subject so each
// region reaches the client once.
func (s *wsSession) dropOverlapping(subject string) {
	subscribed := make([]string, 0, len(s.subs))
	for have := range s.subs {
		subscribed = append(subscribed, have)
	}
	for _, have := range overlappingSubjects(subscribed, subject) {
		_ = s.subs[have].Unsubscribe()
		delete(s.subs, have)
	}
}

func (s *wsSession) handle(m wsMessage) {
	subject := regionSubjectFor(m.Source)
	switch m.Action {
	case "subscribe":
		if _, ok := s.subs[subject]; ok {
			s.reply(wsReply{Status: "already subscribed", Subject: subject})
			return
		}
		if err := s.subscribe(subject); err != nil {
			s.reply(wsReply{Error: "subscribe failed: " + err.Error()})
			return
		}
		s.dropOverlapping(subject)
		s.reply(wsReply{Status: "subscribed", Subject: subject})
	case "unsubscribe":
		sub, ok := s.subs[subject]
		if !ok {
			s.reply(wsReply{Error: "not subscribed to " + subject})
			return
		}
		_ = sub.Unsubscribe()
		delete(s.subs, subject)
		s.reply(wsReply{Status: "unsubscribed", Subject: subject})
	default:
		s.reply(wsReply{Error: "unknown action: " + m.Action})
	}
}

func (s *wsSession) keepAlive(done <-chan struct{}) {
	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := s.write(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func (s *wsSession) close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
}

// WebSocketHandler relays drawn search regions from NATS to connected
// clients. Every connection starts subscribed to all sources. Sending
// {"action":"subscribe","source":"place"} narrows the stream to that source,
// replacing the catch-all; further source filters accumulate. Subscribing
// with source "" widens back to all sources and drops the filters.
func WebSocketHandler(nc *nats.Conn) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		s := &wsSession{
			conn: c,
			nc:   nc,
			log:  slog.Default().With("remote_addr", c.RemoteAddr().String()),
			subs: make(map[string]*nats.Subscription),
		}
		if nc == nil {
			s.reply(wsReply{Error: "event stream not available"})
			return
		}

		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()
		s.log.Info("ws client connected")

		if err := s.subscribe(natsadapter.RegionSubjects); err != nil {
			s.log.Error("ws default subscribe failed", "error", err)
			return
		}
		defer s.close()

		done := make(chan struct{})
		defer close(done)
		go s.keepAlive(done)

		for {
			_, raw, err := c.ReadMessage()
			if err != nil {
				break
			}
			var m wsMessage
			if err := json.Unmarshal(raw, &m); err != nil {
				s.reply(wsReply{Error: "invalid JSON"})
				continue
			}
			s.handle(m)
		}

		s.log.Info("ws client disconnected")
	}
}
