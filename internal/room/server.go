package room

import (
	"bufio"
	"fmt"
	"net"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/dice-arena/internal/logger"
)

// member is one connected client from the server's point of view.
type member struct {
	conn net.Conn
	name string
	room string
}

// Server is the room relay: it tracks membership per room code and
// broadcasts messages among members. Roll requests are resolved
// server-side so every member sees identical values.
type Server struct {
	mu      sync.Mutex
	ln      net.Listener
	members map[net.Conn]*member
	source  Source
	fall    *LocalSource
}

// NewServer creates a relay using the given roll source. Pass nil to
// roll entirely from local entropy.
func NewServer(source Source) (*Server, error) {
	fall, err := NewEntropySource()
	if err != nil {
		return nil, err
	}
	if source == nil {
		source = fall
	}
	return &Server{
		members: make(map[net.Conn]*member),
		source:  source,
		fall:    fall,
	}, nil
}

// Listen binds the server to addr and returns the bound address, which
// carries the chosen port when addr requests port 0.
func (s *Server) Listen(addr string) (net.Addr, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", addr, err)
	}
	s.ln = ln
	return ln.Addr(), nil
}

// Serve accepts connections until Close. Blocks.
func (s *Server) Serve() error {
	if s.ln == nil {
		return fmt.Errorf("server is not listening")
	}
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return err
		}
		go s.handle(conn)
	}
}

// Close stops accepting and drops every member.
func (s *Server) Close() {
	if s.ln != nil {
		s.ln.Close()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.members {
		conn.Close()
	}
	s.members = make(map[net.Conn]*member)
}

func (s *Server) handle(conn net.Conn) {
	m := &member{conn: conn}

	s.mu.Lock()
	s.members[conn] = m
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.members, conn)
		room := m.room
		s.mu.Unlock()
		conn.Close()
		if room != "" {
			s.announceMembers(room)
		}
	}()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		env, err := Decode(scanner.Bytes())
		if err != nil {
			logger.Warn("dropping malformed line", zap.Error(err))
			continue
		}
		if err := s.dispatch(m, env); err != nil {
			logger.Warn("room message failed",
				zap.String("type", string(env.Type)),
				zap.Error(err),
			)
		}
	}
}

func (s *Server) dispatch(m *member, env Envelope) error {
	switch env.Type {
	case MsgHello:
		var hello Hello
		if err := env.Unmarshal(&hello); err != nil {
			return err
		}
		s.mu.Lock()
		m.name = hello.Name
		s.mu.Unlock()
		return nil

	case MsgJoin:
		var join Join
		if err := env.Unmarshal(&join); err != nil {
			return err
		}
		s.mu.Lock()
		m.room = join.Room
		s.mu.Unlock()
		s.announceMembers(join.Room)
		return nil

	case MsgChat:
		var chat Chat
		if err := env.Unmarshal(&chat); err != nil {
			return err
		}
		chat.From = m.name
		return s.broadcast(m.room, MsgChat, chat)

	case MsgRollRequest:
		var req RollRequest
		if err := env.Unmarshal(&req); err != nil {
			return err
		}
		notation, err := ParseNotation(req.Notation)
		if err != nil {
			return err
		}
		result, err := Resolve(notation, s.source, s.fall)
		if err != nil {
			return err
		}
		return s.broadcast(m.room, MsgRollResult, RollResult{
			From:     m.name,
			Notation: notation.String(),
			Values:   result.Values(),
			Total:    result.Total,
		})

	default:
		return fmt.Errorf("unexpected client message %q", env.Type)
	}
}

// announceMembers broadcasts the room's current member list.
func (s *Server) announceMembers(room string) {
	s.mu.Lock()
	var names []string
	for _, m := range s.members {
		if m.room == room {
			names = append(names, m.name)
		}
	}
	s.mu.Unlock()

	if err := s.broadcast(room, MsgJoined, Joined{Room: room, Members: names}); err != nil {
		logger.Warn("membership announce failed", zap.Error(err))
	}
}

// broadcast frames one message and writes it to every member of a room.
func (s *Server) broadcast(room string, t MsgType, payload any) error {
	if room == "" {
		return nil
	}
	line, err := Encode(t, payload)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.members {
		if m.room != room {
			continue
		}
		if _, err := m.conn.Write(line); err != nil {
			logger.Debug("broadcast write failed",
				zap.String("member", m.name),
				zap.Error(err),
			)
		}
	}
	return nil
}
