package broadcast

import (
	"context"
	"fmt"
	"net"
)

// Greeter builds the greeting payload for a just-accepted client, or
// returns nil for no greeting. It is called outside the hub lock.
type Greeter func() []byte

// Server accepts TCP connections and feeds them into a Hub. The accept
// loop runs on its own goroutine, independent of the broadcast cadence.
// There is no authentication and no rate limiting.
type Server struct {
	ln    net.Listener
	hub   *Hub
	greet Greeter
}

// Listen opens the listening socket on the given port (all interfaces).
func Listen(port int, hub *Hub, greet Greeter) (*Server, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, fmt.Errorf("listen on port %d: %w", port, err)
	}
	return &Server{ln: ln, hub: hub, greet: greet}, nil
}

// Addr returns the listener address.
func (s *Server) Addr() net.Addr {
	return s.ln.Addr()
}

// Serve accepts connections until the context is cancelled or the
// listener fails. It blocks; run it on its own goroutine.
func (s *Server) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.ln.Close()
	}()

	for {
		conn, err := s.ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			return fmt.Errorf("accept: %w", err)
		}

		var greeting []byte
		if s.greet != nil {
			greeting = s.greet()
		}
		s.hub.Add(conn, greeting)
	}
}

// Close shuts the listener and all client connections.
func (s *Server) Close() error {
	err := s.ln.Close()
	s.hub.CloseAll()
	return err
}
