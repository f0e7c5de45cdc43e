// Package server runs the TCP accept loop and per-connection command
// pipeline: thread-per-connection, chunked reads feeding the incremental
// parser, all complete frames drained before a single flush.
package server

import (
	"bufio"
	"bytes"
	"fmt"
	"log"
	"net"
	"strings"
	"sync"
	"time"

	"redgo/internal/command"
	"redgo/internal/persistence"
	"redgo/internal/protocol"
	"redgo/internal/store"
)

const readChunkSize = 4096

// Options configures a Server. Host/Port come from config.Config; Saver may
// be nil if persistence is disabled.
type Options struct {
	Host        string
	Port        int
	MaxClients  int
	ReadTimeout time.Duration
	Saver       *persistence.Saver
}

// Server owns the listener, the shared keyspace/pubsub/registry, and the
// set of live connections.
type Server struct {
	opts     Options
	keyspace *store.Keyspace
	pubsub   *store.PubSub
	registry *command.Registry

	listener net.Listener

	mu          sync.Mutex
	conns       map[net.Conn]struct{}
	activeCount int

	shutdown chan struct{}
	wg       sync.WaitGroup
}

// New builds a Server sharing the given keyspace and pub/sub hub — the
// caller owns their lifetime (e.g. loading a snapshot into the keyspace
// before the first Accept).
func New(opts Options, ks *store.Keyspace, ps *store.PubSub) *Server {
	return &Server{
		opts:     opts,
		keyspace: ks,
		pubsub:   ps,
		registry: command.Default(),
		conns:    make(map[net.Conn]struct{}),
		shutdown: make(chan struct{}),
	}
}

// Addr returns the listener's bound address, valid only after ListenAndServe
// has started (e.g. Port 0 resolving to an OS-assigned port in tests).
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// ListenAndServe binds the listener and accepts connections until Shutdown
// is called. It blocks until the listener closes.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf("%s:%d", s.opts.Host, s.opts.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("server: listen: %w", err)
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()
	log.Printf("redgo listening on %s", addr)

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-s.shutdown:
				return nil
			default:
				log.Printf("server: accept error: %v", err)
				continue
			}
		}

		s.mu.Lock()
		if s.opts.MaxClients > 0 && s.activeCount >= s.opts.MaxClients {
			s.mu.Unlock()
			conn.Close()
			continue
		}
		s.conns[conn] = struct{}{}
		s.activeCount++
		s.mu.Unlock()

		s.wg.Add(1)
		go s.handleConnection(conn)
	}
}

// Shutdown stops accepting new connections, closes every live connection,
// waits for their goroutines to exit, and performs a final snapshot save
// if persistence is configured.
func (s *Server) Shutdown() {
	close(s.shutdown)
	if s.listener != nil {
		s.listener.Close()
	}

	s.mu.Lock()
	for conn := range s.conns {
		conn.Close()
	}
	s.mu.Unlock()

	s.wg.Wait()

	if s.opts.Saver != nil {
		if err := s.opts.Saver.SaveNow(); err != nil {
			log.Printf("server: final save failed: %v", err)
		}
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer s.wg.Done()
	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.activeCount--
		s.mu.Unlock()
		conn.Close()
	}()

	writer := bufio.NewWriterSize(conn, readChunkSize)
	parser := protocol.NewParser()
	client := store.NewSubscriber()

	ctx := &command.Context{
		Keyspace: s.keyspace,
		PubSub:   s.pubsub,
		Client:   client,
		Send: func(r protocol.Reply) error {
			if err := protocol.Encode(writer, r); err != nil {
				return err
			}
			return nil
		},
	}
	pumpStop := make(chan struct{})
	pumpDone := make(chan struct{})
	go s.pumpMessages(conn, client, pumpStop, pumpDone)
	defer func() {
		s.pubsub.UnsubscribeAll(client)
		close(pumpStop)
		<-pumpDone
	}()

	buf := make([]byte, readChunkSize)
	for {
		if s.opts.ReadTimeout > 0 {
			conn.SetReadDeadline(time.Now().Add(s.opts.ReadTimeout))
		}

		n, err := conn.Read(buf)
		if n > 0 {
			parser.Feed(buf[:n])

			for {
				args, ok, perr := parser.TryTake()
				if perr != nil {
					protocol.EncodeNoFlush(writer, protocol.Err{Message: "ERR Protocol error: " + perr.Error()})
					writer.Flush()
					return
				}
				if !ok {
					break
				}
				if len(args) == 0 {
					continue
				}

				if shouldClose := s.dispatch(ctx, writer, args); shouldClose {
					writer.Flush()
					return
				}
			}

			if err := writer.Flush(); err != nil {
				return
			}
		}
		if err != nil {
			return
		}
	}
}

// dispatch runs one command and writes its reply, returning true if the
// connection should close afterward (QUIT).
func (s *Server) dispatch(ctx *command.Context, writer *bufio.Writer, args []string) (shouldClose bool) {
	name := args[0]
	ctx.InSubscribeMode = ctx.Client.SubscriptionCount() > 0

	if ctx.InSubscribeMode && !command.AllowedWhileSubscribed(name) {
		protocol.EncodeNoFlush(writer, protocol.Err{
			Message: "ERR only (P)SUBSCRIBE / (P)UNSUBSCRIBE / PING / QUIT / RESET allowed in this context",
		})
		return false
	}

	reply := s.registry.Dispatch(ctx, args)
	if reply != nil {
		protocol.EncodeNoFlush(writer, reply)
	}

	return strings.EqualFold(name, "QUIT")
}

// pumpMessages writes delivered pub/sub messages directly to the raw
// connection, independent of the command reply writer, so a message can
// arrive and be flushed while the read loop is blocked waiting on the next
// command.
func (s *Server) pumpMessages(conn net.Conn, sub *store.Subscriber, stop, done chan struct{}) {
	defer close(done)
	for {
		var msg store.Message
		select {
		case msg = <-sub.Deliver:
		case <-stop:
			return
		}

		var reply protocol.Reply
		if msg.Pattern != "" {
			reply = protocol.NewArray(
				protocol.NewBulkString("pmessage"),
				protocol.NewBulkString(msg.Pattern),
				protocol.NewBulkString(msg.Channel),
				protocol.NewBulkString(msg.Payload),
			)
		} else {
			reply = protocol.NewArray(
				protocol.NewBulkString("message"),
				protocol.NewBulkString(msg.Channel),
				protocol.NewBulkString(msg.Payload),
			)
		}

		// Encode to a scratch buffer first so the write to conn happens in
		// one Write call, same as the command reply writer's flush — two
		// goroutines sharing the same conn stay byte-interleaving-safe only
		// if neither ever writes a partial frame.
		var scratch bytes.Buffer
		bw := bufio.NewWriter(&scratch)
		if err := protocol.Encode(bw, reply); err != nil {
			return
		}
		if _, err := conn.Write(scratch.Bytes()); err != nil {
			return
		}
	}
}
