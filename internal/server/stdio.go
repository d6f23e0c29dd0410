package server

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// maxMessageSize bounds a single newline-delimited message.
const maxMessageSize = 4 << 20

// ServeStdio reads newline-delimited JSON-RPC messages from in and writes one
// response line per request to out. It returns nil when in reaches EOF or ctx
// is cancelled. Messages are handled one at a time, in order.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	lines := make(chan []byte)
	readErr := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 64*1024), maxMessageSize)
		for scanner.Scan() {
			line := append([]byte(nil), scanner.Bytes()...)
			if len(line) == 0 {
				continue
			}
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	s.log.Info("stdio transport started, waiting for client")
	w := bufio.NewWriter(out)

	for {
		select {
		case <-ctx.Done():
			s.log.Info("stdio transport stopped")
			return nil
		case line, ok := <-lines:
			if !ok {
				var err error
				select {
				case err = <-readErr:
				default:
				}
				if err != nil {
					return fmt.Errorf("reading stdin: %w", err)
				}
				s.log.Info("stdin closed, stopping")
				return nil
			}

			resp := s.Handle(ctx, line)
			if resp == nil {
				continue
			}
			if _, err := w.Write(append(resp, '\n')); err != nil {
				return fmt.Errorf("writing response: %w", err)
			}
			if err := w.Flush(); err != nil {
				return fmt.Errorf("writing response: %w", err)
			}
			s.log.Debug("wrote response", zap.Int("bytes", len(resp)))
		}
	}
}
