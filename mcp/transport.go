package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Terrib1e/awt-chat-mcp-server/jsonrpc"
)

// HandlerFunc processes one JSON-RPC request.
type HandlerFunc func(jsonrpc.Request) jsonrpc.Response

// Transport handles line-delimited JSON-RPC over a reader/writer pair,
// usually stdin and stdout.
type Transport struct {
	scanner *bufio.Scanner
	writer  *json.Encoder
	bufOut  *bufio.Writer
	errOut  io.Writer
}

// NewStdioTransport creates a transport reading requests from in and writing
// responses to out. Diagnostics go to errOut.
func NewStdioTransport(in io.Reader, out io.Writer, errOut io.Writer) *Transport {
	scanner := bufio.NewScanner(in)
	// Set a reasonable max size for each line
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	bufOut := bufio.NewWriter(out)
	return &Transport{
		scanner: scanner,
		writer:  json.NewEncoder(bufOut),
		bufOut:  bufOut,
		errOut:  errOut,
	}
}

// Run reads requests line by line until the input is exhausted or the
// context is cancelled. Notifications (requests without an id) get no
// response line.
func (t *Transport) Run(ctx context.Context, handle HandlerFunc) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			if !t.scanner.Scan() {
				if err := t.scanner.Err(); err != nil {
					return fmt.Errorf("scanner error: %v", err)
				}
				return nil
			}

			line := t.scanner.Text()
			if line == "" {
				continue
			}

			var request jsonrpc.Request
			if err := json.Unmarshal([]byte(line), &request); err != nil {
				t.send(jsonrpc.NewResponse(nil, nil, jsonrpc.NewError(jsonrpc.ErrParse, err)))
				continue
			}

			response := handle(request)
			if request.Id == nil {
				continue
			}
			t.send(response)
		}
	}
}

func (t *Transport) send(response jsonrpc.Response) {
	if err := t.writer.Encode(response); err != nil {
		fmt.Fprintf(t.errOut, "Error encoding response: %v\n", err)
	}
	t.bufOut.Flush()
}
