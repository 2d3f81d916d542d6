package daemon

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/anchorhq/anchord/internal/anchorerr"
)

// dialTimeout bounds how long a client waits to connect to the daemon's
// socket; once connected, request handling itself has no timeout (spec.md
// §5: "an in-flight request always completes").
const dialTimeout = 2 * time.Second

// SendRequest opens one connection to root's daemon socket, writes req as a
// single newline-terminated JSON line, and reads back the one-line JSON
// response (spec.md §6).
func SendRequest(root string, req Request) (Response, error) {
	conn, err := net.DialTimeout("unix", SocketPath(root), dialTimeout)
	if err != nil {
		return Response{}, anchorerr.New(anchorerr.IO, SocketPath(root), err)
	}
	defer conn.Close()

	data, err := json.Marshal(req)
	if err != nil {
		return Response{}, anchorerr.New(anchorerr.Serialize, "", err)
	}
	data = append(data, '\n')
	if _, err := conn.Write(data); err != nil {
		return Response{}, anchorerr.New(anchorerr.IO, "", err)
	}

	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return Response{}, anchorerr.New(anchorerr.IO, "", err)
	}

	var resp Response
	if err := json.Unmarshal([]byte(line), &resp); err != nil {
		return Response{}, anchorerr.New(anchorerr.Deserialize, "", err)
	}
	return resp, nil
}

// Describe renders a Response as a short human-readable line for CLI
// display, matching the daemon protocol's status discriminator.
func Describe(resp Response) string {
	switch resp.Status {
	case "ok":
		data, err := json.MarshalIndent(resp.Data, "", "  ")
		if err != nil {
			return fmt.Sprintf("ok (unprintable: %v)", err)
		}
		return string(data)
	case "error":
		return "error: " + resp.Message
	case "pong":
		return "pong"
	case "goodbye":
		return "goodbye"
	default:
		return fmt.Sprintf("unknown response status %q", resp.Status)
	}
}
