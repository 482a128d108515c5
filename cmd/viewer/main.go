package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"voxelcraft.ai/barrierview/internal/protocol"
)

func main() {
	var (
		url     = flag.String("url", "ws://localhost:8080/v1/ws", "ws url")
		name    = flag.String("name", "viewer", "viewer name")
		worldID = flag.String("world", "", "preferred world id (default: server default)")
		posFlag = flag.String("pos", "8,68,8", "viewer position x,y,z")
		mode    = flag.Bool("individual", false, "switch to the per-cell wireframe after enabling")
		col     = flag.String("color", "", "outline colour preset or #hex")
		every   = flag.Duration("report", 5*time.Second, "how often to log received shapes")
		dump    = flag.String("dump", "", "print the tick log under this data directory and exit")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[viewer] ", log.LstdFlags|log.Lmicroseconds)

	if *dump != "" {
		if err := dumpTicks(os.Stdout, *dump); err != nil {
			logger.Fatalf("dump: %v", err)
		}
		return
	}

	pos, err := parsePos(*posFlag)
	if err != nil {
		logger.Fatalf("pos: %v", err)
	}

	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		logger.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	hello := protocol.HelloMsg{
		Type:            protocol.TypeHello,
		ProtocolVersion: protocol.Version,
		ViewerName:      *name,
		WorldPreference: *worldID,
		Capabilities:    protocol.HelloCapabilities{MaxQueue: 4096},
	}
	if err := conn.WriteJSON(hello); err != nil {
		logger.Fatalf("send HELLO: %v", err)
	}

	frames := make(chan []byte, 256)
	go func() {
		defer close(frames)
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			frames <- msg
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	report := time.NewTicker(*every)
	defer report.Stop()

	var t tally
	for {
		select {
		case <-stop:
			return
		case <-report.C:
			logger.Print(t.String())
			t.reset()
		case msg, ok := <-frames:
			if !ok {
				logger.Printf("connection closed")
				return
			}
			base, err := protocol.DecodeBase(msg)
			if err != nil {
				continue
			}
			switch base.Type {
			case protocol.TypeWelcome:
				var w protocol.WelcomeMsg
				if err := json.Unmarshal(msg, &w); err != nil {
					continue
				}
				logger.Printf("WELCOME viewer_id=%s world=%s chunk=%d marker=%s tick=%dms blocks=%d palette=%.12s", w.ViewerID, w.WorldID, w.WorldParams.ChunkSize, w.WorldParams.Marker, w.WorldParams.TickIntervalMs, w.Catalogs.BlockPalette.Count, w.Catalogs.BlockPalette.Digest)
				for _, m := range setup(pos, *mode, *col) {
					if err := conn.WriteJSON(m); err != nil {
						logger.Fatalf("send: %v", err)
					}
				}
			case protocol.TypeCmdResult:
				var r protocol.CmdResultMsg
				if err := json.Unmarshal(msg, &r); err != nil {
					continue
				}
				for _, line := range r.Lines {
					logger.Print(line)
				}
				if !r.OK {
					logger.Printf("%s failed: %s", r.Name, r.Code)
				}
			case protocol.TypeDraw:
				var d protocol.DrawMsg
				if err := json.Unmarshal(msg, &d); err != nil {
					continue
				}
				t.draw(d)
			case protocol.TypeClear:
				t.clear()
			}
		}
	}
}

// setup is what the viewer sends once welcomed: its position, the toggle and
// any requested mode or colour.
func setup(pos [3]float64, individual bool, col string) []any {
	cmd := func(id, name string, args ...string) protocol.CmdMsg {
		return protocol.CmdMsg{Type: protocol.TypeCmd, ProtocolVersion: protocol.Version, ID: id, Name: name, Args: args}
	}
	out := []any{
		protocol.PosMsg{Type: protocol.TypePos, ProtocolVersion: protocol.Version, Pos: pos},
		cmd("C_show", "showbarrier"),
	}
	if individual {
		out = append(out, cmd("C_mode", "barriermode"))
	}
	if c := strings.TrimSpace(col); c != "" {
		out = append(out, cmd("C_color", "barriercolor", c))
	}
	return out
}

func parsePos(s string) ([3]float64, error) {
	var out [3]float64
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return out, fmt.Errorf("want x,y,z, got %q", s)
	}
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return out, fmt.Errorf("axis %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// tally counts shapes received since the last report.
type tally struct {
	draws  int
	clears int
	axes   [3]int
}

func (t *tally) draw(d protocol.DrawMsg) {
	t.draws++
	for i, s := range d.Scale {
		if s == 1 {
			t.axes[i]++
		}
	}
}

func (t *tally) clear() { t.clears++ }

func (t *tally) reset() { *t = tally{} }

func (t tally) String() string {
	return fmt.Sprintf("draws=%d (x=%d y=%d z=%d) clears=%d", t.draws, t.axes[0], t.axes[1], t.axes[2], t.clears)
}
