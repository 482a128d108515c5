package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"voxelcraft.ai/barrierview/internal/barrierview/command"
	"voxelcraft.ai/barrierview/internal/barrierview/display"
	"voxelcraft.ai/barrierview/internal/barrierview/host"
	"voxelcraft.ai/barrierview/internal/protocol"
	"voxelcraft.ai/barrierview/internal/sim/catalogs"
	"voxelcraft.ai/barrierview/internal/sim/multiworld"
	"voxelcraft.ai/barrierview/internal/sim/world"
)

const (
	defaultQueue = 1024
	maxQueue     = 4096
)

type Server struct {
	worlds   *multiworld.Manager
	display  *display.Scheduler
	commands *command.Handler
	params   protocol.WorldParams
	log      *log.Logger

	upgrader websocket.Upgrader
}

func NewServer(m *multiworld.Manager, d *display.Scheduler, params protocol.WorldParams, logger *log.Logger) *Server {
	s := &Server{
		worlds:   m,
		display:  d,
		commands: command.NewHandler(d),
		params:   params,
		log:      logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
	return s
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		w, v := s.handshake(conn)
		if v == nil {
			return
		}
		connectedViewers.Inc()
		defer connectedViewers.Dec()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Writer goroutine.
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case b := <-v.Out():
					_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						cancel()
						return
					}
				}
			}
		}()

		// Reader loop.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				cancel()
				break
			}
			s.handleMessage(w, v, msg)
		}

		// Cleanup: the viewer's preferences go with the session.
		w.Leave(v.ID())
		s.display.Prefs().Remove(v.ID())
		if s.log != nil {
			s.log.Printf("viewer %s left %s (dropped %d frames)", v.ID(), w.ID(), v.Dropped())
		}
	}
}

func (s *Server) handleMessage(w *world.World, v *world.Viewer, msg []byte) {
	base, err := protocol.ValidateInbound(msg)
	if err != nil {
		rejectedMessages.WithLabelValues("invalid").Inc()
		if base.Type == protocol.TypeCmd {
			s.reply(v, protocol.CmdResultMsg{Code: protocol.ErrProtoBadRequest, Lines: []string{err.Error()}})
		}
		return
	}
	if base.ProtocolVersion != protocol.Version {
		rejectedMessages.WithLabelValues("version").Inc()
		return
	}

	switch base.Type {
	case protocol.TypePos:
		var pos protocol.PosMsg
		if err := json.Unmarshal(msg, &pos); err != nil {
			return
		}
		p := host.Vec3{X: pos.Pos[0], Y: pos.Pos[1], Z: pos.Pos[2]}
		switch err := w.MoveViewer(v.ID(), p); {
		case err == nil, errors.Is(err, world.ErrBusy):
		case errors.Is(err, world.ErrOutOfBounds):
			rejectedMessages.WithLabelValues("out_of_bounds").Inc()
		case s.log != nil:
			s.log.Printf("move viewer %s: %v", v.ID(), err)
		}
	case protocol.TypeCmd:
		var cmd protocol.CmdMsg
		if err := json.Unmarshal(msg, &cmd); err != nil {
			return
		}
		res := s.commands.Handle(v, w, cmd.Name, cmd.Args)
		s.reply(v, protocol.CmdResultMsg{
			ID:      cmd.ID,
			Name:    cmd.Name,
			OK:      res.OK,
			Code:    res.Code,
			Lines:   res.Lines,
			Enabled: res.Enabled,
			Mode:    res.Mode.String(),
			Color:   res.Color,
		})
	default:
		rejectedMessages.WithLabelValues("type").Inc()
	}
}

func (s *Server) reply(v *world.Viewer, res protocol.CmdResultMsg) {
	res.Type = protocol.TypeCmdResult
	res.ProtocolVersion = protocol.Version
	b, err := json.Marshal(res)
	if err != nil {
		return
	}
	if !v.Send(b) {
		droppedSends.WithLabelValues(protocol.TypeCmdResult).Inc()
	}
}

func (s *Server) handshake(conn *websocket.Conn) (*world.World, *world.Viewer) {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return nil, nil
	}

	base, err := protocol.ValidateInbound(msg)
	if err != nil || base.Type != protocol.TypeHello {
		closeWith(conn, "expected HELLO")
		return nil, nil
	}

	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		return nil, nil
	}
	if hello.ProtocolVersion != protocol.Version {
		closeWith(conn, "bad protocol_version")
		return nil, nil
	}
	if hello.ViewerName == "" {
		hello.ViewerName = "viewer"
	}

	w, err := s.worlds.Pick(hello.WorldPreference)
	if err != nil {
		closeWith(conn, protocol.ErrWorldNotFound)
		return nil, nil
	}

	q := hello.Capabilities.MaxQueue
	if q <= 0 {
		q = defaultQueue
	}
	if q > maxQueue {
		q = maxQueue
	}
	v := w.Join(hello.ViewerName, make(chan []byte, q))

	// Send welcome immediately.
	params := s.params
	params.Seed = w.Config().Seed
	welcome := protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		ViewerID:        v.ID().String(),
		WorldID:         w.ID(),
		WorldParams:     params,
		WorldManifest:   s.worlds.WorldIDs(),
		Commands:        command.Names(),
		Catalogs:        catalogDigests(w.Catalogs()),
	}
	if err := writeJSON(conn, welcome); err != nil {
		w.Leave(v.ID())
		return nil, nil
	}
	if s.log != nil {
		s.log.Printf("viewer %s (%s) joined %s", v.ID(), v.Name(), w.ID())
	}
	return w, v
}

func closeWith(conn *websocket.Conn, reason string) {
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason), time.Now().Add(time.Second))
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, b)
}

func catalogDigests(c *catalogs.Catalogs) protocol.CatalogDigests {
	return protocol.CatalogDigests{
		BlockPalette: protocol.DigestRef{Digest: c.Blocks.PaletteDigest, Count: len(c.Blocks.Palette)},
		BlockDefs:    protocol.DigestRef{Digest: c.Blocks.DefsDigest, Count: len(c.Blocks.Defs)},
	}
}
