package ws

import (
	"encoding/json"

	"voxelcraft.ai/barrierview/internal/barrierview/host"
	"voxelcraft.ai/barrierview/internal/barrierview/render"
	"voxelcraft.ai/barrierview/internal/protocol"
)

// sender is implemented by viewers that can queue outbound frames.
type sender interface {
	Send(b []byte) bool
}

// Sink encodes render primitives as DRAW and CLEAR messages and queues them
// on the viewer without blocking.
type Sink struct{}

func NewSink() *Sink { return &Sink{} }

func (s *Sink) Draw(v host.Viewer, p render.Primitive) {
	s.send(v, protocol.TypeDraw, protocol.DrawMsg{
		Type:            protocol.TypeDraw,
		ProtocolVersion: protocol.Version,
		Shape:           string(p.Shape),
		Center:          p.Center,
		Scale:           p.Scale,
		Color:           p.Color,
		LineWidth:       p.LineWidth,
		Persist:         p.Persist,
	})
}

func (s *Sink) Clear(v host.Viewer) {
	s.send(v, protocol.TypeClear, protocol.ClearMsg{
		Type:            protocol.TypeClear,
		ProtocolVersion: protocol.Version,
	})
}

func (s *Sink) send(v host.Viewer, typ string, msg any) {
	out, ok := v.(sender)
	if !ok {
		return
	}
	b, err := json.Marshal(msg)
	if err != nil {
		return
	}
	if !out.Send(b) {
		droppedSends.WithLabelValues(typ).Inc()
	}
}
