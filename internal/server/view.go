package server

import (
	"undercroft-server/internal/engine"
	"undercroft-server/pkg/api"
)

// BuildResponse превращает снимок симуляции в сообщение для зрителя.
// В режиме EXPLORED видны только исследованные клетки и акторы на них.
func BuildResponse(snap engine.Snapshot, mode, msgType string) api.ServerResponse {
	rows := snap.Map
	if mode == api.ViewExplored {
		rows = snap.Explored
	}

	resp := api.ServerResponse{
		Type:  msgType,
		Tick:  snap.Tick,
		Depth: snap.Depth,
		Seed:  snap.Seed,
		Grid:  &api.GridMeta{Width: snap.Width, Height: snap.Height},
		Map:   rows,
		Logs:  snap.Logs,
	}

	for _, e := range snap.Entities {
		if mode == api.ViewExplored && !explored(snap.Explored, e.Pos.X, e.Pos.Y) {
			continue
		}
		view := api.EntityView{
			ID:     e.ID.String(),
			Kind:   e.Kind.String(),
			Name:   e.Name,
			Symbol: string([]byte{e.Symbol}),
			Speed:  e.Speed(),
		}
		view.Pos.X = e.Pos.X
		view.Pos.Y = e.Pos.Y
		resp.Entities = append(resp.Entities, view)
	}
	return resp
}

func explored(rows []string, x, y int) bool {
	if y < 0 || y >= len(rows) || x < 0 || x >= len(rows[y]) {
		return false
	}
	return rows[y][x] != ' '
}
