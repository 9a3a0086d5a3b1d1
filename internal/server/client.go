package server

import (
	"net/http"
	"time"

	"undercroft-server/pkg/api"
	"undercroft-server/pkg/logger"
	"undercroft-server/pkg/utils"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Настройки WebSocket
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client - посредник между Websocket зрителя и Broadcaster.
// Зритель только смотрит: единственная команда - смена режима просмотра.
type Client struct {
	ID     string
	Server *Server
	Conn   *websocket.Conn
	Send   <-chan api.ServerResponse
}

func NewClient(s *Server, conn *websocket.Conn) *Client {
	id := utils.NewSessionID("spectator")
	c := &Client{
		ID:     id,
		Server: s,
		Conn:   conn,
		Send:   s.Hub.Register(id, api.ViewFull),
	}

	// Первое сообщение - текущее состояние, не дожидаясь хода
	s.Hub.SendTo(id, BuildResponse(s.Instance.Snapshot(), api.ViewFull, api.TypeHello))

	logger.Log.WithFields(logrus.Fields{
		"session":     id,
		"subscribers": s.Hub.SubscriberCount(),
	}).Info("Spectator connected")
	return c
}

// readPump читает команды зрителя
func (c *Client) readPump() {
	defer func() {
		// Закрывает Send, writePump завершится сам
		c.Server.Hub.Unregister(c.ID)
		if err := c.Conn.Close(); err != nil {
			logger.Log.WithError(err).Debug("failed to close websocket connection")
		}
		logger.Log.WithField("session", c.ID).Info("Spectator disconnected")
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logger.Log.WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			logger.Log.WithError(err).Warn("failed to set pong read deadline")
		}
		return nil
	})

	for {
		var cmd api.ClientCommand
		if err := c.Conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.WithError(err).Error("WS Error")
			}
			return
		}
		c.handleCommand(cmd)
	}
}

func (c *Client) handleCommand(cmd api.ClientCommand) {
	if cmd.Action != api.ActionView {
		c.sendError("unknown action: " + cmd.Action)
		return
	}

	payload, err := api.DecodePayload[api.ViewPayload](cmd)
	if err != nil {
		c.sendError(err.Error())
		return
	}

	c.Server.Hub.SetMode(c.ID, payload.Mode)
	// Сразу показываем текущее состояние в новом режиме
	c.Server.Hub.SendTo(c.ID, BuildResponse(c.Server.Instance.Snapshot(), payload.Mode, api.TypeUpdate))
}

func (c *Client) sendError(text string) {
	logger.Log.WithFields(logrus.Fields{"session": c.ID, "error": text}).Debug("Bad spectator command")
	c.Server.Hub.SendTo(c.ID, api.ServerResponse{Type: api.TypeError, Error: text})
}

// writePump отправляет данные клиенту + Ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.Conn.Close(); err != nil {
			logger.Log.WithError(err).Debug("failed to close websocket connection in writePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					logger.Log.WithError(err).Debug("write close message failed")
				}
				return
			}
			if err := c.Conn.WriteJSON(message); err != nil {
				logger.Log.WithError(err).Debug("write json message failed")
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}
