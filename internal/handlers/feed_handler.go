package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	domain "github.com/barbererp/backend/internal/domain/appointment"
	"github.com/barbererp/backend/internal/feed"
	"github.com/barbererp/backend/internal/httperr"
	"github.com/barbererp/backend/internal/middleware"
	"github.com/barbererp/backend/internal/models"
	"github.com/barbererp/backend/internal/realtime"
)

var feedUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const feedWriteWait = 10 * time.Second

// ======================================================
// HANDLER
// ======================================================

type FeedHandler struct {
	repo domain.Repository
	bus  *realtime.Bus
}

func NewFeedHandler(repo domain.Repository, bus *realtime.Bus) *FeedHandler {
	return &FeedHandler{repo: repo, bus: bus}
}

// ======================================================
// PENDING (carga inicial)
// ======================================================

func (h *FeedHandler) ListPending(c *gin.Context) {
	clientID := c.MustGet(middleware.ContextUserID).(string)

	appointments, err := h.repo.ListPendingForClient(c.Request.Context(), clientID)
	if err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Erro ao listar agendamentos.")
		return
	}

	c.JSON(200, appointments)
}

// ======================================================
// STREAM
// ======================================================

type feedMessage struct {
	Type         string               `json:"type"`
	Appointments []models.Appointment `json:"appointments,omitempty"`
	Appointment  *models.Appointment  `json:"appointment,omitempty"`
}

// Stream mantém a lista de pendentes do cliente viva por
// websocket: snapshot inicial e um novo snapshot a cada evento da
// assinatura. Pagamento confirmado em outra tela gera uma
// notificação antes da remoção.
func (h *FeedHandler) Stream(c *gin.Context) {
	clientID := c.MustGet(middleware.ContextUserID).(string)

	conn, err := feedUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx := c.Request.Context()

	initial, err := h.repo.ListPendingForClient(ctx, clientID)
	if err != nil {
		log.Println("feed: initial load:", err)
		return
	}

	f := feed.New(initial)

	sub := h.bus.Subscribe(ctx, "appointments", clientID)
	defer sub.Close()

	// o cliente não envia nada; o reader só detecta o close
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if !writeFeed(conn, feedMessage{Type: "snapshot", Appointments: f.Items()}) {
		return
	}

	for {
		select {
		case <-closed:
			return
		case <-ctx.Done():
			return
		case ev, ok := <-sub.Events():
			if !ok {
				return
			}

			removedPaid := f.Apply(toFeedEvent(ev))

			if removedPaid != nil {
				if !writeFeed(conn, feedMessage{Type: "payment_confirmed", Appointment: removedPaid}) {
					return
				}
			}
			if !writeFeed(conn, feedMessage{Type: "snapshot", Appointments: f.Items()}) {
				return
			}
		}
	}
}

func writeFeed(conn *websocket.Conn, msg feedMessage) bool {
	_ = conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
	if err := conn.WriteJSON(msg); err != nil {
		return false
	}
	return true
}

// toFeedEvent traduz o evento do canal para o evento do feed.
func toFeedEvent(ev realtime.Event) feed.Event {
	out := feed.Event{Kind: feed.EventKind(ev.Kind)}

	switch ev.Kind {
	case realtime.KindDelete:
		var old models.Appointment
		if err := json.Unmarshal(ev.Old, &old); err == nil {
			out.OldID = old.ID
		}
	default:
		var row models.Appointment
		if err := json.Unmarshal(ev.New, &row); err == nil {
			out.New = &row
		}
	}

	return out
}
