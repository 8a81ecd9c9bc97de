package handlers

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/barbererp/backend/internal/realtime"
)

// fakeEventSource entrega assinaturas controladas pelo teste, uma
// por tabela.
type fakeEventSource struct {
	mu    sync.Mutex
	chans map[string]chan realtime.Event
}

func newFakeEventSource() *fakeEventSource {
	return &fakeEventSource{chans: make(map[string]chan realtime.Event)}
}

func (f *fakeEventSource) Subscribe(ctx context.Context, table, clientID string) *realtime.Subscription {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch := make(chan realtime.Event, 1)
	f.chans[table] = ch
	return realtime.NewSubscription(ch)
}

func (f *fakeEventSource) tables() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]string, 0, len(f.chans))
	for table := range f.chans {
		out = append(out, table)
	}
	return out
}

func (f *fakeEventSource) emit(table string, ev realtime.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chans[table] <- ev
}

func expectStatsQueries(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(`SELECT count\(\*\) FROM "appointments"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "appointments"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(total\), 0\) FROM "sales"`).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(150.0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "products"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
}

func TestDashboardStreamRefreshesOnWatchedTables(t *testing.T) {
	gin.SetMode(gin.TestMode)

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn: sqlDB,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	// carga inicial + um refresh por evento emitido
	expectStatsQueries(mock)
	expectStatsQueries(mock)
	expectStatsQueries(mock)

	src := newFakeEventSource()
	h := NewDashboardHandler(gdb, src)

	r := gin.New()
	r.GET("/dashboard/stream", h.Stream)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/dashboard/stream"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })

	var snapshot dashboardStats
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&snapshot))
	assert.Equal(t, int64(3), snapshot.AppointmentsToday)
	assert.Equal(t, 150.0, snapshot.RevenueToday)

	// o painel observa vendas, clientes e agendamentos
	assert.ElementsMatch(t, []string{"sales", "clients", "appointments"}, src.tables())

	src.emit("appointments", realtime.Event{Table: "appointments", Kind: realtime.KindInsert})
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&snapshot))

	src.emit("clients", realtime.Event{Table: "clients", Kind: realtime.KindUpdate})
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&snapshot))
}
