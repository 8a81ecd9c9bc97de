package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/barbererp/backend/internal/domain/booking"
	"github.com/barbererp/backend/internal/middleware"
)

func bookingTestContext(clientID string) *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(middleware.ContextUserID, clientID)
	return c
}

func TestBookingDraftsArePerClient(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewBookingHandler(nil, nil)

	var d1, d2 *booking.Draft
	h.withDraft(bookingTestContext("client-1"), func(d *booking.Draft) { d1 = d })
	h.withDraft(bookingTestContext("client-2"), func(d *booking.Draft) { d2 = d })
	assert.NotSame(t, d1, d2)

	// o mesmo cliente reencontra o próprio rascunho
	h.withDraft(bookingTestContext("client-1"), func(d *booking.Draft) {
		assert.Same(t, d1, d)
	})
}

func TestBookingSessionLockDoesNotBlockOtherClients(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewBookingHandler(nil, nil)

	entered := make(chan struct{})
	release := make(chan struct{})
	firstDone := make(chan struct{})
	go func() {
		defer close(firstDone)
		h.withDraft(bookingTestContext("client-1"), func(d *booking.Draft) {
			close(entered)
			<-release
		})
	}()

	// client-1 segura a própria sessão no meio de uma gravação
	<-entered

	secondDone := make(chan struct{})
	go func() {
		defer close(secondDone)
		h.withDraft(bookingTestContext("client-2"), func(d *booking.Draft) {})
	}()

	select {
	case <-secondDone:
	case <-time.After(2 * time.Second):
		t.Fatal("sessão de outro cliente ficou presa atrás de uma gravação longa")
	}

	close(release)
	<-firstDone
}
