package livehub_test

import (
	"testing"
	"time"

	"pontotaxi/backend/internal/livehub"
	"pontotaxi/backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestManager_RegisterUnregister(t *testing.T) {
	hub := livehub.NewManager(nil, nil)
	client := newMockClient("sess_1", "user_A")

	go hub.Run()

	hub.RegisterCh <- client
	time.Sleep(100 * time.Millisecond)
	assert.Contains(t, hub.Clients, "sess_1")

	hub.UnregisterCh <- client
	time.Sleep(100 * time.Millisecond)
	assert.NotContains(t, hub.Clients, "sess_1")
	assert.True(t, client.closed)
}

func TestManager_Broadcast(t *testing.T) {
	hub := livehub.NewManager(nil, nil)
	clientA := newMockClient("sess_a", "user_A")
	clientB := newMockClient("sess_b", "user_B")

	go hub.Run()

	hub.RegisterCh <- clientA
	hub.RegisterCh <- clientB
	time.Sleep(100 * time.Millisecond)

	ev := models.Event{Kind: models.EventMessageCreated, Collection: "reclamacoes", Protocol: "REC-00001-2026"}
	hub.BroadcastCh <- ev
	time.Sleep(100 * time.Millisecond)

	for _, client := range []*MockClient{clientA, clientB} {
		select {
		case got := <-client.RecvChannel:
			assert.Equal(t, "REC-00001-2026", got.Protocol)
			assert.Equal(t, models.EventMessageCreated, got.Kind)
		default:
			t.Errorf("session %s did not receive the event", client.GetSessionID())
		}
	}
}

// TestManager_DropsSlowSession verifies a session that never drains its
// channel is removed instead of stalling the broadcast loop.
func TestManager_DropsSlowSession(t *testing.T) {
	hub := livehub.NewManager(nil, nil)
	slow := newSlowClient("sess_slow", "user_S")
	healthy := newMockClient("sess_ok", "user_H")

	go hub.Run()

	hub.RegisterCh <- slow
	hub.RegisterCh <- healthy
	time.Sleep(100 * time.Millisecond)

	hub.BroadcastCh <- models.Event{Kind: models.EventSurveySubmitted}
	time.Sleep(100 * time.Millisecond)

	assert.NotContains(t, hub.Clients, "sess_slow")
	assert.True(t, slow.closed)
	assert.Contains(t, hub.Clients, "sess_ok")

	select {
	case got := <-healthy.RecvChannel:
		assert.Equal(t, models.EventSurveySubmitted, got.Kind)
	default:
		t.Error("healthy session did not receive the event")
	}
}
