package messages_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"pontotaxi/backend/internal/messages"
	"pontotaxi/backend/internal/models"
	"pontotaxi/backend/internal/protocol"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// TestSubmit_Complaint covers the main public flow: a complaint lands in the
// reclamacoes collection, pending, with a REC protocol and one creation entry.
func TestSubmit_Complaint(t *testing.T) {
	// Arrange
	storeMock := new(MockStore)
	svc := messages.NewService(storeMock, nil, nil)

	storeMock.On("NextProtocolSeq", models.TypeComplaint, time.Now().Year()).Return(int64(1), nil)
	storeMock.On("CreateMessage", mock.AnythingOfType("*models.Message"), mock.AnythingOfType("*models.HistoryEntry")).Return(nil)
	storeMock.On("PublishEvent", mock.AnythingOfType("models.Event")).Return(nil)

	// Act
	msg, err := svc.Submit(messages.SubmitInput{
		Type:          models.TypeComplaint,
		Name:          "Maria Silva",
		Email:         "maria@example.com",
		Phone:         "(11) 98765-4321",
		VehiclePrefix: "TX-1044",
		Subject:       "Atraso",
		Body:          "O carro atrasou 40 minutos.",
		Consent:       true,
	})

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, models.StatusPending, msg.Status)
	assert.Equal(t, models.TypeComplaint, msg.Type)
	assert.Regexp(t, `^REC-\d{5}-\d{4}$`, msg.Protocol)
	assert.Equal(t, protocol.Format(models.TypeComplaint, 1, time.Now().Year()), msg.Protocol)

	storeMock.AssertCalled(t, "CreateMessage",
		mock.MatchedBy(func(m *models.Message) bool { return m.Protocol == msg.Protocol }),
		mock.MatchedBy(func(e *models.HistoryEntry) bool {
			return e.Protocol == msg.Protocol &&
				e.Action == models.ActionCreated &&
				e.Actor == messages.SystemActor
		}))
	storeMock.AssertCalled(t, "PublishEvent", mock.MatchedBy(func(ev models.Event) bool {
		return ev.Kind == models.EventMessageCreated && ev.Collection == "reclamacoes"
	}))
}

// TestSubmit_UnknownTypeRoutesToInformation verifies the fallback collection
// for types the form does not declare.
func TestSubmit_UnknownTypeRoutesToInformation(t *testing.T) {
	storeMock := new(MockStore)
	svc := messages.NewService(storeMock, nil, nil)

	storeMock.On("NextProtocolSeq", models.TypeInformation, time.Now().Year()).Return(int64(3), nil)
	storeMock.On("CreateMessage", mock.Anything, mock.Anything).Return(nil)
	storeMock.On("PublishEvent", mock.Anything).Return(nil)

	msg, err := svc.Submit(messages.SubmitInput{Type: "outra-coisa", Name: "José", Body: "Olá", Consent: true})

	assert.NoError(t, err)
	assert.Equal(t, models.TypeInformation, msg.Type)
	assert.Regexp(t, `^INF-00003-\d{4}$`, msg.Protocol)
}

func TestSubmit_CounterErrorAborts(t *testing.T) {
	storeMock := new(MockStore)
	svc := messages.NewService(storeMock, nil, nil)

	storeMock.On("NextProtocolSeq", models.TypeComplaint, time.Now().Year()).
		Return(int64(0), errors.New("connection refused"))

	msg, err := svc.Submit(messages.SubmitInput{Type: models.TypeComplaint, Name: "Maria", Body: "x", Consent: true})

	assert.Error(t, err)
	assert.Nil(t, msg)
	storeMock.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything)
}

// TestSubmit_NotifiesAsync verifies the notifier hook fires without blocking
// the submission path.
func TestSubmit_NotifiesAsync(t *testing.T) {
	storeMock := new(MockStore)
	notifier := newMockNotifier()
	svc := messages.NewService(storeMock, notifier, nil)

	storeMock.On("NextProtocolSeq", models.TypePraise, time.Now().Year()).Return(int64(9), nil)
	storeMock.On("CreateMessage", mock.Anything, mock.Anything).Return(nil)
	storeMock.On("PublishEvent", mock.Anything).Return(nil)

	msg, err := svc.Submit(messages.SubmitInput{Type: models.TypePraise, Name: "Ana", Body: "Ótimo serviço", Consent: true})
	assert.NoError(t, err)

	select {
	case <-notifier.Done:
	case <-time.After(time.Second):
		t.Fatal("notifier was not called")
	}
	notified := notifier.Notified()
	assert.Len(t, notified, 1)
	assert.Equal(t, msg.Protocol, notified[0].Protocol)
}

// TestResolve_Twice verifies that re-resolving succeeds and appends a second
// history entry instead of failing or deduplicating.
func TestResolve_Twice(t *testing.T) {
	storeMock := new(MockStore)
	svc := messages.NewService(storeMock, nil, nil)

	storeMock.On("UpdateMessageStatus", models.TypeComplaint, "REC-00001-2026", models.StatusResolved,
		mock.AnythingOfType("*models.HistoryEntry")).Return(nil)
	storeMock.On("PublishEvent", mock.Anything).Return(nil)

	assert.NoError(t, svc.Resolve(models.TypeComplaint, "REC-00001-2026", "carlos", "resolvido por telefone"))
	assert.NoError(t, svc.Resolve(models.TypeComplaint, "REC-00001-2026", "carlos", "cliente confirmou"))

	storeMock.AssertNumberOfCalls(t, "UpdateMessageStatus", 2)
}

func TestArchive(t *testing.T) {
	storeMock := new(MockStore)
	svc := messages.NewService(storeMock, nil, nil)

	storeMock.On("ArchiveMessage", models.TypeQuestion, "DUV-00002-2026",
		mock.AnythingOfType("int64"), mock.MatchedBy(func(e *models.HistoryEntry) bool {
			return e.Action == models.ActionArchived && e.Actor == "carlos"
		})).Return(nil)
	storeMock.On("PublishEvent", mock.Anything).Return(nil)

	assert.NoError(t, svc.Archive(models.TypeQuestion, "DUV-00002-2026", "carlos"))
	storeMock.AssertExpectations(t)
}

// TestUnarchive verifies the restore returns the message with its pending
// status and cleared archival timestamp.
func TestUnarchive(t *testing.T) {
	storeMock := new(MockStore)
	svc := messages.NewService(storeMock, nil, nil)

	restored := &models.Message{
		Protocol: "REC-00005-2026",
		Type:     models.TypeComplaint,
		Name:     "Maria Silva",
		Body:     "O carro atrasou 40 minutos.",
		Status:   models.StatusPending,
	}
	storeMock.On("UnarchiveMessage", models.TypeComplaint, "REC-00005-2026",
		mock.MatchedBy(func(e *models.HistoryEntry) bool {
			return e.Action == models.ActionUnarchived
		})).Return(restored, nil)
	storeMock.On("PublishEvent", mock.Anything).Return(nil)

	msg, err := svc.Unarchive(models.TypeComplaint, "REC-00005-2026", "cli")

	assert.NoError(t, err)
	assert.Equal(t, models.StatusPending, msg.Status)
	assert.Nil(t, msg.ArchivedAt)
	assert.Equal(t, "Maria Silva", msg.Name)
}

// TestRespond_MissingMessage verifies a reply is rejected when the message is
// not in its active collection.
func TestRespond_MissingMessage(t *testing.T) {
	storeMock := new(MockStore)
	svc := messages.NewService(storeMock, nil, nil)

	storeMock.On("GetMessage", models.TypeComplaint, "REC-09999-2026").
		Return(nil, errors.New("message not found"))

	resp, err := svc.Respond(models.TypeComplaint, "REC-09999-2026", "carlos", "olá")

	assert.Error(t, err)
	assert.Nil(t, resp)
	storeMock.AssertNotCalled(t, "SaveResponse", mock.Anything, mock.Anything)
}

func TestRespond(t *testing.T) {
	storeMock := new(MockStore)
	svc := messages.NewService(storeMock, nil, nil)

	storeMock.On("GetMessage", models.TypeComplaint, "REC-00001-2026").
		Return(&models.Message{Protocol: "REC-00001-2026"}, nil)
	storeMock.On("SaveResponse", mock.AnythingOfType("*models.MessageResponse"),
		mock.MatchedBy(func(e *models.HistoryEntry) bool {
			return e.Action == models.ActionResponded && e.Actor == "carlos"
		})).Return(nil)
	storeMock.On("PublishEvent", mock.Anything).Return(nil)

	resp, err := svc.Respond(models.TypeComplaint, "REC-00001-2026", "carlos", "Pedimos desculpas pelo atraso.")

	assert.NoError(t, err)
	assert.Equal(t, "carlos", resp.Author)
	assert.Equal(t, "REC-00001-2026", resp.Protocol)
}

// TestSubmit_ConcurrentProtocolsUnique fires parallel submissions against a
// thread-safe in-memory store and checks no protocol is ever issued twice.
func TestSubmit_ConcurrentProtocolsUnique(t *testing.T) {
	store := newFakeStore()
	svc := messages.NewService(store, nil, nil)

	const n = 50
	protos := make(chan string, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			msg, err := svc.Submit(messages.SubmitInput{
				Type:    models.TypeComplaint,
				Name:    fmt.Sprintf("Passageiro %d", i),
				Body:    "reclamação",
				Consent: true,
			})
			assert.NoError(t, err)
			protos <- msg.Protocol
		}(i)
	}
	wg.Wait()
	close(protos)

	seen := make(map[string]bool)
	for proto := range protos {
		assert.False(t, seen[proto], "protocol %s issued twice", proto)
		seen[proto] = true
		assert.Regexp(t, protocol.Pattern, proto)
	}
	assert.Len(t, seen, n)
}

// TestArchiveUnarchive_RoundTrip walks a submission through archive and back:
// the restored message is pending again, the archival timestamp is cleared,
// every other field survives the move and the trail records every step.
func TestArchiveUnarchive_RoundTrip(t *testing.T) {
	store := newFakeStore()
	svc := messages.NewService(store, nil, nil)

	msg, err := svc.Submit(messages.SubmitInput{
		Type:          models.TypeComplaint,
		Name:          "Maria Silva",
		Email:         "maria@example.com",
		Phone:         "(21) 99876-5432",
		VehiclePrefix: "TX-1044",
		Subject:       "Atraso",
		Body:          "O carro atrasou 40 minutos.",
		Consent:       true,
	})
	assert.NoError(t, err)

	assert.NoError(t, svc.Archive(models.TypeComplaint, msg.Protocol, "carlos"))

	_, err = svc.Get(models.TypeComplaint, msg.Protocol)
	assert.Error(t, err, "archived message must leave the active collection")

	archived, err := svc.GetArchived(models.TypeComplaint, msg.Protocol)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusArchived, archived.Status)
	assert.NotNil(t, archived.ArchivedAt)

	restored, err := svc.Unarchive(models.TypeComplaint, msg.Protocol, "carlos")
	assert.NoError(t, err)
	assert.Equal(t, models.StatusPending, restored.Status)
	assert.Nil(t, restored.ArchivedAt)
	assert.Equal(t, msg.Protocol, restored.Protocol)
	assert.Equal(t, "Maria Silva", restored.Name)
	assert.Equal(t, "maria@example.com", restored.Email)
	assert.Equal(t, "(21) 99876-5432", restored.Phone)
	assert.Equal(t, "TX-1044", restored.VehiclePrefix)
	assert.Equal(t, "Atraso", restored.Subject)
	assert.Equal(t, "O carro atrasou 40 minutos.", restored.Body)
	assert.True(t, restored.Consent)

	_, err = svc.GetArchived(models.TypeComplaint, msg.Protocol)
	assert.Error(t, err, "restored message must leave the archival collection")

	trail, err := svc.History(msg.Protocol)
	assert.NoError(t, err)
	assert.Len(t, trail, 3)
	assert.Equal(t, models.ActionCreated, trail[0].Action)
	assert.Equal(t, models.ActionArchived, trail[1].Action)
	assert.Equal(t, models.ActionUnarchived, trail[2].Action)
}

// TestSubmit_HistoryHasSingleCreationEntry verifies exactly one creation
// record per submission.
func TestSubmit_HistoryHasSingleCreationEntry(t *testing.T) {
	store := newFakeStore()
	svc := messages.NewService(store, nil, nil)

	msg, err := svc.Submit(messages.SubmitInput{
		Type:    models.TypeComplaint,
		Name:    "Maria Silva",
		Body:    "O carro atrasou 40 minutos.",
		Consent: true,
	})
	assert.NoError(t, err)

	trail, err := svc.History(msg.Protocol)
	assert.NoError(t, err)
	assert.Len(t, trail, 1)
	assert.Equal(t, models.ActionCreated, trail[0].Action)
	assert.Equal(t, messages.SystemActor, trail[0].Actor)
}
