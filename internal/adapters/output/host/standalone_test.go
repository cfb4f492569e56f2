package host

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"cad-ui-bridge/internal/adapters/output/persistence"
	"cad-ui-bridge/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type notification struct {
	name    string
	payload any
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []notification
}

func (n *recordingNotifier) Notify(eventName string, payload any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, notification{eventName, payload})
}

func (n *recordingNotifier) DispatchAction(string, *string) {}

func (n *recordingNotifier) last() notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.events) == 0 {
		return notification{}
	}
	return n.events[len(n.events)-1]
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.events)
}

const testDocument = `{
  "id": "doc-1",
  "objects": [
    {"id": "w1", "type": "Wall", "layer": "A-WALL", "properties": {"height": 3.2, "material": "concrete"}},
    {"id": "w2", "type": "Wall", "layer": "A-WALL", "properties": {"height": 2.5}},
    {"id": "d1", "type": "Door", "layer": "A-DOOR", "properties": {"width": 0.9}},
    {"id": "s1", "type": "Slab", "layer": "S-SLAB"}
  ]
}`

func newTestHost(t *testing.T) (*Standalone, *recordingNotifier, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "model.json")
	require.NoError(t, os.WriteFile(path, []byte(testDocument), 0o644))

	n := &recordingNotifier{}
	h, err := Open("Standalone", path, persistence.NewJSONClientRepository(path+".clients.json"), n)
	require.NoError(t, err)
	h.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return h, n, path
}

func clients(t *testing.T, h *Standalone) []*model.ClientRecord {
	t.Helper()
	raw, err := h.GetFileClients()
	require.NoError(t, err)
	var out []*model.ClientRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &out))
	return out
}

func TestStandaloneDocumentIdentity(t *testing.T) {
	h, _, path := newTestHost(t)

	assert.Equal(t, "Standalone", h.GetApplicationHostName())
	assert.Equal(t, "model.json", h.GetFileName())
	assert.Equal(t, filepath.Dir(path), h.GetDocumentLocation())
	assert.Equal(t, "doc-1", h.GetDocumentID())
	assert.True(t, h.CanSelectObjects())
}

func TestStandaloneDerivedDocumentID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")
	a, err := Open("Standalone", path, persistence.NewJSONClientRepository(path+".c"), &recordingNotifier{})
	require.NoError(t, err)
	b, err := Open("Standalone", path, persistence.NewJSONClientRepository(path+".c"), &recordingNotifier{})
	require.NoError(t, err)

	assert.NotEmpty(t, a.GetDocumentID())
	assert.Equal(t, a.GetDocumentID(), b.GetDocumentID())
}

func TestStandaloneEmptyClients(t *testing.T) {
	h, _, _ := newTestHost(t)
	raw, err := h.GetFileClients()
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
}

func TestAddSenderResolvesFilter(t *testing.T) {
	h, n, _ := newTestHost(t)

	err := h.AddSender(`{"_id":"c1","streamId":"s","filter":{"Name":"Category","Type":"List","Selection":["Wall"]}}`)
	require.NoError(t, err)

	got := clients(t, h)
	require.Len(t, got, 1)
	assert.Equal(t, model.ClientRoleSender, got[0].Role)
	assert.Equal(t, []string{"w1", "w2"}, got[0].Objects)
	assert.Equal(t, model.EventUpdateClient, n.last().name)
}

func TestAddClientAssignsIDAndRejectsDuplicates(t *testing.T) {
	h, _, _ := newTestHost(t)

	require.NoError(t, h.AddReceiver(`{"streamId":"s"}`))
	got := clients(t, h)
	require.Len(t, got, 1)
	assert.NotEmpty(t, got[0].ID)
	assert.Equal(t, model.ClientRoleReceiver, got[0].Role)

	err := h.AddReceiver(`{"_id":"` + got[0].ID + `"}`)
	assert.ErrorIs(t, err, ErrClientExists)
}

func TestAddSenderRejectsMalformedArgs(t *testing.T) {
	h, n, _ := newTestHost(t)
	assert.Error(t, h.AddSender("not json"))
	assert.Zero(t, n.count())
}

func TestUpdateSender(t *testing.T) {
	h, _, _ := newTestHost(t)
	require.NoError(t, h.AddSender(`{"_id":"c1","streamId":"s","objects":["w1"]}`))

	require.NoError(t, h.UpdateSender(`{"_id":"c1","streamId":"s2","name":"renamed"}`))
	got := clients(t, h)
	assert.Equal(t, "s2", got[0].StreamID)
	assert.Equal(t, "renamed", got[0].Name)
	assert.Equal(t, []string{"w1"}, got[0].Objects)

	assert.ErrorIs(t, h.UpdateSender(`{"_id":"nope"}`), ErrClientNotFound)
}

func TestPushSender(t *testing.T) {
	h, n, _ := newTestHost(t)
	require.NoError(t, h.AddSender(`{"_id":"c1","filter":{"Name":"Property","Type":"Property","Expression":"height > 3"}}`))

	require.NoError(t, h.PushSender(`{"_id":"c1"}`))
	got := clients(t, h)
	require.NotNil(t, got[0].PushedAt)
	assert.Equal(t, []string{"w1"}, got[0].Objects)
	assert.Equal(t, model.EventUpdateClient, n.last().name)
}

func TestPushSenderWithNothingToSend(t *testing.T) {
	h, n, _ := newTestHost(t)
	require.NoError(t, h.AddSender(`{"_id":"c1"}`))

	require.NoError(t, h.PushSender(`"c1"`))
	assert.Equal(t, model.EventClientError, n.last().name)
	assert.Nil(t, clients(t, h)[0].PushedAt)
}

func TestPushReceiverIsWrongRole(t *testing.T) {
	h, _, _ := newTestHost(t)
	require.NoError(t, h.AddReceiver(`{"_id":"r1"}`))
	assert.ErrorIs(t, h.PushSender(`{"_id":"r1"}`), ErrWrongRole)
}

func TestSenderObjectEdits(t *testing.T) {
	h, _, _ := newTestHost(t)
	require.NoError(t, h.AddSender(`{"_id":"c1","objects":["w1"]}`))

	require.NoError(t, h.AddObjectsToSender(`{"_id":"c1","objects":["w1","d1"]}`))
	assert.Equal(t, []string{"w1", "d1"}, clients(t, h)[0].Objects)

	require.NoError(t, h.RemoveObjectsFromSender(`{"_id":"c1","objects":["w1"]}`))
	assert.Equal(t, []string{"d1"}, clients(t, h)[0].Objects)

	assert.ErrorIs(t, h.AddObjectsToSender(`{"_id":"c1","objects":["ghost"]}`), ErrUnknownObject)
}

func TestSelectionEdits(t *testing.T) {
	h, _, _ := newTestHost(t)
	require.NoError(t, h.AddSender(`{"_id":"c1"}`))
	require.NoError(t, h.Select("w2", "s1", "w2"))
	assert.Equal(t, []string{"w2", "s1"}, h.Selection())

	require.NoError(t, h.AddSelectionToSender(`{"_id":"c1"}`))
	assert.Equal(t, []string{"w2", "s1"}, clients(t, h)[0].Objects)

	require.NoError(t, h.Select("s1"))
	require.NoError(t, h.RemoveSelectionFromSender(`{"_id":"c1"}`))
	assert.Equal(t, []string{"w2"}, clients(t, h)[0].Objects)
}

func TestRemoveClient(t *testing.T) {
	h, _, _ := newTestHost(t)
	require.NoError(t, h.AddSender(`{"_id":"c1"}`))
	require.NoError(t, h.AddReceiver(`{"_id":"r1"}`))

	require.NoError(t, h.RemoveClient(`{"_id":"c1"}`))
	got := clients(t, h)
	require.Len(t, got, 1)
	assert.Equal(t, "r1", got[0].ID)

	assert.ErrorIs(t, h.RemoveClient(`{"_id":"c1"}`), ErrClientNotFound)
}

func TestBakeReceiver(t *testing.T) {
	h, _, _ := newTestHost(t)
	require.NoError(t, h.AddReceiver(`{"_id":"r1"}`))
	require.NoError(t, h.AddSender(`{"_id":"c1"}`))

	require.NoError(t, h.BakeReceiver(`{"_id":"r1"}`))
	got := clients(t, h)
	require.NotNil(t, got[0].BakedAt)
	assert.True(t, h.now().Equal(*got[0].BakedAt))

	assert.ErrorIs(t, h.BakeReceiver(`{"_id":"c1"}`), ErrWrongRole)
}

func TestSelectClientObjects(t *testing.T) {
	h, n, _ := newTestHost(t)
	require.NoError(t, h.AddSender(`{"_id":"c1","objects":["w1","d1"]}`))

	require.NoError(t, h.SelectClientObjects(`{"_id":"c1"}`))
	assert.Equal(t, []string{"w1", "d1"}, h.Selection())

	last := n.last()
	assert.Equal(t, model.EventUpdateSelectionCount, last.name)
	assert.Equal(t, map[string]int{"selectedObjectsCount": 2}, last.payload)

	assert.ErrorIs(t, h.SelectClientObjects(`{"_id":"nope"}`), ErrClientNotFound)
}

func TestClientsPersistAcrossHosts(t *testing.T) {
	h, _, path := newTestHost(t)
	require.NoError(t, h.AddSender(`{"_id":"c1","objects":["w1"]}`))

	repo := persistence.NewJSONClientRepository(path + ".clients.json")
	got, err := repo.Get(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "c1", got[0].ID)
}

func TestListSelectionFiltersAppendsRegistered(t *testing.T) {
	h, _, _ := newTestHost(t)
	before := h.ListSelectionFilters()

	custom := model.SelectionFilter{Name: "Phase", Icon: "mdi-timeline", Type: model.FilterTypeList, Values: []string{"new", "existing"}}
	h.RegisterFilter(custom)
	after := h.ListSelectionFilters()

	require.Len(t, after, len(before)+1)
	assert.Equal(t, before, after[:len(before)])
	assert.Equal(t, custom, after[len(after)-1])
}
