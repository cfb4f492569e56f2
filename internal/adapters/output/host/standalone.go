package host

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"cad-ui-bridge/internal/domain/model"
	"cad-ui-bridge/internal/logx"
	"cad-ui-bridge/internal/ports"
	"github.com/google/uuid"
)

var (
	ErrClientNotFound = errors.New("client not found")
	ErrClientExists   = errors.New("client already exists")
	ErrWrongRole      = errors.New("client has the wrong role for this operation")
	ErrUnknownObject  = errors.New("object not in document")
)

// Standalone is a HostBridge over a JSON document on disk. Clients live in a sidecar
// repository; selection is kept in memory.
type Standalone struct {
	hostName string
	path     string
	doc      *Document
	clients  ports.ClientRepository
	notifier ports.Notifier
	now      func() time.Time

	mu        sync.Mutex
	selection []string
	custom    []model.SelectionFilter
}

var (
	_ ports.HostBridge     = (*Standalone)(nil)
	_ ports.ObjectSelector = (*Standalone)(nil)
)

func New(hostName, path string, doc *Document, clients ports.ClientRepository, notifier ports.Notifier) *Standalone {
	return &Standalone{
		hostName: hostName,
		path:     path,
		doc:      doc,
		clients:  clients,
		notifier: notifier,
		now:      time.Now,
	}
}

// Open loads the document at path and returns a host for it.
func Open(hostName, path string, clients ports.ClientRepository, notifier ports.Notifier) (*Standalone, error) {
	doc, err := LoadDocument(path)
	if err != nil {
		return nil, err
	}
	return New(hostName, path, doc, clients, notifier), nil
}

func (h *Standalone) GetApplicationHostName() string { return h.hostName }

func (h *Standalone) GetFileName() string { return filepath.Base(h.path) }

func (h *Standalone) GetDocumentLocation() string {
	abs, err := filepath.Abs(h.path)
	if err != nil {
		return filepath.Dir(h.path)
	}
	return filepath.Dir(abs)
}

// GetDocumentID returns the id stored in the document, or one derived from its path.
func (h *Standalone) GetDocumentID() string {
	if h.doc.ID != "" {
		return h.doc.ID
	}
	abs, err := filepath.Abs(h.path)
	if err != nil {
		abs = h.path
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+filepath.ToSlash(abs))).String()
}

func (h *Standalone) CanSelectObjects() bool { return true }

func (h *Standalone) GetFileClients() (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients, err := h.clients.Get(context.Background())
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(clients)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (h *Standalone) AddSender(args string) error {
	return h.addClient(args, model.ClientRoleSender)
}

func (h *Standalone) AddReceiver(args string) error {
	return h.addClient(args, model.ClientRoleReceiver)
}

func (h *Standalone) addClient(args string, role model.ClientRole) error {
	var c model.ClientRecord
	if err := decode(args, &c); err != nil {
		return err
	}
	c.Role = role
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if role == model.ClientRoleSender && c.Filter != nil && len(c.Objects) == 0 {
		ids, err := resolve(h.doc, c.Filter)
		if err != nil {
			return err
		}
		c.Objects = ids
	}

	return h.mutate(func(clients []*model.ClientRecord) ([]*model.ClientRecord, *model.ClientRecord, error) {
		if _, i := find(clients, c.ID); i >= 0 {
			return nil, nil, fmt.Errorf("%s: %w", c.ID, ErrClientExists)
		}
		return append(clients, &c), &c, nil
	})
}

func (h *Standalone) UpdateSender(args string) error {
	var in model.ClientRecord
	if err := decode(args, &in); err != nil {
		return err
	}
	return h.mutate(func(clients []*model.ClientRecord) ([]*model.ClientRecord, *model.ClientRecord, error) {
		c, err := lookup(clients, in.ID, model.ClientRoleSender)
		if err != nil {
			return nil, nil, err
		}
		c.Name = in.Name
		c.StreamID = in.StreamID
		c.AccountID = in.AccountID
		c.Filter = in.Filter
		if in.Objects != nil {
			c.Objects = in.Objects
		}
		return clients, c, nil
	})
}

// PushSender refreshes the objects of a filter-driven sender and stamps the push.
// A sender with nothing to send is reported to the UI instead of failing the call.
func (h *Standalone) PushSender(args string) error {
	id, err := decodeID(args)
	if err != nil {
		return err
	}
	return h.mutate(func(clients []*model.ClientRecord) ([]*model.ClientRecord, *model.ClientRecord, error) {
		c, err := lookup(clients, id, model.ClientRoleSender)
		if err != nil {
			return nil, nil, err
		}
		if c.Filter != nil {
			ids, err := resolve(h.doc, c.Filter)
			if err != nil {
				return nil, nil, err
			}
			c.Objects = ids
		}
		if len(c.Objects) == 0 {
			h.notifier.Notify(model.EventClientError, map[string]string{"_id": c.ID, "error": "nothing to send"})
			return nil, nil, nil
		}
		now := h.now().UTC()
		c.PushedAt = &now
		return clients, c, nil
	})
}

func (h *Standalone) AddSelectionToSender(args string) error {
	id, err := decodeID(args)
	if err != nil {
		return err
	}
	h.mu.Lock()
	selected := slices.Clone(h.selection)
	h.mu.Unlock()
	return h.editObjects(id, selected, true)
}

func (h *Standalone) RemoveSelectionFromSender(args string) error {
	id, err := decodeID(args)
	if err != nil {
		return err
	}
	h.mu.Lock()
	selected := slices.Clone(h.selection)
	h.mu.Unlock()
	return h.editObjects(id, selected, false)
}

func (h *Standalone) AddObjectsToSender(args string) error {
	var in model.ClientObjects
	if err := decode(args, &in); err != nil {
		return err
	}
	for _, o := range in.Objects {
		if _, ok := h.doc.object(o); !ok {
			return fmt.Errorf("%s: %w", o, ErrUnknownObject)
		}
	}
	return h.editObjects(in.ID, in.Objects, true)
}

func (h *Standalone) RemoveObjectsFromSender(args string) error {
	var in model.ClientObjects
	if err := decode(args, &in); err != nil {
		return err
	}
	return h.editObjects(in.ID, in.Objects, false)
}

func (h *Standalone) editObjects(id string, objects []string, add bool) error {
	return h.mutate(func(clients []*model.ClientRecord) ([]*model.ClientRecord, *model.ClientRecord, error) {
		c, err := lookup(clients, id, model.ClientRoleSender)
		if err != nil {
			return nil, nil, err
		}
		if add {
			for _, o := range objects {
				if !slices.Contains(c.Objects, o) {
					c.Objects = append(c.Objects, o)
				}
			}
		} else {
			c.Objects = slices.DeleteFunc(c.Objects, func(o string) bool { return slices.Contains(objects, o) })
		}
		// explicit object edits detach the sender from its filter
		c.Filter = nil
		return clients, c, nil
	})
}

func (h *Standalone) RemoveClient(args string) error {
	id, err := decodeID(args)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := context.Background()
	clients, err := h.clients.Get(ctx)
	if err != nil {
		return err
	}
	_, i := find(clients, id)
	if i < 0 {
		return fmt.Errorf("%s: %w", id, ErrClientNotFound)
	}
	return h.clients.Save(ctx, slices.Delete(clients, i, i+1))
}

func (h *Standalone) BakeReceiver(args string) error {
	id, err := decodeID(args)
	if err != nil {
		return err
	}
	return h.mutate(func(clients []*model.ClientRecord) ([]*model.ClientRecord, *model.ClientRecord, error) {
		c, err := lookup(clients, id, model.ClientRoleReceiver)
		if err != nil {
			return nil, nil, err
		}
		now := h.now().UTC()
		c.BakedAt = &now
		return clients, c, nil
	})
}

// SelectClientObjects makes the client's objects the current document selection.
func (h *Standalone) SelectClientObjects(args string) error {
	id, err := decodeID(args)
	if err != nil {
		return err
	}
	h.mu.Lock()
	clients, err := h.clients.Get(context.Background())
	h.mu.Unlock()
	if err != nil {
		return err
	}
	c, i := find(clients, id)
	if i < 0 {
		return fmt.Errorf("%s: %w", id, ErrClientNotFound)
	}

	var present []string
	for _, o := range c.Objects {
		if _, ok := h.doc.object(o); ok {
			present = append(present, o)
		}
	}
	return h.Select(present...)
}

// Select replaces the document selection and tells the UI how many objects are selected.
func (h *Standalone) Select(ids ...string) error {
	for _, id := range ids {
		if _, ok := h.doc.object(id); !ok {
			return fmt.Errorf("%s: %w", id, ErrUnknownObject)
		}
	}
	h.mu.Lock()
	h.selection = h.selection[:0]
	for _, id := range ids {
		if !slices.Contains(h.selection, id) {
			h.selection = append(h.selection, id)
		}
	}
	n := len(h.selection)
	h.mu.Unlock()

	h.notifier.Notify(model.EventUpdateSelectionCount, map[string]int{"selectedObjectsCount": n})
	return nil
}

func (h *Standalone) Selection() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.selection)
}

func (h *Standalone) ListSelectionFilters() []model.SelectionFilter {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append(builtinFilters(h.doc), h.custom...)
}

// RegisterFilter appends a host specific filter after the built-in ones.
func (h *Standalone) RegisterFilter(f model.SelectionFilter) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.custom = append(h.custom, f)
}

// mutate runs fn over the stored clients under the host lock, saves the result and
// notifies the UI about the changed client. fn returning a nil slice skips the save.
func (h *Standalone) mutate(fn func([]*model.ClientRecord) ([]*model.ClientRecord, *model.ClientRecord, error)) error {
	h.mu.Lock()
	ctx := context.Background()
	clients, err := h.clients.Get(ctx)
	if err != nil {
		h.mu.Unlock()
		return err
	}
	updated, changed, err := fn(clients)
	if err != nil || updated == nil {
		h.mu.Unlock()
		return err
	}
	err = h.clients.Save(ctx, updated)
	h.mu.Unlock()
	if err != nil {
		return fmt.Errorf("save clients: %w", err)
	}

	logx.Log.Debug().Str("client_id", changed.ID).Str("role", string(changed.Role)).Msg("client updated")
	h.notifier.Notify(model.EventUpdateClient, changed)
	return nil
}

func find(clients []*model.ClientRecord, id string) (*model.ClientRecord, int) {
	for i, c := range clients {
		if c.ID == id {
			return c, i
		}
	}
	return nil, -1
}

func lookup(clients []*model.ClientRecord, id string, role model.ClientRole) (*model.ClientRecord, error) {
	c, i := find(clients, id)
	if i < 0 {
		return nil, fmt.Errorf("%s: %w", id, ErrClientNotFound)
	}
	if c.Role != role {
		return nil, fmt.Errorf("%s is a %s: %w", id, c.Role, ErrWrongRole)
	}
	return c, nil
}

func decode(args string, v any) error {
	if err := json.Unmarshal([]byte(args), v); err != nil {
		return fmt.Errorf("decode arguments: %w", err)
	}
	return nil
}

// decodeID accepts either a client object or a bare id.
func decodeID(args string) (string, error) {
	var ref struct {
		ID string `json:"_id"`
	}
	if err := json.Unmarshal([]byte(args), &ref); err == nil {
		if ref.ID == "" {
			return "", errors.New("decode arguments: missing _id")
		}
		return ref.ID, nil
	}
	var id string
	if err := json.Unmarshal([]byte(args), &id); err == nil && id != "" {
		return id, nil
	}
	return "", fmt.Errorf("decode arguments: expected client or id, got %q", args)
}
