package persistence

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"cad-ui-bridge/internal/domain/model"
)

// JSONClientRepository stores the client records of a document in a sidecar JSON file.
type JSONClientRepository struct {
	filepath string
	mu       sync.RWMutex
}

type clientFile struct {
	Clients []*model.ClientRecord `json:"clients"`
}

// Older sidecars kept clients in a map keyed by id.
type legacyClientFile struct {
	Clients map[string]*legacyClient `json:"clients"`
}

type legacyClient struct {
	ClientID string   `json:"clientId"`
	Type     string   `json:"type"`
	StreamID string   `json:"streamId"`
	Account  string   `json:"account"`
	Objects  []string `json:"objects"`
}

func NewJSONClientRepository(filepath string) *JSONClientRepository {
	return &JSONClientRepository{filepath: filepath}
}

func (r *JSONClientRepository) Get(ctx context.Context) ([]*model.ClientRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, err := os.ReadFile(r.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			return []*model.ClientRecord{}, nil
		}
		return nil, err
	}

	var file clientFile
	if err := json.Unmarshal(data, &file); err == nil {
		if file.Clients == nil {
			file.Clients = []*model.ClientRecord{}
		}
		return file.Clients, nil
	}
	return r.migrate(data)
}

func (r *JSONClientRepository) migrate(data []byte) ([]*model.ClientRecord, error) {
	var legacy legacyClientFile
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(legacy.Clients))
	for id := range legacy.Clients {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	clients := make([]*model.ClientRecord, 0, len(ids))
	for _, key := range ids {
		c := legacy.Clients[key]
		id := c.ClientID
		if id == "" {
			id = key
		}
		clients = append(clients, &model.ClientRecord{
			ID:        id,
			Role:      model.ClientRole(c.Type),
			StreamID:  c.StreamID,
			AccountID: c.Account,
			Objects:   c.Objects,
		})
	}
	return clients, nil
}

func (r *JSONClientRepository) Save(ctx context.Context, clients []*model.ClientRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if clients == nil {
		clients = []*model.ClientRecord{}
	}
	data, err := json.MarshalIndent(clientFile{Clients: clients}, "", "  ")
	if err != nil {
		return err
	}

	tmp := r.filepath + ".tmp"
	if err := os.MkdirAll(filepath.Dir(r.filepath), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, r.filepath)
}
