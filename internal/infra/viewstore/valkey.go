package viewstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/birthchart/internal/domain/birthchart"
)

// ValkeyStore shares visitor views across web app replicas.
type ValkeyStore struct {
	client valkey.Client
	prefix string
	ttl    time.Duration
}

// NewValkeyStore constructs a store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string, ttl time.Duration) *ValkeyStore {
	if prefix == "" {
		prefix = "birthchart"
	}
	if ttl < time.Second {
		ttl = time.Second
	}
	return &ValkeyStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *ValkeyStore) Load(ctx context.Context, id string) (birthchart.View, error) {
	payload, err := s.client.Do(ctx, s.client.B().Get().Key(s.viewKey(id)).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return birthchart.IdleView(), nil
		}
		return birthchart.View{}, err
	}
	var view birthchart.View
	if err := json.Unmarshal([]byte(payload), &view); err != nil {
		return birthchart.View{}, fmt.Errorf("decode view: %w", err)
	}
	return view, nil
}

// Begin takes the in-flight marker with SET NX so only one replica can start a
// submission for the visitor. The marker carries the view TTL from the start in
// case the owner dies before Finish.
func (s *ValkeyStore) Begin(ctx context.Context, id string, form birthchart.FormInput) (birthchart.View, error) {
	marker := s.inflightKey(id)
	cmd := s.client.B().Set().Key(marker).Value("1").Nx().ExSeconds(s.ttlSeconds()).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		if valkey.IsValkeyNil(err) {
			return birthchart.View{}, birthchart.ErrSubmissionInFlight
		}
		return birthchart.View{}, err
	}

	current, err := s.Load(ctx, id)
	if err != nil {
		s.release(ctx, id)
		return birthchart.View{}, err
	}
	if current.Loading() {
		// Left behind by a replica whose marker already expired.
		current = birthchart.IdleView()
	}
	next, err := current.Begin(form, time.Now())
	if err != nil {
		s.release(ctx, id)
		return birthchart.View{}, err
	}
	if err := s.save(ctx, id, next); err != nil {
		s.release(ctx, id)
		return birthchart.View{}, err
	}
	return next, nil
}

func (s *ValkeyStore) Finish(ctx context.Context, id string, view birthchart.View) error {
	if err := s.save(ctx, id, view); err != nil {
		return err
	}
	return s.client.Do(ctx, s.client.B().Del().Key(s.inflightKey(id)).Build()).Error()
}

func (s *ValkeyStore) save(ctx context.Context, id string, view birthchart.View) error {
	payload, err := json.Marshal(view)
	if err != nil {
		return err
	}
	cmd := s.client.B().Set().Key(s.viewKey(id)).Value(string(payload)).Ex(s.ttl).Build()
	return s.client.Do(ctx, cmd).Error()
}

// release drops the marker even when the caller's context is already done.
func (s *ValkeyStore) release(ctx context.Context, id string) {
	_ = s.client.Do(context.WithoutCancel(ctx), s.client.B().Del().Key(s.inflightKey(id)).Build()).Error()
}

func (s *ValkeyStore) ttlSeconds() int64 {
	return int64(s.ttl / time.Second)
}

func (s *ValkeyStore) viewKey(id string) string {
	return fmt.Sprintf("%s:view:%s", s.prefix, id)
}

func (s *ValkeyStore) inflightKey(id string) string {
	return fmt.Sprintf("%s:inflight:%s", s.prefix, id)
}

var _ birthchart.StateStore = (*ValkeyStore)(nil)
