package viewstore

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/valkey-io/valkey-go"
	"github.com/valkey-io/valkey-go/mock"
	"go.uber.org/mock/gomock"

	"github.com/yanqian/birthchart/internal/domain/birthchart"
)

const (
	testViewKey     = "birthchart:view:visitor"
	testInflightKey = "birthchart:inflight:visitor"
)

func newMockStore(t *testing.T) (*ValkeyStore, *mock.Client) {
	t.Helper()
	ctrl := gomock.NewController(t)
	client := mock.NewClient(ctrl)
	return NewValkeyStore(client, "", time.Hour), client
}

// captureView records the view written by a SET on the view key.
func captureView(t *testing.T, into *birthchart.View) func(context.Context, valkey.Completed) valkey.ValkeyResult {
	return func(_ context.Context, cmd valkey.Completed) valkey.ValkeyResult {
		args := cmd.Commands()
		require.GreaterOrEqual(t, len(args), 5)
		require.Equal(t, []string{"SET", testViewKey}, args[:2])
		require.Equal(t, []string{"EX", "3600"}, args[3:5])
		require.NoError(t, json.Unmarshal([]byte(args[2]), into))
		return mock.Result(mock.ValkeyString("OK"))
	}
}

func TestValkeyStoreBeginThenFinish(t *testing.T) {
	ctx := context.Background()
	store, client := newMockStore(t)
	form := birthchart.FormInput{BirthDate: "1990-01-15"}

	var begun, finished birthchart.View
	gomock.InOrder(
		client.EXPECT().
			Do(gomock.Any(), mock.Match("SET", testInflightKey, "1", "NX", "EX", "3600")).
			Return(mock.Result(mock.ValkeyString("OK"))),
		client.EXPECT().
			Do(gomock.Any(), mock.Match("GET", testViewKey)).
			Return(mock.Result(mock.ValkeyNil())),
		client.EXPECT().
			Do(gomock.Any(), gomock.Any()).
			DoAndReturn(captureView(t, &begun)),
		client.EXPECT().
			Do(gomock.Any(), gomock.Any()).
			DoAndReturn(captureView(t, &finished)),
		client.EXPECT().
			Do(gomock.Any(), mock.Match("DEL", testInflightKey)).
			Return(mock.Result(mock.ValkeyInt64(1))),
	)

	loading, err := store.Begin(ctx, "visitor", form)
	require.NoError(t, err)
	require.True(t, loading.Loading())
	require.Equal(t, birthchart.StatusLoading, begun.Status)
	require.Equal(t, form, begun.Form)

	done := loading.Succeed(birthchart.ChartResult{Planets: []birthchart.PlanetPosition{{Name: "Sun"}}}, time.Now())
	require.NoError(t, store.Finish(ctx, "visitor", done))
	require.Equal(t, birthchart.StatusSuccess, finished.Status)
	require.Len(t, finished.Result.Planets, 1)
}

func TestValkeyStoreRefusesSecondSubmission(t *testing.T) {
	store, client := newMockStore(t)

	client.EXPECT().
		Do(gomock.Any(), mock.Match("SET", testInflightKey, "1", "NX", "EX", "3600")).
		Return(mock.Result(mock.ValkeyNil()))

	_, err := store.Begin(context.Background(), "visitor", birthchart.FormInput{})
	require.ErrorIs(t, err, birthchart.ErrSubmissionInFlight)
}

func TestValkeyStoreLoadMissingIsIdle(t *testing.T) {
	store, client := newMockStore(t)

	client.EXPECT().
		Do(gomock.Any(), mock.Match("GET", testViewKey)).
		Return(mock.Result(mock.ValkeyNil()))

	view, err := store.Load(context.Background(), "visitor")
	require.NoError(t, err)
	require.Equal(t, birthchart.StatusIdle, view.Status)
}

func TestValkeyStoreReleasesMarkerAfterCancel(t *testing.T) {
	store, client := newMockStore(t)
	ctx, cancel := context.WithCancel(context.Background())

	gomock.InOrder(
		client.EXPECT().
			Do(gomock.Any(), mock.Match("SET", testInflightKey, "1", "NX", "EX", "3600")).
			DoAndReturn(func(context.Context, valkey.Completed) valkey.ValkeyResult {
				cancel()
				return mock.Result(mock.ValkeyString("OK"))
			}),
		client.EXPECT().
			Do(gomock.Any(), mock.Match("GET", testViewKey)).
			Return(mock.ErrorResult(context.Canceled)),
		client.EXPECT().
			Do(gomock.Any(), mock.Match("DEL", testInflightKey)).
			DoAndReturn(func(ctx context.Context, _ valkey.Completed) valkey.ValkeyResult {
				require.NoError(t, ctx.Err())
				return mock.Result(mock.ValkeyInt64(1))
			}),
	)

	_, err := store.Begin(ctx, "visitor", birthchart.FormInput{})
	require.True(t, errors.Is(err, context.Canceled))
}
