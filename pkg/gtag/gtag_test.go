package gtag_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/consent/pkg/gtag"
	"github.com/dmitrymomot/consent/pkg/record"
)

func TestStatusFor(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		in   record.Categories
		want gtag.Status
	}{
		{
			name: "defaults deny everything",
			in:   record.Defaults(),
			want: gtag.Status{AdStorage: gtag.Denied, AnalyticsStorage: gtag.Denied, AdUserData: gtag.Denied, AdPersonalization: gtag.Denied},
		},
		{
			name: "analytics only",
			in:   record.Categories{Essential: true, Analytics: true},
			want: gtag.Status{AdStorage: gtag.Denied, AnalyticsStorage: gtag.Granted, AdUserData: gtag.Denied, AdPersonalization: gtag.Denied},
		},
		{
			name: "marketing only",
			in:   record.Categories{Essential: true, Marketing: true},
			want: gtag.Status{AdStorage: gtag.Granted, AnalyticsStorage: gtag.Denied, AdUserData: gtag.Granted, AdPersonalization: gtag.Granted},
		},
		{
			name: "functional has no signal",
			in:   record.Categories{Essential: true, Functional: true},
			want: gtag.DeniedStatus(),
		},
		{
			name: "all granted",
			in:   record.AllGranted(),
			want: gtag.Status{AdStorage: gtag.Granted, AnalyticsStorage: gtag.Granted, AdUserData: gtag.Granted, AdPersonalization: gtag.Granted},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, gtag.StatusFor(tc.in))
		})
	}
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	m, err := gtag.ParseMode("deferred")
	require.NoError(t, err)
	require.Equal(t, gtag.ModeDeferred, m)

	_, err = gtag.ParseMode("eager")
	require.ErrorIs(t, err, gtag.ErrUnknownMode)
}

func TestAdapter_ImmediateDefault(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dl := gtag.NewDataLayer()
	a := gtag.NewAdapter(gtag.WithSink(dl))

	a.Init(ctx)
	a.Init(ctx)
	require.Equal(t, 1, dl.Len(), "default announced once")

	entry, ok := dl.Entries()[0].([]any)
	require.True(t, ok)
	require.Equal(t, "consent", entry[0])
	require.Equal(t, "default", entry[1])

	args := entry[2].(map[string]any)
	require.Equal(t, "denied", args["ad_storage"])
	require.Equal(t, "denied", args["analytics_storage"])
	require.Equal(t, "denied", args["ad_user_data"])
	require.Equal(t, "denied", args["ad_personalization"])
	require.Equal(t, int64(500), args["wait_for_update"])

	a.Apply(ctx, record.Categories{Essential: true, Analytics: true})
	entries := dl.Entries()
	require.Len(t, entries, 3)

	update := entries[1].([]any)
	require.Equal(t, "update", update[1])
	require.Equal(t, "granted", update[2].(map[string]any)["analytics_storage"])
	require.Equal(t, "denied", update[2].(map[string]any)["ad_storage"])

	ev := entries[2].(gtag.Event)
	require.Equal(t, gtag.EventName, ev.Name)
	require.NotEmpty(t, ev.ID)
	require.True(t, ev.Categories["analytics"])
	require.Equal(t, gtag.Granted, a.Status().AnalyticsStorage)
}

func TestAdapter_Deferred(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dl := gtag.NewDataLayer()
	a := gtag.NewAdapter(gtag.WithSink(dl), gtag.WithMode(gtag.ModeDeferred))

	a.Init(ctx)
	require.Zero(t, dl.Len())
	require.Equal(t, gtag.DeniedStatus(), a.Status())

	a.Apply(ctx, record.AllGranted())
	require.Equal(t, 2, dl.Len())
	require.Equal(t, "update", dl.Entries()[0].([]any)[1])
}

func TestAdapter_WaitForUpdate(t *testing.T) {
	t.Parallel()

	dl := gtag.NewDataLayer()
	a := gtag.NewAdapter(gtag.WithSink(dl), gtag.WithWaitForUpdate(2*time.Second), gtag.WithWaitForUpdate(-1))
	a.Init(context.Background())

	args := dl.Entries()[0].([]any)[2].(map[string]any)
	require.Equal(t, int64(2000), args["wait_for_update"])
}

func TestAdapter_LazySink(t *testing.T) {
	t.Parallel()

	created := 0
	dl := gtag.NewDataLayer()
	a := gtag.NewAdapter(gtag.WithSinkFactory(func() gtag.Sink {
		created++
		return dl
	}))

	a.Init(context.Background())
	a.Apply(context.Background(), record.Defaults())
	require.Equal(t, 1, created)
	require.Equal(t, 3, dl.Len())
}

type brokenSink struct {
	panics bool
}

func (b brokenSink) AnnounceDefault(gtag.Status, time.Duration) error { return b.fail() }
func (b brokenSink) Update(gtag.Status) error                         { return b.fail() }
func (b brokenSink) RecordEvent(gtag.Event) error                     { return b.fail() }

func (b brokenSink) fail() error {
	if b.panics {
		panic("gtag is not a function")
	}
	return errors.New("blocked by extension")
}

func TestAdapter_SinkFailuresAreContained(t *testing.T) {
	t.Parallel()

	for name, sink := range map[string]gtag.Sink{
		"error": brokenSink{},
		"panic": brokenSink{panics: true},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			log := slog.New(slog.NewJSONHandler(&buf, nil))
			a := gtag.NewAdapter(gtag.WithSink(sink), gtag.WithLogger(log))

			require.NotPanics(t, func() {
				a.Init(context.Background())
				a.Apply(context.Background(), record.AllGranted())
			})
			require.Contains(t, buf.String(), `"level":"ERROR"`)
			require.Equal(t, gtag.Granted, a.Status().AdStorage)
		})
	}
}

func TestDataLayer_Gtag(t *testing.T) {
	t.Parallel()

	var calls [][]any
	dl := gtag.NewDataLayer(gtag.WithGtag(func(args ...any) error {
		calls = append(calls, args)
		return nil
	}))

	require.NoError(t, dl.Update(gtag.DeniedStatus()))
	require.NoError(t, dl.RecordEvent(gtag.NewEvent(time.Now(), nil, gtag.DeniedStatus())))

	require.Len(t, calls, 1)
	require.Equal(t, "consent", calls[0][0])
	require.Equal(t, 1, dl.Len(), "events still go to the layer")
}

func TestDataLayer_MarshalJSON(t *testing.T) {
	t.Parallel()

	dl := gtag.NewDataLayer()
	data, err := json.Marshal(dl)
	require.NoError(t, err)
	require.JSONEq(t, `[]`, string(data))

	require.NoError(t, dl.AnnounceDefault(gtag.DeniedStatus(), 500*time.Millisecond))
	data, err = json.Marshal(dl)
	require.NoError(t, err)
	require.JSONEq(t, `[["consent","default",{
		"ad_storage":"denied",
		"analytics_storage":"denied",
		"ad_user_data":"denied",
		"ad_personalization":"denied",
		"wait_for_update":500
	}]]`, string(data))
}
