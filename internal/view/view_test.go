package view

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thisdougb/healthview/internal/catalog"
	"github.com/thisdougb/healthview/internal/core"
)

func TestRowsSortedWithIcons(t *testing.T) {
	rows := Rows(map[string]string{
		"Total Sleep Time": "7h 30m",
		"Blood Glucose":    "90.00",
		"Mystery":          "1",
	})

	require.Len(t, rows, 3)
	assert.Equal(t, Row{Name: "Blood Glucose", Value: "90.00", Icon: "drop.fill"}, rows[0])
	assert.Equal(t, Row{Name: "Mystery", Value: "1", Icon: catalog.UnknownIcon}, rows[1])
	assert.Equal(t, Row{Name: "Total Sleep Time", Value: "7h 30m", Icon: "bed.double.fill"}, rows[2])
}

func TestRowsEmpty(t *testing.T) {
	assert.Empty(t, Rows(nil))
}

func TestPhoneRender(t *testing.T) {
	var buf bytes.Buffer
	err := PhoneView{}.Render(&buf, Rows(map[string]string{
		"Heart Rate": "72.00",
		"Height":     "1.75",
	}))
	require.NoError(t, err)

	assert.Equal(t, "Health Data\nHeart Rate  72.00\nHeight      1.75\n", buf.String())
}

func TestPhoneModel(t *testing.T) {
	model := PhoneView{}.Model(nil).(PhoneModel)
	assert.Equal(t, PhoneTitle, model.Title)
	assert.NotNil(t, model.Rows)
}

func TestWatchPages(t *testing.T) {
	rows := Rows(map[string]string{"Heart Rate": "72.00", "Body Mass": "70.00"})
	pages := WatchView{}.Pages(rows)

	require.Len(t, pages, 2)
	assert.Equal(t, Page{Index: 1, Icon: "figure.stand", Name: "Body Mass", Value: "70.00"}, pages[0])
	assert.Equal(t, 2, pages[1].Index)

	var buf bytes.Buffer
	require.NoError(t, WatchView{}.Render(&buf, rows))
	assert.True(t, strings.HasPrefix(buf.String(), "[1/2] figure.stand\nBody Mass\n70.00\n"))
}

func TestByName(t *testing.T) {
	v, ok := ByName("phone")
	require.True(t, ok)
	assert.Equal(t, "phone", v.Name())

	v, ok = ByName("watch")
	require.True(t, ok)
	assert.Equal(t, "watch", v.Name())

	_, ok = ByName("tv")
	assert.False(t, ok)
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestObserverRerendersOnChange(t *testing.T) {
	store := core.NewStore(nil)
	defer store.Close()

	out := &syncBuffer{}
	obs := NewObserver(store, PhoneView{}, out)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errc := make(chan error, 1)
	go func() { errc <- obs.Run(ctx) }()

	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Health Data")
	}, time.Second, 10*time.Millisecond)

	<-store.Apply("Heart Rate", "72.00")

	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Heart Rate  72.00")
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-errc:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("observer did not stop")
	}
}

func TestObserverStopsWhenStoreCloses(t *testing.T) {
	store := core.NewStore(nil)
	obs := NewObserver(store, WatchView{}, &syncBuffer{})

	errc := make(chan error, 1)
	go func() { errc <- obs.Run(context.Background()) }()

	// give Run a chance to subscribe; either order ends the observer
	time.Sleep(20 * time.Millisecond)
	store.Close()

	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("observer did not stop")
	}
}
