package upload

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nudibranch/nudi/cli/internal/api"
	"github.com/nudibranch/nudi/cli/internal/form"
)

// fakeStore is an in-memory file server keyed by digest.
type fakeStore struct {
	mu        sync.Mutex
	ids       map[string]string
	nextID    int
	lookups   []string
	puts      []string
	putStatus int
	lookupErr error
}

func newFakeStore(existing map[string]string) *fakeStore {
	if existing == nil {
		existing = map[string]string{}
	}
	return &fakeStore{ids: existing, nextID: 100, putStatus: http.StatusOK}
}

func (s *fakeStore) LookupFile(_ context.Context, digest string) (*api.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookups = append(s.lookups, digest)
	if s.lookupErr != nil {
		return nil, s.lookupErr
	}
	id, ok := s.ids[digest]
	if !ok {
		return &api.Response{Status: http.StatusNotFound, Body: []byte("Not Found")}, nil
	}
	return &api.Response{Status: http.StatusOK, Body: []byte(`{"file_id":` + id + `,"owns_file":true}`)}, nil
}

func (s *fakeStore) PutFile(_ context.Context, digest string, _ []byte) (*api.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.puts = append(s.puts, digest)
	if s.putStatus != http.StatusOK {
		return &api.Response{Status: s.putStatus, Body: []byte(`{"error":"nope"}`)}, nil
	}
	s.nextID++
	id := strconv.Itoa(s.nextID)
	s.ids[digest] = id
	return &api.Response{Status: http.StatusOK, Body: []byte(`{"file_id":` + id + `}`)}, nil
}

// contentDigest makes the digest equal to the content, for readable tests.
var contentDigest = HasherFunc(func(data []byte) string { return string(data) })

func blob(name, content string) Blob {
	return BytesBlob{Filename: name, Data: []byte(content)}
}

func TestRunUploadsMissingFile(t *testing.T) {
	store := newFakeStore(nil)
	store.nextID = 41
	rep := form.Representation{"file_id": "main.c"}

	c := NewCoordinator(store, WithHasher(contentDigest))
	err := c.Run(context.Background(), NewQueue(Task{Field: "file_id", File: blob("main.c", "abc123")}), rep)
	require.NoError(t, err)

	assert.Equal(t, []string{"abc123"}, store.lookups)
	assert.Equal(t, []string{"abc123"}, store.puts)
	assert.Equal(t, "42", rep["file_id"])
}

func TestRunExistingFileIsNeverUploaded(t *testing.T) {
	store := newFakeStore(map[string]string{"def456": "7"})
	rep := form.Representation{}

	c := NewCoordinator(store, WithHasher(contentDigest))
	require.NoError(t, c.Run(context.Background(), NewQueue(Task{Field: "file_id", File: blob("x", "def456")}), rep))

	assert.Equal(t, []string{"def456"}, store.lookups)
	assert.Empty(t, store.puts)
	assert.Equal(t, "7", rep["file_id"])
}

func TestRunResubmitChecksOnly(t *testing.T) {
	store := newFakeStore(nil)
	c := NewCoordinator(store, WithHasher(contentDigest))
	task := Task{Field: "f", File: blob("a", "same")}

	require.NoError(t, c.Run(context.Background(), NewQueue(task), form.Representation{}))
	require.NoError(t, c.Run(context.Background(), NewQueue(task), form.Representation{}))

	assert.Len(t, store.lookups, 2)
	assert.Len(t, store.puts, 1)
}

func TestRunProcessesEveryTaskOneAtATime(t *testing.T) {
	store := newFakeStore(map[string]string{"one": "1"})
	rep := form.Representation{}
	var events []Event

	c := NewCoordinator(store, WithHasher(contentDigest), WithObserver(func(ev Event) {
		events = append(events, ev)
	}))
	q := NewQueue(
		Task{Field: "a", File: blob("a", "one")},
		Task{Field: "tc.b", File: blob("b", "two")},
	)
	require.NoError(t, c.Run(context.Background(), q, rep))

	assert.Equal(t, 0, q.Len())
	assert.Equal(t, "1", rep["a"])
	got, ok := rep.Get("tc.b")
	require.True(t, ok)
	assert.Equal(t, "101", got)

	var kinds []EventKind
	for _, ev := range events {
		kinds = append(kinds, ev.Kind)
	}
	// last pushed is processed first
	assert.Equal(t, []EventKind{
		EventStarted, EventUploading, EventResolved,
		EventStarted, EventFound, EventResolved,
		EventDone,
	}, kinds)
	assert.Equal(t, "tc.b", events[0].Field)
	assert.Equal(t, 1, events[0].Remaining)
}

func TestRunEmptyQueueCompletesImmediately(t *testing.T) {
	store := newFakeStore(nil)
	done := 0
	c := NewCoordinator(store, WithObserver(func(ev Event) {
		if ev.Kind == EventDone {
			done++
		}
	}))

	require.NoError(t, c.Run(context.Background(), NewQueue(), form.Representation{}))
	assert.Equal(t, 1, done)
	assert.Empty(t, store.lookups)
}

func TestRunUploadFailureStopsQueue(t *testing.T) {
	store := newFakeStore(nil)
	store.putStatus = http.StatusBadRequest
	rep := form.Representation{"first": "x"}

	c := NewCoordinator(store, WithHasher(contentDigest))
	q := NewQueue(
		Task{Field: "first", File: blob("first.c", "aaa")},
		Task{Field: "second", File: blob("second.c", "bbb")},
	)
	err := c.Run(context.Background(), q, rep)
	require.Error(t, err)

	var ue *Error
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, StageUpload, ue.Stage)
	assert.Equal(t, "second", ue.Field)
	assert.Equal(t, "bbb", ue.Digest)
	assert.Equal(t, http.StatusBadRequest, ue.Status)
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
	assert.Equal(t, "upload second.c (field second): upload: HTTP 400", err.Error())

	assert.Equal(t, 1, q.Len(), "remaining task is not processed")
	assert.Equal(t, "x", rep["first"])
}

func TestRunUnexpectedLookupStatus(t *testing.T) {
	store := &statusStore{status: http.StatusInternalServerError}
	err := NewCoordinator(store).Run(context.Background(), NewQueue(Task{Field: "f", File: blob("a", "z")}), form.Representation{})

	var ue *Error
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, StageLookup, ue.Stage)
	assert.Equal(t, http.StatusInternalServerError, ue.Status)
	assert.Equal(t, 0, store.puts)
}

func TestRunTransportFailure(t *testing.T) {
	store := newFakeStore(nil)
	store.lookupErr = api.ErrNetwork

	err := NewCoordinator(store).Run(context.Background(), NewQueue(Task{Field: "f", File: blob("a", "z")}), form.Representation{})
	assert.ErrorIs(t, err, api.ErrNetwork)
}

func TestRunMalformedFileRecord(t *testing.T) {
	store := &statusStore{status: http.StatusOK, body: `{"owns_file":true}`}
	err := NewCoordinator(store).Run(context.Background(), NewQueue(Task{Field: "f", File: blob("a", "z")}), form.Representation{})

	var ue *Error
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, StageLookup, ue.Stage)
	assert.Contains(t, err.Error(), "file_id")
}

func TestRunReadFailure(t *testing.T) {
	store := newFakeStore(nil)
	err := NewCoordinator(store).Run(context.Background(),
		NewQueue(Task{Field: "f", File: PathBlob("/definitely/not/here.c")}), form.Representation{})

	var ue *Error
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, StageRead, ue.Stage)
	assert.Equal(t, "here.c", ue.File)
	assert.Empty(t, store.lookups)
}

func TestRunCancelledContext(t *testing.T) {
	store := newFakeStore(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewCoordinator(store).Run(ctx, NewQueue(Task{Field: "f", File: blob("a", "z")}), form.Representation{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, store.lookups)
}

func TestRunRecordFailure(t *testing.T) {
	store := newFakeStore(map[string]string{"z": "1"})
	rep := form.Representation{"tc": map[string]any{"a": "b"}}

	err := NewCoordinator(store, WithHasher(contentDigest)).Run(context.Background(),
		NewQueue(Task{Field: "tc", File: blob("a", "z")}), rep)

	var ue *Error
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, StageRecord, ue.Stage)
}

func TestResolveAgainstServer(t *testing.T) {
	var mu sync.Mutex
	var calls []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls = append(calls, r.Method+" "+r.URL.Path)
		mu.Unlock()
		switch {
		case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/info"):
			w.WriteHeader(http.StatusNotFound)
		case r.Method == http.MethodPut:
			body, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"b64data":"aGVsbG8="}`, string(body))
			io.WriteString(w, `{"file_id": 42}`)
		default:
			w.WriteHeader(http.StatusTeapot)
		}
	}))
	t.Cleanup(srv.Close)

	c := NewCoordinator(api.NewClient(srv.URL, ""))
	id, err := c.Resolve(context.Background(), Task{Field: "file_id", File: blob("hello.txt", "hello")})
	require.NoError(t, err)
	assert.Equal(t, api.FileID("42"), id)

	digest := SHA1Hasher{}.Digest([]byte("hello"))
	assert.Equal(t, []string{
		"GET /file/" + digest + "/info",
		"PUT /file/" + digest,
	}, calls)
}

func TestErrorMessageIncludesCause(t *testing.T) {
	err := &Error{Field: "f", File: "a.c", Stage: StageRead, Err: errors.New("open: denied")}
	assert.Equal(t, "upload a.c (field f): read: open: denied", err.Error())
}

type statusStore struct {
	status int
	body   string
	puts   int
}

func (s *statusStore) LookupFile(context.Context, string) (*api.Response, error) {
	return &api.Response{Status: s.status, Body: []byte(s.body)}, nil
}

func (s *statusStore) PutFile(context.Context, string, []byte) (*api.Response, error) {
	s.puts++
	return &api.Response{Status: http.StatusOK, Body: []byte(`{"file_id":1}`)}, nil
}
