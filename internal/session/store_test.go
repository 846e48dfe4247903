package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/rodaworks/academy/internal/domain/auth"
)

const adminUserJSON = `{"id":"u1","name":"Mestre Bimba","email":"admin@admin.com","role":"admin","belt":"red"}`

func adminUser(t *testing.T) *User {
	t.Helper()
	var u User
	require.NoError(t, json.Unmarshal([]byte(adminUserJSON), &u))
	return &u
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body string) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// requireCoupled asserts the token/user pair is set or cleared together at a
// settled snapshot.
func requireCoupled(t *testing.T, snap Snapshot) {
	t.Helper()
	require.True(t, snap.Phase.Settled(), "snapshot should be settled, got %s", snap.Phase)
	assert.Equal(t, snap.Token != "", snap.User != nil,
		"token and user must be set and cleared together: token=%q user=%v", snap.Token, snap.User)
}

func TestBootstrap_NothingPersisted(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	store := NewStore(NewClient(srv.URL, nil), NewMemoryStorage())
	require.NoError(t, store.Bootstrap(context.Background()))

	snap := store.Snapshot()
	assert.Equal(t, PhaseRejected, snap.Phase)
	assert.False(t, snap.Loading())
	assert.Nil(t, snap.User)
	assert.Empty(t, snap.Token)
	requireCoupled(t, snap)
	assert.Zero(t, calls.Load(), "empty bootstrap must not call the network")
}

func TestBootstrap_ConfirmsPersistedSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "GET", r.Method)
		require.Equal(t, "/auth/me", r.URL.Path)
		require.Equal(t, "Bearer t1", r.Header.Get("Authorization"))
		// Server record differs from the persisted copy; the server wins.
		writeJSON(t, w, http.StatusOK,
			`{"success":true,"user":{"id":"u1","name":"Mestre Bimba","email":"admin@admin.com","role":"instructor"}}`)
	}))
	defer srv.Close()

	storage := NewMemoryStorage()
	require.NoError(t, storage.Save("t1", adminUser(t)))

	store := NewStore(NewClient(srv.URL, nil), storage)

	var phases []Phase
	cancel := store.Subscribe(func(s Snapshot) { phases = append(phases, s.Phase) })
	defer cancel()

	require.NoError(t, store.Bootstrap(context.Background()))

	snap := store.Snapshot()
	requireCoupled(t, snap)
	assert.Equal(t, PhaseConfirmed, snap.Phase)
	assert.Equal(t, "t1", snap.Token)
	assert.Equal(t, domainauth.RoleInstructor, snap.User.Role, "server record replaces persisted copy")

	assert.Equal(t, []Phase{PhaseOptimistic, PhaseConfirmed}, phases)

	// Persisted copy refreshed with the authoritative record.
	_, persisted, err := storage.Load()
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleInstructor, persisted.Role)
}

func TestBootstrap_PurgesRejectedToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, `{"success":false,"message":"Session expired"}`)
	}))
	defer srv.Close()

	storage := NewMemoryStorage()
	require.NoError(t, storage.Save("stale", adminUser(t)))

	store := NewStore(NewClient(srv.URL, nil), storage)
	err := store.Bootstrap(context.Background())
	require.ErrorIs(t, err, ErrSessionExpired)

	snap := store.Snapshot()
	requireCoupled(t, snap)
	assert.Equal(t, PhaseRejected, snap.Phase)
	assert.Nil(t, snap.User)

	token, user, err := storage.Load()
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Nil(t, user, "durable storage must be purged")
}

func TestBootstrap_PurgesHalfWrittenPair(t *testing.T) {
	storage := NewMemoryStorage()
	require.NoError(t, storage.Save("orphan-token", nil))

	store := NewStore(NewClient("http://unreachable.invalid", nil), storage)
	require.NoError(t, store.Bootstrap(context.Background()))

	requireCoupled(t, store.Snapshot())
	token, user, err := storage.Load()
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Nil(t, user)
}

func TestBootstrap_NetworkErrorClears(t *testing.T) {
	storage := NewMemoryStorage()
	require.NoError(t, storage.Save("t1", adminUser(t)))

	store := NewStore(NewClient("http://127.0.0.1:1", nil), storage, WithTimeout(500*time.Millisecond))
	err := store.Bootstrap(context.Background())
	require.Error(t, err)

	snap := store.Snapshot()
	requireCoupled(t, snap)
	assert.Equal(t, PhaseRejected, snap.Phase)
}

func TestLogin_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "POST", r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "admin@admin.com", body["email"])
		writeJSON(t, w, http.StatusOK, `{"success":true,"token":"t1","user":`+adminUserJSON+`}`)
	}))
	defer srv.Close()

	storage := NewMemoryStorage()
	store := NewStore(NewClient(srv.URL, nil), storage)
	require.NoError(t, store.Login(context.Background(), "admin@admin.com", "secret"))

	snap := store.Snapshot()
	requireCoupled(t, snap)
	assert.Equal(t, "t1", snap.Token)
	assert.Equal(t, domainauth.RoleAdmin, snap.User.Role)

	// An admin-only route now renders.
	dec := Decide(snap, Requirement{Role: domainauth.RoleAdmin}, "/admin/users")
	assert.Equal(t, DecisionAuthorized, dec.Kind)

	token, user, err := storage.Load()
	require.NoError(t, err)
	assert.Equal(t, "t1", token)
	require.NotNil(t, user)
	assert.Equal(t, "Mestre Bimba", user.Name)
}

func TestLogin_WrongPasswordLeavesSessionUntouched(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, `{"success":false,"message":"Invalid credentials"}`)
	}))
	defer srv.Close()

	store := NewStore(NewClient(srv.URL, nil), NewMemoryStorage())
	require.NoError(t, store.Bootstrap(context.Background()))
	before := store.Snapshot()

	err := store.Login(context.Background(), "admin@admin.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Contains(t, err.Error(), "Invalid credentials", "server message surfaces to the caller")

	after := store.Snapshot()
	requireCoupled(t, after)
	assert.Equal(t, before, after, "failed login leaves the session as it was")
}

func TestLogin_SuccessFalseOnHTTP200IsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, `{"success":false,"message":"Invalid credentials"}`)
	}))
	defer srv.Close()

	store := NewStore(NewClient(srv.URL, nil), NewMemoryStorage())
	err := store.Login(context.Background(), "a@b.c", "pw")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_MissingTokenIsMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, `{"success":true,"user":`+adminUserJSON+`}`)
	}))
	defer srv.Close()

	storage := NewMemoryStorage()
	store := NewStore(NewClient(srv.URL, nil), storage)
	err := store.Login(context.Background(), "a@b.c", "pw")
	require.ErrorIs(t, err, ErrMalformedResponse)

	snap := store.Snapshot()
	requireCoupled(t, snap)
	assert.Nil(t, snap.User, "a partial response is never applied")

	token, user, loadErr := storage.Load()
	require.NoError(t, loadErr)
	assert.Empty(t, token)
	assert.Nil(t, user)
}

func TestLogin_TimeoutReleasesLoading(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	store := NewStore(NewClient(srv.URL, nil), NewMemoryStorage(), WithTimeout(50*time.Millisecond))
	err := store.Login(context.Background(), "a@b.c", "pw")
	require.Error(t, err)

	snap := store.Snapshot()
	assert.False(t, snap.Loading(), "loading must be released on timeout")
	requireCoupled(t, snap)
}

func TestLogin_SupersededBySecondLogin(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			<-release
			writeJSON(t, w, http.StatusOK, `{"success":true,"token":"slow","user":`+adminUserJSON+`}`)
			return
		}
		writeJSON(t, w, http.StatusOK,
			`{"success":true,"token":"fast","user":{"id":"u2","name":"Aluna","email":"aluna@example.com","role":"student"}}`)
	}))
	defer srv.Close()

	store := NewStore(NewClient(srv.URL, nil), NewMemoryStorage())

	firstDone := make(chan error, 1)
	go func() { firstDone <- store.Login(context.Background(), "a@b.c", "pw") }()

	// Wait for the first call to reach the server before superseding it.
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, store.Login(context.Background(), "aluna@example.com", "pw"))
	close(release)

	require.ErrorIs(t, <-firstDone, ErrSuperseded)

	snap := store.Snapshot()
	requireCoupled(t, snap)
	assert.Equal(t, "fast", snap.Token, "only the latest call's result is applied")
	assert.Equal(t, domainauth.RoleStudent, snap.User.Role)
}

func TestRegister_LogsUserIn(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/register", r.URL.Path)
		var in RegisterInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		require.Equal(t, "Novo Aluno", in.Name)
		writeJSON(t, w, http.StatusCreated,
			`{"success":true,"token":"t-new","user":{"id":"u9","name":"Novo Aluno","email":"novo@example.com","role":"student"}}`)
	}))
	defer srv.Close()

	store := NewStore(NewClient(srv.URL, nil), NewMemoryStorage())
	err := store.Register(context.Background(), RegisterInput{
		Name: "Novo Aluno", Email: "novo@example.com", Password: "pw", Phone: "555-0100",
	})
	require.NoError(t, err)

	snap := store.Snapshot()
	requireCoupled(t, snap)
	assert.Equal(t, "t-new", snap.Token)
	assert.Equal(t, domainauth.RoleStudent, snap.User.Role)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusConflict, `{"success":false,"message":"Email already registered"}`)
	}))
	defer srv.Close()

	store := NewStore(NewClient(srv.URL, nil), NewMemoryStorage())
	err := store.Register(context.Background(), RegisterInput{Name: "X", Email: "x@x.x", Password: "pw"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Email already registered")
}

func TestLogout_ClearsSessionAndStorage(t *testing.T) {
	var serverLogouts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/logout" {
			serverLogouts.Add(1)
			require.Equal(t, "Bearer t1", r.Header.Get("Authorization"))
			writeJSON(t, w, http.StatusOK, `{"success":true}`)
			return
		}
		writeJSON(t, w, http.StatusOK, `{"success":true,"user":`+adminUserJSON+`}`)
	}))
	defer srv.Close()

	storage := NewMemoryStorage()
	require.NoError(t, storage.Save("t1", adminUser(t)))

	store := NewStore(NewClient(srv.URL, nil), storage)
	require.NoError(t, store.Bootstrap(context.Background()))
	require.True(t, store.Snapshot().Authenticated())

	store.Logout(context.Background())

	snap := store.Snapshot()
	requireCoupled(t, snap)
	assert.Equal(t, PhaseRejected, snap.Phase)
	assert.Nil(t, snap.User)
	assert.Empty(t, snap.Token)

	token, user, err := storage.Load()
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Nil(t, user)
	assert.Equal(t, int32(1), serverLogouts.Load())

	// Idempotent: a second logout is a local no-op.
	store.Logout(context.Background())
	assert.Equal(t, int32(1), serverLogouts.Load(), "no token, no server call")
	requireCoupled(t, store.Snapshot())
}

func TestLogout_ServerFailureStillClearsLocally(t *testing.T) {
	storage := NewMemoryStorage()
	require.NoError(t, storage.Save("t1", adminUser(t)))

	store := NewStore(NewClient("http://127.0.0.1:1", nil), storage, WithTimeout(200*time.Millisecond))
	store.Logout(context.Background())

	snap := store.Snapshot()
	requireCoupled(t, snap)
	assert.Nil(t, snap.User)

	token, _, err := storage.Load()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestSubscribe_Cancel(t *testing.T) {
	store := NewStore(NewClient("http://unused.invalid", nil), NewMemoryStorage())

	var seen int
	cancel := store.Subscribe(func(Snapshot) { seen++ })

	require.NoError(t, store.Bootstrap(context.Background()))
	require.Equal(t, 1, seen)

	cancel()
	store.Logout(context.Background())
	assert.Equal(t, 1, seen, "cancelled subscriber receives nothing further")
}

type recordingNotifier struct {
	infos  []string
	errors []string
}

func (n *recordingNotifier) Info(msg string)  { n.infos = append(n.infos, msg) }
func (n *recordingNotifier) Error(msg string) { n.errors = append(n.errors, msg) }

func TestNotifications(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			writeJSON(t, w, http.StatusOK, `{"success":true,"token":"t1","user":`+adminUserJSON+`}`)
		default:
			writeJSON(t, w, http.StatusOK, `{"success":true}`)
		}
	}))
	defer srv.Close()

	notifier := &recordingNotifier{}
	store := NewStore(NewClient(srv.URL, nil), NewMemoryStorage(), WithNotifier(notifier))

	require.NoError(t, store.Login(context.Background(), "admin@admin.com", "pw"))
	store.Logout(context.Background())

	require.Len(t, notifier.infos, 2)
	assert.Contains(t, notifier.infos[0], "Mestre Bimba")
	assert.Equal(t, "Logged out", notifier.infos[1])
}

func TestUser_OpaqueProfileFieldsSurvivePersistence(t *testing.T) {
	u := adminUser(t)
	data, err := json.Marshal(u)
	require.NoError(t, err)
	assert.JSONEq(t, adminUserJSON, string(data), "unknown profile fields pass through untouched")
}
