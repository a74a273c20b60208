package push

import (
	"crypto/ecdh"
	"crypto/rand"
	"encoding/base64"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/mchou/campnook/internal/database"
	"github.com/mchou/campnook/internal/store"
)

func notifierLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// seedSubscription stores one subscription with a real P-256 keypair so
// the web push payload encryption succeeds against a test endpoint.
func seedSubscription(t *testing.T, subs *store.PushStore, memberID, endpoint string) {
	t.Helper()
	key, err := ecdh.P256().GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate subscription key: %v", err)
	}
	auth := make([]byte, 16)
	if _, err := rand.Read(auth); err != nil {
		t.Fatalf("generate auth secret: %v", err)
	}
	_, err = subs.CreateSubscription(memberID, endpoint,
		base64.RawURLEncoding.EncodeToString(key.PublicKey().Bytes()),
		base64.RawURLEncoding.EncodeToString(auth), "測試手機")
	if err != nil {
		t.Fatalf("create subscription: %v", err)
	}
}

func TestNotifyAllDoesNotBlockOnDelivery(t *testing.T) {
	received := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	releaseEndpoint := func() { once.Do(func() { close(release) }) }

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(received)
		<-release
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()
	defer releaseEndpoint()

	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	defer db.Close()

	subs := store.NewPushStore(db)
	seedSubscription(t, subs, "user_mom", srv.URL)

	pub, priv, err := GenerateVAPIDKeys()
	if err != nil {
		t.Fatalf("generate VAPID keys: %v", err)
	}
	n := NewNotifier(NewService(pub, priv), subs, notifierLogger())

	returned := make(chan struct{})
	go func() {
		n.NotifyAll("", Payload{Title: "裝備認領", Body: "測試"})
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(2 * time.Second):
		t.Fatal("NotifyAll blocked on the push endpoint")
	}

	select {
	case <-received:
	case <-time.After(5 * time.Second):
		t.Fatal("delivery never reached the push endpoint")
	}
	releaseEndpoint()
}

func TestNotifyAllSkipsActor(t *testing.T) {
	got := make(chan string, 2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got <- r.URL.Path
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	defer db.Close()

	subs := store.NewPushStore(db)
	seedSubscription(t, subs, "user_mom", srv.URL+"/mom")
	seedSubscription(t, subs, "user_dad", srv.URL+"/dad")

	pub, priv, err := GenerateVAPIDKeys()
	if err != nil {
		t.Fatalf("generate VAPID keys: %v", err)
	}
	n := NewNotifier(NewService(pub, priv), subs, notifierLogger())

	n.NotifyAll("user_mom", Payload{Title: "裝備認領"})

	select {
	case path := <-got:
		if path != "/dad" {
			t.Fatalf("delivered to %s, want /dad only", path)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("delivery never reached the push endpoint")
	}
	select {
	case path := <-got:
		t.Fatalf("unexpected second delivery to %s", path)
	case <-time.After(200 * time.Millisecond):
	}
}
