package net

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestHubBroadcastReachesViewers(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	srv := httptest.NewServer(hub)
	defer srv.Close()
	defer hub.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	received := make(chan string, 4)
	client, err := Dial(context.Background(), url, zerolog.Nop(), func(name string, args []any) {
		received <- name
	})
	if err != nil {
		t.Fatalf("Dial error: %v", err)
	}
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Run(ctx)

	// Wait for the hub to register the viewer.
	deadline := time.Now().Add(2 * time.Second)
	for hub.ViewerCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("viewer never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	frame, err := EncodePing("keybinds", []any{1.0, 3.0})
	if err != nil {
		t.Fatalf("EncodePing error: %v", err)
	}
	hub.Broadcast(frame)

	select {
	case name := <-received:
		if name != "keybinds" {
			t.Errorf("received ping %q, want %q", name, "keybinds")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("viewer never received the broadcast")
	}
}

func TestHubCloseDisconnectsViewers(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	srv := httptest.NewServer(hub)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, err := Dial(context.Background(), url, zerolog.Nop(), func(string, []any) {})
	if err != nil {
		t.Fatalf("Dial error: %v", err)
	}
	defer client.Close()

	runErr := make(chan error, 1)
	go func() { runErr <- client.Run(context.Background()) }()

	deadline := time.Now().Add(2 * time.Second)
	for hub.ViewerCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("viewer never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	hub.Close()

	select {
	case err := <-runErr:
		if err == nil {
			t.Error("Run returned nil after hub close, want connection error")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("client never noticed the disconnect")
	}

	if hub.ViewerCount() != 0 {
		t.Errorf("ViewerCount after close = %d, want 0", hub.ViewerCount())
	}
}
