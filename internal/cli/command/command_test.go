package command

import (
	"bytes"
	"context"
	"net"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yndnr/respkv/internal/server/redisserver"
	"github.com/yndnr/respkv/internal/storage/memory"
)

func startServer(t *testing.T) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	store := memory.New()
	srv := redisserver.New(nil, store, nil)
	go func() { _ = srv.Serve(context.Background(), ln) }()

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
		_ = store.Close()
	})
	return ln.Addr().String()
}

// runCLI runs the app against addr and returns what it printed.
func runCLI(t *testing.T, addr, stdin string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	app := App()
	app.Writer = &out
	app.ErrWriter = &out
	app.Reader = strings.NewReader(stdin)

	argv := append([]string{"respkv-cli",
		"--server", addr,
		"--history-file", filepath.Join(t.TempDir(), "history"),
	}, args...)
	err := app.Run(argv)
	return out.String(), err
}

func TestApp(t *testing.T) {
	app := App()
	if app.Name != "respkv-cli" {
		t.Errorf("Name = %q, want %q", app.Name, "respkv-cli")
	}

	commandNames := make(map[string]bool)
	for _, cmd := range app.Commands {
		commandNames[cmd.Name] = true
	}
	for _, name := range []string{"ping", "echo", "get", "set"} {
		if !commandNames[name] {
			t.Errorf("missing command: %s", name)
		}
	}

	flagNames := make(map[string]bool)
	for _, flag := range app.Flags {
		flagNames[flag.Names()[0]] = true
	}
	for _, name := range []string{"server", "timeout", "output", "history-file"} {
		if !flagNames[name] {
			t.Errorf("missing flag: %s", name)
		}
	}
}

func TestCommands(t *testing.T) {
	addr := startServer(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"ping", []string{"ping"}, "PONG\n"},
		{"ping message", []string{"ping", "hi"}, "\"hi\"\n"},
		{"echo", []string{"echo", "hello world"}, "\"hello world\"\n"},
		{"get missing", []string{"get", "nope"}, "(nil)\n"},
		{"set", []string{"set", "k", "v"}, "OK\n"},
		{"get after set", []string{"get", "k"}, "\"v\"\n"},
		{"json output", []string{"--output", "json", "get", "k"}, "\"v\"\n"},
		{"yaml null", []string{"-o", "yaml", "get", "nope"}, "null\n"},
		{"raw command", []string{"ECHO", "raw"}, "\"raw\"\n"},
	}

	// Subtests share the server and run in order.
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runCLI(t, addr, "", tt.args...)
			if err != nil {
				t.Fatalf("run %v: %v", tt.args, err)
			}
			if got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSetPX(t *testing.T) {
	addr := startServer(t)

	if _, err := runCLI(t, addr, "", "set", "--px", "50", "temp", "v"); err != nil {
		t.Fatalf("set --px: %v", err)
	}
	time.Sleep(150 * time.Millisecond)

	got, err := runCLI(t, addr, "", "get", "temp")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "(nil)\n" {
		t.Errorf("get after expiry = %q, want (nil)", got)
	}
}

func TestArgumentErrors(t *testing.T) {
	addr := startServer(t)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"echo no message", []string{"echo"}, "exactly one"},
		{"get two keys", []string{"get", "a", "b"}, "exactly one"},
		{"set missing value", []string{"set", "k"}, "key and a value"},
		{"set zero px", []string{"set", "--px", "0", "k", "v"}, "--px must be positive"},
		{"bad output", []string{"--output", "table", "ping"}, "unknown output format"},
		{"rejected raw command", []string{"FLUSHALL"}, "server closed the connection"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, addr, "", tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestConnectError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	_, err = runCLI(t, addr, "", "ping")
	if err == nil || !strings.Contains(err.Error(), "could not connect") {
		t.Errorf("error = %v, want connect failure", err)
	}
}

func TestInteractive(t *testing.T) {
	addr := startServer(t)

	got, err := runCLI(t, addr, "SET greeting \"hi there\"\nGET greeting\nexit\n")
	if err != nil {
		t.Fatalf("interactive: %v", err)
	}

	prompt := addr + "> "
	want := prompt + "OK\n" + prompt + "\"hi there\"\n" + prompt
	if got != want {
		t.Errorf("session output = %q, want %q", got, want)
	}
}
