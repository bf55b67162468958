package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/kelseyhightower/envconfig"
	"github.com/mama165/sdk-go/logs"
	flag "github.com/spf13/pflag"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

const writeWait = 10 * time.Second

// Config defines the client-side environment variables.
// Flags take precedence over the environment.
type Config struct {
	ServerURL string `envconfig:"CHAT_SERVER_URL" default:"ws://localhost:8080/"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"WARN"`
	// CHAT_COLOURS enables colorized output for notices, whispers and errors
	Colours bool `envconfig:"CHAT_COLOURS" default:"true"`
}

func main() {
	code, err := run(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

func run(args []string) (int, error) {
	// 1. Environment, then flags
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	fs := flag.NewFlagSet("chat-client", flag.ContinueOnError)
	fs.StringVarP(&config.ServerURL, "url", "u", config.ServerURL, "Relay WebSocket URL")
	fs.BoolVar(&config.Colours, "colours", config.Colours, "Colorize notices, whispers and errors")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK, nil
		}
		return exitConfig, err
	}

	log := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Dial the relay
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, config.ServerURL, nil)
	if err != nil {
		return exitRuntime, fmt.Errorf("could not connect to relay at %s: %w", config.ServerURL, err)
	}
	defer func() {
		log.Info("Closing connection...")
		_ = conn.Close()
	}()

	out := newPrinter(os.Stdout, config.Colours)

	// 3. Reception loop, ends when the relay closes the connection
	received := make(chan error, 1)
	go func() {
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				var closeErr *websocket.CloseError
				if errors.As(err, &closeErr) {
					out.closed(closeErr.Code, closeErr.Text)
					received <- nil
					return
				}
				received <- err
				return
			}
			out.frame(string(data))
		}
	}()

	// 4. Every stdin line is one frame
	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	for {
		select {
		case <-ctx.Done():
			closeFrame := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			_ = conn.WriteControl(websocket.CloseMessage, closeFrame, time.Now().Add(writeWait))
			return exitOK, nil
		case err := <-received:
			if err != nil {
				return exitRuntime, fmt.Errorf("connection lost: %w", err)
			}
			return exitOK, nil
		case line, ok := <-lines:
			if !ok {
				lines = nil
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, []byte(line)); err != nil {
				return exitRuntime, fmt.Errorf("failed to send: %w", err)
			}
		}
	}
}
