package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mereapp/merechat/internal/api"
	"github.com/mereapp/merechat/internal/chat"
	"github.com/mereapp/merechat/internal/config"
	"github.com/mereapp/merechat/internal/metrics"
	"github.com/mereapp/merechat/internal/protocol"
	"github.com/mereapp/merechat/internal/ratelimit"
	"github.com/mereapp/merechat/internal/transport"
	"github.com/mereapp/merechat/internal/view"
)

// runChat opens one conversation: loads history, follows live frames, and
// sends stdin lines optimistically over the gateway with the REST fallback.
func runChat(args []string) {
	fs := flag.NewFlagSet("chat", flag.ExitOnError)
	configPath := fs.String("config", "", "Config file path (default: MERECHAT_CONFIG or config/merechat.yaml)")
	metricsAddr := fs.String("metrics-addr", "", "Expose Prometheus metrics on this address (e.g. :9100)")
	fs.Parse(args)

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: merechat chat [options] <chat-id>")
		os.Exit(1)
	}
	chatID := fs.Arg(0)

	cfg := config.Load(*configPath)
	client := api.NewClient(cfg.APIURL, cfg.Token)

	conn := transport.New(transport.Config{
		URL:       cfg.GatewayURL,
		Token:     cfg.Token,
		BaseDelay: cfg.BackoffBase,
		MaxDelay:  cfg.BackoffMax,
		Hello:     protocol.NewPresenceFrame(true),
	})

	session := chat.NewSession(client, conn, chat.SessionConfig{
		User:     cfg.User,
		PageSize: cfg.PageSize,
		Measure:  view.Measure,
		Limiter:  ratelimit.NewLimiter(),
		OnEvent:  printEvent,
	})

	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			log.Printf("[chat] metrics on %s/metrics", *metricsAddr)
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				log.Printf("[chat] metrics server: %v", err)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := session.Open(ctx, chatID); err != nil {
		log.Fatalf("open chat: %v", err)
	}
	defer session.Close("client exiting")

	for _, m := range session.Messages() {
		printMessage(m, cfg.User)
	}
	fmt.Println("-- type to send, /older for history, /quit to exit --")

	lines := make(chan string)
	go func() {
		defer close(lines)
		stdin := bufio.NewScanner(os.Stdin)
		for stdin.Scan() {
			lines <- stdin.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			switch strings.TrimSpace(line) {
			case "/quit":
				return
			case "/older":
				if err := session.LoadOlder(ctx); err != nil {
					log.Printf("[chat] load older: %v", err)
					continue
				}
				for _, m := range session.Messages() {
					printMessage(m, cfg.User)
				}
			default:
				session.Typing()
				if err := session.Send(ctx, line); err != nil {
					log.Printf("[chat] send: %v", err)
				}
			}
		}
	}
}

func printEvent(ev chat.Event) {
	switch ev.Kind {
	case chat.EventMessage:
		printMessage(ev.Message, "")
	case chat.EventConfirmed:
		fmt.Printf("  ✓ delivered (%s)\n", ev.Message.ID)
	case chat.EventTyping:
		fmt.Printf("  %s is typing…\n", ev.Sender)
	case chat.EventPresence:
		state := "offline"
		if ev.Online {
			state = "online"
		}
		fmt.Printf("  %s is %s\n", ev.Sender, state)
	}
}

func printMessage(m chat.Message, currentUser string) {
	body := m.Content
	if m.Deleted {
		body = "[deleted]"
	} else if m.Media != nil {
		body = strings.TrimSpace(body + " <" + m.Media.URL + ">")
	}

	marker := " "
	if m.Pending {
		marker = "…"
	} else if currentUser != "" && m.Sender == currentUser {
		marker = "✓"
	}
	fmt.Printf("%s [%s] %s: %s\n", marker, m.CreatedAt.Format("15:04"), m.Sender, body)
}
