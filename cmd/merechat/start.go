package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/mereapp/merechat/internal/api"
	"github.com/mereapp/merechat/internal/config"
)

// runStart creates a conversation with the listed participants. The current
// user from the config is always included.
func runStart(args []string) {
	fs := flag.NewFlagSet("start", flag.ExitOnError)
	configPath := fs.String("config", "", "Config file path (default: MERECHAT_CONFIG or config/merechat.yaml)")
	fs.Parse(args)

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: merechat start [options] <user[,user...]>")
		os.Exit(1)
	}

	cfg := config.Load(*configPath)

	participants := []string{}
	for _, p := range strings.Split(fs.Arg(0), ",") {
		if p = strings.TrimSpace(p); p != "" {
			participants = append(participants, p)
		}
	}
	if cfg.User != "" && !contains(participants, cfg.User) {
		participants = append(participants, cfg.User)
	}
	if len(participants) < 2 {
		log.Fatal("start: need at least one other participant")
	}

	client := api.NewClient(cfg.APIURL, cfg.Token)
	summary, err := client.StartChat(context.Background(), participants)
	if err != nil {
		log.Fatalf("start chat: %v", err)
	}
	fmt.Printf("%s  %s\n", summary.ID, summary.Label(cfg.User))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
