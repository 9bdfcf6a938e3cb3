package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/mereapp/merechat/internal/api"
	"github.com/mereapp/merechat/internal/chat"
	"github.com/mereapp/merechat/internal/config"
)

// runChats pages through the conversation list. Each page is printed and the
// next one is fetched when the user hits enter, mirroring the list's
// scroll-sentinel behavior.
func runChats(args []string) {
	fs := flag.NewFlagSet("chats", flag.ExitOnError)
	configPath := fs.String("config", "", "Config file path (default: MERECHAT_CONFIG or config/merechat.yaml)")
	pages := fs.Int("pages", 0, "Number of pages to fetch without prompting (0 = interactive)")
	fs.Parse(args)

	cfg := config.Load(*configPath)
	client := api.NewClient(cfg.APIURL, cfg.Token)
	pager := chat.NewListPager(client, cfg.ListPageSize)
	ctx := context.Background()

	stdin := bufio.NewScanner(os.Stdin)
	page := 0
	for {
		batch, err := pager.LoadMore(ctx)
		if err != nil {
			log.Fatalf("load chats: %v", err)
		}
		if len(batch) == 0 {
			fmt.Println("(end of list)")
			return
		}
		page++

		for _, c := range batch {
			line := fmt.Sprintf("%-24s  %s", c.ID, c.Label(cfg.User))
			if !c.LastActivity.IsZero() {
				line += "  (" + c.LastActivity.Format("2006-01-02 15:04") + ")"
			}
			fmt.Println(line)
		}

		if *pages > 0 && page >= *pages {
			return
		}
		if *pages == 0 {
			fmt.Print("-- enter for more, q to quit -- ")
			if !stdin.Scan() || stdin.Text() == "q" {
				return
			}
		}
	}
}
