// Package main is the entry point for the merechat client binary.
// It provides subcommands for the chat and ticketing surfaces:
//
//   - chats:   list conversations page by page
//   - chat:    open one conversation interactively
//   - start:   start a new conversation
//   - seatmap: generate a venue layout and render it as SVG
//
// Usage:
//
//	merechat <command> [options]
package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "chats":
		runChats(os.Args[2:])
	case "chat":
		runChat(os.Args[2:])
	case "start":
		runStart(os.Args[2:])
	case "seatmap":
		runSeatmap(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: merechat <command> [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  chats       List conversations, one page per keypress")
	fmt.Println("  chat <id>   Open a conversation: live messages, optimistic send, history on demand")
	fmt.Println("  start       Start a conversation with the given participants")
	fmt.Println("  seatmap     Generate a stadium layout and write its SVG rendering")
	fmt.Println()
	fmt.Println("Run 'merechat <command> -h' for command-specific options.")
}
