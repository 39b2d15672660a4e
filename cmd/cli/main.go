package main

import (
	"fmt"
	"os"

	"github.com/crucial707/forum-api/cmd/cli/auth"
	"github.com/crucial707/forum-api/cmd/cli/comments"
	"github.com/crucial707/forum-api/cmd/cli/forums"
	"github.com/crucial707/forum-api/cmd/cli/root"
)

func main() {
	rootCmd := root.GetRoot()
	auth.InitAuth(rootCmd)
	forums.InitForums(rootCmd)
	comments.InitComments(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
