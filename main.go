package main

import "github.com/naka-gawa/commit-streaks/cmd"

func main() {
	cmd.Execute()
}
