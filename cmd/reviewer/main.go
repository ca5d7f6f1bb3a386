package main

import "reviewer/internal/cli"

func main() {
	cli.Execute()
}
