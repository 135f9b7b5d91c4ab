package main

import "github.com/custodia-labs/loreseek/internal/adapters/driving/cli"

func main() {
	cli.Execute()
}
