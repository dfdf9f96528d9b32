package main

import "github.com/aalvaropc/gmscraper/internal/cli"

func main() {
	cli.Execute()
}
