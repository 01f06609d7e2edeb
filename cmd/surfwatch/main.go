package main

import "surfwatch/internal/cli"

func main() {
	cli.Execute()
}
