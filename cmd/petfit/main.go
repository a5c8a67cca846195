package main

import "github.com/petfit/backend/internal/cli"

func main() {
	cli.Execute()
}
