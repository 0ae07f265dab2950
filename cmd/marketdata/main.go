package main

import "github.com/Arzazrel/Project-LSMSDB-25/internal/cli"

func main() {
	cli.Execute()
}
