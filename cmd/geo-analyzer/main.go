package main

import cmd "github.com/rohmanhakim/geo-analyzer/internal/cli"

func main() {
	cmd.Execute()
}
