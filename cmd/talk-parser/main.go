package main

import cmd "github.com/rohmanhakim/talk-parser/internal/cli"

func main() {
	cmd.Execute()
}
