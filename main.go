package main

// main.go — entrypoint: runs the Neovim remote-plugin host over stdio.

import (
	"github.com/neovim/go-client/nvim/plugin"
)

func main() {
	plugin.Main(register)
}
