package main

import (
	"github.com/pyneda/apifuzz/cmd"
	"github.com/pyneda/apifuzz/internal/config"
)

func main() {
	config.LoadConfig()
	cmd.Execute()
}
