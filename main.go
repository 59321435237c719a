package main

import (
	"os"

	"github.com/shivamhw/reddit-purge/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
