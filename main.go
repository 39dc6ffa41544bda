package main

import (
	"fmt"
	"os"

	"github.com/theirongolddev/spendview/cmd"
	"github.com/theirongolddev/spendview/internal/config"
)

func main() {
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "  %v\n", err)
	}
	cmd.Execute()
}
