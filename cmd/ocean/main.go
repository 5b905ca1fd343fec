package main

import (
	"github.com/AINative-Studio/ocean-backend-sub001/internal/adapters/driving/cli"
)

func main() {
	cli.Execute()
}
