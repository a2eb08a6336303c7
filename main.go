package main

import "github.com/Digital-Shane/media-mover/internal/cmd"

func main() {
	cmd.Execute()
}
