package main

import "github.com/klytics/cellgrid/cmd"

func main() {
	cmd.Execute()
}
