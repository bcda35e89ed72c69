package main

import "github.com/taskhive-dev/taskhive/cmd/taskhive/cmd"

func main() {
	cmd.Execute()
}
