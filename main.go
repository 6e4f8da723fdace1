package main

import "github.com/tocsmith/tocsmith/cmd"

func main() {
	cmd.Execute()
}
