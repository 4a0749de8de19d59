package main

import "github.com/holtvault/holt/cmd"

func main() {
	cmd.Execute()
}
