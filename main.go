package main

import "github.com/therealmvp/cmd"

func main() {
	cmd.Execute()
}
