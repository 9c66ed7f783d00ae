package main

import "refsync/cmd"

func main() {
	cmd.Execute()
}
