package main

import "vidya/cmd"

func main() {
	cmd.Execute()
}
