package main

import "github.com/KaramelBytes/costboard/cmd"

func main() {
	cmd.Execute()
}
