package main

import "github.com/KaramelBytes/shirtstats/cmd"

func main() {
	cmd.Execute()
}
