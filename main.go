package main

import "github.com/iluvios/menumagic-sub001/commands"

func main() {
	commands.Execute()
}
