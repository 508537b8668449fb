package main

import "coffeerange/cmd"

func main() {
	cmd.Execute()
}
