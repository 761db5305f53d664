package main

import "jonnyzzz.com/configs/cmd"

func main() {
	cmd.Execute()
}
