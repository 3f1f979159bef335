package main

import "zr3/marketer/cmd"

func main() {
	cmd.Execute()
}
