package main

import "nathanbeddoewebdev/ptrgen/cmd"

func main() {
	cmd.Execute()
}
