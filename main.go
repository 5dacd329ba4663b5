package main

import "github.com/bhushanpoojary/findesktop/cmd"

func main() {
	cmd.Execute()
}
