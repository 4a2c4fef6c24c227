package main

import "github.com/teampulse/attendance-points/cmd"

func main() {
	cmd.Execute()
}
