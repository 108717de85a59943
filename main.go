package main

import "ticket-tracker.com/ticket-tracker/cmd"

func main() {
	cmd.Execute()
}
