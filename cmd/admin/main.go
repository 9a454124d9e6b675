package main

import "yamdb/cmd/admin/command"

func main() {
	command.Execute()
}
