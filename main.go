package main

import "embydebug/cmd"

func main() {
	cmd.Execute()
}
