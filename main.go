package main

import "nathanbeddoewebdev/dnsm/cmd"

func main() {
	cmd.Execute()
}
