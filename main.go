package main

import "go.infratographer.com/haproxy-diagram/cmd"

func main() {
	cmd.Execute()
}
